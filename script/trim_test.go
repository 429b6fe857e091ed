package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereTrim(t *testing.T) {
	builder := NewSqlBuilder()
	where := &TrimNode{
		Content: &ProxyNode{SqlNodes: []SqlNode{
			&StaticNode{Text: "and country = #{country}"},
			&StaticNode{Text: "AND wins > 3"},
		}},
		Prefix:             "WHERE",
		PrefixesToOverride: []string{"AND ", "OR "},
	}
	sqlStr := builder.Build(&ProxyNode{SqlNodes: []SqlNode{&StaticNode{Text: "SELECT * FROM players"}, where}})
	assert.Equal(t, "SELECT * FROM players WHERE country = #{country} AND wins > 3", sqlStr)
}

func TestSetTrim(t *testing.T) {
	builder := NewSqlBuilder()
	set := &TrimNode{
		Content: &ProxyNode{SqlNodes: []SqlNode{
			&StaticNode{Text: "name = #{Name},"},
			&StaticNode{Text: "rank = #{Rank},"},
		}},
		Prefix:             "SET",
		PrefixesToOverride: []string{","},
		SuffixesToOverride: []string{","},
	}
	assert.Equal(t, "SET name = #{Name}, rank = #{Rank}", builder.Build(set))
}

func TestEmptyTrim(t *testing.T) {
	builder := NewSqlBuilder()
	where := &TrimNode{Content: &ProxyNode{}, Prefix: "WHERE"}
	assert.Equal(t, "", builder.Build(where))
}

func TestChoose(t *testing.T) {
	builder := NewSqlBuilder()
	choose := &ChooseNode{
		IfNodes: []SqlNode{&IfNode{Test: "false", Content: &StaticNode{Text: "a"}}},
		Default: &StaticNode{Text: "b"},
	}
	assert.Equal(t, "b", builder.Build(choose))
}
