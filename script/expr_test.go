package script

import (
	"testing"

	"github.com/avicd/go-kifu/expr"
	"github.com/stretchr/testify/assert"
)

func TestExprNode(t *testing.T) {
	builder := NewSqlBuilder()
	node := &ExprNode{Node: expr.Select("id").From("players").
		Where(expr.Key("country").Eq("JP"), expr.Key("wins").Gt(10)).
		Limit(5)}

	sqlStr := builder.Build(node)
	assert.Equal(t, "SELECT id FROM players WHERE country = #{_expr_var_1} AND wins > #{_expr_var_2} LIMIT 5", sqlStr)
	assert.Equal(t, "JP", builder.Eval("_expr_var_1"))
	assert.EqualValues(t, 10, builder.Eval("_expr_var_2"))
}

func TestExprNodeError(t *testing.T) {
	builder := NewSqlBuilder()
	node := &ExprNode{Node: expr.Select().From("players;")}
	assert.PanicsWithError(t, `expr: invalid key: "players;"`, func() {
		builder.Build(node)
	})
}

func TestCheckInject(t *testing.T) {
	assert.NoError(t, CheckInject("rank_value"))
	assert.NoError(t, CheckInject(""))
	assert.ErrorIs(t, CheckInject("1; DROP TABLE games"), ErrInjectValue)
	assert.ErrorIs(t, CheckInject("name' --"), ErrInjectValue)
}
