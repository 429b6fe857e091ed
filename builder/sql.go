package builder

import (
	"github.com/avicd/go-kifu/script"
	"github.com/avicd/go-utilx/conv"
	"github.com/avicd/go-utilx/xmlx"
	"strings"
)

func handleTrim(node *xmlx.Node) script.SqlNode {
	content, _ := ParseSqlNode(node)
	prefix := node.AttrString("prefix")
	prefixOverrides := conv.StrToArr(node.AttrString("prefixOverrides"), "|")
	suffix := node.AttrString("suffix")
	suffixOverrides := conv.StrToArr(node.AttrString("suffixOverrides"), "|")
	return &script.TrimNode{
		Content:            content,
		Prefix:             prefix,
		PrefixesToOverride: prefixOverrides,
		Suffix:             suffix,
		SuffixesToOverride: suffixOverrides,
	}
}

func handleWhere(node *xmlx.Node) script.SqlNode {
	content, _ := ParseSqlNode(node)
	return &script.TrimNode{
		Content:            content,
		Prefix:             "WHERE",
		PrefixesToOverride: []string{"AND ", "OR ", "AND\n", "OR\n", "AND\r", "OR\r", "AND\t", "OR\t"},
	}
}

func handleSet(node *xmlx.Node) script.SqlNode {
	content, _ := ParseSqlNode(node)
	return &script.TrimNode{
		Content:            content,
		Prefix:             "SET",
		PrefixesToOverride: []string{","},
		SuffixesToOverride: []string{","},
	}
}

func handleForeach(node *xmlx.Node) script.SqlNode {
	content, _ := ParseSqlNode(node)
	collection := node.AttrString("collection")
	item := node.AttrString("item")
	index := node.AttrString("index")
	open := node.AttrString("open")
	clos := node.AttrString("close")
	separator := node.AttrString("separator")
	return &script.ForeachNode{
		Content:    content,
		Collection: collection,
		Item:       item,
		Index:      index,
		Open:       open,
		Close:      clos,
		Separator:  separator,
	}
}

func handleIf(node *xmlx.Node) script.SqlNode {
	content, _ := ParseSqlNode(node)
	test := node.AttrString("test")
	return &script.IfNode{Content: content, Test: test}
}

func handleOtherwise(node *xmlx.Node) script.SqlNode {
	content, _ := ParseSqlNode(node)
	return content
}

func handleChoose(node *xmlx.Node) script.SqlNode {
	var ifNodes []script.SqlNode
	var defaultIfNode script.SqlNode
	for p := node.FirstChild; p != nil; p = p.NextSibling {
		if p.Name == "if" {
			ifNodes = append(ifNodes, handleIf(p))
		}
		if p.Name == "otherwise" {
			defaultIfNode = handleOtherwise(p)
		}
	}
	return &script.ChooseNode{IfNodes: ifNodes, Default: defaultIfNode}
}

func handleBind(node *xmlx.Node) script.SqlNode {
	name := node.AttrString("name")
	value := node.AttrString("value")
	return &script.BindNode{Name: name, Value: value}
}

func handleInclude(node *xmlx.Node) script.SqlNode {
	content, _ := ParseSqlNode(node)
	return &script.IncludeNode{Content: content}
}

var handlers map[string]func(node *xmlx.Node) script.SqlNode

func init() {
	handlers = map[string]func(node *xmlx.Node) script.SqlNode{
		"trim":      handleTrim,
		"where":     handleWhere,
		"set":       handleSet,
		"foreach":   handleForeach,
		"if":        handleIf,
		"when":      handleIf,
		"otherwise": handleOtherwise,
		"choose":    handleChoose,
		"binding":   handleBind,
		"bind":      handleBind,
		"include":   handleInclude,
	}
}

// ParseSqlNode converts the children of a statement element into a node
// tree and reports whether it has to be rendered again on every call.
func ParseSqlNode(rootNode *xmlx.Node) (script.SqlNode, bool) {
	var sqlNodes []script.SqlNode
	isDynamic := false
	for _, p := range rootNode.ChildNodes {
		switch p.Type {
		case xmlx.CDataSectionNode, xmlx.TextNode:
			text := strings.TrimSpace(p.Value)
			if text == "" {
				continue
			}
			node := &script.TextNode{Text: text}
			if node.IsDynamic() {
				isDynamic = true
				sqlNodes = append(sqlNodes, node)
			} else {
				sqlNodes = append(sqlNodes, &script.StaticNode{Text: text})
			}
		case xmlx.ElementNode:
			handle, ok := handlers[p.Name]
			if !ok {
				continue
			}
			sqlNodes = append(sqlNodes, handle(p))
			isDynamic = true
		}
	}
	return &script.ProxyNode{SqlNodes: sqlNodes}, isDynamic
}
