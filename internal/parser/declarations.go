package parser

import (
	"fmt"

	"github.com/agusespa/semsplit/internal/types"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// declShape is the closed set of top-level statement shapes the collector
// understands. Every value must be handled in collector.collect.
type declShape int

const (
	shapeOther declShape = iota
	shapeFunction
	shapeClass
	shapeInterface
	shapeTypeAlias
	shapeVariable
	shapeExport
	shapeAmbient
)

var shapeByNodeKind = map[string]declShape{
	"function_declaration":           shapeFunction,
	"generator_function_declaration": shapeFunction,
	"class_declaration":              shapeClass,
	"abstract_class_declaration":     shapeClass,
	"interface_declaration":          shapeInterface,
	"type_alias_declaration":         shapeTypeAlias,
	"lexical_declaration":            shapeVariable,
	"variable_declaration":           shapeVariable,
	"export_statement":               shapeExport,
	"ambient_declaration":            shapeAmbient,
}

var symbolKindByShape = map[declShape]types.SymbolKind{
	shapeFunction:  types.KindFunction,
	shapeClass:     types.KindClass,
	shapeInterface: types.KindInterface,
	shapeTypeAlias: types.KindTypeAlias,
}

func classify(node *sitter.Node) declShape {
	return shapeByNodeKind[node.Kind()]
}

type collector struct {
	src      []byte
	filePath string
	table    *types.SymbolTable
}

func (c *collector) collect(node *sitter.Node) {
	switch shape := classify(node); shape {
	case shapeOther:
		return
	case shapeFunction, shapeClass, shapeInterface, shapeTypeAlias:
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		c.store(node, symbolKindByShape[shape], nameNode.Utf8Text(c.src))
	case shapeVariable:
		c.collectVariables(node)
	case shapeExport:
		// Only the wrapped declaration counts; `export default <expr>` and
		// re-export lists carry no declaration field.
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			c.collect(decl)
		}
	case shapeAmbient:
		// `declare function f(): T;` wraps a function_signature, which is
		// not a declaration with a body and stays ignored.
		if decl := node.NamedChild(0); decl != nil {
			c.collect(decl)
		}
	default:
		panic(fmt.Sprintf("BUG: declaration shape %d (%s) has no handler", shape, node.Kind()))
	}
}

// collectVariables emits one symbol per declarator bound to a plain
// identifier. All of them share the statement's span.
func (c *collector) collectVariables(node *sitter.Node) {
	kind := variableKind(node)
	for i := uint(0); i < node.NamedChildCount(); i++ {
		declarator := node.NamedChild(i)
		if declarator == nil || declarator.Kind() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}
		c.store(node, kind, nameNode.Utf8Text(c.src))
	}
}

func variableKind(node *sitter.Node) types.SymbolKind {
	if node.Kind() == "variable_declaration" {
		return types.KindVar
	}
	kindNode := node.ChildByFieldName("kind")
	if kindNode == nil {
		kindNode = node.Child(0)
	}
	if kindNode == nil {
		return types.KindConst
	}
	switch kw := kindNode.Kind(); kw {
	case "const":
		return types.KindConst
	case "let":
		return types.KindLet
	default:
		return types.SymbolKind(kw)
	}
}

func (c *collector) store(node *sitter.Node, kind types.SymbolKind, name string) {
	start := node.StartPosition()
	end := node.EndPosition()
	c.table.Put(types.Symbol{
		Key:      types.SymbolKey(kind, name),
		Name:     name,
		Kind:     kind,
		Source:   string(c.src[node.StartByte():node.EndByte()]),
		FilePath: c.filePath,
		Line:     int(start.Row) + 1,
		Column:   utf16Column(c.src, node.StartByte(), start.Column),
		EndLine:  int(end.Row) + 1,
	})
}
