package parser

import (
	"fmt"

	"github.com/agusespa/semsplit/internal/types"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TypeScriptParser extracts top-level declarations from ECMAScript family
// sources. One instance serves one dialect; the grammar is shared, parsers
// are created per call.
type TypeScriptParser struct {
	name     string
	aliases  []string
	language *sitter.Language
}

// NewTypeScriptParser handles plain TypeScript, where `<T>expr` is a type
// assertion rather than JSX.
func NewTypeScriptParser() (*TypeScriptParser, error) {
	lang := sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	return newTypeScriptParser("typescript", lang, "ts", "mts", "cts", "typescript")
}

func NewTSXParser() (*TypeScriptParser, error) {
	lang := sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	return newTypeScriptParser("tsx", lang, "tsx")
}

// NewJavaScriptParser uses the TSX grammar, which accepts JavaScript with
// or without JSX.
func NewJavaScriptParser() (*TypeScriptParser, error) {
	lang := sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	return newTypeScriptParser("javascript", lang, "js", "jsx", "mjs", "cjs", "javascript")
}

func newTypeScriptParser(name string, lang *sitter.Language, aliases ...string) (*TypeScriptParser, error) {
	probe := sitter.NewParser()
	defer probe.Close()
	if err := probe.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language for %s parser: %w", name, err)
	}
	return &TypeScriptParser{
		name:     name,
		aliases:  aliases,
		language: lang,
	}, nil
}

func (tp *TypeScriptParser) Language() string {
	return tp.name
}

func (tp *TypeScriptParser) Aliases() []string {
	return tp.aliases
}

// ParseSymbols parses content and returns its top-level declarations. A
// source with syntax errors yields a *types.ParseError and no table.
func (tp *TypeScriptParser) ParseSymbols(filePath string, content []byte) (*types.SymbolTable, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tp.language); err != nil {
		return nil, fmt.Errorf("failed to set language for parser: %w", err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: tree-sitter returned nil", tp.name)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(tp.name, filePath, root, content)
	}

	c := &collector{
		src:      content,
		filePath: filePath,
		table:    types.NewSymbolTable(),
	}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		if stmt := root.NamedChild(i); stmt != nil {
			c.collect(stmt)
		}
	}

	return c.table, nil
}
