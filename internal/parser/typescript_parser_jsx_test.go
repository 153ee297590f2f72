package parser

import (
	"errors"
	"testing"

	"github.com/agusespa/semsplit/internal/types"
)

const jsxComponent = `import React from 'react';

export function Button({ label, onClick }) {
  return <button onClick={onClick}>{label}</button>;
}

export const App = () => (
  <div>
    <h1>My App</h1>
    <Button label="Click me" onClick={() => console.log('clicked')} />
  </div>
);
`

func TestTSXParser_ParseJSXFile(t *testing.T) {
	parser, err := NewTSXParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	table, err := parser.ParseSymbols("App.tsx", []byte(jsxComponent))
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	got := keysOf(table)
	want := []string{"FunctionDeclaration:Button", "const:App"}
	if len(got) != len(want) {
		t.Fatalf("Expected symbols %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Symbol %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	app, _ := table.Get("const:App")
	if app.Line != 7 || app.EndLine != 12 {
		t.Errorf("Expected App to span lines 7-12, got %d-%d", app.Line, app.EndLine)
	}
}

func TestJavaScriptParser_ParseJSXFile(t *testing.T) {
	parser, err := NewJavaScriptParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	if parser.Language() != "javascript" {
		t.Errorf("Expected language 'javascript', got '%s'", parser.Language())
	}

	table, err := parser.ParseSymbols("App.jsx", []byte(jsxComponent))
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}
	if !table.Has("FunctionDeclaration:Button") {
		t.Error("Expected to find Button declaration")
	}
}

func TestTypeScriptParser_RejectsJSX(t *testing.T) {
	parser, err := NewTypeScriptParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, err = parser.ParseSymbols("App.ts", []byte(jsxComponent))
	var perr *types.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected a ParseError for JSX under the TypeScript grammar, got %v", err)
	}
	if perr.Language != "typescript" {
		t.Errorf("Expected language 'typescript', got '%s'", perr.Language)
	}
}
