package types

// SymbolKind is the syntactic category of a top-level declaration.
type SymbolKind string

const (
	KindFunction  SymbolKind = "FunctionDeclaration"
	KindClass     SymbolKind = "ClassDeclaration"
	KindInterface SymbolKind = "TSInterfaceDeclaration"
	KindTypeAlias SymbolKind = "TSTypeAliasDeclaration"
	KindConst     SymbolKind = "const"
	KindLet       SymbolKind = "let"
	KindVar       SymbolKind = "var"
)

// Symbol represents a named top-level declaration found during parsing.
type Symbol struct {
	Key      string     // kind:name, unique within one version of a file
	Name     string     // The declared identifier
	Kind     SymbolKind // The declaration's syntactic category or mutability qualifier
	Source   string     // Exact source slice backing the declaration
	FilePath string     // The file path the source was read from, if known
	Line     int        // 1-based line where the declaration starts
	Column   int        // 0-based column in UTF-16 code units
	EndLine  int        // 1-based line where the declaration ends
}

// SymbolKey builds the table key for a declaration.
func SymbolKey(kind SymbolKind, name string) string {
	return string(kind) + ":" + name
}

// SymbolTable maps symbol keys to symbols for one source version, preserving
// the order in which keys were first seen.
type SymbolTable struct {
	keys    []string
	symbols map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// Put stores a symbol under its key. A later symbol with the same key
// replaces the earlier one but keeps the earlier position.
func (t *SymbolTable) Put(sym Symbol) {
	if _, exists := t.symbols[sym.Key]; !exists {
		t.keys = append(t.keys, sym.Key)
	}
	t.symbols[sym.Key] = sym
}

func (t *SymbolTable) Get(key string) (Symbol, bool) {
	if t == nil {
		return Symbol{}, false
	}
	sym, ok := t.symbols[key]
	return sym, ok
}

func (t *SymbolTable) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Symbols returns the table's symbols in key order.
func (t *SymbolTable) Symbols() []Symbol {
	if t == nil {
		return nil
	}
	out := make([]Symbol, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, t.symbols[key])
	}
	return out
}
