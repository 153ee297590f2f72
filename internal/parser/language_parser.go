package parser

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agusespa/semsplit/internal/types"
)

type LanguageParser interface {
	// ParseSymbols extracts the top-level declarations of one source version
	ParseSymbols(filePath string, content []byte) (*types.SymbolTable, error)

	// Aliases returns the lower-case language tags this parser answers to
	Aliases() []string

	// Language returns the name reported in parse errors
	Language() string
}

// ParserRegistry is the single place that decides whether a declared
// language gets parser-backed diffing.
type ParserRegistry struct {
	parsers map[string]LanguageParser
}

func NewParserRegistry() *ParserRegistry {
	registry := &ParserRegistry{
		parsers: make(map[string]LanguageParser),
	}

	tsParser, err := NewTypeScriptParser()
	if err != nil {
		panic(fmt.Errorf("failed to create TypeScript parser: %w", err))
	}
	registry.RegisterParser(tsParser)

	tsxParser, err := NewTSXParser()
	if err != nil {
		panic(fmt.Errorf("failed to create TSX parser: %w", err))
	}
	registry.RegisterParser(tsxParser)

	jsParser, err := NewJavaScriptParser()
	if err != nil {
		panic(fmt.Errorf("failed to create JavaScript parser: %w", err))
	}
	registry.RegisterParser(jsParser)

	return registry
}

func (pr *ParserRegistry) RegisterParser(parser LanguageParser) {
	for _, alias := range parser.Aliases() {
		pr.parsers[NormalizeLanguage(alias)] = parser
	}
}

// Lookup returns the parser for a declared language tag, or nil when the
// language has no parser support.
func (pr *ParserRegistry) Lookup(language string) LanguageParser {
	return pr.parsers[NormalizeLanguage(language)]
}

// SupportedLanguages returns every registered alias, sorted.
func (pr *ParserRegistry) SupportedLanguages() []string {
	aliases := make([]string, 0, len(pr.parsers))
	for alias := range pr.parsers {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	return aliases
}

// LanguageForPath guesses a language tag from a file extension. Unknown
// extensions return the bare extension so callers still get the textual
// fallback for them.
func LanguageForPath(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".ts", ".mts", ".cts":
		return "ts"
	case ".tsx":
		return "tsx"
	case ".js", ".mjs", ".cjs":
		return "js"
	case ".jsx":
		return "jsx"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

func NormalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
