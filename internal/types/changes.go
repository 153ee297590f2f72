package types

// ChangeType classifies a semantic change.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// Location points at a declaration: 1-based line, 0-based column counted
// in UTF-16 code units.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SemanticChange is one symbol-level (or chunk-level) change record.
// Location is the after position for inserts and updates and the before
// position for deletes. Textual fallback changes carry no location.
type SemanticChange struct {
	Type     ChangeType `json:"type"`
	Symbol   string     `json:"symbol"`
	Detail   string     `json:"detail"`
	Location *Location  `json:"location,omitempty"`
}

// DiffMode tells how a SemanticDiffResponse was produced.
type DiffMode string

const (
	ModeSymbol  DiffMode = "symbol"
	ModeTextual DiffMode = "textual"
)

// Strategy selects how a patch is segmented.
type Strategy string

const (
	StrategyHunk   Strategy = "hunk"
	StrategySymbol Strategy = "symbol"
)

type SemanticDiffRequest struct {
	Before   string `json:"before"`
	After    string `json:"after"`
	Language string `json:"language"`
	FilePath string `json:"filePath,omitempty"`
}

type SemanticDiffResponse struct {
	Language string           `json:"language"`
	Changes  []SemanticChange `json:"changes"`
	Mode     DiffMode         `json:"mode,omitempty"`
}

type SplitPatchRequest struct {
	Patch    string   `json:"patch"`
	Language string   `json:"language"`
	Strategy Strategy `json:"strategy,omitempty"`
}

// SymbolSplitRequest carries both source versions of the file a patch
// touches so hunks can be aligned to declarations.
type SymbolSplitRequest struct {
	Patch    string `json:"patch"`
	Before   string `json:"before"`
	After    string `json:"after"`
	Language string `json:"language"`
	FilePath string `json:"filePath,omitempty"`
}

type SplitPatchResponse struct {
	Chunks []string `json:"chunks"`
	// Degraded is set when the patch yielded no hunks and the whole input
	// was returned as a single chunk.
	Degraded bool `json:"degraded,omitempty"`
}
