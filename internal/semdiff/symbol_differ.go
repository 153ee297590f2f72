package semdiff

import (
	"fmt"

	"github.com/agusespa/semsplit/internal/types"
)

// DiffSymbols compares two symbol tables. Inserts and updates come first,
// in the after table's order, followed by deletes in the before table's
// order. Two symbols are equal only when their source text is identical,
// so reformatting alone reports an update.
func DiffSymbols(before, after *types.SymbolTable) []types.SemanticChange {
	changes := []types.SemanticChange{}

	for _, sym := range after.Symbols() {
		prev, ok := before.Get(sym.Key)
		switch {
		case !ok:
			changes = append(changes, symbolChange(types.ChangeInsert, sym, "added"))
		case prev.Source != sym.Source:
			changes = append(changes, symbolChange(types.ChangeUpdate, sym, "modified"))
		}
	}

	for _, sym := range before.Symbols() {
		if !after.Has(sym.Key) {
			changes = append(changes, symbolChange(types.ChangeDelete, sym, "removed"))
		}
	}

	return changes
}

func symbolChange(changeType types.ChangeType, sym types.Symbol, action string) types.SemanticChange {
	return types.SemanticChange{
		Type:     changeType,
		Symbol:   sym.Name,
		Detail:   fmt.Sprintf("%s %s", sym.Kind, action),
		Location: &types.Location{Line: sym.Line, Column: sym.Column},
	}
}
