package semdiff

import (
	"fmt"
	"strings"

	"github.com/agusespa/semsplit/internal/types"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLines is the fallback for languages without a parser. Every run of
// added or removed lines becomes one change named chunk_<i>, where i counts
// emitted changes only. Unchanged runs are skipped.
func DiffLines(before, after string) []types.SemanticChange {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	changes := []types.SemanticChange{}
	for _, d := range diffs {
		var changeType types.ChangeType
		var action string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			changeType, action = types.ChangeInsert, "added"
		case diffmatchpatch.DiffDelete:
			changeType, action = types.ChangeDelete, "removed"
		default:
			continue
		}

		changes = append(changes, types.SemanticChange{
			Type:   changeType,
			Symbol: fmt.Sprintf("chunk_%d", len(changes)),
			Detail: fmt.Sprintf("%d line(s) %s", countLines(d.Text), action),
		})
	}

	return changes
}

func countLines(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
