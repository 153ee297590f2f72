package patch

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Hunk is one contiguous block of a unified diff. Lines holds the body
// verbatim, each line still carrying its ' ', '+', '-' or '\' marker.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Section  string
	Lines    []string
}

// Header renders the hunk header with explicit counts.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}

// FileEntry holds the hunks of one file in a patch.
type FileEntry struct {
	OrigName string
	NewName  string
	Hunks    []Hunk
}

// Path returns the file's post-change path, or its original path when the
// file was deleted, without git's a/ and b/ prefixes.
func (f FileEntry) Path() string {
	name := f.NewName
	if name == "" || name == "/dev/null" {
		name = f.OrigName
	}
	if name == "/dev/null" {
		return ""
	}
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return name
}

// Document is a parsed unified diff.
type Document struct {
	Files []FileEntry
}

func (d *Document) HunkCount() int {
	if d == nil {
		return 0
	}
	count := 0
	for _, f := range d.Files {
		count += len(f.Hunks)
	}
	return count
}

// Parse reads unified-diff text. Text without any diff headers yields an
// empty document; text that starts directly at a hunk header is read as the
// hunks of a single unnamed file.
func Parse(text string) (*Document, error) {
	doc := &Document{}

	if strings.HasPrefix(text, "@@") {
		hunks, err := diff.ParseHunks([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("failed to parse hunks: %w", err)
		}
		converted, err := convertHunks(hunks)
		if err != nil {
			return nil, err
		}
		doc.Files = append(doc.Files, FileEntry{Hunks: converted})
		return doc, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse unified diff: %w", err)
	}

	for _, fd := range fileDiffs {
		hunks, err := convertHunks(fd.Hunks)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", fd.NewName, err)
		}
		doc.Files = append(doc.Files, FileEntry{
			OrigName: fd.OrigName,
			NewName:  fd.NewName,
			Hunks:    hunks,
		})
	}

	return doc, nil
}

func convertHunks(hunks []*diff.Hunk) ([]Hunk, error) {
	out := make([]Hunk, 0, len(hunks))
	for _, h := range hunks {
		lines, err := bodyLines(h)
		if err != nil {
			return nil, err
		}
		out = append(out, Hunk{
			OldStart: int(h.OrigStartLine),
			OldLines: int(h.OrigLines),
			NewStart: int(h.NewStartLine),
			NewLines: int(h.NewLines),
			Section:  h.Section,
			Lines:    lines,
		})
	}
	return out, nil
}

// bodyLines re-prints the hunk through go-diff so that "\ No newline at end
// of file" markers, which the parser folds into offsets, come back as lines.
func bodyLines(h *diff.Hunk) ([]string, error) {
	printed, err := diff.PrintHunks([]*diff.Hunk{h})
	if err != nil {
		return nil, fmt.Errorf("failed to render hunk body: %w", err)
	}

	text := string(printed)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	} else {
		return nil, nil
	}
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
