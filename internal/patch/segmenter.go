package patch

import (
	"errors"
	"strings"
)

// ErrNoHunks is the cause reported when a patch yields no hunks.
var ErrNoHunks = errors.New("patch contains no hunks")

// Fragment file headers are placeholders; the fragment's hunks carry the
// line numbers, the caller knows which file it applies to.
const (
	fragmentOldHeader = "---"
	fragmentNewHeader = "+++"
)

// Result is the outcome of splitting a patch.
type Result struct {
	Fragments []string
	// Degraded is set when the input produced no hunks and Fragments holds
	// the original text as its only element.
	Degraded bool
	// Cause explains a degraded result.
	Cause error
}

// Span is the line extent of a symbol in one source version.
type Span struct {
	Key   string
	Start int
	End   int
}

// SplitByHunk emits one fragment per hunk across all files in the patch.
func SplitByHunk(text string) Result {
	doc, err := Parse(text)
	if err != nil {
		return degraded(text, err)
	}
	if doc.HunkCount() == 0 {
		return degraded(text, ErrNoHunks)
	}

	fragments := make([]string, 0, doc.HunkCount())
	for _, f := range doc.Files {
		for _, h := range f.Hunks {
			fragments = append(fragments, renderFragment(h))
		}
	}
	return Result{Fragments: fragments}
}

// SplitBySymbol aligns every hunk of the file at filePath with the smallest
// symbol span enclosing its changed lines and merges hunks that land in the
// same symbol into one fragment. Added lines are matched against the after
// spans, removed lines against the before spans. Hunks that fit no span, and
// hunks of other files, get a fragment of their own. Fragments keep the
// order of their first hunk.
func SplitBySymbol(text, filePath string, before, after []Span) Result {
	doc, err := Parse(text)
	if err != nil {
		return degraded(text, err)
	}
	if doc.HunkCount() == 0 {
		return degraded(text, ErrNoHunks)
	}

	target := targetFile(doc, filePath)

	var groups [][]Hunk
	groupBySymbol := make(map[string]int)
	for fi, f := range doc.Files {
		for _, h := range f.Hunks {
			key := ""
			if fi == target {
				key = alignHunk(h, before, after)
			}
			if key == "" {
				groups = append(groups, []Hunk{h})
				continue
			}
			if idx, ok := groupBySymbol[key]; ok {
				groups[idx] = append(groups[idx], h)
				continue
			}
			groupBySymbol[key] = len(groups)
			groups = append(groups, []Hunk{h})
		}
	}

	fragments := make([]string, 0, len(groups))
	for _, hunks := range groups {
		fragments = append(fragments, renderFragment(hunks...))
	}
	return Result{Fragments: fragments}
}

func degraded(text string, cause error) Result {
	return Result{
		Fragments: []string{text},
		Degraded:  true,
		Cause:     cause,
	}
}

func renderFragment(hunks ...Hunk) string {
	parts := []string{fragmentOldHeader, fragmentNewHeader}
	for _, h := range hunks {
		parts = append(parts, h.Header(), strings.Join(h.Lines, "\n"))
	}
	return strings.Join(parts, "\n")
}

// targetFile picks the entry the symbol spans describe: the one whose path
// matches filePath, or the only entry when no path is given.
func targetFile(doc *Document, filePath string) int {
	if filePath == "" {
		if len(doc.Files) == 1 {
			return 0
		}
		return -1
	}
	filePath = strings.TrimPrefix(filePath, "./")
	for i, f := range doc.Files {
		path := f.Path()
		if path == "" {
			continue
		}
		if path == filePath || strings.HasSuffix(filePath, "/"+path) || strings.HasSuffix(path, "/"+filePath) {
			return i
		}
	}
	if len(doc.Files) == 1 && doc.Files[0].Path() == "" {
		return 0
	}
	return -1
}

func alignHunk(h Hunk, before, after []Span) string {
	removed, added := h.ChangedRanges()
	if !added.Empty() {
		if key := smallestEnclosing(after, added); key != "" {
			return key
		}
	}
	if !removed.Empty() {
		return smallestEnclosing(before, removed)
	}
	return ""
}

func smallestEnclosing(spans []Span, r LineRange) string {
	best := -1
	for i, s := range spans {
		if !r.Within(s.Start, s.End) {
			continue
		}
		if best < 0 || s.End-s.Start < spans[best].End-spans[best].Start {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return spans[best].Key
}
