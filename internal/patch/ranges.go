package patch

import "strings"

// LineRange is a 1-based run of Count lines starting at Start. A zero Count
// means the range is empty.
type LineRange struct {
	Start int
	Count int
}

func (r LineRange) Empty() bool {
	return r.Count <= 0
}

// End returns the last line covered by the range.
func (r LineRange) End() int {
	return r.Start + r.Count - 1
}

// Within reports whether the whole range lies inside the inclusive lines
// [start, end].
func (r LineRange) Within(start, end int) bool {
	return !r.Empty() && start <= r.Start && r.End() <= end
}

func (r *LineRange) extend(line int) {
	if r.Empty() {
		r.Start = line
		r.Count = 1
		return
	}
	r.Count = line - r.Start + 1
}

// ChangedRanges returns the lines actually touched by the hunk, leaving out
// context: removed lines on the old side and added lines on the new side.
func (h Hunk) ChangedRanges() (removed, added LineRange) {
	oldLine, newLine := h.OldStart, h.NewStart
	for _, line := range h.Lines {
		switch {
		case strings.HasPrefix(line, "\\"):
			// "\ No newline at end of file" belongs to the previous line
		case strings.HasPrefix(line, "-"):
			removed.extend(oldLine)
			oldLine++
		case strings.HasPrefix(line, "+"):
			added.extend(newLine)
			newLine++
		default:
			oldLine++
			newLine++
		}
	}
	return removed, added
}
