package parser

import (
	"unicode/utf16"
	"unicode/utf8"
)

// utf16Column converts tree-sitter's byte column into UTF-16 code units,
// the unit editors and ECMAScript tooling count columns in. startByte is
// the node's offset in src and byteColumn its column in bytes.
func utf16Column(src []byte, startByte, byteColumn uint) int {
	if byteColumn == 0 || startByte > uint(len(src)) || byteColumn > startByte {
		return int(byteColumn)
	}
	prefix := src[startByte-byteColumn : startByte]

	units := 0
	for len(prefix) > 0 {
		r, size := utf8.DecodeRune(prefix)
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
		prefix = prefix[size:]
	}
	return units
}
