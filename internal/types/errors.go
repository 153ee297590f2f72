package types

import "fmt"

// ParseError reports source that could not be parsed for a supported language.
type ParseError struct {
	Language string
	FilePath string
	Line     int // 1-based
	Column   int // 0-based, UTF-16 code units
	Message  string
}

func (e *ParseError) Error() string {
	path := e.FilePath
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("failed to parse %s source %s: %s at line %d, column %d",
		e.Language, path, e.Message, e.Line, e.Column)
}
