package parser

import (
	"fmt"
	"strings"

	"github.com/agusespa/semsplit/internal/types"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

const maxErrorContext = 40

// newParseError reports the first ERROR or MISSING node in document order.
func newParseError(language, filePath string, root *sitter.Node, src []byte) *types.ParseError {
	perr := &types.ParseError{
		Language: language,
		FilePath: filePath,
		Line:     1,
		Message:  "syntax error",
	}

	node := firstSyntaxError(root)
	if node == nil {
		return perr
	}

	pos := node.StartPosition()
	perr.Line = int(pos.Row) + 1
	perr.Column = utf16Column(src, node.StartByte(), pos.Column)

	if node.IsMissing() {
		perr.Message = fmt.Sprintf("missing %q", node.Kind())
		return perr
	}

	text := strings.TrimSpace(node.Utf8Text(src))
	if text == "" {
		return perr
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if len(text) > maxErrorContext {
		text = text[:maxErrorContext] + "..."
	}
	perr.Message = fmt.Sprintf("unexpected %q", text)
	return perr
}

func firstSyntaxError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstSyntaxError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
