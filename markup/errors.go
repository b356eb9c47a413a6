package markup

import (
	"fmt"
	"strings"
)

// ParseError reports markup that cannot be parsed as a document fragment.
type ParseError struct {
	Syntax Syntax
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markup: 解析 %s 失败: %v", e.Syntax, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReservedTagWarning reports reserved document-metadata tags in the markup.
// It is not fatal; layout proceeds.
type ReservedTagWarning struct {
	Tags []string
}

func (w *ReservedTagWarning) Error() string {
	return fmt.Sprintf("markup: 文本包含保留标签 %s", strings.Join(w.Tags, " "))
}
