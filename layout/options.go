package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/richtext/style"
)

// Measurer 返回一个词在给定字体、字号下的宽度（像素）。
// 由宿主环境提供真实的字形度量；排版过程不做缓存。
type Measurer interface {
	MeasureText(word, fontFace string, fontSize float64) (float64, error)
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(word, fontFace string, fontSize float64) (float64, error)

func (f MeasureFunc) MeasureText(word, fontFace string, fontSize float64) (float64, error) {
	return f(word, fontFace, fontSize)
}

// Resolver resolves the style of a tag chain.
type Resolver func(tags []style.Tag) style.Props

var errNoMeasurer = errors.New("layout: 缺少测量后端 Measurer")

// MeasureError reports a measurement failure; it aborts the layout pass.
type MeasureError struct {
	Word     string
	FontFace string
	FontSize float64
	Err      error
}

func (e *MeasureError) Error() string {
	return fmt.Sprintf("layout: 测量 %q（%s %gpx）失败: %v", e.Word, e.FontFace, e.FontSize, e.Err)
}

func (e *MeasureError) Unwrap() error { return e.Err }
