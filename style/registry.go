package style

import (
	"regexp"
	"sync/atomic"
)

// TextTransformer 在解析前改写标记文本。
type TextTransformer func(string) string

// Registry holds the process-wide style layer and text transformer.
//
// Writers replace the whole value through an atomic pointer and readers never
// lock: the last writer wins, and an engine that reads while another goroutine
// writes sees either the old or the new value, never a mix. Updates are meant
// for startup/configuration time, not per frame.
type Registry struct {
	styles      atomic.Pointer[Sheet]
	transformer atomic.Pointer[TextTransformer]
}

// Global is the registry engines use unless they are given their own.
var Global = &Registry{}

// SetGlobalStyles replaces the global style layer of Global.
func SetGlobalStyles(styles Sheet) { Global.SetStyles(styles) }

// SetGlobalTextTransformer replaces the global text transformer of Global.
func SetGlobalTextTransformer(fn TextTransformer) { Global.SetTextTransformer(fn) }

// SetStyles replaces the global style layer wholesale.
func (r *Registry) SetStyles(styles Sheet) {
	cp := styles.Clone()
	r.styles.Store(&cp)
}

// Styles returns the current global style layer. The result must not be modified.
func (r *Registry) Styles() Sheet {
	if p := r.styles.Load(); p != nil {
		return *p
	}
	return nil
}

func (r *Registry) SetTextTransformer(fn TextTransformer) {
	if fn == nil {
		r.transformer.Store(nil)
		return
	}
	r.transformer.Store(&fn)
}

func (r *Registry) TextTransformer() TextTransformer {
	if p := r.transformer.Load(); p != nil {
		return *p
	}
	return nil
}

// Sheet 合并基础样式、全局样式与实例样式，得到一次排版使用的完整样式表。
func (r *Registry) Sheet(instance Sheet) Sheet {
	return MergeSheets(Defaults(), r.Styles(), instance)
}

// BreakTag replaces newline runs before parsing. The self-closing form is
// accepted by both the HTML and the XML markup syntax.
const BreakTag = "<br/>"

var newlines = regexp.MustCompile(`\n+`)

// PrepareText 将换行替换为 BreakTag，再依次应用全局与实例的文本转换。
func (r *Registry) PrepareText(text string, local TextTransformer) string {
	out := newlines.ReplaceAllString(text, BreakTag)
	if global := r.TextTransformer(); global != nil {
		out = global(out)
	}
	if local != nil {
		out = local(out)
	}
	return out
}
