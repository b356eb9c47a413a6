// Package richtext 将标记文本、样式表与宽度组合成可渲染的行布局。
//
// Engine 的 setter 只标记脏位并向调度器投递一次重算；同一 tick 内的多次修改合并为一次重算。
// 重算按脏位只执行必要的阶段：
//
//	text      解析标记 → 分词测量 → 换行 → 对齐
//	style     合并样式表 → 分词测量 → 换行 → 对齐
//	size      换行 → 对齐
//	alignment 对齐
//
// 每次重算要么整体提交，要么什么都不改变。Engine 不支持并发使用。
package richtext

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
	"github.com/ByLCY/richtext/style"
)

var errNoMeasurer = errors.New("richtext: 缺少测量后端 Measurer")

// Options configures an Engine.
type Options struct {
	// Scheduler 决定重算何时执行，为空时使用 Immediate。
	Scheduler Scheduler
	Measurer  layout.Measurer
	// Registry 提供全局样式与文本转换，为空时使用 style.Global。
	Registry *style.Registry
	Logger   *zap.Logger
	Syntax   markup.Syntax
	// Width 是换行宽度，<= 0 表示不限宽，对齐时以最宽的一行为容器。
	Width float64
	Align layout.Alignment

	OnCommit  func(*layout.Result)
	OnError   func(error)
	OnWarning func(error)
}

// state 是一次成功重算的全部中间结果，整体替换。
type state struct {
	sheet  style.Sheet
	groups []markup.Group
	tokens []layout.Token
	lines  []layout.Line
	height float64
	result *layout.Result
}

// inputs 是重算开始时的输入快照，重算期间的修改留给下一次。
type inputs struct {
	text      string
	styles    style.Sheet
	transform style.TextTransformer
	syntax    markup.Syntax
	width     float64
	align     layout.Alignment
}

// Engine 是富文本排版的脏位控制器。
type Engine struct {
	sched    Scheduler
	measurer layout.Measurer
	registry *style.Registry
	log      *zap.Logger

	onCommit  func(*layout.Result)
	onError   func(error)
	onWarning func(error)

	in inputs

	dirty     Flag
	scheduled bool

	committed state
	err       error
}

// New 创建引擎并安排首次完整重算。
func New(opts Options) *Engine {
	e := &Engine{
		sched:     opts.Scheduler,
		measurer:  opts.Measurer,
		registry:  opts.Registry,
		log:       opts.Logger,
		onCommit:  opts.OnCommit,
		onError:   opts.OnError,
		onWarning: opts.OnWarning,
		in: inputs{
			syntax: opts.Syntax,
			width:  opts.Width,
			align:  opts.Align,
		},
	}
	if e.sched == nil {
		e.sched = Immediate
	}
	if e.registry == nil {
		e.registry = style.Global
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	e.log = e.log.Named("engine")
	if e.in.align == "" {
		e.in.align = layout.AlignLeft
	}
	if e.in.syntax == "" {
		e.in.syntax = markup.SyntaxHTML
	}
	e.MarkDirty(FlagAll)
	return e
}

// SetText 设置标记文本。包含保留标签时发出警告，但排版照常进行。
func (e *Engine) SetText(text string) {
	if text == e.in.text {
		return
	}
	e.in.text = text
	if w := markup.CheckReserved(text); w != nil {
		e.log.Warn("文本包含保留标签，这些标签不应出现在富文本中", zap.Strings("tags", w.Tags))
		if e.onWarning != nil {
			e.onWarning(w)
		}
	}
	e.MarkDirty(FlagText)
}

// SetStyles 设置实例样式表，内容相同时不触发重算。
func (e *Engine) SetStyles(styles style.Sheet) {
	if styles.Equal(e.in.styles) {
		return
	}
	e.in.styles = styles.Clone()
	e.MarkDirty(FlagStyle)
}

// SetTextTransformer 设置实例文本转换，在全局转换之后执行。
func (e *Engine) SetTextTransformer(fn style.TextTransformer) {
	e.in.transform = fn
	e.MarkDirty(FlagText)
}

// SetSyntax switches the markup syntax.
func (e *Engine) SetSyntax(syntax markup.Syntax) {
	if syntax == e.in.syntax {
		return
	}
	e.in.syntax = syntax
	e.MarkDirty(FlagText)
}

func (e *Engine) SetAlign(align layout.Alignment) {
	if align == e.in.align {
		return
	}
	e.in.align = align
	e.MarkDirty(FlagAlignment)
}

func (e *Engine) SetWidth(width float64) {
	if width == e.in.width {
		return
	}
	e.in.width = width
	e.MarkDirty(FlagSize)
}

// MarkDirty 标记需要重算的阶段；本 tick 尚未安排重算时投递一次。
// 全局样式表变化后由宿主调用 MarkDirty(FlagStyle)。
func (e *Engine) MarkDirty(flags Flag) {
	e.dirty |= flags
	if e.scheduled {
		return
	}
	e.scheduled = true
	e.sched.Schedule(e.update)
}

// HTMLText returns the markup as set.
func (e *Engine) HTMLText() string { return e.in.text }

// Text returns the markup with tags stripped.
func (e *Engine) Text() string { return markup.StripTags(e.in.text) }

// Layout returns the last committed layout, nil before the first commit.
func (e *Engine) Layout() *layout.Result { return e.committed.result }

// NumberOfLines returns the line count of the last committed layout.
func (e *Engine) NumberOfLines() int { return len(e.committed.lines) }

// Err returns the error of the last pass, nil when it committed.
func (e *Engine) Err() error { return e.err }

// Dirty returns the flags waiting for the next pass.
func (e *Engine) Dirty() Flag { return e.dirty }

func (e *Engine) update() {
	flags := e.dirty
	e.dirty = 0
	e.scheduled = false
	if flags == 0 {
		return
	}

	start := time.Now()
	next, err := e.compute(flags, e.in)
	if err != nil {
		// 失败的阶段保留到下一次修改时重试，不主动重新调度
		e.dirty |= flags
		e.err = err
		e.log.Error("排版失败，保留上一次的布局", zap.Stringer("flags", flags), zap.Error(err))
		if e.onError != nil {
			e.onError(err)
		}
		return
	}

	e.committed = next
	e.err = nil
	e.log.Debug("排版完成",
		zap.Stringer("flags", flags),
		zap.Int("lines", len(next.lines)),
		zap.Float64("height", next.height),
		zap.Duration("elapsed", time.Since(start)),
	)
	if e.onCommit != nil {
		e.onCommit(next.result)
	}
}

// compute 从已提交状态出发执行 flags 对应的阶段，返回新的完整状态。
func (e *Engine) compute(flags Flag, in inputs) (state, error) {
	next := e.committed

	if flags.Has(FlagStyle) || next.sheet == nil {
		next.sheet = e.registry.Sheet(in.styles)
		flags |= FlagStyle
	}
	if flags.Has(FlagText) {
		prepared := e.registry.PrepareText(in.text, in.transform)
		groups, err := markup.Parse(prepared, in.syntax)
		if err != nil {
			return state{}, err
		}
		next.groups = groups
	}
	if flags.Has(FlagText | FlagStyle) {
		if e.measurer == nil {
			return state{}, errNoMeasurer
		}
		e.logUnknownTags(next.sheet, next.groups)
		tokens, err := layout.Segment(next.groups, next.sheet.Resolve, e.measurer)
		if err != nil {
			return state{}, err
		}
		next.tokens = tokens
	}
	if flags.Has(FlagText | FlagStyle | FlagSize) {
		next.lines, next.height = layout.Break(next.tokens, in.width)
	}

	next.result = &layout.Result{
		Width:  in.width,
		Height: next.height,
		Align:  in.align,
		Lines:  layout.Align(next.lines, in.width, in.align),
	}
	return next, nil
}

func (e *Engine) logUnknownTags(sheet style.Sheet, groups []markup.Group) {
	if ce := e.log.Check(zap.DebugLevel, "标签没有对应的样式块"); ce != nil {
		seen := map[string]struct{}{}
		var names []string
		for _, g := range groups {
			for _, name := range sheet.UnknownTags(g.Tags) {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			ce.Write(zap.Strings("tags", names))
		}
	}
}
