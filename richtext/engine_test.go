package richtext

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
	"github.com/ByLCY/richtext/style"
)

// countingMeasurer 每个字符 10px，并记录调用次数；遇到 fail 中的词返回错误。
type countingMeasurer struct {
	calls int
	fail  string
}

func (m *countingMeasurer) MeasureText(word, _ string, _ float64) (float64, error) {
	m.calls++
	if m.fail != "" && word == m.fail {
		return 0, errors.New("no glyphs")
	}
	return 10 * float64(utf8.RuneCountInString(word)), nil
}

type harness struct {
	sched    *FrameScheduler
	measurer *countingMeasurer
	engine   *Engine
	commits  []*layout.Result
	errs     []error
	warnings []error
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{sched: &FrameScheduler{}, measurer: &countingMeasurer{}}
	opts.Scheduler = h.sched
	if opts.Measurer == nil {
		opts.Measurer = h.measurer
	}
	if opts.Registry == nil {
		opts.Registry = &style.Registry{}
	}
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	opts.OnCommit = func(r *layout.Result) { h.commits = append(h.commits, r) }
	opts.OnError = func(err error) { h.errs = append(h.errs, err) }
	opts.OnWarning = func(err error) { h.warnings = append(h.warnings, err) }
	h.engine = New(opts)
	return h
}

func lineTexts(r *layout.Result) []string {
	out := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		out = append(out, line.Text())
	}
	return out
}

func TestInitialPassIsScheduled(t *testing.T) {
	h := newHarness(t, Options{})
	assert.Equal(t, 1, h.sched.Pending())
	assert.Equal(t, FlagAll, h.engine.Dirty())
	assert.Nil(t, h.engine.Layout())

	h.sched.Tick()
	require.Len(t, h.commits, 1)
	assert.Empty(t, h.commits[0].Lines)
	assert.Zero(t, h.commits[0].Width)
	assert.Equal(t, layout.AlignLeft, h.commits[0].Align)
}

func TestZeroWidthIsUnbounded(t *testing.T) {
	h := newHarness(t, Options{Align: layout.AlignRight})
	long := strings.Repeat("a", 30)
	h.engine.SetText(long + " " + long + "<br>b")
	h.sched.Tick()

	res := h.engine.Layout()
	require.NoError(t, h.engine.Err())
	assert.Equal(t, []string{long + " " + long, "b"}, lineTexts(res))
	assert.Zero(t, res.Width)
	assert.Equal(t, float64(0), res.Lines[0].X)
	assert.Equal(t, float64(600), res.Lines[1].X, "the widest line is the container")

	h.engine.SetWidth(400)
	h.sched.Tick()
	assert.Equal(t, 3, h.engine.NumberOfLines())
}

func TestMutationsCoalescePerTick(t *testing.T) {
	h := newHarness(t, Options{Width: 1000})
	h.sched.Tick()

	h.engine.SetText("This is <bold>bold</bold>")
	h.engine.SetStyles(style.Sheet{"bold": {style.PropFontSize: "40"}})
	h.engine.SetWidth(800)
	assert.Equal(t, 1, h.sched.Pending(), "one task per tick")
	assert.Equal(t, FlagText|FlagStyle|FlagSize, h.engine.Dirty())

	h.sched.Tick()
	require.Len(t, h.commits, 2)
	res := h.engine.Layout()
	assert.Same(t, h.commits[1], res)
	assert.Equal(t, []string{"This is bold"}, lineTexts(res))
	assert.Equal(t, 1, h.engine.NumberOfLines())
	assert.Equal(t, float64(50), res.Height, "bold at 40px has line height 50")
	assert.Equal(t, Flag(0), h.engine.Dirty())

	bold := res.Lines[0].Tokens[4]
	assert.Equal(t, "Bold", bold.Style.FontFace())
	assert.Equal(t, "bold", bold.TestTag)
}

func TestMutationDuringTickGoesToNextTick(t *testing.T) {
	h := newHarness(t, Options{})
	h.engine.SetText("a")
	h.engine.onCommit = func(*layout.Result) { h.engine.SetText("b") }

	assert.Equal(t, 1, h.sched.Tick())
	assert.Equal(t, 1, h.sched.Pending())
	assert.Equal(t, "a", h.engine.Layout().Lines[0].Text())

	h.engine.onCommit = nil
	h.sched.Tick()
	assert.Equal(t, "b", h.engine.Layout().Lines[0].Text())
}

func TestNoopSettersDoNotSchedule(t *testing.T) {
	h := newHarness(t, Options{Width: 300, Align: layout.AlignCenter})
	h.engine.SetText("x")
	h.engine.SetStyles(style.Sheet{"foo": {style.PropHighlight: "true"}})
	h.sched.Tick()

	h.engine.SetText("x")
	h.engine.SetWidth(300)
	h.engine.SetAlign(layout.AlignCenter)
	h.engine.SetStyles(style.Sheet{"foo": {style.PropHighlight: "true"}})
	h.engine.SetSyntax(markup.SyntaxHTML)
	assert.Zero(t, h.sched.Pending())
}

func TestSizeOnlyPassSkipsMeasurement(t *testing.T) {
	h := newHarness(t, Options{Width: 1000})
	h.engine.SetText("aaaa bbbb cccc")
	h.sched.Tick()
	calls := h.measurer.calls
	require.Equal(t, 1, h.engine.NumberOfLines())

	h.engine.SetWidth(95)
	h.sched.Tick()
	assert.Equal(t, calls, h.measurer.calls)
	assert.Equal(t, []string{"aaaa bbbb", "cccc"}, lineTexts(h.engine.Layout()))
	assert.Equal(t, float64(80), h.engine.Layout().Height)
}

func TestAlignmentOnlyPass(t *testing.T) {
	h := newHarness(t, Options{Width: 100})
	h.engine.SetText("abc")
	h.sched.Tick()
	calls := h.measurer.calls
	assert.Equal(t, float64(0), h.engine.Layout().Lines[0].X)

	h.engine.SetAlign(layout.AlignRight)
	h.sched.Tick()
	assert.Equal(t, calls, h.measurer.calls)
	assert.Equal(t, float64(70), h.engine.Layout().Lines[0].X)

	h.engine.SetAlign(layout.AlignCenter)
	h.sched.Tick()
	assert.Equal(t, float64(35), h.engine.Layout().Lines[0].X)
}

func TestParseErrorKeepsPreviousLayout(t *testing.T) {
	h := newHarness(t, Options{Syntax: markup.SyntaxXML})
	h.engine.SetText("<bold>ok</bold>")
	h.sched.Tick()
	good := h.engine.Layout()

	h.engine.SetText("<bold>broken")
	h.sched.Tick()
	var perr *markup.ParseError
	require.ErrorAs(t, h.engine.Err(), &perr)
	require.Len(t, h.errs, 1)
	assert.Same(t, good, h.engine.Layout())
	assert.Equal(t, FlagText, h.engine.Dirty(), "failed stages are kept for the next attempt")
	assert.Zero(t, h.sched.Pending(), "a failed pass does not reschedule itself")

	h.engine.SetText("<bold>fixed</bold>")
	h.sched.Tick()
	assert.NoError(t, h.engine.Err())
	assert.Equal(t, "fixed", h.engine.Layout().Lines[0].Text())
}

func TestMeasureErrorIsAllOrNothing(t *testing.T) {
	h := newHarness(t, Options{})
	h.engine.SetText("good")
	h.sched.Tick()
	good := h.engine.Layout()

	h.measurer.fail = "bad"
	h.engine.SetText("good bad")
	h.engine.SetAlign(layout.AlignRight)
	h.sched.Tick()

	var merr *layout.MeasureError
	require.ErrorAs(t, h.engine.Err(), &merr)
	assert.Equal(t, "bad", merr.Word)
	assert.Same(t, good, h.engine.Layout())
	assert.Equal(t, 1, h.engine.NumberOfLines())

	// 下一次修改连同之前失败的阶段一起重试
	h.measurer.fail = ""
	h.engine.SetWidth(200)
	h.sched.Tick()
	require.NoError(t, h.engine.Err())
	res := h.engine.Layout()
	assert.Equal(t, []string{"good bad"}, lineTexts(res))
	assert.Equal(t, layout.AlignRight, res.Align)
	assert.Equal(t, float64(120), res.Lines[0].X)
}

func TestReservedTagWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	h := newHarness(t, Options{Logger: zap.New(core)})
	h.engine.SetText("hi</script> there")
	h.sched.Tick()

	require.Len(t, h.warnings, 1)
	var w *markup.ReservedTagWarning
	require.ErrorAs(t, h.warnings[0], &w)
	assert.Equal(t, []string{"</script>"}, w.Tags)

	entries := logs.FilterField(zap.Strings("tags", []string{"</script>"})).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "engine", entries[0].LoggerName)

	require.NoError(t, h.engine.Err(), "layout proceeds")
	assert.NotEmpty(t, h.engine.Layout().Lines)
}

func TestUnknownTagsLoggedAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := newHarness(t, Options{Logger: zap.New(core)})
	h.engine.SetText("<foo>a</foo> <foo>b</foo> <bold>c</bold>")
	h.sched.Tick()

	entries := logs.FilterMessage("标签没有对应的样式块").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, []any{"foo"}, entries[0].ContextMap()["tags"])
}

func TestRegistryAndTransformers(t *testing.T) {
	reg := &style.Registry{}
	h := newHarness(t, Options{Registry: reg, Width: 1000})
	h.engine.SetText("a\nb")
	h.sched.Tick()
	assert.Equal(t, []string{"a", "b"}, lineTexts(h.engine.Layout()))

	reg.SetTextTransformer(func(s string) string { return strings.ReplaceAll(s, "a", "x") })
	h.engine.SetTextTransformer(strings.ToUpper)
	h.sched.Tick()
	assert.Equal(t, []string{"X", "B"}, lineTexts(h.engine.Layout()))

	reg.SetStyles(style.Sheet{style.DefaultTag: {style.PropLineHeight: "60"}})
	h.engine.MarkDirty(FlagStyle)
	h.sched.Tick()
	assert.Equal(t, float64(120), h.engine.Layout().Height)
}

func TestTextAccessors(t *testing.T) {
	h := newHarness(t, Options{})
	h.engine.SetText("Hello <bold>World</bold>")
	assert.Equal(t, "Hello World", h.engine.Text())
	assert.Equal(t, "Hello <bold>World</bold>", h.engine.HTMLText())
}

func TestImmediateSchedulerAndMissingMeasurer(t *testing.T) {
	var commits int
	e := New(Options{
		Registry: &style.Registry{},
		Measurer: layout.MeasureFunc(func(w, _ string, _ float64) (float64, error) { return float64(len(w)), nil }),
		OnCommit: func(*layout.Result) { commits++ },
	})
	assert.Equal(t, 1, commits)
	e.SetText("a b")
	assert.Equal(t, 2, commits)
	assert.Equal(t, 1, e.NumberOfLines())

	e = New(Options{Registry: &style.Registry{}})
	assert.Error(t, e.Err())
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "all", FlagAll.String())
	assert.Equal(t, "text|size", (FlagText | FlagSize).String())
	assert.Equal(t, "none", Flag(0).String())
}
