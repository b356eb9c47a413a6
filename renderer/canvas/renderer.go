package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/richtext/fonts"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/renderer"
	"github.com/ByLCY/richtext/style"
)

// 排版使用像素，canvas 使用毫米、字号使用点。约定 1px = 1pt。
const (
	ptToMm = 25.4 / 72
	mmToPt = 72 / 25.4
)

var defaultTextColor = color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}

// Renderer measures words and draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir  string
	fallback string
	log      *zap.Logger

	fontBlobs map[string][]byte // by face name
	fontPaths map[string]string // by face name

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Fonts 按字体名（样式中的 fontFace）提供字体；未配置的名字按内置字体查找。
	Fonts map[string]Resource
	// Fallback 是字体无法加载时改用的字体名，为空时加载失败直接报错。
	Fallback string
	Logger   *zap.Logger
}

// Resource can be provided either by Bytes or by Path. Path may use the
// "builtin:" prefix to reference a built-in face.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer that resolves relative font paths against baseDir.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected font resources.
func NewRendererWithOptions(opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fallback:     opts.Fallback,
		log:          log.Named("canvas"),
		fontBlobs:    map[string][]byte{},
		fontPaths:    map[string]string{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			r.fontPaths[name] = res.Path
		}
	}
	return r
}

// MeasureText 实现 layout.Measurer：以 fontSize 点创建字体面，将毫米宽度换算回像素。
func (r *Renderer) MeasureText(word, fontFace string, fontSize float64) (float64, error) {
	face, err := r.fontFace(fontFace, fontSize, defaultTextColor)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(word) * mmToPt, nil
}

// Render renders the result into a single-page PDF sized to the layout.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	width, height := toMm(pageExtent(result.Width, result.Lines)), toMm(result.Height)
	if height <= 0 {
		height = toMm(1)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	for _, line := range result.Lines {
		if err := r.drawLine(ctx, line); err != nil {
			return nil, err
		}
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// pageExtent 在未限定宽度时取最宽一行作为页宽。
func pageExtent(width float64, lines []layout.Line) float64 {
	if width > 0 {
		return width
	}
	for _, line := range lines {
		width = max(width, line.X+line.Width)
	}
	if width <= 0 {
		width = 1
	}
	return width
}

// drawLine 先绘制整行的高亮背景，再绘制阴影与文字，避免背景覆盖相邻词。
func (r *Renderer) drawLine(ctx *canvas.Context, line layout.Line) error {
	for _, tok := range line.Tokens {
		if tok.Style.Highlight() {
			drawHighlight(ctx, line, tok)
		}
	}
	for _, tok := range line.Tokens {
		if !tok.IsWord {
			continue
		}
		if err := r.drawToken(ctx, line, tok); err != nil {
			return err
		}
	}
	return nil
}

func drawHighlight(ctx *canvas.Context, line layout.Line, tok layout.Token) {
	props := tok.Style
	left := props.Float(style.PropHighlightPaddingLeft, 0)
	right := props.Float(style.PropHighlightPaddingRight, 0)
	offset := props.Float(style.PropHighlightOffset, 0)

	x := line.X + tok.X - left
	y := line.Y + offset
	ctx.SetFillColor(propColor(props, style.PropHighlightColor, color.RGBA{A: 0xff}))
	ctx.SetStrokeColor(color.RGBA{})
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(tok.Width+left+right), toMm(line.Height)))
}

func (r *Renderer) drawToken(ctx *canvas.Context, line layout.Line, tok layout.Token) error {
	props := tok.Style
	size := props.FontSize()
	x := toMm(line.X + tok.X)

	if props.Shadow() {
		shadow, err := r.fontFace(props.FontFace(), size, propColor(props, style.PropShadowColor, color.RGBA{A: 0xff}))
		if err != nil {
			return err
		}
		dx := toMm(props.Float(style.PropShadowOffsetX, 0))
		dy := toMm(props.Float(style.PropShadowOffsetY, 0))
		baseline := baselineOf(line, props, shadow)
		ctx.DrawText(x+dx, baseline+dy, canvas.NewTextLine(shadow, tok.Text, canvas.Left))
	}

	face, err := r.fontFace(props.FontFace(), size, propColor(props, style.PropTextColor, defaultTextColor))
	if err != nil {
		return err
	}
	ctx.DrawText(x, baselineOf(line, props, face), canvas.NewTextLine(face, tok.Text, canvas.Left))
	return nil
}

// baselineOf 根据 verticalAlign 计算词的基线（毫米）。默认贴底，使大小字号的词底部对齐。
func baselineOf(line layout.Line, props style.Props, face *canvas.FontFace) float64 {
	metrics := face.Metrics()
	top, height := toMm(line.Y), toMm(line.Height)
	switch strings.ToLower(props.String(style.PropVerticalAlign)) {
	case "top":
		return top + metrics.Ascent
	case "middle", "center":
		return top + (height-(metrics.Ascent+metrics.Descent))/2 + metrics.Ascent
	default:
		return top + height - metrics.Descent
	}
}

func (r *Renderer) fontFace(name string, sizePt float64, col color.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(name)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, col, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}

	family, err := r.loadFamily(name)
	if err != nil {
		if r.fallback == "" || r.fallback == name {
			return nil, err
		}
		r.log.Warn("字体加载失败，改用备用字体", zap.String("face", name), zap.String("fallback", r.fallback), zap.Error(err))
		fb, fbErr := r.loadFamily(r.fallback)
		if fbErr != nil {
			return nil, fmt.Errorf("加载备用字体 %s 失败: %w", r.fallback, fbErr)
		}
		family = fb
	}
	r.fontFamilies[name] = family
	return family, nil
}

func (r *Renderer) loadFamily(name string) (*canvas.FontFamily, error) {
	data, err := r.loadFontBytes(name)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	return family, nil
}

func (r *Renderer) loadFontBytes(name string) ([]byte, error) {
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, nil
	}
	path, ok := r.fontPaths[name]
	if !ok {
		// 未配置的字体名按内置字体查找
		return fonts.Load(name)
	}
	if strings.HasPrefix(path, fonts.Prefix) {
		return fonts.Load(path)
	}
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", path)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

// propColor 读取颜色属性。样式中的 ARGB 是非预乘的，交给 canvas 前按 NRGBA 解释。
func propColor(props style.Props, key string, def color.RGBA) color.Color {
	return color.NRGBA(props.Color(key, def))
}

// toMm 将像素（按 pt 处理）转换为毫米。
func toMm(px float64) float64 { return px * ptToMm }
