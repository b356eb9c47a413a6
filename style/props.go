package style

import (
	"maps"
	"strconv"
	"strings"
)

// 该文件定义样式属性表及其类型化读取方法。属性值统一以字符串保存，
// 与标记中的属性值、样式表 DSL 中的取值保持同一形态。

// Props 是扁平的“属性名 → 取值”表，属性名使用规范化后的驼峰形式。
type Props map[string]string

// Tag 表示祖先链中的一个标签：标签名与其内联属性。
type Tag struct {
	Name  string `json:"name"`
	Attrs Props  `json:"attributes"`
}

// Clone 返回浅拷贝，nil 也会得到一个可写的空表。
func (p Props) Clone() Props {
	out := make(Props, len(p))
	maps.Copy(out, p)
	return out
}

// Merge 返回 p 与 over 合并后的新表，冲突时 over 优先。
func (p Props) Merge(over Props) Props {
	out := p.Clone()
	maps.Copy(out, over)
	return out
}

// String 返回属性的原始字符串值。
func (p Props) String(key string) string { return strings.TrimSpace(p[key]) }

// Float 解析数值属性，允许 px 后缀；解析失败返回 def。
func (p Props) Float(key string, def float64) float64 {
	v := strings.TrimSuffix(strings.ToLower(p.String(key)), "px")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Bool 解析布尔属性。空串视为 false。
func (p Props) Bool(key string) bool {
	b, err := strconv.ParseBool(p.String(key))
	return err == nil && b
}

func (p Props) FontFace() string { return p.String(PropFontFace) }

func (p Props) FontSize() float64 { return p.Float(PropFontSize, DefaultFontSize) }

// LineHeight 返回以像素表示的行高，未指定时按字号的默认倍数计算。
func (p Props) LineHeight() float64 {
	return ParseLineHeight(p.String(PropLineHeight)).Resolve(p.FontSize())
}

func (p Props) Highlight() bool { return p.Bool(PropHighlight) }

func (p Props) Shadow() bool { return p.Bool(PropShadow) }

// Equal reports whether both tables hold the same properties.
func (p Props) Equal(other Props) bool { return maps.Equal(p, other) }
