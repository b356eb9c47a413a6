package style

import "strings"

// Canonical property names.
const (
	PropFontFace              = "fontFace"
	PropFontSize              = "fontSize"
	PropFontStyle             = "fontStyle"
	PropLineHeight            = "lineHeight"
	PropTextAlign             = "textAlign"
	PropVerticalAlign         = "verticalAlign"
	PropTextColor             = "textColor"
	PropHighlight             = "highlight"
	PropHighlightColor        = "highlightColor"
	PropHighlightOffset       = "highlightOffset"
	PropHighlightPaddingLeft  = "highlightPaddingLeft"
	PropHighlightPaddingRight = "highlightPaddingRight"
	PropShadow                = "shadow"
	PropShadowColor           = "shadowColor"
	PropShadowOffsetX         = "shadowOffsetX"
	PropShadowOffsetY         = "shadowOffsetY"
	PropShadowBlur            = "shadowBlur"
)

// vocabulary maps lowercased attribute names (HTML parsers lowercase them) to
// canonical property names. Names that are already single words, such as
// "highlight" or "shadow", need no entry.
var vocabulary = map[string]string{
	"fontface":              PropFontFace,
	"fontsize":              PropFontSize,
	"fontstyle":             PropFontStyle,
	"lineheight":            PropLineHeight,
	"textalign":             PropTextAlign,
	"verticalalign":         PropVerticalAlign,
	"wordwrap":              "wordWrap",
	"maxlines":              "maxLines",
	"maxlinessuffix":        "maxLinesSuffix",
	"wordwrapwidth":         "wordWrapWidth",
	"textoverflow":          "textOverflow",
	"textbaseline":          "textBaseline",
	"textcolor":             PropTextColor,
	"paddingleft":           "paddingLeft",
	"paddingright":          "paddingRight",
	"highlightcolor":        PropHighlightColor,
	"highlightoffset":       PropHighlightOffset,
	"highlightpaddingleft":  PropHighlightPaddingLeft,
	"highlightpaddingright": PropHighlightPaddingRight,
	"offsetx":               "offsetX",
	"offsety":               "offsetY",
	"shadowcolor":           PropShadowColor,
	"shadowoffsetx":         PropShadowOffsetX,
	"shadowoffsety":         PropShadowOffsetY,
	"shadowblur":            PropShadowBlur,
	"cutsx":                 "cutSx",
	"cutex":                 "cutEx",
	"cutsy":                 "cutSy",
	"cutey":                 "cutEy",
}

// CanonicalName converts an attribute name to its style property name.
// Dashes are ignored so CSS spellings (font-size) map as well; unknown names
// are returned unchanged.
func CanonicalName(attr string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(attr), "-", ""))
	if name, ok := vocabulary[key]; ok {
		return name
	}
	return attr
}

// CanonicalProps returns a copy of attrs with canonicalized keys.
func CanonicalProps(attrs map[string]string) Props {
	out := make(Props, len(attrs))
	for k, v := range attrs {
		out[CanonicalName(k)] = v
	}
	return out
}
