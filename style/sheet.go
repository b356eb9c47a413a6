package style

import "maps"

// DefaultTag 是每条祖先链开头的合成标签名，保证所有文本都有基础样式。
const DefaultTag = "default"

// Sheet 按标签名保存样式块。
type Sheet map[string]Props

// Defaults 返回内置的基础样式，层叠中优先级最低。
// 每次调用返回新的副本，调用方可以自由修改。
func Defaults() Sheet {
	return Sheet{
		DefaultTag: {
			PropFontFace:      "Regular",
			PropFontSize:      "32",
			PropLineHeight:    "1.25x",
			PropVerticalAlign: "bottom",
		},
		"bold":    {PropFontFace: "Bold"},
		"italic":  {PropFontFace: "Italic"},
		"light":   {PropFontFace: "Light"},
		"regular": {PropFontFace: "Regular"},
		"highlight": {
			PropHighlight:      "true",
			PropHighlightColor: "0xff4a4a4a",
			// 左右留白让相邻的高亮词连成一片，不影响词间距
			PropHighlightPaddingLeft:  "4",
			PropHighlightPaddingRight: "4",
		},
	}
}

// ParagraphSpacing 是段落标签在下一行前追加的行高，等于基础样式的行高。
func ParagraphSpacing() float64 {
	return Defaults()[DefaultTag].LineHeight()
}

// MergeSheets 按顺序合并多层样式表，后者按属性覆盖前者。
func MergeSheets(layers ...Sheet) Sheet {
	out := Sheet{}
	for _, layer := range layers {
		for name, props := range layer {
			out[name] = out[name].Merge(props)
		}
	}
	return out
}

// Clone returns a deep copy of the sheet.
func (s Sheet) Clone() Sheet {
	if s == nil {
		return nil
	}
	out := make(Sheet, len(s))
	for name, props := range s {
		out[name] = props.Clone()
	}
	return out
}

// Equal reports whether both sheets define the same blocks.
func (s Sheet) Equal(other Sheet) bool {
	return maps.EqualFunc(s, other, func(a, b Props) bool { return a.Equal(b) })
}

// Lookup returns the block for a tag name. Unknown names yield an empty block
// and ok=false; that is not an error.
func (s Sheet) Lookup(name string) (Props, bool) {
	props, ok := s[name]
	if !ok {
		return Props{}, false
	}
	return props, true
}

// Resolve 沿祖先链（由外向内）层叠样式：每个标签先取同名样式块，
// 再叠加该标签的内联属性，最后整体按顺序合并。
func (s Sheet) Resolve(tags []Tag) Props {
	out := Props{}
	for _, tag := range tags {
		block, _ := s.Lookup(tag.Name)
		maps.Copy(out, block)
		maps.Copy(out, tag.Attrs)
	}
	return out
}

// UnknownTags lists the tag names in the chain that have no style block.
func (s Sheet) UnknownTags(tags []Tag) []string {
	var unknown []string
	for _, tag := range tags {
		if _, ok := s[tag.Name]; !ok {
			unknown = append(unknown, tag.Name)
		}
	}
	return unknown
}
