package layout

import "github.com/ByLCY/richtext/style"

// 该文件定义排版结果，供排版计算、渲染与调试 JSON 共用。所有尺寸均为像素。

// Result 是一次排版输出的布局树。
type Result struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Align  Alignment `json:"align"`
	Lines  []Line    `json:"lines"`
}

// Line 记录一行的位置、尺寸以及已定位的词。
// Height 取行内最高词的行高，Width 为最后一个词的右边缘。
type Line struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Tokens []Token `json:"tokens"`
}

// Token 是一个可测量的词或空格。X 与最终 LineHeight 在换行定位后才有效。
type Token struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	IsWord bool    `json:"isWord"`
	// NewLine 表示该词前有强制换行或段落，需要另起一行。
	NewLine bool `json:"newLine,omitempty"`
	// Spacing 是由换行/段落累积、加在该词行高上的额外高度。
	Spacing            float64     `json:"spacing,omitempty"`
	LineHeight         float64     `json:"lineHeight"`
	OriginalLineHeight float64     `json:"originalLineHeight"`
	Style              style.Props `json:"style"`
	TestTag            string      `json:"testTag,omitempty"`
}

// Right returns the right edge of the token.
func (t Token) Right() float64 { return t.X + t.Width }

// Text concatenates the token texts of the line.
func (l Line) Text() string {
	var n int
	for _, t := range l.Tokens {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range l.Tokens {
		b = append(b, t.Text...)
	}
	return string(b)
}
