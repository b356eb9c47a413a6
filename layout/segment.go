package layout

import (
	"math"
	"strings"

	"github.com/ByLCY/richtext/markup"
	"github.com/ByLCY/richtext/style"
)

// BreakSpacing 足以触发换行，但不会在视觉上增加行距。
const BreakSpacing = 0.00000001

// Segment 将样式分组拆成带样式与宽度的词。
//
// 换行与段落不生成词，而是累积一段待加的行高，附加到下一段文本的第一个词上；
// 位于开头的换行/段落不累积，首行之前从不留白。没有产出词的文本段不会清空累积值。
func Segment(groups []markup.Group, resolve Resolver, m Measurer) ([]Token, error) {
	if m == nil {
		return nil, errNoMeasurer
	}
	var (
		tokens  []Token
		pending float64
	)
	for i, group := range groups {
		switch group.Kind {
		case markup.KindBreak:
			pending += leadingSpace(i, BreakSpacing)
		case markup.KindParagraph:
			pending += leadingSpace(i, style.ParagraphSpacing())
		case markup.KindText:
			words, err := measureGroup(group, resolve(group.Tags), pending, m)
			if err != nil {
				return nil, err
			}
			if len(words) > 0 {
				pending = 0
			}
			tokens = append(tokens, words...)
		}
	}
	return tokens, nil
}

func leadingSpace(groupIndex int, space float64) float64 {
	if groupIndex == 0 {
		return 0
	}
	return space
}

func measureGroup(group markup.Group, props style.Props, spacing float64, m Measurer) ([]Token, error) {
	words := SplitWords(group.Text)
	if len(words) == 0 {
		return nil, nil
	}
	var (
		testTag    = group.TestTag()
		face       = props.FontFace()
		size       = props.FontSize()
		lineHeight = props.LineHeight()
	)
	tokens := make([]Token, 0, len(words))
	for _, word := range words {
		w, err := m.MeasureText(word, face, size)
		if err != nil {
			return nil, &MeasureError{Word: word, FontFace: face, FontSize: size, Err: err}
		}
		tokens = append(tokens, Token{
			Text:               word,
			Width:              math.Round(w),
			IsWord:             word != " ",
			NewLine:            spacing > 0,
			Spacing:            spacing,
			LineHeight:         lineHeight + spacing,
			OriginalLineHeight: lineHeight + spacing,
			Style:              props,
			TestTag:            testTag,
		})
		spacing = 0
	}
	return tokens, nil
}

// SplitWords splits text on single spaces and keeps every space as its own
// token, so inter-word spacing survives re-wrapping. Empty strings are dropped.
func SplitWords(text string) []string {
	parts := strings.Split(text, " ")
	words := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			words = append(words, " ")
		}
		if part != "" {
			words = append(words, part)
		}
	}
	return words
}
