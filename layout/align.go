package layout

import (
	"fmt"
	"math"
	"strings"
)

// Alignment 是行在容器内的水平对齐方式。
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment normalizes an alignment name; empty means left.
// start / middle / end are accepted as aliases.
func ParseAlignment(v string) (Alignment, error) {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(v))); a {
	case "", "start":
		return AlignLeft, nil
	case "middle":
		return AlignCenter, nil
	case "end":
		return AlignRight, nil
	case AlignLeft, AlignCenter, AlignRight:
		return a, nil
	default:
		return AlignLeft, fmt.Errorf("layout: 不支持的对齐方式 %q", v)
	}
}

// Align 返回按对齐方式设置了 X 的行副本，各行独立计算。未知方式按左对齐处理。
// width <= 0（不限宽）时以最宽的一行作为容器宽度。
func Align(lines []Line, width float64, mode Alignment) []Line {
	if width <= 0 {
		width = widest(lines)
	}
	out := make([]Line, len(lines))
	for i, line := range lines {
		switch mode {
		case AlignRight:
			line.X = width - line.Width
		case AlignCenter:
			line.X = math.Floor((width - line.Width) / 2)
		default:
			line.X = 0
		}
		out[i] = line
	}
	return out
}

func widest(lines []Line) float64 {
	var w float64
	for _, line := range lines {
		w = max(w, line.Width)
	}
	return w
}
