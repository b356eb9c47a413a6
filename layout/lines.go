package layout

import "math"

// Break 使用贪心算法将词排入宽度受限的行，并计算每行的几何信息。
//
// 约定：
//   - 当 x + 词宽 >= width，或词带有强制换行标记时另起一行（当前行即使为空也会推入）；
//   - 行首的空格会被丢弃，除非其样式开启了高亮（保证高亮背景连续）；被丢弃空格带有的
//     额外行高转移到该行下一个词上；
//   - 单个超宽的词独占一行，允许溢出，不截断；
//   - 空行最后统一过滤；行高取行内最高的词，并回写到该行每个词。
//
// width <= 0 表示不限制宽度。返回的高度为最后一行的下边缘（无行时为 0）。
func Break(tokens []Token, width float64) ([]Line, float64) {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var (
		rows    [][]Token
		current []Token
		x       float64
		carry   float64
	)
	for _, tok := range tokens {
		if x+tok.Width >= limit || tok.NewLine {
			rows = append(rows, current)
			current = nil
			x = 0
		}
		if !tok.IsWord && len(current) == 0 && !tok.Style.Highlight() {
			carry += tok.Spacing
			continue
		}
		tok.X = x
		// 上一次定位可能改写过行高，这里恢复原值
		tok.LineHeight = tok.OriginalLineHeight + carry
		carry = 0
		current = append(current, tok)
		x += tok.Width
	}
	rows = append(rows, current)

	lines := make([]Line, 0, len(rows))
	y := 0.0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		tallest := row[0].LineHeight
		for _, tok := range row[1:] {
			tallest = math.Max(tallest, tok.LineHeight)
		}
		for i := range row {
			row[i].LineHeight = tallest
		}
		last := row[len(row)-1]
		lines = append(lines, Line{
			Y:      y,
			Width:  last.Right(),
			Height: tallest,
			Tokens: row,
		})
		y += tallest
	}

	if len(lines) == 0 {
		return lines, 0
	}
	last := lines[len(lines)-1]
	return lines, math.Round(last.Y + last.Height)
}
