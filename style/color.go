package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor 解析颜色属性。支持两种写法：
//   - 0xAARRGGBB（整数 ARGB，与样式表中十六进制数值一致）
//   - #RGB、#RRGGBB、#RRGGBBAA
func ParseColor(value string) (color.RGBA, error) {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(lower, "0x"):
		n, err := strconv.ParseUint(lower[2:], 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		return color.RGBA{
			A: uint8(n >> 24),
			R: uint8(n >> 16),
			G: uint8(n >> 8),
			B: uint8(n),
		}, nil
	case strings.HasPrefix(lower, "#"):
		hex := lower[1:]
		if len(hex) == 3 {
			hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
		}
		if len(hex) == 6 {
			hex += "ff"
		}
		if len(hex) != 8 {
			return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		return color.RGBA{
			R: uint8(n >> 24),
			G: uint8(n >> 16),
			B: uint8(n >> 8),
			A: uint8(n),
		}, nil
	default:
		n, err := strconv.ParseUint(lower, 10, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		return ParseColor(fmt.Sprintf("0x%08x", n))
	}
}

// Color 读取颜色属性，缺失或无法解析时返回 def。
func (p Props) Color(key string, def color.RGBA) color.RGBA {
	v := p.String(key)
	if v == "" {
		return def
	}
	c, err := ParseColor(v)
	if err != nil {
		return def
	}
	return c
}
