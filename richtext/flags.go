package richtext

import "strings"

// Flag 标记需要重算的阶段，可按位组合。
type Flag uint8

const (
	FlagText Flag = 1 << iota
	FlagStyle
	FlagSize
	FlagAlignment

	FlagAll = FlagText | FlagStyle | FlagSize | FlagAlignment
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FlagText, "text"},
	{FlagStyle, "style"},
	{FlagSize, "size"},
	{FlagAlignment, "alignment"},
}

func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	if f&FlagAll == FlagAll {
		return "all"
	}
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// Has reports whether any of the given flags is set.
func (f Flag) Has(other Flag) bool { return f&other != 0 }
