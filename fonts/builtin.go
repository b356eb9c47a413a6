package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Prefix 标记内置字体资源，例如 "builtin:Bold"。
const Prefix = "builtin:"

// builtin 将样式表中使用的字体名映射到 Go 字体。Light 没有对应字重，退回 Regular。
var builtin = map[string][]byte{
	"regular":    goregular.TTF,
	"light":      goregular.TTF,
	"bold":       gobold.TTF,
	"italic":     goitalic.TTF,
	"bolditalic": gobolditalic.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:Bold" 或直接 "Bold"（不区分大小写）。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, Prefix))
	key = strings.ReplaceAll(key, "-", "")
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s", name)
	}
	return data, nil
}

// Names lists the built-in face names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
