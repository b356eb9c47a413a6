// Package binding 将 JSON 数据填入富文本标记中的 ${path.to.value} 占位符。
package binding

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/richtext/style"
)

// 占位符形如 ${user.name} 或带默认值的 ${user.name|匿名}。
var exprPattern = regexp.MustCompile(`\$\{([^}|]+)(?:\|([^}]*))?\}`)

// Data 是解码后的绑定数据。
type Data struct {
	root any
}

// Load 解码 JSON 数据，数字保留原始文本形式。
func Load(r io.Reader) (*Data, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("binding: 解析数据失败: %w", err)
	}
	return &Data{root: root}, nil
}

// New wraps already decoded data (maps, slices and scalars).
func New(root any) *Data { return &Data{root: root} }

// Lookup resolves a dotted path with optional [i] indexes.
func (d *Data) Lookup(path string) (any, bool) {
	if d == nil || d.root == nil {
		return nil, false
	}
	return resolvePath(d.root, strings.TrimSpace(path))
}

// Interpolate 替换文本中的占位符。替换值会做 HTML 转义，数据中的 "<" 不会被当作标签。
// 路径不存在时使用默认值；没有默认值则保留原占位符。
func (d *Data) Interpolate(text string) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := d.Lookup(path); ok {
			return html.EscapeString(format(val))
		}
		if strings.Contains(match, "|") {
			return html.EscapeString(groups[2])
		}
		return match
	})
}

// Transformer 返回可注册为实例文本变换的函数。
func (d *Data) Transformer() style.TextTransformer { return d.Interpolate }

func format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	default:
		return fmt.Sprint(v)
	}
}

func resolvePath(current any, path string) (any, bool) {
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			list, isList := current.([]any)
			if !isList || idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

// parseSegment 拆分 "items[0][1]" 形式的路径片段。
func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}
