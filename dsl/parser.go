package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/richtext/style"
)

// 样式表 DSL 示例：
//
//	// 全局样式
//	style default { fontFace: "Regular"; fontSize: 32 }
//	style red, alert { textColor: 0xffcc0000 }
//	style foo {
//	  highlight: true
//	  highlightColor: #00cc00
//	  lineHeight: 1.5x
//	}

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Hex", Pattern: `0[xX][0-9A-Fa-f]+`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}:;,]`},
	})

	sheetParser = participle.MustBuild[Sheet](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Sheet is the root AST node of a style sheet file.
type Sheet struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Rules []*Rule        `parser:"@@*"`
}

// Rule assigns declarations to one or more tag names.
type Rule struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Names []string       `parser:"'style' @Ident ( ',' @Ident )*"`
	Decls []*Declaration `parser:"'{' ( @@ ';'* )* '}'"`
}

// Declaration uses colon syntax (key: value).
type Declaration struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value represents a property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Hex    *string        `parser:"| @Hex"`
	Color  *string        `parser:"| @Color"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the value in property syntax.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Hex != nil:
		return *v.Hex
	case v.Color != nil:
		return *v.Color
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a style sheet from an io.Reader.
func Parse(r io.Reader) (*Sheet, error) {
	return sheetParser.Parse("", r)
}

// ParseString parses a style sheet from a string.
func ParseString(input string) (*Sheet, error) {
	return sheetParser.ParseString("", input)
}

// Styles 将 AST 转为样式表。同名规则按出现顺序合并，属性名统一规范化。
func (s *Sheet) Styles() style.Sheet {
	out := style.Sheet{}
	if s == nil {
		return out
	}
	for _, rule := range s.Rules {
		props := style.Props{}
		for _, decl := range rule.Decls {
			props[style.CanonicalName(decl.Key)] = decl.Value.Raw()
		}
		for _, name := range rule.Names {
			out[name] = out[name].Merge(props)
		}
	}
	return out
}

// LoadStyles parses a style sheet and converts it in one step.
func LoadStyles(r io.Reader) (style.Sheet, error) {
	sheet, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dsl: 解析样式表失败: %w", err)
	}
	return sheet.Styles(), nil
}
