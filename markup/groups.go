// Package markup turns rich-text markup into style groups: runs of text,
// forced line breaks and paragraph breaks, each paired with the chain of tags
// that encloses it.
package markup

import (
	"fmt"
	"strings"

	"github.com/ByLCY/richtext/style"
)

// Kind classifies a style group.
type Kind int

const (
	KindText Kind = iota
	KindBreak
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBreak:
		return "break"
	case KindParagraph:
		return "paragraph"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Group 是一段使用同一样式的内容及其祖先标签链。
// Tags[0] 总是合成的 default 标签。
type Group struct {
	Tags []style.Tag `json:"tags"`
	Text string      `json:"text"`
	Kind Kind        `json:"kind"`
}

// TestTag joins the non-default tag names of the chain with "-".
func (g Group) TestTag() string {
	names := make([]string, 0, len(g.Tags))
	for _, tag := range g.Tags {
		if tag.Name == style.DefaultTag {
			continue
		}
		names = append(names, tag.Name)
	}
	return strings.Join(names, "-")
}

// Syntax selects the markup parser.
type Syntax string

const (
	// SyntaxHTML parses leniently as an HTML body fragment.
	SyntaxHTML Syntax = "html"
	// SyntaxXML parses strictly; unbalanced tags are errors.
	SyntaxXML Syntax = "xml"
)

// ParseSyntax normalizes a syntax name, defaulting to SyntaxHTML.
func ParseSyntax(v string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "html":
		return SyntaxHTML, nil
	case "xml", "xhtml":
		return SyntaxXML, nil
	default:
		return "", fmt.Errorf("markup: 不支持的语法 %q", v)
	}
}

// Parse converts markup into style groups in document order.
func Parse(text string, syntax Syntax) ([]Group, error) {
	switch syntax {
	case SyntaxXML:
		return parseXML(text)
	case SyntaxHTML, "":
		return parseHTML(text)
	default:
		return nil, &ParseError{Syntax: syntax, Err: fmt.Errorf("不支持的语法 %q", syntax)}
	}
}

// groupKind maps an element name to the group it produces, if any.
func groupKind(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "br":
		return KindBreak, true
	case "p":
		return KindParagraph, true
	default:
		return 0, false
	}
}

// newGroup 将由内向外收集的祖先链反转为由外向内，并在开头补上 default 标签。
func newGroup(innerFirst []style.Tag, text string, kind Kind) Group {
	tags := make([]style.Tag, 0, len(innerFirst)+1)
	tags = append(tags, style.Tag{Name: style.DefaultTag, Attrs: style.Props{}})
	for i := len(innerFirst) - 1; i >= 0; i-- {
		tags = append(tags, innerFirst[i])
	}
	return Group{Tags: tags, Text: text, Kind: kind}
}

// newTag canonicalizes an element's attributes. Declarations from a style
// attribute are applied first so explicit attributes win over them.
func newTag(name string, attrs [][2]string) style.Tag {
	props := style.Props{}
	for _, kv := range attrs {
		if strings.EqualFold(kv[0], "style") {
			for k, v := range ParseInlineStyle(kv[1]) {
				props[k] = v
			}
		}
	}
	for _, kv := range attrs {
		if strings.EqualFold(kv[0], "style") {
			continue
		}
		props[style.CanonicalName(kv[0])] = kv[1]
	}
	return style.Tag{Name: strings.ToLower(name), Attrs: props}
}
