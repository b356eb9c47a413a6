package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ByLCY/richtext/style"
)

// parseHTML 以 <body> 为上下文解析 HTML 片段，再按文档顺序遍历节点。
// 片段的顶层节点没有父节点，祖先链到此为止。
func parseHTML(text string) ([]Group, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(text), body)
	if err != nil {
		return nil, &ParseError{Syntax: SyntaxHTML, Err: err}
	}

	var groups []Group
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			groups = append(groups, newGroup(htmlAncestors(n), n.Data, KindText))
		case html.ElementNode:
			if kind, ok := groupKind(n.Data); ok {
				groups = append(groups, newGroup(htmlAncestors(n), "", kind))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return groups, nil
}

// htmlAncestors collects the element ancestors of n, innermost first.
func htmlAncestors(n *html.Node) []style.Tag {
	var tags []style.Tag
	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		attrs := make([][2]string, 0, len(p.Attr))
		for _, a := range p.Attr {
			attrs = append(attrs, [2]string{a.Key, a.Val})
		}
		tags = append(tags, newTag(p.Data, attrs))
	}
	return tags
}
