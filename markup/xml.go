package markup

import (
	"github.com/beevik/etree"

	"github.com/ByLCY/richtext/style"
)

const xmlRoot = "richtext"

// parseXML 严格解析：文本被包在合成根元素中，任何不配对的标签都会报错。
func parseXML(text string) ([]Group, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<" + xmlRoot + ">" + text + "</" + xmlRoot + ">"); err != nil {
		return nil, &ParseError{Syntax: SyntaxXML, Err: err}
	}
	root := doc.SelectElement(xmlRoot)
	if root == nil {
		return nil, &ParseError{Syntax: SyntaxXML, Err: etree.ErrXML}
	}

	var groups []Group
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				groups = append(groups, newGroup(xmlAncestors(t.Parent(), root), t.Data, KindText))
			case *etree.Element:
				if kind, ok := groupKind(t.Tag); ok {
					groups = append(groups, newGroup(xmlAncestors(e, root), "", kind))
				}
				walk(t)
			}
		}
	}
	walk(root)
	return groups, nil
}

// xmlAncestors collects e and its ancestors below root, innermost first.
func xmlAncestors(e, root *etree.Element) []style.Tag {
	var tags []style.Tag
	for p := e; p != nil && p != root; p = p.Parent() {
		attrs := make([][2]string, 0, len(p.Attr))
		for _, a := range p.Attr {
			attrs = append(attrs, [2]string{a.Key, a.Value})
		}
		tags = append(tags, newTag(p.Tag, attrs))
	}
	return tags
}
