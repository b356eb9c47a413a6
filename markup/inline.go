package markup

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/ByLCY/richtext/style"
)

// ParseInlineStyle parses the declarations of a style attribute
// ("font-size: 40; text-color: #ff0000") into canonical properties.
// Parsing stops at the first malformed declaration; earlier ones are kept.
func ParseInlineStyle(decl string) style.Props {
	out := style.Props{}
	if strings.TrimSpace(decl) == "" {
		return out
	}
	parser := css.NewParser(parse.NewInputString(decl), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return out
		case css.DeclarationGrammar:
			var b strings.Builder
			for _, v := range parser.Values() {
				b.Write(v.Data)
			}
			if value := strings.TrimSpace(b.String()); value != "" {
				out[style.CanonicalName(string(data))] = value
			}
		}
	}
}
