package markup

import (
	"regexp"
	"strings"
)

// ReservedTags lists the closing forms of tags that must not be used. The
// closing tag is matched because an opening tag may carry attributes.
var ReservedTags = []string{
	"</title>",
	"</style>",
	"</base>",
	"</link>",
	"</meta>",
	"</script>",
	"</noscript>",
	"</head>",
}

// CheckReserved returns a warning when text contains any reserved closing tag.
func CheckReserved(text string) *ReservedTagWarning {
	var found []string
	for _, tag := range ReservedTags {
		if strings.Contains(text, tag) {
			found = append(found, tag)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return &ReservedTagWarning{Tags: found}
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripTags returns the markup with all tags removed.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}
