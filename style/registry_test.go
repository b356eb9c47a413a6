package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryStylesReplacedWholesale(t *testing.T) {
	r := &Registry{}
	assert.Nil(t, r.Styles())

	in := Sheet{"foo": {PropHighlight: "true"}}
	r.SetStyles(in)
	in["foo"][PropHighlight] = "false"
	assert.Equal(t, "true", r.Styles()["foo"][PropHighlight], "registry keeps its own copy")

	r.SetStyles(Sheet{"bar": {PropFontFace: "Bold"}})
	_, ok := r.Styles()["foo"]
	assert.False(t, ok)

	sheet := r.Sheet(Sheet{"bar": {PropFontSize: "10"}})
	assert.Equal(t, "Bold", sheet["bar"][PropFontFace])
	assert.Equal(t, "10", sheet["bar"][PropFontSize])
	assert.Equal(t, "Regular", sheet[DefaultTag][PropFontFace])
}

func TestPrepareTextOrder(t *testing.T) {
	r := &Registry{}
	r.SetTextTransformer(func(s string) string { return s + "|global" })
	got := r.PrepareText("a\n\nb", func(s string) string { return strings.ToUpper(s) })
	assert.Equal(t, "A<BR/>B|GLOBAL", got)

	r.SetTextTransformer(nil)
	assert.Equal(t, "a<br/>b", r.PrepareText("a\nb", nil))
}
