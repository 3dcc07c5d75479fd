package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLStripperer removes markup from free text captured by legacy front-ends
type HTMLStripperer interface {
	StripHTML(s string) string
	Clean(s string) string
}

type HTMLStripper struct {
	bm *bluemonday.Policy
}

// NewHTMLStripper return a new instance of blue monday policy
func NewHTMLStripper() *HTMLStripper {
	return &HTMLStripper{
		bm: bluemonday.StrictPolicy(),
	}
}

func (hs *HTMLStripper) StripHTML(s string) string {
	return hs.bm.Sanitize(s)
}

// Clean strips tags, decodes the entities bluemonday escapes and collapses whitespace.
func (hs *HTMLStripper) Clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(hs.StripHTML(s))), " ")
}
