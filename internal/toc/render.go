package toc

import (
	"html"
	"strings"
)

// Render writes the forest as nested list items. Each item links to the
// heading's slug; children follow in a nested <ul> inside the parent item.
// An empty forest renders to "".
func Render(forest []Heading) string {
	var b strings.Builder
	renderItems(&b, forest)
	return b.String()
}

func renderItems(b *strings.Builder, headings []Heading) {
	for _, h := range headings {
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(h.Slug))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(h.Text))
		b.WriteString(`</a>`)
		if len(h.Children) > 0 {
			b.WriteString("\n<ul>\n")
			renderItems(b, h.Children)
			b.WriteString("</ul>")
		}
		b.WriteString("</li>\n")
	}
}
