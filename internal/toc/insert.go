package toc

import (
	"html"
	"regexp"
	"strings"
)

// Default container titles, chosen by script when no title is given.
const (
	DefaultTitle    = "Table of Contents"
	DefaultTitleCJK = "目次"
)

var (
	titleHeadingRe = regexp.MustCompile(`^#{1,6}[ \t]+.*(?:Table of Contents|目次)`)
	boldTitleRe    = regexp.MustCompile(`\*\*(?:Table of Contents|目次)\*\*\s*\r?\n\s*` + regexp.QuoteMeta(Placeholder))
	blankBeforeRe  = regexp.MustCompile(`(?:\r?\n)+\s*` + regexp.QuoteMeta(Placeholder))
)

// Result is the outcome of processing one document.
type Result struct {
	Markdown string    `json:"markdown"`
	Headings []Heading `json:"headings"`
	Title    string    `json:"title,omitempty"`
}

// InsertToc replaces the first placeholder in markdown with a rendered table
// of contents. title overrides the auto-detected container title when not
// empty. Documents without a placeholder are returned unchanged.
func InsertToc(markdown, title string) string {
	return Process(markdown, title).Markdown
}

// Process is InsertToc that also returns the heading forest it rendered.
// Without a placeholder the forest is still built from the unchanged input.
func Process(markdown, title string) Result {
	if !strings.Contains(markdown, Placeholder) {
		return Result{Markdown: markdown, Headings: Build(markdown)}
	}

	src := stripTitleHeading(markdown)
	src = boldTitleRe.ReplaceAllLiteralString(src, Placeholder)
	src = blankBeforeRe.ReplaceAllLiteralString(src, "\n"+Placeholder)

	forest := Build(src)
	if len(forest) == 0 {
		return Result{Markdown: strings.Replace(src, Placeholder, "", 1)}
	}

	if title == "" {
		title = DefaultTitle
		if ContainsCJK(src) {
			title = DefaultTitleCJK
		}
	}

	return Result{
		Markdown: strings.Replace(src, Placeholder, Container(title, forest), 1),
		Headings: forest,
		Title:    title,
	}
}

// Container wraps the rendered forest in the titled TOC block. The title is a
// text node so it survives renderers that drop stylesheets. The trailing
// newline leaves a blank line after the block so that CommonMark renderers
// end the raw HTML block before the following markdown.
func Container(title string, forest []Heading) string {
	var b strings.Builder
	b.WriteString(`<div class="toc-container"><div class="toc-title">`)
	b.WriteString(html.EscapeString(title))
	b.WriteString("</div><ul>\n")
	b.WriteString(Render(forest))
	b.WriteString("</ul></div>\n")
	return b.String()
}

// stripTitleHeading drops a manual "Table of Contents" heading that precedes
// the first placeholder with only non-heading lines in between.
func stripTitleHeading(s string) string {
	idx := strings.Index(s, Placeholder)
	if idx < 0 {
		return s
	}
	end := strings.LastIndexByte(s[:idx], '\n') + 1
	if strings.HasPrefix(s[end:idx], "#") {
		return s
	}
	for end > 0 {
		start := strings.LastIndexByte(s[:end-1], '\n') + 1
		line := strings.TrimSuffix(s[start:end-1], "\r")
		if strings.HasPrefix(line, "#") {
			if titleHeadingRe.MatchString(line) {
				return s[:start] + s[idx:]
			}
			return s
		}
		end = start
	}
	return s
}
