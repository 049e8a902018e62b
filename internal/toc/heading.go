package toc

import (
	"regexp"
	"strings"
)

// Placeholder marks where the generated table of contents is spliced in.
const Placeholder = "<!-- toc -->"

// Heading is one entry of the table of contents.
type Heading struct {
	Level    int       `json:"level"` // 1 for "##", 2 for "###", ...
	Text     string    `json:"text"`
	Slug     string    `json:"slug"`
	Children []Heading `json:"children,omitempty"`
}

var headingLineRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.+)$`)

// parseHeadingLine returns the raw level (1-6) and trimmed label of an ATX
// heading line. ok is false for non-heading lines and empty labels.
func parseHeadingLine(line string) (level int, text string, ok bool) {
	m := headingLineRe.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
	if m == nil {
		return 0, "", false
	}
	text = strings.TrimSpace(m[2])
	if text == "" {
		return 0, "", false
	}
	return len(m[1]), text, true
}

// ExtractHeadings returns the "##".."######" headings of markdown in document
// order, flat. The document title ("#") is skipped and levels are shifted so
// that "##" becomes level 1.
func ExtractHeadings(markdown string) []Heading {
	src := strings.Replace(markdown, Placeholder, "", 1)

	var headings []Heading
	for _, line := range strings.Split(src, "\n") {
		level, text, ok := parseHeadingLine(line)
		if !ok || level == 1 {
			continue
		}
		headings = append(headings, Heading{
			Level: level - 1,
			Text:  text,
			Slug:  Slugify(text),
		})
	}
	return headings
}
