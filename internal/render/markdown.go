package render

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Renderer converts TOC-processed entry markdown to sanitized HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	style  string
}

// NewRenderer builds a renderer whose code blocks are highlighted with the
// named chroma style. Highlighting emits classes; serve StyleCSS alongside.
func NewRenderer(style string) *Renderer {
	if style == "" || styles.Registry[style] == nil {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Raw HTML carries the TOC container; bluemonday cleans up after.
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md, policy: newPolicy(), style: style}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).
		OnElements("div", "span", "code", "pre", "a", "sup", "section", "ol", "ul", "li")
	p.AllowAttrs("role").OnElements("a", "section", "div")
	return p
}

// Style returns the chroma style name in use.
func (r *Renderer) Style() string {
	return r.style
}

// Render converts markdown to sanitized HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(headingIDs{}))
	if err := r.md.Convert([]byte(markdown), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// StyleCSS returns the stylesheet for the highlighter's CSS classes.
func (r *Renderer) StyleCSS() (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(r.style)); err != nil {
		return "", fmt.Errorf("write css: %w", err)
	}
	return b.String(), nil
}
