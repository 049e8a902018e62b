package render

import (
	"bytes"

	"github.com/dgallion1/entryview/internal/toc"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// headingIDs assigns heading anchors with toc.Slugify so that rendered
// headings carry exactly the IDs the generated TOC links to. Unlike
// goldmark's default it never appends "-1", "-2" to repeated IDs.
type headingIDs struct{}

var _ parser.IDs = headingIDs{}

func (headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	return []byte(toc.Slugify(string(bytes.TrimSpace(value))))
}

func (headingIDs) Put(value []byte) {}
