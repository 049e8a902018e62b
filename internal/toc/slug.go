package toc

import (
	"regexp"
	"strings"
)

// cjkRanges are the script ranges that switch slug generation and the
// default TOC title to CJK rules.
var cjkRanges = [][2]rune{
	{0x3000, 0x303f}, // CJK symbols and punctuation
	{0x3040, 0x309f}, // Hiragana
	{0x30a0, 0x30ff}, // Katakana
	{0xff00, 0xff9f}, // fullwidth and halfwidth forms
	{0x4e00, 0x9faf}, // CJK unified ideographs
	{0x3400, 0x4dbf}, // CJK extension A
}

// IsCJK reports whether r falls in one of the CJK ranges.
func IsCJK(r rune) bool {
	for _, rg := range cjkRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// ContainsCJK reports whether s contains any CJK character.
func ContainsCJK(s string) bool {
	return strings.IndexFunc(s, IsCJK) >= 0
}

// space matches the same set as an ECMAScript \s, which is wider than RE2's.
const space = `\s\x{000b}\p{Zs}\x{2028}\x{2029}\x{feff}`

var (
	spaceRunRe   = regexp.MustCompile(`[` + space + `]+`)
	cjkStripRe   = regexp.MustCompile(`[^\w\x{3000}-\x{9fff}-]`)
	latinStripRe = regexp.MustCompile(`[^\w` + space + `-]`)
	separatorRe  = regexp.MustCompile(`[` + space + `_]+`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
)

// Slugify derives the anchor identifier for a heading label.
//
// Text containing CJK characters keeps its casing and its CJK characters;
// everything else is lowercased and reduced to ASCII word characters and
// hyphens. The result may be empty and is not unique across a document.
func Slugify(text string) string {
	var s string
	if ContainsCJK(text) {
		s = spaceRunRe.ReplaceAllLiteralString(text, "-")
		s = cjkStripRe.ReplaceAllLiteralString(s, "")
	} else {
		s = strings.ToLower(text)
		s = latinStripRe.ReplaceAllLiteralString(s, "")
		s = separatorRe.ReplaceAllLiteralString(s, "-")
	}
	s = hyphenRunRe.ReplaceAllLiteralString(s, "-")
	return strings.Trim(s, "-")
}
