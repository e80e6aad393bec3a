package classify

import (
	"regexp"
	"strings"

	"github.com/officekit/gongwen/docx"
)

// headingMarkerRe matches the prefixes that make a paragraph eligible for
// splitting: Chinese ordinal + 、, parenthesized Chinese ordinal (either
// paren width), "N.", or parenthesized numeral (either paren width).
var headingMarkerRe = regexp.MustCompile(
	`^([一二三四五六七八九十]+、|（[一二三四五六七八九十]+）|\([一二三四五六七八九十]+\)|\d+\.|（\d+）|\(\d+\))`)

// splitSeparators are scanned for in the text after the marker, first
// occurrence wins. The full-width comma is special-cased: it marks a split
// but is replaced by a full stop in the heading half.
const splitSeparators = "：:。，"

// SplitText splits heading text into a marker-plus-punctuation prefix and the
// trailing remainder. ok is false when the text carries no heading marker, no
// separator, or nothing after the separator; such paragraphs are left
// untouched.
func SplitText(text string) (prefix, rest string, ok bool) {
	loc := headingMarkerRe.FindStringIndex(text)
	if loc == nil {
		return "", "", false
	}
	remainder := text[loc[1]:]
	idx := strings.IndexAny(remainder, splitSeparators)
	if idx < 0 {
		return "", "", false
	}
	sep, sepLen := decodeSep(remainder[idx:])
	rest = remainder[idx+sepLen:]
	if strings.TrimSpace(rest) == "" {
		return "", "", false
	}
	head := text[:loc[1]] + remainder[:idx]
	if sep == '，' {
		head += "。"
	} else {
		head += string(sep)
	}
	return head, rest, true
}

func decodeSep(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

// Split runs the heading splitter over every body paragraph of the document.
// It captures the paragraph list once up front, so paragraphs inserted by
// earlier splits are never re-examined. The split prefix lands in the
// paragraph's first run (keeping that run's formatting until the style pass);
// the remainder becomes a new, unformatted paragraph right after. Returns the
// number of paragraphs split.
func Split(d *docx.Document) int {
	count := 0
	for _, p := range d.Paragraphs() {
		text := strings.TrimSpace(p.Text())
		prefix, rest, ok := SplitText(text)
		if !ok {
			continue
		}
		setParagraphText(p, prefix)
		p.InsertParagraphAfter(rest)
		count++
	}
	return count
}

// setParagraphText puts text into the paragraph's first run and clears the
// others, the same convention the punctuation normalizer uses.
func setParagraphText(p *docx.Paragraph, text string) {
	runs := p.Runs()
	if len(runs) == 0 {
		p.AddRun(text)
		return
	}
	runs[0].SetText(text)
	for _, r := range runs[1:] {
		r.SetText("")
	}
}
