// Package punct normalizes English punctuation inside Chinese text: malformed
// ellipses and dashes are canonicalized, half-width marks become their
// full-width forms, and straight quotes become directional pairs. Text
// without Chinese is left alone apart from the ellipsis and dash cleanup.
package punct

import (
	"regexp"
	"strings"

	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/internal/cjk"
)

var (
	dotEllipsisRe = regexp.MustCompile(`\.{2,}`)
	cjkEllipsisRe = regexp.MustCompile(`。{2,}`)
	hyphenRunRe   = regexp.MustCompile(`-{2,}`)
	emDashRunRe   = regexp.MustCompile(`—+`)

	commaBeforeHanRe = regexp.MustCompile(`(\p{Han}),`)
	commaAfterHanRe  = regexp.MustCompile(`,(\p{Han})`)
	// A period converts only at a boundary, so decimals, file names and
	// version strings survive.
	periodAfterHanRe = regexp.MustCompile(`(\p{Han})\.(\s|$)`)
)

// wideTargets are widened unconditionally in Chinese-containing text. Comma
// and period need neighbor context and are handled by the regexes above.
const wideTargets = "():;?!"

// Fix returns text with its punctuation normalized. Ellipsis and dash runs
// collapse to the canonical …… and —— everywhere; the remaining conversions
// apply only when the text contains Chinese.
func Fix(text string) string {
	if text == "" {
		return text
	}
	text = dotEllipsisRe.ReplaceAllString(text, "……")
	text = cjkEllipsisRe.ReplaceAllString(text, "……")
	text = emDashRunRe.ReplaceAllString(text, "——")
	text = hyphenRunRe.ReplaceAllString(text, "——")

	if !cjk.HasHan(text) {
		return text
	}
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(wideTargets, r) {
			return cjk.Widen(r)
		}
		return r
	}, text)
	text = commaBeforeHanRe.ReplaceAllString(text, "$1，")
	text = commaAfterHanRe.ReplaceAllString(text, "，$1")
	text = periodAfterHanRe.ReplaceAllString(text, "$1。$2")
	return alternateQuotes(text)
}

// alternateQuotes replaces straight double and single quotes with their
// directional pairs, opening on the first of each pair and closing on the
// second. An unpaired trailing quote stays open, matching how the source
// text was already broken.
func alternateQuotes(text string) string {
	if !strings.ContainsAny(text, `"'`) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	double, single := 0, 0
	for _, r := range text {
		switch r {
		case '"':
			if double%2 == 0 {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
			double++
		case '\'':
			if single%2 == 0 {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
			single++
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Document runs Fix over every body paragraph and every table cell
// paragraph. Changed text lands in the paragraph's first run, keeping that
// run's formatting; later runs are cleared. Returns how many body paragraphs
// and how many cell paragraphs changed.
func Document(d *docx.Document) (paras, cells int) {
	for _, p := range d.Paragraphs() {
		if fixParagraph(p) {
			paras++
		}
	}
	for _, t := range d.Tables() {
		for _, row := range t.Rows() {
			for _, c := range row.Cells() {
				for _, p := range c.Paragraphs() {
					if fixParagraph(p) {
						cells++
					}
				}
			}
		}
	}
	return paras, cells
}

func fixParagraph(p *docx.Paragraph) bool {
	text := p.Text()
	fixed := Fix(text)
	if fixed == text {
		return false
	}
	runs := p.Runs()
	if len(runs) == 0 {
		p.AddRun(fixed)
		return true
	}
	runs[0].SetText(fixed)
	for _, r := range runs[1:] {
		r.SetText("")
	}
	return true
}
