// Package layout applies a preset's formatting to a document: paragraph
// styles by role, table geometry and cell alignment, and odd/even page-number
// footers. It mutates the docx.Document in place; classification happens
// elsewhere.
package layout

import (
	"regexp"
	"strings"

	"github.com/officekit/gongwen/classify"
	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/preset"
)

// leadInRe matches an ordinal lead-in phrase such as 一是 or 二是 at the start
// of a body paragraph, with its trailing separator if present.
var leadInRe = regexp.MustCompile(`^[一二三四五六七八九十]+是[，,、：:]?`)

// Apply styles one paragraph for its role: the role's spec first, then the
// preset's body emphasis sub-behavior when the role is body.
func Apply(p *docx.Paragraph, pre *preset.Preset, role classify.Role) {
	spec := pre.Style(role)
	ApplyStyle(p, spec)
	if role != classify.RoleBody {
		return
	}
	switch {
	case pre.BoldFirstSentence:
		boldFirstSentence(p, spec)
	case pre.BoldLeadIn:
		boldLeadIn(p, spec)
	}
}

// ApplyStyle writes one StyleSpec onto a paragraph. Formatting is normalized,
// not extended: prior indents, character spacing overrides, decorations and
// colors are all forced to the spec.
func ApplyStyle(p *docx.Paragraph, spec preset.StyleSpec) {
	p.SetAlignment(jc(spec.Align))
	p.ZeroEdgeIndents()
	p.SetFirstLineIndent(docx.TwipsFromPoints(spec.IndentPt))
	if spec.LineSpacingPt > 0 {
		p.SetLineSpacingExact(spec.LineSpacingPt)
	} else {
		p.SetLineSpacingMultiple(1.5)
	}
	p.SetSpaceBefore(spec.SpaceBeforePt)
	p.SetSpaceAfter(spec.SpaceAfterPt)
	p.RemoveShading()

	for _, r := range p.Runs() {
		styleRun(r, spec, spec.Bold)
	}
}

func styleRun(r *docx.Run, spec preset.StyleSpec, bold bool) {
	r.SetFonts(spec.FontEN, spec.FontCN)
	r.SetSizePoints(spec.SizePt)
	r.SetBold(bold)
	r.ClearDecorations()
}

// boldFirstSentence rebuilds the paragraph as two runs split at the first
// Chinese full stop, the first bold. Paragraphs without a full stop are left
// alone.
func boldFirstSentence(p *docx.Paragraph, spec preset.StyleSpec) {
	text := p.Text()
	idx := strings.Index(text, "。")
	if idx < 0 {
		return
	}
	head := text[:idx+len("。")]
	rest := text[idx+len("。"):]
	emphasize(p, spec, head, rest)
}

// boldLeadIn rebuilds paragraphs opening with an ordinal 是 phrase (一是,
// 二是, ...) so the lead-in, separator included, is bold.
func boldLeadIn(p *docx.Paragraph, spec preset.StyleSpec) {
	text := p.Text()
	lead := leadInRe.FindString(text)
	if lead == "" {
		return
	}
	emphasize(p, spec, lead, text[len(lead):])
}

// emphasize replaces the paragraph's runs with a bold head run and, when
// non-empty, a normal-weight rest run.
func emphasize(p *docx.Paragraph, spec preset.StyleSpec, head, rest string) {
	r := p.SetText(head)
	styleRun(r, spec, true)
	if rest != "" {
		styleRun(p.AddRun(rest), spec, spec.Bold)
	}
}

// jc maps a preset alignment onto the w:jc value. Justify is the default and
// maps to "both".
func jc(a preset.Alignment) string {
	switch a {
	case preset.AlignLeft:
		return "left"
	case preset.AlignCenter:
		return "center"
	case preset.AlignRight:
		return "right"
	}
	return "both"
}
