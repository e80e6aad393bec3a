package docx

import (
	"math"
	"strconv"
	"strings"
)

// Paragraph wraps a w:p element. Mutations mark the owning part dirty so it
// is re-encoded on save.
type Paragraph struct {
	doc  *Document
	pt   *part
	node *Node
}

func (p *Paragraph) props() *Node {
	return p.pt.childNamed(p.node, "pPr")
}

func (p *Paragraph) ensureProps() *Node {
	return p.pt.ensureFirst(p.node, "pPr")
}

func (p *Paragraph) ensureInd() *Node {
	return p.pt.ensureChild(p.ensureProps(), "ind", pPrOrder)
}

func (p *Paragraph) ensureSpacing() *Node {
	return p.pt.ensureChild(p.ensureProps(), "spacing", pPrOrder)
}

// Text returns the concatenated text of the paragraph, including text inside
// hyperlinks and other run containers. Tabs become "\t" and explicit breaks
// become "\n". Field instruction text is not included.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	p.node.walk(func(n *Node) {
		switch {
		case p.pt.is(n, "t"):
			sb.WriteString(n.directText())
		case p.pt.is(n, "tab") && p.pt.is(n.parent, "r"):
			sb.WriteByte('\t')
		case p.pt.is(n, "br"):
			sb.WriteByte('\n')
		}
	})
	return sb.String()
}

// IsEmpty reports whether the paragraph holds no text or only whitespace.
// The ideographic space U+3000 counts as whitespace.
func (p *Paragraph) IsEmpty() bool {
	return strings.TrimSpace(p.Text()) == ""
}

// Runs returns every w:r inside the paragraph, including runs nested in
// hyperlinks and fields, in document order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	p.node.walk(func(n *Node) {
		if n != p.node && p.pt.is(n, "r") {
			runs = append(runs, &Run{pt: p.pt, node: n})
		}
	})
	return runs
}

// Alignment returns the w:jc value, or "" when unset.
func (p *Paragraph) Alignment() string {
	pr := p.props()
	if pr == nil {
		return ""
	}
	jc := p.pt.childNamed(pr, "jc")
	if jc == nil {
		return ""
	}
	v, _ := jc.Attr(p.pt.aname("val"))
	return v
}

// SetAlignment sets w:jc. Valid values include "left", "center", "right" and
// "both" (justified).
func (p *Paragraph) SetAlignment(val string) {
	jc := p.pt.ensureChild(p.ensureProps(), "jc", pPrOrder)
	jc.SetAttr(p.pt.aname("val"), val)
	p.pt.touch()
}

// SetFirstLineIndent sets the first-line indent in twips. The character-based
// w:firstLineChars attribute and any hanging indent are removed: both would
// otherwise override the point-based value in CJK documents.
func (p *Paragraph) SetFirstLineIndent(twips int) {
	ind := p.ensureInd()
	ind.SetAttr(p.pt.aname("firstLine"), strconv.Itoa(twips))
	ind.RemoveAttr(p.pt.aname("firstLineChars"))
	ind.RemoveAttr(p.pt.aname("hanging"))
	ind.RemoveAttr(p.pt.aname("hangingChars"))
	p.pt.touch()
}

// ZeroEdgeIndents clears left and right indentation, including the
// character-based variants.
func (p *Paragraph) ZeroEdgeIndents() {
	ind := p.ensureInd()
	ind.SetAttr(p.pt.aname("left"), "0")
	ind.SetAttr(p.pt.aname("right"), "0")
	ind.RemoveAttr(p.pt.aname("leftChars"))
	ind.RemoveAttr(p.pt.aname("rightChars"))
	p.pt.touch()
}

// FirstLineIndent returns the point-based first-line indent in twips and the
// character-based indent in hundredths of a character. Both are zero when
// unset.
func (p *Paragraph) FirstLineIndent() (twips, chars int) {
	pr := p.props()
	if pr == nil {
		return 0, 0
	}
	ind := p.pt.childNamed(pr, "ind")
	if ind == nil {
		return 0, 0
	}
	if v, ok := ind.Attr(p.pt.aname("firstLine")); ok {
		twips, _ = strconv.Atoi(v)
	}
	if v, ok := ind.Attr(p.pt.aname("firstLineChars")); ok {
		chars, _ = strconv.Atoi(v)
	}
	return twips, chars
}

// SetLineSpacingExact fixes the line height at the given point size
// (w:lineRule "exact").
func (p *Paragraph) SetLineSpacingExact(points float64) {
	sp := p.ensureSpacing()
	sp.SetAttr(p.pt.aname("line"), strconv.Itoa(TwipsFromPoints(points)))
	sp.SetAttr(p.pt.aname("lineRule"), "exact")
	p.pt.touch()
}

// SetLineSpacingMultiple sets proportional line spacing, e.g. 1.5 for
// one-and-a-half lines (w:lineRule "auto", 240ths of a line).
func (p *Paragraph) SetLineSpacingMultiple(mult float64) {
	sp := p.ensureSpacing()
	sp.SetAttr(p.pt.aname("line"), strconv.Itoa(int(math.Round(mult*240))))
	sp.SetAttr(p.pt.aname("lineRule"), "auto")
	p.pt.touch()
}

// LineSpacingKey returns a comparable summary of the paragraph's line
// spacing, "" when unset. Distinct keys mean visibly different spacing.
func (p *Paragraph) LineSpacingKey() string {
	pr := p.props()
	if pr == nil {
		return ""
	}
	sp := p.pt.childNamed(pr, "spacing")
	if sp == nil {
		return ""
	}
	line, ok := sp.Attr(p.pt.aname("line"))
	if !ok {
		return ""
	}
	rule, _ := sp.Attr(p.pt.aname("lineRule"))
	if rule == "" {
		rule = "auto"
	}
	return rule + ":" + line
}

// SetSpaceBefore sets the space before the paragraph in points, clearing the
// line-based and auto-spacing variants that would override it.
func (p *Paragraph) SetSpaceBefore(points float64) {
	sp := p.ensureSpacing()
	sp.SetAttr(p.pt.aname("before"), strconv.Itoa(TwipsFromPoints(points)))
	sp.RemoveAttr(p.pt.aname("beforeLines"))
	sp.RemoveAttr(p.pt.aname("beforeAutospacing"))
	p.pt.touch()
}

// SetSpaceAfter sets the space after the paragraph in points, clearing the
// line-based and auto-spacing variants that would override it.
func (p *Paragraph) SetSpaceAfter(points float64) {
	sp := p.ensureSpacing()
	sp.SetAttr(p.pt.aname("after"), strconv.Itoa(TwipsFromPoints(points)))
	sp.RemoveAttr(p.pt.aname("afterLines"))
	sp.RemoveAttr(p.pt.aname("afterAutospacing"))
	p.pt.touch()
}

// SetSpaceBeforeLines sets the space before the paragraph in hundredths of a
// line (w:beforeLines), with a twips fallback for consumers that ignore the
// line-based attribute.
func (p *Paragraph) SetSpaceBeforeLines(hundredths, fallbackTwips int) {
	sp := p.ensureSpacing()
	sp.SetAttr(p.pt.aname("beforeLines"), strconv.Itoa(hundredths))
	sp.SetAttr(p.pt.aname("before"), strconv.Itoa(fallbackTwips))
	sp.RemoveAttr(p.pt.aname("beforeAutospacing"))
	p.pt.touch()
}

// RemoveShading deletes paragraph-level shading.
func (p *Paragraph) RemoveShading() {
	pr := p.props()
	if pr == nil {
		return
	}
	if shd := p.pt.childNamed(pr, "shd"); shd != nil {
		pr.removeChild(shd)
		p.pt.touch()
	}
}

// ClearRuns removes every child of the paragraph except its properties.
func (p *Paragraph) ClearRuns() {
	kept := p.node.Children[:0]
	for _, c := range p.node.Children {
		if p.pt.is(c, "pPr") {
			kept = append(kept, c)
		} else {
			c.parent = nil
		}
	}
	p.node.Children = kept
	p.pt.touch()
}

// SetText replaces the paragraph content with a single run holding s.
// Paragraph properties are preserved.
func (p *Paragraph) SetText(s string) *Run {
	p.ClearRuns()
	return p.AddRun(s)
}

// AddRun appends a run with the given text to the paragraph.
func (p *Paragraph) AddRun(text string) *Run {
	n := p.pt.el("r")
	p.node.appendChild(n)
	p.pt.touch()
	r := &Run{pt: p.pt, node: n}
	r.SetText(text)
	return r
}

// AddPageField appends a PAGE field as the begin/instruction/end run triple
// and returns the three runs so the caller can style them.
func (p *Paragraph) AddPageField() []*Run {
	runs := make([]*Run, 0, 3)

	begin := p.pt.el("r")
	fc := p.pt.el("fldChar")
	fc.SetAttr(p.pt.aname("fldCharType"), "begin")
	begin.appendChild(fc)
	p.node.appendChild(begin)
	runs = append(runs, &Run{pt: p.pt, node: begin})

	instr := p.pt.el("r")
	it := p.pt.el("instrText")
	it.SetAttr("xml:space", "preserve")
	it.setDirectText(" PAGE ")
	instr.appendChild(it)
	p.node.appendChild(instr)
	runs = append(runs, &Run{pt: p.pt, node: instr})

	end := p.pt.el("r")
	fc = p.pt.el("fldChar")
	fc.SetAttr(p.pt.aname("fldCharType"), "end")
	end.appendChild(fc)
	p.node.appendChild(end)
	runs = append(runs, &Run{pt: p.pt, node: end})

	p.pt.touch()
	return runs
}

// InsertParagraphBefore inserts a new paragraph immediately before this one
// and returns it. When text is non-empty the new paragraph gets a single run
// holding it.
func (p *Paragraph) InsertParagraphBefore(text string) *Paragraph {
	return insertParagraphNode(p.doc, p.pt, p.node, false, text)
}

// InsertParagraphAfter inserts a new paragraph immediately after this one.
func (p *Paragraph) InsertParagraphAfter(text string) *Paragraph {
	return insertParagraphNode(p.doc, p.pt, p.node, true, text)
}
