package docx

import (
	"strconv"
	"strings"
)

// Run wraps a w:r element.
type Run struct {
	pt   *part
	node *Node
}

func (r *Run) props() *Node {
	return r.pt.childNamed(r.node, "rPr")
}

func (r *Run) ensureProps() *Node {
	return r.pt.ensureFirst(r.node, "rPr")
}

// Text returns the run's text. Tabs become "\t" and breaks "\n".
func (r *Run) Text() string {
	var sb strings.Builder
	for _, c := range r.node.Children {
		switch {
		case r.pt.is(c, "t"):
			sb.WriteString(c.directText())
		case r.pt.is(c, "tab"):
			sb.WriteByte('\t')
		case r.pt.is(c, "br"):
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SetText replaces the run's content with the given text, keeping run
// properties. Leading or trailing ASCII whitespace gets xml:space="preserve"
// so it survives re-parsing. An empty string leaves the run with no text
// element.
func (r *Run) SetText(s string) {
	kept := r.node.Children[:0]
	for _, c := range r.node.Children {
		if r.pt.is(c, "rPr") {
			kept = append(kept, c)
		} else {
			c.parent = nil
		}
	}
	r.node.Children = kept
	if s != "" {
		t := r.pt.el("t")
		if strings.TrimSpace(s) != s {
			t.SetAttr("xml:space", "preserve")
		}
		t.setDirectText(s)
		r.node.appendChild(t)
	}
	r.pt.touch()
}

// SetFonts assigns the Latin font to the ascii, hAnsi and cs slots and the
// East Asian font to eastAsia. Theme font attributes are removed: a theme
// reference overrides the literal name.
func (r *Run) SetFonts(latin, eastAsia string) {
	f := r.pt.ensureChild(r.ensureProps(), "rFonts", rPrOrder)
	f.SetAttr(r.pt.aname("ascii"), latin)
	f.SetAttr(r.pt.aname("hAnsi"), latin)
	f.SetAttr(r.pt.aname("cs"), latin)
	f.SetAttr(r.pt.aname("eastAsia"), eastAsia)
	f.RemoveAttr(r.pt.aname("asciiTheme"))
	f.RemoveAttr(r.pt.aname("hAnsiTheme"))
	f.RemoveAttr(r.pt.aname("cstheme"))
	f.RemoveAttr(r.pt.aname("eastAsiaTheme"))
	r.pt.touch()
}

// SetSizePoints sets the font size (w:sz and w:szCs) in points.
func (r *Run) SetSizePoints(points float64) {
	hp := strconv.Itoa(HalfPointsFromPoints(points))
	pr := r.ensureProps()
	r.pt.ensureChild(pr, "sz", rPrOrder).SetAttr(r.pt.aname("val"), hp)
	r.pt.ensureChild(pr, "szCs", rPrOrder).SetAttr(r.pt.aname("val"), hp)
	r.pt.touch()
}

// SetBold forces bold on or explicitly off. Off is written as w:val="0"
// rather than removing the element, so a bold style cannot reassert itself.
func (r *Run) SetBold(bold bool) {
	pr := r.ensureProps()
	for _, local := range []string{"b", "bCs"} {
		el := r.pt.ensureChild(pr, local, rPrOrder)
		if bold {
			el.RemoveAttr(r.pt.aname("val"))
		} else {
			el.SetAttr(r.pt.aname("val"), "0")
		}
	}
	r.pt.touch()
}

// ClearDecorations forces italic, underline, strikethrough and vertical
// alignment off, sets the color to plain black, and strips highlight and
// shading. Explicit "off" values are written so styles cannot reassert the
// decoration.
func (r *Run) ClearDecorations() {
	pr := r.ensureProps()
	for _, local := range []string{"i", "iCs", "strike", "dstrike"} {
		r.pt.ensureChild(pr, local, rPrOrder).SetAttr(r.pt.aname("val"), "0")
	}
	r.pt.ensureChild(pr, "u", rPrOrder).SetAttr(r.pt.aname("val"), "none")
	r.pt.ensureChild(pr, "vertAlign", rPrOrder).SetAttr(r.pt.aname("val"), "baseline")

	color := r.pt.ensureChild(pr, "color", rPrOrder)
	color.SetAttr(r.pt.aname("val"), "000000")
	color.RemoveAttr(r.pt.aname("themeColor"))
	color.RemoveAttr(r.pt.aname("themeTint"))
	color.RemoveAttr(r.pt.aname("themeShade"))

	r.RemoveShading()
	r.pt.touch()
}

// RemoveShading strips run-level highlight and shading.
func (r *Run) RemoveShading() {
	pr := r.props()
	if pr == nil {
		return
	}
	changed := false
	if h := r.pt.childNamed(pr, "highlight"); h != nil {
		pr.removeChild(h)
		changed = true
	}
	if s := r.pt.childNamed(pr, "shd"); s != nil {
		pr.removeChild(s)
		changed = true
	}
	if changed {
		r.pt.touch()
	}
}

// FontASCII returns the run's Latin font name, or "" when unset.
func (r *Run) FontASCII() string {
	return r.fontAttr("ascii")
}

// FontEastAsia returns the run's East Asian font name, or "" when unset.
func (r *Run) FontEastAsia() string {
	return r.fontAttr("eastAsia")
}

func (r *Run) fontAttr(local string) string {
	pr := r.props()
	if pr == nil {
		return ""
	}
	f := r.pt.childNamed(pr, "rFonts")
	if f == nil {
		return ""
	}
	v, _ := f.Attr(r.pt.aname(local))
	return v
}

// SizeHalfPoints returns the run's font size in half-points and whether it is
// set.
func (r *Run) SizeHalfPoints() (int, bool) {
	pr := r.props()
	if pr == nil {
		return 0, false
	}
	sz := r.pt.childNamed(pr, "sz")
	if sz == nil {
		return 0, false
	}
	v, ok := sz.Attr(r.pt.aname("val"))
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bold reports whether the run is explicitly bold.
func (r *Run) Bold() bool {
	pr := r.props()
	if pr == nil {
		return false
	}
	b := r.pt.childNamed(pr, "b")
	if b == nil {
		return false
	}
	v, ok := b.Attr(r.pt.aname("val"))
	if !ok {
		return true
	}
	return v != "0" && v != "false" && v != "none"
}
