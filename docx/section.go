package docx

import "strconv"

// A4 portrait page width and the Word default margin, in twips. Used when a
// section leaves w:pgSz or w:pgMar unspecified.
const (
	defaultPageWidthTwips = 11906
	defaultMarginTwips    = 1440
)

// Section wraps a w:sectPr element, either body-level (the final section) or
// embedded in a paragraph's properties (an interior section break).
type Section struct {
	doc  *Document
	pt   *part
	node *Node
}

// Sections returns every section of the document in order. The body-level
// sectPr, when present, is last.
func (d *Document) Sections() []*Section {
	var secs []*Section
	d.body.walk(func(n *Node) {
		if d.doc.is(n, "sectPr") {
			secs = append(secs, &Section{doc: d, pt: d.doc, node: n})
		}
	})
	return secs
}

// SetMargins sets the page margins in centimeters. Header, footer and gutter
// distances are left as they were.
func (s *Section) SetMargins(top, bottom, left, right float64) {
	mar := s.pt.ensureChild(s.node, "pgMar", sectPrOrder)
	mar.SetAttr(s.pt.aname("top"), strconv.Itoa(TwipsFromCm(top)))
	mar.SetAttr(s.pt.aname("right"), strconv.Itoa(TwipsFromCm(right)))
	mar.SetAttr(s.pt.aname("bottom"), strconv.Itoa(TwipsFromCm(bottom)))
	mar.SetAttr(s.pt.aname("left"), strconv.Itoa(TwipsFromCm(left)))
	s.pt.touch()
}

// PageWidthTwips returns the page width, defaulting to A4 portrait.
func (s *Section) PageWidthTwips() int {
	if sz := s.pt.childNamed(s.node, "pgSz"); sz != nil {
		if v, ok := sz.Attr(s.pt.aname("w")); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return defaultPageWidthTwips
}

// ContentWidthTwips returns the page width minus the left and right margins.
func (s *Section) ContentWidthTwips() int {
	left, right := defaultMarginTwips, defaultMarginTwips
	if mar := s.pt.childNamed(s.node, "pgMar"); mar != nil {
		if v, ok := mar.Attr(s.pt.aname("left")); ok {
			if n, err := strconv.Atoi(v); err == nil {
				left = n
			}
		}
		if v, ok := mar.Attr(s.pt.aname("right")); ok {
			if n, err := strconv.Atoi(v); err == nil {
				right = n
			}
		}
	}
	w := s.PageWidthTwips() - left - right
	if w <= 0 {
		return defaultPageWidthTwips - 2*defaultMarginTwips
	}
	return w
}

// footerReference returns the section's footer reference of the given kind
// ("default", "even" or "first"), or nil.
func (s *Section) footerReference(kind string) *Node {
	for _, ref := range s.pt.childrenNamed(s.node, "footerReference") {
		if v, _ := ref.Attr(s.pt.aname("type")); v == kind {
			return ref
		}
	}
	return nil
}

// setFooterReference points the section's footer of the given kind at the
// relationship id, creating the reference when absent.
func (s *Section) setFooterReference(kind, relID string) {
	ref := s.footerReference(kind)
	if ref == nil {
		ref = s.pt.el("footerReference")
		ref.SetAttr(s.pt.aname("type"), kind)
		idx := 0
		for i, c := range s.node.Children {
			if s.pt.is(c, "headerReference") || s.pt.is(c, "footerReference") {
				idx = i + 1
			}
		}
		s.node.insertChild(idx, ref)
	}
	ref.SetAttr("r:id", relID)
	s.pt.touch()
}
