package docx

import (
	"strconv"
	"strings"
)

// Table wraps a w:tbl element.
type Table struct {
	doc  *Document
	pt   *part
	node *Node
}

// Row wraps a w:tr element.
type Row struct {
	pt   *part
	node *Node
}

// Cell wraps a w:tc element.
type Cell struct {
	doc  *Document
	pt   *part
	node *Node
}

func (t *Table) ensureProps() *Node {
	return t.pt.ensureFirst(t.node, "tblPr")
}

// Rows returns the table's rows in order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, c := range t.pt.childrenNamed(t.node, "tr") {
		rows = append(rows, &Row{pt: t.pt, node: c})
	}
	return rows
}

// ColumnCount returns the width of the table grid: the maximum over rows of
// the number of grid columns the row's cells cover, counting merges.
func (t *Table) ColumnCount() int {
	max := 0
	for _, row := range t.Rows() {
		n := 0
		for _, cell := range row.Cells() {
			n += cell.GridSpan()
		}
		if n > max {
			max = n
		}
	}
	return max
}

// SetWidthPercent sets the table width as a percentage of the content width.
func (t *Table) SetWidthPercent(pct float64) {
	w := t.pt.ensureChild(t.ensureProps(), "tblW", tblPrOrder)
	w.SetAttr(t.pt.aname("w"), strconv.Itoa(FiftiethsOfPercent(pct)))
	w.SetAttr(t.pt.aname("type"), "pct")
	t.pt.touch()
}

// SetIndentTwips sets the table indent from the leading margin.
func (t *Table) SetIndentTwips(twips int) {
	ind := t.pt.ensureChild(t.ensureProps(), "tblInd", tblPrOrder)
	ind.SetAttr(t.pt.aname("w"), strconv.Itoa(twips))
	ind.SetAttr(t.pt.aname("type"), "dxa")
	t.pt.touch()
}

// SetUniformBorders draws every outer edge and the interior grid with a
// single stroke of the given weight (eighths of a point) and color.
func (t *Table) SetUniformBorders(szEighths int, color string) {
	borders := t.pt.ensureChild(t.ensureProps(), "tblBorders", tblPrOrder)
	setBorderEdges(t.pt, borders, szEighths, color,
		"top", "left", "bottom", "right", "insideH", "insideV")
	t.pt.touch()
}

// setBorderEdges rewrites the named edge children of a border container.
func setBorderEdges(pt *part, borders *Node, szEighths int, color string, edges ...string) {
	for _, edge := range edges {
		b := pt.ensureChild(borders, edge, borderEdgeOrder)
		b.SetAttr(pt.aname("val"), "single")
		b.SetAttr(pt.aname("sz"), strconv.Itoa(szEighths))
		b.SetAttr(pt.aname("space"), "0")
		b.SetAttr(pt.aname("color"), color)
	}
}

var borderEdgeOrder = []string{
	"top", "start", "left", "bottom", "end", "right", "insideH", "insideV",
	"tl2br", "tr2bl",
}

// SetCellMargins sets the table's default cell margins in twips.
func (t *Table) SetCellMargins(top, left, bottom, right int) {
	mar := t.pt.ensureChild(t.ensureProps(), "tblCellMar", tblPrOrder)
	for _, m := range []struct {
		edge  string
		twips int
	}{{"top", top}, {"left", left}, {"bottom", bottom}, {"right", right}} {
		c := t.pt.ensureChild(mar, m.edge, cellMarOrder)
		c.SetAttr(t.pt.aname("w"), strconv.Itoa(m.twips))
		c.SetAttr(t.pt.aname("type"), "dxa")
	}
	t.pt.touch()
}

var cellMarOrder = []string{"top", "start", "left", "bottom", "end", "right"}

// SetLayoutFixed switches the table to fixed layout so explicit column
// widths are honored.
func (t *Table) SetLayoutFixed() {
	l := t.pt.ensureChild(t.ensureProps(), "tblLayout", tblPrOrder)
	l.SetAttr(t.pt.aname("type"), "fixed")
	t.pt.touch()
}

// SetGrid replaces the table grid with columns of the given widths in twips.
// The grid element is placed between the table properties and the first row.
func (t *Table) SetGrid(widths []int) {
	grid := t.pt.childNamed(t.node, "tblGrid")
	if grid == nil {
		grid = t.pt.el("tblGrid")
		idx := 0
		if pr := t.pt.childNamed(t.node, "tblPr"); pr != nil {
			idx = t.node.indexOf(pr) + 1
		}
		t.node.insertChild(idx, grid)
	}
	for _, c := range grid.Children {
		c.parent = nil
	}
	grid.Children = nil
	for _, w := range widths {
		col := t.pt.el("gridCol")
		col.SetAttr(t.pt.aname("w"), strconv.Itoa(w))
		grid.appendChild(col)
	}
	t.pt.touch()
}

// InsertParagraphBefore inserts a paragraph immediately before the table.
func (t *Table) InsertParagraphBefore(text string) *Paragraph {
	return insertParagraphNode(t.doc, t.pt, t.node, false, text)
}

// InsertParagraphAfter inserts a paragraph immediately after the table.
func (t *Table) InsertParagraphAfter(text string) *Paragraph {
	return insertParagraphNode(t.doc, t.pt, t.node, true, text)
}

func (r *Row) ensureProps() *Node {
	return r.pt.ensureFirst(r.node, "trPr")
}

// Cells returns the row's cells in order.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, c := range r.pt.childrenNamed(r.node, "tc") {
		cells = append(cells, &Cell{pt: r.pt, node: c})
	}
	return cells
}

// SetMinHeight sets the row height in twips with the "at least" rule, so
// content can still grow the row.
func (r *Row) SetMinHeight(twips int) {
	h := r.pt.ensureChild(r.ensureProps(), "trHeight", trPrOrder)
	h.SetAttr(r.pt.aname("val"), strconv.Itoa(twips))
	h.SetAttr(r.pt.aname("hRule"), "atLeast")
	r.pt.touch()
}

func (c *Cell) ensureProps() *Node {
	return c.pt.ensureFirst(c.node, "tcPr")
}

// Paragraphs returns the cell's direct paragraphs. Nested tables are not
// descended into.
func (c *Cell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, n := range c.pt.childrenNamed(c.node, "p") {
		paras = append(paras, &Paragraph{doc: c.doc, pt: c.pt, node: n})
	}
	return paras
}

// Text returns the cell text with paragraphs joined by newlines, trimmed.
func (c *Cell) Text() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// GridSpan returns how many grid columns the cell covers (1 when unmerged).
func (c *Cell) GridSpan() int {
	pr := c.pt.childNamed(c.node, "tcPr")
	if pr == nil {
		return 1
	}
	gs := c.pt.childNamed(pr, "gridSpan")
	if gs == nil {
		return 1
	}
	v, ok := gs.Attr(c.pt.aname("val"))
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// SetWidthPercent sets the cell width as a percentage of the table width.
func (c *Cell) SetWidthPercent(pct float64) {
	w := c.pt.ensureChild(c.ensureProps(), "tcW", tcPrOrder)
	w.SetAttr(c.pt.aname("w"), strconv.Itoa(FiftiethsOfPercent(pct)))
	w.SetAttr(c.pt.aname("type"), "pct")
	c.pt.touch()
}

// SetBorders draws all four cell edges with the given stroke weight
// (eighths of a point) and color.
func (c *Cell) SetBorders(szEighths int, color string) {
	borders := c.pt.ensureChild(c.ensureProps(), "tcBorders", tcPrOrder)
	setBorderEdges(c.pt, borders, szEighths, color, "top", "left", "bottom", "right")
	c.pt.touch()
}
