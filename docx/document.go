package docx

// Block is one top-level element of the document body: either a
// paragraph or a table, never both.
type Block struct {
	Paragraph *Paragraph
	Table     *Table
}

// Blocks returns the body's paragraphs and tables in document order.
// Elements other than w:p and w:tbl (such as w:sectPr) are skipped.
func (d *Document) Blocks() []Block {
	var blocks []Block
	for _, c := range d.body.Children {
		switch {
		case d.doc.is(c, "p"):
			blocks = append(blocks, Block{Paragraph: &Paragraph{doc: d, pt: d.doc, node: c}})
		case d.doc.is(c, "tbl"):
			blocks = append(blocks, Block{Table: &Table{doc: d, pt: d.doc, node: c}})
		}
	}
	return blocks
}

// Paragraphs returns the paragraphs that are direct children of the
// body. Paragraphs nested inside table cells are not included; use
// Tables and Cell.Paragraphs for those.
func (d *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, c := range d.body.Children {
		if d.doc.is(c, "p") {
			paras = append(paras, &Paragraph{doc: d, pt: d.doc, node: c})
		}
	}
	return paras
}

// Tables returns the tables that are direct children of the body.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, c := range d.body.Children {
		if d.doc.is(c, "tbl") {
			tables = append(tables, &Table{doc: d, pt: d.doc, node: c})
		}
	}
	return tables
}

// insertParagraphNode splices a new empty w:p next to ref within its
// parent and returns it wrapped. The caller owns any further styling.
func insertParagraphNode(d *Document, pt *part, ref *Node, after bool, text string) *Paragraph {
	parent := ref.parent
	idx := parent.indexOf(ref)
	if idx < 0 {
		return nil
	}
	n := pt.el("p")
	if after {
		parent.insertChild(idx+1, n)
	} else {
		parent.insertChild(idx, n)
	}
	p := &Paragraph{doc: d, pt: pt, node: n}
	if text != "" {
		p.AddRun(text)
	}
	pt.touch()
	return p
}
