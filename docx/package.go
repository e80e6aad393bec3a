// Package docx reads and rewrites Office Open XML word-processing packages.
// The document is held as a fidelity-preserving node tree: parts the
// caller never touches are copied into the output byte-for-byte, and parts
// that are rewritten keep every element the rewrite did not explicitly change.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotWordPackage reports that the input, although a readable zip archive,
// is not a word-processing package.
var ErrNotWordPackage = errors.New("not a word-processing package")

const (
	documentPartName     = "word/document.xml"
	settingsPartName     = "word/settings.xml"
	contentTypesPartName = "[Content_Types].xml"
	documentRelsPartName = "word/_rels/document.xml.rels"

	defaultXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"
)

// part is one file inside the package. data holds the original bytes; once a
// part is parsed and mutated, dirty marks it for re-encoding on save.
type part struct {
	name   string
	method uint16
	data   []byte

	root   *Node
	header string
	prefix string
	dirty  bool
}

// parse builds the node tree for an XML part. Idempotent.
func (pt *part) parse() error {
	if pt.root != nil {
		return nil
	}
	root, header, err := parseXML(pt.data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", pt.name, err)
	}
	pt.root = root
	pt.header = header
	pt.prefix = root.Space
	return nil
}

func (pt *part) touch() {
	pt.dirty = true
}

// bytes returns the part content to be written: re-encoded when mutated,
// otherwise the untouched original bytes.
func (pt *part) bytes() []byte {
	if !pt.dirty || pt.root == nil {
		return pt.data
	}
	var buf bytes.Buffer
	if pt.header != "" {
		buf.WriteString(pt.header)
	}
	encodeXML(&buf, pt.root)
	return buf.Bytes()
}

// el creates an element in the part's main namespace prefix.
func (pt *part) el(local string) *Node {
	return &Node{Space: pt.prefix, Local: local}
}

// is reports whether n is an element with the given local name in the part's
// main namespace prefix.
func (pt *part) is(n *Node, local string) bool {
	return n.isElement() && n.Space == pt.prefix && n.Local == local
}

// aname builds an attribute name in the part's main namespace prefix.
func (pt *part) aname(local string) string {
	if pt.prefix == "" {
		return local
	}
	return pt.prefix + ":" + local
}

func (pt *part) childNamed(n *Node, local string) *Node {
	return n.child(pt.prefix, local)
}

func (pt *part) childrenNamed(n *Node, local string) []*Node {
	return n.childrenNamed(pt.prefix, local)
}

// ensureChild returns the named child of parent, creating it when absent.
// New children are placed according to order, the schema child sequence for
// the parent element, so Word-strict consumers accept the rewritten part.
func (pt *part) ensureChild(parent *Node, local string, order []string) *Node {
	if c := pt.childNamed(parent, local); c != nil {
		return c
	}
	c := pt.el(local)
	pos := schemaPos(order, local)
	idx := len(parent.Children)
	if pos >= 0 {
		for i, existing := range parent.Children {
			if !existing.isElement() || existing.Space != pt.prefix {
				continue
			}
			if p := schemaPos(order, existing.Local); p > pos {
				idx = i
				break
			}
		}
	}
	parent.insertChild(idx, c)
	pt.touch()
	return c
}

// ensureFirst returns the named child of parent, creating it as the first
// child when absent. Property containers (pPr, rPr, tblPr, trPr, tcPr) must
// precede all content children.
func (pt *part) ensureFirst(parent *Node, local string) *Node {
	if c := pt.childNamed(parent, local); c != nil {
		return c
	}
	c := pt.el(local)
	parent.insertChild(0, c)
	pt.touch()
	return c
}

func schemaPos(order []string, local string) int {
	for i, name := range order {
		if name == local {
			return i
		}
	}
	return -1
}

// Schema child sequences for the property containers this package rewrites.
var (
	pPrOrder = []string{
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr",
		"widowControl", "numPr", "suppressLineNumbers", "pBdr", "shd", "tabs",
		"suppressAutoHyphens", "kinsoku", "wordWrap", "overflowPunct",
		"topLinePunct", "autoSpaceDE", "autoSpaceDN", "bidi", "adjustRightInd",
		"snapToGrid", "spacing", "ind", "contextualSpacing", "mirrorIndents",
		"suppressOverlap", "jc", "textDirection", "textAlignment",
		"textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr", "sectPr",
	}
	rPrOrder = []string{
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps",
		"strike", "dstrike", "outline", "shadow", "emboss", "imprint",
		"noProof", "snapToGrid", "vanish", "webHidden", "color", "spacing",
		"w", "kern", "position", "sz", "szCs", "highlight", "u", "effect",
		"bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang",
		"eastAsianLayout", "specVanish", "oMath",
	}
	tblPrOrder = []string{
		"tblStyle", "tblpPr", "tblOverlap", "bidiVisual",
		"tblStyleRowBandSize", "tblStyleColBandSize", "tblW", "jc",
		"tblCellSpacing", "tblInd", "tblBorders", "shd", "tblLayout",
		"tblCellMar", "tblLook",
	}
	trPrOrder = []string{
		"cnfStyle", "divId", "gridBefore", "gridAfter", "wBefore", "wAfter",
		"cantSplit", "trHeight", "tblHeader", "tblCellSpacing", "jc", "hidden",
	}
	tcPrOrder = []string{
		"cnfStyle", "tcW", "gridSpan", "hMerge", "vMerge", "tcBorders", "shd",
		"noWrap", "tcMar", "textDirection", "tcFitText", "vAlign", "hideMark",
	}
	sectPrOrder = []string{
		"headerReference", "footerReference", "footnotePr", "endnotePr",
		"type", "pgSz", "pgMar", "paperSrc", "pgBorders", "lnNumType",
		"pgNumType", "cols", "formProt", "vAlign", "noEndnote",
		"titlePg", "textDirection", "bidi", "rtlGutter", "docGrid",
		"printerSettings", "sectPrChange",
	}
	settingsOrder = []string{
		"writeProtection", "view", "zoom", "removePersonalInformation",
		"displayBackgroundShape", "proofState", "defaultTabStop",
		"autoHyphenation", "evenAndOddHeaders", "bookFoldPrinting",
		"drawingGridHorizontalSpacing", "drawingGridVerticalSpacing",
		"characterSpacingControl", "compat", "rsids",
	}
)

// Document is an open word-processing package held fully in memory. It is
// loaded once and written out as a whole; there is no partial persistence.
type Document struct {
	path   string
	parts  []*part
	byName map[string]*part

	doc  *part // word/document.xml, parsed
	body *Node
}

// Open reads a .docx package into memory. The file handle is released before
// Open returns; all later work happens on the in-memory parts.
func Open(filename string) (*Document, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}
	defer zr.Close()

	d := &Document{path: filename, byName: make(map[string]*part)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		pt := &part{name: f.Name, method: f.Method, data: data}
		d.parts = append(d.parts, pt)
		d.byName[f.Name] = pt
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	if err := d.parseDocument(); err != nil {
		return nil, err
	}
	return d, nil
}

// validate checks that required package parts exist.
func (d *Document) validate() error {
	required := []string{contentTypesPartName, documentPartName}
	for _, name := range required {
		if d.byName[name] == nil {
			return fmt.Errorf("%w: missing %s", ErrNotWordPackage, name)
		}
	}
	return nil
}

func (d *Document) parseDocument() error {
	pt := d.byName[documentPartName]
	if err := pt.parse(); err != nil {
		return err
	}
	body := pt.childNamed(pt.root, "body")
	if body == nil {
		return fmt.Errorf("%w: document has no body", ErrNotWordPackage)
	}
	d.doc = pt
	d.body = body
	return nil
}

// partNamed returns the named part, or nil.
func (d *Document) partNamed(name string) *part {
	return d.byName[name]
}

// addPart appends a brand-new part to the package.
func (d *Document) addPart(name string, root *Node, prefix string) *part {
	pt := &part{
		name:   name,
		method: zip.Deflate,
		root:   root,
		header: defaultXMLHeader,
		prefix: prefix,
		dirty:  true,
	}
	d.parts = append(d.parts, pt)
	d.byName[name] = pt
	return pt
}

// Write serializes the package. Untouched parts are copied verbatim with
// their original entry order and compression method.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, pt := range d.parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: pt.name, Method: pt.method})
		if err != nil {
			return fmt.Errorf("writing %s: %w", pt.name, err)
		}
		if _, err := fw.Write(pt.bytes()); err != nil {
			return fmt.Errorf("writing %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing package: %w", err)
	}
	return nil
}

// WriteFile serializes the package in memory first and only then touches the
// output path, so a failed run never leaves a partial file behind.
func (d *Document) WriteFile(filename string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("saving package: %w", err)
	}
	return nil
}

// RemoveBackground strips the document background element and any paragraph
// or run shading and highlights, so page and text backgrounds do not survive
// formatting.
func (d *Document) RemoveBackground() {
	pt := d.doc
	if bg := pt.childNamed(pt.root, "background"); bg != nil {
		pt.root.removeChild(bg)
		pt.touch()
	}
	for _, p := range d.Paragraphs() {
		p.RemoveShading()
		for _, r := range p.Runs() {
			r.RemoveShading()
		}
	}
}
