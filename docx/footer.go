package docx

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	footerRelType   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	settingsRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"

	footerContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	settingsContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	relsContentType     = "application/vnd.openxmlformats-package.relationships+xml"

	relsNS = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Footer wraps one w:ftr part.
type Footer struct {
	doc *Document
	pt  *part
}

// Clear removes all footer content so it can be rebuilt.
func (f *Footer) Clear() {
	for _, c := range f.pt.root.Children {
		c.parent = nil
	}
	f.pt.root.Children = nil
	f.pt.touch()
}

// AddParagraph appends an empty paragraph to the footer.
func (f *Footer) AddParagraph() *Paragraph {
	n := f.pt.el("p")
	f.pt.root.appendChild(n)
	f.pt.touch()
	return &Paragraph{doc: f.doc, pt: f.pt, node: n}
}

// EnsureFooter returns the footer part of the given kind ("default" for odd
// pages, "even" for even pages), creating the part, its content-type entry,
// its relationship and the section references when absent. Every section is
// left referencing the footer.
func (d *Document) EnsureFooter(kind string) (*Footer, error) {
	sections := d.Sections()
	if len(sections) == 0 {
		sectPr := d.doc.ensureChild(d.body, "sectPr", nil)
		sections = []*Section{{doc: d, pt: d.doc, node: sectPr}}
	}

	pt, relID, err := d.findFooterPart(sections, kind)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		pt, relID, err = d.createFooterPart()
		if err != nil {
			return nil, err
		}
	}
	for _, s := range sections {
		s.setFooterReference(kind, relID)
	}
	return &Footer{doc: d, pt: pt}, nil
}

// findFooterPart resolves an existing footer reference of the given kind via
// the document relationships. Returns nils when no section references one.
func (d *Document) findFooterPart(sections []*Section, kind string) (*part, string, error) {
	rels, err := d.relsPart()
	if err != nil {
		return nil, "", err
	}
	for _, s := range sections {
		ref := s.footerReference(kind)
		if ref == nil {
			continue
		}
		relID, ok := ref.Attr("r:id")
		if !ok {
			continue
		}
		for _, rel := range rels.root.childrenNamed("", "Relationship") {
			id, _ := rel.Attr("Id")
			if id != relID {
				continue
			}
			target, _ := rel.Attr("Target")
			if pt := d.partNamed(partNameForTarget(target)); pt != nil {
				if err := pt.parse(); err != nil {
					return nil, "", err
				}
				return pt, relID, nil
			}
		}
	}
	return nil, "", nil
}

// partNameForTarget resolves a document-relationship target to a part name.
func partNameForTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return "word/" + target
}

// createFooterPart builds a fresh footer part, registers its content type and
// relationship, and returns it with the relationship id.
func (d *Document) createFooterPart() (*part, string, error) {
	n := 1
	for d.partNamed(fmt.Sprintf("word/footer%d.xml", n)) != nil {
		n++
	}
	name := fmt.Sprintf("word/footer%d.xml", n)

	root := d.doc.el("ftr")
	copyNamespaceAttrs(d.doc.root, root)
	pt := d.addPart(name, root, d.doc.prefix)

	if err := d.addContentTypeOverride("/"+name, footerContentType); err != nil {
		return nil, "", err
	}
	relID, err := d.addRelationship(footerRelType, strings.TrimPrefix(name, "word/"))
	if err != nil {
		return nil, "", err
	}
	return pt, relID, nil
}

// copyNamespaceAttrs carries the namespace declarations (and the markup
// compatibility attributes that depend on them) from one root to another.
func copyNamespaceAttrs(from, to *Node) {
	for _, a := range from.Attrs {
		if strings.HasPrefix(a.Name, "xmlns") || strings.HasPrefix(a.Name, "mc:") {
			to.SetAttr(a.Name, a.Value)
		}
	}
}

// EnsureEvenAndOddHeaders switches the document to distinct odd and even
// headers and footers, creating the settings part when missing.
func (d *Document) EnsureEvenAndOddHeaders() error {
	pt, err := d.ensureSettingsPart()
	if err != nil {
		return err
	}
	pt.ensureChild(pt.root, "evenAndOddHeaders", settingsOrder)
	return nil
}

// ensureSettingsPart returns the parsed word/settings.xml, creating the part
// with its content-type entry and relationship when the package has none.
func (d *Document) ensureSettingsPart() (*part, error) {
	if pt := d.partNamed(settingsPartName); pt != nil {
		if err := pt.parse(); err != nil {
			return nil, err
		}
		return pt, nil
	}
	root := d.doc.el("settings")
	copyNamespaceAttrs(d.doc.root, root)
	pt := d.addPart(settingsPartName, root, d.doc.prefix)
	if err := d.addContentTypeOverride("/"+settingsPartName, settingsContentType); err != nil {
		return nil, err
	}
	if _, err := d.addRelationship(settingsRelType, "settings.xml"); err != nil {
		return nil, err
	}
	return pt, nil
}

// relsPart returns the parsed document relationships part, creating an empty
// one when the package has none.
func (d *Document) relsPart() (*part, error) {
	if pt := d.partNamed(documentRelsPartName); pt != nil {
		if err := pt.parse(); err != nil {
			return nil, err
		}
		return pt, nil
	}
	root := &Node{Local: "Relationships"}
	root.SetAttr("xmlns", relsNS)
	pt := d.addPart(documentRelsPartName, root, "")
	if err := d.addContentTypeDefault("rels", relsContentType); err != nil {
		return nil, err
	}
	return pt, nil
}

// addRelationship appends a relationship with the next free rId and returns
// that id.
func (d *Document) addRelationship(relType, target string) (string, error) {
	rels, err := d.relsPart()
	if err != nil {
		return "", err
	}
	max := 0
	for _, rel := range rels.root.childrenNamed("", "Relationship") {
		id, _ := rel.Attr("Id")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > max {
			max = n
		}
	}
	relID := "rId" + strconv.Itoa(max+1)
	rel := &Node{Local: "Relationship"}
	rel.SetAttr("Id", relID)
	rel.SetAttr("Type", relType)
	rel.SetAttr("Target", target)
	rels.root.appendChild(rel)
	rels.touch()
	return relID, nil
}

// contentTypesPart returns the parsed [Content_Types].xml part.
func (d *Document) contentTypesPart() (*part, error) {
	pt := d.partNamed(contentTypesPartName)
	if pt == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotWordPackage, contentTypesPartName)
	}
	if err := pt.parse(); err != nil {
		return nil, err
	}
	return pt, nil
}

// addContentTypeOverride registers a part-specific content type, once.
func (d *Document) addContentTypeOverride(partName, contentType string) error {
	pt, err := d.contentTypesPart()
	if err != nil {
		return err
	}
	for _, o := range pt.root.childrenNamed("", "Override") {
		if v, _ := o.Attr("PartName"); v == partName {
			return nil
		}
	}
	o := &Node{Local: "Override"}
	o.SetAttr("PartName", partName)
	o.SetAttr("ContentType", contentType)
	pt.root.appendChild(o)
	pt.touch()
	return nil
}

// addContentTypeDefault registers an extension-level content type, once.
func (d *Document) addContentTypeDefault(extension, contentType string) error {
	pt, err := d.contentTypesPart()
	if err != nil {
		return err
	}
	for _, def := range pt.root.childrenNamed("", "Default") {
		if v, _ := def.Attr("Extension"); v == extension {
			return nil
		}
	}
	def := &Node{Local: "Default"}
	def.SetAttr("Extension", extension)
	def.SetAttr("ContentType", contentType)
	pt.root.appendChild(def)
	pt.touch()
	return nil
}
