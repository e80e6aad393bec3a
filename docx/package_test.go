package docx

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fixturePart struct {
	name string
	data string
}

// writePackage creates a zip file holding the given parts, in order.
func writePackage(t *testing.T, parts []fixturePart) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, pt := range parts {
		w, err := zw.Create(pt.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", pt.name, err)
		}
		if _, err := w.Write([]byte(pt.data)); err != nil {
			t.Fatalf("failed to write %s: %v", pt.name, err)
		}
	}
	zw.Close()
	f.Close()
	return path
}

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// createTestDocument creates a minimal DOCX around the given body content.
func createTestDocument(t *testing.T, body string) string {
	t.Helper()

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` + body + `</w:body></w:document>`

	return writePackage(t, []fixturePart{
		{"[Content_Types].xml", testContentTypes},
		{"_rels/.rels", testRootRels},
		{"word/document.xml", document},
	})
}

// readPart returns the raw bytes of one part of a written package.
func readPart(t *testing.T, path, name string) []byte {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to reopen package: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("failed to read %s: %v", name, err)
		}
		return data
	}
	t.Fatalf("part %s not found in %s", name, path)
	return nil
}

func TestOpen(t *testing.T) {
	path := createTestDocument(t, `<w:p><w:r><w:t>你好</w:t></w:r></w:p>`)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	paras := d.Paragraphs()
	if len(paras) != 1 {
		t.Fatalf("Paragraphs() len = %d, want 1", len(paras))
	}
	if got := paras[0].Text(); got != "你好" {
		t.Errorf("Text() = %q, want %q", got, "你好")
	}
}

func TestOpen_NotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.docx")
	os.WriteFile(path, []byte("not a zip file"), 0644)

	if _, err := Open(path); err == nil {
		t.Error("Open() should return error for invalid zip")
	}
}

func TestOpen_MissingDocumentPart(t *testing.T) {
	path := writePackage(t, []fixturePart{
		{"[Content_Types].xml", testContentTypes},
	})

	_, err := Open(path)
	if !errors.Is(err, ErrNotWordPackage) {
		t.Errorf("Open() error = %v, want ErrNotWordPackage", err)
	}
}

func TestOpen_NoBody(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`
	path := writePackage(t, []fixturePart{
		{"[Content_Types].xml", testContentTypes},
		{"word/document.xml", document},
	})

	_, err := Open(path)
	if !errors.Is(err, ErrNotWordPackage) {
		t.Errorf("Open() error = %v, want ErrNotWordPackage", err)
	}
}

func TestWriteFile_PassThroughUntouched(t *testing.T) {
	// A part the pipeline never touches must come back byte-for-byte,
	// whatever whitespace or attribute quirks it carries.
	custom := "<custom>\n   <odd  spacing=\"yes\"/>  \n</custom>"
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`
	path := writePackage(t, []fixturePart{
		{"[Content_Types].xml", testContentTypes},
		{"word/document.xml", document},
		{"word/custom.xml", custom},
	})

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.docx")
	if err := d.WriteFile(out); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if got := string(readPart(t, out, "word/custom.xml")); got != custom {
		t.Errorf("custom part rewritten:\ngot:  %q\nwant: %q", got, custom)
	}
	if got := string(readPart(t, out, "word/document.xml")); got != document {
		t.Errorf("untouched document.xml rewritten:\ngot:  %q\nwant: %q", got, document)
	}
}

func TestWriteFile_PersistsMutation(t *testing.T) {
	path := createTestDocument(t, `<w:p><w:r><w:t>正文</w:t></w:r></w:p>`)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.Paragraphs()[0].SetAlignment("center")

	out := filepath.Join(t.TempDir(), "out.docx")
	if err := d.WriteFile(out); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	d2, err := Open(out)
	if err != nil {
		t.Fatalf("Open() after write error = %v", err)
	}
	if got := d2.Paragraphs()[0].Alignment(); got != "center" {
		t.Errorf("Alignment() = %q, want %q", got, "center")
	}
}

func TestBlocks_Order(t *testing.T) {
	body := `<w:p><w:r><w:t>before</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>after</w:t></w:r></w:p>`
	path := createTestDocument(t, body)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	blocks := d.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("Blocks() len = %d, want 3", len(blocks))
	}
	if blocks[0].Paragraph == nil || blocks[1].Table == nil || blocks[2].Paragraph == nil {
		t.Error("Blocks() order does not match document order")
	}
}

func TestEnsureChild_SchemaOrder(t *testing.T) {
	path := createTestDocument(t,
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	p := d.Paragraphs()[0]
	p.SetLineSpacingMultiple(1.5) // creates w:spacing, which must precede w:jc

	out := filepath.Join(t.TempDir(), "out.docx")
	if err := d.WriteFile(out); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	doc := string(readPart(t, out, "word/document.xml"))
	spacingIdx := strings.Index(doc, "<w:spacing")
	jcIdx := strings.Index(doc, "<w:jc")
	if spacingIdx < 0 || jcIdx < 0 || spacingIdx > jcIdx {
		t.Errorf("w:spacing must precede w:jc, document = %s", doc)
	}
}

func TestRemoveBackground(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:background w:color="FF0000"/><w:body><w:p><w:pPr><w:shd w:val="clear" w:fill="FFFF00"/></w:pPr><w:r><w:rPr><w:highlight w:val="yellow"/></w:rPr><w:t>文字</w:t></w:r></w:p></w:body></w:document>`
	path := writePackage(t, []fixturePart{
		{"[Content_Types].xml", testContentTypes},
		{"word/document.xml", document},
	})

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d.RemoveBackground()

	out := filepath.Join(t.TempDir(), "out.docx")
	if err := d.WriteFile(out); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	doc := string(readPart(t, out, "word/document.xml"))
	for _, gone := range []string{"w:background", "w:shd", "w:highlight"} {
		if strings.Contains(doc, gone) {
			t.Errorf("document still contains %s after RemoveBackground()", gone)
		}
	}
	if !strings.Contains(doc, "文字") {
		t.Error("RemoveBackground() must not drop text")
	}
}
