package punct

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/officekit/gongwen/docx"
)

func TestFix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"dot ellipsis", "然后...就结束了", "然后……就结束了"},
		{"long dot run", "等等......", "等等……"},
		{"full stop run", "然后。。。结束", "然后……结束"},
		{"hyphen dash", "进展--顺利", "进展——顺利"},
		{"single em dash", "进展—顺利", "进展——顺利"},
		{"em dash run", "进展————顺利", "进展——顺利"},
		{"parens and question mark", "会议(第一次)结束?", "会议（第一次）结束？"},
		{"colon semicolon exclamation", "要求如下:第一;加油!", "要求如下：第一；加油！"},
		{"comma between han", "第一,第二", "第一，第二"},
		{"comma between digits kept", "共1,000元", "共1,000元"},
		{"period at end", "工作完成了.", "工作完成了。"},
		{"period before space", "完成了. 然后继续", "完成了。 然后继续"},
		{"decimal kept", "增长3.5个百分点", "增长3.5个百分点"},
		{"filename kept", "见文件report.txt中的说明", "见文件report.txt中的说明"},
		{"double quotes", `他说"很好"然后离开`, "他说“很好”然后离开"},
		{"single quotes", "这是'重点'内容", "这是‘重点’内容"},
		{"unpaired quote stays open", `他说"很好`, "他说“很好"},
		{"english only untouched", "version 2.1 (beta), see notes", "version 2.1 (beta), see notes"},
		{"english ellipsis normalized", "wait... done", "wait…… done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fix(tt.in); got != tt.want {
				t.Errorf("Fix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFixIdempotent(t *testing.T) {
	inputs := []string{
		"然后...就结束了",
		"进展--顺利",
		"会议(第一次)结束?",
		`他说"很好"然后离开`,
	}
	for _, in := range inputs {
		once := Fix(in)
		if twice := Fix(once); twice != once {
			t.Errorf("Fix not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func fixture(t *testing.T, body string) *docx.Document {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`))
	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>` + body + `</w:body></w:document>`))
	zw.Close()
	f.Close()

	d, err := docx.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d
}

func TestDocument(t *testing.T) {
	d := fixture(t,
		`<w:p><w:r><w:t>会议开始了.</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>plain english text</w:t></w:r></w:p>`+
			`<w:tbl><w:tblGrid><w:gridCol w:w="8000"/></w:tblGrid>`+
			`<w:tr><w:tc><w:p><w:r><w:t>数据(初稿)</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	paras, cells := Document(d)
	if paras != 1 || cells != 1 {
		t.Fatalf("Document() = (%d, %d), want (1, 1)", paras, cells)
	}
	if got := d.Paragraphs()[0].Text(); got != "会议开始了。" {
		t.Errorf("paragraph text = %q", got)
	}
	if got := d.Tables()[0].Rows()[0].Cells()[0].Text(); got != "数据（初稿）" {
		t.Errorf("cell text = %q", got)
	}

	// A second pass finds nothing left to fix.
	if paras, cells := Document(d); paras != 0 || cells != 0 {
		t.Errorf("second Document() = (%d, %d), want (0, 0)", paras, cells)
	}
}

func TestDocumentMergesRuns(t *testing.T) {
	d := fixture(t,
		`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>然后...</w:t></w:r><w:r><w:t>结束了</w:t></w:r></w:p>`)

	paras, _ := Document(d)
	if paras != 1 {
		t.Fatalf("Document() paras = %d, want 1", paras)
	}

	p := d.Paragraphs()[0]
	if got := p.Text(); got != "然后……结束了" {
		t.Errorf("paragraph text = %q", got)
	}
	runs := p.Runs()
	if len(runs) != 2 {
		t.Fatalf("Runs() len = %d, want 2", len(runs))
	}
	// The fixed text lands in the first run; the second is emptied.
	if got := runs[0].Text(); got != "然后……结束了" {
		t.Errorf("first run text = %q", got)
	}
	if got := runs[1].Text(); got != "" {
		t.Errorf("second run text = %q, want empty", got)
	}
	if !runs[0].Bold() {
		t.Error("first run lost its bold formatting")
	}
}
