package gongwen

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/officekit/gongwen/classify"
	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/preset"
)

// noticeBody is a small but complete official notice: title, recipient, a
// compound heading that the splitter divides, closing, signature and date.
const noticeBody = `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>关于开展2025年度消防安全检查的通知</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>各镇人民政府：</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>一、总体要求：全面排查安全隐患。</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>特此通知。</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>某某县人民政府办公室</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>2025年8月25日</w:t></w:r></w:p>` +
	`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:bottom="1440" w:left="1800" w:right="1800"/></w:sectPr>`

// fixtureFile writes a minimal .docx package with the given body and returns
// its path.
func fixtureFile(t *testing.T, body string) string {
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
	return path
}

func fixtureDoc(t *testing.T, body string) *docx.Document {
	t.Helper()

	d, err := docx.Open(fixtureFile(t, body))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d
}

// readPart returns the named zip member of the package at path.
func readPart(t *testing.T, path, name string) string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer zr.Close()
	for _, zf := range zr.File {
		if zf.Name != name {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found in %s", name, path)
	return ""
}

func TestWriteFile(t *testing.T) {
	in := fixtureFile(t, noticeBody)
	out := filepath.Join(t.TempDir(), "out.docx")

	sum, err := Open(in).WriteFile(out)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if sum.Preset != "official" {
		t.Errorf("Preset = %q, want official", sum.Preset)
	}
	if sum.Split != 1 {
		t.Errorf("Split = %d, want 1", sum.Split)
	}
	if sum.Paragraphs != 7 {
		t.Errorf("Paragraphs = %d, want 7", sum.Paragraphs)
	}

	// The compound heading was divided, so the output has one extra paragraph.
	d, err := docx.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	paras := d.Paragraphs()
	if len(paras) != 7 {
		t.Fatalf("output paragraphs = %d, want 7", len(paras))
	}
	if got := paras[2].Text(); got != "一、总体要求：" {
		t.Errorf("split heading = %q", got)
	}
	if got := paras[0].Alignment(); got != "center" {
		t.Errorf("title alignment = %q, want center", got)
	}

	// Margins come from the official preset (3.7/3.5/2.8/2.6 cm).
	xml := readPart(t, out, "word/document.xml")
	for _, attr := range []string{`w:top="2098"`, `w:bottom="1984"`, `w:left="1587"`, `w:right="1474"`} {
		if !strings.Contains(xml, attr) {
			t.Errorf("document.xml missing %s", attr)
		}
	}

	// Page-number footers: odd/even split enabled, live PAGE field present.
	if settings := readPart(t, out, "word/settings.xml"); !strings.Contains(settings, "evenAndOddHeaders") {
		t.Error("settings.xml missing evenAndOddHeaders")
	}
	if footer := readPart(t, out, "word/footer1.xml"); !strings.Contains(footer, "PAGE") {
		t.Error("footer1.xml missing PAGE field")
	}
}

func TestRunRoleCounts(t *testing.T) {
	d := fixtureDoc(t, noticeBody)
	pre := Must(preset.Get("official"))

	sum, err := run(d, &pre, zap.NewNop())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := map[classify.Role]int{
		classify.RoleTitle:     1,
		classify.RoleRecipient: 1,
		classify.RoleHeading1:  1,
		classify.RoleBody:      1,
		classify.RoleClosing:   1,
		classify.RoleSignature: 1,
		classify.RoleDate:      1,
	}
	for role, n := range want {
		if sum.Roles[role] != n {
			t.Errorf("Roles[%s] = %d, want %d", role, sum.Roles[role], n)
		}
	}
	if len(sum.Roles) != len(want) {
		t.Errorf("Roles has %d entries, want %d: %v", len(sum.Roles), len(want), sum.Roles)
	}
	if sum.Tables != 0 {
		t.Errorf("Tables = %d, want 0", sum.Tables)
	}
}

func TestFromDocument(t *testing.T) {
	d := fixtureDoc(t, noticeBody)

	got, sum, err := FromDocument(d).Format()
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != d {
		t.Error("Format() did not return the supplied document")
	}
	if sum.Paragraphs != 7 {
		t.Errorf("Paragraphs = %d, want 7", sum.Paragraphs)
	}
}

func TestFormatterChainImmutable(t *testing.T) {
	base := Open("draft.docx")
	legal := base.Preset("legal")

	if base.pre != nil {
		t.Error("Preset() mutated the receiver")
	}
	if legal == base {
		t.Error("Preset() returned the receiver")
	}
	if legal.pre == nil || legal.pre.Name != "legal" {
		t.Errorf("Preset() did not configure the new instance: %+v", legal.pre)
	}
}

func TestFormatUnknownPreset(t *testing.T) {
	_, _, err := Open("draft.docx").Preset("fancy").Format()
	if !errors.Is(err, preset.ErrUnknownPreset) {
		t.Errorf("Format() error = %v, want ErrUnknownPreset", err)
	}
}

func TestFormatNoSource(t *testing.T) {
	_, _, err := Open("").Format()
	if err == nil || !strings.Contains(err.Error(), "no filename") {
		t.Errorf("Format() error = %v, want no-filename error", err)
	}
}

func TestFormatMissingFile(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "absent.docx")).Format()
	if err == nil {
		t.Error("Format() on a missing file succeeded")
	}
}

func TestFormatRejectsSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numbers.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("xl/workbook.xml")
	w.Write([]byte("<workbook/>"))
	zw.Close()
	f.Close()

	_, _, err = Open(path).Format()
	if err == nil || !strings.Contains(err.Error(), "XLSX") {
		t.Errorf("Format() error = %v, want XLSX rejection", err)
	}
}

func TestPresetFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "house.json")
	err := os.WriteFile(cfg, []byte(`{
		"name": "house",
		"label": "内部样式",
		"styles": {
			"body": {"font_cn": "仿宋_GB2312", "font_en": "Times New Roman", "size": 16, "align": "justify", "indent": 32, "line_spacing": 28}
		},
		"footer": {"disabled": true}
	}`), 0o644)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	d := fixtureDoc(t, noticeBody)
	_, sum, err := FromDocument(d).PresetFile(cfg).Format()
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if sum.Preset != "house" {
		t.Errorf("Preset = %q, want house", sum.Preset)
	}
}

func TestPresetFileInvalid(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(cfg, []byte(`{"styles":{}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := Open("draft.docx").PresetFile(cfg).Format()
	if !errors.Is(err, preset.ErrInvalidPreset) {
		t.Errorf("Format() error = %v, want ErrInvalidPreset", err)
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must() = %d, want 42", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must() did not panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestSummaryString(t *testing.T) {
	sum := &Summary{
		Preset:     "official",
		Label:      "公文格式",
		Paragraphs: 9,
		Split:      2,
		Tables:     1,
		Roles: map[classify.Role]int{
			classify.RoleTitle: 1,
			classify.RoleBody:  8,
		},
	}

	got := sum.String()
	for _, want := range []string{
		"公文格式 (official)",
		"paragraphs styled: 9 (2 headings split)",
		"tables formatted: 1",
		"title",
		"body",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}
}
