package docx

import (
	"path/filepath"
	"strings"
	"testing"
)

// document opens a fixture built around the given body and fails the test on
// any error.
func document(t *testing.T, body string) *Document {
	t.Helper()
	d, err := Open(createTestDocument(t, body))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d
}

// rewritten saves the document and returns the re-encoded document part.
func rewritten(t *testing.T, d *Document) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.docx")
	if err := d.WriteFile(out); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return string(readPart(t, out, "word/document.xml"))
}

func TestParagraph_Text_IncludesNestedRuns(t *testing.T) {
	d := document(t, `<w:p><w:r><w:t>见</w:t></w:r>`+
		`<w:hyperlink r:id="rId9"><w:r><w:t>附件</w:t></w:r></w:hyperlink>`+
		`<w:r><w:br/><w:t>二</w:t></w:r></w:p>`)

	if got := d.Paragraphs()[0].Text(); got != "见附件\n二" {
		t.Errorf("Text() = %q, want %q", got, "见附件\n二")
	}
}

func TestParagraph_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"no runs", `<w:p/>`, true},
		{"ascii spaces", `<w:p><w:r><w:t xml:space="preserve">   </w:t></w:r></w:p>`, true},
		{"ideographic space", `<w:p><w:r><w:t>　　</w:t></w:r></w:p>`, true},
		{"text", `<w:p><w:r><w:t>正文</w:t></w:r></w:p>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := document(t, tt.body)
			if got := d.Paragraphs()[0].IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParagraph_SetFirstLineIndent_ClearsCharVariants(t *testing.T) {
	// Character-based indents override point-based ones, so they must go
	// when the point value is set.
	d := document(t, `<w:p><w:pPr><w:ind w:firstLineChars="200" w:hanging="100"/></w:pPr><w:r><w:t>正文</w:t></w:r></w:p>`)

	d.Paragraphs()[0].SetFirstLineIndent(640)
	doc := rewritten(t, d)

	if !strings.Contains(doc, `w:firstLine="640"`) {
		t.Errorf("missing firstLine, document = %s", doc)
	}
	for _, gone := range []string{"firstLineChars", "w:hanging"} {
		if strings.Contains(doc, gone) {
			t.Errorf("%s should have been removed, document = %s", gone, doc)
		}
	}
}

func TestParagraph_FirstLineIndent(t *testing.T) {
	d := document(t, `<w:p><w:pPr><w:ind w:firstLine="640" w:firstLineChars="200"/></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`)

	twips, chars := d.Paragraphs()[0].FirstLineIndent()
	if twips != 640 || chars != 200 {
		t.Errorf("FirstLineIndent() = %d, %d, want 640, 200", twips, chars)
	}
}

func TestParagraph_LineSpacing(t *testing.T) {
	d := document(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p><w:p><w:r><w:t>y</w:t></w:r></w:p>`)

	paras := d.Paragraphs()
	paras[0].SetLineSpacingExact(28)
	paras[1].SetLineSpacingMultiple(1.5)

	if got := paras[0].LineSpacingKey(); got != "exact:560" {
		t.Errorf("LineSpacingKey() = %q, want %q", got, "exact:560")
	}
	if got := paras[1].LineSpacingKey(); got != "auto:360" {
		t.Errorf("LineSpacingKey() = %q, want %q", got, "auto:360")
	}
}

func TestParagraph_SetSpaceBefore_ClearsLineVariant(t *testing.T) {
	d := document(t, `<w:p><w:pPr><w:spacing w:beforeLines="100" w:beforeAutospacing="1"/></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`)

	d.Paragraphs()[0].SetSpaceBefore(0)
	doc := rewritten(t, d)

	if !strings.Contains(doc, `w:before="0"`) {
		t.Errorf("missing before, document = %s", doc)
	}
	for _, gone := range []string{"beforeLines", "beforeAutospacing"} {
		if strings.Contains(doc, gone) {
			t.Errorf("%s should have been removed, document = %s", gone, doc)
		}
	}
}

func TestParagraph_SetSpaceBeforeLines(t *testing.T) {
	d := document(t, `<w:p><w:r><w:t>单位：万元</w:t></w:r></w:p>`)

	d.Paragraphs()[0].SetSpaceBeforeLines(50, 280)
	doc := rewritten(t, d)

	if !strings.Contains(doc, `w:beforeLines="50"`) || !strings.Contains(doc, `w:before="280"`) {
		t.Errorf("missing line-based spacing, document = %s", doc)
	}
}

func TestParagraph_InsertParagraph(t *testing.T) {
	d := document(t, `<w:p><w:r><w:t>中</w:t></w:r></w:p>`)

	p := d.Paragraphs()[0]
	p.InsertParagraphBefore("前")
	p.InsertParagraphAfter("后")

	var got []string
	for _, para := range d.Paragraphs() {
		got = append(got, para.Text())
	}
	want := []string{"前", "中", "后"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("paragraph order = %v, want %v", got, want)
	}
}

func TestParagraph_SetText_KeepsProperties(t *testing.T) {
	d := document(t, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>旧一</w:t></w:r><w:r><w:t>旧二</w:t></w:r></w:p>`)

	p := d.Paragraphs()[0]
	p.SetText("新")

	if got := p.Text(); got != "新" {
		t.Errorf("Text() = %q, want %q", got, "新")
	}
	if got := len(p.Runs()); got != 1 {
		t.Errorf("Runs() len = %d, want 1", got)
	}
	if got := p.Alignment(); got != "center" {
		t.Errorf("Alignment() = %q, want %q (pPr must survive SetText)", got, "center")
	}
}

func TestParagraph_AddPageField(t *testing.T) {
	d := document(t, `<w:p/>`)

	runs := d.Paragraphs()[0].AddPageField()
	if len(runs) != 3 {
		t.Fatalf("AddPageField() runs = %d, want 3", len(runs))
	}
	doc := rewritten(t, d)

	for _, want := range []string{
		`<w:fldChar w:fldCharType="begin"/>`,
		`<w:instrText xml:space="preserve"> PAGE </w:instrText>`,
		`<w:fldChar w:fldCharType="end"/>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %s, got %s", want, doc)
		}
	}
}
