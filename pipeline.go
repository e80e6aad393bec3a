package gongwen

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/officekit/gongwen/classify"
	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/format"
	"github.com/officekit/gongwen/layout"
	"github.com/officekit/gongwen/preset"
)

// previewRunes is how much paragraph text the Debug log shows per role.
const previewRunes = 35

// Format runs the full pipeline over the document and returns the mutated
// document together with a run summary. Nothing is written to disk. Any
// failure aborts the run; the document may be partially mutated but is never
// persisted by this method.
func (f *Formatter) Format() (*docx.Document, *Summary, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	d, err := f.document()
	if err != nil {
		return nil, nil, err
	}
	sum, err := run(d, f.preset(), f.log())
	if err != nil {
		return nil, nil, err
	}
	return d, sum, nil
}

// WriteFile runs the full pipeline and writes the result to path. The output
// is serialized in memory first, so a failing run never leaves a truncated
// file behind.
//
// Example:
//
//	sum, err := gongwen.Open("draft.docx").WriteFile("final.docx")
func (f *Formatter) WriteFile(path string) (*Summary, error) {
	d, sum, err := f.Format()
	if err != nil {
		return nil, err
	}
	if err := d.WriteFile(path); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	f.log().Info("document saved", zap.String("path", path))
	return sum, nil
}

// document resolves the Formatter's source. Filenames are sniffed first so
// that legacy binary formats (.doc, .wps, .xls, .ppt) produce a convert-first
// error instead of a generic zip failure.
func (f *Formatter) document() (*docx.Document, error) {
	if f.doc != nil {
		return f.doc, nil
	}
	if f.filename == "" {
		return nil, errors.New("no filename specified")
	}
	if err := format.EnsureWordPackage(f.filename); err != nil {
		return nil, err
	}
	return docx.Open(f.filename)
}

func (f *Formatter) preset() *preset.Preset {
	if f.pre != nil {
		return f.pre
	}
	p := Must(preset.Get(DefaultPreset))
	return &p
}

func (f *Formatter) log() *zap.Logger {
	if f.logger != nil {
		return f.logger
	}
	return zap.NewNop()
}

// run executes the pipeline stages in their fixed order: background removal,
// heading splitting, snapshot, margins, classification, styling, tables,
// footers. Classification reads a frozen snapshot taken after splitting;
// mutation happens in a second pass so the position-dependent rules (leading
// title, trailing signature) see stable indexes.
func run(d *docx.Document, pre *preset.Preset, log *zap.Logger) (*Summary, error) {
	log.Info("removing background and shading")
	d.RemoveBackground()

	split := classify.Split(d)
	log.Info("split compound headings", zap.Int("count", split))

	paras := d.Paragraphs()
	texts := make([]string, len(paras))
	aligns := make([]string, len(paras))
	var allTexts []string
	for i, p := range paras {
		texts[i] = strings.TrimSpace(p.Text())
		aligns[i] = p.Alignment()
		if texts[i] != "" {
			allTexts = append(allTexts, texts[i])
		}
	}

	log.Info("setting page margins",
		zap.Float64("top_cm", pre.Page.TopCm),
		zap.Float64("bottom_cm", pre.Page.BottomCm),
		zap.Float64("left_cm", pre.Page.LeftCm),
		zap.Float64("right_cm", pre.Page.RightCm))
	for _, s := range d.Sections() {
		s.SetMargins(pre.Page.TopCm, pre.Page.BottomCm, pre.Page.LeftCm, pre.Page.RightCm)
	}

	roles := make([]classify.Role, len(paras))
	for i := range paras {
		roles[i] = classify.Classify(texts[i], i, len(paras), aligns[i], allTexts)
	}

	sum := &Summary{
		Preset: pre.Name,
		Label:  pre.Label,
		Split:  split,
		Roles:  make(map[classify.Role]int),
	}
	for i, p := range paras {
		if roles[i] == classify.RoleEmpty {
			continue
		}
		layout.Apply(p, pre, roles[i])
		sum.Paragraphs++
		sum.Roles[roles[i]]++
		log.Debug("styled paragraph",
			zap.Int("index", i),
			zap.String("role", roles[i].String()),
			zap.String("text", preview(texts[i])))
	}
	log.Info("styled paragraphs", zap.Int("count", sum.Paragraphs))

	sum.Tables = layout.FormatTables(d, pre.Table)
	log.Info("formatted tables", zap.Int("count", sum.Tables))

	if !pre.Footer.Disabled {
		if err := layout.BuildFooters(d, pre.Footer); err != nil {
			return nil, fmt.Errorf("building footers: %w", err)
		}
		log.Info("built page-number footers")
	}
	return sum, nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes])
}
