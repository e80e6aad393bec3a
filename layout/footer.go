package layout

import (
	"fmt"

	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/internal/cjk"
	"github.com/officekit/gongwen/preset"
)

// BuildFooters installs distinct odd/even page-number footers: the odd
// footer sits right with a leading full-width space, the even footer sits
// left with a trailing one, and both carry a dash-framed live PAGE field.
// Prior footer content is cleared first, so repeated runs rebuild in place.
func BuildFooters(d *docx.Document, cfg preset.FooterConfig) error {
	if cfg.Disabled {
		return nil
	}
	if err := d.EnsureEvenAndOddHeaders(); err != nil {
		return fmt.Errorf("enable odd/even footers: %w", err)
	}

	odd, err := d.EnsureFooter("default")
	if err != nil {
		return fmt.Errorf("odd footer: %w", err)
	}
	writeFooter(odd, cfg, true)

	even, err := d.EnsureFooter("even")
	if err != nil {
		return fmt.Errorf("even footer: %w", err)
	}
	writeFooter(even, cfg, false)
	return nil
}

func writeFooter(f *docx.Footer, cfg preset.FooterConfig, odd bool) {
	f.Clear()
	p := f.AddParagraph()

	var runs []*docx.Run
	if odd {
		p.SetAlignment("right")
		runs = append(runs, p.AddRun(string(cjk.FullWidthSpace)))
	} else {
		p.SetAlignment("left")
	}
	runs = append(runs, p.AddRun("— "))
	runs = append(runs, p.AddPageField()...)
	runs = append(runs, p.AddRun(" —"))
	if !odd {
		runs = append(runs, p.AddRun(string(cjk.FullWidthSpace)))
	}

	for _, r := range runs {
		r.SetFonts(cfg.FontEN, cfg.FontCN)
		r.SetSizePoints(cfg.SizePt)
	}
}
