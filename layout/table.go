package layout

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/internal/cjk"
	"github.com/officekit/gongwen/preset"
)

// fallbackContentWidthTwips is A4 width at one-inch margins, used when a
// document carries no section properties at all.
const fallbackContentWidthTwips = 9026

var (
	tableTitleRe  = regexp.MustCompile(`^表\s*[0-9０-９一二三四五六七八九十]+`)
	unitNoteRe    = regexp.MustCompile(`^单位[：:]`)
	numericCellRe = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?%?$`)
)

// FormatTables runs the table engine over every table in document order:
// borders, width, column sizing, cell styling, captions and blank separator
// paragraphs. Empty tables are skipped. Returns the number of tables that
// were actually formatted.
func FormatTables(d *docx.Document, cfg preset.TableConfig) int {
	total := len(d.Tables())
	formatted := 0
	for n := 0; n < total; n++ {
		// Separator insertion shifts block positions, so each table is
		// located against a fresh snapshot.
		blocks := d.Blocks()
		idx := nthTableIndex(blocks, n)
		if idx < 0 {
			break
		}
		if formatTable(d, blocks, idx, cfg) {
			formatted++
		}
	}
	return formatted
}

func nthTableIndex(blocks []docx.Block, n int) int {
	seen := -1
	for i, b := range blocks {
		if b.Table == nil {
			continue
		}
		seen++
		if seen == n {
			return i
		}
	}
	return -1
}

func formatTable(d *docx.Document, blocks []docx.Block, idx int, cfg preset.TableConfig) bool {
	t := blocks[idx].Table
	if len(t.Rows()) == 0 || t.ColumnCount() == 0 {
		return false
	}
	formatGrid(t, contentWidth(d), cfg)
	styleCells(t, cfg)
	normalizeNeighbors(blocks, idx, cfg)
	return true
}

func contentWidth(d *docx.Document) int {
	if ss := d.Sections(); len(ss) > 0 {
		return ss[0].ContentWidthTwips()
	}
	return fallbackContentWidthTwips
}

// formatGrid applies the table-level geometry: uniform borders, percentage
// width, zero indent, cell margins and, when enabled, the weighted column
// grid.
func formatGrid(t *docx.Table, contentWidth int, cfg preset.TableConfig) {
	t.SetWidthPercent(cfg.WidthPercent)
	t.SetIndentTwips(0)
	t.SetUniformBorders(cfg.BorderSizeEighths, cfg.BorderColor)
	t.SetCellMargins(cfg.CellMarginTopTwips, cfg.CellMarginLeftTwips,
		cfg.CellMarginBottomTwips, cfg.CellMarginRightTwips)

	if !cfg.AutoSizeColumns {
		return
	}

	units := columnUnits(columnWeights(t, t.ColumnCount()), cfg.MinColPercent, cfg.MaxColPercent)
	width := int(math.Round(float64(contentWidth) * cfg.WidthPercent / 100))
	t.SetGrid(gridWidths(units, width))
	t.SetLayoutFixed()

	for _, row := range t.Rows() {
		col := 0
		for _, c := range row.Cells() {
			span := c.GridSpan()
			if span < 1 {
				span = 1
			}
			var u int
			for k := col; k < col+span && k < len(units); k++ {
				u += units[k]
			}
			c.SetWidthPercent(float64(u) / 50)
			col += span
		}
	}
}

// columnWeights computes one weight per grid column: the maximum text weight
// of any cell covering it, floored at 1. Spanning cells spread their weight
// evenly over the covered columns.
func columnWeights(t *docx.Table, cols int) []float64 {
	weights := make([]float64, cols)
	for _, row := range t.Rows() {
		col := 0
		for _, c := range row.Cells() {
			span := c.GridSpan()
			if span < 1 {
				span = 1
			}
			w := cjk.Weight(c.Text()) / float64(span)
			for k := col; k < col+span && k < cols; k++ {
				if w > weights[k] {
					weights[k] = w
				}
			}
			col += span
		}
	}
	for i := range weights {
		if weights[i] < 1 {
			weights[i] = 1
		}
	}
	return weights
}

// columnUnits turns weights into fiftieths of a percent summing to exactly
// 5000. Percentages are clamped to [minPct, maxPct] and rebalanced first;
// cumulative rounding then keeps the total exact regardless of the band.
func columnUnits(weights []float64, minPct, maxPct float64) []int {
	n := len(weights)
	if n == 0 {
		return nil
	}
	pcts := clampedPercents(weights, minPct, maxPct)

	units := make([]int, n)
	var total float64
	for _, p := range pcts {
		total += p
	}
	var acc float64
	prev := 0
	for i, p := range pcts {
		acc += p / total * 5000
		u := int(math.Round(acc))
		units[i] = u - prev
		prev = u
	}
	return units
}

// clampedPercents maps weights to percentages within [minPct, maxPct]
// summing to 100. The residue a clamp leaves behind is redistributed,
// weight-proportionally, over the columns with headroom; each round
// saturates at least one more column, so n rounds suffice. When the band
// itself cannot hold the column count (say twenty columns at an 8% minimum)
// the residue is spread evenly and values leave the band.
func clampedPercents(weights []float64, minPct, maxPct float64) []float64 {
	n := len(weights)
	var sum float64
	for _, w := range weights {
		sum += w
	}
	pcts := make([]float64, n)
	for i, w := range weights {
		pcts[i] = math.Min(maxPct, math.Max(minPct, w/sum*100))
	}

	for iter := 0; iter <= n; iter++ {
		var total float64
		for _, p := range pcts {
			total += p
		}
		diff := 100 - total
		if math.Abs(diff) < 1e-9 {
			return pcts
		}
		var mass float64
		for i, p := range pcts {
			if (diff > 0 && p < maxPct) || (diff < 0 && p > minPct) {
				mass += weights[i]
			}
		}
		if mass == 0 {
			break
		}
		for i, p := range pcts {
			if diff > 0 && p < maxPct {
				pcts[i] = math.Min(maxPct, p+diff*weights[i]/mass)
			} else if diff < 0 && p > minPct {
				pcts[i] = math.Max(minPct, p+diff*weights[i]/mass)
			}
		}
	}

	var total float64
	for _, p := range pcts {
		total += p
	}
	residue := (100 - total) / float64(n)
	for i := range pcts {
		pcts[i] += residue
	}
	return pcts
}

// gridWidths converts column units to twips summing to exactly width.
func gridWidths(units []int, width int) []int {
	widths := make([]int, len(units))
	acc, prev := 0, 0
	for i, u := range units {
		acc += u
		w := int(math.Round(float64(width) * float64(acc) / 5000))
		widths[i] = w - prev
		prev = w
	}
	return widths
}

// styleCells applies per-row and per-cell formatting: minimum row height,
// cell borders, fonts, the header bold rule and the alignment policy.
func styleCells(t *docx.Table, cfg preset.TableConfig) {
	rows := t.Rows()
	if len(rows) == 0 {
		return
	}
	serial := serialColumns(rows[0], t.ColumnCount())

	for ri, row := range rows {
		if cfg.RowMinHeightTwips > 0 {
			row.SetMinHeight(cfg.RowMinHeightTwips)
		}
		col := 0
		for _, c := range row.Cells() {
			span := c.GridSpan()
			if span < 1 {
				span = 1
			}
			c.SetBorders(cfg.BorderSizeEighths, cfg.BorderColor)

			align := cellAlignment(ri == 0, serial[col], c.Text(), cfg.ShortTextRunes)
			for _, p := range c.Paragraphs() {
				p.SetAlignment(align)
				p.SetFirstLineIndent(docx.TwipsFromPoints(cfg.CellIndentPt))
				p.SetSpaceBefore(0)
				p.SetSpaceAfter(0)
				if cfg.CellLineSpacingPt > 0 {
					p.SetLineSpacingExact(cfg.CellLineSpacingPt)
				} else {
					p.SetLineSpacingMultiple(1)
				}
				for _, r := range p.Runs() {
					r.SetFonts(cfg.FontEN, cfg.FontCN)
					r.SetSizePoints(cfg.SizePt)
					r.SetBold(ri == 0 && cfg.HeaderBold)
				}
			}
			col += span
		}
	}
}

// serialColumns marks grid columns whose header cell names a serial number
// (序号, or just 序).
func serialColumns(header *docx.Row, cols int) map[int]bool {
	serial := make(map[int]bool)
	col := 0
	for _, c := range header.Cells() {
		span := c.GridSpan()
		if span < 1 {
			span = 1
		}
		text := strings.TrimSpace(c.Text())
		if strings.Contains(text, "序号") || text == "序" {
			for k := col; k < col+span && k < cols; k++ {
				serial[k] = true
			}
		}
		col += span
	}
	return serial
}

// cellAlignment implements the alignment policy, first match wins: header
// rows center, subtotal markers center, serial columns center, numeric
// values right, short text centers, everything else goes left.
func cellAlignment(header, serial bool, text string, shortRunes int) string {
	text = strings.TrimSpace(text)
	switch {
	case header:
		return "center"
	case strings.Contains(text, "合计") || strings.Contains(text, "总计"):
		return "center"
	case serial:
		return "center"
	case isNumericCell(text):
		return "right"
	case utf8.RuneCountInString(text) <= shortRunes:
		return "center"
	}
	return "left"
}

// isNumericCell reports whether text is a numeric literal once grouping
// commas are stripped: optional sign, digits, optional decimals, optional
// percent sign.
func isNumericCell(text string) bool {
	text = strings.NewReplacer(",", "", "，", "").Replace(text)
	return text != "" && numericCellRe.MatchString(text)
}

// normalizeNeighbors styles the caption paragraphs around a table and
// guarantees exactly one blank paragraph between the table unit (captions
// included) and its non-blank neighbors. Re-running inserts nothing. Above
// the table a 单位 note may sit between the 表N title and the table itself;
// below it only a 单位 note is recognized.
func normalizeNeighbors(blocks []docx.Block, idx int, cfg preset.TableConfig) {
	start, end := idx, idx

	if p := captionAt(blocks, start-1, unitNoteRe); p != nil {
		styleUnitNote(p, cfg)
		start--
	}
	if p := captionAt(blocks, start-1, tableTitleRe); p != nil {
		styleTableTitle(p, cfg)
		start--
	}
	if p := captionAt(blocks, end+1, unitNoteRe); p != nil {
		styleUnitNote(p, cfg)
		end++
	}

	if start > 0 && !isBlank(blocks[start-1]) {
		insertBlankBefore(blocks[start])
	}
	if end < len(blocks)-1 && !isBlank(blocks[end+1]) {
		insertBlankAfter(blocks[end])
	}
}

// captionAt returns the paragraph at block position i when it matches the
// caption pattern, nil otherwise.
func captionAt(blocks []docx.Block, i int, re *regexp.Regexp) *docx.Paragraph {
	if i < 0 || i >= len(blocks) {
		return nil
	}
	p := blocks[i].Paragraph
	if p == nil || !re.MatchString(strings.TrimSpace(p.Text())) {
		return nil
	}
	return p
}

func isBlank(b docx.Block) bool {
	return b.Paragraph != nil && b.Paragraph.IsEmpty()
}

func insertBlankBefore(b docx.Block) {
	if b.Paragraph != nil {
		b.Paragraph.InsertParagraphBefore("")
		return
	}
	b.Table.InsertParagraphBefore("")
}

func insertBlankAfter(b docx.Block) {
	if b.Paragraph != nil {
		b.Paragraph.InsertParagraphAfter("")
		return
	}
	b.Table.InsertParagraphAfter("")
}

// styleTableTitle centers a 表N caption above the table at single spacing.
func styleTableTitle(p *docx.Paragraph, cfg preset.TableConfig) {
	p.SetAlignment("center")
	p.SetFirstLineIndent(0)
	p.SetLineSpacingMultiple(1)
	for _, r := range p.Runs() {
		r.SetFonts(cfg.FontEN, cfg.FontCN)
		r.SetSizePoints(cfg.SizePt)
	}
}

// styleUnitNote right-aligns a 单位： note and pads it from the table with
// half a line of proportional space.
func styleUnitNote(p *docx.Paragraph, cfg preset.TableConfig) {
	p.SetAlignment("right")
	p.SetFirstLineIndent(0)
	fallback := 120
	if cfg.CellLineSpacingPt > 0 {
		fallback = docx.TwipsFromPoints(cfg.CellLineSpacingPt / 2)
	}
	p.SetSpaceBeforeLines(50, fallback)
	for _, r := range p.Runs() {
		r.SetFonts(cfg.FontEN, cfg.FontCN)
		r.SetSizePoints(cfg.SizePt)
	}
}
