// Package preset holds the named style configurations that drive the
// formatter: one StyleSpec per paragraph role plus page, table and footer
// parameters. Presets are plain data, validated and completed at load time:
// after Get or Load returns, every role has a style and no lookup can fail.
package preset

import (
	"errors"
	"fmt"

	"github.com/officekit/gongwen/classify"
)

// ErrUnknownPreset reports a preset name outside the built-in set.
var ErrUnknownPreset = errors.New("unknown preset")

// ErrInvalidPreset reports a preset that fails validation.
var ErrInvalidPreset = errors.New("invalid preset")

// Alignment is a paragraph alignment name. The zero value means justify.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Valid reports whether a is a known alignment ("" counts, as the justify
// default).
func (a Alignment) Valid() bool {
	switch a {
	case "", AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// StyleSpec is the concrete formatting for one role under one preset. Sizes
// and indents are in points. A zero LineSpacingPt means one-and-a-half line
// spacing instead of a fixed height.
type StyleSpec struct {
	FontCN        string    `json:"font_cn"`
	FontEN        string    `json:"font_en"`
	SizePt        float64   `json:"size"`
	Bold          bool      `json:"bold"`
	Align         Alignment `json:"align"`
	IndentPt      float64   `json:"indent"`
	LineSpacingPt float64   `json:"line_spacing"`
	SpaceBeforePt float64   `json:"space_before"`
	SpaceAfterPt  float64   `json:"space_after"`
}

// Page holds the section margins in centimeters.
type Page struct {
	TopCm    float64 `json:"top"`
	BottomCm float64 `json:"bottom"`
	LeftCm   float64 `json:"left"`
	RightCm  float64 `json:"right"`
}

// TableConfig drives the table layout engine. Border sizes are in eighths of
// a point, margins in twips, widths in percent. A zero CellLineSpacingPt
// means single spacing.
type TableConfig struct {
	BorderSizeEighths int    `json:"border_size"`
	BorderColor       string `json:"border_color"`

	WidthPercent          float64 `json:"width_percent"`
	CellMarginTopTwips    int     `json:"cell_margin_top"`
	CellMarginBottomTwips int     `json:"cell_margin_bottom"`
	CellMarginLeftTwips   int     `json:"cell_margin_left"`
	CellMarginRightTwips  int     `json:"cell_margin_right"`

	AutoSizeColumns bool    `json:"auto_size_columns"`
	MinColPercent   float64 `json:"min_col_percent"`
	MaxColPercent   float64 `json:"max_col_percent"`

	RowMinHeightTwips int `json:"row_min_height"`

	FontCN     string  `json:"font_cn"`
	FontEN     string  `json:"font_en"`
	SizePt     float64 `json:"size"`
	HeaderBold bool    `json:"header_bold"`

	ShortTextRunes    int     `json:"short_text_runes"`
	CellIndentPt      float64 `json:"cell_indent"`
	CellLineSpacingPt float64 `json:"cell_line_spacing"`
}

// FooterConfig styles the page-number footers. Disabled switches footer
// generation off entirely.
type FooterConfig struct {
	Disabled bool    `json:"disabled"`
	FontCN   string  `json:"font_cn"`
	FontEN   string  `json:"font_en"`
	SizePt   float64 `json:"size"`
}

// Preset is a named, complete style configuration. Styles maps every role to
// its spec after normalization; mutate a copy, never a registry value.
type Preset struct {
	Name  string `json:"name"`
	Label string `json:"label"`

	Page   Page                        `json:"page"`
	Styles map[classify.Role]StyleSpec `json:"styles"`
	Table  TableConfig                 `json:"table"`
	Footer FooterConfig                `json:"footer"`

	// BoldFirstSentence and BoldLeadIn are mutually exclusive body
	// sub-behaviors; validation rejects enabling both.
	BoldFirstSentence bool `json:"bold_first_sentence"`
	BoldLeadIn        bool `json:"bold_lead_in"`
}

// Style returns the spec for a role. Normalization guarantees a hit; the body
// spec backs any remaining gap.
func (p *Preset) Style(role classify.Role) StyleSpec {
	if s, ok := p.Styles[role]; ok {
		return s
	}
	return p.Styles[classify.RoleBody]
}

// Names lists the built-in preset names in a stable order.
func Names() []string {
	return []string{"official", "academic", "legal"}
}

// Get returns a fresh copy of a built-in preset, normalized and validated.
func Get(name string) (Preset, error) {
	var p Preset
	switch name {
	case "official":
		p = official()
	case "academic":
		p = academic()
	case "legal":
		p = legal()
	default:
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	if err := normalize(&p); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// official is the party-and-government document standard: FangSong GB2312
// No.3 body on a 28pt fixed line, XiaoBiaoSong No.2 title, 37/35/28/26mm
// margins.
func official() Preset {
	const (
		latin = "Times New Roman"
		body  = "仿宋_GB2312"
	)
	return Preset{
		Name:  "official",
		Label: "公文格式",
		Page: Page{
			TopCm:    3.7,
			BottomCm: 3.5,
			LeftCm:   2.8,
			RightCm:  2.6,
		},
		Styles: map[classify.Role]StyleSpec{
			classify.RoleTitle: {
				FontCN:        "方正小标宋简体",
				FontEN:        latin,
				SizePt:        22,
				Align:         AlignCenter,
				LineSpacingPt: 28,
			},
			classify.RoleHeading1: {
				FontCN:        "黑体",
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignLeft,
				IndentPt:      32,
				LineSpacingPt: 28,
			},
			classify.RoleHeading2: {
				FontCN:        "楷体_GB2312",
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignLeft,
				IndentPt:      32,
				LineSpacingPt: 28,
			},
			classify.RoleHeading3: {
				FontCN:        body,
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignLeft,
				IndentPt:      32,
				LineSpacingPt: 28,
			},
			classify.RoleHeading4: {
				FontCN:        body,
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignLeft,
				IndentPt:      32,
				LineSpacingPt: 28,
			},
			classify.RoleBody: {
				FontCN:        body,
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignJustify,
				IndentPt:      32,
				LineSpacingPt: 28,
			},
			classify.RoleRecipient: {
				FontCN:        body,
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignLeft,
				LineSpacingPt: 28,
			},
			classify.RoleSignature: {
				FontCN:        body,
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignRight,
				LineSpacingPt: 28,
			},
			classify.RoleDate: {
				FontCN:        body,
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignRight,
				LineSpacingPt: 28,
			},
			classify.RoleAttachment: {
				FontCN:        body,
				FontEN:        latin,
				SizePt:        16,
				Align:         AlignLeft,
				IndentPt:      32,
				LineSpacingPt: 28,
			},
		},
		Table: TableConfig{
			BorderSizeEighths:    4,
			BorderColor:          "000000",
			WidthPercent:         100,
			CellMarginLeftTwips:  108,
			CellMarginRightTwips: 108,
			AutoSizeColumns:      true,
			MinColPercent:        8,
			MaxColPercent:        45,
			RowMinHeightTwips:    560,
			FontCN:               body,
			FontEN:               latin,
			SizePt:               16,
			HeaderBold:           true,
			ShortTextRunes:       4,
			CellLineSpacingPt:    28,
		},
		Footer: FooterConfig{
			FontCN: "宋体",
			FontEN: latin,
			SizePt: 14,
		},

		BoldLeadIn: true,
	}
}

// academic is a thesis-style preset: SimSun small-No.4 body, bold SimHei
// headings, uniform 2.5cm margins, proportional line spacing.
func academic() Preset {
	const latin = "Times New Roman"
	return Preset{
		Name:  "academic",
		Label: "学术论文格式",
		Page: Page{
			TopCm:    2.5,
			BottomCm: 2.5,
			LeftCm:   2.5,
			RightCm:  2.5,
		},
		Styles: map[classify.Role]StyleSpec{
			classify.RoleTitle: {
				FontCN: "黑体",
				FontEN: latin,
				SizePt: 18,
				Bold:   true,
				Align:  AlignCenter,
			},
			classify.RoleHeading1: {
				FontCN: "黑体",
				FontEN: latin,
				SizePt: 15,
				Bold:   true,
				Align:  AlignLeft,
			},
			classify.RoleHeading2: {
				FontCN: "黑体",
				FontEN: latin,
				SizePt: 14,
				Bold:   true,
				Align:  AlignLeft,
			},
			classify.RoleHeading3: {
				FontCN: "黑体",
				FontEN: latin,
				SizePt: 12,
				Align:  AlignLeft,
			},
			classify.RoleHeading4: {
				FontCN: "宋体",
				FontEN: latin,
				SizePt: 12,
				Align:  AlignLeft,
			},
			classify.RoleBody: {
				FontCN:   "宋体",
				FontEN:   latin,
				SizePt:   12,
				Align:    AlignJustify,
				IndentPt: 24,
			},
		},
		Table: TableConfig{
			BorderSizeEighths:    4,
			BorderColor:          "000000",
			WidthPercent:         100,
			CellMarginLeftTwips:  108,
			CellMarginRightTwips: 108,
			AutoSizeColumns:      true,
			MinColPercent:        8,
			MaxColPercent:        45,
			FontCN:               "宋体",
			FontEN:               latin,
			SizePt:               12,
			HeaderBold:           true,
			ShortTextRunes:       4,
		},
		Footer: FooterConfig{
			FontCN: "宋体",
			FontEN: latin,
			SizePt: 10.5,
		},
	}
}

// legal is a legal-instrument preset: SimSun No.4 body, SimHei No.4
// headings, 30/25/30/25mm margins.
func legal() Preset {
	const latin = "Times New Roman"
	return Preset{
		Name:  "legal",
		Label: "法律文书格式",
		Page: Page{
			TopCm:    3.0,
			BottomCm: 2.5,
			LeftCm:   3.0,
			RightCm:  2.5,
		},
		Styles: map[classify.Role]StyleSpec{
			classify.RoleTitle: {
				FontCN: "宋体",
				FontEN: latin,
				SizePt: 22,
				Bold:   true,
				Align:  AlignCenter,
			},
			classify.RoleHeading1: {
				FontCN: "黑体",
				FontEN: latin,
				SizePt: 14,
				Align:  AlignLeft,
			},
			classify.RoleHeading2: {
				FontCN: "黑体",
				FontEN: latin,
				SizePt: 14,
				Align:  AlignLeft,
			},
			classify.RoleHeading3: {
				FontCN: "宋体",
				FontEN: latin,
				SizePt: 14,
				Align:  AlignLeft,
			},
			classify.RoleHeading4: {
				FontCN: "宋体",
				FontEN: latin,
				SizePt: 14,
				Align:  AlignLeft,
			},
			classify.RoleBody: {
				FontCN:   "宋体",
				FontEN:   latin,
				SizePt:   14,
				Align:    AlignJustify,
				IndentPt: 28,
			},
		},
		Table: TableConfig{
			BorderSizeEighths:    4,
			BorderColor:          "000000",
			WidthPercent:         100,
			CellMarginLeftTwips:  108,
			CellMarginRightTwips: 108,
			AutoSizeColumns:      true,
			MinColPercent:        8,
			MaxColPercent:        45,
			FontCN:               "宋体",
			FontEN:               latin,
			SizePt:               14,
			HeaderBold:           true,
			ShortTextRunes:       4,
		},
		Footer: FooterConfig{
			FontCN: "宋体",
			FontEN: latin,
			SizePt: 14,
		},
	}
}

// normalize completes and validates a preset in place: every role gets a
// spec (body backs the gaps), defaults fill the table and footer sections,
// and contradictory flags are rejected.
func normalize(p *Preset) error {
	if p.Styles == nil {
		return fmt.Errorf("%w: no styles", ErrInvalidPreset)
	}
	body, ok := p.Styles[classify.RoleBody]
	if !ok {
		return fmt.Errorf("%w: missing body style", ErrInvalidPreset)
	}
	if p.BoldFirstSentence && p.BoldLeadIn {
		return fmt.Errorf("%w: bold_first_sentence and bold_lead_in are mutually exclusive", ErrInvalidPreset)
	}

	// Body is completed first so that it can back every other role.
	body, err := completeSpec(classify.RoleBody, body, body)
	if err != nil {
		return err
	}
	p.Styles[classify.RoleBody] = body

	for _, role := range classify.Roles() {
		if role == classify.RoleBody {
			continue
		}
		spec, ok := p.Styles[role]
		if !ok {
			p.Styles[role] = body
			continue
		}
		spec, err := completeSpec(role, spec, body)
		if err != nil {
			return err
		}
		p.Styles[role] = spec
	}
	for role := range p.Styles {
		if !role.Valid() || role == classify.RoleEmpty {
			return fmt.Errorf("%w: unknown role %q", ErrInvalidPreset, role)
		}
	}

	normalizeTable(&p.Table, p.Styles[classify.RoleBody])
	normalizeFooter(&p.Footer)
	return nil
}

// completeSpec fills a role's gaps from the body spec and validates what
// remains.
func completeSpec(role classify.Role, spec, body StyleSpec) (StyleSpec, error) {
	if spec.FontCN == "" {
		spec.FontCN = body.FontCN
	}
	if spec.FontCN == "" {
		return spec, fmt.Errorf("%w: role %q: font_cn required", ErrInvalidPreset, role)
	}
	if spec.FontEN == "" {
		spec.FontEN = body.FontEN
	}
	if spec.FontEN == "" {
		spec.FontEN = "Times New Roman"
	}
	if spec.SizePt <= 0 {
		return spec, fmt.Errorf("%w: role %q: size must be positive", ErrInvalidPreset, role)
	}
	if !spec.Align.Valid() {
		return spec, fmt.Errorf("%w: role %q: unknown alignment %q", ErrInvalidPreset, role, spec.Align)
	}
	if spec.Align == "" {
		spec.Align = AlignJustify
	}
	return spec, nil
}

func normalizeTable(t *TableConfig, body StyleSpec) {
	if t.BorderSizeEighths <= 0 {
		t.BorderSizeEighths = 4
	}
	if t.BorderColor == "" {
		t.BorderColor = "000000"
	}
	if t.WidthPercent <= 0 {
		t.WidthPercent = 100
	}
	if t.MinColPercent <= 0 {
		t.MinColPercent = 8
	}
	if t.MaxColPercent <= 0 {
		t.MaxColPercent = 45
	}
	if t.FontCN == "" {
		t.FontCN = body.FontCN
	}
	if t.FontEN == "" {
		t.FontEN = body.FontEN
	}
	if t.SizePt <= 0 {
		t.SizePt = body.SizePt
	}
	if t.ShortTextRunes <= 0 {
		t.ShortTextRunes = 4
	}
}

func normalizeFooter(f *FooterConfig) {
	if f.FontCN == "" {
		f.FontCN = "宋体"
	}
	if f.FontEN == "" {
		f.FontEN = "Times New Roman"
	}
	if f.SizePt <= 0 {
		f.SizePt = 14
	}
}
