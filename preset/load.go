package preset

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/officekit/gongwen/classify"
)

// presetFile is the on-disk JSON shape. Optional sections are pointers so an
// absent section falls back to sensible defaults instead of zero values.
type presetFile struct {
	Name   string               `json:"name"`
	Label  string               `json:"label"`
	Page   *Page                `json:"page"`
	Styles map[string]StyleSpec `json:"styles"`
	Table  *TableConfig         `json:"table"`
	Footer *FooterConfig        `json:"footer"`

	BoldFirstSentence bool `json:"bold_first_sentence"`
	BoldLeadIn        bool `json:"bold_lead_in"`
}

// LoadFile reads a custom preset from a JSON file. The file must define at
// least a body style; anything it leaves out inherits from body or from the
// official defaults.
func LoadFile(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	p, err := Load(data)
	if err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

// Load parses and validates a custom preset from JSON bytes.
func Load(data []byte) (Preset, error) {
	var f presetFile
	if err := sonic.Unmarshal(data, &f); err != nil {
		return Preset{}, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	p := Preset{
		Name:              f.Name,
		Label:             f.Label,
		Styles:            make(map[classify.Role]StyleSpec, len(f.Styles)),
		BoldFirstSentence: f.BoldFirstSentence,
		BoldLeadIn:        f.BoldLeadIn,
	}
	if p.Name == "" {
		p.Name = "custom"
	}
	if p.Label == "" {
		p.Label = p.Name
	}

	for name, spec := range f.Styles {
		role := classify.Role(name)
		if !role.Valid() || role == classify.RoleEmpty {
			return Preset{}, fmt.Errorf("%w: unknown role %q", ErrInvalidPreset, name)
		}
		p.Styles[role] = spec
	}

	if f.Page != nil {
		p.Page = *f.Page
	} else {
		p.Page = Page{TopCm: 3.7, BottomCm: 3.5, LeftCm: 2.8, RightCm: 2.6}
	}
	if f.Table != nil {
		p.Table = *f.Table
	} else if body, ok := p.Styles[classify.RoleBody]; ok {
		p.Table = TableConfig{
			CellMarginLeftTwips:  108,
			CellMarginRightTwips: 108,
			AutoSizeColumns:      true,
			HeaderBold:           true,
			CellLineSpacingPt:    body.LineSpacingPt,
		}
	}
	if f.Footer != nil {
		p.Footer = *f.Footer
	}

	if err := normalize(&p); err != nil {
		return Preset{}, err
	}
	return p, nil
}
