package gongwen

import (
	"go.uber.org/zap"

	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/preset"
)

// Formatter carries a document source and its run configuration through a
// fluent chain. Each configuration method returns a new Formatter instance,
// making chains safe to fork and reuse. Configuration errors are held and
// surfaced by the terminal operations (fail-fast).
type Formatter struct {
	// Source: exactly one of filename and doc is set.
	filename string
	doc      *docx.Document

	pre    *preset.Preset
	logger *zap.Logger

	// Accumulated error from configuration calls.
	err error
}

// clone creates a copy of the Formatter. The preset pointer is shared: the
// registry hands out value copies, and the chain never mutates one.
func (f *Formatter) clone() *Formatter {
	return &Formatter{
		filename: f.filename,
		doc:      f.doc,
		pre:      f.pre,
		logger:   f.logger,
		err:      f.err,
	}
}

// Preset selects a built-in preset by name. Valid names are listed by
// preset.Names; an unknown name surfaces preset.ErrUnknownPreset at the
// terminal operation.
//
// Example:
//
//	sum, err := gongwen.Open("draft.docx").Preset("legal").WriteFile("final.docx")
func (f *Formatter) Preset(name string) *Formatter {
	nf := f.clone()
	if nf.err != nil {
		return nf
	}
	p, err := preset.Get(name)
	if err != nil {
		nf.err = err
		return nf
	}
	nf.pre = &p
	return nf
}

// PresetFile loads a custom preset from a JSON file. The schema mirrors
// preset.Preset; missing role styles fall back to the body style.
//
// Example:
//
//	sum, err := gongwen.Open("draft.docx").
//	    PresetFile("house-style.json").
//	    WriteFile("final.docx")
func (f *Formatter) PresetFile(path string) *Formatter {
	nf := f.clone()
	if nf.err != nil {
		return nf
	}
	p, err := preset.LoadFile(path)
	if err != nil {
		nf.err = err
		return nf
	}
	nf.pre = &p
	return nf
}

// Logger attaches a zap logger to the run. Stage progress is logged at Info,
// per-paragraph roles at Debug. Without a logger the run is silent.
func (f *Formatter) Logger(l *zap.Logger) *Formatter {
	nf := f.clone()
	nf.logger = l
	return nf
}
