// Package gongwen formats Chinese official documents (公文) stored as .docx
// packages. It classifies every paragraph into a semantic role (title,
// recipient, headings, body, signature, date and so on), applies the fonts,
// sizes, indents and spacing of a named style preset, restructures tables
// with content-weighted column widths, and rebuilds odd/even page-number
// footers. Parts of the package the pipeline never touches pass through
// byte for byte.
//
// Basic usage:
//
//	sum, err := gongwen.Open("draft.docx").WriteFile("final.docx")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(sum)
//
// With options:
//
//	sum, err := gongwen.Open("draft.docx").
//	    Preset("legal").
//	    Logger(logger).
//	    WriteFile("final.docx")
//
// For finer control, the docx, classify, layout and preset packages expose
// the individual pipeline stages.
package gongwen

import (
	"github.com/officekit/gongwen/docx"
)

// DefaultPreset is the preset used when none is configured.
const DefaultPreset = "official"

// Open prepares a Formatter for the given .docx file and returns it for
// fluent configuration. The file is not read until a terminal operation
// (Format or WriteFile) runs.
//
// Example:
//
//	sum, err := gongwen.Open("draft.docx").WriteFile("final.docx")
func Open(filename string) *Formatter {
	return &Formatter{filename: filename}
}

// FromDocument creates a Formatter over an already-loaded document. This is
// useful when the caller wants to inspect or adjust the document before or
// after formatting.
//
// Example:
//
//	d, err := docx.Open("draft.docx")
//	if err != nil {
//	    // handle error
//	}
//	_, sum, err := gongwen.FromDocument(d).Format()
func FromDocument(d *docx.Document) *Formatter {
	return &Formatter{doc: d}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	sum := gongwen.Must(gongwen.Open("draft.docx").WriteFile("final.docx"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
