// Package format identifies document container formats so the formatting
// pipeline can refuse unusable input with a precise error instead of a zip
// failure deep inside the run.
package format

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/richardlehane/mscfb"
)

// ErrLegacyFormat reports a binary OLE2 container (.doc, .wps, ...) that must
// be converted to .docx before it can be formatted.
var ErrLegacyFormat = errors.New("legacy binary format")

// Format represents a recognized document container format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates an OOXML word-processing package.
	DOCX
	// XLSX indicates an OOXML spreadsheet package.
	XLSX
	// PPTX indicates an OOXML presentation package.
	PPTX
	// ODT indicates an OpenDocument text package.
	ODT
	// DOC indicates a legacy Word binary (OLE2 container).
	DOC
	// XLS indicates a legacy Excel binary.
	XLS
	// PPT indicates a legacy PowerPoint binary.
	PPT
	// WPS indicates a legacy WPS Writer / Works binary.
	WPS
)

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case ODT:
		return "ODT"
	case DOC:
		return "DOC"
	case XLS:
		return "XLS"
	case PPT:
		return "PPT"
	case WPS:
		return "WPS"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	case ODT:
		return ".odt"
	case DOC:
		return ".doc"
	case XLS:
		return ".xls"
	case PPT:
		return ".ppt"
	case WPS:
		return ".wps"
	default:
		return ""
	}
}

// Legacy reports whether the format is an OLE2 binary that needs conversion
// before this pipeline can touch it.
func (f Format) Legacy() bool {
	switch f {
	case DOC, XLS, PPT, WPS:
		return true
	}
	return false
}

// Detect determines the format from the filename extension alone.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return DOCX
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".odt":
		return ODT
	case ".doc":
		return DOC
	case ".xls":
		return XLS
	case ".ppt":
		return PPT
	case ".wps":
		return WPS
	default:
		return Unknown
	}
}

// DetectFromReader inspects content to determine the format. Zip containers
// are told apart by their member names, OLE2 containers by their stream
// names. Content inspection is more reliable than the extension: renamed
// files and .doc files that are secretly zips both show up regularly.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case hasPrefix(magic, 0x50, 0x4B, 0x03, 0x04):
		return detectZIPFormat(r, size)
	case hasPrefix(magic, 0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1):
		return detectOLE2Format(r)
	}
	return Unknown, nil
}

// DetectFile opens path and detects its format from content.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	return DetectFromReader(f, st.Size())
}

func hasPrefix(data []byte, magic ...byte) bool {
	if len(data) < len(magic) {
		return false
	}
	for i, b := range magic {
		if data[i] != b {
			return false
		}
	}
	return true
}

// detectZIPFormat tells zip-based packages apart by their member names.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// OpenDocument carries its mimetype as the first member.
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data := make([]byte, 256)
		n, _ := rc.Read(data)
		rc.Close()
		if strings.Contains(string(data[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT, nil
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}
	return Unknown, nil
}

// detectOLE2Format walks a compound file's directory and maps its stream
// names to the producing application.
func detectOLE2Format(r io.ReaderAt) (Format, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return Unknown, fmt.Errorf("reading compound file: %w", err)
	}
	var names []string
	for {
		entry, err := doc.Next()
		if err != nil {
			break
		}
		names = append(names, entry.Name)
	}
	return ole2Format(names), nil
}

// ole2Format maps compound-file stream names to a format. WPS Writer mimics
// the Word binary layout but adds its own streams, so the WPS markers are
// checked before WordDocument.
func ole2Format(names []string) Format {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	switch {
	case seen["WpsText"], seen["CONTENTS"] && seen["MatOST"]:
		return WPS
	case seen["WordDocument"]:
		return DOC
	case seen["Workbook"], seen["Book"]:
		return XLS
	case seen["PowerPoint Document"]:
		return PPT
	}
	return Unknown
}

// EnsureWordPackage verifies that path is usable .docx input. Legacy OLE2
// containers fail with an ErrLegacyFormat-wrapped error naming the detected
// format; other recognized non-word packages fail with a plain error.
// Unrecognized content passes, so the package opener can report its own,
// more precise error.
func EnsureWordPackage(path string) error {
	detected, err := DetectFile(path)
	if err != nil {
		return err
	}
	switch {
	case detected == DOCX || detected == Unknown:
		return nil
	case detected.Legacy():
		return fmt.Errorf("%w: %s is a %s file; convert it to .docx first",
			ErrLegacyFormat, filepath.Base(path), detected)
	default:
		return fmt.Errorf("%s is a %s file, not a word-processing package",
			filepath.Base(path), detected)
	}
}
