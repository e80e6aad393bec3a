package gongwen

import (
	"fmt"
	"strings"

	"github.com/officekit/gongwen/classify"
)

// Summary reports what a formatting run did.
type Summary struct {
	// Preset and Label identify the style configuration that was applied.
	Preset string
	Label  string

	// Paragraphs counts the non-empty paragraphs that were styled; Split
	// counts compound headings that were split into heading plus body.
	Paragraphs int
	Split      int

	// Tables counts the tables the layout engine formatted.
	Tables int

	// Roles breaks Paragraphs down by assigned role.
	Roles map[classify.Role]int
}

// String renders the summary as a short multi-line report. Roles appear in
// their canonical order; roles with no paragraphs are omitted.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "preset: %s (%s)\n", s.Label, s.Preset)
	fmt.Fprintf(&b, "paragraphs styled: %d", s.Paragraphs)
	if s.Split > 0 {
		fmt.Fprintf(&b, " (%d headings split)", s.Split)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "tables formatted: %d", s.Tables)
	for _, role := range classify.Roles() {
		if n := s.Roles[role]; n > 0 {
			fmt.Fprintf(&b, "\n  %-10s %d", role, n)
		}
	}
	return b.String()
}
