package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/format"
	"github.com/officekit/gongwen/punct"
)

var punctCmd = &cobra.Command{
	Use:   "punct <input.docx> <output.docx>",
	Short: "Normalize punctuation without restyling",
	Long: `Punct converts English punctuation inside Chinese text to its
full-width form, repairs malformed ellipses and dashes, and pairs straight
quotes. Styles, tables and footers are left untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: runPunct,
}

func runPunct(cmd *cobra.Command, args []string) error {
	if err := format.EnsureWordPackage(args[0]); err != nil {
		return err
	}
	d, err := docx.Open(args[0])
	if err != nil {
		return err
	}

	paras, cells := punct.Document(d)
	if err := d.WriteFile(args[1]); err != nil {
		return err
	}
	fmt.Printf("normalized %d paragraphs and %d table cells\n", paras, cells)
	return nil
}
