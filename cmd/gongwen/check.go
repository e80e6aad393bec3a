package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/officekit/gongwen/analyze"
	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/format"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <input.docx>",
	Short: "Scan a document for formatting problems",
	Long: `Check scans a document for the problems the formatter fixes: English
punctuation inside Chinese text, mixed numbering styles, body paragraphs
without a first-line indent, inconsistent line spacing and font sprawl.

The document is never modified, and the command exits 0 whether or not it
finds anything; the report is informational.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit the report as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := format.EnsureWordPackage(args[0]); err != nil {
		return err
	}
	d, err := docx.Open(args[0])
	if err != nil {
		return err
	}

	rep := analyze.Document(d)
	if checkJSON {
		data, err := rep.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(rep.Text())
	return nil
}
