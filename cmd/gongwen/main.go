package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/officekit/gongwen"
	"github.com/officekit/gongwen/preset"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var (
	presetName string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gongwen <input.docx> <output.docx>",
	Short: "Format Chinese official documents",
	Long: `Gongwen reformats a .docx file to official-document conventions:
paragraph roles are detected and restyled, tables are rebuilt with
content-weighted columns, and odd/even page-number footers are added.

Examples:
  # Format with the default preset
  gongwen draft.docx final.docx

  # Pick a built-in preset
  gongwen draft.docx final.docx --preset legal

  # Use a custom preset
  gongwen draft.docx final.docx --preset custom --config house.json

  # Scan for problems without changing anything
  gongwen check draft.docx
`,
	Version:       version,
	Args:          cobra.ExactArgs(2),
	RunE:          runFormat,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&presetName, "preset", "p", gongwen.DefaultPreset,
		"style preset: official, academic, legal or custom")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"custom preset JSON file (with --preset custom)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log per-paragraph classification detail")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(punctCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	logger, err := buildLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f := gongwen.Open(args[0]).Logger(logger)
	switch {
	case presetName == "custom":
		if configPath == "" {
			return errors.New("--preset custom requires --config <file.json>")
		}
		f = f.PresetFile(configPath)
	case configPath != "":
		return errors.New("--config is only valid with --preset custom")
	default:
		if !builtinPreset(presetName) {
			return fmt.Errorf("unknown preset %q (valid: %s, custom)",
				presetName, strings.Join(preset.Names(), ", "))
		}
		f = f.Preset(presetName)
	}

	sum, err := f.WriteFile(args[1])
	if err != nil {
		return err
	}
	fmt.Println(sum)
	return nil
}

func builtinPreset(name string) bool {
	for _, n := range preset.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// buildLogger returns a development-style console logger: Info by default,
// Debug with --verbose.
func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
