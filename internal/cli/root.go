// Package cli provides the Cobra command structure for mdbook-pandoc.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdbook-pandoc/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdbook-pandoc command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdbook-pandoc",
		Short: "Convert Markdown books into pandoc native documents",
		Long: `mdbook-pandoc turns a book of Markdown chapters, including the HTML embedded
in them, into documents in pandoc's native format.

Chapters are laid out by src/SUMMARY.md. Links between chapters become
internal references, headings get stable identifiers, and HTML elements are
mapped onto pandoc's document model so the book renders the same way in
LaTeX, HTML and every other pandoc output format.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
