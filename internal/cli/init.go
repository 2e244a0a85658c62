package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdbook-pandoc/internal/configloader"
	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/pkg/config"
	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
)

// summarySkeleton starts a book that has no table of contents yet.
const summarySkeleton = `# Summary

[Introduction](README.md)

- [Chapter 1](chapter_1.md)
`

// initFlags holds the flags for the init command.
type initFlags struct {
	force bool
	full  bool
	title string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init [book-dir]",
		Short: "Initialize a new mdbook-pandoc configuration file",
		Long: `Create a .mdbook-pandoc.yml configuration file in book-dir (default: the
current directory) with a single pdf profile. When the book has no
src/SUMMARY.md yet, a skeleton with one chapter is created as well.

Examples:
  mdbook-pandoc init                      Create a minimal .mdbook-pandoc.yml
  mdbook-pandoc init --full               Document every option in the file
  mdbook-pandoc init --title "My Book"    Set the book title
  mdbook-pandoc init docs/book --force    Overwrite the config in docs/book`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all options documented")
	cmd.Flags().StringVar(&flags.title, "title", "", "Book title to write into the configuration")

	return cmd
}

func runInit(cmd *cobra.Command, args []string, flags *initFlags) error {
	ctx := cmd.Context()
	logger := logging.NewInteractive(cmd.ErrOrStderr())

	bookDir := "."
	if len(args) == 1 {
		bookDir = args[0]
	}
	absDir, err := filepath.Abs(bookDir)
	if err != nil {
		return withExitCode(ExitUsage, fmt.Errorf("resolve path: %w", err))
	}

	configPath := filepath.Join(absDir, configloader.ProjectConfigFile)
	exists, err := fsutil.Exists(configPath)
	if err != nil {
		return withExitCode(ExitUsage, err)
	}
	if exists {
		if !flags.force {
			return withExitCode(ExitUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", configPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, configPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:  flags.full,
		Title: flags.title,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, configPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	logger.Info("created configuration file", logging.FieldPath, configPath)

	summaryPath := filepath.Join(absDir, config.DefaultSrc, "SUMMARY.md")
	hasSummary, err := fsutil.Exists(summaryPath)
	if err != nil {
		return err
	}
	if !hasSummary {
		if err := writeSkeleton(ctx, filepath.Dir(summaryPath)); err != nil {
			return err
		}
		logger.Info("created book skeleton", logging.FieldPath, summaryPath)
	}

	if flags.full {
		logger.Info("full template documents every option")
	}
	logger.Info("run 'mdbook-pandoc build' to convert the book")

	return nil
}

func writeSkeleton(ctx context.Context, srcDir string) error {
	files := map[string]string{
		"SUMMARY.md":   summarySkeleton,
		"README.md":    "# Introduction\n",
		"chapter_1.md": "# Chapter 1\n",
	}
	for name, content := range files {
		path := filepath.Join(srcDir, name)
		exists, err := fsutil.Exists(path)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := fsutil.WriteAtomic(ctx, path, []byte(content), fsutil.DefaultFileMode); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
