package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/yaklabco/mdbook-pandoc/internal/configloader"
	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/internal/ui/pretty"
	"github.com/yaklabco/mdbook-pandoc/pkg/book"
	"github.com/yaklabco/mdbook-pandoc/pkg/config"
	"github.com/yaklabco/mdbook-pandoc/pkg/css"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
	"github.com/yaklabco/mdbook-pandoc/pkg/preprocess"
)

type buildFlags struct {
	profiles []string
	strict   bool
	destDir  string
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [book-dir]",
		Short: "Convert a book into pandoc native documents",
		Long:  buildLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.profiles, "profile", nil, "build only the named profiles (repeatable)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 3 when links stay unresolved")
	cmd.Flags().StringVar(&flags.destDir, "dest-dir", "", "output directory (default: <book-dir>/<build-dir>)")

	return cmd
}

const buildLongDescription = `Convert every chapter of a book into pandoc's native format.

The book is described by src/SUMMARY.md below book-dir (default: the current
directory). Each configured profile is written to <build-dir>/<profile>: the
source tree is mirrored into its src directory, every chapter is replaced by
its native document and book.yml records the chapter order and the pandoc
reader extensions the documents rely on.

Examples:
  mdbook-pandoc build                      Build every profile of the book here
  mdbook-pandoc build docs/book            Build the book in docs/book
  mdbook-pandoc build --profile pdf        Build only the pdf profile
  mdbook-pandoc build --strict             Fail when a link cannot be resolved`

// build holds the inputs shared by every profile of one run.
type build struct {
	cfg      *config.Config
	book     *book.Book
	styles   *css.Styles
	version  pandoc.Version
	buildDir string
}

func runBuild(cmd *cobra.Command, args []string, flags *buildFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := commandLogger(cmd)
	ctx = logging.WithLogger(ctx, logger)

	bookDir := "."
	if len(args) == 1 {
		bookDir = args[0]
	}
	bookDir, err := filepath.Abs(bookDir)
	if err != nil {
		return withExitCode(ExitUsage, fmt.Errorf("resolve book directory: %w", err))
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return withExitCode(ExitUsage, fmt.Errorf("get config flag: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   bookDir,
		ExplicitPath: configPath,
		CLIConfig: &config.Config{
			Strict:  flags.strict,
			DestDir: flags.destDir,
			Only:    flags.profiles,
		},
	})
	if err != nil {
		return withExitCode(ExitUsage, fmt.Errorf("failed to load configuration: %w", err))
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("Loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	if cfg.Disabled {
		logger.Info("Skipping build since disabled is set")
		return nil
	}

	b, err := book.Load(ctx, bookDir, book.LoadOptions{Src: cfg.Book.Src, Title: cfg.Book.Title, Logger: logger})
	if err != nil {
		return withExitCode(ExitBuildFailed, fmt.Errorf("load book: %w", err))
	}

	logger.Debug("Loaded book",
		logging.FieldBook, b.Title,
		logging.FieldWorkingDir, b.Root,
		logging.FieldStrict, cfg.Strict,
	)

	styles := css.NewStyles()
	styles.LoadFiles(b.Root, cfg.AdditionalCSS, logger)

	version, err := pandoc.ParseVersion(cfg.Pandoc.Version)
	if err != nil {
		return withExitCode(ExitUsage, err)
	}

	buildDir := cfg.Book.BuildDir
	if cfg.DestDir != "" {
		buildDir = cfg.DestDir
	}
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(b.Root, buildDir)
	}

	bld := &build{cfg: cfg, book: b, styles: styles, version: version, buildDir: buildDir}

	var results []pretty.ProfileResult
	var buildErr error
	unresolved := false
	for _, name := range cfg.SelectedProfiles() {
		if err := ctx.Err(); err != nil {
			buildErr = multierr.Append(buildErr, err)
			break
		}
		result := bld.profile(ctx, name)
		results = append(results, result)
		if result.Err != nil {
			buildErr = multierr.Append(buildErr, fmt.Errorf("profile %s: %w", name, result.Err))
		}
		if result.Report != nil && result.Report.UnresolvedLinks {
			unresolved = true
		}
	}

	out := cmd.OutOrStdout()
	styled := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	fmt.Fprint(out, styled.FormatSummary(results, pretty.DividerWidth(out)))

	if buildErr != nil {
		return withExitCode(ExitBuildFailed, buildErr)
	}
	if unresolved {
		if cfg.Strict {
			return withExitCode(ExitUnresolvedLinks, ErrUnresolvedLinks)
		}
		logger.Warn("Failed to resolve one or more relative links within the book; " +
			"consider setting book.hosted-html")
	}
	return nil
}

// profile builds one profile. Failures are reported in the result so the
// remaining profiles still run.
func (b *build) profile(ctx context.Context, name string) pretty.ProfileResult {
	profile := b.cfg.Profiles[name]
	logger := logging.FromContext(ctx).With(logging.FieldProfile, name)

	format := pandoc.Profile{
		To:         profile.To,
		OutputFile: profile.OutputFile,
		PdfEngine:  profile.PdfEngine,
	}.OutputFormat(logger)
	caps := pandoc.NewCapabilities(b.version, format)

	dest := filepath.Join(b.buildDir, name)
	result := pretty.ProfileResult{Name: name, Format: format.String(), Dest: b.displayPath(dest)}

	logger.Debug("Building profile", logging.FieldFormat, format, logging.FieldOutput, dest)

	p, err := preprocess.New(ctx, preprocess.Options{
		Book:         b.book,
		Dest:         dest,
		BuildDir:     b.buildDir,
		Capabilities: caps,
		Styles:       b.styles,
		Logger:       logger,
		Markdown: preprocess.MarkdownOptions{
			Math:            b.cfg.Markdown.Math,
			Superscript:     b.cfg.Markdown.Superscript,
			Subscript:       b.cfg.Markdown.Subscript,
			DefinitionLists: b.cfg.Markdown.DefinitionLists,
			MathJax:         b.cfg.Markdown.MathJaxSupport,
		},
		Code: preprocess.CodeOptions{
			ShowHiddenLines: b.cfg.Code.ShowHiddenLines,
			HideLines:       b.cfg.Code.HideLines,
			DetectLanguage:  b.cfg.Code.DetectLanguage,
		},
		Headings: preprocess.HeadingOptions{
			NumberInternal: b.cfg.Headings.NumberInternal,
			ListInternal:   b.cfg.Headings.ListInternal,
		},
		Columns:    profile.Columns,
		HostedHTML: b.cfg.Book.HostedHTML,
		Redirects:  b.cfg.Redirect,
	})
	if err != nil {
		result.Err = err
		return result
	}

	report, err := p.Run(ctx)
	result.Report = report
	if err != nil {
		result.Err = err
		return result
	}

	meta := newMetadata(b.book, name, caps, report)
	changed, err := meta.write(ctx, filepath.Join(dest, MetadataFile))
	if err != nil {
		result.Err = fmt.Errorf("write metadata: %w", err)
		return result
	}

	logger.Info("Built profile",
		logging.FieldChaptersWritten, report.Chapters,
		logging.FieldPartsWritten, report.Parts,
		logging.FieldAssetsCopied, report.Assets,
		logging.FieldWarnings, report.Warnings,
		logging.FieldUnresolvedLinks, report.UnresolvedLinks,
		logging.FieldMaxListDepth, report.MaxListDepth,
		"metadata_changed", changed,
	)
	return result
}

// displayPath shortens paths below the book root.
func (b *build) displayPath(path string) string {
	rel, err := filepath.Rel(b.book.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// commandLogger returns a logger writing to the command's error stream.
func commandLogger(cmd *cobra.Command) *log.Logger {
	level := "info"
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		level = "debug"
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level)
}

func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}
