// Package preprocess converts the chapters of a book into pandoc native
// documents.
//
// Every chapter is parsed into Markdown events, the raw HTML it embeds is
// merged with those events into one HTML5 tree, and the tree is written out
// as a pandoc [Block] list. Links are rewritten to point into the
// preprocessed tree, which mirrors the book's source directory.
package preprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gosimple/slug"

	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/pkg/book"
	"github.com/yaklabco/mdbook-pandoc/pkg/css"
	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// ErrChapterFailed is returned when a chapter cannot be converted. The
// partial output stays on disk.
var ErrChapterFailed = errors.New("failed to preprocess chapter")

// DefaultColumns is the line length beyond which tables get relative column
// widths.
const DefaultColumns = 72

// MarkdownOptions selects optional Markdown syntax.
type MarkdownOptions struct {
	Math            bool
	Superscript     bool
	Subscript       bool
	DefinitionLists bool

	// MathJax recognizes \( \) and \[ \] math delimiters in text.
	MathJax bool
}

// CodeOptions controls code block rendering.
type CodeOptions struct {
	// ShowHiddenLines keeps hidden lines, stripping their marker.
	ShowHiddenLines bool

	// HideLines maps a language to the prefix marking its hidden lines.
	HideLines map[string]string

	// DetectLanguage guesses the language of blocks without an info string.
	DetectLanguage bool
}

// HeadingOptions controls the classes given to headings below a chapter's
// title.
type HeadingOptions struct {
	NumberInternal bool
	ListInternal   bool
}

// Options configures a Preprocessor.
type Options struct {
	Book *book.Book

	// Dest is the profile's output directory. Chapters are written to its
	// src subdirectory.
	Dest string

	// BuildDir is left out when the source tree is mirrored.
	BuildDir string

	Capabilities *pandoc.Capabilities
	Styles       *css.Styles
	Logger       *log.Logger

	Markdown MarkdownOptions
	Code     CodeOptions
	Headings HeadingOptions

	// Columns defaults to DefaultColumns.
	Columns int

	// HostedHTML is the base URL of the book's hosted HTML rendering, used
	// for links that cannot be resolved locally.
	HostedHTML string

	// Redirects maps old source paths to their new locations.
	Redirects map[string]string
}

// Report summarizes a run.
type Report struct {
	// Chapters is the number of chapter files written.
	Chapters int

	// Parts is the number of part files written.
	Parts int

	// Outputs lists the written files relative to the book root, in book
	// order.
	Outputs []string

	// Assets is the number of referenced files copied into the output tree.
	Assets int

	// Warnings is the number of warnings logged.
	Warnings int

	// UnresolvedLinks is set when a link was left as written.
	UnresolvedLinks bool

	// MaxListDepth is the deepest list nesting in the book.
	MaxListDepth int
}

type indexedChapter struct {
	chapter *book.Chapter
	scanned bool
	anchor  string
}

// Preprocessor converts the chapters of one book for one profile.
// It is not safe for concurrent use.
type Preprocessor struct {
	opts   Options
	book   *book.Book
	caps   *pandoc.Capabilities
	styles *css.Styles
	logger *log.Logger
	parser *goldmark.Parser

	root            string
	srcDir          string
	preprocessed    string
	preprocessedRel string
	hostedHTML      string

	redirects map[string]linkTarget
	chapters  map[string]*indexedChapter

	partNum      int
	assets       int
	warnings     int
	maxListDepth int
	unresolved   bool
}

// New prepares the output tree: it is emptied, the book's source directory
// is mirrored into it and the redirect stubs are written.
func New(ctx context.Context, opts Options) (*Preprocessor, error) {
	if opts.Book == nil {
		return nil, errors.New("preprocess: no book")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Styles == nil {
		opts.Styles = css.NewStyles()
	}
	if opts.Capabilities == nil {
		opts.Capabilities = pandoc.NewCapabilities(pandoc.MustParseVersion(pandoc.DefaultVersion), pandoc.FormatOther)
	}
	if opts.Columns <= 0 {
		opts.Columns = DefaultColumns
	}

	preprocessed := filepath.Join(opts.Dest, "src")
	if err := fsutil.ResetDir(preprocessed); err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	skip := func(string) bool { return false }
	if opts.BuildDir != "" {
		buildDir := filepath.Clean(opts.BuildDir)
		skip = func(p string) bool { return filepath.Clean(p) == buildDir }
	}
	if err := fsutil.MirrorTree(ctx, opts.Book.SourceDir, preprocessed, fsutil.MirrorOptions{Skip: skip}); err != nil {
		opts.Logger.Warn("Failed to copy part of the source directory", logging.FieldError, err)
	}

	p := &Preprocessor{
		opts:       opts,
		book:       opts.Book,
		caps:       opts.Capabilities,
		styles:     opts.Styles,
		logger:     opts.Logger,
		hostedHTML: opts.HostedHTML,
		redirects:  make(map[string]linkTarget),
		chapters:   make(map[string]*indexedChapter),
		parser: goldmark.New(goldmark.Options{
			Strikethrough:   true,
			Footnotes:       true,
			Tables:          true,
			TaskLists:       true,
			Alerts:          true,
			Math:            opts.Markdown.Math,
			Superscript:     opts.Markdown.Superscript,
			Subscript:       opts.Markdown.Subscript,
			DefinitionLists: opts.Markdown.DefinitionLists,
		}),
	}

	var err error
	if p.root, err = canonical(opts.Book.Root); err != nil {
		return nil, fmt.Errorf("resolve book root: %w", err)
	}
	if p.srcDir, err = canonical(opts.Book.SourceDir); err != nil {
		return nil, fmt.Errorf("resolve source directory: %w", err)
	}
	if p.preprocessed, err = canonical(preprocessed); err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	rel, err := filepath.Rel(p.root, p.preprocessed)
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	p.preprocessedRel = filepath.ToSlash(rel)

	for _, chapter := range p.book.Chapters() {
		if chapter.IsDraft() {
			continue
		}
		p.chapters[path.Join(p.preprocessedRel, chapter.Path)] = &indexedChapter{chapter: chapter}
	}

	p.addRedirects(ctx, opts.Redirects)
	return p, nil
}

// PreprocessedDir returns the directory the chapters are written to.
func (p *Preprocessor) PreprocessedDir() string {
	return p.preprocessed
}

// Run converts every chapter in book order. It stops at the first chapter
// that fails.
func (p *Preprocessor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	err := p.book.Walk(func(item book.Item) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch item.Kind {
		case book.KindPartTitle:
			out, ok, err := p.part(ctx, item.Title)
			if err != nil {
				return err
			}
			if ok {
				report.Parts++
				report.Outputs = append(report.Outputs, out)
			}
		case book.KindChapter:
			if item.Chapter.IsDraft() {
				return nil
			}
			out, err := p.chapter(ctx, item.Chapter)
			if err != nil {
				return err
			}
			report.Chapters++
			report.Outputs = append(report.Outputs, out)
		case book.KindSeparator:
		}
		return nil
	})

	report.Assets = p.assets
	report.Warnings = p.warnings
	report.UnresolvedLinks = p.unresolved
	report.MaxListDepth = p.maxListDepth
	return report, err
}

// chapter converts one chapter and writes it below the output tree.
func (p *Preprocessor) chapter(ctx context.Context, chapter *book.Chapter) (string, error) {
	out := filepath.Join(p.preprocessed, filepath.FromSlash(chapter.Path))
	logger := p.logger.With(logging.FieldChapter, chapter.Path)
	logger.Debug("Preprocessing chapter")

	var buf bytes.Buffer
	convErr := newConverter(ctx, p, chapter, &buf).convert()

	if err := fsutil.WriteAtomic(ctx, out, buf.Bytes(), fsutil.DefaultFileMode); err != nil {
		return "", fmt.Errorf("write chapter %s: %w", chapter.Path, err)
	}
	if convErr != nil {
		logger.Error("Failed to preprocess chapter", logging.FieldOutput, out, logging.FieldError, convErr)
		return "", fmt.Errorf("%w %s: %w", ErrChapterFailed, chapter.Path, convErr)
	}
	return path.Join(p.preprocessedRel, chapter.Path), nil
}

// part writes the file that opens a part of the book. Only LaTeX output
// has a notion of parts.
func (p *Preprocessor) part(ctx context.Context, name string) (string, bool, error) {
	if p.caps.Format() != pandoc.FormatLatex || !p.caps.Enable(pandoc.RawAttribute) {
		p.warn(fmt.Sprintf("Ignoring part separator: %s", name), logging.FieldPart, name)
		return "", false, nil
	}

	p.partNum++
	file := fmt.Sprintf("part-%d-%s.md", p.partNum, slug.Make(name))

	var buf bytes.Buffer
	w := native.NewWriter(&buf)
	if err := w.StartPara(); err != nil {
		return "", false, fmt.Errorf("write part %s: %w", name, err)
	}
	if err := w.RawInline(native.FormatLaTeX, `\part{`+name+`}`); err != nil {
		return "", false, fmt.Errorf("write part %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", false, fmt.Errorf("write part %s: %w", name, err)
	}

	out := filepath.Join(p.preprocessed, file)
	if err := fsutil.WriteAtomic(ctx, out, buf.Bytes(), fsutil.DefaultFileMode); err != nil {
		return "", false, fmt.Errorf("write part %s: %w", name, err)
	}
	p.logger.Debug("Wrote part", logging.FieldPart, name, logging.FieldOutput, out)
	return path.Join(p.preprocessedRel, file), true, nil
}

func (p *Preprocessor) warn(msg string, keyvals ...any) {
	p.warnings++
	p.logger.Warn(msg, keyvals...)
}
