package book

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
)

// SummaryFile is the name of the outline file in the source directory.
const SummaryFile = "SUMMARY.md"

// LoadOptions configures Load.
type LoadOptions struct {
	// Src is the source directory relative to the book root. Defaults to "src".
	Src string

	// Title overrides the outline's title heading.
	Title string

	// Logger receives decoding notices. Defaults to log.Default().
	Logger *log.Logger
}

// Load reads the outline of the book rooted at root and the content of every
// chapter it references.
func Load(ctx context.Context, root string, opts LoadOptions) (*Book, error) {
	if opts.Src == "" {
		opts.Src = "src"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve book root %s: %w", root, err)
	}
	srcDir := filepath.Join(absRoot, opts.Src)

	summaryPath := filepath.Join(srcDir, SummaryFile)
	source, _, err := fsutil.ReadText(ctx, summaryPath)
	if err != nil {
		return nil, fmt.Errorf("read outline: %w", err)
	}

	summary, err := ParseSummary(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", summaryPath, err)
	}

	b := &Book{
		Root:      absRoot,
		SourceDir: srcDir,
		Title:     opts.Title,
		Items:     summary.Items,
	}
	if b.Title == "" {
		b.Title = summary.Title
	}

	err = b.Walk(func(item Item) error {
		if item.Kind != KindChapter || item.Chapter.IsDraft() {
			return nil
		}
		chapter := item.Chapter
		content, info, err := fsutil.ReadText(ctx, filepath.Join(srcDir, filepath.FromSlash(chapter.Path)))
		if err != nil {
			return fmt.Errorf("chapter %q: %w", chapter.Name, err)
		}
		if info.Encoding != "" {
			opts.Logger.Debug("Decoded chapter", "chapter", chapter.Path, "encoding", info.Encoding)
		}
		chapter.Content = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
