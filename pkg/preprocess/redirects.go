package preprocess

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

type redirect struct {
	src, dst string
	stub     string
	err      error
}

// addRedirects fills the redirect table. Every source gets an empty stub
// file in the preprocessed tree first, so destinations may point at other
// redirect sources. Failed entries are logged and skipped.
func (p *Preprocessor) addRedirects(ctx context.Context, table map[string]string) {
	sources := make([]string, 0, len(table))
	for src := range table {
		sources = append(sources, src)
	}
	slices.Sort(sources)

	entries := make([]redirect, 0, len(sources))
	for _, src := range sources {
		entry := redirect{src: src, dst: table[src]}
		p.logger.Debug(fmt.Sprintf("Processing redirect: %s => %s", entry.src, entry.dst))

		entry.stub = filepath.Join(p.preprocessed, filepath.FromSlash(strings.TrimLeft(src, "/")))
		if err := fsutil.WriteAtomic(ctx, entry.stub, nil, fsutil.DefaultFileMode); err != nil {
			entry.err = fmt.Errorf("unable to create redirect stub: %w", err)
		}
		entries = append(entries, entry)
	}

	for _, entry := range entries {
		if entry.err == nil {
			entry.err = p.registerRedirect(ctx, entry)
		}
		if entry.err != nil {
			p.warn(fmt.Sprintf("Failed to resolve redirect: %s => %s: %v", entry.src, entry.dst, entry.err),
				logging.FieldLink, entry.src)
		}
	}
}

func (p *Preprocessor) registerRedirect(ctx context.Context, entry redirect) error {
	dst, err := p.resolveLink(ctx, filepath.Dir(entry.stub), goldmark.LinkAutolink, entry.dst)
	if err != nil {
		return fmt.Errorf("unable to normalize redirect destination: %w", err)
	}
	src, err := p.normalizePath(entry.stub)
	if err != nil {
		return fmt.Errorf("unable to normalize redirect source: %w", err)
	}

	p.logger.Debug(fmt.Sprintf("Registered redirect: %s => %s", src.Rel, dst))
	p.redirects[src.Rel] = dst
	return nil
}
