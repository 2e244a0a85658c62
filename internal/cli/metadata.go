package cli

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdbook-pandoc/pkg/book"
	"github.com/yaklabco/mdbook-pandoc/pkg/config"
	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
	"github.com/yaklabco/mdbook-pandoc/pkg/preprocess"
)

// MetadataFile is written next to a profile's src directory.
const MetadataFile = "book.yml"

// metadata tells whoever runs pandoc how to read the generated documents.
type metadata struct {
	Title         string   `yaml:"title,omitempty"`
	Profile       string   `yaml:"profile"`
	Format        string   `yaml:"format"`
	PandocVersion string   `yaml:"pandoc-version"`
	From          string   `yaml:"from"`
	Extensions    []string `yaml:"extensions"`
	LatexPackages []string `yaml:"latex-packages,omitempty"`

	// MaxListDepth sizes enumitem in LaTeX templates.
	MaxListDepth int `yaml:"max-list-depth"`

	UnresolvedLinks bool `yaml:"unresolved-links,omitempty"`

	// Chapters lists the documents in book order, relative to the book root.
	Chapters []string `yaml:"chapters"`
}

func newMetadata(b *book.Book, profile string, caps *pandoc.Capabilities, report *preprocess.Report) metadata {
	meta := metadata{
		Title:           b.Title,
		Profile:         profile,
		Format:          caps.Format().String(),
		PandocVersion:   caps.Version().String(),
		From:            caps.ReaderFormat(),
		MaxListDepth:    report.MaxListDepth,
		UnresolvedLinks: report.UnresolvedLinks,
		Chapters:        append([]string{}, report.Outputs...),
	}
	meta.Extensions = []string{}
	for _, e := range caps.Enabled() {
		meta.Extensions = append(meta.Extensions, e.Name())
	}
	for _, pkg := range caps.LatexPackages() {
		meta.LatexPackages = append(meta.LatexPackages, string(pkg))
	}
	return meta
}

// write stores the metadata at path unless it is unchanged, reporting
// whether the file was written.
func (m metadata) write(ctx context.Context, path string) (bool, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(config.YAMLIndent())
	if err := encoder.Encode(m); err != nil {
		return false, fmt.Errorf("encode metadata: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return false, fmt.Errorf("close encoder: %w", err)
	}

	changed, err := fsutil.WriteAtomicIfChanged(ctx, path, buf.Bytes(), fsutil.DefaultFileMode)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return changed, nil
}
