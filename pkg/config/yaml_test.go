package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdbook-pandoc/pkg/config"
)

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
book:
  title: The Book
  src: source
  hosted-html: https://example.com/book/
code:
  show-hidden-lines: true
  hidelines:
    python: "~"
markdown:
  math: true
  definition-lists: true
headings:
  number-internal: true
pandoc:
  version: "3.1.2"
additional-css:
  - theme/custom.css
redirect:
  /old.md: new.md
profiles:
  pdf:
    output-file: book.pdf
    pdf-engine: lualatex
  html:
    to: html5
    columns: 100
`))
	require.NoError(t, err)

	assert.Equal(t, "The Book", cfg.Book.Title)
	assert.Equal(t, "source", cfg.Book.Src)
	assert.Equal(t, "https://example.com/book/", cfg.Book.HostedHTML)
	assert.True(t, cfg.Code.ShowHiddenLines)
	assert.Equal(t, map[string]string{"python": "~"}, cfg.Code.HideLines)
	assert.True(t, cfg.Markdown.Math)
	assert.True(t, cfg.Markdown.DefinitionLists)
	assert.False(t, cfg.Markdown.Superscript)
	assert.True(t, cfg.Headings.NumberInternal)
	assert.Equal(t, "3.1.2", cfg.Pandoc.Version)
	assert.Equal(t, []string{"theme/custom.css"}, cfg.AdditionalCSS)
	assert.Equal(t, map[string]string{"/old.md": "new.md"}, cfg.Redirect)
	assert.Equal(t, config.Profile{OutputFile: "book.pdf", PdfEngine: "lualatex"}, cfg.Profiles["pdf"])
	assert.Equal(t, config.Profile{To: "html5", Columns: 100}, cfg.Profiles["html"])
	assert.Equal(t, []string{"html", "pdf"}, cfg.ProfileNames())
}

func TestFromYAML_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("book:\n  titel: typo\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "titel")
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("profiles:\n  pdf:\n    columns: wide\n"))
		require.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.Empty(t, cfg.Profiles)
	})
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies maps and slices", func(t *testing.T) {
		t.Parallel()
		original := config.NewConfig()
		original.Profiles = map[string]config.Profile{"pdf": {OutputFile: "book.pdf"}}
		original.Redirect = map[string]string{"/a.md": "b.md"}
		original.Code.HideLines = map[string]string{"python": "~"}
		original.AdditionalCSS = []string{"a.css"}
		original.Only = []string{"pdf"}
		original.Strict = true

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)

		clone.Profiles["html"] = config.Profile{To: "html"}
		clone.Redirect["/c.md"] = "d.md"
		clone.Code.HideLines["go"] = "//"
		clone.AdditionalCSS[0] = "changed.css"
		clone.Only[0] = "html"

		assert.Len(t, original.Profiles, 1)
		assert.Len(t, original.Redirect, 1)
		assert.Len(t, original.Code.HideLines, 1)
		assert.Equal(t, "a.css", original.AdditionalCSS[0])
		assert.Equal(t, "pdf", original.Only[0])
	})
}

func TestToYAML(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Profiles = map[string]config.Profile{"pdf": {OutputFile: "book.pdf"}}
	cfg.Strict = true

	data, err := cfg.ToYAMLWithHeader(config.DefaultTemplateHeader())
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# mdbook-pandoc configuration\n"))
	assert.Contains(t, text, "build-dir: book")
	assert.Contains(t, text, "output-file: book.pdf")
	assert.NotContains(t, text, "strict")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Profiles, parsed.Profiles)
	assert.Equal(t, cfg.Book, parsed.Book)
}

func TestSelectedProfiles(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Profiles = map[string]config.Profile{"pdf": {}, "html": {}, "epub": {}}
	assert.Equal(t, []string{"epub", "html", "pdf"}, cfg.SelectedProfiles())

	cfg.Only = []string{"pdf", "epub", "pdf"}
	assert.Equal(t, []string{"pdf", "epub"}, cfg.SelectedProfiles())
}
