package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/yaklabco/mdbook-pandoc/pkg/config"
)

const pdfProfile = "profiles:\n  pdf:\n    output-file: book.pdf\n"

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{Profiles: map[string]config.Profile{"pdf": {OutputFile: "book.pdf"}}}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSrc, result.Config.Book.Src)
	assert.Equal(t, config.DefaultBuildDir, result.Config.Book.BuildDir)
	assert.Equal(t, config.DefaultPandocVersion, result.Config.Pandoc.Version)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	configPath := filepath.Join(tmpDir, ".mdbook-pandoc.yml")
	writeConfig(t, configPath, "book:\n  title: Project\nmarkdown:\n  math: true\n"+pdfProfile)

	// Discovery searches upward from nested directories.
	nested := filepath.Join(tmpDir, "docs", "book")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)

	assert.Equal(t, "Project", result.Config.Book.Title)
	assert.True(t, result.Config.Markdown.Math)
	assert.Equal(t, []string{configPath}, result.LoadedFrom)
	assert.Equal(t, configPath, result.Paths.Project)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".mdbook-pandoc.yml"), pdfProfile)
	repo := filepath.Join(tmpDir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeConfig(t, filepath.Join(tmpDir, ".mdbook-pandoc.yml"), `
book:
  title: Project
  build-dir: out
redirect:
  /a.md: b.md
profiles:
  pdf:
    output-file: book.pdf
    columns: 80
`)
	explicit := filepath.Join(tmpDir, "ci.yml")
	writeConfig(t, explicit, `
book:
  title: Explicit
redirect:
  /c.md: d.md
profiles:
  pdf:
    pdf-engine: xelatex
`)

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Strict: true, DestDir: "elsewhere"}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "Explicit", cfg.Book.Title)
	assert.Equal(t, "out", cfg.Book.BuildDir)
	assert.Equal(t, map[string]string{"/a.md": "b.md", "/c.md": "d.md"}, cfg.Redirect)
	assert.Equal(t, config.Profile{OutputFile: "book.pdf", PdfEngine: "xelatex", Columns: 80}, cfg.Profiles["pdf"])
	assert.True(t, cfg.Strict)
	assert.Equal(t, "elsewhere", cfg.DestDir)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeConfig(t, filepath.Join(tmpDir, ".mdbook-pandoc.yml"), `
pandoc:
  version: three
profiles:
  pdf:
    columns: -1
`)

	_, err := Load(context.Background(), isolated(tmpDir))
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	assert.Contains(t, err.Error(), "pandoc.version")
	assert.Contains(t, err.Error(), "'to' or 'output-file'")
	assert.Contains(t, err.Error(), "columns must be positive")
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeConfig(t, filepath.Join(tmpDir, ".mdbook-pandoc.yml"), "book: [unclosed\n")

	_, err := Load(context.Background(), isolated(tmpDir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load project config")
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Env(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeConfig(t, filepath.Join(tmpDir, ".mdbook-pandoc.yml"), pdfProfile)

	t.Setenv("MDBOOK_PANDOC_TITLE", "From Env")
	t.Setenv("MDBOOK_PANDOC_MATH", "1")
	t.Setenv("MDBOOK_PANDOC_ADDITIONAL_CSS", "a.css, b.css,")

	opts := isolated(tmpDir)
	opts.IgnoreEnv = false
	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "From Env", result.Config.Book.Title)
	assert.True(t, result.Config.Markdown.Math)
	assert.Equal(t, []string{"a.css", "b.css"}, result.Config.AdditionalCSS)
}

func TestLoadFromEnv_InvalidBool(t *testing.T) {
	t.Setenv("MDBOOK_PANDOC_STRICT", "maybe")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MDBOOK_PANDOC_STRICT")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		cfg := config.NewConfig()
		cfg.Profiles = map[string]config.Profile{"pdf": {OutputFile: "book.pdf"}}
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		errors   int
		warnings int
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "no profiles", mutate: func(c *config.Config) { c.Profiles = nil }, errors: 1},
		{name: "unknown selected profile", mutate: func(c *config.Config) { c.Only = []string{"epub"} }, errors: 1},
		{name: "absolute src", mutate: func(c *config.Config) { c.Book.Src = "/abs" }, errors: 1},
		{name: "bad hosted url", mutate: func(c *config.Config) { c.Book.HostedHTML = "example.com" }, errors: 1},
		{name: "https hosted url", mutate: func(c *config.Config) { c.Book.HostedHTML = "https://example.com/book/" }},
		{name: "unrooted redirect", mutate: func(c *config.Config) { c.Redirect = map[string]string{"a.md": "b.md"} }, warnings: 1},
		{name: "empty redirect target", mutate: func(c *config.Config) { c.Redirect = map[string]string{"/a.md": ""} }, errors: 1},
		{name: "empty stylesheet", mutate: func(c *config.Config) { c.AdditionalCSS = []string{" "} }, errors: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			result := Validate(cfg)
			assert.Len(t, result.Errors, tt.errors, result.AllMessages())
			assert.Len(t, result.Warnings, tt.warnings, result.AllMessages())
			assert.Equal(t, tt.errors == 0, result.Valid())
		})
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	result := ValidateWithFile(config.NewConfig(), "book.yml")
	require.False(t, result.Valid())
	assert.Equal(t, "book.yml: profiles: no profiles configured; run 'mdbook-pandoc init' to create one",
		result.Errors[0].Error())
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	merged := MergeAll(
		config.NewConfig(),
		&config.Config{Code: config.CodeConfig{HideLines: map[string]string{"python": "~"}}},
		&config.Config{Code: config.CodeConfig{HideLines: map[string]string{"go": "//"}, ShowHiddenLines: true}},
	)
	assert.Equal(t, map[string]string{"python": "~", "go": "//"}, merged.Code.HideLines)
	assert.True(t, merged.Code.ShowHiddenLines)
	assert.Equal(t, config.DefaultSrc, merged.Book.Src)
	assert.Nil(t, MergeAll())
}
