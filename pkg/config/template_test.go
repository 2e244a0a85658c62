package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdbook-pandoc/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts config.TemplateOptions
	}{
		{name: "minimal", opts: config.TemplateOptions{}},
		{name: "full", opts: config.TemplateOptions{Full: true}},
		{name: "titled", opts: config.TemplateOptions{Title: `A "quoted" title`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := config.GenerateTemplate(tt.opts)
			require.NoError(t, err)

			cfg, err := config.FromYAML(data)
			require.NoError(t, err, "template must parse:\n%s", data)

			assert.Equal(t, tt.opts.Title, cfg.Book.Title)
			assert.Equal(t, config.DefaultSrc, cfg.Book.Src)
			assert.Equal(t, config.DefaultBuildDir, cfg.Book.BuildDir)
			assert.Equal(t, map[string]config.Profile{"pdf": {OutputFile: "book.pdf"}}, cfg.Profiles)
		})
	}
}

func TestGenerateTemplate_FullDocumentsOptions(t *testing.T) {
	t.Parallel()

	data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
	require.NoError(t, err)

	for _, key := range []string{
		"show-hidden-lines", "hidelines", "detect-language",
		"math", "superscript", "subscript", "definition-lists", "mathjax-support",
		"number-internal", "list-internal",
	} {
		assert.Contains(t, string(data), "#   "+key+":", key)
	}
	assert.Contains(t, string(data), "# additional-css:")
	assert.Contains(t, string(data), "# redirect:")
}
