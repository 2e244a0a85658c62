// Package config defines the configuration of an mdbook-pandoc build.
// These types are plain data; loading and merging live in internal/configloader.
package config

import "sort"

// Default values for a new configuration.
const (
	DefaultSrc           = "src"
	DefaultBuildDir      = "book"
	DefaultPandocVersion = "3.6"
)

// BookConfig locates the book and names it.
type BookConfig struct {
	// Title overrides the title heading of SUMMARY.md.
	Title string `yaml:"title,omitempty"`

	// Src is the source directory relative to the book root.
	Src string `yaml:"src,omitempty"`

	// BuildDir is the output directory relative to the book root. Each
	// profile writes to a subdirectory named after it.
	BuildDir string `yaml:"build-dir,omitempty"`

	// HostedHTML is the URL of the book's HTML rendering. Links that cannot
	// be resolved inside the book point there instead.
	HostedHTML string `yaml:"hosted-html,omitempty"`
}

// CodeConfig controls how code blocks are rendered.
type CodeConfig struct {
	ShowHiddenLines bool `yaml:"show-hidden-lines,omitempty"`

	// HideLines maps a language to the line prefix that hides a line.
	HideLines map[string]string `yaml:"hidelines,omitempty"`

	// DetectLanguage guesses the language of fenced blocks without an info
	// string.
	DetectLanguage bool `yaml:"detect-language,omitempty"`
}

// MarkdownConfig enables Markdown syntax beyond CommonMark and GFM.
type MarkdownConfig struct {
	Math            bool `yaml:"math,omitempty"`
	Superscript     bool `yaml:"superscript,omitempty"`
	Subscript       bool `yaml:"subscript,omitempty"`
	DefinitionLists bool `yaml:"definition-lists,omitempty"`
	MathJaxSupport  bool `yaml:"mathjax-support,omitempty"`
}

// HeadingsConfig controls headings below a chapter's title.
type HeadingsConfig struct {
	// NumberInternal numbers them.
	NumberInternal bool `yaml:"number-internal,omitempty"`

	// ListInternal lists them in the table of contents.
	ListInternal bool `yaml:"list-internal,omitempty"`
}

// PandocConfig describes the pandoc the generated documents are meant for.
type PandocConfig struct {
	// Version gates the reader extensions the documents may rely on.
	Version string `yaml:"version,omitempty"`
}

// Profile is one rendering of the book.
type Profile struct {
	// To is pandoc's output format.
	To string `yaml:"to,omitempty"`

	// OutputFile is the file pandoc writes; its extension implies a format
	// when To is empty.
	OutputFile string `yaml:"output-file,omitempty"`

	PdfEngine string `yaml:"pdf-engine,omitempty"`

	// Columns is the line length beyond which tables get relative column
	// widths. Zero uses the default.
	Columns int `yaml:"columns,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Book     BookConfig     `yaml:"book"`
	Code     CodeConfig     `yaml:"code"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Headings HeadingsConfig `yaml:"headings"`
	Pandoc   PandocConfig   `yaml:"pandoc"`

	// AdditionalCSS lists stylesheets, relative to the book root, whose
	// class rules size images and hide elements.
	AdditionalCSS []string `yaml:"additional-css,omitempty"`

	// Redirect maps old source paths (rooted at the source directory) to
	// their new locations.
	Redirect map[string]string `yaml:"redirect,omitempty"`

	// Profiles holds the renderings of the book keyed by name.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Disabled skips the build.
	Disabled bool `yaml:"disabled,omitempty"`

	// CLI-level options (not persisted to config files).

	// Strict turns unresolved links into a failing exit code.
	Strict bool `yaml:"-"`

	// DestDir overrides the build directory.
	DestDir string `yaml:"-"`

	// Only limits the build to the named profiles.
	Only []string `yaml:"-"`
}

// NewConfig returns a Config with the default values.
func NewConfig() *Config {
	return &Config{
		Book: BookConfig{
			Src:      DefaultSrc,
			BuildDir: DefaultBuildDir,
		},
		Pandoc: PandocConfig{
			Version: DefaultPandocVersion,
		},
	}
}

// ProfileNames returns the names of the configured profiles in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectedProfiles returns the profiles to build: those named in Only, or
// all of them.
func (c *Config) SelectedProfiles() []string {
	if len(c.Only) == 0 {
		return c.ProfileNames()
	}
	selected := make([]string, 0, len(c.Only))
	seen := make(map[string]bool, len(c.Only))
	for _, name := range c.Only {
		if seen[name] {
			continue
		}
		seen[name] = true
		selected = append(selected, name)
	}
	return selected
}
