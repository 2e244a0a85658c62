package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/mdbook-pandoc/pkg/config"
)

// envVarPrefix is the prefix for all environment variables.
const envVarPrefix = "MDBOOK_PANDOC_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeSlice
)

// envMapping binds an environment variable to a config field.
type envMapping struct {
	typ  envFieldType
	desc string

	setString func(*config.Config, string)
	setBool   func(*config.Config, bool)
	setSlice  func(*config.Config, []string)
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"TITLE": {typ: envTypeString, desc: "Book title",
		setString: func(c *config.Config, v string) { c.Book.Title = v }},
	"SRC": {typ: envTypeString, desc: "Source directory relative to the book root",
		setString: func(c *config.Config, v string) { c.Book.Src = v }},
	"BUILD_DIR": {typ: envTypeString, desc: "Output directory relative to the book root",
		setString: func(c *config.Config, v string) { c.Book.BuildDir = v }},
	"HOSTED_HTML": {typ: envTypeString, desc: "URL of the hosted HTML book for unresolvable links",
		setString: func(c *config.Config, v string) { c.Book.HostedHTML = v }},
	"PANDOC_VERSION": {typ: envTypeString, desc: "Pandoc version the documents target",
		setString: func(c *config.Config, v string) { c.Pandoc.Version = v }},
	"SHOW_HIDDEN_LINES": {typ: envTypeBool, desc: "Keep hidden code lines: true or false",
		setBool: func(c *config.Config, v bool) { c.Code.ShowHiddenLines = v }},
	"DETECT_LANGUAGE": {typ: envTypeBool, desc: "Guess the language of unlabeled code blocks: true or false",
		setBool: func(c *config.Config, v bool) { c.Code.DetectLanguage = v }},
	"MATH": {typ: envTypeBool, desc: "Parse $ math: true or false",
		setBool: func(c *config.Config, v bool) { c.Markdown.Math = v }},
	"SUPERSCRIPT": {typ: envTypeBool, desc: "Parse ^superscript^: true or false",
		setBool: func(c *config.Config, v bool) { c.Markdown.Superscript = v }},
	"SUBSCRIPT": {typ: envTypeBool, desc: "Parse ~subscript~: true or false",
		setBool: func(c *config.Config, v bool) { c.Markdown.Subscript = v }},
	"DEFINITION_LISTS": {typ: envTypeBool, desc: "Parse definition lists: true or false",
		setBool: func(c *config.Config, v bool) { c.Markdown.DefinitionLists = v }},
	"MATHJAX_SUPPORT": {typ: envTypeBool, desc: `Recognize \( \) and \[ \] math: true or false`,
		setBool: func(c *config.Config, v bool) { c.Markdown.MathJaxSupport = v }},
	"NUMBER_INTERNAL_HEADINGS": {typ: envTypeBool, desc: "Number headings within chapters: true or false",
		setBool: func(c *config.Config, v bool) { c.Headings.NumberInternal = v }},
	"LIST_INTERNAL_HEADINGS": {typ: envTypeBool, desc: "List headings within chapters: true or false",
		setBool: func(c *config.Config, v bool) { c.Headings.ListInternal = v }},
	"DISABLED": {typ: envTypeBool, desc: "Skip the build: true or false",
		setBool: func(c *config.Config, v bool) { c.Disabled = v }},
	"STRICT": {typ: envTypeBool, desc: "Fail when links stay unresolved: true or false",
		setBool: func(c *config.Config, v bool) { c.Strict = v }},
	"ADDITIONAL_CSS": {typ: envTypeSlice, desc: "Comma-separated list of stylesheets",
		setSlice: func(c *config.Config, v []string) { c.AdditionalCSS = v }},
	"PROFILE": {typ: envTypeSlice, desc: "Comma-separated list of profiles to build",
		setSlice: func(c *config.Config, v []string) { c.Only = v }},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDBOOK_PANDOC_ (e.g., MDBOOK_PANDOC_MATH).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		mapping.setString(cfg, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		mapping.setBool(cfg, b)
	case envTypeSlice:
		mapping.setSlice(cfg, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvVar describes a supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.desc})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
