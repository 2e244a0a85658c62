package configloader

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/yaklabco/mdbook-pandoc/pkg/config"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "profiles.pdf.columns").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err combines every error into one, or returns nil.
func (r *ValidationResult) Err() error {
	var err error
	for i := range r.Errors {
		err = multierr.Append(err, &r.Errors[i])
	}
	return err
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Book.Src == "" {
		result.fail("book.src", cfg.Book.Src, "source directory must not be empty")
	} else if filepath.IsAbs(cfg.Book.Src) {
		result.fail("book.src", cfg.Book.Src, "source directory must be relative to the book root")
	}

	if cfg.Book.HostedHTML != "" {
		u, err := url.Parse(cfg.Book.HostedHTML)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result.fail("book.hosted-html", cfg.Book.HostedHTML, "must be an http or https URL")
		}
	}

	if _, err := pandoc.ParseVersion(cfg.Pandoc.Version); err != nil {
		result.fail("pandoc.version", cfg.Pandoc.Version, "invalid pandoc version: %v", err)
	}

	validateProfiles(cfg, result)

	for i, css := range cfg.AdditionalCSS {
		if strings.TrimSpace(css) == "" {
			result.fail(fmt.Sprintf("additional-css[%d]", i), css, "stylesheet path must not be empty")
		}
	}

	for src, dst := range cfg.Redirect {
		if !strings.HasPrefix(src, "/") {
			result.warn("redirect."+src, src, "redirect source should be rooted at the source directory (start with /)")
		}
		if dst == "" {
			result.fail("redirect."+src, dst, "redirect destination must not be empty")
		}
	}

	return result
}

// validateProfiles checks the profile table and the profile selection.
func validateProfiles(cfg *config.Config, result *ValidationResult) {
	if len(cfg.Profiles) == 0 {
		result.fail("profiles", nil, "no profiles configured; run 'mdbook-pandoc init' to create one")
	}

	for _, name := range cfg.ProfileNames() {
		profile := cfg.Profiles[name]
		field := "profiles." + name
		if profile.To == "" && profile.OutputFile == "" {
			result.fail(field, name, "profile must set 'to' or 'output-file'")
		}
		if profile.Columns < 0 {
			result.fail(field+".columns", profile.Columns, "columns must be positive")
		}
	}

	for _, name := range cfg.Only {
		if _, ok := cfg.Profiles[name]; !ok {
			result.fail("profile", name, "unknown profile %q", name)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
