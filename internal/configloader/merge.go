package configloader

import (
	"maps"

	"github.com/yaklabco/mdbook-pandoc/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
//
// Booleans can only be switched on by a later layer since false is their
// zero value; every boolean option defaults to false.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	mergeString(&result.Book.Title, override.Book.Title)
	mergeString(&result.Book.Src, override.Book.Src)
	mergeString(&result.Book.BuildDir, override.Book.BuildDir)
	mergeString(&result.Book.HostedHTML, override.Book.HostedHTML)
	mergeString(&result.Pandoc.Version, override.Pandoc.Version)
	mergeString(&result.DestDir, override.DestDir)

	mergeBool(&result.Code.ShowHiddenLines, override.Code.ShowHiddenLines)
	mergeBool(&result.Code.DetectLanguage, override.Code.DetectLanguage)
	mergeBool(&result.Markdown.Math, override.Markdown.Math)
	mergeBool(&result.Markdown.Superscript, override.Markdown.Superscript)
	mergeBool(&result.Markdown.Subscript, override.Markdown.Subscript)
	mergeBool(&result.Markdown.DefinitionLists, override.Markdown.DefinitionLists)
	mergeBool(&result.Markdown.MathJaxSupport, override.Markdown.MathJaxSupport)
	mergeBool(&result.Headings.NumberInternal, override.Headings.NumberInternal)
	mergeBool(&result.Headings.ListInternal, override.Headings.ListInternal)
	mergeBool(&result.Disabled, override.Disabled)
	mergeBool(&result.Strict, override.Strict)

	result.Code.HideLines = mergeMaps(base.Code.HideLines, override.Code.HideLines)
	result.Redirect = mergeMaps(base.Redirect, override.Redirect)
	result.Profiles = mergeProfiles(base.Profiles, override.Profiles)

	if override.AdditionalCSS != nil {
		result.AdditionalCSS = override.AdditionalCSS
	}
	if override.Only != nil {
		result.Only = override.Only
	}

	return &result
}

func mergeString(dst *string, override string) {
	if override != "" {
		*dst = override
	}
}

func mergeBool(dst *bool, override bool) {
	if override {
		*dst = true
	}
}

// mergeMaps returns a new map holding base's entries overwritten by
// override's.
func mergeMaps[V any](base, override map[string]V) map[string]V {
	if base == nil && override == nil {
		return nil
	}
	result := make(map[string]V, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// mergeProfiles deep merges profiles of the same name field by field.
func mergeProfiles(base, override map[string]config.Profile) map[string]config.Profile {
	result := mergeMaps(base, nil)
	if result == nil && override != nil {
		result = make(map[string]config.Profile, len(override))
	}
	for name, profile := range override {
		existing, ok := result[name]
		if !ok {
			result[name] = profile
			continue
		}
		mergeString(&existing.To, profile.To)
		mergeString(&existing.OutputFile, profile.OutputFile)
		mergeString(&existing.PdfEngine, profile.PdfEngine)
		if profile.Columns != 0 {
			existing.Columns = profile.Columns
		}
		result[name] = existing
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
