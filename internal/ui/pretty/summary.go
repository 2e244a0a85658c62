package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdbook-pandoc/pkg/preprocess"
)

// ProfileResult is the outcome of building one profile.
type ProfileResult struct {
	// Name is the profile name.
	Name string

	// Format is the output format class the profile was built for.
	Format string

	// Dest is the profile's output directory as shown to the user.
	Dest string

	// Report is nil when the profile failed before any chapter was written.
	Report *preprocess.Report

	// Err is set when the profile failed.
	Err error
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// FormatSummaryOneLine formats a profile result as a single line.
// Example: "pdf: 12 chapters, 2 parts, 3 assets, 1 warning -> book/pdf".
func (s *Styles) FormatSummaryOneLine(result ProfileResult) string {
	name := s.Profile.Render(result.Name)
	if result.Err != nil {
		return name + ": " + s.Failure.Render("failed") + "\n"
	}

	report := result.Report
	if report == nil {
		report = &preprocess.Report{}
	}

	parts := []string{plural(report.Chapters, "chapter")}
	if report.Parts > 0 {
		parts = append(parts, plural(report.Parts, "part"))
	}
	if report.Assets > 0 {
		parts = append(parts, plural(report.Assets, "asset"))
	}
	if report.Warnings > 0 {
		parts = append(parts, s.Warning.Render(plural(report.Warnings, "warning")))
	}
	if report.UnresolvedLinks {
		parts = append(parts, s.Warning.Render("unresolved links"))
	}

	line := name + ": " + strings.Join(parts, ", ")
	if result.Dest != "" {
		line += s.Dim.Render(" -> ") + s.Path.Render(result.Dest)
	}
	return line + "\n"
}

// FormatSummary formats the results of a build as a summary block.
func (s *Styles) FormatSummary(results []ProfileResult, width int) string {
	if width <= 0 {
		width = minDividerWidth
	}

	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(s.Divider.Render(strings.Repeat("-", width)))
	builder.WriteString("\n")

	var failed, warnings int
	var unresolved bool
	for _, result := range results {
		builder.WriteString("  ")
		builder.WriteString(s.Profile.Render(result.Name))
		if result.Format != "" {
			builder.WriteString(s.Format.Render(" (" + result.Format + ")"))
		}
		builder.WriteString("\n")

		if result.Err != nil {
			failed++
			builder.WriteString("    Error:           " + s.Error.Render(result.Err.Error()) + "\n")
			continue
		}
		if result.Report == nil {
			continue
		}
		report := result.Report
		warnings += report.Warnings
		unresolved = unresolved || report.UnresolvedLinks

		builder.WriteString("    Chapters:        " + s.SummaryValue.Render(strconv.Itoa(report.Chapters)) + "\n")
		if report.Parts > 0 {
			builder.WriteString("    Parts:           " + s.SummaryValue.Render(strconv.Itoa(report.Parts)) + "\n")
		}
		if report.Assets > 0 {
			builder.WriteString("    Assets copied:   " + s.SummaryValue.Render(strconv.Itoa(report.Assets)) + "\n")
		}
		if report.Warnings > 0 {
			builder.WriteString("    Warnings:        " + s.Warning.Render(strconv.Itoa(report.Warnings)) + "\n")
		}
		if report.UnresolvedLinks {
			builder.WriteString("    Unresolved links: " + s.Warning.Render("yes") + "\n")
		}
		if result.Dest != "" {
			builder.WriteString("    Output:          " + s.Path.Render(result.Dest) + "\n")
		}
	}

	builder.WriteString("\n")

	switch {
	case failed > 0:
		builder.WriteString(s.Failure.Render(fmt.Sprintf("Build failed (%s)", plural(failed, "profile"))))
	case unresolved:
		builder.WriteString(s.Warning.Render("Build completed with unresolved links"))
	case warnings > 0:
		builder.WriteString(s.Warning.Render("Build completed with " + plural(warnings, "warning")))
	default:
		builder.WriteString(s.Success.Render("Build succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
