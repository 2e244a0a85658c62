package pandoc

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// OutputFormat classifies a profile's target by how it treats raw content.
type OutputFormat int

// Output formats.
const (
	// FormatOther targets formats that drop raw HTML.
	FormatOther OutputFormat = iota
	// FormatLatex targets LaTeX, directly or through a LaTeX pdf engine.
	FormatLatex
	// FormatHTMLLike targets formats that pass raw HTML through.
	FormatHTMLLike
)

func (f OutputFormat) String() string {
	switch f {
	case FormatLatex:
		return "latex"
	case FormatHTMLLike:
		return "html-like"
	default:
		return "other"
	}
}

// Profile is the part of a pandoc rendering profile that determines the
// output format.
type Profile struct {
	To         string
	OutputFile string
	PdfEngine  string
}

var (
	latexEngines    = []string{"pdflatex", "lualatex", "xelatex", "latexmk", "tectonic"}
	nonLatexEngines = []string{"wkhtmltopdf", "weasyprint", "pagedjs-cli", "prince", "context", "pdfroff", "typst"}

	rawHTMLFormats = []string{
		"html", "html4", "html5", "s5", "slidy", "slideous", "dzslides",
		"epub", "epub2", "epub3", "org", "textile",
	}
	rawHTMLExtensions = []string{"html", "htm", "xhtml", "epub", "md", "markdown", "org", "textile"}
)

// OutputFormat determines the profile's output format. logger receives a
// warning when an unknown pdf engine is assumed to use LaTeX; it may be nil.
func (p Profile) OutputFormat(logger *log.Logger) OutputFormat {
	switch {
	case p.usesLatex(logger):
		return FormatLatex
	case p.includesRawHTML():
		return FormatHTMLLike
	default:
		return FormatOther
	}
}

func (p Profile) extension() string {
	return strings.TrimPrefix(filepath.Ext(p.OutputFile), ".")
}

func (p Profile) includesRawHTML() bool {
	return contains(rawHTMLFormats, p.To) || contains(rawHTMLExtensions, p.extension())
}

func (p Profile) usesLatex(logger *log.Logger) bool {
	switch p.To {
	case "latex":
		return true
	case "pdf":
		return p.pdfEngineIsLatex(logger)
	case "":
		switch p.extension() {
		case "tex":
			return true
		case "pdf":
			return p.pdfEngineIsLatex(logger)
		}
		return false
	default:
		return false
	}
}

func (p Profile) pdfEngineIsLatex(logger *log.Logger) bool {
	if p.PdfEngine == "" {
		return true
	}
	switch {
	case contains(latexEngines, p.PdfEngine):
		return true
	case contains(nonLatexEngines, p.PdfEngine):
		return false
	}
	if logger != nil {
		logger.Warn("Assuming pdf-engine uses LaTeX; if it doesn't, specify the output format explicitly",
			"pdf_engine", p.PdfEngine)
	}
	return true
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
