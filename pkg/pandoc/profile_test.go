package pandoc_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
)

func TestProfile_OutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile pandoc.Profile
		want    pandoc.OutputFormat
	}{
		{name: "latex", profile: pandoc.Profile{To: "latex"}, want: pandoc.FormatLatex},
		{name: "pdf default engine", profile: pandoc.Profile{To: "pdf"}, want: pandoc.FormatLatex},
		{name: "pdf typst", profile: pandoc.Profile{To: "pdf", PdfEngine: "typst"}, want: pandoc.FormatOther},
		{name: "tex file", profile: pandoc.Profile{OutputFile: "book.tex"}, want: pandoc.FormatLatex},
		{name: "pdf file weasyprint", profile: pandoc.Profile{OutputFile: "book.pdf", PdfEngine: "weasyprint"}, want: pandoc.FormatOther},
		{name: "html", profile: pandoc.Profile{To: "html5"}, want: pandoc.FormatHTMLLike},
		{name: "epub file", profile: pandoc.Profile{OutputFile: "book.epub"}, want: pandoc.FormatHTMLLike},
		{name: "markdown file", profile: pandoc.Profile{OutputFile: "out.md"}, want: pandoc.FormatHTMLLike},
		{name: "docx", profile: pandoc.Profile{OutputFile: "book.docx"}, want: pandoc.FormatOther},
		{name: "to wins over extension", profile: pandoc.Profile{To: "docx", OutputFile: "book.tex"}, want: pandoc.FormatOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.profile.OutputFormat(nil))
		})
	}
}

func TestProfile_UnknownPdfEngineWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)

	got := pandoc.Profile{To: "pdf", PdfEngine: "mystery"}.OutputFormat(logger)

	assert.Equal(t, pandoc.FormatLatex, got)
	assert.Contains(t, buf.String(), "Assuming pdf-engine uses LaTeX")
	assert.Contains(t, buf.String(), "mystery")
}
