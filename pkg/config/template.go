package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every option. A minimal template only carries the
	// book and one profile.
	Full bool

	// Title is written as book.title when set.
	Title string
}

// optionDoc documents one option of the full template.
type optionDoc struct {
	key     string
	example string
	doc     string
}

//nolint:gochecknoglobals // Read-only documentation table.
var sectionDocs = []struct {
	section string
	doc     string
	options []optionDoc
}{
	{
		section: "code",
		doc:     "Code block rendering",
		options: []optionDoc{
			{"show-hidden-lines", " false", "Keep lines hidden with the language's prefix (# for Rust)."},
			{"hidelines", "\n#     python: \"~\"", "Per-language prefix marking hidden lines."},
			{"detect-language", " false", "Guess the language of fenced blocks that have no info string."},
		},
	},
	{
		section: "markdown",
		doc:     "Markdown syntax beyond CommonMark and GitHub extensions",
		options: []optionDoc{
			{"math", " false", "Parse $inline$ and $$display$$ math."},
			{"superscript", " false", "Parse ^superscript^."},
			{"subscript", " false", "Parse ~subscript~."},
			{"definition-lists", " false", "Parse Markdown definition lists."},
			{"mathjax-support", " false", `Recognize \( \) and \[ \] math delimiters inside text.`},
		},
	},
	{
		section: "headings",
		doc:     "Headings below a chapter's title",
		options: []optionDoc{
			{"number-internal", " false", "Number them."},
			{"list-internal", " false", "List them in the table of contents."},
		},
	},
	{
		section: "pandoc",
		doc:     "The pandoc the generated documents are read by",
		options: []optionDoc{
			{"version", ` "` + DefaultPandocVersion + `"`, "Reader extensions newer than this version are not used."},
		},
	},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	buf.WriteString("book:\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  title: %q\n", opts.Title)
	} else {
		buf.WriteString("  # title: My Book\n")
	}
	fmt.Fprintf(&buf, "  src: %s\n", DefaultSrc)
	fmt.Fprintf(&buf, "  build-dir: %s\n", DefaultBuildDir)
	buf.WriteString("  # Links that cannot be resolved inside the book point here.\n")
	buf.WriteString("  # hosted-html: https://example.com/book/\n")

	if opts.Full {
		writeFullSections(&buf)
	}

	buf.WriteString(`
# Each profile renders the book into <build-dir>/<name>.
profiles:
  pdf:
    output-file: book.pdf
    # pdf-engine: lualatex
  # html:
  #   to: html5
  #   output-file: book.html
  #   columns: 100
`)

	return buf.Bytes(), nil
}

func writeFullSections(buf *bytes.Buffer) {
	for _, section := range sectionDocs {
		fmt.Fprintf(buf, "\n# %s\n", section.doc)
		fmt.Fprintf(buf, "# %s:\n", section.section)
		for _, opt := range section.options {
			fmt.Fprintf(buf, "#   # %s\n", wrapComment(opt.doc, commentWrapWidth))
			fmt.Fprintf(buf, "#   %s:%s\n", opt.key, opt.example)
		}
	}

	buf.WriteString(`
# Stylesheets whose class rules size images and hide elements.
# additional-css:
#   - theme/custom.css

# Old source paths and their new locations.
# redirect:
#   /old-chapter.md: new-chapter.md
`)
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#   # ")
}

// DefaultTemplateHeader returns the header of generated configs.
func DefaultTemplateHeader() string {
	return `# mdbook-pandoc configuration
# See: https://github.com/yaklabco/mdbook-pandoc`
}
