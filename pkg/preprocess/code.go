package preprocess

import (
	"strings"
	"unicode"

	"github.com/yaklabco/mdbook-pandoc/pkg/langdetect"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
)

// Lines longer than this break LaTeX's code highlighting and are set as
// plain text instead.
const codeLineLimit = 1000

const hidelinesAttr = "hidelines="

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`_`, `\_`,
	`^`, `\^`,
	`&`, `\&`,
	`]`, `{]}`,
)

// codeInfo is a parsed info string. Attributes follow the language,
// separated by commas, spaces or tabs.
type codeInfo struct {
	language   string
	attributes []string

	// hidePrefix marks hidden lines of non-Rust code.
	hidePrefix string
}

func parseCodeInfo(info string, hideLines map[string]string) codeInfo {
	parts := strings.FieldsFunc(info, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	var ci codeInfo
	if len(parts) == 0 {
		return ci
	}
	ci.language = parts[0]
	for _, part := range parts[1:] {
		if prefix, ok := strings.CutPrefix(part, hidelinesAttr); ok {
			if ci.hidePrefix == "" {
				ci.hidePrefix = prefix
			}
			continue
		}
		ci.attributes = append(ci.attributes, part)
	}
	if ci.hidePrefix == "" && ci.language != "" {
		ci.hidePrefix = hideLines[ci.language]
	}
	return ci
}

func (ci codeInfo) isRust() bool { return ci.language == "rust" }

// displayedLines returns the lines of code that are shown, with hidden
// line markers handled.
func (ci codeInfo) displayedLines(code string, showHidden bool) []string {
	lines := splitLines(code)
	out := lines[:0]
	for _, line := range lines {
		var shown bool
		if ci.isRust() {
			line, shown = rustLine(line, showHidden)
		} else {
			line, shown = hiddenLine(line, ci.hidePrefix, showHidden)
		}
		if shown {
			out = append(out, line)
		}
	}
	return out
}

// splitLines splits code into lines without terminators. Empty code is one
// empty line.
func splitLines(code string) []string {
	if code == "" {
		return []string{""}
	}
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func hiddenLine(line, prefix string, showHidden bool) (string, bool) {
	if prefix == "" {
		return line, true
	}
	if showHidden {
		return strings.Replace(line, prefix, "", 1), true
	}
	return line, !strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), prefix)
}

// rustLine applies rustdoc's hiding rules: "# " and a lone "#" hide the
// line and "##" escapes a literal '#'.
func rustLine(line string, showHidden bool) (string, bool) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	indent := line[:len(line)-len(trimmed)]
	rest, ok := strings.CutPrefix(trimmed, "#")
	if !ok {
		return line, true
	}
	switch {
	case strings.HasPrefix(rest, "#"):
		return indent + rest, true
	case strings.HasPrefix(rest, " "):
		return indent + rest[1:], showHidden
	case rest == "":
		return indent, showHidden
	default:
		return line, true
	}
}

// codeBlock writes a code block with the given info string.
func (c *converter) codeBlock(info, code string) error {
	opts := c.p.opts.Code
	ci := parseCodeInfo(info, opts.HideLines)
	lines := ci.displayedLines(code, opts.ShowHiddenLines)

	language := ci.language
	if language == "" && opts.DetectLanguage {
		if guess, ok := langdetect.Guess([]byte(code)); ok {
			language = guess
		}
	}

	latex := c.p.caps.Format() == pandoc.FormatLatex
	if latex && language == "" {
		// Long lines only wrap in blocks with a language.
		language = "text"
	}

	var classes []string
	if language != "" {
		classes = append(classes, language)
	}
	classes = append(classes, ci.attributes...)
	attr := native.Attr{Classes: classes}

	if !c.w.InBlocks() {
		return c.w.Code(attr, strings.Join(lines, " "))
	}

	if latex && hasLongLine(lines) {
		c.p.caps.Enable(pandoc.RawAttribute)
		var sb strings.Builder
		for _, line := range lines {
			sb.WriteString(`\texttt{`)
			sb.WriteString(latexEscaper.Replace(line))
			sb.WriteString(`}\\`)
		}
		return c.w.RawBlock(native.FormatLaTeX, sb.String())
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return c.w.CodeBlock(attr, sb.String())
}

func hasLongLine(lines []string) bool {
	for _, line := range lines {
		if len(line) > codeLineLimit {
			return true
		}
	}
	return false
}
