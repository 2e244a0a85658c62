// Package langdetect guesses the language of code blocks written without an
// info string, so the generated documents can still be highlighted. It uses
// go-enry with a set of cheap patterns tried first.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned by Detect when no language could be guessed.
const Text = "text"

// classifierCandidates limits the classifier to languages books commonly
// show.
//
//nolint:gochecknoglobals // read-only lookup table
var classifierCandidates = []string{
	"Rust", "Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Java", "C", "C++", "SQL", "JSON", "TOML",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect returns the language of content, or Text.
func Detect(content []byte) string {
	if lang, ok := Guess(content); ok {
		return lang
	}
	return Text
}

// Guess returns the language of content as a fence tag, and whether the
// guess is confident. Shebangs win, then the patterns, then the classifier.
func Guess(content []byte) (string, bool) {
	if len(bytes.TrimSpace(content)) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang), true
	}

	s := newSample(content)
	for _, r := range rules {
		if r.match(s) {
			return r.lang, true
		}
	}

	// The classifier always answers; only a safe answer is trusted.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return fenceTag(lang), true
	}

	return "", false
}

// sample holds the views of a code block the rules look at.
type sample struct {
	raw     []byte
	trimmed []byte
	text    string
	lines   [][]byte
}

func newSample(content []byte) *sample {
	s := &sample{
		raw:     content,
		trimmed: bytes.TrimSpace(content),
		text:    string(content),
	}
	for line := range bytes.Lines(content) {
		s.lines = append(s.lines, bytes.TrimSpace(line))
	}
	return s
}

func (s *sample) has(subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s.text, sub) {
			return true
		}
	}
	return false
}

func (s *sample) startsWith(prefixes ...string) bool {
	for _, p := range prefixes {
		if bytes.HasPrefix(s.trimmed, []byte(p)) {
			return true
		}
	}
	return false
}

type rule struct {
	lang  string
	match func(*sample) bool
}

// rules are tried in order of specificity. Rust comes early because the
// books this tool converts are dominated by it.
//
//nolint:gochecknoglobals // read-only lookup table
var rules = []rule{
	{"go", func(s *sample) bool { return s.startsWith("package ") }},
	{"rust", func(s *sample) bool {
		return s.has("fn main()", "println!", "let mut ", "#[derive(") ||
			(s.has("impl ") && s.has(" for "))
	}},
	{"python", isPython},
	{"html", func(s *sample) bool {
		lower := string(bytes.ToLower(s.trimmed))
		for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		return false
	}},
	{"json", func(s *sample) bool {
		t := s.trimmed
		closed := (t[0] == '{' && t[len(t)-1] == '}') || (t[0] == '[' && t[len(t)-1] == ']')
		return closed && bytes.ContainsRune(t, '"')
	}},
	{"dockerfile", func(s *sample) bool {
		return s.startsWith("FROM ") ||
			(s.has("\nFROM ") && s.has("\nRUN ")) ||
			(s.has("WORKDIR ") && s.has("COPY "))
	}},
	{"sql", func(s *sample) bool {
		upper := strings.ToUpper(strings.TrimSpace(s.text))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{"toml", isTOML},
	{"javascript", func(s *sample) bool { return s.has("=>", "const ", "let ", "console.log") }},
	{"yaml", isYAML},
}

func isPython(s *sample) bool {
	if s.has("def ") && s.has("):") {
		return true
	}
	// Go groups its imports in parentheses.
	if s.has("import ") && !s.has("import (") && (s.has("from ") || s.startsWith("import ")) {
		return true
	}
	return s.has("__name__", "__main__")
}

// isTOML looks for a section header and a key = value pair, the shape of
// Cargo manifests and book configuration.
func isTOML(s *sample) bool {
	sections, pairs := 0, 0
	for _, line := range s.lines {
		switch {
		case bytes.HasPrefix(line, []byte("[")) && bytes.HasSuffix(line, []byte("]")):
			sections++
		case bytes.Contains(line, []byte(" = ")):
			pairs++
		}
	}
	return sections > 0 && pairs > 0
}

// isYAML counts "key: value" lines and list items. Lines that look like code
// do not count.
func isYAML(s *sample) bool {
	keys := 0
	for _, line := range s.lines {
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
	}
	return keys >= 2
}

// fenceTag converts go-enry language names to fence tags.
func fenceTag(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
