package preprocess

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// Slug returns the GitHub-flavored identifier for heading text: whitespace
// becomes '-', '-' and '_' are kept, letters and digits are lowercased and
// everything else is dropped.
func Slug(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			sb.WriteByte('-')
		case r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			sb.WriteRune(r)
		}
	}
	return cases.Lower(language.Und).String(sb.String())
}

// headingSlug computes the slug over the text and code content of a
// heading's events.
func headingSlug(events []goldmark.Spanned) string {
	var sb strings.Builder
	for _, ev := range events {
		switch ev.Event.Kind {
		case goldmark.EventText, goldmark.EventCode:
			sb.WriteString(ev.Event.Text)
		case goldmark.EventSoftBreak, goldmark.EventHardBreak:
			sb.WriteByte(' ')
		}
	}
	return Slug(sb.String())
}

// identifiers hands out the heading identifiers of one chapter.
type identifiers struct {
	used     map[string]bool
	counters map[string]int
}

func newIdentifiers() *identifiers {
	return &identifiers{
		used:     make(map[string]bool),
		counters: make(map[string]int),
	}
}

// register claims an explicit identifier.
func (ids *identifiers) register(id string) {
	ids.used[id] = true
}

// unique returns base, or base-N when base is already taken. N counts up
// from 1 per base.
func (ids *identifiers) unique(base string) string {
	if base == "" {
		return ""
	}
	id := base
	for ids.used[id] {
		ids.counters[base]++
		id = base + "-" + strconv.Itoa(ids.counters[base])
	}
	ids.used[id] = true
	return id
}
