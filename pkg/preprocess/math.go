package preprocess

import (
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// mathJax merges the text run starting at first and splits it on the
// MathJax delimiters \( \) and \[ \]. The delimiters are found in the raw
// source, where the parser has not yet consumed their backslashes.
func (c *converter) mathJax(r *goldmark.Reader, first goldmark.Spanned) {
	run := []goldmark.Spanned{first}
	for {
		next, ok := r.NextIf(func(e goldmark.Event) bool { return e.Kind == goldmark.EventText })
		if !ok {
			break
		}
		run = append(run, next)
	}

	raw, ok := rawText(c.source, run)
	if !ok || !strings.Contains(raw, `\(`) && !strings.Contains(raw, `\[`) {
		for _, ev := range run {
			c.push(ev)
		}
		return
	}

	for _, ev := range splitMath(raw) {
		c.push(goldmark.Spanned{Event: ev, Range: goldmark.NoRange})
	}
}

// rawText returns the source text of a run of contiguous text events.
func rawText(source []byte, run []goldmark.Spanned) (string, bool) {
	start, stop := run[0].Range.Start, run[0].Range.Stop
	for _, ev := range run {
		if !ev.Range.IsValid() || ev.Range.Start != stop && ev.Range.Start != start {
			return "", false
		}
		stop = ev.Range.Stop
	}
	if start < 0 || stop > len(source) {
		return "", false
	}
	return string(source[start:stop]), true
}

// splitMath splits raw Markdown text into text and math events.
func splitMath(raw string) []goldmark.Event {
	var events []goldmark.Event
	text := func(s string) {
		if s != "" {
			events = append(events, goldmark.Event{Kind: goldmark.EventText, Text: unescapeText(s)})
		}
	}

	last := 0
	for i := 0; i+1 < len(raw); {
		if raw[i] != '\\' {
			i++
			continue
		}
		var closing string
		kind := goldmark.EventInlineMath
		switch raw[i+1] {
		case '(':
			closing = `\)`
		case '[':
			closing = `\]`
			kind = goldmark.EventDisplayMath
		default:
			i += 2
			continue
		}
		end := strings.Index(raw[i+2:], closing)
		if end < 0 {
			i += 2
			continue
		}
		text(raw[last:i])
		events = append(events, goldmark.Event{Kind: kind, Text: raw[i+2 : i+2+end]})
		i += 2 + end + len(closing)
		last = i
	}
	text(raw[last:])
	return events
}

func unescapeText(s string) string {
	b := util.ResolveEntityNames([]byte(s))
	b = util.ResolveNumericReferences(b)
	return string(util.UnescapePunctuations(b))
}
