package native

import "strings"

// Quote escapes s for use inside a native string literal. Every backslash and
// every double quote is escaped, so the mapping is injective: distinct inputs
// always produce distinct literals, including runs of backslashes that
// precede a quote or the end of the string.
func Quote(s string) string {
	if !strings.ContainsAny(s, `\"`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := range len(s) {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// QuoteVerbatim escapes only double quotes. It is meant for content whose
// backslashes are already native escape sequences, such as `\9746`.
func QuoteVerbatim(s string) string {
	if !strings.Contains(s, `"`) {
		return s
	}
	return strings.ReplaceAll(s, `"`, `\"`)
}
