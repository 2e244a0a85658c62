package native_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "quote", in: `say "hi"`, want: `say \"hi\"`},
		{name: "backslash", in: `a\b`, want: `a\\b`},
		{name: "escaped quote", in: `\"`, want: `\\\"`},
		{name: "trailing backslash", in: `x\`, want: `x\\`},
		{name: "tex", in: `I(x)=I_0e^{-ax}\\another line`, want: `I(x)=I_0e^{-ax}\\\\another line`},
		{name: "unicode", in: "über ☒", want: "über ☒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, native.Quote(tt.in))
		})
	}
}

func TestQuote_Injective(t *testing.T) {
	t.Parallel()

	inputs := []string{``, `\`, `\\`, `"`, `\"`, `"\`, `\\"`, `a\`, `a\\`, `a"`}
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := native.Quote(in)
		if prev, ok := seen[out]; ok {
			t.Fatalf("Quote(%q) and Quote(%q) both produce %q", prev, in, out)
		}
		seen[out] = in
	}
}

func TestQuoteVerbatim(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `\9746`, native.QuoteVerbatim(`\9746`))
	assert.Equal(t, `\"x\"`, native.QuoteVerbatim(`"x"`))
}
