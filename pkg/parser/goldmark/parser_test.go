package goldmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEvents(t *testing.T, opts Options, content string) []Spanned {
	t.Helper()

	doc, err := New(opts).Parse(context.Background(), []byte(content))
	require.NoError(t, err)
	return doc.Events
}

func eventStrings(events []Spanned) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Event.String()
	}
	return out
}

// assertInOrder checks that want appears in got as a subsequence.
func assertInOrder(t *testing.T, got []string, want ...string) {
	t.Helper()

	i := 0
	for _, g := range got {
		if i < len(want) && g == want[i] {
			i++
		}
	}
	if i < len(want) {
		t.Errorf("missing %q (and following) in events:\n%v", want[i], got)
	}
}

func allOptions() Options {
	return Options{
		Strikethrough:   true,
		Footnotes:       true,
		Tables:          true,
		TaskLists:       true,
		Alerts:          true,
		Math:            true,
		Superscript:     true,
		Subscript:       true,
		DefinitionLists: true,
	}
}

func TestParser_Parse_Basic(t *testing.T) {
	t.Parallel()

	events := parseEvents(t, DefaultOptions(), "# Hello\n\nWorld")

	assert.Equal(t, []string{
		"Start(Heading)", `Text("Hello")`, "End(Heading)",
		"Start(Paragraph)", `Text("World")`, "End(Paragraph)",
	}, eventStrings(events))
	assert.Equal(t, 1, events[0].Event.Level)
}

func TestParser_Parse_ContentIsCopied(t *testing.T) {
	t.Parallel()

	content := []byte("hello")
	doc, err := New(DefaultOptions()).Parse(context.Background(), content)
	require.NoError(t, err)

	content[0] = 'j'
	assert.Equal(t, "hello", string(doc.Source))
}

func TestParser_Parse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultOptions()).Parse(ctx, []byte("# x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParser_Parse_Breaks(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, DefaultOptions(), "a\nb  \nc"))
	assert.Equal(t, []string{
		"Start(Paragraph)", `Text("a")`, "SoftBreak", `Text("b")`, "HardBreak", `Text("c")`, "End(Paragraph)",
	}, got)
}

func TestParser_Parse_TightList(t *testing.T) {
	t.Parallel()

	events := parseEvents(t, DefaultOptions(), "- a\n- b\n")

	assert.Equal(t, []string{
		"Start(List)",
		"Start(Item)", `Text("a")`, "End(Item)",
		"Start(Item)", `Text("b")`, "End(Item)",
		"End(List)",
	}, eventStrings(events))
	assert.False(t, events[0].Event.Ordered)
}

func TestParser_Parse_OrderedList(t *testing.T) {
	t.Parallel()

	events := parseEvents(t, DefaultOptions(), "3. a\n4. b\n")
	require.NotEmpty(t, events)
	assert.True(t, events[0].Event.Ordered)
	assert.Equal(t, 3, events[0].Event.Start)
}

func TestParser_Parse_TaskList(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, DefaultOptions(), "- [x] done\n- [ ] todo\n"))
	assertInOrder(t, got,
		"TaskListMarker(true)", `Text("done")`,
		"TaskListMarker(false)", `Text("todo")`)
}

func TestParser_Parse_HeadingAttributes(t *testing.T) {
	t.Parallel()

	events := parseEvents(t, DefaultOptions(), "# Title {#custom .a .b}\n")
	require.NotEmpty(t, events)

	start := events[0].Event
	assert.True(t, start.IsStart(TagHeading))
	assert.Equal(t, "custom", start.ID)
	assert.Equal(t, []string{"a", "b"}, start.Classes)
}

func TestParser_Parse_Escapes(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, DefaultOptions(), `a \*b\* &amp; &#35;`))
	var text string
	for _, g := range got {
		if len(g) > 5 && g[:5] == "Text(" {
			text += g[6 : len(g)-2]
		}
	}
	assert.Equal(t, "a *b* & #", text)
}

func TestParser_Parse_CodeBlock(t *testing.T) {
	t.Parallel()

	events := parseEvents(t, DefaultOptions(), "```rust,ignore\nfn main() {}\n```\n\n    indented\n")

	assert.Equal(t, []string{
		"Start(CodeBlock)", `Text("fn main() {}\n")`, "End(CodeBlock)",
		"Start(CodeBlock)", `Text("indented\n")`, "End(CodeBlock)",
	}, eventStrings(events))
	assert.Equal(t, "rust,ignore", events[0].Event.Info)
	assert.True(t, events[0].Event.Fenced)
	assert.False(t, events[3].Event.Fenced)
}

func TestParser_Parse_InlineCode(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, DefaultOptions(), "use `x := 1` here"))
	assertInOrder(t, got, `Code("x := 1")`)
}

func TestParser_Parse_HTML(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, DefaultOptions(), "<div class=\"x\">\n\nhi <span>there</span>\n\n</div>\n"))
	assert.Equal(t, []string{
		`Html("<div class=\"x\">\n")`,
		"Start(Paragraph)", `Text("hi ")`, `InlineHtml("<span>")`, `Text("there")`, `InlineHtml("</span>")`, "End(Paragraph)",
		`Html("</div>\n")`,
	}, got)
}

func TestParser_Parse_Links(t *testing.T) {
	t.Parallel()

	events := parseEvents(t, DefaultOptions(), "[a](b.md \"t\") <https://x.org> <me@x.org> ![alt](i.png)")

	var links []Event
	for _, ev := range events {
		if ev.Event.IsStart(TagLink) || ev.Event.IsStart(TagImage) {
			links = append(links, ev.Event)
		}
	}
	require.Len(t, links, 4)
	assert.Equal(t, "b.md", links[0].Dest)
	assert.Equal(t, "t", links[0].Title)
	assert.Equal(t, LinkAutolink, links[1].LinkKind)
	assert.Equal(t, "https://x.org", links[1].Dest)
	assert.Equal(t, LinkEmail, links[2].LinkKind)
	assert.Equal(t, TagImage, links[3].Tag)
	assert.Equal(t, "i.png", links[3].Dest)
}

func TestParser_Parse_Footnotes(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, DefaultOptions(), "Hi[^1] and[^missing].\n\n[^1]: Note\n"))
	assert.Equal(t, []string{
		"Start(Paragraph)", `Text("Hi")`, `FootnoteReference("1")`, `Text(" and")`,
		`FootnoteReference("missing")`, `Text(".")`, "End(Paragraph)",
		"Start(FootnoteDefinition)", "Start(Paragraph)", `Text("Note")`, "End(Paragraph)", "End(FootnoteDefinition)",
	}, got)
}

func TestParser_Parse_Table(t *testing.T) {
	t.Parallel()

	content := "| a | b |\n|---|:-:|\n| 1 | 2 |\n\nafter\n"
	events := parseEvents(t, DefaultOptions(), content)

	got := eventStrings(events)
	assertInOrder(t, got,
		"Start(Table)", "Start(TableHead)", "Start(TableCell)", `Text("a")`, "End(TableCell)",
		"End(TableHead)", "Start(TableRow)", "Start(TableCell)", `Text("1")`, "End(TableRow)", "End(Table)")

	start := events[0].Event
	assert.Equal(t, []Alignment{AlignNone, AlignCenter}, start.Alignments)
	assert.Equal(t, []string{"| a | b |", "|---|:-:|", "| 1 | 2 |"}, events[0].Range.Lines([]byte(content)))
}

func TestParser_Parse_HeadOnlyTable(t *testing.T) {
	t.Parallel()

	content := "| a | b |\n|---|---|\n"
	events := parseEvents(t, DefaultOptions(), content)
	require.NotEmpty(t, events)
	assert.Equal(t, []string{"| a | b |", "|---|---|"}, events[0].Range.Lines([]byte(content)))
}

func TestParser_Parse_Alerts(t *testing.T) {
	t.Parallel()

	events := parseEvents(t, DefaultOptions(), "> [!WARNING]\n> Be careful\n\n> plain\n")

	assert.Equal(t, []string{
		"Start(BlockQuote)", "Start(Paragraph)", `Text("Be careful")`, "End(Paragraph)", "End(BlockQuote)",
		"Start(BlockQuote)", "Start(Paragraph)", `Text("plain")`, "End(Paragraph)", "End(BlockQuote)",
	}, eventStrings(events))
	assert.Equal(t, "warning", events[0].Event.Alert)
	assert.Empty(t, events[5].Event.Alert)
}

func TestParser_Parse_Math(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, allOptions(), "$a+b$ and $$x\ny$$ but $ 5 and $6"))
	assertInOrder(t, got, `InlineMath("a+b")`, `DisplayMath("x\ny")`)
	for _, g := range got {
		assert.NotContains(t, g, "InlineMath(\" 5")
	}

	plain := eventStrings(parseEvents(t, DefaultOptions(), "$a$"))
	assert.Equal(t, []string{"Start(Paragraph)", `Text("$a$")`, "End(Paragraph)"}, plain)
}

func TestParser_Parse_SuperSubscript(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, allOptions(), "H~2~O x^2^ ~~gone~~"))
	assertInOrder(t, got,
		"Start(Subscript)", `Text("2")`, "End(Subscript)",
		"Start(Superscript)", `Text("2")`, "End(Superscript)",
		"Start(Strikethrough)", `Text("gone")`, "End(Strikethrough)")
}

func TestParser_Parse_StrikethroughWithoutSubscript(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, DefaultOptions(), "~~gone~~"))
	assert.Equal(t, []string{
		"Start(Paragraph)", "Start(Strikethrough)", `Text("gone")`, "End(Strikethrough)", "End(Paragraph)",
	}, got)
}

func TestParser_Parse_DefinitionList(t *testing.T) {
	t.Parallel()

	got := eventStrings(parseEvents(t, allOptions(), "Term\n: Definition\n"))
	assertInOrder(t, got,
		"Start(DefinitionList)", "Start(DefinitionTerm)", `Text("Term")`, "End(DefinitionTerm)",
		"Start(DefinitionDescription)", `Text("Definition")`, "End(DefinitionDescription)", "End(DefinitionList)")
}

func TestParser_Parse_Balanced(t *testing.T) {
	t.Parallel()

	content := "# H\n\n> - a\n>   1. b *c **d***\n\n| x |\n|---|\n| y |\n\n[^n]: > quoted\n"
	assertBalanced(t, parseEvents(t, allOptions(), content))
}

func assertBalanced(t *testing.T, events []Spanned) {
	t.Helper()

	var stack []Tag
	for _, ev := range events {
		switch ev.Event.Kind {
		case EventStart:
			stack = append(stack, ev.Event.Tag)
		case EventEnd:
			require.NotEmpty(t, stack, "End(%s) without Start", ev.Event.Tag)
			require.Equal(t, stack[len(stack)-1], ev.Event.Tag)
			stack = stack[:len(stack)-1]
		}
	}
	assert.Empty(t, stack)
}
