package goldmark

import (
	"bytes"
	"fmt"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

// EventKind identifies the kind of an Event.
type EventKind int

// Event kinds.
const (
	EventStart EventKind = iota
	EventEnd
	EventText
	EventCode
	EventInlineMath
	EventDisplayMath
	EventHTML
	EventInlineHTML
	EventSoftBreak
	EventHardBreak
	EventRule
	EventFootnoteReference
	EventTaskListMarker
)

var eventKindNames = map[EventKind]string{
	EventStart:             "Start",
	EventEnd:               "End",
	EventText:              "Text",
	EventCode:              "Code",
	EventInlineMath:        "InlineMath",
	EventDisplayMath:       "DisplayMath",
	EventHTML:              "Html",
	EventInlineHTML:        "InlineHtml",
	EventSoftBreak:         "SoftBreak",
	EventHardBreak:         "HardBreak",
	EventRule:              "Rule",
	EventFootnoteReference: "FootnoteReference",
	EventTaskListMarker:    "TaskListMarker",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Tag identifies the container opened by a Start event and closed by the
// matching End event.
type Tag int

// Container tags.
const (
	TagNone Tag = iota
	TagParagraph
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagItem
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagSuperscript
	TagSubscript
	TagLink
	TagImage
	TagFootnoteDefinition
	TagDefinitionList
	TagDefinitionTerm
	TagDefinitionDescription
)

var tagNames = map[Tag]string{
	TagNone:                  "None",
	TagParagraph:             "Paragraph",
	TagHeading:               "Heading",
	TagBlockQuote:            "BlockQuote",
	TagCodeBlock:             "CodeBlock",
	TagList:                  "List",
	TagItem:                  "Item",
	TagTable:                 "Table",
	TagTableHead:             "TableHead",
	TagTableRow:              "TableRow",
	TagTableCell:             "TableCell",
	TagEmphasis:              "Emphasis",
	TagStrong:                "Strong",
	TagStrikethrough:         "Strikethrough",
	TagSuperscript:           "Superscript",
	TagSubscript:             "Subscript",
	TagLink:                  "Link",
	TagImage:                 "Image",
	TagFootnoteDefinition:    "FootnoteDefinition",
	TagDefinitionList:        "DefinitionList",
	TagDefinitionTerm:        "DefinitionTerm",
	TagDefinitionDescription: "DefinitionDescription",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// IsBlock reports whether the tag opens a block-level container.
func (t Tag) IsBlock() bool {
	switch t {
	case TagEmphasis, TagStrong, TagStrikethrough, TagSuperscript, TagSubscript, TagLink, TagImage:
		return false
	default:
		return true
	}
}

// Alignment is a table column alignment.
type Alignment int

// Column alignments.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// LinkKind distinguishes how a link was written.
type LinkKind int

// Link kinds.
const (
	LinkInline LinkKind = iota
	LinkAutolink
	LinkEmail
)

// Attribute is a heading attribute written as key=value.
type Attribute struct {
	Key   string
	Value string
}

// Event is one item of the flattened Markdown stream. Only the fields
// relevant to Kind and Tag are set.
type Event struct {
	Kind EventKind
	Tag  Tag

	// Text holds the content of Text, Code, math and HTML events.
	Text string

	// Heading.
	Level   int
	ID      string
	Classes []string
	Attrs   []Attribute

	// BlockQuote: lowercase alert kind, empty for plain quotes.
	Alert string

	// CodeBlock.
	Info   string
	Fenced bool

	// List.
	Ordered bool
	Start   int
	Tight   bool

	// Table.
	Alignments []Alignment

	// Link and Image.
	Dest     string
	Title    string
	LinkKind LinkKind

	// FootnoteDefinition and FootnoteReference.
	Label string

	// TaskListMarker.
	Checked bool
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart, EventEnd:
		return e.Kind.String() + "(" + e.Tag.String() + ")"
	case EventText, EventCode, EventInlineMath, EventDisplayMath, EventHTML, EventInlineHTML:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	case EventFootnoteReference:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Label)
	case EventTaskListMarker:
		return fmt.Sprintf("%s(%t)", e.Kind, e.Checked)
	default:
		return e.Kind.String()
	}
}

// IsStart reports whether e opens a container with the given tag.
func (e Event) IsStart(tag Tag) bool { return e.Kind == EventStart && e.Tag == tag }

// IsEnd reports whether e closes a container with the given tag.
func (e Event) IsEnd(tag Tag) bool { return e.Kind == EventEnd && e.Tag == tag }

// IsHTML reports whether e carries raw HTML.
func (e Event) IsHTML() bool { return e.Kind == EventHTML || e.Kind == EventInlineHTML }

// End returns the End event that closes a Start event.
func (e Event) End() Event { return Event{Kind: EventEnd, Tag: e.Tag} }

// Range is a byte range [Start, Stop) in the source. Both are -1 when the
// event has no source position.
type Range struct {
	Start int
	Stop  int
}

// NoRange is the Range of events without a source position.
var NoRange = Range{Start: -1, Stop: -1}

// IsValid reports whether r points into the source.
func (r Range) IsValid() bool { return r.Start >= 0 && r.Stop >= r.Start }

// Spanned pairs an event with its source range.
type Spanned struct {
	Event Event
	Range Range
}

// flattener converts a goldmark AST into a pre-order event stream.
type flattener struct {
	source []byte
	events []Spanned
}

func newFlattener(source []byte) *flattener {
	return &flattener{source: source}
}

func (f *flattener) emit(e Event, r Range) {
	f.events = append(f.events, Spanned{Event: e, Range: r})
}

func (f *flattener) container(n gast.Node, e Event) {
	r := nodeRange(n, f.source)
	f.emit(e, r)
	f.children(n)
	f.emit(e.End(), r)
}

func (f *flattener) children(parent gast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		f.node(child)
	}
}

//nolint:gocyclo,cyclop // one case per node kind
func (f *flattener) node(n gast.Node) {
	switch node := n.(type) {
	// Blocks.
	case *gast.Document:
		f.children(node)

	case *gast.Paragraph:
		f.container(node, Event{Kind: EventStart, Tag: TagParagraph})

	case *gast.TextBlock:
		f.children(node)

	case *gast.Heading:
		f.container(node, f.heading(node))

	case *gast.Blockquote:
		e := Event{Kind: EventStart, Tag: TagBlockQuote}
		if v, ok := node.AttributeString(string(alertAttribute)); ok {
			e.Alert = attrString(v)
		}
		f.container(node, e)

	case *gast.FencedCodeBlock:
		e := Event{Kind: EventStart, Tag: TagCodeBlock, Fenced: true}
		if node.Info != nil {
			e.Info = strings.TrimSpace(string(node.Info.Value(f.source)))
		}
		f.codeBlock(node, e)

	case *gast.CodeBlock:
		f.codeBlock(node, Event{Kind: EventStart, Tag: TagCodeBlock})

	case *gast.List:
		e := Event{Kind: EventStart, Tag: TagList, Ordered: node.IsOrdered(), Tight: node.IsTight}
		if e.Ordered {
			e.Start = node.Start
		}
		f.container(node, e)

	case *gast.ListItem:
		f.container(node, Event{Kind: EventStart, Tag: TagItem})

	case *gast.ThematicBreak:
		f.emit(Event{Kind: EventRule}, nodeRange(node, f.source))

	case *gast.HTMLBlock:
		f.htmlBlock(node)

	// Inlines.
	case *gast.Text:
		f.text(node)

	case *gast.String:
		value := node.Value
		if !node.IsRaw() {
			value = unescape(value)
		}
		f.emit(Event{Kind: EventText, Text: string(value)}, NoRange)

	case *gast.Emphasis:
		tag := TagEmphasis
		if node.Level == 2 {
			tag = TagStrong
		}
		f.container(node, Event{Kind: EventStart, Tag: tag})

	case *gast.CodeSpan:
		f.emit(Event{Kind: EventCode, Text: f.codeSpan(node)}, nodeRange(node, f.source))

	case *gast.Link:
		f.container(node, Event{
			Kind:  EventStart,
			Tag:   TagLink,
			Dest:  string(node.Destination),
			Title: string(node.Title),
		})

	case *gast.Image:
		f.container(node, Event{
			Kind:  EventStart,
			Tag:   TagImage,
			Dest:  string(node.Destination),
			Title: string(node.Title),
		})

	case *gast.AutoLink:
		f.autoLink(node)

	case *gast.RawHTML:
		f.rawHTML(node)

	// Extensions.
	case *east.Strikethrough:
		f.container(node, Event{Kind: EventStart, Tag: TagStrikethrough})

	case *Superscript:
		f.container(node, Event{Kind: EventStart, Tag: TagSuperscript})

	case *Subscript:
		f.container(node, Event{Kind: EventStart, Tag: TagSubscript})

	case *east.TaskCheckBox:
		f.emit(Event{Kind: EventTaskListMarker, Checked: node.IsChecked}, NoRange)

	case *east.Table:
		f.table(node)

	case *east.TableHeader:
		f.container(node, Event{Kind: EventStart, Tag: TagTableHead})

	case *east.TableRow:
		f.container(node, Event{Kind: EventStart, Tag: TagTableRow})

	case *east.TableCell:
		f.container(node, Event{Kind: EventStart, Tag: TagTableCell})

	case *east.Footnote:
		f.container(node, Event{Kind: EventStart, Tag: TagFootnoteDefinition, Label: string(node.Ref)})

	case *FootnoteReference:
		f.emit(Event{Kind: EventFootnoteReference, Label: string(node.Label)}, NoRange)

	case *Math:
		kind := EventInlineMath
		if node.Display {
			kind = EventDisplayMath
		}
		f.emit(Event{Kind: kind, Text: string(node.Value)}, NoRange)

	case *east.DefinitionList:
		f.container(node, Event{Kind: EventStart, Tag: TagDefinitionList})

	case *east.DefinitionTerm:
		f.container(node, Event{Kind: EventStart, Tag: TagDefinitionTerm})

	case *east.DefinitionDescription:
		f.container(node, Event{Kind: EventStart, Tag: TagDefinitionDescription})

	default:
		// Unknown node kinds contribute their children.
		f.children(node)
	}
}

func (f *flattener) heading(h *gast.Heading) Event {
	e := Event{Kind: EventStart, Tag: TagHeading, Level: h.Level}
	for _, attr := range h.Attributes() {
		name := string(attr.Name)
		value := attrString(attr.Value)
		switch name {
		case "id":
			e.ID = value
		case "class":
			e.Classes = append(e.Classes, strings.Fields(value)...)
		default:
			e.Attrs = append(e.Attrs, Attribute{Key: name, Value: value})
		}
	}
	return e
}

func (f *flattener) codeBlock(n gast.Node, e Event) {
	r := nodeRange(n, f.source)
	f.emit(e, r)

	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		// Tabs expanded into padding are restored as spaces.
		buf.Write(bytes.Repeat([]byte{' '}, seg.Padding))
		buf.Write(seg.Value(f.source))
	}
	if buf.Len() > 0 {
		f.emit(Event{Kind: EventText, Text: buf.String()}, r)
	}
	f.emit(e.End(), r)
}

func (f *flattener) htmlBlock(n *gast.HTMLBlock) {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(f.source))
	}
	if n.HasClosure() {
		buf.Write(n.ClosureLine.Value(f.source))
	}
	f.emit(Event{Kind: EventHTML, Text: buf.String()}, nodeRange(n, f.source))
}

func (f *flattener) text(t *gast.Text) {
	value := t.Value(f.source)
	if !t.IsRaw() {
		value = unescape(value)
	}
	if len(value) > 0 {
		f.emit(Event{Kind: EventText, Text: string(value)}, Range{Start: t.Segment.Start, Stop: t.Segment.Stop})
	}
	switch {
	case t.HardLineBreak():
		f.emit(Event{Kind: EventHardBreak}, NoRange)
	case t.SoftLineBreak():
		f.emit(Event{Kind: EventSoftBreak}, NoRange)
	}
}

func (f *flattener) codeSpan(n *gast.CodeSpan) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *gast.Text:
			buf.Write(c.Segment.Value(f.source))
		case *gast.String:
			buf.Write(c.Value)
		}
	}
	return strings.ReplaceAll(buf.String(), "\n", " ")
}

func (f *flattener) autoLink(n *gast.AutoLink) {
	kind := LinkAutolink
	if n.AutoLinkType == gast.AutoLinkEmail {
		kind = LinkEmail
	}
	e := Event{Kind: EventStart, Tag: TagLink, Dest: string(n.URL(f.source)), LinkKind: kind}
	f.emit(e, NoRange)
	f.emit(Event{Kind: EventText, Text: string(n.Label(f.source))}, NoRange)
	f.emit(e.End(), NoRange)
}

func (f *flattener) rawHTML(n *gast.RawHTML) {
	var buf bytes.Buffer
	for i := range n.Segments.Len() {
		seg := n.Segments.At(i)
		buf.Write(seg.Value(f.source))
	}
	f.emit(Event{Kind: EventInlineHTML, Text: buf.String()}, nodeRange(n, f.source))
}

func (f *flattener) table(t *east.Table) {
	e := Event{Kind: EventStart, Tag: TagTable, Alignments: make([]Alignment, len(t.Alignments))}
	for i, a := range t.Alignments {
		switch a {
		case east.AlignLeft:
			e.Alignments[i] = AlignLeft
		case east.AlignCenter:
			e.Alignments[i] = AlignCenter
		case east.AlignRight:
			e.Alignments[i] = AlignRight
		case east.AlignNone:
			e.Alignments[i] = AlignNone
		}
	}
	r := tableRange(t, f.source)
	f.emit(e, r)
	f.children(t)
	f.emit(e.End(), r)
}

// unescape resolves entity references and backslash escapes.
func unescape(v []byte) []byte {
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(v)))
}

func attrString(v any) string {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case string:
		return value
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
