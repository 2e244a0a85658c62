package native

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sentinel errors returned by Writer.
var (
	// ErrBlockInInline is returned when block content is written where only
	// inlines are legal.
	ErrBlockInInline = errors.New("block content in an inline context")

	// ErrUnbalanced is returned when End is called without an open container
	// or a container is started in the wrong position.
	ErrUnbalanced = errors.New("unbalanced native AST structure")
)

type listKind int

const (
	kindBlocks     listKind = iota // [Block]
	kindInlines                    // [Inline]
	kindBlockLists                 // [[Block]]
	kindRows                       // [Row]
	kindCells                      // [Cell]
	kindBodies                     // [TableBody]
	kindDefItems                   // [([Inline], [[Block]])]
	kindDefItem                    // ([Inline], [[Block]])
	kindTable                      // Table positional arguments
	kindFigure                     // Figure positional arguments
)

func (k listKind) String() string {
	switch k {
	case kindBlocks:
		return "blocks"
	case kindInlines:
		return "inlines"
	case kindBlockLists:
		return "block lists"
	case kindRows:
		return "rows"
	case kindCells:
		return "cells"
	case kindBodies:
		return "table bodies"
	case kindDefItems:
		return "definition items"
	case kindDefItem:
		return "definition item"
	case kindTable:
		return "table"
	case kindFigure:
		return "figure"
	default:
		return "unknown"
	}
}

type frame struct {
	kind   listKind
	closer string
	first  bool

	// An implicit Plain is open inside a block list.
	plain      bool
	plainFirst bool
}

// Writer streams a pandoc native document.
//
// The zero value is not usable; create one with NewWriter. All methods
// return the first error encountered; once an error occurs every later call
// returns it again.
type Writer struct {
	out    *bufio.Writer
	frames []frame
	err    error
}

// NewWriter returns a Writer whose top-level container is the document's
// block list.
func NewWriter(w io.Writer) *Writer {
	nw := &Writer{out: bufio.NewWriter(w)}
	nw.write("[")
	nw.push(kindBlocks, "]")
	return nw
}

// Close ends the document and flushes buffered output. Containers left open
// are closed in order.
func (w *Writer) Close() error {
	for len(w.frames) > 0 && w.err == nil {
		w.pop()
	}
	if w.err != nil {
		_ = w.out.Flush()
		return w.err
	}
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("flush native output: %w", err)
	}
	return nil
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Depth returns the number of open containers, including the document.
func (w *Writer) Depth() int {
	return len(w.frames)
}

// InBlocks reports whether the current container takes blocks. This is also
// true while an implicit Plain is open in a block list.
func (w *Writer) InBlocks() bool {
	f := w.top()
	return f != nil && f.kind == kindBlocks
}

// AtBlock reports whether the next element would start a block directly in
// a block list, with no implicit Plain open.
func (w *Writer) AtBlock() bool {
	f := w.top()
	return f != nil && f.kind == kindBlocks && !f.plain
}

// End closes the innermost container.
func (w *Writer) End() error {
	if w.err != nil {
		return w.err
	}
	if len(w.frames) <= 1 {
		return w.fail(fmt.Errorf("%w: End without open container", ErrUnbalanced))
	}
	w.pop()
	return w.err
}

// EndTo closes containers until depth containers remain open.
func (w *Writer) EndTo(depth int) error {
	if depth < 1 {
		depth = 1
	}
	for len(w.frames) > depth && w.err == nil {
		w.pop()
	}
	return w.err
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	if _, err := w.out.WriteString(s); err != nil {
		w.err = fmt.Errorf("write native output: %w", err)
	}
}

func (w *Writer) top() *frame {
	if len(w.frames) == 0 {
		return nil
	}
	return &w.frames[len(w.frames)-1]
}

func (w *Writer) push(kind listKind, closer string) {
	w.frames = append(w.frames, frame{kind: kind, closer: closer, first: true})
}

func (w *Writer) pop() {
	f := w.top()
	if f.plain {
		w.write("]")
	}
	w.write(f.closer)
	w.frames = w.frames[:len(w.frames)-1]
}

func (w *Writer) sep(f *frame) {
	if f.first {
		f.first = false
		return
	}
	w.write(", ")
}

// block positions the writer for a new block element.
func (w *Writer) block() error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	switch {
	case f == nil:
		return w.fail(fmt.Errorf("%w: document already closed", ErrUnbalanced))
	case f.kind == kindInlines:
		return ErrBlockInInline
	case f.kind != kindBlocks:
		return w.fail(fmt.Errorf("%w: block inside %s", ErrUnbalanced, f.kind))
	}
	if f.plain {
		w.write("]")
		f.plain = false
	}
	w.sep(f)
	return w.err
}

// inline positions the writer for a new inline element, opening an implicit
// Plain when the current container takes blocks.
func (w *Writer) inline() error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	switch {
	case f == nil:
		return w.fail(fmt.Errorf("%w: document already closed", ErrUnbalanced))
	case f.kind == kindInlines:
		w.sep(f)
	case f.kind == kindBlocks:
		if !f.plain {
			w.sep(f)
			w.write("Plain [")
			f.plain = true
			f.plainFirst = true
		}
		if f.plainFirst {
			f.plainFirst = false
		} else {
			w.write(", ")
		}
	default:
		return w.fail(fmt.Errorf("%w: inline inside %s", ErrUnbalanced, f.kind))
	}
	return w.err
}

// item positions the writer for a new element of a specialized list.
func (w *Writer) item(kind listKind) error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	if f == nil || f.kind != kind {
		got := "nothing"
		if f != nil {
			got = f.kind.String()
		}
		return w.fail(fmt.Errorf("%w: expected %s, inside %s", ErrUnbalanced, kind, got))
	}
	w.sep(f)
	return w.err
}

func (w *Writer) expect(kind listKind) error {
	if w.err != nil {
		return w.err
	}
	if f := w.top(); f == nil || f.kind != kind {
		return w.fail(fmt.Errorf("%w: expected %s", ErrUnbalanced, kind))
	}
	return nil
}

func (w *Writer) attr(a Attr) {
	var sb strings.Builder
	writeAttr(&sb, a)
	w.write(sb.String())
}

func (w *Writer) literal(s string) {
	w.write(`"`)
	w.write(Quote(s))
	w.write(`"`)
}

// Blocks.

// StartPara opens a paragraph.
func (w *Writer) StartPara() error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("Para [")
	w.push(kindInlines, "]")
	return w.err
}

// StartHeader opens a heading.
func (w *Writer) StartHeader(level int, attr Attr) error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("Header " + strconv.Itoa(level) + " ")
	w.attr(attr)
	w.write(" [")
	w.push(kindInlines, "]")
	return w.err
}

// StartBlockQuote opens a block quote.
func (w *Writer) StartBlockQuote() error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("BlockQuote [")
	w.push(kindBlocks, "]")
	return w.err
}

// StartDiv opens a generic block container.
func (w *Writer) StartDiv(attr Attr) error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("Div ")
	w.attr(attr)
	w.write(" [")
	w.push(kindBlocks, "]")
	return w.err
}

// StartBulletList opens a bullet list. Items are opened with StartItem.
func (w *Writer) StartBulletList() error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("BulletList [")
	w.push(kindBlockLists, "]")
	return w.err
}

// StartOrderedList opens an ordered list starting at start.
func (w *Writer) StartOrderedList(start int) error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("OrderedList (" + strconv.Itoa(start) + ", DefaultStyle, DefaultDelim) [")
	w.push(kindBlockLists, "]")
	return w.err
}

// StartItem opens one list item or one definition.
func (w *Writer) StartItem() error {
	if err := w.item(kindBlockLists); err != nil {
		return err
	}
	w.write("[")
	w.push(kindBlocks, "]")
	return w.err
}

// StartDefinitionList opens a definition list.
func (w *Writer) StartDefinitionList() error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("DefinitionList [")
	w.push(kindDefItems, "]")
	return w.err
}

// StartDefinitionItem opens a (term, definitions) pair.
func (w *Writer) StartDefinitionItem() error {
	if err := w.item(kindDefItems); err != nil {
		return err
	}
	w.write("(")
	w.push(kindDefItem, ")")
	return w.err
}

// StartTerm opens the term of a definition item.
func (w *Writer) StartTerm() error {
	if err := w.expect(kindDefItem); err != nil {
		return err
	}
	w.write("[")
	w.push(kindInlines, "]")
	return w.err
}

// StartDefinitions opens the definitions of a definition item. Each
// definition is opened with StartItem.
func (w *Writer) StartDefinitions() error {
	if err := w.expect(kindDefItem); err != nil {
		return err
	}
	w.write(", [")
	w.push(kindBlockLists, "]")
	return w.err
}

// StartFigure opens a figure. StartCaption and StartFigureBody follow.
func (w *Writer) StartFigure(attr Attr) error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("Figure ")
	w.attr(attr)
	w.push(kindFigure, "")
	return w.err
}

// StartCaption opens the caption blocks of a figure.
func (w *Writer) StartCaption() error {
	if err := w.expect(kindFigure); err != nil {
		return err
	}
	w.write(" (Caption Nothing [")
	w.push(kindBlocks, "])")
	return w.err
}

// StartFigureBody opens the content blocks of a figure.
func (w *Writer) StartFigureBody() error {
	if err := w.expect(kindFigure); err != nil {
		return err
	}
	w.write(" [")
	w.push(kindBlocks, "]")
	return w.err
}

// StartTable opens a table with the given column specifications.
// StartTableHead and StartTableBodies follow; End writes the empty foot.
func (w *Writer) StartTable(attr Attr, cols []ColSpec) error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("Table ")
	w.attr(attr)
	w.write(" (Caption Nothing []) [")
	for i, col := range cols {
		if i > 0 {
			w.write(", ")
		}
		w.write("(" + string(col.Align) + ", " + col.Width.String() + ")")
	}
	w.write("]")
	w.push(kindTable, ` (TableFoot ("", [], []) [])`)
	return w.err
}

// StartTableHead opens the head rows of a table.
func (w *Writer) StartTableHead(attr Attr) error {
	if err := w.expect(kindTable); err != nil {
		return err
	}
	w.write(" (TableHead ")
	w.attr(attr)
	w.write(" [")
	w.push(kindRows, "])")
	return w.err
}

// StartTableBodies opens the list of table bodies.
func (w *Writer) StartTableBodies() error {
	if err := w.expect(kindTable); err != nil {
		return err
	}
	w.write(" [")
	w.push(kindBodies, "]")
	return w.err
}

// StartTableBody opens one table body.
func (w *Writer) StartTableBody(attr Attr) error {
	if err := w.item(kindBodies); err != nil {
		return err
	}
	w.write("(TableBody ")
	w.attr(attr)
	w.write(" (RowHeadColumns 0) [] [")
	w.push(kindRows, "])")
	return w.err
}

// StartRow opens a table row.
func (w *Writer) StartRow(attr Attr) error {
	if err := w.item(kindRows); err != nil {
		return err
	}
	w.write("Row ")
	w.attr(attr)
	w.write(" [")
	w.push(kindCells, "]")
	return w.err
}

// StartCell opens a table cell.
func (w *Writer) StartCell(attr Attr) error {
	if err := w.item(kindCells); err != nil {
		return err
	}
	w.write("Cell ")
	w.attr(attr)
	w.write(" AlignDefault (RowSpan 0) (ColSpan 0) [")
	w.push(kindBlocks, "]")
	return w.err
}

// CodeBlock writes a literal code block.
func (w *Writer) CodeBlock(attr Attr, code string) error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("CodeBlock ")
	w.attr(attr)
	w.write(" ")
	w.literal(code)
	return w.err
}

// RawBlock writes raw content for the given output format.
func (w *Writer) RawBlock(format, raw string) error {
	if err := w.block(); err != nil {
		return err
	}
	w.write(`RawBlock (Format "` + Quote(format) + `") `)
	w.literal(raw)
	return w.err
}

// HorizontalRule writes a thematic break.
func (w *Writer) HorizontalRule() error {
	if err := w.block(); err != nil {
		return err
	}
	w.write("HorizontalRule")
	return w.err
}

// RawHTML writes raw HTML as a RawBlock when the writer is positioned
// directly in a block list, and as a RawInline otherwise.
func (w *Writer) RawHTML(raw string) error {
	if w.AtBlock() {
		return w.RawBlock(FormatHTML, raw)
	}
	return w.RawInline(FormatHTML, raw)
}

// Inlines.

// Str writes a string inline.
func (w *Writer) Str(s string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write("Str ")
	w.literal(s)
	return w.err
}

// StrVerbatim writes a string inline whose backslashes are already native
// escapes.
func (w *Writer) StrVerbatim(s string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write(`Str "` + QuoteVerbatim(s) + `"`)
	return w.err
}

// Space writes an inter-word space.
func (w *Writer) Space() error { return w.leaf("Space") }

// SoftBreak writes a soft line break.
func (w *Writer) SoftBreak() error { return w.leaf("SoftBreak") }

// LineBreak writes a hard line break.
func (w *Writer) LineBreak() error { return w.leaf("LineBreak") }

func (w *Writer) leaf(name string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write(name)
	return w.err
}

// Code writes inline code.
func (w *Writer) Code(attr Attr, code string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write("Code ")
	w.attr(attr)
	w.write(" ")
	w.literal(code)
	return w.err
}

// Math writes TeX math.
func (w *Writer) Math(typ MathType, tex string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write("Math " + string(typ) + " ")
	w.literal(tex)
	return w.err
}

// RawInline writes raw inline content for the given output format.
func (w *Writer) RawInline(format, raw string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write(`RawInline (Format "` + Quote(format) + `") `)
	w.literal(raw)
	return w.err
}

func (w *Writer) startInlines(prefix string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write(prefix + "[")
	w.push(kindInlines, "]")
	return w.err
}

// StartEmph opens emphasized text.
func (w *Writer) StartEmph() error { return w.startInlines("Emph ") }

// StartStrong opens strongly emphasized text.
func (w *Writer) StartStrong() error { return w.startInlines("Strong ") }

// StartStrikeout opens struck-out text.
func (w *Writer) StartStrikeout() error { return w.startInlines("Strikeout ") }

// StartSuperscript opens superscripted text.
func (w *Writer) StartSuperscript() error { return w.startInlines("Superscript ") }

// StartSubscript opens subscripted text.
func (w *Writer) StartSubscript() error { return w.startInlines("Subscript ") }

// StartSpan opens a generic inline container.
func (w *Writer) StartSpan(attr Attr) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write("Span ")
	w.attr(attr)
	w.write(" [")
	w.push(kindInlines, "]")
	return w.err
}

// StartLink opens a hyperlink. The target is written when the link ends.
func (w *Writer) StartLink(attr Attr, url, title string) error {
	return w.startTarget("Link ", attr, url, title)
}

// StartImage opens an image whose inlines are its alternative text.
func (w *Writer) StartImage(attr Attr, url, title string) error {
	return w.startTarget("Image ", attr, url, title)
}

func (w *Writer) startTarget(prefix string, attr Attr, url, title string) error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write(prefix)
	w.attr(attr)
	w.write(" [")
	w.push(kindInlines, `] ("`+Quote(url)+`", "`+Quote(title)+`")`)
	return w.err
}

// StartNote opens a footnote, whose content is a list of blocks.
func (w *Writer) StartNote() error {
	if err := w.inline(); err != nil {
		return err
	}
	w.write("Note [")
	w.push(kindBlocks, "]")
	return w.err
}
