package preprocess

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/pkg/book"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// bookmark locates the start of a footnote definition in the merged tree.
type bookmark struct {
	bucket int
	offset int
}

// openElement is an HTML element opened by raw markup and not yet closed.
type openElement struct {
	name string

	// depth is the number of open Markdown containers when the element was
	// opened.
	depth int
}

// converter turns one chapter into a native document.
type converter struct {
	ctx     context.Context
	p       *Preprocessor
	chapter *book.Chapter
	out     io.Writer

	ids       *identifiers
	seenH1    bool
	listDepth int

	// Merge state.
	source    []byte
	stream    strings.Builder
	buckets   [][]goldmark.Spanned
	cur       int
	depth     int
	open      []openElement
	bookmarks map[string]bookmark

	// Emission state.
	tree       *tree
	w          *native.Writer
	inProgress []string
}

func newConverter(ctx context.Context, p *Preprocessor, chapter *book.Chapter, out io.Writer) *converter {
	return &converter{
		ctx:       ctx,
		p:         p,
		chapter:   chapter,
		out:       out,
		ids:       newIdentifiers(),
		cur:       -1,
		bookmarks: make(map[string]bookmark),
	}
}

// convert parses the chapter, merges its Markdown and HTML and writes the
// native document.
func (c *converter) convert() error {
	doc, err := c.p.parser.Parse(c.ctx, []byte(c.chapter.Content))
	if err != nil {
		return err
	}
	c.source = doc.Source
	c.merge(doc)

	if err := c.parse(); err != nil {
		return err
	}
	if err := c.ctx.Err(); err != nil {
		return err
	}

	c.w = native.NewWriter(c.out)
	emitErr := c.emitDocument()
	closeErr := c.w.Close()
	if emitErr != nil {
		return emitErr
	}
	return closeErr
}

// merge rewrites the chapter's events and lays them out in the HTML stream:
// raw HTML is written as is and every run of Markdown events becomes a
// placeholder element holding a bucket of events.
func (c *converter) merge(doc *goldmark.Document) {
	r := doc.Reader()

	// Rewritten starts, so every End matches its Start.
	var ends []goldmark.Event

	for {
		ev, ok := r.Next()
		if !ok {
			break
		}

		switch ev.Event.Kind {
		case goldmark.EventHTML, goldmark.EventInlineHTML:
			c.raw(ev.Event.Text)

		case goldmark.EventStart:
			ev.Event = c.rewriteStart(r, ev.Event)
			ends = append(ends, ev.Event.End())
			c.push(ev)
			c.depth++
			if ev.Event.Tag == goldmark.TagFootnoteDefinition {
				c.bookmarks[ev.Event.Label] = bookmark{bucket: c.cur, offset: len(c.buckets[c.cur]) - 1}
			}

		case goldmark.EventEnd:
			if n := len(ends); n > 0 {
				ev.Event = ends[n-1]
				ends = ends[:n-1]
			}
			if ev.Event.Tag == goldmark.TagList {
				c.listDepth--
			}
			c.closeOpenElements(c.depth)
			c.depth--
			c.push(ev)

		case goldmark.EventText:
			if c.p.opts.Markdown.MathJax && !c.insideCode(ends) {
				c.mathJax(r, ev)
				continue
			}
			c.push(ev)

		case goldmark.EventTaskListMarker:
			c.p.caps.Enable(pandoc.TaskLists)
			c.push(ev)

		case goldmark.EventFootnoteReference:
			c.p.caps.Enable(pandoc.Footnotes)
			c.push(ev)

		default:
			c.push(ev)
		}
	}
}

func (c *converter) insideCode(ends []goldmark.Event) bool {
	return len(ends) > 0 && ends[len(ends)-1].Tag == goldmark.TagCodeBlock
}

// rewriteStart applies the chapter-level rewrites to a Start event.
func (c *converter) rewriteStart(r *goldmark.Reader, e goldmark.Event) goldmark.Event {
	switch e.Tag {
	case goldmark.TagHeading:
		return c.heading(r, e)
	case goldmark.TagLink:
		e.Dest = c.p.normalizeLink(c.ctx, c.chapter, e.LinkKind, e.Dest, contextLink)
	case goldmark.TagImage:
		e.Dest = c.p.normalizeLink(c.ctx, c.chapter, e.LinkKind, e.Dest, contextImage)
	case goldmark.TagList:
		c.listDepth++
		c.p.maxListDepth = max(c.p.maxListDepth, c.listDepth)
	case goldmark.TagStrikethrough:
		c.p.caps.Enable(pandoc.Strikeout)
	case goldmark.TagFootnoteDefinition:
		c.p.caps.Enable(pandoc.Footnotes)
	case goldmark.TagTable:
		c.p.caps.Enable(pandoc.PipeTables)
	case goldmark.TagDefinitionList:
		c.p.caps.Enable(pandoc.DefinitionLists)
	}
	return e
}

// push appends a Markdown event to the current bucket, opening a new
// placeholder when raw HTML was written since the last event.
func (c *converter) push(ev goldmark.Spanned) {
	if c.cur < 0 {
		c.cur = len(c.buckets)
		c.buckets = append(c.buckets, nil)
		fmt.Fprintf(&c.stream, `<%s %s="%d"></%s>`, placeholderTag, bucketAttr, c.cur, placeholderTag)
	}
	c.buckets[c.cur] = append(c.buckets[c.cur], ev)
}

// raw writes raw HTML to the stream and tracks the elements it leaves open.
func (c *converter) raw(text string) {
	c.stream.WriteString(text)
	c.cur = -1

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if isVoidElement(tag) {
				continue
			}
			if n := len(c.open); n > 0 && c.open[n-1].name == "p" && isDisplayBlock(tag) {
				c.open = c.open[:n-1]
			}
			c.open = append(c.open, openElement{name: tag, depth: c.depth})
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(c.open) - 1; i >= 0; i-- {
				if c.open[i].name == tag {
					c.open = c.open[:i]
					break
				}
			}
		case html.TextToken, html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
		}
	}
}

// closeOpenElements closes the raw elements opened inside the Markdown
// container that ends at depth, so they cannot swallow the content that
// follows it.
func (c *converter) closeOpenElements(depth int) {
	for n := len(c.open); n > 0 && c.open[n-1].depth >= depth; n-- {
		c.stream.WriteString(endTag(c.open[n-1].name))
		c.open = c.open[:n-1]
		c.cur = -1
	}
}

// parse builds the merged tree from the stream.
func (c *converter) parse() error {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragmentWithOptions(strings.NewReader(c.stream.String()), body,
		html.ParseOptionEnableScripting(false))
	if err != nil {
		return fmt.Errorf("parse HTML: %w", err)
	}

	c.tree = newTree(c.buckets)
	for _, n := range nodes {
		if n.Type == html.DoctypeNode {
			c.p.logger.Warn("Unexpected doctype in HTML", logging.FieldChapter, c.chapter.Path)
			continue
		}
		c.tree.adopt(c.tree.root(), n)
	}
	if orphans := c.tree.attachOrphans(); len(orphans) > 0 {
		c.p.logger.Debug("Markdown inside raw text element moved to the end of the chapter",
			logging.FieldChapter, c.chapter.Path, "buckets", len(orphans))
	}
	return nil
}

// heading computes the identifier, classes and level of a heading. Headings
// nested too deep become paragraphs.
func (c *converter) heading(r *goldmark.Reader, e goldmark.Event) goldmark.Event {
	const (
		unnumbered = "unnumbered"
		unlisted   = "unlisted"
	)

	classes := slices.Clone(e.Classes)
	if c.p.caps.Enable(pandoc.Attributes) {
		internal := true
		if e.Level == 1 {
			internal = c.seenH1
			if !c.seenH1 && c.chapter.Number == nil {
				classes = append(classes, unnumbered)
			}
			c.seenH1 = true
		}
		if internal {
			if !c.p.opts.Headings.NumberInternal {
				classes = append(classes, unnumbered)
			}
			if !c.p.opts.Headings.ListInternal {
				classes = append(classes, unlisted)
			}
		}
	}

	level := e.Level + len(c.chapter.ParentNames)
	if level > 6 {
		c.p.warn(fmt.Sprintf("Heading (level %d) converted to paragraph in chapter: %s", e.Level, c.chapter.Name),
			logging.FieldChapter, c.chapter.Path)
		return goldmark.Event{Kind: goldmark.EventStart, Tag: goldmark.TagParagraph}
	}

	id := e.ID
	if id != "" {
		c.ids.register(id)
	} else {
		id = c.ids.unique(headingSlug(r.PeekUntil(func(e goldmark.Event) bool {
			return e.IsEnd(goldmark.TagHeading)
		})))
	}
	e.Level = level
	e.ID = id
	e.Classes = classes
	return e
}

// Void elements have no end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func isVoidElement(name string) bool {
	return voidElements[name]
}

// Elements rendered as blocks by default.
var displayBlockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "hr": true, "legend": true, "ol": true,
	"p": true, "pre": true, "section": true, "summary": true, "ul": true,
}

func isDisplayBlock(name string) bool {
	return displayBlockElements[name]
}
