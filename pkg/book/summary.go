package book

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrInvalidSummary indicates an outline that cannot be interpreted.
var ErrInvalidSummary = errors.New("invalid SUMMARY.md")

// Summary is a parsed outline.
type Summary struct {
	// Title is the text of a leading level-1 heading, if any.
	Title string

	// Items is the outline in book order. Chapter contents are not loaded.
	Items []Item
}

type summarySection int

const (
	sectionPrefix summarySection = iota
	sectionNumbered
	sectionSuffix
)

// ParseSummary parses the outline of a book.
//
// The outline consists of an optional title heading, prefix chapters written
// as plain links, numbered chapters written as (nested) lists, part titles
// written as headings between the lists, separators written as thematic
// breaks, and suffix chapters written as plain links after the last list.
// A link with an empty destination declares a draft chapter.
func ParseSummary(source []byte) (*Summary, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	p := &summaryParser{source: source}
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if err := p.block(node, node == doc.FirstChild()); err != nil {
			return nil, err
		}
	}
	return &Summary{Title: p.title, Items: p.items}, nil
}

type summaryParser struct {
	source  []byte
	title   string
	items   []Item
	section summarySection
	// next is the number of the next top-level numbered chapter. Numbering
	// continues across parts.
	next int
}

func (p *summaryParser) block(node gast.Node, first bool) error {
	switch n := node.(type) {
	case *gast.Heading:
		name := plainText(n, p.source)
		if first && n.Level == 1 {
			p.title = name
			return nil
		}
		if p.section == sectionSuffix {
			return fmt.Errorf("%w: part title %q after suffix chapters", ErrInvalidSummary, name)
		}
		p.section = sectionNumbered
		p.items = append(p.items, Item{Kind: KindPartTitle, Title: name})

	case *gast.ThematicBreak:
		p.items = append(p.items, Item{Kind: KindSeparator})

	case *gast.Paragraph:
		if p.section == sectionNumbered {
			p.section = sectionSuffix
		}
		for _, link := range links(n) {
			chapter, err := p.chapter(link, nil, nil)
			if err != nil {
				return err
			}
			p.items = append(p.items, Item{Kind: KindChapter, Chapter: chapter})
		}

	case *gast.List:
		if p.section == sectionSuffix {
			return fmt.Errorf("%w: numbered chapters after suffix chapters", ErrInvalidSummary)
		}
		p.section = sectionNumbered
		items, err := p.list(n, nil, nil)
		if err != nil {
			return err
		}
		p.items = append(p.items, items...)

	case *gast.HTMLBlock:
		// Comments and other markup carry no outline entries.

	default:
		return fmt.Errorf("%w: unexpected %s", ErrInvalidSummary, node.Kind())
	}
	return nil
}

// list parses a list of numbered chapters nested below the chapter numbered
// parent with the given names.
func (p *summaryParser) list(list *gast.List, parent SectionNumber, parents []string) ([]Item, error) {
	var items []Item
	nested := 0
	for child := list.FirstChild(); child != nil; child = child.NextSibling() {
		var link *gast.Link
		var sublist *gast.List
		for c := child.FirstChild(); c != nil; c = c.NextSibling() {
			switch block := c.(type) {
			case *gast.List:
				sublist = block
			default:
				if found := links(block); len(found) > 0 && link == nil {
					link = found[0]
				}
			}
		}
		if link == nil {
			return nil, fmt.Errorf("%w: list item without a link: %q",
				ErrInvalidSummary, strings.TrimSpace(plainText(child, p.source)))
		}

		var number SectionNumber
		if parent == nil {
			p.next++
			number = SectionNumber{p.next}
		} else {
			nested++
			number = append(append(SectionNumber{}, parent...), nested)
		}

		chapter, err := p.chapter(link, number, parents)
		if err != nil {
			return nil, err
		}
		if sublist != nil {
			names := append(append([]string{}, parents...), chapter.Name)
			chapter.SubItems, err = p.list(sublist, number, names)
			if err != nil {
				return nil, err
			}
		}
		items = append(items, Item{Kind: KindChapter, Chapter: chapter})
	}
	return items, nil
}

func (p *summaryParser) chapter(link *gast.Link, number SectionNumber, parents []string) (*Chapter, error) {
	name := plainText(link, p.source)
	if name == "" {
		return nil, fmt.Errorf("%w: chapter link without a name", ErrInvalidSummary)
	}
	chapter := &Chapter{
		Name:        name,
		Number:      number,
		ParentNames: parents,
	}
	if dest := string(link.Destination); dest != "" {
		chapter.Path = path.Clean(strings.TrimPrefix(dest, "./"))
	}
	return chapter, nil
}

// links returns the links directly contained in an inline container.
func links(node gast.Node) []*gast.Link {
	var found []*gast.Link
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if link, ok := child.(*gast.Link); ok {
			found = append(found, link)
		}
	}
	return found
}

// plainText concatenates the text below node.
func plainText(node gast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gast.Walk(node, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *gast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gast.String:
			buf.Write(t.Value)
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
