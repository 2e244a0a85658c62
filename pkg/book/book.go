// Package book loads a book: the outline declared by SUMMARY.md and the
// chapter sources it references.
package book

import (
	"strconv"
	"strings"
)

// ItemKind identifies the kind of an Item.
type ItemKind int

// Item kinds.
const (
	KindChapter ItemKind = iota
	KindSeparator
	KindPartTitle
)

func (k ItemKind) String() string {
	switch k {
	case KindChapter:
		return "chapter"
	case KindSeparator:
		return "separator"
	case KindPartTitle:
		return "part title"
	default:
		return "ItemKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SectionNumber is the position of a numbered chapter, e.g. 1.2.
type SectionNumber []int

// String formats the number the way the outline shows it ("1.2.").
func (n SectionNumber) String() string {
	var sb strings.Builder
	for _, part := range n {
		sb.WriteString(strconv.Itoa(part))
		sb.WriteByte('.')
	}
	return sb.String()
}

// Chapter is one addressable unit of the book.
type Chapter struct {
	// Name is the chapter title as written in the outline.
	Name string

	// Content is the Markdown source, decoded to UTF-8.
	Content string

	// Number is nil for prefix and suffix chapters.
	Number SectionNumber

	// SubItems are the chapters nested below this one.
	SubItems []Item

	// Path is the slash-separated source path relative to the source
	// directory. It is empty for draft chapters.
	Path string

	// ParentNames lists the names of the enclosing chapters, outermost first.
	ParentNames []string
}

// IsDraft reports whether the chapter has no source file yet.
func (c *Chapter) IsDraft() bool { return c.Path == "" }

// Item is an entry of the book outline.
type Item struct {
	Kind ItemKind

	// Chapter is set for KindChapter.
	Chapter *Chapter

	// Title is set for KindPartTitle.
	Title string
}

// Book is a loaded book.
type Book struct {
	// Root is the absolute book directory.
	Root string

	// SourceDir is the absolute directory holding SUMMARY.md and the chapters.
	SourceDir string

	// Title is the configured title, else the outline's title heading.
	Title string

	// Items is the outline in book order.
	Items []Item
}

// Walk calls fn for every item in book order, visiting a chapter before its
// sub-items. It stops at the first error.
func (b *Book) Walk(fn func(Item) error) error {
	return walk(b.Items, fn)
}

func walk(items []Item, fn func(Item) error) error {
	for _, item := range items {
		if err := fn(item); err != nil {
			return err
		}
		if item.Kind == KindChapter {
			if err := walk(item.Chapter.SubItems, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Chapters returns every chapter in book order, drafts included.
func (b *Book) Chapters() []*Chapter {
	var chapters []*Chapter
	_ = b.Walk(func(item Item) error {
		if item.Kind == KindChapter {
			chapters = append(chapters, item.Chapter)
		}
		return nil
	})
	return chapters
}
