// Package goldmark turns Markdown into a flat stream of events using the
// goldmark parser.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Options selects the Markdown extensions recognized by a Parser.
type Options struct {
	Strikethrough   bool
	Footnotes       bool
	Tables          bool
	TaskLists       bool
	Alerts          bool
	Math            bool
	Superscript     bool
	Subscript       bool
	DefinitionLists bool
}

// DefaultOptions returns the extensions of GitHub-flavored Markdown plus
// footnotes and alerts.
func DefaultOptions() Options {
	return Options{
		Strikethrough: true,
		Footnotes:     true,
		Tables:        true,
		TaskLists:     true,
		Alerts:        true,
	}
}

// Parser parses Markdown into events.
type Parser struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a new goldmark-based parser with the given extensions.
func New(opts Options) *Parser {
	return &Parser{
		opts: opts,
		md:   newGoldmarkInstance(opts),
	}
}

// Options returns the configured extensions.
func (p *Parser) Options() Options {
	return p.opts
}

// Document is a parsed Markdown source.
type Document struct {
	Source []byte
	Events []Spanned
}

// Reader returns a new Reader over the document's events.
func (d *Document) Reader() *Reader {
	return NewReader(d.Events)
}

// Parse converts Markdown bytes into a Document.
//
// Returns an error only if the context is cancelled.
func (p *Parser) Parse(ctx context.Context, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	source := copyContent(content)
	reader := text.NewReader(source)
	gmDoc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	f := newFlattener(source)
	f.node(gmDoc)

	return &Document{Source: source, Events: f.events}, nil
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(opts Options) goldmark.Markdown {
	var exts []goldmark.Extender

	if opts.Tables {
		exts = append(exts, extension.Table)
	}
	if opts.TaskLists {
		exts = append(exts, extension.TaskList)
	}
	switch {
	case opts.Subscript:
		exts = append(exts, SubscriptExtension)
	case opts.Strikethrough:
		exts = append(exts, extension.Strikethrough)
	}
	if opts.Superscript {
		exts = append(exts, SuperscriptExtension)
	}
	if opts.Footnotes {
		exts = append(exts, FootnoteExtension)
	}
	if opts.Math {
		exts = append(exts, MathExtension)
	}
	if opts.DefinitionLists {
		exts = append(exts, extension.DefinitionList)
	}
	if opts.Alerts {
		exts = append(exts, AlertExtension)
	}

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
