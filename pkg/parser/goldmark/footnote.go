package goldmark

import (
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// footnoteDefinitionParser parses "[^label]: text" blocks. Definitions stay
// where they are declared; resolution happens later by label.
type footnoteDefinitionParser struct{}

func (b *footnoteDefinitionParser) Trigger() []byte {
	return []byte{'['}
}

func (b *footnoteDefinitionParser) Open(_ gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != '[' {
		return nil, parser.NoChildren
	}
	pos++
	if pos > len(line)-1 || line[pos] != '^' {
		return nil, parser.NoChildren
	}
	open := pos + 1
	closure := util.FindClosure(line[pos+1:], '[', ']', false, false) //nolint:staticcheck
	if closure < 0 {
		return nil, parser.NoChildren
	}
	closes := pos + 1 + closure
	next := closes + 1
	if next >= len(line) || line[next] != ':' {
		return nil, parser.NoChildren
	}

	padding := segment.Padding
	label := reader.Value(text.NewSegment(segment.Start+open-padding, segment.Start+closes-padding))
	if util.IsBlank(label) {
		return nil, parser.NoChildren
	}
	def := east.NewFootnote(label)

	pos = next + 1 - padding
	if pos >= len(line) {
		reader.Advance(pos)
		return def, parser.NoChildren
	}
	reader.AdvanceAndSetPadding(pos, padding)
	return def, parser.HasChildren
}

func (b *footnoteDefinitionParser) Continue(_ gast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Continue | parser.HasChildren
	}
	childpos, padding := util.IndentPosition(line, reader.LineOffset(), 4)
	if childpos < 0 {
		return parser.Close
	}
	reader.AdvanceAndSetPadding(childpos, padding)
	return parser.Continue | parser.HasChildren
}

func (b *footnoteDefinitionParser) Close(gast.Node, text.Reader, parser.Context) {}

func (b *footnoteDefinitionParser) CanInterruptParagraph() bool { return true }

func (b *footnoteDefinitionParser) CanAcceptIndentedLine() bool { return false }

// footnoteReferenceParser parses "[^label]" references.
type footnoteReferenceParser struct{}

func (s *footnoteReferenceParser) Trigger() []byte {
	return []byte{'['}
}

func (s *footnoteReferenceParser) Parse(_ gast.Node, block text.Reader, _ parser.Context) gast.Node {
	line, segment := block.PeekLine()
	pos := 1
	if pos >= len(line) || line[pos] != '^' {
		return nil
	}
	pos++
	if pos >= len(line) {
		return nil
	}
	closure := util.FindClosure(line[pos:], '[', ']', false, false) //nolint:staticcheck
	if closure <= 0 {
		return nil
	}
	closes := pos + closure
	label := block.Value(text.NewSegment(segment.Start+pos, segment.Start+closes))
	block.Advance(closes + 1)

	return &FootnoteReference{Label: append([]byte(nil), label...)}
}

type footnoteExtension struct{}

// FootnoteExtension parses footnote definitions and references, keeping both
// in document order.
var FootnoteExtension goldmark.Extender = &footnoteExtension{}

func (e *footnoteExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&footnoteDefinitionParser{}, 999)),
		parser.WithInlineParsers(util.Prioritized(&footnoteReferenceParser{}, 101)),
	)
}
