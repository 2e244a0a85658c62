package goldmark

import (
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type caretDelimiterProcessor struct{}

func (p *caretDelimiterProcessor) IsDelimiter(b byte) bool { return b == '^' }

func (p *caretDelimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *caretDelimiterProcessor) OnMatch(int) gast.Node { return &Superscript{} }

// superscriptParser parses ^text^.
type superscriptParser struct{}

func (s *superscriptParser) Trigger() []byte { return []byte{'^'} }

func (s *superscriptParser) Parse(_ gast.Node, block text.Reader, pc parser.Context) gast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 1, &caretDelimiterProcessor{})
	if node == nil || node.OriginalLength > 1 || before == '^' {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

// tildeDelimiterProcessor distinguishes ~subscript~ from ~~strikethrough~~
// by the number of delimiter characters consumed.
type tildeDelimiterProcessor struct{}

func (p *tildeDelimiterProcessor) IsDelimiter(b byte) bool { return b == '~' }

func (p *tildeDelimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char && opener.OriginalLength == closer.OriginalLength
}

func (p *tildeDelimiterProcessor) OnMatch(consumes int) gast.Node {
	if consumes == 1 {
		return &Subscript{}
	}
	return east.NewStrikethrough()
}

type tildeParser struct{}

func (s *tildeParser) Trigger() []byte { return []byte{'~'} }

func (s *tildeParser) Parse(_ gast.Node, block text.Reader, pc parser.Context) gast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 1, &tildeDelimiterProcessor{})
	if node == nil || node.OriginalLength > 2 || before == '~' {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

type superscriptExtension struct{}

// SuperscriptExtension parses ^superscript^.
var SuperscriptExtension goldmark.Extender = &superscriptExtension{}

func (e *superscriptExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(&superscriptParser{}, 500)))
}

type subscriptExtension struct{}

// SubscriptExtension parses ~subscript~ alongside ~~strikethrough~~. It
// replaces goldmark's strikethrough extension, which treats both as
// strikethrough.
var SubscriptExtension goldmark.Extender = &subscriptExtension{}

func (e *subscriptExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(&tildeParser{}, 500)))
}
