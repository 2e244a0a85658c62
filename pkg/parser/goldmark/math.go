package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var displayMathDelim = []byte("$$")

// mathParser parses $inline$ and $$display$$ math.
type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathParser) Parse(_ gast.Node, block text.Reader, _ parser.Context) gast.Node {
	line, _ := block.PeekLine()
	if bytes.HasPrefix(line, displayMathDelim) {
		return p.parseDisplay(block)
	}
	return p.parseInline(block, line)
}

// parseInline requires a non-space character right after the opener and
// right before the closer, on a single line.
func (p *mathParser) parseInline(block text.Reader, line []byte) gast.Node {
	if block.PrecendingCharacter() == '$' {
		return nil
	}
	if len(line) < 3 || util.IsSpace(line[1]) || line[1] == '$' {
		return nil
	}
	for i := 2; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '\n':
			return nil
		case '$':
			if util.IsSpace(line[i-1]) {
				continue
			}
			value := append([]byte(nil), line[1:i]...)
			block.Advance(i + 1)
			return &Math{Value: value}
		}
	}
	return nil
}

// parseDisplay finds the closing $$, possibly on a later line of the block.
func (p *mathParser) parseDisplay(block text.Reader) gast.Node {
	startLine, startPos := block.Position()
	line, _ := block.PeekLine()
	rest := line[len(displayMathDelim):]

	var value []byte
	offset := len(displayMathDelim)
	for {
		if i := bytes.Index(rest, displayMathDelim); i >= 0 {
			value = append(value, rest[:i]...)
			block.Advance(offset + i + len(displayMathDelim))
			if len(bytes.TrimSpace(value)) == 0 {
				block.SetPosition(startLine, startPos)
				return nil
			}
			return &Math{Display: true, Value: value}
		}
		value = append(value, rest...)
		block.AdvanceLine()
		next, _ := block.PeekLine()
		if next == nil {
			block.SetPosition(startLine, startPos)
			return nil
		}
		rest = next
		offset = 0
	}
}

type mathExtension struct{}

// MathExtension parses TeX math delimited by dollar signs.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(&mathParser{}, 150)))
}
