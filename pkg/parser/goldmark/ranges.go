package goldmark

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// nodeRange extracts the byte range of a goldmark node.
func nodeRange(n gast.Node, source []byte) Range {
	// Inline nodes don't have Lines() and will panic if called.
	if n.Type() == gast.TypeInline {
		return inlineRange(n)
	}

	lines := n.Lines()
	if lines.Len() == 0 {
		return childrenRange(n, source)
	}

	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return Range{Start: first.Start, Stop: last.Stop}
}

// childrenRange spans the ranges of a container's children. Containers such
// as lists and blockquotes carry no lines of their own.
func childrenRange(n gast.Node, source []byte) Range {
	r := NoRange
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		r = r.union(nodeRange(child, source))
	}
	return r
}

// inlineRange extracts the byte range of an inline node from its segments
// and those of its text children.
func inlineRange(n gast.Node) Range {
	r := NoRange

	switch node := n.(type) {
	case *gast.RawHTML:
		for i := range node.Segments.Len() {
			seg := node.Segments.At(i)
			r = r.union(Range{Start: seg.Start, Stop: seg.Stop})
		}
		return r
	case *gast.Text:
		return Range{Start: node.Segment.Start, Stop: node.Segment.Stop}
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		r = r.union(inlineRange(child))
	}
	return r
}

func (r Range) union(other Range) Range {
	switch {
	case !other.IsValid():
		return r
	case !r.IsValid():
		return other
	}
	return Range{Start: min(r.Start, other.Start), Stop: max(r.Stop, other.Stop)}
}

// tableRange returns the range of whole source lines covered by a table,
// including its delimiter row.
func tableRange(t *east.Table, source []byte) Range {
	r := NoRange
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			lines := cell.Lines()
			for i := range lines.Len() {
				seg := lines.At(i)
				r = r.union(Range{Start: seg.Start, Stop: seg.Stop})
			}
		}
	}
	if !r.IsValid() {
		return r
	}

	r.Start = lineStart(source, r.Start)
	r.Stop = lineEnd(source, r.Stop)

	// A table without body rows ends at its head; extend over the delimiter.
	if _, ok := t.LastChild().(*east.TableHeader); ok && r.Stop < len(source) {
		r.Stop = lineEnd(source, r.Stop+1)
	}
	return r
}

func lineStart(source []byte, pos int) int {
	pos = min(pos, len(source))
	if i := bytes.LastIndexByte(source[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lineEnd returns the offset just past the newline ending the line at pos.
func lineEnd(source []byte, pos int) int {
	if pos > 0 && pos <= len(source) && source[pos-1] == '\n' {
		return pos
	}
	pos = min(pos, len(source))
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

// Lines splits the source bytes of r into lines without their terminators.
func (r Range) Lines(source []byte) []string {
	if !r.IsValid() || r.Stop > len(source) {
		return nil
	}
	text := bytes.TrimSuffix(source[r.Start:r.Stop], []byte("\n"))
	parts := bytes.Split(text, []byte("\n"))
	lines := make([]string, len(parts))
	for i, part := range parts {
		lines[i] = string(bytes.TrimSuffix(part, []byte("\r")))
	}
	return lines
}
