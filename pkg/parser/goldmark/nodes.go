package goldmark

import (
	"fmt"

	gast "github.com/yuin/goldmark/ast"
)

// KindFootnoteReference is the NodeKind of FootnoteReference.
var KindFootnoteReference = gast.NewNodeKind("FootnoteReference")

// FootnoteReference is a reference to a footnote definition by label. Unlike
// goldmark's footnote links it is kept even when no definition exists, so
// undefined references can be reported.
type FootnoteReference struct {
	gast.BaseInline
	Label []byte
}

// Kind implements ast.Node.
func (n *FootnoteReference) Kind() gast.NodeKind { return KindFootnoteReference }

// Dump implements ast.Node.
func (n *FootnoteReference) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Label": string(n.Label)}, nil)
}

// KindMath is the NodeKind of Math.
var KindMath = gast.NewNodeKind("Math")

// Math is TeX math delimited by $ (inline) or $$ (display).
type Math struct {
	gast.BaseInline
	Display bool
	Value   []byte
}

// Kind implements ast.Node.
func (n *Math) Kind() gast.NodeKind { return KindMath }

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{
		"Display": fmt.Sprint(n.Display),
		"Value":   string(n.Value),
	}, nil)
}

// KindSuperscript is the NodeKind of Superscript.
var KindSuperscript = gast.NewNodeKind("Superscript")

// Superscript is text delimited by ^.
type Superscript struct {
	gast.BaseInline
}

// Kind implements ast.Node.
func (n *Superscript) Kind() gast.NodeKind { return KindSuperscript }

// Dump implements ast.Node.
func (n *Superscript) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// KindSubscript is the NodeKind of Subscript.
var KindSubscript = gast.NewNodeKind("Subscript")

// Subscript is text delimited by a single ~.
type Subscript struct {
	gast.BaseInline
}

// Kind implements ast.Node.
func (n *Subscript) Kind() gast.NodeKind { return KindSubscript }

// Dump implements ast.Node.
func (n *Subscript) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// alertAttribute marks a blockquote that is a GitHub alert. Its value is the
// lowercase alert kind.
var alertAttribute = []byte("data-alert")
