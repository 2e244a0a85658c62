// Package native writes pandoc's native AST text format.
//
// The format is the literal constructor-application syntax of pandoc's
// Haskell document model, e.g.
//
//	[Para [Str "hello", Space, Emph [Str "world"]]]
//
// A Writer streams a document directly to an io.Writer. Callers open and
// close containers with the Start*/End methods and emit leaves in between;
// the writer tracks list separators and block versus inline context.
package native

import (
	"strconv"
	"strings"
)

// KV is a single key-value attribute pair.
type KV struct {
	Key   string
	Value string
}

// Attr is an element identifier, its classes and its key-value attributes.
type Attr struct {
	ID      string
	Classes []string
	KVs     []KV
}

// IsEmpty reports whether the attribute set carries no information.
func (a Attr) IsEmpty() bool {
	return a.ID == "" && len(a.Classes) == 0 && len(a.KVs) == 0
}

// Get returns the value of the first attribute named key.
func (a Attr) Get(key string) (string, bool) {
	for _, kv := range a.KVs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// String renders the attribute in native syntax: ("id", ["c"], [("k", "v")]).
func (a Attr) String() string {
	var sb strings.Builder
	writeAttr(&sb, a)
	return sb.String()
}

func writeAttr(sb *strings.Builder, a Attr) {
	sb.WriteString(`("`)
	sb.WriteString(Quote(a.ID))
	sb.WriteString(`", [`)
	for i, class := range a.Classes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('"')
		sb.WriteString(Quote(class))
		sb.WriteByte('"')
	}
	sb.WriteString("], [")
	for i, kv := range a.KVs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(`("`)
		sb.WriteString(Quote(kv.Key))
		sb.WriteString(`", "`)
		sb.WriteString(Quote(kv.Value))
		sb.WriteString(`")`)
	}
	sb.WriteString("])")
}

// Alignment is the horizontal alignment of a table column.
type Alignment string

// Column alignments.
const (
	AlignLeft    Alignment = "AlignLeft"
	AlignRight   Alignment = "AlignRight"
	AlignCenter  Alignment = "AlignCenter"
	AlignDefault Alignment = "AlignDefault"
)

// ColWidth is a column width as a fraction of the text width.
// A Default width lets the renderer size the column.
type ColWidth struct {
	Width   float64
	Default bool
}

// DefaultColWidth returns an unspecified column width.
func DefaultColWidth() ColWidth { return ColWidth{Default: true} }

func (c ColWidth) String() string {
	if c.Default {
		return "ColWidthDefault"
	}
	return "(ColWidth " + strconv.FormatFloat(c.Width, 'f', -1, 64) + ")"
}

// ColSpec pairs a column's alignment with its width.
type ColSpec struct {
	Align Alignment
	Width ColWidth
}

// MathType distinguishes inline from display math.
type MathType string

// Math types.
const (
	InlineMath  MathType = "InlineMath"
	DisplayMath MathType = "DisplayMath"
)

// Raw formats used by this package's callers.
const (
	FormatHTML  = "html"
	FormatLaTeX = "latex"
)
