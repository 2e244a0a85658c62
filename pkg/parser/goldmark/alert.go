package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Alert kinds recognized in "> [!KIND]" blockquotes.
var alertKinds = []string{"note", "tip", "important", "warning", "caution"}

// alertTransformer marks GitHub-style alert blockquotes and removes the
// marker line from their first paragraph.
type alertTransformer struct{}

func (a *alertTransformer) Transform(doc *gast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var quotes []*gast.Blockquote
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if q, ok := n.(*gast.Blockquote); ok && entering {
			quotes = append(quotes, q)
		}
		return gast.WalkContinue, nil
	})

	for _, q := range quotes {
		para, ok := q.FirstChild().(*gast.Paragraph)
		if !ok || para.Lines().Len() == 0 {
			continue
		}
		first := para.Lines().At(0)
		kind, ok := alertKind(first.Value(source))
		if !ok {
			continue
		}
		q.SetAttribute(alertAttribute, []byte(kind))
		removeFirstLine(para, first.Stop)
		if para.ChildCount() == 0 {
			q.RemoveChild(q, para)
		}
	}
}

func alertKind(line []byte) (string, bool) {
	marker := bytes.TrimSpace(line)
	if !bytes.HasPrefix(marker, []byte("[!")) || !bytes.HasSuffix(marker, []byte("]")) {
		return "", false
	}
	kind := strings.ToLower(string(marker[2 : len(marker)-1]))
	for _, known := range alertKinds {
		if kind == known {
			return kind, true
		}
	}
	return "", false
}

// removeFirstLine drops the inline children whose text lies before stop.
func removeFirstLine(para *gast.Paragraph, stop int) {
	for child := para.FirstChild(); child != nil; {
		next := child.NextSibling()
		t, ok := child.(*gast.Text)
		if !ok || t.Segment.Start >= stop {
			return
		}
		para.RemoveChild(para, child)
		child = next
	}
}

type alertExtension struct{}

// AlertExtension recognizes GitHub alerts ("> [!NOTE]").
var AlertExtension goldmark.Extender = &alertExtension{}

func (e *alertExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(&alertTransformer{}, 100)))
}
