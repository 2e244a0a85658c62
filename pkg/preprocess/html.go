package preprocess

import (
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// ErrDefinitionWithoutTerm is returned for a dd element with no preceding dt.
var ErrDefinitionWithoutTerm = errors.New("definition list definition with no term")

const svgDataURIPrefix = "data:image/svg+xml;base64,"

// node writes an HTML node of the merged tree.
func (c *converter) node(id NodeID) error {
	n := c.tree.node(id)
	switch n.kind {
	case nodeText:
		return c.text(id)
	case nodeComment:
		return c.w.RawHTML("<!--" + n.text + "-->")
	case nodeElement:
		return c.element(id)
	case nodeDocument:
		return c.children(id)
	case nodePlaceholder:
	}
	return nil
}

func (c *converter) htmlLike() bool {
	return c.p.caps.Format() == pandoc.FormatHTMLLike
}

func (c *converter) text(id NodeID) error {
	n := c.tree.node(id)
	if n.text == "\n" && (c.tree.isElementOrNone(n.prev) || c.tree.isElementOrNone(n.next)) {
		return nil
	}
	if c.htmlLike() {
		return c.w.RawHTML(html.EscapeString(n.text))
	}
	return c.w.Str(n.text)
}

//nolint:gocyclo,cyclop // one case per element with dedicated output
func (c *converter) element(id NodeID) error {
	n := c.tree.node(id)
	if !c.htmlLike() && c.displayNone(n.attrs) {
		return nil
	}
	body := func() error { return c.children(id) }

	switch n.name {
	case "thead", "th", "tr", "td":
		return body()

	case "br":
		return c.w.LineBreak()

	case "hr":
		if !c.w.InBlocks() {
			return nil
		}
		return c.w.HorizontalRule()

	case "a":
		attr := c.attrs(n.attrs)
		href, ok := c.tree.attr(id, "href")
		if !ok {
			return c.container(c.w.StartSpan(attr), body)
		}
		title, _ := c.tree.attr(id, "title")
		return c.container(c.w.StartLink(attr, href, title), body)

	case "span":
		return c.container(c.w.StartSpan(c.attrs(n.attrs)), body)
	case "s":
		return c.container(c.w.StartStrikeout(), body)
	case "sup":
		return c.container(c.w.StartSuperscript(), body)
	case "sub":
		return c.container(c.w.StartSubscript(), body)

	case "div":
		if !c.w.InBlocks() {
			return c.container(c.w.StartSpan(c.attrs(n.attrs)), body)
		}
		return c.container(c.w.StartDiv(c.attrs(n.attrs)), body)

	case "figure":
		if !c.w.InBlocks() {
			return body()
		}
		return c.figure(id)

	case "svg":
		return c.svg(id)

	case "img":
		return c.image(id)

	case "i":
		if handled, err := c.fontAwesome(id); handled {
			return err
		}

	case "dl":
		if c.w.InBlocks() {
			return c.definitions(id)
		}
	}

	return c.genericElement(id)
}

// genericElement keeps an element as raw HTML around its converted content.
func (c *converter) genericElement(id NodeID) error {
	n := c.tree.node(id)
	if err := c.w.RawHTML(startTag(n.name, n.attrs)); err != nil {
		return err
	}

	var wrapper native.Attr
	if !c.htmlLike() {
		// Without the raw markup the wrapper keeps the element linkable.
		wrapper.ID, _ = c.tree.attr(id, "id")
	}
	if c.tree.hasChildren(id) || wrapper.ID != "" {
		body := func() error { return c.children(id) }
		var err error
		switch {
		case c.w.InBlocks() && isDisplayBlock(n.name):
			err = c.container(c.w.StartDiv(wrapper), body)
		case c.w.InBlocks():
			err = body()
		default:
			err = c.container(c.w.StartSpan(wrapper), body)
		}
		if err != nil {
			return err
		}
	}

	if isVoidElement(n.name) {
		return nil
	}
	return c.w.RawHTML(endTag(n.name))
}

func (c *converter) figure(id NodeID) error {
	var caption NodeID = noNode
	for _, child := range c.tree.children(id) {
		if n := c.tree.node(child); n.kind == nodeElement && n.name == "figcaption" {
			caption = child
			break
		}
	}

	return c.container(c.w.StartFigure(c.attrs(c.tree.node(id).attrs)), func() error {
		err := c.container(c.w.StartCaption(), func() error {
			if caption == noNode {
				return nil
			}
			return c.children(caption)
		})
		if err != nil {
			return err
		}
		return c.container(c.w.StartFigureBody(), func() error {
			s := c.tree.childStream(id)
			return s.each(goldmark.TagNone, func(it item) error {
				if !it.isEvent() {
					if n := c.tree.node(it.node); n.kind == nodeElement && n.name == "figcaption" {
						return nil
					}
					return c.node(it.node)
				}
				return c.event(s, it.ev)
			})
		})
	})
}

// svg writes inline SVG markup as an image with a data URI.
func (c *converter) svg(id NodeID) error {
	n := c.tree.node(id)
	var attrs []html.Attribute
	for _, a := range n.attrs {
		switch a.Key {
		case "xmlns", "alt", "title":
			continue
		}
		attrs = append(attrs, a)
	}
	title, _ := c.tree.attr(id, "title")

	var sb strings.Builder
	c.tree.renderHTML(&sb, id)
	uri := svgDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(sb.String()))

	return c.container(c.w.StartImage(c.attrs(attrs), uri, title), func() error { return nil })
}

// image writes an img element. The source is resolved like a Markdown image
// link.
func (c *converter) image(id NodeID) error {
	n := c.tree.node(id)
	src, ok := c.tree.attr(id, "src")
	if !ok {
		return nil
	}
	alt, hasAlt := c.tree.attr(id, "alt")
	title, _ := c.tree.attr(id, "title")

	var attrs []html.Attribute
	for _, a := range n.attrs {
		switch a.Key {
		case "src", "alt", "title":
			continue
		}
		attrs = append(attrs, a)
	}

	dest := c.p.normalizeLink(c.ctx, c.chapter, goldmark.LinkInline, src, contextImage)
	return c.container(c.w.StartImage(c.attrs(attrs), dest, title), func() error {
		if !hasAlt {
			return nil
		}
		return c.w.Str(alt)
	})
}

// fontAwesome writes an empty <i class="fa fa-name"> as a LaTeX icon.
func (c *converter) fontAwesome(id NodeID) (bool, error) {
	if c.tree.hasChildren(id) || c.p.caps.Format() != pandoc.FormatLatex {
		return false, nil
	}
	class, _ := c.tree.attr(id, "class")
	var icon string
	for _, cl := range strings.Fields(class) {
		switch cl {
		case "fa", "fas", "fab", "fa-regular", "fa-solid", "fa-brands":
			continue
		}
		if name, ok := strings.CutPrefix(cl, "fa-"); ok {
			icon = name
		}
	}
	if icon == "" || !c.p.caps.Enable(pandoc.RawAttribute) {
		return false, nil
	}
	c.p.caps.NeedLatexPackage(pandoc.FontAwesome)
	return true, c.w.RawInline(native.FormatLaTeX, `\faicon{`+icon+`}`)
}

// definitions writes an HTML definition list. Each dt starts an item and the
// dd elements that follow are its definitions.
func (c *converter) definitions(id NodeID) error {
	type component struct {
		term bool
		id   NodeID
	}
	var parts []component
	for _, child := range c.tree.children(id) {
		n := c.tree.node(child)
		if n.kind != nodeElement {
			continue
		}
		switch n.name {
		case "dt":
			parts = append(parts, component{term: true, id: child})
		case "dd":
			parts = append(parts, component{id: child})
		}
	}
	if len(parts) > 0 && !parts[0].term {
		return ErrDefinitionWithoutTerm
	}

	return c.container(c.w.StartDefinitionList(), func() error {
		for i := 0; i < len(parts); {
			term := parts[i]
			i++
			err := c.container(c.w.StartDefinitionItem(), func() error {
				err := c.container(c.w.StartTerm(), func() error {
					attrs := c.tree.node(term.id).attrs
					if len(attrs) == 0 {
						return c.children(term.id)
					}
					// Terms carry no attributes of their own.
					return c.container(c.w.StartSpan(c.attrs(attrs)), func() error {
						return c.children(term.id)
					})
				})
				if err != nil {
					return err
				}
				return c.container(c.w.StartDefinitions(), func() error {
					for ; i < len(parts) && !parts[i].term; i++ {
						def := parts[i].id
						if err := c.container(c.w.StartItem(), func() error { return c.children(def) }); err != nil {
							return err
						}
					}
					return nil
				})
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
