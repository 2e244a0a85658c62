package preprocess

import (
	"strings"

	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// Check box glyphs, already in native escape syntax.
const (
	checkedBox   = `\9746`
	uncheckedBox = `\9744`
)

// emitDocument writes the merged tree as the chapter's block list.
func (c *converter) emitDocument() error {
	if c.chapter.Number == nil && c.p.partNum > 0 &&
		c.p.caps.Format() == pandoc.FormatLatex && c.p.caps.Enable(pandoc.RawAttribute) {
		// Unnumbered chapters after a part would otherwise nest below it in
		// the PDF outline.
		if err := c.w.RawBlock(native.FormatLaTeX, `\bookmarksetup{startatroot}`); err != nil {
			return err
		}
	}
	return c.children(c.tree.root())
}

// children writes the children of an HTML node.
func (c *converter) children(id NodeID) error {
	return c.run(c.tree.childStream(id), goldmark.TagNone)
}

// run writes the items of the container tag.
func (c *converter) run(s *stream, tag goldmark.Tag) error {
	return s.each(tag, func(it item) error {
		if it.isEvent() {
			return c.event(s, it.ev)
		}
		return c.node(it.node)
	})
}

// container writes a container opened by start and filled by body.
func (c *converter) container(start error, body func() error) error {
	if start != nil {
		return start
	}
	if err := body(); err != nil {
		return err
	}
	return c.w.End()
}

func (c *converter) event(s *stream, ev goldmark.Spanned) error {
	e := ev.Event
	switch e.Kind {
	case goldmark.EventStart:
		return c.start(s, ev)
	case goldmark.EventText:
		return c.w.Str(e.Text)
	case goldmark.EventCode:
		return c.w.Code(native.Attr{}, e.Text)
	case goldmark.EventInlineMath:
		return c.w.Math(native.InlineMath, e.Text)
	case goldmark.EventDisplayMath:
		return c.w.Math(native.DisplayMath, e.Text)
	case goldmark.EventSoftBreak:
		return c.w.SoftBreak()
	case goldmark.EventHardBreak:
		return c.w.LineBreak()
	case goldmark.EventRule:
		if !c.w.InBlocks() {
			return nil
		}
		return c.w.HorizontalRule()
	case goldmark.EventFootnoteReference:
		return c.footnote(e.Label)
	case goldmark.EventTaskListMarker:
		box := uncheckedBox
		if e.Checked {
			box = checkedBox
		}
		if err := c.w.StrVerbatim(box); err != nil {
			return err
		}
		return c.w.Space()
	case goldmark.EventHTML, goldmark.EventInlineHTML:
		return c.w.RawHTML(e.Text)
	case goldmark.EventEnd:
	}
	return nil
}

//nolint:gocyclo,cyclop // one case per container tag
func (c *converter) start(s *stream, ev goldmark.Spanned) error {
	e := ev.Event
	body := func() error { return c.run(s, e.Tag) }

	switch e.Tag {
	case goldmark.TagParagraph:
		if !c.w.InBlocks() {
			return body()
		}
		return c.container(c.w.StartPara(), body)

	case goldmark.TagHeading:
		if !c.w.InBlocks() {
			return body()
		}
		attr := native.Attr{ID: e.ID, Classes: e.Classes}
		for _, a := range e.Attrs {
			attr.KVs = append(attr.KVs, native.KV{Key: a.Key, Value: a.Value})
		}
		return c.container(c.w.StartHeader(e.Level, attr), body)

	case goldmark.TagBlockQuote:
		switch {
		case !c.w.InBlocks():
			return body()
		case e.Alert != "":
			return c.alert(e.Alert, body)
		default:
			return c.container(c.w.StartBlockQuote(), body)
		}

	case goldmark.TagCodeBlock:
		var code strings.Builder
		_ = s.each(goldmark.TagCodeBlock, func(it item) error {
			if it.isEvent() && it.ev.Event.Kind == goldmark.EventText {
				code.WriteString(it.ev.Event.Text)
			}
			return nil
		})
		return c.codeBlock(e.Info, code.String())

	case goldmark.TagList:
		return c.list(s, e)

	case goldmark.TagTable:
		return c.table(s, e, ev.Range)

	case goldmark.TagDefinitionList:
		return c.definitionList(s)

	case goldmark.TagEmphasis:
		return c.container(c.w.StartEmph(), body)
	case goldmark.TagStrong:
		return c.container(c.w.StartStrong(), body)
	case goldmark.TagStrikethrough:
		return c.container(c.w.StartStrikeout(), body)
	case goldmark.TagSuperscript:
		return c.container(c.w.StartSuperscript(), body)
	case goldmark.TagSubscript:
		return c.container(c.w.StartSubscript(), body)
	case goldmark.TagLink:
		return c.container(c.w.StartLink(native.Attr{}, e.Dest, e.Title), body)
	case goldmark.TagImage:
		return c.container(c.w.StartImage(native.Attr{}, e.Dest, e.Title), body)

	case goldmark.TagFootnoteDefinition:
		// Written where referenced.
		s.skip(goldmark.TagFootnoteDefinition)
		return nil

	default:
		// Items, rows and cells cut off from their container by the HTML
		// structure keep only their content.
		return body()
	}
}

// alert writes a GitHub alert as a div headed by its title.
func (c *converter) alert(kind string, body func() error) error {
	title := strings.ToUpper(kind[:1]) + kind[1:]
	return c.container(c.w.StartDiv(native.Attr{Classes: []string{kind}}), func() error {
		err := c.container(c.w.StartDiv(native.Attr{Classes: []string{"title"}}), func() error {
			return c.container(c.w.StartPara(), func() error { return c.w.Str(title) })
		})
		if err != nil {
			return err
		}
		return body()
	})
}

func (c *converter) list(s *stream, e goldmark.Event) error {
	if !c.w.InBlocks() {
		return c.run(s, goldmark.TagList)
	}

	start := c.w.StartBulletList
	if e.Ordered {
		start = func() error { return c.w.StartOrderedList(e.Start) }
	}
	return c.container(start(), func() error {
		return s.each(goldmark.TagList, func(it item) error {
			if it.isEvent() && it.ev.Event.IsStart(goldmark.TagItem) {
				return c.container(c.w.StartItem(), func() error { return c.run(s, goldmark.TagItem) })
			}
			if it.isEvent() && it.ev.Event.Kind == goldmark.EventStart {
				s.skip(it.ev.Event.Tag)
			}
			c.dropped(it, "list")
			return nil
		})
	})
}

// definitionList writes a Markdown definition list. Consecutive
// descriptions belong to the preceding term.
func (c *converter) definitionList(s *stream) error {
	if !c.w.InBlocks() {
		return c.run(s, goldmark.TagDefinitionList)
	}
	if err := c.w.StartDefinitionList(); err != nil {
		return err
	}
	depth := c.w.Depth()

	open := false
	err := s.each(goldmark.TagDefinitionList, func(it item) error {
		switch {
		case it.isEvent() && it.ev.Event.IsStart(goldmark.TagDefinitionTerm):
			if err := c.w.EndTo(depth); err != nil {
				return err
			}
			open = true
			if err := c.w.StartDefinitionItem(); err != nil {
				return err
			}
			err := c.container(c.w.StartTerm(), func() error { return c.run(s, goldmark.TagDefinitionTerm) })
			if err != nil {
				return err
			}
			return c.w.StartDefinitions()

		case it.isEvent() && it.ev.Event.IsStart(goldmark.TagDefinitionDescription):
			if !open {
				open = true
				if err := c.emptyTerm(); err != nil {
					return err
				}
			}
			return c.container(c.w.StartItem(), func() error {
				return c.run(s, goldmark.TagDefinitionDescription)
			})

		case it.isEvent() && it.ev.Event.Kind == goldmark.EventStart:
			s.skip(it.ev.Event.Tag)
		}
		c.dropped(it, "definition list")
		return nil
	})
	if err != nil {
		return err
	}
	if err := c.w.EndTo(depth); err != nil {
		return err
	}
	return c.w.End()
}

// emptyTerm opens an item for descriptions that have no term.
func (c *converter) emptyTerm() error {
	if err := c.w.StartDefinitionItem(); err != nil {
		return err
	}
	if err := c.container(c.w.StartTerm(), func() error { return nil }); err != nil {
		return err
	}
	return c.w.StartDefinitions()
}
