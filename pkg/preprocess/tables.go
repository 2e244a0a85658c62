package preprocess

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// columnWidths returns the relative widths of a table's columns. Tables
// whose source fits within the configured line length leave sizing to
// pandoc. Wider tables are sized by the dashes of their delimiter row.
func columnWidths(lines []string, columns, count int) []native.ColWidth {
	widths := make([]native.ColWidth, count)
	for i := range widths {
		widths[i] = native.DefaultColWidth()
	}

	wide := false
	for _, line := range lines {
		if utf8.RuneCountInString(line) > columns {
			wide = true
			break
		}
	}
	if !wide || len(lines) < 2 {
		return widths
	}

	// The second line of a pipe table is its delimiter row.
	var counts []int
	total := 0
	for _, cell := range strings.Split(lines[1], "|") {
		n := 0
		for i := range len(cell) {
			if isASCIIPunct(cell[i]) {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, n)
			total += n
		}
	}
	if len(counts) != count {
		return widths
	}
	for i, n := range counts {
		widths[i] = native.ColWidth{Width: float64(n) / float64(total)}
	}
	return widths
}

func isASCIIPunct(b byte) bool {
	return '!' <= b && b <= '/' || ':' <= b && b <= '@' || '[' <= b && b <= '`' || '{' <= b && b <= '~'
}

func alignment(a goldmark.Alignment) native.Alignment {
	switch a {
	case goldmark.AlignLeft:
		return native.AlignLeft
	case goldmark.AlignCenter:
		return native.AlignCenter
	case goldmark.AlignRight:
		return native.AlignRight
	default:
		return native.AlignDefault
	}
}

// table writes a pipe table. The head row comes first; every later row goes
// to a single body.
func (c *converter) table(s *stream, e goldmark.Event, r goldmark.Range) error {
	if !c.w.InBlocks() {
		return c.run(s, goldmark.TagTable)
	}

	widths := columnWidths(r.Lines(c.source), c.p.opts.Columns, len(e.Alignments))
	cols := make([]native.ColSpec, len(e.Alignments))
	for i, a := range e.Alignments {
		cols[i] = native.ColSpec{Align: alignment(a), Width: widths[i]}
	}
	if err := c.w.StartTable(native.Attr{}, cols); err != nil {
		return err
	}
	depth := c.w.Depth()

	var head, body bool
	emptyHead := func() error {
		head = true
		return c.container(c.w.StartTableHead(native.Attr{}), func() error { return nil })
	}
	openBody := func() error {
		if !head {
			if err := emptyHead(); err != nil {
				return err
			}
		}
		if body {
			return nil
		}
		body = true
		if err := c.w.StartTableBodies(); err != nil {
			return err
		}
		return c.w.StartTableBody(native.Attr{})
	}

	err := s.each(goldmark.TagTable, func(it item) error {
		switch {
		case it.isEvent() && it.ev.Event.IsStart(goldmark.TagTableHead) && !head:
			head = true
			return c.container(c.w.StartTableHead(native.Attr{}), func() error {
				return c.container(c.w.StartRow(native.Attr{}), func() error {
					return c.cells(s, goldmark.TagTableHead)
				})
			})
		case it.isEvent() && it.ev.Event.IsStart(goldmark.TagTableRow):
			if err := openBody(); err != nil {
				return err
			}
			return c.container(c.w.StartRow(native.Attr{}), func() error {
				return c.cells(s, goldmark.TagTableRow)
			})
		case it.isEvent() && it.ev.Event.Kind == goldmark.EventStart:
			s.skip(it.ev.Event.Tag)
		}
		c.dropped(it, "table")
		return nil
	})
	if err != nil {
		return err
	}

	if !head {
		if err := emptyHead(); err != nil {
			return err
		}
	}
	if !body {
		if err := c.w.StartTableBodies(); err != nil {
			return err
		}
	}
	if err := c.w.EndTo(depth); err != nil {
		return err
	}
	return c.w.End()
}

func (c *converter) cells(s *stream, row goldmark.Tag) error {
	return s.each(row, func(it item) error {
		if it.isEvent() && it.ev.Event.IsStart(goldmark.TagTableCell) {
			return c.container(c.w.StartCell(native.Attr{}), func() error {
				return c.run(s, goldmark.TagTableCell)
			})
		}
		if it.isEvent() && it.ev.Event.Kind == goldmark.EventStart {
			s.skip(it.ev.Event.Tag)
		}
		c.dropped(it, "table row")
		return nil
	})
}

// dropped logs content that has no place in the structure being written.
func (c *converter) dropped(it item, where string) {
	what := "HTML"
	if it.isEvent() {
		what = it.ev.Event.String()
	}
	c.p.logger.Debug("Dropping content from "+where, logging.FieldChapter, c.chapter.Path, "content", what)
}
