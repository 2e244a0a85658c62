package preprocess

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// footnote writes the definition of label as a note at the reference.
func (c *converter) footnote(label string) error {
	mark, ok := c.bookmarks[label]
	if !ok {
		c.p.warn("Undefined footnote: "+label, logging.FieldChapter, c.chapter.Path)
		return nil
	}
	if i := slices.Index(c.inProgress, label); i >= 0 {
		cycle := append(slices.Clone(c.inProgress[i:]), label)
		c.p.warn("Cycle in footnote definitions: "+strings.Join(cycle, " => "),
			logging.FieldChapter, c.chapter.Path)
		return nil
	}

	placeholder := c.tree.placeholders[mark.bucket]
	if placeholder == noNode {
		return fmt.Errorf("footnote %q has no placeholder", label)
	}
	s := c.tree.childStream(c.tree.node(placeholder).parent)
	if !s.seek(placeholder, mark.offset) {
		return fmt.Errorf("footnote %q not found", label)
	}
	// The definition's Start.
	s.next()

	c.inProgress = append(c.inProgress, label)
	defer func() { c.inProgress = c.inProgress[:len(c.inProgress)-1] }()

	return c.container(c.w.StartNote(), func() error {
		return c.run(s, goldmark.TagFootnoteDefinition)
	})
}
