package preprocess

import (
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// item is one entry of a child stream: an HTML node, or a Markdown event
// taken from a placeholder's bucket.
type item struct {
	node NodeID

	ev goldmark.Spanned

	// Placeholder holding ev and ev's index in its bucket.
	placeholder NodeID
	index       int
}

func (it item) isEvent() bool { return it.node == noNode }

// stream walks the children of one node with the placeholders flattened
// into their events.
type stream struct {
	items []item
	pos   int

	// Tags of the Markdown containers being emitted from this stream.
	open []goldmark.Tag
}

// childStream returns the stream of id's children.
func (t *tree) childStream(id NodeID) *stream {
	s := &stream{}
	for c := t.node(id).firstChild; c != noNode; c = t.node(c).next {
		n := t.node(c)
		if n.kind != nodePlaceholder {
			s.items = append(s.items, item{node: c, placeholder: noNode})
			continue
		}
		for i, ev := range t.buckets[n.bucket] {
			s.items = append(s.items, item{node: noNode, ev: ev, placeholder: c, index: i})
		}
	}
	return s
}

func (s *stream) next() (item, bool) {
	if s.pos >= len(s.items) {
		return item{}, false
	}
	it := s.items[s.pos]
	s.pos++
	return it, true
}

func (s *stream) unread() {
	if s.pos > 0 {
		s.pos--
	}
}

// seek positions the stream at the event index of placeholder.
func (s *stream) seek(placeholder NodeID, index int) bool {
	for i, it := range s.items {
		if it.isEvent() && it.placeholder == placeholder && it.index == index {
			s.pos = i
			return true
		}
	}
	return false
}

// isOpen reports whether tag is an enclosing container below the innermost
// one.
func (s *stream) isOpen(tag goldmark.Tag) bool {
	for i := len(s.open) - 2; i >= 0; i-- {
		if s.open[i] == tag {
			return true
		}
	}
	return false
}

// each calls fn for the items of the container tag until its End. An End
// closing an enclosing container is left for that container; any other
// unmatched End is dropped.
func (s *stream) each(tag goldmark.Tag, fn func(item) error) error {
	s.open = append(s.open, tag)
	defer func() { s.open = s.open[:len(s.open)-1] }()

	for {
		it, ok := s.next()
		if !ok {
			return nil
		}
		if it.isEvent() && it.ev.Event.Kind == goldmark.EventEnd {
			end := it.ev.Event.Tag
			if end == tag {
				return nil
			}
			if s.isOpen(end) {
				s.unread()
				return nil
			}
			continue
		}
		if err := fn(it); err != nil {
			return err
		}
	}
}

// skip consumes the container tag without emitting it.
func (s *stream) skip(tag goldmark.Tag) {
	_ = s.each(tag, func(it item) error {
		if it.isEvent() && it.ev.Event.Kind == goldmark.EventStart {
			s.skip(it.ev.Event.Tag)
		}
		return nil
	})
}
