package goldmark

// Reader iterates over a buffered event stream with lookahead.
type Reader struct {
	events []Spanned
	pos    int
}

// NewReader returns a Reader over events.
func NewReader(events []Spanned) *Reader {
	return &Reader{events: events}
}

// Next returns the next event and advances past it.
func (r *Reader) Next() (Spanned, bool) {
	if r.pos >= len(r.events) {
		return Spanned{}, false
	}
	ev := r.events[r.pos]
	r.pos++
	return ev, true
}

// Peek returns the next event without consuming it.
func (r *Reader) Peek() (Spanned, bool) {
	if r.pos >= len(r.events) {
		return Spanned{}, false
	}
	return r.events[r.pos], true
}

// NextIf consumes and returns the next event only if pred accepts it.
func (r *Reader) NextIf(pred func(Event) bool) (Spanned, bool) {
	ev, ok := r.Peek()
	if !ok || !pred(ev.Event) {
		return Spanned{}, false
	}
	r.pos++
	return ev, true
}

// PeekUntil returns the buffered events up to and including the first one
// accepted by end, without consuming them. If no event matches, the rest of
// the stream is returned. The returned slice must not be modified.
func (r *Reader) PeekUntil(end func(Event) bool) []Spanned {
	for i := r.pos; i < len(r.events); i++ {
		if end(r.events[i].Event) {
			return r.events[r.pos : i+1]
		}
	}
	return r.events[r.pos:]
}
