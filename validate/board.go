package validate

// Board is the per-field error display. Each Show replaces what was shown
// before, so messages never pile up across attempts.
type Board struct {
	fields map[Field][]string
	order  []Field
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{fields: make(map[Field][]string)}
}

// Clear removes every message.
func (b *Board) Clear() {
	b.fields = make(map[Field][]string)
	b.order = b.order[:0]
}

// Show clears the board and records the errors of r against their fields.
// Warnings are not shown.
func (b *Board) Show(r *Result) {
	b.Clear()
	if r == nil {
		return
	}
	for _, e := range r.Errors {
		if _, ok := b.fields[e.Field]; !ok {
			b.order = append(b.order, e.Field)
		}
		b.fields[e.Field] = append(b.fields[e.Field], e.Message)
	}
}

// Field returns the messages shown for one field.
func (b *Board) Field(f Field) []string {
	return append([]string(nil), b.fields[f]...)
}

// Fields returns the fields with messages, in the order they were first shown.
func (b *Board) Fields() []Field {
	return append([]Field(nil), b.order...)
}

// Empty reports whether nothing is shown.
func (b *Board) Empty() bool {
	return len(b.order) == 0
}
