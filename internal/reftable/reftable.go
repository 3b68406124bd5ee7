// Package reftable maps reference identifiers to link targets and display
// texts. It is filled once before rendering and only read afterwards.
package reftable

// Ref is a single reference target.
type Ref struct {
	Ident string `json:"ident"`
	Link  string `json:"link"`
	Text  string `json:"text"`
}

// Table holds refs in registration order with an identifier index.
type Table struct {
	refs  []Ref
	index map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Add registers ident with its own name as display text.
func (t *Table) Add(ident, link string) {
	t.AddWithText(ident, link, ident)
}

// AddWithText registers ident. A later registration of the same identifier
// is kept in Refs but never wins a lookup.
func (t *Table) AddWithText(ident, link, text string) {
	t.refs = append(t.refs, Ref{Ident: ident, Link: link, Text: text})
	if _, ok := t.index[ident]; !ok {
		t.index[ident] = len(t.refs) - 1
	}
}

// Lookup returns the first ref registered under ident.
func (t *Table) Lookup(ident string) (Ref, bool) {
	i, ok := t.index[ident]
	if !ok {
		return Ref{}, false
	}
	return t.refs[i], true
}

// Len returns the number of registrations.
func (t *Table) Len() int { return len(t.refs) }

// Refs returns a copy of all registrations in order.
func (t *Table) Refs() []Ref {
	out := make([]Ref, len(t.refs))
	copy(out, t.refs)
	return out
}
