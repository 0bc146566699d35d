package depot

import "reflect"

// Cell is a shared, type-erased component value. Any number of shared borrows
// may coexist, an exclusive borrow excludes every other borrow.
type Cell struct {
	value   any // *T
	typ     reflect.Type
	readers int
	writer  bool
}

type Ref struct {
	cell *Cell
}

type RefMut struct {
	cell *Cell
}

func newCell(value any) *Cell {
	typ := reflect.TypeOf(value)
	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.ValueOf(value))
	return &Cell{value: ptr.Interface(), typ: typ}
}

func (c *Cell) Type() reflect.Type {
	return c.typ
}

func (c *Cell) Borrow() (*Ref, error) {
	if c.writer {
		return nil, BorrowConflictError{Type: c.typ}
	}
	c.readers++
	return &Ref{cell: c}, nil
}

func (c *Cell) BorrowMut() (*RefMut, error) {
	if c.writer || c.readers > 0 {
		return nil, BorrowConflictError{Type: c.typ, Exclusive: true}
	}
	c.writer = true
	return &RefMut{cell: c}, nil
}

// Value returns a copy of the borrowed value.
func (r *Ref) Value() any {
	return reflect.ValueOf(r.cell.value).Elem().Interface()
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *Ref) Release() {
	if r.cell == nil {
		return
	}
	r.cell.readers--
	r.cell = nil
}

// Value returns a pointer to the borrowed value.
func (r *RefMut) Value() any {
	return r.cell.value
}

// Set replaces the borrowed value. v must have the cell's type.
func (r *RefMut) Set(v any) error {
	got := reflect.TypeOf(v)
	if got != r.cell.typ {
		return DowncastError{Want: r.cell.typ, Got: got}
	}
	reflect.ValueOf(r.cell.value).Elem().Set(reflect.ValueOf(v))
	return nil
}

func (r *RefMut) Release() {
	if r.cell == nil {
		return
	}
	r.cell.writer = false
	r.cell = nil
}
