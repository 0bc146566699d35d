package depot

import (
	"reflect"

	"github.com/TheBitDrifter/table"
)

var _ Component = AccessibleComponent[struct{}]{}

// AccessibleComponent is the Component handle for values of type T.
// It provides typed access to the type-erased cells stored for T.
type AccessibleComponent[T any] struct {
	table.ElementType
}

// Read returns a copy of the value held by cell.
func (c AccessibleComponent[T]) Read(cell *Cell) (T, error) {
	var zero T
	if cell == nil {
		return zero, DowncastError{Want: c.Type()}
	}
	ref, err := cell.Borrow()
	if err != nil {
		return zero, err
	}
	defer ref.Release()

	ptr, ok := cell.value.(*T)
	if !ok {
		return zero, DowncastError{Want: c.Type(), Got: cell.typ}
	}
	return *ptr, nil
}

// Modify runs fn with exclusive access to the value held by cell.
func (c AccessibleComponent[T]) Modify(cell *Cell, fn func(*T)) error {
	if cell == nil {
		return DowncastError{Want: c.Type()}
	}
	ref, err := cell.BorrowMut()
	if err != nil {
		return err
	}
	defer ref.Release()

	ptr, ok := cell.value.(*T)
	if !ok {
		return DowncastError{Want: c.Type(), Got: cell.typ}
	}
	fn(ptr)
	return nil
}

// GetFromCursor retrieves the cell for the slot at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) (*Cell, error) {
	return cursor.storage.Cell(c, cursor.Slot())
}

// GetFromEntity retrieves the cell for the entity, failing when the handle is stale
func (c AccessibleComponent[T]) GetFromEntity(sto Storage, en Entity) (*Cell, error) {
	if !sto.Valid(en) {
		return nil, EntityDoesNotExistError{Slot: en.slot}
	}
	return sto.Cell(c, en.slot)
}

func typeOf(c Component) reflect.Type {
	if c == nil {
		return nil
	}
	return c.Type()
}
