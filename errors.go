package depot

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/bark"
	"go.uber.org/zap"
)

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

// KindNotRegisteredError is returned whenever an operation references a component
// kind that was never registered with the storage.
type KindNotRegisteredError struct {
	Type reflect.Type
}

func (e KindNotRegisteredError) Error() string {
	if e.Type == nil {
		return "component kind not registered: <nil>"
	}
	return fmt.Sprintf("component kind not registered: %v", e.Type)
}

type KindCapacityError struct {
	Max int
}

func (e KindCapacityError) Error() string {
	return fmt.Sprintf("component kinds at maximum capacity (%d)", e.Max)
}

// ConstructionCursorInvalidError reports a builder that was never created by
// Storage.Create or whose slot has since been deleted or reused.
type ConstructionCursorInvalidError struct {
	Entity Entity
}

func (e ConstructionCursorInvalidError) Error() string {
	return fmt.Sprintf("construction cursor invalid: %v", e.Entity)
}

type SlotOutOfRangeError struct {
	Slot, Len int
}

func (e SlotOutOfRangeError) Error() string {
	return fmt.Sprintf("slot %d out of range (slot count %d)", e.Slot, e.Len)
}

type EntityDoesNotExistError struct {
	Slot int
}

func (e EntityDoesNotExistError) Error() string {
	return fmt.Sprintf("entity does not exist at slot %d", e.Slot)
}

type ComponentNotFoundError struct {
	Component Component
	Slot      int
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on slot %d: %v", e.Slot, typeOf(e.Component))
}

type BorrowConflictError struct {
	Type      reflect.Type
	Exclusive bool
}

func (e BorrowConflictError) Error() string {
	if e.Exclusive {
		return fmt.Sprintf("%v already borrowed", e.Type)
	}
	return fmt.Sprintf("%v already mutably borrowed", e.Type)
}

type DowncastError struct {
	Want, Got reflect.Type
}

func (e DowncastError) Error() string {
	return fmt.Sprintf("cannot access %v as %v", e.Got, e.Want)
}

// UnsupportedStorageError is returned by queries built over a Storage that was
// not created by this package.
type UnsupportedStorageError struct {
	Storage Storage
}

func (e UnsupportedStorageError) Error() string {
	return fmt.Sprintf("queries require a storage created by Factory.NewStorage, got %T", e.Storage)
}

// traceField captures the call stack at the point err surfaced. Errors are
// returned untraced so callers can still match them with errors.As.
func traceField(err error) zap.Field {
	trace, _ := bark.GetTrace(bark.AddTrace(err))
	return zap.Stringers("trace", trace.Frames)
}
