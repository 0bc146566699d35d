package depot

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// Storage is the entity/component table: a presence mask per slot plus one
// column of cells per registered component kind.
type Storage interface {
	Register(...Component) error
	BitmaskOf(Component) (mask.Mask, bool)
	Kinds() []Component

	Create() *EntityBuilder
	AttachByID(value any, slot int) error
	DetachByID(c Component, slot int) error
	Delete(slot int) error

	EnqueueCreate(values ...any) error
	EnqueueAttach(value any, slot int) error
	EnqueueDetach(c Component, slot int) error
	EnqueueDelete(slot int) error

	Mask(slot int) (mask.Mask, error)
	Cell(c Component, slot int) (*Cell, error)
	Entity(slot int) (Entity, error)
	Valid(Entity) bool
	Len() int

	Locked() bool
	AddLock(bit uint32)
	RemoveLock(bit uint32) error
}

// Component represents a data kind that can be attached to entity slots.
// Components can be used to create queries for entities. Kind identity is
// the element type's reflect.Type.
type Component interface {
	table.ElementType
}

type QueryNode interface {
	Evaluate(slotMask mask.Mask) bool
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	Register(K, T) (int, error)
	Len() int
	Items() []T
}

type SimpleCache[K comparable, T any] struct {
	items       []T
	itemIndices map[K]int
	maxCapacity int
}
