package depot

import "fmt"

// Entity is a generation-stamped handle to a slot. A handle stops being valid
// once its slot is deleted or reused.
type Entity struct {
	slot       int
	generation uint32
}

func (e Entity) Slot() int {
	return e.slot
}

func (e Entity) Generation() uint32 {
	return e.generation
}

func (e Entity) String() string {
	return fmt.Sprintf("entity(slot=%d, gen=%d)", e.slot, e.generation)
}

// EntityBuilder attaches components to the slot produced by Storage.Create.
//
//	en, err := storage.Create().With(Health{100}, Speed{25}).Entity()
type EntityBuilder struct {
	sto    *storage
	entity Entity
	err    error
}

// Attach writes value into the builder's slot and marks its kind on the slot's
// presence mask.
func (b *EntityBuilder) Attach(value any) error {
	if b == nil || b.sto == nil {
		return ConstructionCursorInvalidError{}
	}
	if b.sto.Locked() {
		return LockedStorageError{}
	}
	if !b.sto.Valid(b.entity) {
		return ConstructionCursorInvalidError{Entity: b.entity}
	}
	return b.sto.attach(value, b.entity.slot)
}

// With attaches each value in order. The first failure is kept and every
// later call becomes a no-op; inspect it with Err or Entity.
func (b *EntityBuilder) With(values ...any) *EntityBuilder {
	for _, value := range values {
		if b.err != nil {
			break
		}
		if err := b.Attach(value); err != nil {
			b.err = fmt.Errorf("failed to attach %T: %w", value, err)
		}
	}
	return b
}

func (b *EntityBuilder) Err() error {
	return b.err
}

func (b *EntityBuilder) Entity() (Entity, error) {
	return b.entity, b.err
}

func (b *EntityBuilder) Slot() int {
	return b.entity.slot
}
