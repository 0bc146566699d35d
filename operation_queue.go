package depot

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

type operation struct {
	typ    operationType
	entity Entity
	values []any
	comp   Component
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponent
	opRemoveComponent
)

func (t operationType) String() string {
	switch t {
	case opCreate:
		return "create"
	case opDestroy:
		return "destroy"
	case opAddComponent:
		return "add component"
	case opRemoveComponent:
		return "remove component"
	}
	return "unknown"
}

// opQueue holds mutations deferred while the storage is locked. Operations
// are replayed in the order they were enqueued.
type opQueue struct {
	ops            []operation
	pendingDestroy map[Entity]struct{}
}

func (q *opQueue) empty() bool {
	return len(q.ops) == 0
}

func (q *opQueue) enqueueCreate(values []any) {
	q.ops = append(q.ops, operation{typ: opCreate, values: values})
}

func (q *opQueue) enqueueDestroy(en Entity) {
	if _, exists := q.pendingDestroy[en]; exists {
		return
	}
	if q.pendingDestroy == nil {
		q.pendingDestroy = make(map[Entity]struct{})
	}
	q.pendingDestroy[en] = struct{}{}
	q.ops = append(q.ops, operation{typ: opDestroy, entity: en})
}

func (q *opQueue) enqueueComponentOp(typ operationType, en Entity, value any, comp Component) {
	// Component changes on an entity pending destroy are dropped
	if _, isDestroyed := q.pendingDestroy[en]; isDestroyed {
		return
	}
	q.ops = append(q.ops, operation{
		typ:    typ,
		entity: en,
		values: []any{value},
		comp:   comp,
	})
}

func (sto *storage) processOperationQueue() error {
	if sto.opQueue.empty() {
		return nil
	}
	queued := sto.opQueue
	sto.opQueue = opQueue{}

	skipped := 0
	for i, op := range queued.ops {
		// Creates and deletes earlier in the queue may have recycled the slot
		if op.typ != opCreate && !sto.Valid(op.entity) {
			sto.logger.Debug("skipped stale queued operation",
				zap.Stringer("op", op.typ),
				zap.Stringer("entity", op.entity),
			)
			skipped++
			continue
		}
		if err := sto.apply(op); err != nil {
			err = fmt.Errorf("failed to process queued %s: %w", op.typ, err)
			sto.logger.Error("operation queue aborted",
				zap.Error(err),
				zap.Int("dropped", len(queued.ops)-i-1),
				traceField(err),
			)
			return err
		}
	}

	sto.logger.Debug("processed operation queue",
		zap.Int("ops", len(queued.ops)),
		zap.Int("skipped", skipped),
	)
	return nil
}

func (sto *storage) apply(op operation) error {
	switch op.typ {
	case opCreate:
		return sto.Create().With(op.values...).Err()
	case opAddComponent:
		return sto.AttachByID(op.values[0], op.entity.slot)
	case opRemoveComponent:
		return sto.DetachByID(op.comp, op.entity.slot)
	case opDestroy:
		return sto.Delete(op.entity.slot)
	}
	return nil
}

// EnqueueCreate creates an entity holding values, deferring the creation until
// the storage is unlocked.
func (sto *storage) EnqueueCreate(values ...any) error {
	if !sto.Locked() {
		if err := sto.Create().With(values...).Err(); err != nil {
			return fmt.Errorf("failed to create entity directly: %w", err)
		}
		return nil
	}
	for _, value := range values {
		if _, ok := sto.bitFor(reflect.TypeOf(value)); !ok {
			return KindNotRegisteredError{Type: reflect.TypeOf(value)}
		}
	}
	sto.opQueue.enqueueCreate(values)
	return nil
}

func (sto *storage) EnqueueAttach(value any, slot int) error {
	if !sto.Locked() {
		return sto.AttachByID(value, slot)
	}
	if _, ok := sto.bitFor(reflect.TypeOf(value)); !ok {
		return KindNotRegisteredError{Type: reflect.TypeOf(value)}
	}
	if slot < 0 || slot >= len(sto.masks) {
		return SlotOutOfRangeError{Slot: slot, Len: len(sto.masks)}
	}
	en, _ := sto.Entity(slot)
	sto.opQueue.enqueueComponentOp(opAddComponent, en, value, nil)
	return nil
}

func (sto *storage) EnqueueDetach(c Component, slot int) error {
	if !sto.Locked() {
		return sto.DetachByID(c, slot)
	}
	if _, ok := sto.bitFor(typeOf(c)); !ok {
		return KindNotRegisteredError{Type: typeOf(c)}
	}
	if slot < 0 || slot >= len(sto.masks) {
		return SlotOutOfRangeError{Slot: slot, Len: len(sto.masks)}
	}
	en, _ := sto.Entity(slot)
	sto.opQueue.enqueueComponentOp(opRemoveComponent, en, nil, c)
	return nil
}

func (sto *storage) EnqueueDelete(slot int) error {
	if !sto.Locked() {
		return sto.Delete(slot)
	}
	en, err := sto.Entity(slot)
	if err != nil {
		return err
	}
	sto.opQueue.enqueueDestroy(en)
	return nil
}
