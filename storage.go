package depot

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ Storage = &storage{}

// maxLocks bounds the lock bits handed out to cursors.
const maxLocks = 64

type storage struct {
	id          uuid.UUID
	logger      *zap.Logger
	retainStale bool
	locks       mask.Mask
	kinds       Cache[reflect.Type, Component]
	columns     [][]*Cell
	masks       []mask.Mask
	generations []uint32
	opQueue     opQueue
}

func newStorage() Storage {
	id := uuid.New()
	return &storage{
		id:          id,
		logger:      Config.logger.With(zap.String("store", id.String())),
		retainStale: Config.retainStale,
		kinds:       FactoryNewCache[reflect.Type, Component](MaxKinds),
	}
}

// Create targets the lowest tombstoned slot, or appends a new slot when none
// exists. The returned builder carries its own handle to that slot.
func (sto *storage) Create() *EntityBuilder {
	if sto.Locked() {
		return &EntityBuilder{sto: sto, err: LockedStorageError{}}
	}
	slot := sto.create()
	return &EntityBuilder{
		sto:    sto,
		entity: Entity{slot: slot, generation: sto.generations[slot]},
	}
}

func (sto *storage) create() int {
	for slot := range sto.masks {
		if !sto.masks[slot].IsEmpty() {
			continue
		}
		for _, column := range sto.columns {
			column[slot] = nil
		}
		sto.generations[slot] = nextGeneration(sto.generations[slot])
		sto.logger.Debug("reused slot", zap.Int("slot", slot))
		return slot
	}
	for k := range sto.columns {
		sto.columns[k] = append(sto.columns[k], nil)
	}
	sto.masks = append(sto.masks, mask.Mask{})
	sto.generations = append(sto.generations, 1)
	slot := len(sto.masks) - 1
	sto.logger.Debug("grew slots", zap.Int("slot", slot))
	return slot
}

func (sto *storage) AttachByID(value any, slot int) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	if slot < 0 || slot >= len(sto.masks) {
		return SlotOutOfRangeError{Slot: slot, Len: len(sto.masks)}
	}
	return sto.attach(value, slot)
}

func (sto *storage) attach(value any, slot int) error {
	typ := reflect.TypeOf(value)
	bit, ok := sto.bitFor(typ)
	if !ok {
		return KindNotRegisteredError{Type: typ}
	}
	sto.columns[bit][slot] = newCell(value)
	sto.masks[slot].Mark(bit)
	return nil
}

// DetachByID clears the kind's bit on slot if it is set. Detaching an absent
// kind is a no-op.
func (sto *storage) DetachByID(c Component, slot int) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	bit, ok := sto.bitFor(typeOf(c))
	if !ok {
		return KindNotRegisteredError{Type: typeOf(c)}
	}
	if slot < 0 || slot >= len(sto.masks) {
		return SlotOutOfRangeError{Slot: slot, Len: len(sto.masks)}
	}
	if !sto.masks[slot].Contains(bit) {
		return nil
	}
	sto.masks[slot].Unmark(bit)
	if !sto.retainStale {
		sto.columns[bit][slot] = nil
	}
	return nil
}

// Delete tombstones slot. The slot becomes eligible for reuse and every
// handle to it is invalidated.
func (sto *storage) Delete(slot int) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	if slot < 0 || slot >= len(sto.masks) {
		return EntityDoesNotExistError{Slot: slot}
	}
	sto.masks[slot] = mask.Mask{}
	sto.generations[slot] = nextGeneration(sto.generations[slot])
	if !sto.retainStale {
		for _, column := range sto.columns {
			column[slot] = nil
		}
	}
	sto.logger.Debug("tombstoned slot", zap.Int("slot", slot))
	return nil
}

func (sto *storage) Mask(slot int) (mask.Mask, error) {
	if slot < 0 || slot >= len(sto.masks) {
		return mask.Mask{}, SlotOutOfRangeError{Slot: slot, Len: len(sto.masks)}
	}
	return sto.masks[slot], nil
}

// Cell returns the live value of kind c on slot.
func (sto *storage) Cell(c Component, slot int) (*Cell, error) {
	bit, ok := sto.bitFor(typeOf(c))
	if !ok {
		return nil, KindNotRegisteredError{Type: typeOf(c)}
	}
	if slot < 0 || slot >= len(sto.masks) {
		return nil, SlotOutOfRangeError{Slot: slot, Len: len(sto.masks)}
	}
	if !sto.masks[slot].Contains(bit) {
		return nil, ComponentNotFoundError{Component: c, Slot: slot}
	}
	return sto.cellAt(bit, slot), nil
}

// cellAt assumes the kind's bit is set on slot.
func (sto *storage) cellAt(bit uint32, slot int) *Cell {
	cell := sto.columns[bit][slot]
	if cell == nil {
		kind := *sto.kinds.GetItem(int(bit))
		panic(fmt.Sprintf("depot: slot %d has %v set without a value", slot, typeOf(kind)))
	}
	return cell
}

func (sto *storage) Entity(slot int) (Entity, error) {
	if slot < 0 || slot >= len(sto.masks) {
		return Entity{}, EntityDoesNotExistError{Slot: slot}
	}
	return Entity{slot: slot, generation: sto.generations[slot]}, nil
}

func (sto *storage) Valid(en Entity) bool {
	return en.generation != 0 &&
		en.slot >= 0 &&
		en.slot < len(sto.generations) &&
		sto.generations[en.slot] == en.generation
}

func (sto *storage) Len() int {
	return len(sto.masks)
}

func (sto *storage) Locked() bool {
	return !sto.locks.IsEmpty()
}

func (sto *storage) AddLock(bit uint32) {
	sto.locks.Mark(bit)
}

// RemoveLock releases bit and, once no lock remains, applies every queued
// operation.
func (sto *storage) RemoveLock(bit uint32) error {
	sto.locks.Unmark(bit)
	if sto.Locked() {
		return nil
	}
	return sto.processOperationQueue()
}

func (sto *storage) acquireLock() (uint32, error) {
	for bit := uint32(0); bit < maxLocks; bit++ {
		if !sto.locks.Contains(bit) {
			sto.AddLock(bit)
			return bit, nil
		}
	}
	return 0, fmt.Errorf("no free lock bit: %w", LockedStorageError{})
}

func nextGeneration(gen uint32) uint32 {
	gen++
	if gen == 0 {
		gen = 1
	}
	return gen
}
