package depot

import "github.com/TheBitDrifter/table"

type factory struct{}

var Factory factory

func (f factory) NewStorage() Storage {
	return newStorage()
}

func (f factory) NewQuery(storage Storage) *Query {
	return newQuery(storage)
}

func (f factory) NewCursor(query *Query) *Cursor {
	return newCursor(query)
}

func (f factory) NewWorld() *World {
	return newWorld()
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{
		ElementType: table.FactoryNewElementType[T](),
	}
}

func FactoryNewCache[K comparable, T any](cap int) Cache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: cap,
	}
}
