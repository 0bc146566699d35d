/*
Package depot provides an in-memory entity-component data store.

Entities are positional slots. Every slot has a presence mask with one bit per
registered component kind, and every kind owns a column holding one optional
value per slot. Queries filter slots by mask and gather the requested columns
aligned by position.

Core Concepts:

  - Slot: the index of an entity in the presence index and in every column.
  - Component: a registered kind of data; kinds receive bits in registration order.
  - Tombstone: a slot with an empty mask, reused by the next Create.
  - Query: an AND filter over kinds, returning matching slots and their cells.

Basic Usage:

	storage := depot.Factory.NewStorage()

	health := depot.FactoryNewComponent[Health]()
	speed := depot.FactoryNewComponent[Speed]()
	storage.Register(health, speed)

	storage.Create().With(Health{100})
	storage.Create().With(Health{5}, Speed{1.0})

	result, _ := depot.Factory.NewQuery(storage).With(health, speed).Run()
	for i, slot := range result.Indices {
		hp, _ := health.Read(result.Columns[0][i])
		fmt.Println(slot, hp)
	}

Component values live in cells that can be shared between query results and
borrowed for reading or exclusively for writing. Conflicting borrows fail.
*/
package depot
