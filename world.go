package depot

import (
	"fmt"

	"go.uber.org/zap"
)

// World exposes an entity storage and a resource store together.
type World struct {
	storage   Storage
	resources *Resources
	logger    *zap.Logger
}

func newWorld() *World {
	sto := newStorage()
	return &World{
		storage:   sto,
		resources: newResources(),
		logger:    sto.(*storage).logger,
	}
}

func (w *World) Storage() Storage {
	return w.storage
}

func (w *World) Resources() *Resources {
	return w.resources
}

func (w *World) RegisterComponent(components ...Component) error {
	return w.storage.Register(components...)
}

func (w *World) CreateEntity() *EntityBuilder {
	return w.storage.Create()
}

func (w *World) Query() *Query {
	return newQuery(w.storage)
}

func (w *World) AddComponentToEntity(value any, slot int) error {
	return w.storage.AttachByID(value, slot)
}

func (w *World) DeleteComponentFromEntity(c Component, slot int) error {
	return w.storage.DetachByID(c, slot)
}

func (w *World) DeleteEntity(slot int) error {
	return w.storage.Delete(slot)
}

func (w *World) AddResource(value any) {
	w.resources.Add(value)
	w.logger.Debug("added resource", zap.String("type", fmt.Sprintf("%T", value)))
}
