package depot

import (
	"github.com/rotisserie/eris"
)

// World wires component storage and resources together.
type World struct {
	storage   *storage
	resources resources
	logger    *Logger
}

func NewWorld(opts ...Option) *World {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	sto := newStorage(cfg)
	return &World{
		storage:   sto,
		resources: newResources(),
		logger:    &Logger{sto.logger},
	}
}

func (w *World) Logger() *Logger {
	return w.logger
}

// RegisterComponent registers c. Registering an already known component is a
// no-op.
func (w *World) RegisterComponent(c Component) error {
	if _, err := w.storage.register(c); err != nil {
		return eris.Wrapf(err, "failed to register component %s", c.typeName())
	}
	return nil
}

// Register registers T and returns its handle.
func Register[T any](w *World) (AccessibleComponent[T], error) {
	c := FactoryNewComponent[T]()
	return c, w.RegisterComponent(c)
}

// ComponentBit returns the bit assigned to c.
func (w *World) ComponentBit(c Component) (uint32, bool) {
	bit, _, ok := w.storage.lookup(c.typeKey())
	return bit, ok
}

// Components returns the registered components in bit order.
func (w *World) Components() []Component {
	return w.storage.registered()
}

// CreateEntity allocates a slot, reusing the lowest empty one, and returns a
// builder for it.
func (w *World) CreateEntity() (*EntityBuilder, error) {
	id, err := w.storage.createEntity()
	if err != nil {
		return nil, eris.Wrap(err, "failed to create entity")
	}
	return newEntityBuilder(w.storage, id), nil
}

// Spawn creates an entity holding values. Nothing is allocated if any value's
// type is unregistered.
func (w *World) Spawn(values ...any) (int, error) {
	id, err := w.storage.spawn(values...)
	if err != nil {
		return 0, eris.Wrap(err, "failed to spawn entity")
	}
	return id, nil
}

// PendingEntity returns the most recently created slot.
func (w *World) PendingEntity() int {
	return w.storage.pending
}

func (w *World) AddComponentToEntity(id int, value any) error {
	if err := w.storage.attach(id, value); err != nil {
		return eris.Wrapf(err, "failed to add component to entity %d", id)
	}
	return nil
}

// DeleteComponentFromEntity marks c absent on entity id. The stored value is
// not cleared.
func (w *World) DeleteComponentFromEntity(c Component, id int) error {
	if err := w.storage.detach(c, id); err != nil {
		return eris.Wrapf(err, "failed to delete component %s from entity %d", c.typeName(), id)
	}
	return nil
}

// DeleteEntity marks every component of entity id absent. The slot is
// reused by a later CreateEntity.
func (w *World) DeleteEntity(id int) error {
	if err := w.storage.deleteEntity(id); err != nil {
		return eris.Wrapf(err, "failed to delete entity %d", id)
	}
	return nil
}

// EnqueueNewEntity spawns now, or after the last Unlock if the world is locked.
func (w *World) EnqueueNewEntity(values ...any) error {
	if err := w.storage.enqueueNewEntity(values...); err != nil {
		return eris.Wrap(err, "failed to enqueue entity creation")
	}
	return nil
}

// EnqueueDeleteEntity deletes now, or after the last Unlock if the world is
// locked.
func (w *World) EnqueueDeleteEntity(id int) error {
	if err := w.storage.enqueueDeleteEntity(id); err != nil {
		return eris.Wrapf(err, "failed to enqueue deletion of entity %d", id)
	}
	return nil
}

// PresenceMask returns the component bits set for entity id.
func (w *World) PresenceMask(id int) (uint32, error) {
	bits, err := w.storage.presence(id)
	if err != nil {
		return 0, eris.Wrap(err, "failed to read presence mask")
	}
	return bits, nil
}

// SlotCount returns the number of allocated slots, live or not.
func (w *World) SlotCount() int {
	return len(w.storage.masks)
}

// EntityCount returns the number of slots with at least one component.
func (w *World) EntityCount() int {
	return w.storage.liveEntities()
}

func (w *World) Query() *QueryBuilder {
	return newQuery(w.storage)
}

func (w *World) NewCursor(q *QueryBuilder) *Cursor {
	return newCursor(q, w.storage)
}

func (w *World) Locked() bool {
	return w.storage.Locked()
}

func (w *World) Lock() {
	w.storage.Lock()
}

func (w *World) Unlock() {
	w.storage.Unlock()
}
