package depot

import (
	"errors"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type storage struct {
	locks      int
	cfg        config
	logger     *zerolog.Logger
	components Cache[reflect.Type, column]
	masks      []mask.Mask
	pending    int
	epoch      uint64
	opQueue    opQueue
}

func newStorage(cfg config) *storage {
	logger := cfg.logger
	return &storage{
		cfg:        cfg,
		logger:     &logger,
		components: FactoryNewCache[reflect.Type, column](cfg.componentCapacity),
		masks:      make([]mask.Mask, 0, cfg.initialCapacity),
		opQueue:    newOpQueue(),
	}
}

// register assigns c the next free bit and creates its column. Registering a
// known type returns its existing bit.
func (sto *storage) register(c Component) (uint32, error) {
	key := c.typeKey()
	if bit, ok := sto.components.GetIndex(key); ok {
		return uint32(bit), nil
	}
	if sto.Locked() {
		return 0, LockedStorageError{}
	}
	if sto.components.Len() >= sto.components.Cap() {
		return 0, ComponentCapacityError{Type: c.typeName(), Capacity: sto.components.Cap()}
	}

	col := c.newColumn()
	col.grow(len(sto.masks))
	bit, err := sto.components.Register(key, col)
	if err != nil {
		return 0, err
	}
	sto.epoch++
	sto.logger.Debug().
		Str("component", c.typeName()).
		Int("bit", bit).
		Msg("component registered")
	return uint32(bit), nil
}

func (sto *storage) lookup(key reflect.Type) (uint32, column, bool) {
	bit, ok := sto.components.GetIndex(key)
	if !ok {
		return 0, nil, false
	}
	return uint32(bit), *sto.components.GetItem(bit), true
}

// createEntity reuses the lowest slot with an empty mask, or appends a new
// slot to every column. The chosen slot becomes the pending entity.
func (sto *storage) createEntity() (int, error) {
	if sto.Locked() {
		return 0, LockedStorageError{}
	}
	id := -1
	var empty mask.Mask
	for i := range sto.masks {
		if sto.masks[i] == empty {
			id = i
			break
		}
	}
	reused := id >= 0
	if !reused {
		sto.growSlots(1)
		id = len(sto.masks) - 1
	}
	sto.pending = id
	sto.epoch++
	sto.logger.Debug().Int("entity", id).Bool("reused", reused).Msg("entity created")
	return id, nil
}

// growSlots extends the mask sequence and every column together.
func (sto *storage) growSlots(n int) {
	for i := 0; i < sto.components.Len(); i++ {
		(*sto.components.GetItem(i)).grow(n)
	}
	sto.masks = append(sto.masks, make([]mask.Mask, n)...)
}

// spawn creates an entity holding values. Every value's type is checked
// before the slot is allocated.
func (sto *storage) spawn(values ...any) (int, error) {
	for _, v := range values {
		if _, _, ok := sto.lookup(reflect.TypeOf(v)); !ok {
			return 0, notRegistered(v)
		}
	}
	id, err := sto.createEntity()
	if err != nil {
		return 0, err
	}
	for _, v := range values {
		if err := sto.attach(id, v); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// attach stores value at slot id and marks its bit. A previous value is
// overwritten.
func (sto *storage) attach(id int, value any) error {
	bit, col, ok := sto.lookup(reflect.TypeOf(value))
	if !ok {
		return notRegistered(value)
	}
	if id < 0 || id >= len(sto.masks) {
		return EntityDoesNotExistError{ID: id}
	}
	if err := col.set(id, value); err != nil {
		if errors.Is(err, ErrCreateComponentNeverCalled) {
			panic(eris.Wrapf(err, "column %s has %d entries, storage has %d slots",
				col.component().typeName(), col.length(), len(sto.masks)))
		}
		return err
	}
	sto.masks[id].Mark(bit)
	return nil
}

// detach unmarks c on slot id. The stored value is kept. With toggleDetach
// the bit is flipped instead, so detaching an absent component marks it.
func (sto *storage) detach(c Component, id int) error {
	bit, _, ok := sto.lookup(c.typeKey())
	if !ok {
		return ComponentNotRegisteredError{Type: c.typeName()}
	}
	if id < 0 || id >= len(sto.masks) {
		return EntityDoesNotExistError{ID: id}
	}
	if sto.cfg.toggleDetach && !sto.masks[id].ContainsAll(bitMask(bit)) {
		sto.masks[id].Mark(bit)
		return nil
	}
	sto.masks[id].Unmark(bit)
	return nil
}

// deleteEntity clears every bit of slot id. Column values are left in place
// and will be overwritten when the slot is reused.
func (sto *storage) deleteEntity(id int) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	if id < 0 || id >= len(sto.masks) {
		return EntityDoesNotExistError{ID: id}
	}
	sto.masks[id] = mask.Mask{}
	sto.epoch++
	sto.logger.Debug().Int("entity", id).Msg("entity deleted")
	return nil
}

func (sto *storage) presence(id int) (uint32, error) {
	if id < 0 || id >= len(sto.masks) {
		return 0, EntityDoesNotExistError{ID: id}
	}
	var bits uint32
	for bit := 0; bit < sto.components.Len(); bit++ {
		if sto.masks[id].ContainsAll(bitMask(uint32(bit))) {
			bits |= 1 << bit
		}
	}
	return bits, nil
}

// componentsOf lists the components marked present on slot id, in bit order.
func (sto *storage) componentsOf(id int) []Component {
	var out []Component
	for bit := 0; bit < sto.components.Len(); bit++ {
		if sto.masks[id].ContainsAll(bitMask(uint32(bit))) {
			out = append(out, (*sto.components.GetItem(bit)).component())
		}
	}
	return out
}

func (sto *storage) registered() []Component {
	out := make([]Component, sto.components.Len())
	for bit := range out {
		out[bit] = (*sto.components.GetItem(bit)).component()
	}
	return out
}

func (sto *storage) liveEntities() int {
	var empty mask.Mask
	n := 0
	for i := range sto.masks {
		if sto.masks[i] != empty {
			n++
		}
	}
	return n
}

func (sto *storage) checkEpoch(captured uint64) error {
	if captured != sto.epoch {
		return StaleQueryError{Captured: captured, Current: sto.epoch}
	}
	return nil
}

func (sto *storage) Locked() bool {
	return sto.locks > 0
}

func (sto *storage) Lock() {
	sto.locks++
}

// Unlock releases one lock. Releasing the last one applies queued operations.
func (sto *storage) Unlock() {
	if sto.locks == 0 {
		return
	}
	sto.locks--
	if sto.locks > 0 {
		return
	}
	err := sto.processOperationQueue()
	if err != nil {
		panic(err)
	}
}

func bitMask(bit uint32) mask.Mask {
	var m mask.Mask
	m.Mark(bit)
	return m
}

func notRegistered(value any) error {
	t := reflect.TypeOf(value)
	if t == nil {
		return ComponentNotRegisteredError{Type: "<nil>"}
	}
	return ComponentNotRegisteredError{Type: t.String()}
}
