package depot

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test component types
type Location struct {
	X, Y float64
}

type Size struct {
	W, H float64
}

type Health struct {
	Current int
}

type Speed struct {
	Value int
}

var (
	locationComp = FactoryNewComponent[Location]()
	sizeComp     = FactoryNewComponent[Size]()
	healthComp   = FactoryNewComponent[Health]()
	speedComp    = FactoryNewComponent[Speed]()
)

func newTestWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	w := NewWorld(opts...)
	for _, c := range []Component{locationComp, sizeComp} {
		require.NoError(t, w.RegisterComponent(c))
	}
	return w
}

func columnLen(t *testing.T, w *World, c Component) int {
	t.Helper()
	_, col, ok := w.storage.lookup(c.typeKey())
	require.True(t, ok, "component %s not registered", c.typeName())
	return col.length()
}

func TestRegisterAssignsBitsInOrder(t *testing.T) {
	tests := []struct {
		name     string
		register []Component
		wantBits map[reflect.Type]uint32
	}{
		{
			name:     "Single",
			register: []Component{healthComp},
			wantBits: map[reflect.Type]uint32{healthComp.typeKey(): 0},
		},
		{
			name:     "Call order",
			register: []Component{healthComp, speedComp, FactoryNewComponent[uint32]()},
			wantBits: map[reflect.Type]uint32{
				healthComp.typeKey():                    0,
				speedComp.typeKey():                     1,
				FactoryNewComponent[uint32]().typeKey(): 2,
			},
		},
		{
			name:     "Repeated registration",
			register: []Component{speedComp, healthComp, speedComp, speedComp, locationComp},
			wantBits: map[reflect.Type]uint32{
				speedComp.typeKey():    0,
				healthComp.typeKey():   1,
				locationComp.typeKey(): 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			for _, c := range tt.register {
				require.NoError(t, w.RegisterComponent(c))
			}
			require.Len(t, w.Components(), len(tt.wantBits))
			for _, c := range w.Components() {
				bit, ok := w.ComponentBit(c)
				require.True(t, ok)
				require.Equal(t, tt.wantBits[c.typeKey()], bit, c.typeName())
			}
		})
	}
}

func TestRegisterUnknownTypeHasNoBit(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.RegisterComponent(healthComp))

	_, ok := w.ComponentBit(FactoryNewComponent[string]())
	require.False(t, ok)
}

func TestRegisterCreatesEmptyColumn(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.RegisterComponent(healthComp))
	require.Equal(t, 0, columnLen(t, w, healthComp))
}

func TestRegisterAfterEntitiesExtendsColumn(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Spawn(Location{})
	require.NoError(t, err)
	_, err = w.Spawn(Size{})
	require.NoError(t, err)

	require.NoError(t, w.RegisterComponent(healthComp))
	require.Equal(t, 2, columnLen(t, w, healthComp))

	require.NoError(t, w.AddComponentToEntity(1, Health{Current: 3}))
	bits, err := w.PresenceMask(1)
	require.NoError(t, err)
	require.Equal(t, uint32(0b110), bits)
}

type (
	cap0 struct{}
	cap1 struct{}
	cap2 struct{}
	cap3 struct{}
)

func TestRegisterCapacity(t *testing.T) {
	w := NewWorld()
	register := func(i int) error {
		switch i {
		case 0:
			return w.RegisterComponent(FactoryNewComponent[cap0]())
		case 1:
			return w.RegisterComponent(FactoryNewComponent[cap1]())
		case 2:
			return w.RegisterComponent(FactoryNewComponent[cap2]())
		case 3:
			return w.RegisterComponent(FactoryNewComponent[cap3]())
		}
		return nil
	}

	t.Run("Configured ceiling", func(t *testing.T) {
		w = NewWorld(WithComponentCapacity(3))
		for i := 0; i < 3; i++ {
			require.NoError(t, register(i))
		}
		err := register(3)
		var capErr ComponentCapacityError
		require.ErrorAs(t, err, &capErr)
		require.Equal(t, 3, capErr.Capacity)
		require.Len(t, w.Components(), 3)

		// Known types are still accepted at the ceiling.
		require.NoError(t, register(0))
	})

	t.Run("Ceiling cannot exceed mask width", func(t *testing.T) {
		w = NewWorld(WithComponentCapacity(MaxComponentTypes + 1))
		require.Equal(t, MaxComponentTypes, w.storage.components.Cap())
	})
}

func TestRegisterDefaultCeilingIs32(t *testing.T) {
	sto := newStorage(defaultConfig())
	for i := 0; i < MaxComponentTypes; i++ {
		_, err := sto.components.Register(reflect.ArrayOf(i, reflect.TypeFor[byte]()), nil)
		require.NoError(t, err)
	}
	_, err := sto.register(healthComp)
	require.ErrorAs(t, err, new(ComponentCapacityError))
}

func TestCreateEntity(t *testing.T) {
	w := newTestWorld(t)

	b, err := w.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, 0, b.ID())

	require.Equal(t, 1, columnLen(t, w, locationComp))
	require.Equal(t, 1, columnLen(t, w, sizeComp))
	require.Equal(t, 1, w.SlotCount())
	require.False(t, locationComp.CheckEntity(w, 0))
	require.Nil(t, locationComp.get(w.storage, 0))
}

func TestCreateEntityReusesLowestFreeSlot(t *testing.T) {
	w := newTestWorld(t)
	for i := 0; i < 4; i++ {
		_, err := w.Spawn(Location{X: float64(i)})
		require.NoError(t, err)
	}
	require.NoError(t, w.DeleteEntity(2))
	require.NoError(t, w.DeleteEntity(1))

	b, err := w.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, 1, b.ID())
	require.Equal(t, 1, w.PendingEntity())
	require.Equal(t, 4, w.SlotCount())
	require.Equal(t, 4, columnLen(t, w, locationComp))
	_, err = b.WithComponent(Size{})
	require.NoError(t, err)

	b, err = w.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, 2, b.ID())
	_, err = b.WithComponent(Size{})
	require.NoError(t, err)

	b, err = w.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, 4, b.ID())
	require.Equal(t, 5, columnLen(t, w, locationComp))
	require.Equal(t, 5, columnLen(t, w, sizeComp))
}

func TestCreateEntityWithoutComponentsStaysFree(t *testing.T) {
	w := newTestWorld(t)
	first, err := w.CreateEntity()
	require.NoError(t, err)
	second, err := w.CreateEntity()
	require.NoError(t, err)

	// An entity with no components has an empty mask and is handed out again.
	require.Equal(t, first.ID(), second.ID())
	require.Equal(t, 1, w.SlotCount())
}

func TestColumnsStayInSync(t *testing.T) {
	w := newTestWorld(t)
	for i := 0; i < 10; i++ {
		_, err := w.Spawn(Size{W: float64(i)})
		require.NoError(t, err)
		if i%3 == 0 {
			require.NoError(t, w.DeleteEntity(i/2))
		}
		if i == 5 {
			require.NoError(t, w.RegisterComponent(healthComp))
		}
		for _, c := range w.Components() {
			require.Equal(t, w.SlotCount(), columnLen(t, w, c), c.typeName())
		}
	}
}

func TestPresenceMaskUpdatedOnAttach(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.RegisterComponent(healthComp))
	require.NoError(t, w.RegisterComponent(speedComp))

	b, err := w.CreateEntity()
	require.NoError(t, err)
	b, err = b.WithComponent(Health{Current: 100})
	require.NoError(t, err)
	_, err = b.WithComponent(Speed{Value: 10})
	require.NoError(t, err)

	bits, err := w.PresenceMask(0)
	require.NoError(t, err)
	require.Equal(t, uint32(3), bits)

	_, err = w.Spawn(Speed{Value: 10})
	require.NoError(t, err)
	bits, err = w.PresenceMask(1)
	require.NoError(t, err)
	require.Equal(t, uint32(2), bits)
}

func TestAddComponentToEntity(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.RegisterComponent(healthComp))
	require.NoError(t, w.RegisterComponent(speedComp))

	_, err := w.Spawn(Health{Current: 100})
	require.NoError(t, err)
	require.NoError(t, w.AddComponentToEntity(0, Speed{Value: 10}))

	bits, err := w.PresenceMask(0)
	require.NoError(t, err)
	require.Equal(t, uint32(3), bits)

	cell, ok := speedComp.GetFromEntity(w, 0)
	require.True(t, ok)
	speed, err := cell.Load()
	require.NoError(t, err)
	require.Equal(t, Speed{Value: 10}, speed)

	// Overwrites silently.
	require.NoError(t, w.AddComponentToEntity(0, Speed{Value: 20}))
	cell, _ = speedComp.GetFromEntity(w, 0)
	speed, _ = cell.Load()
	require.Equal(t, Speed{Value: 20}, speed)
}

func TestAddComponentToEntityErrors(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Spawn(Location{})
	require.NoError(t, err)

	tests := []struct {
		name  string
		id    int
		value any
		check func(t *testing.T, err error)
	}{
		{
			name:  "Unregistered type",
			id:    0,
			value: Health{},
			check: func(t *testing.T, err error) {
				var target ComponentNotRegisteredError
				require.ErrorAs(t, err, &target)
				require.Equal(t, "depot.Health", target.Type)
			},
		},
		{
			name:  "Nil value",
			id:    0,
			value: nil,
			check: func(t *testing.T, err error) {
				require.ErrorAs(t, err, new(ComponentNotRegisteredError))
			},
		},
		{
			name:  "Pointer to registered type",
			id:    0,
			value: &Location{},
			check: func(t *testing.T, err error) {
				require.ErrorAs(t, err, new(ComponentNotRegisteredError))
			},
		},
		{
			name:  "Out of range",
			id:    7,
			value: Size{},
			check: func(t *testing.T, err error) {
				var target EntityDoesNotExistError
				require.ErrorAs(t, err, &target)
				require.Equal(t, 7, target.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.AddComponentToEntity(tt.id, tt.value)
			require.Error(t, err)
			tt.check(t, err)

			bits, err := w.PresenceMask(0)
			require.NoError(t, err)
			require.Equal(t, uint32(1), bits)
		})
	}
}

func TestAttachToMissingColumnEntryPanics(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Spawn(Location{})
	require.NoError(t, err)

	// Break the column/slot invariant by hand.
	_, col, _ := w.storage.lookup(sizeComp.typeKey())
	col.(*typedColumn[Size]).cells = nil

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok, "expected panic with error")
		require.ErrorIs(t, err, ErrCreateComponentNeverCalled)
	}()
	_ = w.storage.attach(0, Size{})
	t.Fatal("attach did not panic")
}

func TestDeleteComponentFromEntity(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.RegisterComponent(healthComp))
	require.NoError(t, w.RegisterComponent(speedComp))

	_, err := w.Spawn(Health{Current: 100}, Speed{Value: 50})
	require.NoError(t, err)

	require.NoError(t, w.DeleteComponentFromEntity(healthComp, 0))
	bits, err := w.PresenceMask(0)
	require.NoError(t, err)
	require.Equal(t, uint32(2), bits)

	// The value stays in its column.
	require.NotNil(t, healthComp.get(w.storage, 0))
	_, ok := healthComp.GetFromEntity(w, 0)
	require.False(t, ok)
}

func TestDeleteComponentFromEntityErrors(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Spawn(Location{})
	require.NoError(t, err)

	err = w.DeleteComponentFromEntity(healthComp, 0)
	require.ErrorAs(t, err, new(ComponentNotRegisteredError))

	err = w.DeleteComponentFromEntity(locationComp, 3)
	require.ErrorAs(t, err, new(EntityDoesNotExistError))
}

func TestDetachClearsOnlyPresentBit(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Spawn(Size{W: 1})
	require.NoError(t, err)

	require.NoError(t, w.DeleteComponentFromEntity(locationComp, 0))
	bits, err := w.PresenceMask(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0b10), bits, "detaching an absent component must not mark it")

	require.NoError(t, w.DeleteComponentFromEntity(sizeComp, 0))
	require.NoError(t, w.DeleteComponentFromEntity(sizeComp, 0))
	bits, err = w.PresenceMask(0)
	require.NoError(t, err)
	require.Zero(t, bits)
}

func TestDetachToggleCompatibility(t *testing.T) {
	w := newTestWorld(t, WithToggleDetach())
	_, err := w.Spawn(Size{W: 1})
	require.NoError(t, err)

	// Location was never attached; toggling marks it present.
	require.NoError(t, w.DeleteComponentFromEntity(locationComp, 0))
	bits, err := w.PresenceMask(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0b11), bits)

	require.NoError(t, w.DeleteComponentFromEntity(locationComp, 0))
	bits, err = w.PresenceMask(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0b10), bits)

	// A query now sees the entity with a nil Location cell.
	require.NoError(t, w.DeleteComponentFromEntity(locationComp, 0))
	q, err := w.Query().WithComponent(locationComp)
	require.NoError(t, err)
	res, err := q.Run()
	require.NoError(t, err)
	locations, err := locationComp.Column(res, 0)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	require.Nil(t, locations[0])
}

func TestDetachedValueReturnsWhenBitReset(t *testing.T) {
	w := newTestWorld(t, WithToggleDetach())
	_, err := w.Spawn(Location{X: 4})
	require.NoError(t, err)

	require.NoError(t, w.DeleteComponentFromEntity(locationComp, 0))
	require.NoError(t, w.DeleteComponentFromEntity(locationComp, 0))

	cell, ok := locationComp.GetFromEntity(w, 0)
	require.True(t, ok)
	loc, err := cell.Load()
	require.NoError(t, err)
	require.Equal(t, Location{X: 4}, loc)
}

func TestDeleteEntity(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.RegisterComponent(healthComp))
	require.NoError(t, w.RegisterComponent(speedComp))

	err := w.DeleteEntity(0)
	require.ErrorAs(t, err, new(EntityDoesNotExistError))

	_, err = w.Spawn(Health{Current: 100})
	require.NoError(t, err)
	require.NoError(t, w.DeleteEntity(0))

	bits, err := w.PresenceMask(0)
	require.NoError(t, err)
	require.Zero(t, bits)
	require.Equal(t, 0, w.EntityCount())
	require.Equal(t, 1, w.SlotCount())

	// Stale data remains until overwritten.
	require.NotNil(t, healthComp.get(w.storage, 0))

	err = w.DeleteEntity(-1)
	require.ErrorAs(t, err, new(EntityDoesNotExistError))
}

func TestCreatedEntitiesUseDeletedEntitiesSpace(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.RegisterComponent(healthComp))

	_, err := w.Spawn(Health{Current: 100})
	require.NoError(t, err)
	_, err = w.Spawn(Health{Current: 50})
	require.NoError(t, err)

	require.NoError(t, w.DeleteEntity(0))

	id, err := w.Spawn(Health{Current: 25})
	require.NoError(t, err)
	require.Equal(t, 0, id)

	bits, err := w.PresenceMask(0)
	require.NoError(t, err)
	require.Equal(t, uint32(1), bits)

	cell, ok := healthComp.GetFromEntity(w, 0)
	require.True(t, ok)
	health, err := cell.Load()
	require.NoError(t, err)
	require.Equal(t, Health{Current: 25}, health)
}

func TestSpawnIsAtomic(t *testing.T) {
	w := newTestWorld(t)

	_, err := w.Spawn(Location{}, Health{})
	require.ErrorAs(t, err, new(ComponentNotRegisteredError))
	require.Equal(t, 0, w.SlotCount())
}

func TestPresenceMaskOutOfRange(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.PresenceMask(0)
	require.ErrorAs(t, err, new(EntityDoesNotExistError))
}

func TestRegisterZeroHandle(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.RegisterComponent(AccessibleComponent[Health]{}))

	comps := w.Components()
	require.Len(t, comps, 3)
	require.NotPanics(t, func() { comps[2].ID() })
}
