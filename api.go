package depot

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// Component identifies a registered component type. Values are created with
// FactoryNewComponent.
type Component interface {
	table.ElementType
	componentType
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(K, T) (int, error)
	Len() int
	Cap() int
}

// AccessibleComponent is a Component bound to its Go type, giving typed access
// to stored values.
type AccessibleComponent[T any] struct {
	table.ElementType
}

type SimpleCache[K comparable, T any] struct {
	items       []T
	itemIndices map[K]int
	maxCapacity int
}

// Warning: holds the storage lock while iterating!
type Cursor struct {
	query   *QueryBuilder
	storage *storage

	result   *QueryResult
	position int
	err      error

	initialized bool
	holdsLock   bool
}

// QueryBuilder accumulates required component types against a live storage.
type QueryBuilder struct {
	sto        *storage
	epoch      uint64
	required   mask.Mask
	components []Component
}

// QueryResult holds the matching slot indices and, for each required
// component in order, the cells at those slots. Entry k of every column and
// of the indices refers to the same entity.
type QueryResult struct {
	sto        *storage
	epoch      uint64
	indices    []int
	columns    []any
	components []Component
}

// EntityBuilder attaches components to a freshly created entity.
type EntityBuilder struct {
	sto   *storage
	id    int
	epoch uint64
}
