package depot

import (
	"reflect"
)

// componentType is the storage-facing half of a Component: a stable type key
// and a constructor for its column.
type componentType interface {
	typeKey() reflect.Type
	typeName() string
	newColumn() column
}

var _ Component = AccessibleComponent[struct{}]{}

func (c AccessibleComponent[T]) typeKey() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c AccessibleComponent[T]) typeName() string {
	return typeName[T]()
}

func (c AccessibleComponent[T]) newColumn() column {
	if c.ElementType == nil {
		c = FactoryNewComponent[T]()
	}
	return &typedColumn[T]{handle: c}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
