package depot

import "reflect"

// column is the type-erased view of one component type's storage. Entry i
// belongs to slot i; a nil entry means no value was ever stored there.
type column interface {
	component() Component
	length() int
	grow(n int)
	set(slot int, value any) error
	gather(slots []int) any
}

type typedColumn[T any] struct {
	handle AccessibleComponent[T]
	cells  []*Cell[T]
}

func (c *typedColumn[T]) component() Component {
	return c.handle
}

func (c *typedColumn[T]) length() int {
	return len(c.cells)
}

func (c *typedColumn[T]) grow(n int) {
	c.cells = append(c.cells, make([]*Cell[T], n)...)
}

func (c *typedColumn[T]) set(slot int, value any) error {
	v, ok := value.(T)
	if !ok {
		return ComponentTypeMismatchError{
			Want: typeName[T](),
			Got:  reflect.TypeOf(value).String(),
		}
	}
	if slot < 0 || slot >= len(c.cells) {
		return ErrCreateComponentNeverCalled
	}
	c.cells[slot] = newCell(v)
	return nil
}

func (c *typedColumn[T]) get(slot int) *Cell[T] {
	if slot < 0 || slot >= len(c.cells) {
		return nil
	}
	return c.cells[slot]
}

// gather returns a []*Cell[T] holding the cells at slots, in order.
func (c *typedColumn[T]) gather(slots []int) any {
	out := make([]*Cell[T], len(slots))
	for i, slot := range slots {
		out[i] = c.cells[slot]
	}
	return out
}
