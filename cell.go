package depot

// Cell holds one stored component value and tracks outstanding borrows of it.
// Any number of shared borrows may coexist; a mutable borrow excludes all others.
type Cell[T any] struct {
	value   T
	readers int
	writing bool
}

// Ref is a shared borrow of a Cell.
type Ref[T any] struct {
	cell *Cell[T]
}

// RefMut is an exclusive borrow of a Cell.
type RefMut[T any] struct {
	cell *Cell[T]
}

func newCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// TryBorrow returns a shared borrow, or a BorrowError if the value is
// mutably borrowed.
func (c *Cell[T]) TryBorrow() (*Ref[T], error) {
	if c.writing {
		return nil, BorrowError{Type: typeName[T]()}
	}
	c.readers++
	return &Ref[T]{cell: c}, nil
}

// TryBorrowMut returns an exclusive borrow, or a BorrowError if any other
// borrow is active.
func (c *Cell[T]) TryBorrowMut() (*RefMut[T], error) {
	if c.writing || c.readers > 0 {
		return nil, BorrowError{Type: typeName[T](), Mutable: true}
	}
	c.writing = true
	return &RefMut[T]{cell: c}, nil
}

// Borrow is TryBorrow that panics on conflict.
func (c *Cell[T]) Borrow() *Ref[T] {
	ref, err := c.TryBorrow()
	if err != nil {
		panic(err)
	}
	return ref
}

// BorrowMut is TryBorrowMut that panics on conflict.
func (c *Cell[T]) BorrowMut() *RefMut[T] {
	ref, err := c.TryBorrowMut()
	if err != nil {
		panic(err)
	}
	return ref
}

// Load copies the value out under a short-lived shared borrow.
func (c *Cell[T]) Load() (T, error) {
	ref, err := c.TryBorrow()
	if err != nil {
		var zero T
		return zero, err
	}
	defer ref.Release()
	return *ref.Get(), nil
}

func (c *Cell[T]) Borrowed() (readers int, mutable bool) {
	return c.readers, c.writing
}

// Get panics once the borrow is released.
func (r *Ref[T]) Get() *T {
	if r.cell == nil {
		panic(ErrBorrowReleased)
	}
	return &r.cell.value
}

// Release ends the borrow. Releasing an already released borrow does nothing.
func (r *Ref[T]) Release() {
	if r.cell == nil {
		return
	}
	r.cell.readers--
	r.cell = nil
}

// Get panics once the borrow is released.
func (r *RefMut[T]) Get() *T {
	if r.cell == nil {
		panic(ErrBorrowReleased)
	}
	return &r.cell.value
}

// Release ends the borrow. Releasing an already released borrow does nothing.
func (r *RefMut[T]) Release() {
	if r.cell == nil {
		return
	}
	r.cell.writing = false
	r.cell = nil
}
