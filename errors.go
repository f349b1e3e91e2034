package depot

import (
	"errors"
	"fmt"
)

// ErrCreateComponentNeverCalled reports a column that is missing an entry for a
// slot the storage believes exists. Storage panics with it; it is never returned.
var ErrCreateComponentNeverCalled = errors.New("attempting to add component to an entity without creating component first")

// ErrBorrowReleased is the panic value for reading through a released borrow.
var ErrBorrowReleased = errors.New("component borrow used after release")

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type ComponentNotRegisteredError struct {
	Type string
}

func (e ComponentNotRegisteredError) Error() string {
	return fmt.Sprintf("component was never registered: %s", e.Type)
}

type EntityDoesNotExistError struct {
	ID int
}

func (e EntityDoesNotExistError) Error() string {
	return fmt.Sprintf("entity does not exist: %d", e.ID)
}

type ComponentCapacityError struct {
	Type     string
	Capacity int
}

func (e ComponentCapacityError) Error() string {
	return fmt.Sprintf("cannot register %s: component capacity reached (%d)", e.Type, e.Capacity)
}

// StaleQueryError is returned when a query or its result is used after the
// storage was structurally mutated.
type StaleQueryError struct {
	Captured, Current uint64
}

func (e StaleQueryError) Error() string {
	return fmt.Sprintf("query is stale: captured epoch %d, storage at epoch %d", e.Captured, e.Current)
}

type StaleBuilderError struct {
	ID, Pending int
}

func (e StaleBuilderError) Error() string {
	return fmt.Sprintf("entity builder for %d is stale: pending entity is now %d", e.ID, e.Pending)
}

type ComponentTypeMismatchError struct {
	Want, Got string
}

func (e ComponentTypeMismatchError) Error() string {
	return fmt.Sprintf("component type mismatch: want %s, got %s", e.Want, e.Got)
}

// BorrowError reports conflicting access to a single component value.
type BorrowError struct {
	Type    string
	Mutable bool
}

func (e BorrowError) Error() string {
	if e.Mutable {
		return fmt.Sprintf("%s already borrowed: cannot borrow mutably", e.Type)
	}
	return fmt.Sprintf("%s already mutably borrowed: cannot borrow", e.Type)
}
