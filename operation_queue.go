package depot

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
)

type operation struct {
	typ    operationType
	id     int
	values []any
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
)

type opQueue struct {
	createOps      []operation
	destroyOps     []operation
	pendingDestroy map[int]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[int]struct{}),
	}
}

func (q *opQueue) len() int {
	return len(q.createOps) + len(q.destroyOps)
}

func (sto *storage) processOperationQueue() error {
	if sto.opQueue.len() == 0 {
		return nil
	}
	sto.logger.Debug().
		Int("creates", len(sto.opQueue.createOps)).
		Int("destroys", len(sto.opQueue.destroyOps)).
		Msg("processing queued operations")

	// Process creates first
	for _, op := range sto.opQueue.createOps {
		if _, err := sto.spawn(op.values...); err != nil {
			return eris.Wrap(err, "failed to process queued entity creation")
		}
	}

	// Process destroys last
	for _, op := range sto.opQueue.destroyOps {
		if err := sto.deleteEntity(op.id); err != nil {
			return eris.Wrapf(err, "failed to delete queued entity %d", op.id)
		}
	}

	sto.opQueue.createOps = sto.opQueue.createOps[:0]
	sto.opQueue.destroyOps = sto.opQueue.destroyOps[:0]
	clear(sto.opQueue.pendingDestroy)
	return nil
}

// enqueueNewEntity spawns immediately when unlocked, otherwise defers the
// spawn until the last lock is released.
func (sto *storage) enqueueNewEntity(values ...any) error {
	if !sto.Locked() {
		_, err := sto.spawn(values...)
		return err
	}
	for _, v := range values {
		if _, _, ok := sto.lookup(reflect.TypeOf(v)); !ok {
			return notRegistered(v)
		}
	}
	sto.opQueue.createOps = append(sto.opQueue.createOps, operation{
		typ:    opCreate,
		values: values,
	})
	return nil
}

// enqueueDeleteEntity deletes immediately when unlocked. Repeated requests
// for the same entity while locked are collapsed, and a slot that is already
// free is skipped so a queued create that reuses it survives the batch.
func (sto *storage) enqueueDeleteEntity(id int) error {
	if !sto.Locked() {
		return sto.deleteEntity(id)
	}
	if id < 0 || id >= len(sto.masks) {
		return EntityDoesNotExistError{ID: id}
	}
	if sto.masks[id] == (mask.Mask{}) {
		return nil
	}
	if _, exists := sto.opQueue.pendingDestroy[id]; exists {
		return nil
	}
	sto.opQueue.pendingDestroy[id] = struct{}{}
	sto.opQueue.destroyOps = append(sto.opQueue.destroyOps, operation{
		typ: opDestroy,
		id:  id,
	})
	return nil
}
