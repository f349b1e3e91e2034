package depot

import (
	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
)

func newQuery(sto *storage) *QueryBuilder {
	return &QueryBuilder{
		sto:   sto,
		epoch: sto.epoch,
	}
}

// WithComponent adds c to the required set. Order is kept and duplicates are
// allowed; each occurrence yields its own result column. The handle recorded
// for the result is the one the type was registered with.
func (q *QueryBuilder) WithComponent(c Component) (*QueryBuilder, error) {
	bit, col, ok := q.sto.lookup(c.typeKey())
	if !ok {
		return q, ComponentNotRegisteredError{Type: c.typeName()}
	}
	q.required.Mark(bit)
	q.components = append(q.components, col.component())
	return q, nil
}

// With is WithComponent keyed by type parameter.
func With[T any](q *QueryBuilder) (*QueryBuilder, error) {
	return q.WithComponent(AccessibleComponent[T]{})
}

// Mask returns the required set as a bitmask.
func (q *QueryBuilder) Mask() mask.Mask {
	return q.required
}

// Run returns every slot whose presence mask contains the required mask, in
// ascending order, together with one column of cells per required component.
func (q *QueryBuilder) Run() (*QueryResult, error) {
	if err := q.sto.checkEpoch(q.epoch); err != nil {
		return nil, err
	}

	indices := make([]int, 0)
	for slot, m := range q.sto.masks {
		if m.ContainsAll(q.required) {
			indices = append(indices, slot)
		}
	}

	columns := make([]any, len(q.components))
	for k, comp := range q.components {
		_, col, _ := q.sto.lookup(comp.typeKey())
		columns[k] = col.gather(indices)
	}

	components := make([]Component, len(q.components))
	copy(components, q.components)
	return &QueryResult{
		sto:        q.sto,
		epoch:      q.epoch,
		indices:    indices,
		columns:    columns,
		components: components,
	}, nil
}

// Indices returns the matching slot indices in ascending order.
func (r *QueryResult) Indices() ([]int, error) {
	if err := r.sto.checkEpoch(r.epoch); err != nil {
		return nil, err
	}
	return r.indices, nil
}

// Len returns the number of matched entities.
func (r *QueryResult) Len() int {
	return len(r.indices)
}

// Components returns the required components in the order the columns are held.
func (r *QueryResult) Components() []Component {
	return r.components
}

// ColumnOf returns column k of r as cells of T. Entry i belongs to the entity
// at Indices()[i]. A nil cell marks a slot flagged present without a stored
// value, which can only happen after a toggling detach.
//
// The columns are a snapshot of cells taken by Run. Attaching a new value or
// detaching a component afterwards does not invalidate the result: it keeps
// the cell it gathered and still lists the entity.
func ColumnOf[T any](r *QueryResult, k int) ([]*Cell[T], error) {
	if err := r.sto.checkEpoch(r.epoch); err != nil {
		return nil, err
	}
	if k < 0 || k >= len(r.columns) {
		return nil, eris.Errorf("query column %d out of range [0, %d)", k, len(r.columns))
	}
	cells, ok := r.columns[k].([]*Cell[T])
	if !ok {
		return nil, ComponentTypeMismatchError{
			Want: typeName[T](),
			Got:  r.components[k].typeName(),
		}
	}
	return cells, nil
}
