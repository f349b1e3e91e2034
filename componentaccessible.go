package depot

// GetFromCursor returns the cell for the entity at the cursor position, or
// nil if the component is unregistered or was never stored there.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *Cell[T] {
	return c.get(cursor.storage, cursor.EntityIndex())
}

// GetFromEntity returns the cell for entity id if the component is present.
func (c AccessibleComponent[T]) GetFromEntity(w *World, id int) (*Cell[T], bool) {
	if id < 0 || id >= len(w.storage.masks) {
		return nil, false
	}
	bit, _, ok := w.storage.lookup(c.typeKey())
	if !ok || !w.storage.masks[id].ContainsAll(bitMask(bit)) {
		return nil, false
	}
	cell := c.get(w.storage, id)
	return cell, cell != nil
}

// CheckEntity reports whether entity id has the component marked present.
func (c AccessibleComponent[T]) CheckEntity(w *World, id int) bool {
	if id < 0 || id >= len(w.storage.masks) {
		return false
	}
	bit, _, ok := w.storage.lookup(c.typeKey())
	return ok && w.storage.masks[id].ContainsAll(bitMask(bit))
}

// Column returns column k of a query result as cells of T.
func (c AccessibleComponent[T]) Column(r *QueryResult, k int) ([]*Cell[T], error) {
	return ColumnOf[T](r, k)
}

func (c AccessibleComponent[T]) get(sto *storage, slot int) *Cell[T] {
	_, col, ok := sto.lookup(c.typeKey())
	if !ok {
		return nil
	}
	return col.(*typedColumn[T]).get(slot)
}
