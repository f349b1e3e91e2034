package depot

func newEntityBuilder(sto *storage, id int) *EntityBuilder {
	return &EntityBuilder{
		sto:   sto,
		id:    id,
		epoch: sto.epoch,
	}
}

// ID returns the slot index the builder targets.
func (b *EntityBuilder) ID() int {
	return b.id
}

// WithComponent attaches value to the pending entity. It fails once another
// entity has been created, registered or deleted since this builder was made.
func (b *EntityBuilder) WithComponent(value any) (*EntityBuilder, error) {
	if b.sto.pending != b.id || b.sto.epoch != b.epoch {
		return b, StaleBuilderError{ID: b.id, Pending: b.sto.pending}
	}
	if err := b.sto.attach(b.sto.pending, value); err != nil {
		return b, err
	}
	return b, nil
}
