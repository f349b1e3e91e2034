/*
Package depot provides an in-memory entity-component store for games and simulations.

Depot keeps one column per registered component type and one presence mask per
entity slot. A query ORs the bits of the requested components and returns every
slot whose mask contains them, along with the stored values at those slots.

Core Concepts:

  - Entity: An integer slot index shared by every column. Deleted slots are reused.
  - Component: A Go type registered with the world. Each gets one bit, in
    registration order, up to MaxComponentTypes.
  - Cell: A stored component value guarded against conflicting borrows.
  - Query: A set of required components. Results are co-indexed: entry k of
    every column belongs to the entity at Indices()[k].

Basic Usage:

	world := depot.NewWorld()

	position, _ := depot.Register[Position](world)
	velocity, _ := depot.Register[Velocity](world)

	world.Spawn(Position{}, Velocity{X: 1})
	world.Spawn(Position{X: 5})

	query, _ := world.Query().WithComponent(position)
	query, _ = query.WithComponent(velocity)
	cursor := world.NewCursor(query)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor).BorrowMut()
		vel := velocity.GetFromCursor(cursor).Borrow()
		pos.Get().X += vel.Get().X
		vel.Release()
		pos.Release()
	}

Structural changes (registering a component, creating or deleting an entity)
invalidate earlier queries and results, which then return StaleQueryError.
While a cursor iterates, the world is locked; use EnqueueNewEntity and
EnqueueDeleteEntity to defer structural changes until iteration ends.
*/
package depot
