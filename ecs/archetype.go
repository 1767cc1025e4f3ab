package ecs

// Archetype groups the live entities that have exactly the same set of component types
type Archetype struct {
	id       uint64
	mask     mask
	ids      []ComponentID
	entities []Entity
}

func newArchetype(m mask) *Archetype {
	return &Archetype{
		id:   m.hash(),
		mask: m,
		ids:  m.ids(),
	}
}

// add appends e and returns its row
func (a *Archetype) add(e Entity) int {
	a.entities = append(a.entities, e)
	return len(a.entities) - 1
}

// remove swap-removes the entity at row and returns the entity that was moved
// into row, if any.
func (a *Archetype) remove(row int) (Entity, bool) {
	last := len(a.entities) - 1
	if row != last {
		moved := a.entities[last]
		a.entities[row] = moved
		a.entities = a.entities[:last]
		return moved, true
	}
	a.entities = a.entities[:last]
	return 0, false
}

// ID returns the archetype's identifier (a hash of its component set)
func (a *Archetype) ID() uint64 {
	return a.id
}

// Components returns the component IDs of this archetype in ascending order
func (a *Archetype) Components() []ComponentID {
	return a.ids
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(id ComponentID) bool {
	return a.mask.has(id)
}

// Len returns the number of live entities in the archetype
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Iter returns an iterator over the entities currently in this archetype
func (a *Archetype) Iter() func(yield func(Entity) bool) {
	return func(yield func(Entity) bool) {
		for _, e := range a.entities {
			if !yield(e) {
				return
			}
		}
	}
}
