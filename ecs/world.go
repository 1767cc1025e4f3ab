package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
)

// World owns every entity, component column, archetype and resource of one ECS instance.
type World struct {
	registry   *ComponentRegistry
	entities   entityAllocator
	columns    [MaxComponentTypes]iColumn
	archetypes []*Archetype
	byMask     *intmap.Map[uint64, []*Archetype]
	resources  *Resources
	tick       uint64
}

// NewWorld creates an empty world backed by the given component registry
func NewWorld(registry *ComponentRegistry) *World {
	w := &World{
		registry:  registry,
		byMask:    intmap.New[uint64, []*Archetype](64),
		resources: newResources(),
	}
	w.archetypeFor(mask{})
	return w
}

// Registry returns the component registry backing this world
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Tick returns the current change-detection tick. Startup runs at tick 0.
func (w *World) Tick() uint64 {
	return w.tick
}

func (w *World) column(id ComponentID) iColumn {
	col := w.columns[id]
	if col == nil {
		col = w.registry.infos[id].factory()
		w.columns[id] = col
	}
	return col
}

// archetypeFor returns the archetype for m, creating it on first use.
func (w *World) archetypeFor(m mask) *Archetype {
	h := m.hash()
	bucket, _ := w.byMask.Get(h)
	for _, a := range bucket {
		if a.mask == m {
			return a
		}
	}

	a := newArchetype(m)
	w.archetypes = append(w.archetypes, a)
	w.byMask.Put(h, append(bucket, a))
	return a
}

// Archetypes returns all archetypes in creation order
func (w *World) Archetypes() []*Archetype {
	return w.archetypes
}

// Spawn creates a new entity with the provided components immediately.
// Systems should use Commands.Spawn instead.
func (w *World) Spawn(components ...any) Entity {
	e := w.entities.reserve()
	w.spawnReserved(e, components)
	return e
}

func (w *World) spawnReserved(e Entity, components []any) bool {
	ids := make([]ComponentID, len(components))
	for i, comp := range components {
		ids[i], _ = w.registry.resolve(comp)
	}

	slot := w.entities.materialize(e)
	if slot == nil {
		return false
	}

	var m mask
	for i, comp := range components {
		w.column(ids[i]).Set(e.Index(), comp)
		m.set(ids[i])
	}

	archetype := w.archetypeFor(m)
	slot.archetype = archetype
	slot.row = archetype.add(e)
	return true
}

// Despawn removes the entity and all of its components. Returns false if the
// entity is not alive.
func (w *World) Despawn(e Entity) bool {
	slot := w.entities.live(e)
	if slot == nil {
		return false
	}

	for _, id := range slot.archetype.ids {
		w.columns[id].Delete(e.Index())
	}
	w.detach(slot)
	w.entities.release(e)
	return true
}

// Maintain returns the slots of despawned entities to the allocator. The
// scheduler calls it at every sync point; a world driven without a scheduler
// should call it between frames, when no query iteration is in flight. Until
// then a despawned slot is never reused.
func (w *World) Maintain() {
	w.entities.recycle()
}

// detach removes the slot's entity from its archetype, fixing up the row of
// the entity swapped into its place.
func (w *World) detach(slot *entitySlot) {
	if moved, ok := slot.archetype.remove(slot.row); ok {
		w.entities.slots[moved.Index()].row = slot.row
	}
}

func (w *World) move(e Entity, slot *entitySlot, m mask) {
	if slot.archetype.mask == m {
		return
	}
	w.detach(slot)
	target := w.archetypeFor(m)
	slot.archetype = target
	slot.row = target.add(e)
}

// Insert adds components to a live entity, replacing values of types it
// already has. Returns false if the entity is not alive.
func (w *World) Insert(e Entity, components ...any) bool {
	ids := make([]ComponentID, len(components))
	for i, comp := range components {
		ids[i], _ = w.registry.resolve(comp)
	}

	slot := w.entities.live(e)
	if slot == nil {
		return false
	}

	m := slot.archetype.mask
	for i, comp := range components {
		w.column(ids[i]).Set(e.Index(), comp)
		m.set(ids[i])
	}
	w.move(e, slot, m)
	return true
}

// Remove deletes the component of the given type from the entity. Removing a
// component the entity does not have is a no-op and returns false.
func (w *World) Remove(e Entity, compType reflect.Type) bool {
	id, ok := w.registry.Lookup(compType)
	if !ok {
		return false
	}

	slot := w.entities.live(e)
	if slot == nil || !slot.archetype.mask.has(id) {
		return false
	}

	w.columns[id].Delete(e.Index())
	m := slot.archetype.mask
	m.unset(id)
	w.move(e, slot, m)
	return true
}

// Get returns the component of the given type for the entity as a pointer.
// Returns false for dead or stale entities and for absent components.
func (w *World) Get(e Entity, compType reflect.Type) (any, bool) {
	id, ok := w.registry.Lookup(compType)
	if !ok {
		return nil, false
	}

	slot := w.entities.live(e)
	if slot == nil || !slot.archetype.mask.has(id) {
		return nil, false
	}
	return w.columns[id].Get(e.Index()), true
}

// Has checks if a live entity has a specific component type
func (w *World) Has(e Entity, compType reflect.Type) bool {
	id, ok := w.registry.Lookup(compType)
	if !ok {
		return false
	}
	slot := w.entities.live(e)
	return slot != nil && slot.archetype.mask.has(id)
}

// Alive reports whether e refers to a spawned entity that has not been despawned.
func (w *World) Alive(e Entity) bool {
	return w.entities.live(e) != nil
}

// Len returns the number of live entities
func (w *World) Len() int {
	total := 0
	for _, a := range w.archetypes {
		total += len(a.entities)
	}
	return total
}

// Get returns a pointer to the T component of a live entity.
func Get[T any](w *World, e Entity) (*T, bool) {
	id, ok := ComponentIDOf[T](w.registry)
	if !ok {
		return nil, false
	}
	slot := w.entities.live(e)
	if slot == nil || !slot.archetype.mask.has(id) {
		return nil, false
	}
	ptr := w.column(id).(typedColumn[T]).get(e.Index())
	return ptr, ptr != nil
}

// Has reports whether a live entity has a T component.
func Has[T any](w *World, e Entity) bool {
	return w.Has(e, reflect.TypeFor[T]())
}

// WorldStats summarises the contents of a world.
type WorldStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	ResourceCount      int
	ArchetypeBreakdown []ArchetypeStats
	ResourceTypes      []string
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID          uint64
	Components  []string
	EntityCount int
}

// CollectStats gathers entity, archetype and resource counts. Empty archetypes
// are skipped.
func (w *World) CollectStats() WorldStats {
	var stats WorldStats
	for _, a := range w.archetypes {
		if len(a.entities) == 0 {
			continue
		}
		names := make([]string, len(a.ids))
		for i, id := range a.ids {
			names[i] = w.registry.Type(id).String()
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:          a.id,
			Components:  names,
			EntityCount: len(a.entities),
		})
		stats.TotalEntityCount += len(a.entities)
	}
	stats.ArchetypeCount = len(stats.ArchetypeBreakdown)
	stats.ResourceTypes = w.resources.typeNames()
	stats.ResourceCount = len(stats.ResourceTypes)
	return stats
}
