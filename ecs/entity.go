package ecs

import (
	"fmt"
	"sync"
)

// Entity encodes both the slot generation (upper 32 bits) and the slot index (lower 32 bits).
// The zero Entity is never live.
type Entity uint64

// NewEntity creates an Entity from a slot index and generation
func NewEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.Index(), e.Generation())
}

// entitySlot tracks where a live entity currently sits.
type entitySlot struct {
	generation uint32
	alive      bool
	archetype  *Archetype
	row        int
}

// entityAllocator hands out slot indices and bumps generations on release so a
// released identifier can never alias the next occupant of the slot.
//
// reserve may run concurrently with readers of slots: it only pops the free
// list or advances next. The slots slice itself grows in materialize, which
// runs at sync points or inside exclusive systems.
//
// Released indices wait in pending until recycle. A query snapshot taken
// before a despawn keeps pointing at the dead slot, so the slot must not be
// handed out again while such a snapshot can still be iterated.
type entityAllocator struct {
	mu      sync.Mutex
	slots   []entitySlot
	free    []uint32
	pending []uint32
	next    uint32
}

// reserve allocates an identifier without making it live.
func (a *entityAllocator) reserve() Entity {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		return NewEntity(index, a.slots[index].generation)
	}

	index := a.next
	a.next++
	return NewEntity(index, 1)
}

// materialize makes a reserved identifier live and returns its slot. It
// returns nil if e is not a pending reservation.
func (a *entityAllocator) materialize(e Entity) *entitySlot {
	index := e.Index()
	if index >= a.next {
		return nil
	}
	for int(index) >= len(a.slots) {
		a.slots = append(a.slots, entitySlot{generation: 1, row: -1})
	}
	slot := &a.slots[index]
	if slot.alive || slot.generation != e.Generation() {
		return nil
	}
	slot.alive = true
	return slot
}

// live returns the slot for e only if e has been spawned and not despawned.
func (a *entityAllocator) live(e Entity) *entitySlot {
	index := e.Index()
	if int(index) >= len(a.slots) {
		return nil
	}
	slot := &a.slots[index]
	if !slot.alive || slot.generation != e.Generation() {
		return nil
	}
	return slot
}

func (a *entityAllocator) release(e Entity) {
	a.mu.Lock()
	defer a.mu.Unlock()

	slot := &a.slots[e.Index()]
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1
	}
	slot.alive = false
	slot.archetype = nil
	slot.row = -1
	a.pending = append(a.pending, e.Index())
}

// recycle makes released indices available to reserve.
func (a *entityAllocator) recycle() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.free = append(a.free, a.pending...)
	a.pending = a.pending[:0]
}
