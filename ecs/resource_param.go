package ecs

import "reflect"

// resourceRef caches the entry of one resource type and re-resolves it after
// the resource is inserted or replaced by a command.
type resourceRef[T any] struct {
	world *World
	typ   reflect.Type
	entry *resourceEntry
}

func (r *resourceRef[T]) resolve() *resourceEntry {
	if r.entry == nil || r.entry.removed {
		r.entry = r.world.resources.get(r.typ)
	}
	return r.entry
}

func (r *resourceRef[T]) get() *T {
	entry := r.resolve()
	if entry == nil {
		return nil
	}
	return entry.value.(*T)
}

// Res provides shared access to a resource. Several systems holding Res for the
// same type may run at the same time.
type Res[T any] struct {
	ref resourceRef[T]
}

// NewRes declares shared access to the T resource.
func NewRes[T any](p *Params) *Res[T] {
	t := reflect.TypeFor[T]()
	p.access.addResource(t, false)
	return &Res[T]{ref: resourceRef[T]{world: p.world, typ: t}}
}

// Get returns a pointer to the resource, or nil if it has not been inserted.
// The value must not be modified through a Res.
func (r *Res[T]) Get() *T {
	return r.ref.get()
}

// Exists returns true if the resource has been inserted
func (r *Res[T]) Exists() bool {
	return r.ref.resolve() != nil
}

// IsChanged reports whether the resource was written during the previous tick.
func (r *Res[T]) IsChanged() bool {
	entry := r.ref.resolve()
	return entry != nil && entry.changedAt(r.ref.world.tick)
}

// ResMut provides exclusive access to a resource. No other system touching the
// same resource runs while a system holding ResMut executes.
type ResMut[T any] struct {
	ref resourceRef[T]
}

// NewResMut declares exclusive access to the T resource.
func NewResMut[T any](p *Params) *ResMut[T] {
	t := reflect.TypeFor[T]()
	p.access.addResource(t, true)
	return &ResMut[T]{ref: resourceRef[T]{world: p.world, typ: t}}
}

// Get returns a pointer to the resource and records a write for change
// detection. Returns nil if the resource has not been inserted.
func (r *ResMut[T]) Get() *T {
	entry := r.ref.resolve()
	if entry == nil {
		return nil
	}
	entry.markWritten(r.ref.world.tick)
	return entry.value.(*T)
}

// Peek returns a pointer to the resource without recording a write.
func (r *ResMut[T]) Peek() *T {
	return r.ref.get()
}

// Set replaces the resource value. It returns false if the resource has not
// been inserted; Commands.InsertResource creates it at the next sync point.
func (r *ResMut[T]) Set(value T) bool {
	ptr := r.Get()
	if ptr == nil {
		return false
	}
	*ptr = value
	return true
}

// Exists returns true if the resource has been inserted
func (r *ResMut[T]) Exists() bool {
	return r.ref.resolve() != nil
}

// IsChanged reports whether the resource was written during the previous tick.
func (r *ResMut[T]) IsChanged() bool {
	entry := r.ref.resolve()
	return entry != nil && entry.changedAt(r.ref.world.tick)
}
