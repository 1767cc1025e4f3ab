package ecs

import (
	"reflect"
	"slices"
)

type resourceEntry struct {
	typ       reflect.Type
	value     any // always *T
	writeTick uint64
	prevTick  uint64
	hasPrev   bool
	removed   bool
}

// markWritten records a write during tick now. The previous write tick is kept
// so a write early in tick N+1 does not hide the change made during tick N.
func (e *resourceEntry) markWritten(now uint64) {
	if e.writeTick == now {
		return
	}
	e.prevTick, e.hasPrev = e.writeTick, true
	e.writeTick = now
}

// changedAt reports whether the resource was written during the tick before now.
func (e *resourceEntry) changedAt(now uint64) bool {
	if now == 0 {
		return false
	}
	if e.writeTick == now-1 {
		return true
	}
	return e.writeTick == now && e.hasPrev && e.prevTick == now-1
}

// Resources holds at most one value per Go type, independent of entities.
// Replacing a resource updates the existing value in place so pointers handed
// out earlier stay valid.
type Resources struct {
	entries map[reflect.Type]*resourceEntry
}

func newResources() *Resources {
	return &Resources{
		entries: make(map[reflect.Type]*resourceEntry),
	}
}

func (r *Resources) get(t reflect.Type) *resourceEntry {
	return r.entries[t]
}

func (r *Resources) remove(t reflect.Type) bool {
	entry, ok := r.entries[t]
	if !ok {
		return false
	}
	entry.removed = true
	delete(r.entries, t)
	return true
}

func (r *Resources) typeNames() []string {
	names := make([]string, 0, len(r.entries))
	for t := range r.entries {
		names = append(names, t.String())
	}
	slices.Sort(names)
	return names
}

// InsertResource stores value as the T resource, replacing any existing value.
// Insertion counts as a write for change detection.
func InsertResource[T any](w *World, value T) {
	t := reflect.TypeFor[T]()
	if entry := w.resources.get(t); entry != nil {
		*entry.value.(*T) = value
		entry.markWritten(w.tick)
		return
	}
	ptr := new(T)
	*ptr = value
	w.resources.entries[t] = &resourceEntry{typ: t, value: ptr, writeTick: w.tick}
}

// InsertResource stores a resource whose type is taken from the value (or the
// value a pointer points to).
func (w *World) InsertResource(value any) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		panic("ecs: cannot insert nil resource")
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	if entry := w.resources.get(t); entry != nil {
		reflect.ValueOf(entry.value).Elem().Set(v)
		entry.markWritten(w.tick)
		return
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	w.resources.entries[t] = &resourceEntry{typ: t, value: ptr.Interface(), writeTick: w.tick}
}

// Resource returns a pointer to the T resource.
func Resource[T any](w *World) (*T, bool) {
	entry := w.resources.get(reflect.TypeFor[T]())
	if entry == nil {
		return nil, false
	}
	return entry.value.(*T), true
}

// RemoveResource deletes the T resource. Returns false if it did not exist.
func RemoveResource[T any](w *World) bool {
	return w.resources.remove(reflect.TypeFor[T]())
}

// RemoveResource deletes the resource of type t.
func (w *World) RemoveResource(t reflect.Type) bool {
	return w.resources.remove(t)
}

// ResourceChanged reports whether the T resource was written during the previous tick.
func ResourceChanged[T any](w *World) bool {
	entry := w.resources.get(reflect.TypeFor[T]())
	return entry != nil && entry.changedAt(w.tick)
}
