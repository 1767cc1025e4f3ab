package ecs

import (
	"fmt"
	"reflect"
)

// ComponentID is the dense identifier a ComponentRegistry assigns to a component type.
type ComponentID uint8

// MaxComponentTypes is the number of distinct component types a registry can hold.
const MaxComponentTypes = 256

type componentInfo struct {
	typ     reflect.Type
	marker  bool
	factory func() iColumn
}

// ComponentRegistry manages component type registration for an ECS instance.
// Several worlds may share one registry; each world builds its own columns from it.
type ComponentRegistry struct {
	ids   map[reflect.Type]ComponentID
	infos []componentInfo
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids: make(map[reflect.Type]ComponentID),
	}
}

// RegisterComponent registers a component type and returns its ID. Registering
// the same type again returns the existing ID. Zero-size types are registered
// as markers and stored presence-only.
func RegisterComponent[T any](r *ComponentRegistry) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("ecs: components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}
	if len(r.infos) >= MaxComponentTypes {
		panic("ecs: too many component types")
	}

	info := componentInfo{typ: t, marker: t.Size() == 0}
	if info.marker {
		info.factory = func() iColumn { return newMarkerColumn[T]() }
	} else {
		info.factory = func() iColumn { return &column[T]{} }
	}

	id := ComponentID(len(r.infos))
	r.infos = append(r.infos, info)
	r.ids[t] = id
	return id
}

// ComponentIDOf returns the ID of T if it has been registered.
func ComponentIDOf[T any](r *ComponentRegistry) (ComponentID, bool) {
	return r.Lookup(reflect.TypeFor[T]())
}

// Lookup returns the ID registered for t.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentID, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// Type returns the Go type registered under id.
func (r *ComponentRegistry) Type(id ComponentID) reflect.Type {
	return r.infos[id].typ
}

// IsMarker reports whether id names a zero-size marker component.
func (r *ComponentRegistry) IsMarker(id ComponentID) bool {
	return r.infos[id].marker
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}

// resolve maps a component value (or pointer to one) to its registered ID.
func (r *ComponentRegistry) resolve(component any) (ComponentID, reflect.Type) {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	id, ok := r.ids[t]
	if !ok {
		panic(fmt.Sprintf("ecs: component type %s not registered", t))
	}
	return id, t
}
