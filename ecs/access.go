package ecs

import (
	"fmt"
	"reflect"
	"strings"
)

type accessKind uint8

const (
	accessResource accessKind = iota
	accessComponent
)

// AccessItem is one declared data dependency of a system.
type AccessItem struct {
	kind      accessKind
	resource  reflect.Type
	component ComponentID
	include   mask
	exclude   mask
	write     bool
}

// Access is the set of data a system declared while it was initialised. The
// scheduler compares Access values to decide which systems may run together.
type Access struct {
	items     []AccessItem
	exclusive bool
}

func (a *Access) addResource(t reflect.Type, write bool) {
	a.items = append(a.items, AccessItem{kind: accessResource, resource: t, write: write})
}

func (a *Access) addComponent(id ComponentID, include, exclude mask, write bool) {
	a.items = append(a.items, AccessItem{
		kind:      accessComponent,
		component: id,
		include:   include,
		exclude:   exclude,
		write:     write,
	})
}

// Exclusive reports whether the system takes the whole world.
func (a Access) Exclusive() bool {
	return a.exclusive
}

// ConflictsWith reports whether two systems must not run concurrently.
func (a Access) ConflictsWith(b Access) bool {
	if a.exclusive || b.exclusive {
		return true
	}
	for _, x := range a.items {
		for _, y := range b.items {
			if itemsConflict(x, y) {
				return true
			}
		}
	}
	return false
}

// selfConflicts lists pairs of a single system's own parameters that cannot be
// held at the same time.
func (a Access) selfConflicts(registry *ComponentRegistry) []error {
	var errs []error
	for i, x := range a.items {
		for _, y := range a.items[i+1:] {
			if itemsConflict(x, y) {
				errs = append(errs, fmt.Errorf("%w: %s and %s", ErrAccessConflict,
					x.describe(registry), y.describe(registry)))
			}
		}
	}
	return errs
}

func itemsConflict(x, y AccessItem) bool {
	if x.kind != y.kind || (!x.write && !y.write) {
		return false
	}
	switch x.kind {
	case accessResource:
		return x.resource == y.resource
	case accessComponent:
		if x.component != y.component {
			return false
		}
		// queries that can never match the same archetype do not alias
		return !x.include.intersects(y.exclude) && !y.include.intersects(x.exclude)
	}
	return false
}

func (i AccessItem) describe(registry *ComponentRegistry) string {
	mode := "read"
	if i.write {
		mode = "write"
	}
	if i.kind == accessResource {
		return fmt.Sprintf("%s resource %s", mode, i.resource)
	}
	return fmt.Sprintf("%s component %s", mode, registry.Type(i.component))
}

// Describe renders the access list for logs and debugging.
func (a Access) Describe(registry *ComponentRegistry) string {
	if a.exclusive {
		return "exclusive world"
	}
	parts := make([]string, len(a.items))
	for i, item := range a.items {
		parts[i] = item.describe(registry)
	}
	return strings.Join(parts, ", ")
}
