package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// Params collects the parameters a system requests during Init. Every accessor
// constructor (NewQuery, NewRes, ...) records its access here; the scheduler
// plans concurrency from that record instead of inspecting the system value.
type Params struct {
	world  *World
	access Access
	errs   []error
}

func newParams(world *World) *Params {
	return &Params{world: world}
}

func (p *Params) fail(err error) {
	p.errs = append(p.errs, err)
}

// Exclusive declares that the system needs the whole world. Exclusive systems
// never run alongside any other system and may mutate the world directly
// through UpdateFrame.World.
func (p *Params) Exclusive() *World {
	p.access.exclusive = true
	return p.world
}

// Access returns the access declared so far.
func (p *Params) Access() Access {
	return p.access
}

func (p *Params) err() error {
	errs := append([]error(nil), p.errs...)
	errs = append(errs, p.access.selfConflicts(p.world.registry)...)
	for _, item := range p.access.items {
		if item.kind == accessResource && item.write && item.resource == reflect.TypeFor[Time]() {
			errs = append(errs, fmt.Errorf("%w: %s", ErrReadOnlyResource, item.resource))
		}
	}
	return errors.Join(errs...)
}
