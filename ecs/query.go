package ecs

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

// QueryOption narrows or annotates a query.
type QueryOption func(*queryConfig)

type queryConfig struct {
	with     []reflect.Type
	without  []reflect.Type
	readOnly bool
}

// With restricts a query to entities that have a T component without fetching it.
func With[T any]() QueryOption {
	return func(c *queryConfig) {
		c.with = append(c.with, reflect.TypeFor[T]())
	}
}

// Without restricts a query to entities that do not have a T component.
func Without[T any]() QueryOption {
	return func(c *queryConfig) {
		c.without = append(c.without, reflect.TypeFor[T]())
	}
}

// ReadOnly declares that the fetched components are only read, allowing the
// system to run alongside other readers. Queries write by default.
func ReadOnly() QueryOption {
	return func(c *queryConfig) {
		c.readOnly = true
	}
}

// queryState matches archetypes against a signature. Matching archetypes are
// cached; archetypes are never destroyed, so only new ones need checking.
type queryState struct {
	world    *World
	include  mask
	exclude  mask
	fetch    []ComponentID
	readOnly bool
	matched  []*Archetype
	seen     int
}

func newQueryState(w *World, fetch []reflect.Type, opts []QueryOption) (*queryState, error) {
	var cfg queryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	q := &queryState{world: w, readOnly: cfg.readOnly}
	var errs []error
	lookup := func(t reflect.Type) (ComponentID, bool) {
		id, ok := w.registry.Lookup(t)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnregisteredComponent, t))
		}
		return id, ok
	}

	for _, t := range fetch {
		if id, ok := lookup(t); ok {
			q.fetch = append(q.fetch, id)
			q.include.set(id)
			w.column(id)
		}
	}
	for _, t := range cfg.with {
		if id, ok := lookup(t); ok {
			q.include.set(id)
		}
	}
	for _, t := range cfg.without {
		if id, ok := lookup(t); ok {
			q.exclude.set(id)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if q.include.intersects(q.exclude) {
		return nil, ErrInvalidQuery
	}
	return q, nil
}

// declare records the query's component access on p.
func (q *queryState) declare(p *Params) {
	for _, id := range q.fetch {
		p.access.addComponent(id, q.include, q.exclude, !q.readOnly)
	}
}

func (q *queryState) refresh() {
	archetypes := q.world.archetypes
	for _, a := range archetypes[q.seen:] {
		if a.mask.containsAll(q.include) && !a.mask.intersects(q.exclude) {
			q.matched = append(q.matched, a)
		}
	}
	q.seen = len(archetypes)
}

// snapshot returns the matching entities at this instant.
func (q *queryState) snapshot() []Entity {
	q.refresh()
	total := 0
	for _, a := range q.matched {
		total += len(a.entities)
	}
	entities := make([]Entity, 0, total)
	for _, a := range q.matched {
		entities = append(entities, a.entities...)
	}
	return entities
}

func (q *queryState) count() int {
	q.refresh()
	total := 0
	for _, a := range q.matched {
		total += len(a.entities)
	}
	return total
}

// single returns the only matching entity.
func (q *queryState) single() (Entity, error) {
	q.refresh()
	var found Entity
	total := 0
	for _, a := range q.matched {
		total += len(a.entities)
		if total > 1 {
			return 0, ErrMultipleEntities
		}
		if len(a.entities) == 1 {
			found = a.entities[0]
		}
	}
	if total == 0 {
		return 0, ErrNoEntities
	}
	return found, nil
}

func (q *queryState) contains(e Entity) bool {
	slot := q.world.entities.live(e)
	if slot == nil {
		return false
	}
	m := slot.archetype.mask
	return m.containsAll(q.include) && !m.intersects(q.exclude)
}

// Filter is a query that yields matching entities without fetching components.
type Filter struct {
	state *queryState
}

// NewFilter declares an entity-only query on a system.
func NewFilter(p *Params, opts ...QueryOption) *Filter {
	f, err := FilterWorld(p.world, opts...)
	if err != nil {
		p.fail(err)
	}
	return f
}

// FilterWorld builds an entity-only query directly on a world, for use outside systems.
func FilterWorld(w *World, opts ...QueryOption) (*Filter, error) {
	state, err := newQueryState(w, nil, opts)
	if err != nil {
		return &Filter{}, err
	}
	return &Filter{state: state}, nil
}

// Iter returns an iterator over the entities matching at the time of the call.
func (f *Filter) Iter() iter.Seq[Entity] {
	entities := f.state.snapshot()
	return func(yield func(Entity) bool) {
		for _, e := range entities {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of matching entities.
func (f *Filter) Len() int {
	return f.state.count()
}

// Contains reports whether e is alive and matches.
func (f *Filter) Contains(e Entity) bool {
	return f.state.contains(e)
}

// Single returns the only matching entity, ErrNoEntities or ErrMultipleEntities.
func (f *Filter) Single() (Entity, error) {
	return f.state.single()
}

// MustSingle is Single that panics on absence or ambiguity.
func (f *Filter) MustSingle() Entity {
	e, err := f.state.single()
	if err != nil {
		panic(err)
	}
	return e
}

// Query fetches one component type from every matching entity.
type Query[A any] struct {
	state *queryState
	a     typedColumn[A]
}

// NewQuery declares a query on a system. Errors are reported by Scheduler.Build.
func NewQuery[A any](p *Params, opts ...QueryOption) *Query[A] {
	q, err := QueryWorld[A](p.world, opts...)
	if err != nil {
		p.fail(err)
		return q
	}
	q.state.declare(p)
	return q
}

// QueryWorld builds a query directly on a world, for use outside systems.
func QueryWorld[A any](w *World, opts ...QueryOption) (*Query[A], error) {
	state, err := newQueryState(w, []reflect.Type{reflect.TypeFor[A]()}, opts)
	if err != nil {
		return &Query[A]{}, err
	}
	return &Query[A]{
		state: state,
		a:     w.column(state.fetch[0]).(typedColumn[A]),
	}, nil
}

// Iter returns an iterator over entity IDs and component pointers. The set of
// entities and pointers is captured when Iter is called; structural changes
// made while iterating are not observed.
func (q *Query[A]) Iter() iter.Seq2[Entity, *A] {
	entities := q.state.snapshot()
	values := make([]*A, len(entities))
	for i, e := range entities {
		values[i] = q.a.get(e.Index())
	}

	return func(yield func(Entity, *A) bool) {
		for i := range entities {
			if !yield(entities[i], values[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component pointers only.
func (q *Query[A]) Values() iter.Seq[*A] {
	return func(yield func(*A) bool) {
		for _, value := range q.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Len returns the number of matching entities.
func (q *Query[A]) Len() int {
	return q.state.count()
}

// Contains reports whether e is alive and matches.
func (q *Query[A]) Contains(e Entity) bool {
	return q.state.contains(e)
}

// Get returns the component for e if e matches the query.
func (q *Query[A]) Get(e Entity) (*A, bool) {
	if !q.state.contains(e) {
		return nil, false
	}
	return q.a.get(e.Index()), true
}

// Single returns the only matching entity and its component.
func (q *Query[A]) Single() (Entity, *A, error) {
	e, err := q.state.single()
	if err != nil {
		return 0, nil, err
	}
	return e, q.a.get(e.Index()), nil
}

// MustSingle is Single that panics on absence or ambiguity.
func (q *Query[A]) MustSingle() (Entity, *A) {
	e, a, err := q.Single()
	if err != nil {
		panic(err)
	}
	return e, a
}

// Query2 fetches two component types from every matching entity.
type Query2[A, B any] struct {
	state *queryState
	a     typedColumn[A]
	b     typedColumn[B]
}

// NewQuery2 declares a two-component query on a system.
func NewQuery2[A, B any](p *Params, opts ...QueryOption) *Query2[A, B] {
	q, err := Query2World[A, B](p.world, opts...)
	if err != nil {
		p.fail(err)
		return q
	}
	q.state.declare(p)
	return q
}

// Query2World builds a two-component query directly on a world.
func Query2World[A, B any](w *World, opts ...QueryOption) (*Query2[A, B], error) {
	fetch := []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
	state, err := newQueryState(w, fetch, opts)
	if err != nil {
		return &Query2[A, B]{}, err
	}
	return &Query2[A, B]{
		state: state,
		a:     w.column(state.fetch[0]).(typedColumn[A]),
		b:     w.column(state.fetch[1]).(typedColumn[B]),
	}, nil
}

type row2[A, B any] struct {
	e Entity
	a *A
	b *B
}

func (q *Query2[A, B]) rows() []row2[A, B] {
	entities := q.state.snapshot()
	rows := make([]row2[A, B], len(entities))
	for i, e := range entities {
		rows[i] = row2[A, B]{e: e, a: q.a.get(e.Index()), b: q.b.get(e.Index())}
	}
	return rows
}

// Iter returns an iterator over both component pointers of each match.
func (q *Query2[A, B]) Iter() iter.Seq2[*A, *B] {
	rows := q.rows()
	return func(yield func(*A, *B) bool) {
		for _, r := range rows {
			if !yield(r.a, r.b) {
				return
			}
		}
	}
}

// Each calls fn for each match with its entity. Returning false stops iteration.
func (q *Query2[A, B]) Each(fn func(e Entity, a *A, b *B) bool) {
	for _, r := range q.rows() {
		if !fn(r.e, r.a, r.b) {
			return
		}
	}
}

// Len returns the number of matching entities.
func (q *Query2[A, B]) Len() int {
	return q.state.count()
}

// Contains reports whether e is alive and matches.
func (q *Query2[A, B]) Contains(e Entity) bool {
	return q.state.contains(e)
}

// Get returns both components for e if e matches the query.
func (q *Query2[A, B]) Get(e Entity) (*A, *B, bool) {
	if !q.state.contains(e) {
		return nil, nil, false
	}
	return q.a.get(e.Index()), q.b.get(e.Index()), true
}

// Single returns the only matching entity and its components.
func (q *Query2[A, B]) Single() (Entity, *A, *B, error) {
	e, err := q.state.single()
	if err != nil {
		return 0, nil, nil, err
	}
	return e, q.a.get(e.Index()), q.b.get(e.Index()), nil
}

// MustSingle is Single that panics on absence or ambiguity.
func (q *Query2[A, B]) MustSingle() (Entity, *A, *B) {
	e, a, b, err := q.Single()
	if err != nil {
		panic(err)
	}
	return e, a, b
}
