package ecs

import "reflect"

type commandKind uint8

const (
	cmdSpawn commandKind = iota
	cmdDespawn
	cmdInsert
	cmdRemove
	cmdInsertResource
	cmdRemoveResource
	cmdDefer
)

type command struct {
	kind       commandKind
	entity     Entity
	components []any
	typ        reflect.Type
	value      any
	fn         func(*World)
}

// Commands provides a buffer for deferred ECS operations that are applied at
// the end of a phase. This prevents structural changes to the world while
// systems are iterating it. Commands are applied in the order they were queued.
type Commands struct {
	world *World
	queue []command
}

// NewCommands creates a command buffer for w. The scheduler gives every system
// its own buffer; this constructor is for code driving a world by hand.
func NewCommands(w *World) *Commands {
	return &Commands{world: w}
}

// Spawn reserves an entity and queues its creation with the given components.
// The returned entity can be passed to Insert before the buffer is applied.
func (c *Commands) Spawn(components ...any) Entity {
	e := c.world.entities.reserve()
	c.queue = append(c.queue, command{kind: cmdSpawn, entity: e, components: components})
	return e
}

// Despawn queues removal of the entity and all its components.
func (c *Commands) Despawn(entity Entity) {
	c.queue = append(c.queue, command{kind: cmdDespawn, entity: entity})
}

// Insert queues adding or replacing components on an entity.
func (c *Commands) Insert(entity Entity, components ...any) {
	c.queue = append(c.queue, command{kind: cmdInsert, entity: entity, components: components})
}

// Remove queues a component removal.
func (c *Commands) Remove(entity Entity, compType reflect.Type) {
	c.queue = append(c.queue, command{kind: cmdRemove, entity: entity, typ: compType})
}

// InsertResource queues inserting or replacing a resource.
func (c *Commands) InsertResource(value any) {
	c.queue = append(c.queue, command{kind: cmdInsertResource, value: value})
}

// RemoveResource queues removal of the resource of the given type.
func (c *Commands) RemoveResource(t reflect.Type) {
	c.queue = append(c.queue, command{kind: cmdRemoveResource, typ: t})
}

// Defer queues a function that runs with full world access at the sync point.
func (c *Commands) Defer(fn func(*World)) {
	c.queue = append(c.queue, command{kind: cmdDefer, fn: fn})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Apply executes all queued commands against w in queue order and resets the
// buffer. Commands targeting entities that are no longer alive are dropped.
func (c *Commands) Apply(w *World) {
	for i := range c.queue {
		cmd := &c.queue[i]
		switch cmd.kind {
		case cmdSpawn:
			w.spawnReserved(cmd.entity, cmd.components)
		case cmdDespawn:
			w.Despawn(cmd.entity)
		case cmdInsert:
			w.Insert(cmd.entity, cmd.components...)
		case cmdRemove:
			w.Remove(cmd.entity, cmd.typ)
		case cmdInsertResource:
			w.InsertResource(cmd.value)
		case cmdRemoveResource:
			w.RemoveResource(cmd.typ)
		case cmdDefer:
			cmd.fn(w)
		}
		*cmd = command{}
	}
	c.queue = c.queue[:0]
}
