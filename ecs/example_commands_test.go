package ecs_test

import (
	"fmt"
	"time"

	"github.com/plus3/stagecraft/ecs"
)

type CleanupSystem struct {
	entities *ecs.Query[Health]
}

func (s *CleanupSystem) Init(p *ecs.Params) {
	s.entities = ecs.NewQuery[Health](p, ecs.ReadOnly())
}

func (s *CleanupSystem) Execute(frame *ecs.UpdateFrame) {
	deadCount := 0
	for e, health := range s.entities.Iter() {
		if health.Current <= 0 {
			frame.Commands.Despawn(e)
			deadCount++
		}
	}
	if deadCount > 0 {
		fmt.Printf("Queued %d dead entities for despawn\n", deadCount)
	}
}

// ExampleCommands demonstrates using command buffers to defer entity mutations.
// Commands queued by a system are applied at the end of the phase, after every
// system of the phase has run, so queries never observe a half-applied change.
func ExampleCommands() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Health](registry)
	world := ecs.NewWorld(registry)

	world.Spawn(Position{X: 0, Y: 0}, Health{Current: 0, Max: 100})
	world.Spawn(Position{X: 10, Y: 10}, Health{Current: 50, Max: 100})
	world.Spawn(Position{X: 20, Y: 20}, Health{Current: 100, Max: 100})

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(ecs.Update, &CleanupSystem{})

	if err := scheduler.Once(time.Second); err != nil {
		panic(err)
	}

	fmt.Printf("Remaining entities: %d\n", world.Len())

	// Output:
	// Queued 1 dead entities for despawn
	// Remaining entities: 2
}

// ExampleCommands_Spawn shows that a spawned entity's identifier is usable
// before the buffer is applied.
func ExampleCommands_Spawn() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Name](registry)
	world := ecs.NewWorld(registry)

	commands := ecs.NewCommands(world)
	e := commands.Spawn(Position{X: 5, Y: 5})
	commands.Insert(e, Name{Value: "late name"})
	fmt.Println("alive before apply:", world.Alive(e))

	commands.Apply(world)
	name, _ := ecs.Get[Name](world, e)
	fmt.Println("alive after apply:", world.Alive(e), name.Value)

	// Output:
	// alive before apply: false
	// alive after apply: true late name
}
