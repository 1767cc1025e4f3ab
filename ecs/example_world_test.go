package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/stagecraft/ecs"
)

// ExampleWorld demonstrates direct world access for setup code. Systems use
// queries and Commands instead.
func ExampleWorld() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	world := ecs.NewWorld(registry)

	player := world.Spawn(Name{Value: "player"}, Position{X: 1, Y: 2})

	world.Insert(player, Velocity{DX: 3, DY: 4})
	fmt.Println("has velocity:", ecs.Has[Velocity](world, player))

	vel, _ := ecs.Get[Velocity](world, player)
	pos, _ := ecs.Get[Position](world, player)
	pos.X += vel.DX
	pos.Y += vel.DY
	fmt.Printf("position: (%.0f, %.0f)\n", pos.X, pos.Y)

	world.Remove(player, reflect.TypeOf(Velocity{}))
	fmt.Println("has velocity:", ecs.Has[Velocity](world, player))

	world.Despawn(player)
	_, ok := ecs.Get[Position](world, player)
	fmt.Println("alive:", world.Alive(player), "position found:", ok)

	// Output:
	// has velocity: true
	// position: (4, 6)
	// has velocity: false
	// alive: false position found: false
}
