package ecs_test

import (
	"fmt"
	"slices"

	"github.com/plus3/stagecraft/ecs"
)

// ExampleQuery2 demonstrates iterating two components at once. Queries cache
// the list of matching archetypes and only check archetypes created since the
// previous iteration.
func ExampleQuery2() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	world := ecs.NewWorld(registry)

	world.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 0})
	world.Spawn(Position{X: 10, Y: 10}, Velocity{DX: 0, DY: 1}, Health{Current: 100, Max: 100})
	world.Spawn(Position{X: 20, Y: 20}, Velocity{DX: -1, DY: -1})

	query, err := ecs.Query2World[Position, Velocity](world)
	if err != nil {
		panic(err)
	}

	type result struct {
		x, y, newX, newY float32
	}
	results := make([]result, 0)
	for pos, vel := range query.Iter() {
		results = append(results, result{pos.X, pos.Y, pos.X + vel.DX, pos.Y + vel.DY})
	}
	slices.SortFunc(results, func(a, b result) int {
		return int(a.x - b.x)
	})

	fmt.Println("Moving entities:")
	for _, r := range results {
		fmt.Printf("Position (%.0f, %.0f) -> (%.0f, %.0f)\n", r.x, r.y, r.newX, r.newY)
	}

	// Output:
	// Moving entities:
	// Position (0, 0) -> (1, 0)
	// Position (10, 10) -> (10, 11)
	// Position (20, 20) -> (19, 19)
}

// ExampleWithout demonstrates filters that gate membership without fetching
// the filtered component.
func ExampleWithout() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Employed](registry)
	world := ecs.NewWorld(registry)

	world.Spawn(Name{Value: "Ada"}, Employed{})
	world.Spawn(Name{Value: "Grace"})

	employed, _ := ecs.QueryWorld[Name](world, ecs.With[Employed](), ecs.ReadOnly())
	unemployed, _ := ecs.QueryWorld[Name](world, ecs.Without[Employed](), ecs.ReadOnly())

	for name := range employed.Values() {
		fmt.Println(name.Value, "has a job")
	}
	for name := range unemployed.Values() {
		fmt.Println(name.Value, "is looking")
	}

	// Output:
	// Ada has a job
	// Grace is looking
}

// ExampleQuery_Single demonstrates the two ways of handling a single-result
// query: inspecting the error, or panicking with MustSingle.
func ExampleQuery_Single() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[PlayerController](registry)
	world := ecs.NewWorld(registry)

	players, _ := ecs.QueryWorld[Health](world, ecs.With[PlayerController]())

	if _, _, err := players.Single(); err != nil {
		fmt.Println("skip:", err)
	}

	world.Spawn(Health{Current: 3, Max: 3}, PlayerController{})
	_, health := players.MustSingle()
	fmt.Printf("player health %d/%d\n", health.Current, health.Max)

	// Output:
	// skip: ecs: query matched no entities
	// player health 3/3
}
