package ecs_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/stagecraft/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type Hitpoints struct {
	Current, Max int
}

type PhysicsSystem struct {
	entities *ecs.Query2[Transform, Speed]
}

func (s *PhysicsSystem) Init(p *ecs.Params) {
	s.entities = ecs.NewQuery2[Transform, Speed](p)
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for transform, speed := range s.entities.Iter() {
		transform.X += speed.DX * float32(frame.DeltaTime())
		transform.Y += speed.DY * float32(frame.DeltaTime())
	}
}

type HealingSystem struct {
	entities  *ecs.Query[Hitpoints]
	RegenRate float32
}

func (s *HealingSystem) Init(p *ecs.Params) {
	s.entities = ecs.NewQuery[Hitpoints](p)
}

func (s *HealingSystem) Execute(frame *ecs.UpdateFrame) {
	for hp := range s.entities.Values() {
		if hp.Current < hp.Max {
			hp.Current += int(s.RegenRate * float32(frame.DeltaTime()))
			if hp.Current > hp.Max {
				hp.Current = hp.Max
			}
		}
	}
}

func newExampleWorld() (*ecs.ComponentRegistry, *ecs.World) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Speed](registry)
	ecs.RegisterComponent[Hitpoints](registry)
	return registry, ecs.NewWorld(registry)
}

// ExampleScheduler demonstrates building a game loop with multiple systems.
// Each system declares its queries in Init; the scheduler uses those
// declarations to decide which systems may run at the same time. Here the two
// systems touch different components and share a batch.
func ExampleScheduler() {
	_, world := newExampleWorld()

	world.Spawn(
		Transform{X: 0, Y: 0},
		Speed{DX: 10, DY: 5},
		Hitpoints{Current: 80, Max: 100},
	)
	world.Spawn(
		Transform{X: 100, Y: 100},
		Speed{DX: -5, DY: -5},
		Hitpoints{Current: 50, Max: 100},
	)

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(ecs.Update, &PhysicsSystem{})
	scheduler.Register(ecs.Update, &HealingSystem{RegenRate: 10})

	if err := scheduler.Once(time.Second); err != nil {
		panic(err)
	}

	plan, _ := scheduler.Plan(ecs.Update)
	fmt.Println("Batches:", plan)

	query, _ := ecs.Query2World[Transform, Hitpoints](world)
	fmt.Println("After one frame:")
	query.Each(func(e ecs.Entity, t *Transform, hp *Hitpoints) bool {
		fmt.Printf("Position: (%.0f, %.0f), Health: %d/%d\n", t.X, t.Y, hp.Current, hp.Max)
		return true
	})

	// Output:
	// Batches: [[PhysicsSystem HealingSystem]]
	// After one frame:
	// Position: (10, 5), Health: 90/100
	// Position: (95, 95), Health: 60/100
}

// ExampleScheduler_Run demonstrates running a continuous game loop.
// Run blocks and executes all systems at a fixed interval until the context is
// cancelled or a system calls frame.Exit.
func ExampleScheduler_Run() {
	_, world := newExampleWorld()

	world.Spawn(Transform{X: 0, Y: 0}, Speed{DX: 1, DY: 1})

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(ecs.Update, &PhysicsSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := scheduler.Run(ctx, 16*time.Millisecond); err != nil {
		panic(err)
	}

	fmt.Println("Scheduler stopped")
	// Output:
	// Scheduler stopped
}

type GameTime struct {
	TotalFrames int
	TotalTime   time.Duration
}

type ScoreTracker struct {
	Points int
}

// ExampleFunc demonstrates closure-style systems. The constructor declares the
// parameters; the returned function runs every tick.
func ExampleFunc() {
	_, world := newExampleWorld()

	ecs.InsertResource(world, GameTime{})
	ecs.InsertResource(world, ScoreTracker{})

	world.Spawn(Transform{X: 0, Y: 0})
	world.Spawn(Transform{X: 10, Y: 10})
	world.Spawn(Transform{X: 20, Y: 20})

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(ecs.Update, ecs.Func("time-tracker", func(p *ecs.Params) ecs.SystemFunc {
		gameTime := ecs.NewResMut[GameTime](p)
		return func(frame *ecs.UpdateFrame) {
			gt := gameTime.Get()
			gt.TotalFrames++
			gt.TotalTime += frame.Time.Delta
		}
	}))
	scheduler.Register(ecs.Update, ecs.Func("score", func(p *ecs.Params) ecs.SystemFunc {
		transforms := ecs.NewQuery[Transform](p, ecs.ReadOnly())
		score := ecs.NewResMut[ScoreTracker](p)
		return func(frame *ecs.UpdateFrame) {
			score.Get().Points += transforms.Len() * 10
		}
	}))

	for range 3 {
		if err := scheduler.Once(16 * time.Millisecond); err != nil {
			panic(err)
		}
	}

	gameTime, _ := ecs.Resource[GameTime](world)
	fmt.Printf("Frames: %d, Time: %v\n", gameTime.TotalFrames, gameTime.TotalTime)

	score, _ := ecs.Resource[ScoreTracker](world)
	fmt.Printf("Score: %d points\n", score.Points)

	// Output:
	// Frames: 3, Time: 48ms
	// Score: 90 points
}

// ExampleApp demonstrates grouping registration into plugins.
func ExampleApp() {
	app := ecs.NewApp(ecs.WithWorkers(1))

	greeter := ecs.PluginFunc(func(app *ecs.App) {
		ecs.RegisterComponent[Name](app.Registry())
		app.AddStartupSystems(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
			frame.Commands.Spawn(Name{Value: "world"})
		}))
		app.AddSystems(ecs.Func("greet", func(p *ecs.Params) ecs.SystemFunc {
			names := ecs.NewQuery[Name](p, ecs.ReadOnly())
			return func(frame *ecs.UpdateFrame) {
				for name := range names.Values() {
					fmt.Printf("tick %d: hello %s\n", frame.Time.Tick, name.Value)
				}
			}
		}))
	})

	app.AddPlugins(greeter)
	for range 2 {
		if err := app.Update(time.Millisecond); err != nil {
			panic(err)
		}
	}

	// Output:
	// tick 1: hello world
	// tick 2: hello world
}
