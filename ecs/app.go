package ecs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Plugin groups the component registrations, resources and systems of one feature.
type Plugin interface {
	Build(app *App)
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(app *App)

func (f PluginFunc) Build(app *App) {
	f(app)
}

// App is the process-scoped context of one ECS instance: the world, the
// scheduler driving it and the logger tagged with the run id. It is passed
// explicitly to plugins and host drivers.
type App struct {
	World     *World
	Scheduler *Scheduler
	Log       *zap.Logger
	RunID     uuid.UUID
}

// NewApp creates an app with an empty world and a fresh component registry.
func NewApp(opts ...Option) *App {
	world := NewWorld(NewComponentRegistry())
	runID := uuid.New()

	scheduler := NewScheduler(world, opts...)
	scheduler.log = scheduler.log.With(zap.Stringer("run_id", runID))

	return &App{
		World:     world,
		Scheduler: scheduler,
		Log:       scheduler.log,
		RunID:     runID,
	}
}

// Registry returns the component registry of the app's world.
func (a *App) Registry() *ComponentRegistry {
	return a.World.registry
}

// AddPlugins builds each plugin in order.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, plugin := range plugins {
		plugin.Build(a)
	}
	return a
}

// AddStartupSystems registers systems that run once before the first tick.
func (a *App) AddStartupSystems(systems ...System) *App {
	for _, system := range systems {
		a.Scheduler.Register(Startup, system)
	}
	return a
}

// AddSystems registers systems that run every tick.
func (a *App) AddSystems(systems ...System) *App {
	for _, system := range systems {
		a.Scheduler.Register(Update, system)
	}
	return a
}

// InsertResource stores a resource in the app's world.
func (a *App) InsertResource(value any) *App {
	a.World.InsertResource(value)
	return a
}

// Update runs startup on the first call and then a single tick.
func (a *App) Update(dt time.Duration) error {
	return a.Scheduler.Once(dt)
}

// Run ticks the app at the given interval until ctx is done or a system
// requests exit.
func (a *App) Run(ctx context.Context, interval time.Duration) error {
	return a.Scheduler.Run(ctx, interval)
}

// ExitRequested reports whether a system asked the app to stop.
func (a *App) ExitRequested() bool {
	return a.Scheduler.ExitRequested()
}
