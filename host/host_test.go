package host_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInput(t *testing.T) {
	var input host.Input

	input.Advance(host.Keys(host.KeyLeft, host.KeyW))
	assert.True(t, input.Pressed(host.KeyLeft))
	assert.True(t, input.JustPressed(host.KeyLeft))
	assert.False(t, input.Pressed(host.KeyRight))

	x, y := input.Axis()
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(1), y)

	input.Advance(host.Keys(host.KeyLeft, host.KeyEscape))
	assert.True(t, input.Pressed(host.KeyLeft))
	assert.False(t, input.JustPressed(host.KeyLeft))
	assert.True(t, input.JustPressed(host.KeyEscape))
	assert.False(t, input.Pressed(host.KeyW))

	// opposite keys cancel
	input.Advance(host.Keys(host.KeyA, host.KeyD))
	x, _ = input.Axis()
	assert.Equal(t, float32(0), x)

	assert.Equal(t, "escape", host.KeyEscape.String())
}

func TestAudioQueue(t *testing.T) {
	var queue host.AudioQueue
	queue.Play("a.ogg")
	queue.Play("b.ogg")

	assert.Equal(t, []host.Sound{"a.ogg", "b.ogg"}, queue.Drain())
	assert.Empty(t, queue.Drain())
}

func TestMultiSink(t *testing.T) {
	a := &host.RecordingSink{}
	b := &host.RecordingSink{}
	sink := host.MultiSink{a, b, host.LogSink{Log: zaptest.NewLogger(t)}}

	sink.Play("pop.ogg")
	assert.Equal(t, []host.Sound{"pop.ogg"}, a.Sounds())
	assert.Equal(t, []host.Sound{"pop.ogg"}, b.Sounds())
}

func newHostApp(t *testing.T) *ecs.App {
	app := ecs.NewApp(ecs.WithLogger(zaptest.NewLogger(t)))
	app.AddPlugins(host.Plugin{Window: host.Window{Width: 800, Height: 600}})
	return app
}

func TestHeadlessDriver(t *testing.T) {
	app := newHostApp(t)

	var seen []bool
	app.AddSystems(ecs.Func("jumper", func(p *ecs.Params) ecs.SystemFunc {
		input := ecs.NewRes[host.Input](p)
		audio := ecs.NewRes[host.AudioQueue](p)
		return func(frame *ecs.UpdateFrame) {
			jumped := input.Get().JustPressed(host.KeySpace)
			seen = append(seen, jumped)
			if jumped {
				audio.Get().Play("jump.ogg")
			}
		}
	}))

	sink := &host.RecordingSink{}
	driver := host.Headless{
		Ticks: 4,
		Delta: 10 * time.Millisecond,
		Script: func(tick uint64) host.KeySet {
			if tick == 2 || tick == 3 {
				return host.Keys(host.KeySpace)
			}
			return 0
		},
		Sink: sink,
	}

	require.NoError(t, driver.Run(context.Background(), app))
	assert.Equal(t, []bool{false, true, false, false}, seen)
	assert.Equal(t, []host.Sound{"jump.ogg"}, sink.Sounds())
	assert.Equal(t, uint64(4), app.World.Tick())

	clock, _ := ecs.Resource[ecs.Time](app.World)
	assert.Equal(t, 40*time.Millisecond, clock.Elapsed)
}

func TestHeadlessStopsOnExit(t *testing.T) {
	app := newHostApp(t)

	app.AddSystems(ecs.Func("quit", func(p *ecs.Params) ecs.SystemFunc {
		input := ecs.NewRes[host.Input](p)
		return func(frame *ecs.UpdateFrame) {
			if input.Get().JustPressed(host.KeyEscape) {
				frame.Exit()
			}
		}
	}))

	driver := host.Headless{
		Script: func(tick uint64) host.KeySet {
			if tick == 5 {
				return host.Keys(host.KeyEscape)
			}
			return 0
		},
	}
	require.NoError(t, driver.Run(context.Background(), app))
	assert.Equal(t, uint64(5), app.World.Tick())
}

func TestStopAfter(t *testing.T) {
	app := newHostApp(t)

	host.StopAfter(app, 2)
	assert.False(t, app.ExitRequested())

	require.NoError(t, host.Step(app, time.Millisecond, 0, nil))
	host.StopAfter(app, 2)
	assert.False(t, app.ExitRequested())

	require.NoError(t, host.Step(app, time.Millisecond, 0, nil))
	host.StopAfter(app, 0)
	assert.False(t, app.ExitRequested(), "zero means no limit")
	host.StopAfter(app, 2)
	assert.True(t, app.ExitRequested())
}

func TestHeadlessStopsOnCancel(t *testing.T) {
	app := newHostApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	app.AddSystems(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		if frame.Time.Tick == 3 {
			cancel()
		}
	}))

	require.NoError(t, host.Headless{}.Run(ctx, app))
	assert.Equal(t, uint64(3), app.World.Tick())
}

func TestView(t *testing.T) {
	app := newHostApp(t)
	world := app.World

	view, err := host.NewView(world)
	require.NoError(t, err)

	window, ok := view.Window()
	require.True(t, ok)
	assert.Equal(t, float32(800), window.Width)

	// no camera yet: centred on the window
	cx, cy := view.Camera()
	assert.Equal(t, float32(400), cx)
	assert.Equal(t, float32(300), cy)

	top := world.Spawn(host.Transform{X: 1, Z: 2}, host.Sprite{Glyph: 'T'})
	bottom := world.Spawn(host.Transform{X: 2, Z: 0}, host.Sprite{Glyph: 'B'})
	world.Spawn(host.Transform{X: 3})

	renderables := view.Renderables()
	require.Len(t, renderables, 2)
	assert.Equal(t, bottom, renderables[0].Entity)
	assert.Equal(t, top, renderables[1].Entity)

	world.Spawn(host.Transform{X: 100, Y: 50}, host.Camera{})
	sx, sy := view.ToScreen(100, 60, 800, 600)
	assert.Equal(t, float32(400), sx)
	assert.Equal(t, float32(290), sy)

	view.Resize(1024, 768)
	window, _ = view.Window()
	assert.Equal(t, float32(1024), window.Width)
	assert.Equal(t, float32(768), window.Height)
}
