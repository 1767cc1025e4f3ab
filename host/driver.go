package host

import (
	"context"
	"time"

	"github.com/plus3/stagecraft/ecs"
)

// Driver owns the outer loop of an app: it feeds input, ticks the scheduler,
// forwards audio and presents the result.
type Driver interface {
	Run(ctx context.Context, app *ecs.App) error
}

// Step advances app by one tick. The input snapshot is replaced with keys
// before the tick and queued sounds are handed to sink after it.
func Step(app *ecs.App, dt time.Duration, keys KeySet, sink AudioSink) error {
	if input, ok := ecs.Resource[Input](app.World); ok {
		input.Advance(keys)
	}

	if err := app.Update(dt); err != nil {
		return err
	}

	if queue, ok := ecs.Resource[AudioQueue](app.World); ok && sink != nil {
		for _, sound := range queue.Drain() {
			sink.Play(sound)
		}
	}
	return nil
}

// StopAfter requests exit once app has run ticks update ticks. Zero means no
// limit.
func StopAfter(app *ecs.App, ticks int) {
	if ticks > 0 && app.World.Tick() >= uint64(ticks) {
		app.Scheduler.RequestExit()
	}
}

// Headless runs an app without presenting anything, using a fixed delta and
// scripted input. It is used by tests and batch runs.
type Headless struct {
	// Ticks bounds the run; zero runs until exit is requested or ctx is done.
	Ticks int
	// Delta is the simulated frame time; zero means 1/60s.
	Delta time.Duration
	// Script returns the keys held during a tick, starting at tick 1.
	Script func(tick uint64) KeySet
	// Sink receives played sounds; nil drops them.
	Sink AudioSink
}

func (h Headless) Run(ctx context.Context, app *ecs.App) error {
	dt := h.Delta
	if dt <= 0 {
		dt = time.Second / 60
	}

	for tick := uint64(1); h.Ticks <= 0 || tick <= uint64(h.Ticks); tick++ {
		if ctx.Err() != nil {
			return nil
		}

		var keys KeySet
		if h.Script != nil {
			keys = h.Script(tick)
		}
		if err := Step(app, dt, keys, h.Sink); err != nil {
			return err
		}
		if app.ExitRequested() {
			return nil
		}
	}
	return nil
}
