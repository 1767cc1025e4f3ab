// Package termhost drives an app in a terminal using tcell. Sprites are drawn
// as blocks of their glyph in their colour; key events are turned into held
// keys for a short window because terminals do not report key releases.
package termhost

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
	"github.com/plus3/stagecraft/host/inspect"
)

const (
	// CellWidth and CellHeight are the world units covered by one terminal cell.
	CellWidth  = 16
	CellHeight = 32

	defaultHold = 150 * time.Millisecond
)

// Driver renders to the terminal at a fixed tick rate.
type Driver struct {
	TPS   int
	Ticks int // zero runs until exit is requested or ctx is done
	Sink  host.AudioSink
	Log   *zap.Logger
	// Hold is how long a key counts as pressed after its last event.
	Hold time.Duration
}

type terminal struct {
	screen  tcell.Screen
	view    *host.View
	held    map[host.Key]time.Time
	hold    time.Duration
	inspect *inspect.Inspector
	overlay bool
}

func (d Driver) Run(ctx context.Context, app *ecs.App) error {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	tps := d.TPS
	if tps <= 0 {
		tps = 60
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	view, err := host.NewView(app.World)
	if err != nil {
		return err
	}

	t := &terminal{
		screen:  screen,
		view:    view,
		held:    make(map[host.Key]time.Time),
		hold:    d.Hold,
		inspect: inspect.New(tps, 5),
	}
	if t.hold <= 0 {
		t.hold = defaultHold
	}
	t.resize()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pump(screen.PollEvent, eventChan, done)

	interval := time.Second / time.Duration(tps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("terminal host running", zap.Int("tps", tps))
	lastFrameTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			t.handleEvent(app, ev)
			if app.ExitRequested() {
				log.Info("terminal host interrupted", zap.Uint64("ticks", app.World.Tick()))
				return nil
			}

		case now := <-ticker.C:
			dt := now.Sub(lastFrameTime)
			lastFrameTime = now
			t.inspect.Record(dt)

			if err := host.Step(app, dt, t.keys(now), d.Sink); err != nil {
				return err
			}
			t.draw(app)
			host.StopAfter(app, d.Ticks)
			if app.ExitRequested() {
				log.Info("terminal host exit requested", zap.Uint64("ticks", app.World.Tick()))
				return nil
			}
		}
	}
}

// pump forwards events from poll until poll returns nil or done is closed.
func pump(poll func() tcell.Event, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handleEvent records key presses and resizes. Ctrl-C asks the app to exit
// and F1 toggles the inspector overlay.
func (t *terminal) handleEvent(app *ecs.App, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			app.Scheduler.RequestExit()
			return
		case tcell.KeyF1:
			t.overlay = !t.overlay
			return
		}
		if k, ok := translate(ev); ok {
			t.held[k] = ev.When()
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.resize()
	}
}

func (t *terminal) resize() {
	cols, rows := t.screen.Size()
	t.view.Resize(float32(cols*CellWidth), float32(rows*CellHeight))
}

func (t *terminal) keys(now time.Time) host.KeySet {
	var set host.KeySet
	for k, at := range t.held {
		if now.Sub(at) > t.hold {
			delete(t.held, k)
			continue
		}
		set = set.With(k)
	}
	return set
}

func translate(ev *tcell.EventKey) (host.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return host.KeyUp, true
	case tcell.KeyDown:
		return host.KeyDown, true
	case tcell.KeyLeft:
		return host.KeyLeft, true
	case tcell.KeyRight:
		return host.KeyRight, true
	case tcell.KeyEscape:
		return host.KeyEscape, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return host.KeyW, true
		case 'a', 'A':
			return host.KeyA, true
		case 's', 'S':
			return host.KeyS, true
		case 'd', 'D':
			return host.KeyD, true
		case ' ':
			return host.KeySpace, true
		}
	}
	return 0, false
}

func (t *terminal) draw(app *ecs.App) {
	t.screen.Clear()

	cols, rows := t.screen.Size()
	screenW, screenH := float32(cols*CellWidth), float32(rows*CellHeight)

	for _, r := range t.view.Renderables() {
		sx, sy := t.view.ToScreen(r.Transform.X, r.Transform.Y, screenW, screenH)
		glyph := r.Sprite.Glyph
		if glyph == 0 {
			glyph = '█'
		}
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
			int32(r.Sprite.Color[0]), int32(r.Sprite.Color[1]), int32(r.Sprite.Color[2])))

		x0, y0, x1, y1 := cellBounds(sx, sy, r.Sprite.Width, r.Sprite.Height)
		for y := max(y0, 0); y <= min(y1, rows-1); y++ {
			for x := max(x0, 0); x <= min(x1, cols-1); x++ {
				t.screen.SetContent(x, y, glyph, nil, style)
			}
		}
	}

	if t.overlay {
		t.drawOverlay(app, cols, rows)
	}
	t.screen.Show()
}

func (t *terminal) drawOverlay(app *ecs.App, cols, rows int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	for y, line := range t.inspect.Lines(app) {
		if y >= rows {
			return
		}
		x := 0
		for _, r := range line {
			if x >= cols {
				break
			}
			t.screen.SetContent(x, y, r, nil, style)
			x++
		}
	}
}

// cellBounds returns the inclusive cell rectangle covered by a sprite centred
// on the screen position (sx, sy). Every sprite covers at least one cell.
func cellBounds(sx, sy, width, height float32) (x0, y0, x1, y1 int) {
	x0 = int((sx - width/2) / CellWidth)
	x1 = int((sx + width/2) / CellWidth)
	y0 = int((sy - height/2) / CellHeight)
	y1 = int((sy + height/2) / CellHeight)
	if x1 > x0 && float32(x1*CellWidth) == sx+width/2 {
		x1--
	}
	if y1 > y0 && float32(y1*CellHeight) == sy+height/2 {
		y1--
	}
	return x0, y0, x1, y1
}
