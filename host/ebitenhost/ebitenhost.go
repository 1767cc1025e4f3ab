// Package ebitenhost opens a desktop window with ebiten and draws every sprite
// as a filled shape in its colour.
package ebitenhost

import (
	"context"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
	"github.com/plus3/stagecraft/host/inspect"
)

var background = color.RGBA{R: 20, G: 20, B: 28, A: 255}

var keyBindings = []struct {
	key    host.Key
	ebiten ebiten.Key
}{
	{host.KeyUp, ebiten.KeyArrowUp},
	{host.KeyDown, ebiten.KeyArrowDown},
	{host.KeyLeft, ebiten.KeyArrowLeft},
	{host.KeyRight, ebiten.KeyArrowRight},
	{host.KeyW, ebiten.KeyW},
	{host.KeyA, ebiten.KeyA},
	{host.KeyS, ebiten.KeyS},
	{host.KeyD, ebiten.KeyD},
	{host.KeySpace, ebiten.KeySpace},
	{host.KeyEscape, ebiten.KeyEscape},
}

// Driver runs the app inside ebiten's game loop.
type Driver struct {
	TPS   int
	Ticks int // zero runs until exit is requested or ctx is done
	Sink  host.AudioSink
	Log   *zap.Logger
}

// Game adapts an App to ebiten.Game.
type Game struct {
	ctx   context.Context
	app   *ecs.App
	view  *host.View
	sink  host.AudioSink
	delta time.Duration
	ticks int
	err   error

	inspector  *inspect.Inspector
	overlay    bool
	lastUpdate time.Time

	outsideW, outsideH int
	resized            bool
}

func (d Driver) Run(ctx context.Context, app *ecs.App) error {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	tps := d.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}

	view, err := host.NewView(app.World)
	if err != nil {
		return err
	}

	width, height, title := 1280, 720, "stagecraft"
	if window, ok := view.Window(); ok {
		width, height = int(window.Width), int(window.Height)
		title = window.Title
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)

	game := &Game{
		ctx:   ctx,
		app:   app,
		view:  view,
		sink:  d.Sink,
		delta: time.Second / time.Duration(tps),
		ticks: d.Ticks,

		inspector: inspect.New(tps, 8),
	}

	log.Info("window host running", zap.Int("tps", tps), zap.Int("width", width), zap.Int("height", height))
	if err := ebiten.RunGame(game); err != nil {
		return err
	}
	return game.err
}

func pressedKeys() host.KeySet {
	var set host.KeySet
	for _, binding := range keyBindings {
		if ebiten.IsKeyPressed(binding.ebiten) {
			set = set.With(binding.key)
		}
	}
	return set
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.overlay = !g.overlay
	}
	if g.resized {
		g.view.Resize(float32(g.outsideW), float32(g.outsideH))
		g.resized = false
	}

	now := time.Now()
	if !g.lastUpdate.IsZero() {
		g.inspector.Record(now.Sub(g.lastUpdate))
	}
	g.lastUpdate = now

	if err := host.Step(g.app, g.delta, pressedKeys(), g.sink); err != nil {
		g.err = err
		return ebiten.Termination
	}
	host.StopAfter(g.app, g.ticks)
	if g.app.ExitRequested() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	bounds := screen.Bounds()
	screenW, screenH := float32(bounds.Dx()), float32(bounds.Dy())

	for _, r := range g.view.Renderables() {
		sx, sy := g.view.ToScreen(r.Transform.X, r.Transform.Y, screenW, screenH)
		renderSprite(screen, sx, sy, r.Sprite)
	}

	if g.overlay {
		for i, line := range g.inspector.Lines(g.app) {
			ebitenutil.DebugPrintAt(screen, line, 8, 8+i*16)
		}
	}
}

func renderSprite(screen *ebiten.Image, sx, sy float32, sprite host.Sprite) {
	clr := color.RGBA{R: sprite.Color[0], G: sprite.Color[1], B: sprite.Color[2], A: 255}

	switch sprite.Shape {
	case host.ShapeCircle:
		vector.DrawFilledCircle(screen, sx, sy, sprite.Width/2, clr, true)
	default:
		vector.DrawFilledRect(screen, sx-sprite.Width/2, sy-sprite.Height/2, sprite.Width, sprite.Height, clr, false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		g.resized = true
	}
	return outsideWidth, outsideHeight
}
