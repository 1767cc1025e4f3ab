// Package sprites is the smallest scene: a camera and one coloured square in
// the middle of the window.
package sprites

import (
	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
)

var SquareColor = [3]uint8{64, 64, 191}

const SquareSize = 150

type Plugin struct{}

func (Plugin) Build(app *ecs.App) {
	app.AddStartupSystems(ecs.Func("Setup", Setup))
}

func Setup(p *ecs.Params) ecs.SystemFunc {
	windows := ecs.NewQuery[host.Window](p, ecs.With[host.PrimaryWindow](), ecs.ReadOnly())
	return func(frame *ecs.UpdateFrame) {
		_, window := windows.MustSingle()
		centre := host.Transform{X: window.Width / 2, Y: window.Height / 2}

		frame.Commands.Spawn(centre, host.Camera{})
		frame.Commands.Spawn(centre, host.Sprite{
			Width:  SquareSize,
			Height: SquareSize,
			Shape:  host.ShapeSquare,
			Color:  SquareColor,
			Glyph:  '#',
		})
	}
}
