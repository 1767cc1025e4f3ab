package host

import "github.com/plus3/stagecraft/ecs"

// DefaultWindow is the window used when a Plugin does not name one.
var DefaultWindow = Window{Width: 1280, Height: 720, Title: "stagecraft"}

// Plugin registers the collaborator components and resources every scene
// expects: transforms, sprites, the camera marker, the primary window entity,
// the input snapshot and the audio queue.
type Plugin struct {
	Window Window
}

func (p Plugin) Build(app *ecs.App) {
	registry := app.Registry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Window](registry)
	ecs.RegisterComponent[PrimaryWindow](registry)

	window := p.Window
	if window.Width == 0 || window.Height == 0 {
		window = DefaultWindow
	}
	app.World.Spawn(window, PrimaryWindow{})

	ecs.InsertResource(app.World, Input{})
	app.World.InsertResource(&AudioQueue{})
}
