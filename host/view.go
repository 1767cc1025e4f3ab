package host

import (
	"cmp"
	"slices"

	"github.com/plus3/stagecraft/ecs"
)

// Renderable is one drawable entity captured for a frame.
type Renderable struct {
	Entity    ecs.Entity
	Transform Transform
	Sprite    Sprite
}

// View reads the render-facing state of a world for drivers. It must only be
// used between ticks.
type View struct {
	world   *ecs.World
	sprites *ecs.Query2[Transform, Sprite]
	cameras *ecs.Query[Transform]
	windows *ecs.Query[Window]
}

// NewView builds the queries a driver needs. The host Plugin must have been added.
func NewView(world *ecs.World) (*View, error) {
	sprites, err := ecs.Query2World[Transform, Sprite](world, ecs.ReadOnly())
	if err != nil {
		return nil, err
	}
	cameras, err := ecs.QueryWorld[Transform](world, ecs.With[Camera](), ecs.ReadOnly())
	if err != nil {
		return nil, err
	}
	windows, err := ecs.QueryWorld[Window](world, ecs.With[PrimaryWindow]())
	if err != nil {
		return nil, err
	}
	return &View{world: world, sprites: sprites, cameras: cameras, windows: windows}, nil
}

// Renderables returns every entity with a Transform and a Sprite, ordered by Z
// and then by query order.
func (v *View) Renderables() []Renderable {
	out := make([]Renderable, 0, v.sprites.Len())
	v.sprites.Each(func(e ecs.Entity, t *Transform, s *Sprite) bool {
		out = append(out, Renderable{Entity: e, Transform: *t, Sprite: *s})
		return true
	})
	slices.SortStableFunc(out, func(a, b Renderable) int {
		return cmp.Compare(a.Transform.Z, b.Transform.Z)
	})
	return out
}

// Window returns the primary window.
func (v *View) Window() (*Window, bool) {
	_, w, err := v.windows.Single()
	return w, err == nil
}

// Camera returns the centre of the view. Without a camera entity the view is
// centred on the window.
func (v *View) Camera() (x, y float32) {
	if _, t, err := v.cameras.Single(); err == nil {
		return t.X, t.Y
	}
	if w, ok := v.Window(); ok {
		return w.Width / 2, w.Height / 2
	}
	return 0, 0
}

// Resize updates the primary window bounds.
func (v *View) Resize(width, height float32) {
	if w, ok := v.Window(); ok {
		w.Width = width
		w.Height = height
	}
}

// ToScreen converts a world position into screen coordinates with the origin
// at the top left and Y growing downwards.
func (v *View) ToScreen(x, y, screenW, screenH float32) (float32, float32) {
	cx, cy := v.Camera()
	return x - cx + screenW/2, screenH/2 - (y - cy)
}
