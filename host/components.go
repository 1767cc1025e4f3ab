package host

// Transform places an entity in world space. X grows to the right and Y grows
// upwards; Z orders drawing, higher values on top.
type Transform struct {
	X, Y, Z float32
}

// Shape selects how a Sprite without a loaded asset is drawn.
type Shape uint8

const (
	ShapeSquare Shape = iota
	ShapeCircle
)

// Sprite associates an entity with a renderable. Asset names the image a
// renderer would load; renderers that cannot load assets draw Shape in Color,
// or Glyph on a terminal.
type Sprite struct {
	Asset  string
	Width  float32
	Height float32
	Shape  Shape
	Color  [3]uint8
	Glyph  rune
}

// Camera marks the entity whose transform is the centre of the view.
type Camera struct{}

// Window holds the drawable bounds in world units. Drivers keep it current.
type Window struct {
	Width  float32
	Height float32
	Title  string
}

// PrimaryWindow marks the entity carrying the main Window.
type PrimaryWindow struct{}
