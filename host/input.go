package host

// Key is a logical input key, independent of any backend's key codes.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyEscape
)

var keyNames = [...]string{
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyW:      "w",
	KeyA:      "a",
	KeyS:      "s",
	KeyD:      "d",
	KeySpace:  "space",
	KeyEscape: "escape",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// KeySet is a set of keys.
type KeySet uint64

// Keys builds a set from the given keys.
func Keys(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

func (s KeySet) With(k Key) KeySet {
	return s | 1<<k
}

func (s KeySet) Has(k Key) bool {
	return s&(1<<k) != 0
}

// Input is the per-tick keyboard snapshot resource. Drivers advance it before
// every tick; systems only read it.
type Input struct {
	pressed     KeySet
	justPressed KeySet
}

// Advance replaces the pressed set and derives the keys that went down since
// the previous snapshot.
func (i *Input) Advance(pressed KeySet) {
	i.justPressed = pressed &^ i.pressed
	i.pressed = pressed
}

// Pressed reports whether k is held.
func (i *Input) Pressed(k Key) bool {
	return i.pressed.Has(k)
}

// AnyPressed reports whether any of keys is held.
func (i *Input) AnyPressed(keys ...Key) bool {
	for _, k := range keys {
		if i.pressed.Has(k) {
			return true
		}
	}
	return false
}

// JustPressed reports whether k went down since the previous tick.
func (i *Input) JustPressed(k Key) bool {
	return i.justPressed.Has(k)
}

// Axis returns the horizontal and vertical direction requested by the arrow
// keys or WASD, each in {-1, 0, 1}.
func (i *Input) Axis() (x, y float32) {
	if i.AnyPressed(KeyLeft, KeyA) {
		x--
	}
	if i.AnyPressed(KeyRight, KeyD) {
		x++
	}
	if i.AnyPressed(KeyUp, KeyW) {
		y++
	}
	if i.AnyPressed(KeyDown, KeyS) {
		y--
	}
	return x, y
}
