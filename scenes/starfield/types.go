package starfield

import (
	"math/rand/v2"

	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
)

const (
	SoundBounce    host.Sound = "audio/pluck_001.ogg"
	SoundExplosion host.Sound = "audio/explosionCrunch_000.ogg"
	SoundStar      host.Sound = "audio/laserLarge_000.ogg"
)

// Player marks the ball controlled by the keyboard.
type Player struct{}

// Enemy bounces around the window in a fixed direction.
type Enemy struct {
	DirX, DirY float32
}

// Star is collected by the player for a point.
type Star struct{}

// Score counts the stars collected in this run.
type Score struct {
	Value int
}

type HighScore struct {
	Name  string
	Score int
}

// HighScores keeps the result of every finished run.
type HighScores struct {
	Entries []HighScore
}

// GameOver is set once the player is hit.
type GameOver struct {
	Over  bool
	Score int
}

type SpawnTimers struct {
	Star  ecs.Timer
	Enemy ecs.Timer
}

// Rng is the scene's random source. Seeding it makes a run reproducible.
type Rng struct {
	*rand.Rand
}

func NewRng(seed uint64) Rng {
	return Rng{rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// between returns a random value in [lo, hi).
func (r Rng) between(lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float32()*(hi-lo)
}

func playerSprite(cfg *Config) host.Sprite {
	return host.Sprite{
		Asset:  "sprites/ball_blue_large.png",
		Width:  cfg.PlayerSize,
		Height: cfg.PlayerSize,
		Shape:  host.ShapeCircle,
		Color:  [3]uint8{64, 128, 255},
		Glyph:  '@',
	}
}

func enemySprite(cfg *Config) host.Sprite {
	return host.Sprite{
		Asset:  "sprites/ball_red_large.png",
		Width:  cfg.EnemySize,
		Height: cfg.EnemySize,
		Shape:  host.ShapeCircle,
		Color:  [3]uint8{220, 60, 60},
		Glyph:  'X',
	}
}

func starSprite(cfg *Config) host.Sprite {
	return host.Sprite{
		Asset:  "sprites/star.png",
		Width:  cfg.StarSize,
		Height: cfg.StarSize,
		Shape:  host.ShapeSquare,
		Color:  [3]uint8{250, 210, 60},
		Glyph:  '*',
	}
}
