package starfield

import (
	"math"

	"go.uber.org/zap"

	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
)

func primaryWindow(p *ecs.Params) *ecs.Query[host.Window] {
	return ecs.NewQuery[host.Window](p, ecs.With[host.PrimaryWindow](), ecs.ReadOnly())
}

// Player, enemy and star queries exclude each other so that systems moving
// different kinds of ball can share a batch.

func playerTransform(p *ecs.Params, opts ...ecs.QueryOption) *ecs.Query[host.Transform] {
	opts = append(opts, ecs.With[Player](), ecs.Without[Enemy](), ecs.Without[Star]())
	return ecs.NewQuery[host.Transform](p, opts...)
}

func enemyTransforms(p *ecs.Params, opts ...ecs.QueryOption) *ecs.Query[host.Transform] {
	opts = append(opts, ecs.With[Enemy](), ecs.Without[Player]())
	return ecs.NewQuery[host.Transform](p, opts...)
}

func enemies(p *ecs.Params) *ecs.Query2[host.Transform, Enemy] {
	return ecs.NewQuery2[host.Transform, Enemy](p, ecs.Without[Player]())
}

func starTransforms(p *ecs.Params) *ecs.Query[host.Transform] {
	return ecs.NewQuery[host.Transform](p, ecs.With[Star](), ecs.Without[Player](), ecs.Without[Enemy](), ecs.ReadOnly())
}

func SpawnCamera(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	return func(frame *ecs.UpdateFrame) {
		_, window := windows.MustSingle()
		frame.Commands.Spawn(host.Transform{X: window.Width / 2, Y: window.Height / 2}, host.Camera{})
	}
}

// SpawnPlayer places the player in the middle of the window. A missing
// primary window is a setup error and panics.
func SpawnPlayer(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	return func(frame *ecs.UpdateFrame) {
		_, window := windows.MustSingle()
		frame.Commands.Spawn(
			host.Transform{X: window.Width / 2, Y: window.Height / 2},
			playerSprite(config.Get()),
			Player{},
		)
	}
}

func randomDirection(rng Rng) (float32, float32) {
	angle := rng.Float64() * 2 * math.Pi
	return float32(math.Cos(angle)), float32(math.Sin(angle))
}

func spawnEnemy(cmd *ecs.Commands, cfg *Config, rng Rng, window *host.Window) {
	half := cfg.EnemySize / 2
	dx, dy := randomDirection(rng)
	cmd.Spawn(
		host.Transform{X: rng.between(half, window.Width-half), Y: rng.between(half, window.Height-half)},
		enemySprite(cfg),
		Enemy{DirX: dx, DirY: dy},
	)
}

func spawnStar(cmd *ecs.Commands, cfg *Config, rng Rng, window *host.Window) {
	half := cfg.StarSize / 2
	cmd.Spawn(
		host.Transform{X: rng.between(half, window.Width-half), Y: rng.between(half, window.Height-half)},
		starSprite(cfg),
		Star{},
	)
}

func SpawnEnemies(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	rng := ecs.NewResMut[Rng](p)
	return func(frame *ecs.UpdateFrame) {
		_, window := windows.MustSingle()
		cfg := config.Get()
		for range cfg.EnemyCount {
			spawnEnemy(frame.Commands, cfg, *rng.Get(), window)
		}
	}
}

func SpawnStars(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	rng := ecs.NewResMut[Rng](p)
	return func(frame *ecs.UpdateFrame) {
		_, window := windows.MustSingle()
		cfg := config.Get()
		for range cfg.StarCount {
			spawnStar(frame.Commands, cfg, *rng.Get(), window)
		}
	}
}

func PlayerMovement(p *ecs.Params) ecs.SystemFunc {
	input := ecs.NewRes[host.Input](p)
	config := ecs.NewRes[Config](p)
	players := playerTransform(p)
	return func(frame *ecs.UpdateFrame) {
		_, transform, err := players.Single()
		if err != nil {
			return
		}

		x, y := input.Get().Axis()
		if length := float32(math.Hypot(float64(x), float64(y))); length > 0 {
			x, y = x/length, y/length
		}

		step := config.Get().PlayerSpeed * float32(frame.DeltaTime())
		transform.X += x * step
		transform.Y += y * step
	}
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

func ConfinePlayer(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	players := playerTransform(p)
	return func(frame *ecs.UpdateFrame) {
		_, transform, err := players.Single()
		if err != nil {
			return
		}
		_, window, err := windows.Single()
		if err != nil {
			return
		}

		half := config.Get().PlayerSize / 2
		transform.X = clamp(transform.X, half, window.Width-half)
		transform.Y = clamp(transform.Y, half, window.Height-half)
	}
}

func EnemyMovement(p *ecs.Params) ecs.SystemFunc {
	config := ecs.NewRes[Config](p)
	balls := enemies(p)
	return func(frame *ecs.UpdateFrame) {
		step := config.Get().EnemySpeed * float32(frame.DeltaTime())
		for transform, enemy := range balls.Iter() {
			transform.X += enemy.DirX * step
			transform.Y += enemy.DirY * step
		}
	}
}

// UpdateEnemyDirection bounces enemies off the window edges, with a sound for
// every bounce.
func UpdateEnemyDirection(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	audio := ecs.NewRes[host.AudioQueue](p)
	balls := enemies(p)
	return func(frame *ecs.UpdateFrame) {
		_, window, err := windows.Single()
		if err != nil {
			return
		}

		half := config.Get().EnemySize / 2
		for transform, enemy := range balls.Iter() {
			bounced := false
			if transform.X < half || transform.X > window.Width-half {
				enemy.DirX = -enemy.DirX
				bounced = true
			}
			if transform.Y < half || transform.Y > window.Height-half {
				enemy.DirY = -enemy.DirY
				bounced = true
			}
			if bounced {
				audio.Get().Play(SoundBounce)
			}
		}
	}
}

func ConfineEnemies(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	balls := enemyTransforms(p)
	return func(frame *ecs.UpdateFrame) {
		_, window, err := windows.Single()
		if err != nil {
			return
		}

		half := config.Get().EnemySize / 2
		for transform := range balls.Values() {
			transform.X = clamp(transform.X, half, window.Width-half)
			transform.Y = clamp(transform.Y, half, window.Height-half)
		}
	}
}

func distance(a, b *host.Transform) float32 {
	return float32(math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)))
}

// EnemyHitPlayer ends the run when an enemy touches the player. The final
// score is recorded in HighScores.
func EnemyHitPlayer(p *ecs.Params) ecs.SystemFunc {
	config := ecs.NewRes[Config](p)
	audio := ecs.NewRes[host.AudioQueue](p)
	score := ecs.NewRes[Score](p)
	gameOver := ecs.NewResMut[GameOver](p)
	highScores := ecs.NewResMut[HighScores](p)
	players := playerTransform(p, ecs.ReadOnly())
	balls := enemyTransforms(p, ecs.ReadOnly())
	return func(frame *ecs.UpdateFrame) {
		player, playerPos, err := players.Single()
		if err != nil {
			return
		}

		cfg := config.Get()
		reach := cfg.PlayerSize/2 + cfg.EnemySize/2
		for enemyPos := range balls.Values() {
			if distance(playerPos, enemyPos) >= reach {
				continue
			}

			final := score.Get().Value
			frame.Commands.Despawn(player)
			audio.Get().Play(SoundExplosion)
			gameOver.Set(GameOver{Over: true, Score: final})
			highScores.Get().Entries = append(highScores.Get().Entries, HighScore{Name: "Player", Score: final})
			return
		}
	}
}

func PlayerHitStar(p *ecs.Params) ecs.SystemFunc {
	config := ecs.NewRes[Config](p)
	audio := ecs.NewRes[host.AudioQueue](p)
	score := ecs.NewResMut[Score](p)
	players := playerTransform(p, ecs.ReadOnly())
	stars := starTransforms(p)
	return func(frame *ecs.UpdateFrame) {
		_, playerPos, err := players.Single()
		if err != nil {
			return
		}

		cfg := config.Get()
		reach := cfg.PlayerSize/2 + cfg.StarSize/2
		for star, starPos := range stars.Iter() {
			if distance(playerPos, starPos) >= reach {
				continue
			}
			frame.Commands.Despawn(star)
			score.Get().Value++
			audio.Get().Play(SoundStar)
		}
	}
}

// ReportScore logs the score on the tick after it changes.
func ReportScore(log *zap.Logger) func(p *ecs.Params) ecs.SystemFunc {
	return func(p *ecs.Params) ecs.SystemFunc {
		score := ecs.NewRes[Score](p)
		return func(frame *ecs.UpdateFrame) {
			if score.IsChanged() {
				log.Info("score", zap.Int("score", score.Get().Value), zap.Uint64("tick", frame.Time.Tick))
			}
		}
	}
}

func TickSpawnTimers(p *ecs.Params) ecs.SystemFunc {
	timers := ecs.NewResMut[SpawnTimers](p)
	return func(frame *ecs.UpdateFrame) {
		t := timers.Get()
		t.Star.Tick(frame.Time.Delta)
		t.Enemy.Tick(frame.Time.Delta)
	}
}

func SpawnStarsOverTime(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	timers := ecs.NewRes[SpawnTimers](p)
	rng := ecs.NewResMut[Rng](p)
	return func(frame *ecs.UpdateFrame) {
		if !timers.Get().Star.JustFinished() {
			return
		}
		_, window, err := windows.Single()
		if err != nil {
			return
		}
		for range timers.Get().Star.TimesFinished() {
			spawnStar(frame.Commands, config.Get(), *rng.Get(), window)
		}
	}
}

func SpawnEnemiesOverTime(p *ecs.Params) ecs.SystemFunc {
	windows := primaryWindow(p)
	config := ecs.NewRes[Config](p)
	timers := ecs.NewRes[SpawnTimers](p)
	rng := ecs.NewResMut[Rng](p)
	return func(frame *ecs.UpdateFrame) {
		if !timers.Get().Enemy.JustFinished() {
			return
		}
		_, window, err := windows.Single()
		if err != nil {
			return
		}
		for range timers.Get().Enemy.TimesFinished() {
			spawnEnemy(frame.Commands, config.Get(), *rng.Get(), window)
		}
	}
}

func ExitOnEscape(p *ecs.Params) ecs.SystemFunc {
	input := ecs.NewRes[host.Input](p)
	return func(frame *ecs.UpdateFrame) {
		if input.Get().JustPressed(host.KeyEscape) {
			frame.Exit()
		}
	}
}
