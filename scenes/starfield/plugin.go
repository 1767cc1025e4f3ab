// Package starfield is a small arcade scene: the player steers a ball with the
// arrow keys or WASD, collects stars and avoids enemies bouncing around the
// window.
package starfield

import (
	"go.uber.org/zap"

	"github.com/plus3/stagecraft/ecs"
)

// Plugin adds the starfield scene. It expects the host plugin to have been
// added first.
type Plugin struct {
	Config Config
	Seed   uint64
	Log    *zap.Logger
}

func (p Plugin) Build(app *ecs.App) {
	cfg := p.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	log := p.Log
	if log == nil {
		log = app.Log
	}

	registry := app.Registry()
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Star](registry)

	ecs.InsertResource(app.World, cfg)
	ecs.InsertResource(app.World, NewRng(p.Seed))
	ecs.InsertResource(app.World, Score{})
	ecs.InsertResource(app.World, HighScores{})
	ecs.InsertResource(app.World, GameOver{})
	ecs.InsertResource(app.World, SpawnTimers{
		Star:  ecs.NewTimer(cfg.StarSpawnInterval, ecs.TimerRepeating),
		Enemy: ecs.NewTimer(cfg.EnemySpawnInterval, ecs.TimerRepeating),
	})

	app.AddStartupSystems(
		ecs.Func("SpawnCamera", SpawnCamera),
		ecs.Func("SpawnPlayer", SpawnPlayer),
		ecs.Func("SpawnEnemies", SpawnEnemies),
		ecs.Func("SpawnStars", SpawnStars),
	)
	app.AddSystems(
		ecs.Func("PlayerMovement", PlayerMovement),
		ecs.Func("ConfinePlayer", ConfinePlayer),
		ecs.Func("EnemyMovement", EnemyMovement),
		ecs.Func("UpdateEnemyDirection", UpdateEnemyDirection),
		ecs.Func("ConfineEnemies", ConfineEnemies),
		ecs.Func("EnemyHitPlayer", EnemyHitPlayer),
		ecs.Func("PlayerHitStar", PlayerHitStar),
		ecs.Func("ReportScore", ReportScore(log.Named("starfield"))),
		ecs.Func("TickSpawnTimers", TickSpawnTimers),
		ecs.Func("SpawnStarsOverTime", SpawnStarsOverTime),
		ecs.Func("SpawnEnemiesOverTime", SpawnEnemiesOverTime),
		ecs.Func("ExitOnEscape", ExitOnEscape),
	)
}
