package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
	"github.com/plus3/stagecraft/host/beepaudio"
	"github.com/plus3/stagecraft/host/ebitenhost"
	"github.com/plus3/stagecraft/host/termhost"
	"github.com/plus3/stagecraft/scenes/people"
	"github.com/plus3/stagecraft/scenes/sprites"
	"github.com/plus3/stagecraft/scenes/starfield"
)

type options struct {
	scene     string
	host      string
	ticks     int
	tps       int
	seed      uint64
	config    string
	workers   int
	logLevel  string
	logFormat string
	logFile   string
	sound     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.scene, "scene", "starfield", "Scene to run: people, starfield or sprites.")
	flag.StringVar(&opts.host, "host", "term", "Host driver: headless, term or ebiten.")
	flag.IntVar(&opts.ticks, "ticks", 0, "Number of ticks to run before stopping; 0 runs until exit.")
	flag.IntVar(&opts.tps, "tps", 60, "Ticks per second.")
	flag.Uint64Var(&opts.seed, "seed", uint64(time.Now().UnixNano()), "Random seed for the scene.")
	flag.StringVar(&opts.config, "config", "", "Optional YAML file with starfield settings.")
	flag.IntVar(&opts.workers, "workers", 0, "Maximum systems run in parallel; 0 uses GOMAXPROCS, 1 runs sequentially.")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	flag.StringVar(&opts.logFormat, "log-format", "console", "Log format: console or json.")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr. The term host defaults to stagecraft.log.")
	flag.BoolVar(&opts.sound, "sound", false, "Play sounds on the system speaker.")
	flag.Parse()

	if opts.logFile == "" && opts.host == "term" {
		opts.logFile = "stagecraft.log"
	}

	log, err := newLogger(opts.logLevel, opts.logFormat, opts.logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stagecraft: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		log.Error("run failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func newLogger(level, format, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}
	return cfg.Build()
}

func run(ctx context.Context, opts options, log *zap.Logger) error {
	app, err := newApp(opts, log)
	if err != nil {
		return err
	}

	sink, closeSink, err := newSink(opts, app.Log)
	if err != nil {
		return err
	}
	defer closeSink()

	driver, err := newDriver(opts, sink, app.Log)
	if err != nil {
		return err
	}

	app.Log.Info("starting",
		zap.String("scene", opts.scene),
		zap.String("host", opts.host),
		zap.Uint64("seed", opts.seed),
	)
	if err := driver.Run(ctx, app); err != nil {
		return err
	}

	logSummary(app)
	return nil
}

func newApp(opts options, log *zap.Logger) (*ecs.App, error) {
	schedulerOpts := []ecs.Option{ecs.WithLogger(log)}
	if opts.workers > 0 {
		schedulerOpts = append(schedulerOpts, ecs.WithWorkers(opts.workers))
	}
	app := ecs.NewApp(schedulerOpts...)
	app.AddPlugins(host.Plugin{Window: host.DefaultWindow})

	switch opts.scene {
	case "people":
		app.AddPlugins(people.Plugin{Out: os.Stdout})
	case "sprites":
		app.AddPlugins(sprites.Plugin{})
	case "starfield":
		cfg := starfield.DefaultConfig()
		if opts.config != "" {
			loaded, err := starfield.LoadConfig(opts.config)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
		app.AddPlugins(starfield.Plugin{Config: cfg, Seed: opts.seed})
	default:
		return nil, fmt.Errorf("unknown scene %q", opts.scene)
	}

	if err := app.Scheduler.Build(); err != nil {
		return nil, err
	}
	return app, nil
}

func newSink(opts options, log *zap.Logger) (host.AudioSink, func(), error) {
	logSink := host.LogSink{Log: log}
	if !opts.sound {
		return logSink, func() {}, nil
	}

	speaker, err := beepaudio.New(log, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("init audio: %w", err)
	}
	return host.MultiSink{logSink, speaker}, speaker.Close, nil
}

func newDriver(opts options, sink host.AudioSink, log *zap.Logger) (host.Driver, error) {
	switch opts.host {
	case "headless":
		delta := time.Second / 60
		if opts.tps > 0 {
			delta = time.Second / time.Duration(opts.tps)
		}
		return host.Headless{Ticks: opts.ticks, Delta: delta, Sink: sink}, nil
	case "term":
		return termhost.Driver{TPS: opts.tps, Ticks: opts.ticks, Sink: sink, Log: log}, nil
	case "ebiten":
		return ebitenhost.Driver{TPS: opts.tps, Ticks: opts.ticks, Sink: sink, Log: log}, nil
	default:
		return nil, fmt.Errorf("unknown host %q", opts.host)
	}
}

func logSummary(app *ecs.App) {
	stats := app.Scheduler.GetStats()
	app.Log.Info("stopped", zap.Uint64("ticks", stats.Ticks), zap.Int64("executions", stats.TotalExecutions))

	for _, s := range stats.Systems {
		app.Log.Debug("system stats",
			zap.String("system", s.Name),
			zap.Stringer("phase", s.Phase),
			zap.Int64("runs", s.ExecutionCount),
			zap.Duration("avg", s.AvgDuration),
			zap.Duration("max", s.MaxDuration),
		)
	}

	if scores, ok := ecs.Resource[starfield.HighScores](app.World); ok {
		for _, entry := range scores.Entries {
			app.Log.Info("high score", zap.String("name", entry.Name), zap.Int("score", entry.Score))
		}
	}
}
