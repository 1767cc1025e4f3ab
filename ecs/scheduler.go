package ecs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Phase selects when a system runs.
type Phase uint8

const (
	// Startup systems run exactly once, before the first update tick.
	Startup Phase = iota
	// Update systems run once per tick.
	Update

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case Startup:
		return "startup"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Phase          Phase
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type systemEntry struct {
	name     string
	phase    Phase
	system   System
	access   Access
	commands *Commands
	frame    UpdateFrame
	stats    systemStatsInternal
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for schedule and lifecycle messages.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		s.log = log
	}
}

// WithWorkers bounds how many systems of one batch run at the same time.
// A value of 1 runs every system sequentially in registration order.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// Scheduler manages and executes systems in two phases. Systems of a phase are
// packed into batches of mutually compatible systems; batches run in order and
// the systems of a batch run concurrently. Every phase ends with a sync point
// that applies the systems' command buffers in registration order.
type Scheduler struct {
	world   *World
	log     *zap.Logger
	workers int

	systems [phaseCount][]*systemEntry
	batches [phaseCount][][]*systemEntry
	names   map[string]struct{}
	errs    []error

	built       bool
	buildErr    error
	startupDone bool
	elapsed     time.Duration
	exit        atomic.Bool
}

// NewScheduler creates a new scheduler for the given world and inserts the
// Time resource if it is missing.
func NewScheduler(world *World, opts ...Option) *Scheduler {
	s := &Scheduler{
		world:   world,
		log:     zap.NewNop(),
		workers: runtime.GOMAXPROCS(0),
		names:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := Resource[Time](world); !ok {
		InsertResource(world, Time{})
	}
	return s
}

// World returns the world the scheduler drives.
func (s *Scheduler) World() *World {
	return s.world
}

// Register adds a system to a phase and runs its Init to collect declared
// parameters. Problems are reported by the next Build.
func (s *Scheduler) Register(phase Phase, system System) {
	name := systemName(system)
	s.built = false
	if phase == Startup && s.startupDone {
		s.errs = append(s.errs, fmt.Errorf("%w: startup already ran, cannot add %s", ErrScheduleBuilt, name))
		return
	}
	if _, dup := s.names[name]; dup {
		s.errs = append(s.errs, fmt.Errorf("%w: %s", ErrDuplicateSystem, name))
		return
	}
	s.names[name] = struct{}{}

	params := newParams(s.world)
	if init, ok := system.(Initializer); ok {
		init.Init(params)
	}
	if err := params.err(); err != nil {
		s.errs = append(s.errs, fmt.Errorf("system %s: %w", name, err))
	}

	entry := &systemEntry{
		name:     name,
		phase:    phase,
		system:   system,
		access:   params.Access(),
		commands: NewCommands(s.world),
		stats:    systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}
	entry.frame = UpdateFrame{
		Commands:  entry.commands,
		world:     s.world,
		exclusive: params.Access().Exclusive(),
		system:    name,
		exit:      &s.exit,
	}
	s.systems[phase] = append(s.systems[phase], entry)
}

func systemName(system System) string {
	if named, ok := system.(Named); ok {
		return named.Name()
	}
	if fn, ok := system.(SystemFunc); ok {
		if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
			return f.Name()
		}
	}
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Build validates every registered system and plans the batches. It is called
// by Once and Run; calling it directly surfaces construction errors before the
// first tick.
func (s *Scheduler) Build() error {
	if s.built {
		return s.buildErr
	}
	s.built = true
	s.buildErr = errors.Join(s.errs...)
	if s.buildErr != nil {
		s.log.Error("schedule rejected", zap.Error(s.buildErr))
		return s.buildErr
	}

	for phase := Phase(0); phase < phaseCount; phase++ {
		if phase == Startup {
			s.batches[phase] = sequentialBatches(s.systems[phase])
		} else {
			s.batches[phase] = planBatches(s.systems[phase])
		}
		for i, batch := range s.batches[phase] {
			names := make([]string, len(batch))
			access := make([]string, len(batch))
			for j, entry := range batch {
				names[j] = entry.name
				access[j] = entry.access.Describe(s.world.registry)
			}
			s.log.Debug("batch planned",
				zap.Stringer("phase", phase),
				zap.Int("batch", i),
				zap.Strings("systems", names),
				zap.Strings("access", access))
		}
	}
	return nil
}

// sequentialBatches gives every system its own batch. Startup systems run this
// way so entities they spawn get the same ids on every run.
func sequentialBatches(systems []*systemEntry) [][]*systemEntry {
	batches := make([][]*systemEntry, len(systems))
	for i, entry := range systems {
		batches[i] = []*systemEntry{entry}
	}
	return batches
}

// planBatches places each system in the first batch after every earlier
// system it conflicts with. Conflicting systems therefore keep registration
// order; compatible systems may move forward and share a batch.
func planBatches(systems []*systemEntry) [][]*systemEntry {
	var batches [][]*systemEntry
	batchOf := make([]int, len(systems))
	for i, entry := range systems {
		target := 0
		for j := 0; j < i; j++ {
			if batchOf[j] >= target && systems[j].access.ConflictsWith(entry.access) {
				target = batchOf[j] + 1
			}
		}
		batchOf[i] = target
		if target == len(batches) {
			batches = append(batches, nil)
		}
		batches[target] = append(batches[target], entry)
	}
	return batches
}

// Plan returns the names of the systems in each batch of a phase.
func (s *Scheduler) Plan(phase Phase) ([][]string, error) {
	if err := s.Build(); err != nil {
		return nil, err
	}
	plan := make([][]string, len(s.batches[phase]))
	for i, batch := range s.batches[phase] {
		for _, entry := range batch {
			plan[i] = append(plan[i], entry.name)
		}
	}
	return plan, nil
}

// Startup runs the startup phase if it has not run yet.
func (s *Scheduler) Startup() error {
	if err := s.Build(); err != nil {
		return err
	}
	if s.startupDone {
		return nil
	}
	s.startupDone = true
	s.runPhase(Startup, Time{})
	return nil
}

// Once runs the startup phase on the first call, then one update tick with
// the given delta.
func (s *Scheduler) Once(dt time.Duration) error {
	if err := s.Startup(); err != nil {
		return err
	}

	s.world.tick++
	s.elapsed += dt
	now := Time{Delta: dt, Elapsed: s.elapsed, Tick: s.world.tick}
	InsertResource(s.world, now)

	s.runPhase(Update, now)
	return nil
}

func (s *Scheduler) runPhase(phase Phase, now Time) {
	systems := s.systems[phase]
	for _, entry := range systems {
		entry.frame.Time = now
	}

	if s.workers <= 1 {
		for _, entry := range systems {
			execute(entry)
		}
	} else {
		for _, batch := range s.batches[phase] {
			if len(batch) == 1 {
				execute(batch[0])
				continue
			}
			var g errgroup.Group
			g.SetLimit(s.workers)
			for _, entry := range batch {
				g.Go(func() error {
					execute(entry)
					return nil
				})
			}
			_ = g.Wait()
		}
	}

	// sync point
	for _, entry := range systems {
		entry.commands.Apply(s.world)
	}
	s.world.Maintain()
}

func execute(entry *systemEntry) {
	start := time.Now()
	entry.system.Execute(&entry.frame)
	entry.stats.record(time.Since(start))
}

// RequestExit asks Run to return after the current tick.
func (s *Scheduler) RequestExit() {
	s.exit.Store(true)
}

// ExitRequested reports whether a system or the host asked the loop to stop.
func (s *Scheduler) ExitRequested() bool {
	return s.exit.Load()
}

// Run executes the startup phase and then update ticks at the given interval
// until the context is cancelled or exit is requested. No system runs after
// Run returns.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	if err := s.Startup(); err != nil {
		return err
	}
	if s.ExitRequested() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("scheduler running", zap.Duration("interval", interval), zap.Int("workers", s.workers))
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped", zap.Uint64("ticks", s.world.tick), zap.NamedError("reason", ctx.Err()))
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime)
			lastTime = now
			if err := s.Once(dt); err != nil {
				return err
			}
			if s.ExitRequested() {
				s.log.Info("scheduler exit requested", zap.Uint64("ticks", s.world.tick))
				return nil
			}
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{Ticks: s.world.tick}

	for phase := Phase(0); phase < phaseCount; phase++ {
		for _, entry := range s.systems[phase] {
			internal := &entry.stats
			avgDuration, minDuration := time.Duration(0), time.Duration(0)
			if internal.executionCount > 0 {
				avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
				minDuration = internal.minDuration
			}

			stats.Systems = append(stats.Systems, SystemStats{
				Name:           entry.name,
				Phase:          phase,
				ExecutionCount: internal.executionCount,
				MinDuration:    minDuration,
				MaxDuration:    internal.maxDuration,
				AvgDuration:    avgDuration,
				LastDuration:   internal.lastDuration,
				TotalDuration:  internal.totalDuration,
			})
			stats.TotalExecutions += internal.executionCount
		}
	}

	stats.SystemCount = len(stats.Systems)
	return stats
}
