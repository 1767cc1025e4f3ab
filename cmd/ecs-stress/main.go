package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/stagecraft/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	componentCount := flag.Int("components", len(allKinds), "The number of component types to use.")
	systemCount := flag.Int("systems", 50, "The number of generated systems.")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Maximum systems run in parallel.")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed for entities and systems.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ecs-stress: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting ECS stress test", zap.Uint64("seed", *seed))
	rng := rand.New(rand.NewPCG(*seed, *seed))

	// 1. Setup Registry, World, and Scheduler
	registry := ecs.NewComponentRegistry()
	kinds := RegisterComponents(registry, *componentCount)
	world := ecs.NewWorld(registry)
	ecs.InsertResource(world, Tally{})
	scheduler := ecs.NewScheduler(world, ecs.WithLogger(log), ecs.WithWorkers(*workers))
	RegisterSystems(scheduler, rng, kinds, *systemCount)

	plan, err := scheduler.Plan(ecs.Update)
	if err != nil {
		log.Fatal("invalid schedule", zap.Error(err))
	}

	// 2. Populate the world with initial entities
	log.Info("populating world", zap.Int("entities", *entityCount))
	for i := 0; i < *entityCount; i++ {
		// Spawn an entity with 1 to 5 random components
		SpawnRandomEntity(world, rng, kinds, rng.IntN(5)+1)
	}
	log.Info("population complete", zap.Int("archetypes", len(world.Archetypes())))

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     len(kinds),
		Systems:        *systemCount,
		Workers:        *workers,
		GCPauseMetrics: *gcPauseMetrics,
		Plan:           plan,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running simulation", zap.Duration("duration", *duration))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Once(deltaTime); err != nil {
				log.Fatal("update failed", zap.Error(err))
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.SystemStats = scheduler.GetStats().Systems
	report.World = world.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished", zap.Int64("updates", totalUpdates))

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}
