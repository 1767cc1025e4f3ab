package main

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/stagecraft/ecs"
)

func TestGeneratedSystemsSchedule(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	registry := ecs.NewComponentRegistry()
	kinds := RegisterComponents(registry, 8)
	require.Len(t, kinds, 8)

	world := ecs.NewWorld(registry)
	ecs.InsertResource(world, Tally{})
	for range 500 {
		SpawnRandomEntity(world, rng, kinds, rng.IntN(5)+1)
	}
	assert.Equal(t, 500, world.Len())

	scheduler := ecs.NewScheduler(world, ecs.WithWorkers(4))
	RegisterSystems(scheduler, rng, kinds, 20)

	plan, err := scheduler.Plan(ecs.Update)
	require.NoError(t, err)
	total := 0
	for _, batch := range plan {
		total += len(batch)
	}
	assert.Equal(t, 20, total)

	for range 5 {
		require.NoError(t, scheduler.Once(time.Millisecond))
	}
	stats := scheduler.GetStats()
	assert.Equal(t, int64(100), stats.TotalExecutions)
}

func TestRegisterComponentsBounds(t *testing.T) {
	assert.Len(t, RegisterComponents(ecs.NewComponentRegistry(), 0), 1)
	assert.Len(t, RegisterComponents(ecs.NewComponentRegistry(), 1000), len(allKinds))
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration: time.Second,
		Entities: 10,
		Workers:  2,
		Plan:     [][]string{{"system-00", "system-01"}, {"system-02"}},
		UpdateTime: Stats{
			Samples: []time.Duration{time.Millisecond, 3 * time.Millisecond},
		},
		SystemStats: []ecs.SystemStats{{Name: "system-00", ExecutionCount: 4}},
	}
	report.UpdateTime.Finalize()
	assert.Equal(t, 2*time.Millisecond, report.UpdateTime.Avg)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "- Batch 0 (2): system-00, system-01")
	assert.Contains(t, out, "- Batch 1 (1): system-02")
	assert.Contains(t, out, "| system-00 | 4 |")
}
