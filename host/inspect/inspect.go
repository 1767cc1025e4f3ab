// Package inspect renders a plain-text debug overlay for an app: world counts,
// frame times, the largest archetypes and the slowest systems. Drivers draw
// the lines however suits their screen.
package inspect

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/plus3/stagecraft/ecs"
)

// Inspector keeps a ring of recent frame times.
type Inspector struct {
	// Rows caps the archetype and system tables.
	Rows int

	frameHistory []time.Duration
	frameIndex   int
	frames       int
}

func New(historyFrames, rows int) *Inspector {
	return &Inspector{
		Rows:         rows,
		frameHistory: make([]time.Duration, max(1, historyFrames)),
	}
}

// Record adds one frame time to the history.
func (in *Inspector) Record(dt time.Duration) {
	in.frameHistory[in.frameIndex] = dt
	in.frameIndex = (in.frameIndex + 1) % len(in.frameHistory)
	in.frames = min(in.frames+1, len(in.frameHistory))
}

// AvgFrameTime averages the recorded history.
func (in *Inspector) AvgFrameTime() time.Duration {
	if in.frames == 0 {
		return 0
	}
	var total time.Duration
	for _, ft := range in.frameHistory[:in.frames] {
		total += ft
	}
	return total / time.Duration(in.frames)
}

// Lines renders the overlay.
func (in *Inspector) Lines(app *ecs.App) []string {
	stats := app.World.CollectStats()
	sched := app.Scheduler.GetStats()

	lines := []string{
		fmt.Sprintf("tick %d  entities %d  archetypes %d  resources %d",
			sched.Ticks, stats.TotalEntityCount, stats.ArchetypeCount, stats.ResourceCount),
	}

	if avg := in.AvgFrameTime(); avg > 0 {
		lines = append(lines, fmt.Sprintf("frame %.2f ms (%.0f fps)",
			float64(avg)/float64(time.Millisecond), float64(time.Second)/float64(avg)))
	}

	archetypes := slices.Clone(stats.ArchetypeBreakdown)
	slices.SortStableFunc(archetypes, func(a, b ecs.ArchetypeStats) int {
		return cmp.Compare(b.EntityCount, a.EntityCount)
	})
	for _, arch := range archetypes[:min(in.Rows, len(archetypes))] {
		lines = append(lines, fmt.Sprintf("  %6d  %s", arch.EntityCount, strings.Join(arch.Components, ", ")))
	}

	systems := slices.DeleteFunc(slices.Clone(sched.Systems), func(s ecs.SystemStats) bool {
		return s.Phase != ecs.Update
	})
	slices.SortStableFunc(systems, func(a, b ecs.SystemStats) int {
		return cmp.Compare(b.AvgDuration, a.AvgDuration)
	})
	for _, s := range systems[:min(in.Rows, len(systems))] {
		lines = append(lines, fmt.Sprintf("  %8s  %s", s.AvgDuration.Round(time.Microsecond), s.Name))
	}

	return lines
}
