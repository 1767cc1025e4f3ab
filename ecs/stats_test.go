package ecs

import (
	"testing"
	"time"
)

func TestWorldStats(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	RegisterComponent[float64](registry)

	world := NewWorld(registry)

	stats := world.CollectStats()
	if stats.ArchetypeCount != 0 {
		t.Errorf("expected 0 archetypes, got %d", stats.ArchetypeCount)
	}
	if stats.TotalEntityCount != 0 {
		t.Errorf("expected 0 entities, got %d", stats.TotalEntityCount)
	}
	if stats.ResourceCount != 0 {
		t.Errorf("expected 0 resources, got %d", stats.ResourceCount)
	}

	world.Spawn(42, "hello")
	world.Spawn(100, "world")
	world.Spawn(200.0, "test")

	InsertResource(world, 3.14)
	InsertResource(world, "resource")

	stats = world.CollectStats()

	if stats.ArchetypeCount != 2 {
		t.Errorf("expected 2 archetypes, got %d", stats.ArchetypeCount)
	}

	if stats.TotalEntityCount != 3 {
		t.Errorf("expected 3 entities, got %d", stats.TotalEntityCount)
	}

	if stats.ResourceCount != 2 {
		t.Errorf("expected 2 resources, got %d", stats.ResourceCount)
	}

	if len(stats.ResourceTypes) != 2 || stats.ResourceTypes[0] != "float64" || stats.ResourceTypes[1] != "string" {
		t.Errorf("unexpected resource types %v", stats.ResourceTypes)
	}

	foundIntString := false
	foundFloat64String := false
	for _, arch := range stats.ArchetypeBreakdown {
		if arch.EntityCount == 2 {
			foundIntString = true
		}
		if arch.EntityCount == 1 {
			foundFloat64String = true
		}
	}

	if !foundIntString || !foundFloat64String {
		t.Errorf("archetype breakdown incorrect: %+v", stats.ArchetypeBreakdown)
	}
}

type TestSystem struct {
	name         string
	executeCount int
	sleepDur     time.Duration
}

func (s *TestSystem) Name() string {
	return s.name
}

func (s *TestSystem) Execute(frame *UpdateFrame) {
	s.executeCount++
	if s.sleepDur > 0 {
		time.Sleep(s.sleepDur)
	}
}

func TestSchedulerStats(t *testing.T) {
	world := NewWorld(NewComponentRegistry())
	scheduler := NewScheduler(world)

	stats := scheduler.GetStats()
	if stats.SystemCount != 0 {
		t.Errorf("expected 0 systems, got %d", stats.SystemCount)
	}
	if stats.TotalExecutions != 0 {
		t.Errorf("expected 0 total executions, got %d", stats.TotalExecutions)
	}

	sys1 := &TestSystem{name: "sys1", sleepDur: 1 * time.Millisecond}
	sys2 := &TestSystem{name: "sys2", sleepDur: 2 * time.Millisecond}
	scheduler.Register(Update, sys1)
	scheduler.Register(Update, sys2)

	stats = scheduler.GetStats()
	if stats.SystemCount != 2 {
		t.Errorf("expected 2 systems, got %d", stats.SystemCount)
	}
	if stats.Systems[0].MinDuration != 0 {
		t.Errorf("expected zero min duration before the first run, got %v", stats.Systems[0].MinDuration)
	}

	for i := 0; i < 3; i++ {
		if err := scheduler.Once(16 * time.Millisecond); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stats = scheduler.GetStats()

	if stats.TotalExecutions != 6 {
		t.Errorf("expected 6 total executions (2 systems * 3 runs), got %d", stats.TotalExecutions)
	}

	if stats.Ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", stats.Ticks)
	}

	if len(stats.Systems) != 2 {
		t.Fatalf("expected 2 system stats, got %d", len(stats.Systems))
	}

	for i, sysStats := range stats.Systems {
		if want := []string{"sys1", "sys2"}[i]; sysStats.Name != want {
			t.Errorf("expected system name '%s', got '%s'", want, sysStats.Name)
		}

		if sysStats.Phase != Update {
			t.Errorf("expected update phase, got %s", sysStats.Phase)
		}

		if sysStats.ExecutionCount != 3 {
			t.Errorf("expected 3 executions, got %d", sysStats.ExecutionCount)
		}

		if sysStats.MinDuration == 0 {
			t.Errorf("expected non-zero min duration")
		}

		if sysStats.LastDuration == 0 {
			t.Errorf("expected non-zero last duration")
		}

		if sysStats.TotalDuration == 0 {
			t.Errorf("expected non-zero total duration")
		}

		if sysStats.MinDuration > sysStats.AvgDuration {
			t.Errorf("min duration (%v) should be <= avg duration (%v)", sysStats.MinDuration, sysStats.AvgDuration)
		}

		if sysStats.AvgDuration > sysStats.MaxDuration {
			t.Errorf("avg duration (%v) should be <= max duration (%v)", sysStats.AvgDuration, sysStats.MaxDuration)
		}
	}

	if sys1.executeCount != 3 {
		t.Errorf("expected sys1 to execute 3 times, got %d", sys1.executeCount)
	}

	if sys2.executeCount != 3 {
		t.Errorf("expected sys2 to execute 3 times, got %d", sys2.executeCount)
	}
}

func TestEntityAllocatorReuse(t *testing.T) {
	var a entityAllocator

	first := a.reserve()
	if a.materialize(first) == nil {
		t.Fatalf("expected %s to materialize", first)
	}
	if a.materialize(first) != nil {
		t.Errorf("materializing a live entity twice must fail")
	}

	a.release(first)
	if a.live(first) != nil {
		t.Errorf("released entity %s still live", first)
	}

	held := a.reserve()
	if held.Index() == first.Index() {
		t.Errorf("slot %d reused before recycle", first.Index())
	}

	a.recycle()
	second := a.reserve()
	if second.Index() != first.Index() {
		t.Errorf("expected slot %d to be reused, got %d", first.Index(), second.Index())
	}
	if second.Generation() != first.Generation()+1 {
		t.Errorf("expected generation %d, got %d", first.Generation()+1, second.Generation())
	}
	if a.materialize(first) != nil {
		t.Errorf("stale reservation must not materialize")
	}
}

func TestMask(t *testing.T) {
	var m mask
	m.set(0)
	m.set(63)
	m.set(64)
	m.set(255)

	if m.count() != 4 {
		t.Errorf("expected 4 bits, got %d", m.count())
	}
	ids := m.ids()
	want := []ComponentID{0, 63, 64, 255}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}

	var sub mask
	sub.set(63)
	sub.set(255)
	if !m.containsAll(sub) {
		t.Errorf("expected %v to contain %v", m, sub)
	}

	m.unset(255)
	if m.containsAll(sub) || !m.intersects(sub) {
		t.Errorf("unexpected set relations after unset")
	}

	var other mask
	other.set(64)
	other.set(0)
	other.set(63)
	if m.hash() != other.hash() {
		t.Errorf("equal masks must hash equally")
	}
}
