package ecs

import "sync/atomic"

// UpdateFrame is handed to a system for one invocation.
type UpdateFrame struct {
	// Time is a snapshot of the clock resource taken before the phase started.
	Time Time
	// Commands is this system's deferred command buffer, applied at the phase sync point.
	Commands *Commands

	world     *World
	exclusive bool
	system    string
	exit      *atomic.Bool
}

// DeltaTime returns the frame delta in seconds.
func (f *UpdateFrame) DeltaTime() float64 {
	return f.Time.DeltaSeconds()
}

// World returns the world for systems that declared Params.Exclusive. Other
// systems must go through their declared queries and resources.
func (f *UpdateFrame) World() *World {
	if !f.exclusive {
		panic("ecs: system " + f.system + " did not declare exclusive world access")
	}
	return f.world
}

// Exit asks the scheduler to stop after the current tick.
func (f *UpdateFrame) Exit() {
	f.exit.Store(true)
}

// System returns the name of the running system.
func (f *UpdateFrame) System() string {
	return f.system
}
