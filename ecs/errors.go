package ecs

import "errors"

// Absence outcomes of single-result queries.
var (
	ErrNoEntities       = errors.New("ecs: query matched no entities")
	ErrMultipleEntities = errors.New("ecs: query matched more than one entity")
)

// Schedule construction errors, returned by Scheduler.Build.
var (
	ErrAccessConflict        = errors.New("ecs: conflicting data access")
	ErrUnregisteredComponent = errors.New("ecs: component type not registered")
	ErrInvalidQuery          = errors.New("ecs: query both requires and excludes a component")
	ErrReadOnlyResource      = errors.New("ecs: resource is read-only to systems")
	ErrDuplicateSystem       = errors.New("ecs: duplicate system name")
	ErrScheduleBuilt         = errors.New("ecs: schedule already built")
)

// ErrInvalidInterval is returned by Run for a non-positive tick interval.
var ErrInvalidInterval = errors.New("ecs: tick interval must be positive")
