package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems implement this interface and usually also Initializer to
// declare the queries and resources they use.
type System interface {
	Execute(frame *UpdateFrame)
}

// Initializer is implemented by systems that declare parameters. Init runs once,
// when the system is registered.
type Initializer interface {
	Init(p *Params)
}

// Named systems report their own name; otherwise the scheduler uses the Go type name.
type Named interface {
	Name() string
}

// SystemFunc adapts a plain function with no declared parameters to System.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// Func builds a named system from a constructor that declares its parameters
// on p and returns the body to run each time the system executes.
func Func(name string, build func(p *Params) SystemFunc) System {
	return &funcSystem{name: name, build: build}
}

type funcSystem struct {
	name  string
	build func(p *Params) SystemFunc
	run   SystemFunc
}

func (s *funcSystem) Name() string {
	return s.name
}

func (s *funcSystem) Init(p *Params) {
	s.run = s.build(p)
}

func (s *funcSystem) Execute(frame *UpdateFrame) {
	s.run(frame)
}
