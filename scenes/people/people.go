// Package people is a small scene that exercises With/Without filters and
// two-component queries over a handful of named people.
package people

import (
	"fmt"
	"io"

	"github.com/plus3/stagecraft/ecs"
)

type Person struct {
	Name string
}

type Employed struct {
	Job Job
}

type Job uint8

const (
	Doctor Job = iota
	FireFighter
	Lawyer
)

func (j Job) String() string {
	switch j {
	case Doctor:
		return "Doctor"
	case FireFighter:
		return "FireFighter"
	case Lawyer:
		return "Lawyer"
	default:
		return fmt.Sprintf("Job(%d)", j)
	}
}

// Console collects the lines printed by the scene. Out, when set, receives
// every line as it is printed.
type Console struct {
	Out   io.Writer
	Lines []string
}

func (c *Console) Printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	c.Lines = append(c.Lines, line)
	if c.Out != nil {
		fmt.Fprintln(c.Out, line)
	}
}

// Plugin adds the people scene. Out is where the console prints.
type Plugin struct {
	Out io.Writer
}

func (p Plugin) Build(app *ecs.App) {
	ecs.RegisterComponent[Person](app.Registry())
	ecs.RegisterComponent[Employed](app.Registry())
	ecs.InsertResource(app.World, Console{Out: p.Out})

	app.AddStartupSystems(ecs.Func("SpawnPeople", SpawnPeople))
	app.AddSystems(
		ecs.Func("PrintNames", PrintNames),
		ecs.Func("PeopleWithJobs", PeopleWithJobs),
		ecs.Func("PeopleWithoutJobs", PeopleWithoutJobs),
		ecs.Func("PersonJobs", PersonJobs),
	)
}

func SpawnPeople(p *ecs.Params) ecs.SystemFunc {
	return func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Person{Name: "Grabrulenzo"})
		frame.Commands.Spawn(Person{Name: "Dionilsonzinete"}, Employed{Job: Doctor})
	}
}

func PrintNames(p *ecs.Params) ecs.SystemFunc {
	people := ecs.NewQuery[Person](p, ecs.ReadOnly())
	console := ecs.NewResMut[Console](p)
	return func(frame *ecs.UpdateFrame) {
		for person := range people.Values() {
			console.Get().Printf("name: %s", person.Name)
		}
	}
}

func PeopleWithJobs(p *ecs.Params) ecs.SystemFunc {
	people := ecs.NewQuery[Person](p, ecs.With[Employed](), ecs.ReadOnly())
	console := ecs.NewResMut[Console](p)
	return func(frame *ecs.UpdateFrame) {
		for person := range people.Values() {
			console.Get().Printf("%s has a job", person.Name)
		}
	}
}

func PeopleWithoutJobs(p *ecs.Params) ecs.SystemFunc {
	people := ecs.NewQuery[Person](p, ecs.Without[Employed](), ecs.ReadOnly())
	console := ecs.NewResMut[Console](p)
	return func(frame *ecs.UpdateFrame) {
		for person := range people.Values() {
			console.Get().Printf("%s said: 'they took our jobs'.", person.Name)
		}
	}
}

func PersonJobs(p *ecs.Params) ecs.SystemFunc {
	people := ecs.NewQuery2[Person, Employed](p, ecs.ReadOnly())
	console := ecs.NewResMut[Console](p)
	return func(frame *ecs.UpdateFrame) {
		for person, employed := range people.Iter() {
			console.Get().Printf("%s is a %s", person.Name, employed.Job)
		}
	}
}
