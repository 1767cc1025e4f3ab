package people_test

import (
	"context"
	"os"
	"testing"

	"github.com/plus3/stagecraft/ecs"
	"github.com/plus3/stagecraft/host"
	"github.com/plus3/stagecraft/scenes/people"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func Example() {
	app := ecs.NewApp()
	app.AddPlugins(people.Plugin{Out: os.Stdout})

	if err := (host.Headless{Ticks: 1}).Run(context.Background(), app); err != nil {
		panic(err)
	}

	// Output:
	// name: Grabrulenzo
	// name: Dionilsonzinete
	// Dionilsonzinete has a job
	// Grabrulenzo said: 'they took our jobs'.
	// Dionilsonzinete is a Doctor
}

func TestPeopleScene(t *testing.T) {
	app := ecs.NewApp(ecs.WithLogger(zaptest.NewLogger(t)))
	app.AddPlugins(people.Plugin{})

	require.NoError(t, host.Headless{Ticks: 3}.Run(context.Background(), app))

	console, ok := ecs.Resource[people.Console](app.World)
	require.True(t, ok)
	assert.Len(t, console.Lines, 15)
	assert.Equal(t, "Dionilsonzinete is a Doctor", console.Lines[14])

	// every printer writes the console, so they run one after another
	plan, err := app.Scheduler.Plan(ecs.Update)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"PrintNames"},
		{"PeopleWithJobs"},
		{"PeopleWithoutJobs"},
		{"PersonJobs"},
	}, plan)
}

func TestJobString(t *testing.T) {
	assert.Equal(t, "Doctor", people.Doctor.String())
	assert.Equal(t, "FireFighter", people.FireFighter.String())
	assert.Equal(t, "Lawyer", people.Lawyer.String())
	assert.Equal(t, "Job(7)", people.Job(7).String())
}

func TestEmploymentChanges(t *testing.T) {
	app := ecs.NewApp()
	app.AddPlugins(people.Plugin{})
	require.NoError(t, app.Update(0))

	unemployed, err := ecs.FilterWorld(app.World, ecs.With[people.Person](), ecs.Without[people.Employed]())
	require.NoError(t, err)
	e := unemployed.MustSingle()

	app.World.Insert(e, people.Employed{Job: people.Lawyer})
	console, _ := ecs.Resource[people.Console](app.World)
	console.Lines = nil

	require.NoError(t, app.Update(0))
	assert.Contains(t, console.Lines, "Grabrulenzo is a Lawyer")
	assert.NotContains(t, console.Lines, "Grabrulenzo said: 'they took our jobs'.")
	assert.Equal(t, 0, unemployed.Len())
}
