package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/plus3/stagecraft/ecs"
)

// Stress components. Each is a distinct type so every one gets its own column.
type (
	C0  struct{ V float64 }
	C1  struct{ V float64 }
	C2  struct{ V float64 }
	C3  struct{ V float64 }
	C4  struct{ V float64 }
	C5  struct{ V float64 }
	C6  struct{ V float64 }
	C7  struct{ V float64 }
	C8  struct{ V float64 }
	C9  struct{ V float64 }
	C10 struct{ V float64 }
	C11 struct{ V float64 }
	C12 struct{ V float64 }
	C13 struct{ V float64 }
	C14 struct{ V float64 }
	C15 struct{ V float64 }
	C16 struct{ V float64 }
	C17 struct{ V float64 }
	C18 struct{ V float64 }
	C19 struct{ V float64 }
	C20 struct{ V float64 }
	C21 struct{ V float64 }
	C22 struct{ V float64 }
	C23 struct{ V float64 }
	C24 struct{ V float64 }
	C25 struct{ V float64 }
	C26 struct{ V float64 }
	C27 struct{ V float64 }
	C28 struct{ V float64 }
	C29 struct{ V float64 }
	C30 struct{ V float64 }
	C31 struct{ V float64 }
)

// Tally is written by some systems so resource conflicts show up in the plan.
type Tally struct {
	Visits int64
}

// componentKind erases the type of one stress component.
type componentKind struct {
	name     string
	register func(r *ecs.ComponentRegistry)
	value    func(rng *rand.Rand) any
	// query declares a query on p and returns a function that visits every
	// match, mutating it when write is set, and reports how many it saw.
	query func(p *ecs.Params, write bool) func() int
}

func kind[T ~struct{ V float64 }]() componentKind {
	var zero T
	return componentKind{
		name: fmt.Sprintf("%T", zero),
		register: func(r *ecs.ComponentRegistry) {
			ecs.RegisterComponent[T](r)
		},
		value: func(rng *rand.Rand) any {
			return T{V: rng.Float64()}
		},
		query: func(p *ecs.Params, write bool) func() int {
			var opts []ecs.QueryOption
			if !write {
				opts = append(opts, ecs.ReadOnly())
			}
			q := ecs.NewQuery[T](p, opts...)
			return func() int {
				n := 0
				for c := range q.Values() {
					if write {
						c.V = c.V*0.5 + 1
					}
					n++
				}
				return n
			}
		},
	}
}

var allKinds = []componentKind{
	kind[C0](), kind[C1](), kind[C2](), kind[C3](),
	kind[C4](), kind[C5](), kind[C6](), kind[C7](),
	kind[C8](), kind[C9](), kind[C10](), kind[C11](),
	kind[C12](), kind[C13](), kind[C14](), kind[C15](),
	kind[C16](), kind[C17](), kind[C18](), kind[C19](),
	kind[C20](), kind[C21](), kind[C22](), kind[C23](),
	kind[C24](), kind[C25](), kind[C26](), kind[C27](),
	kind[C28](), kind[C29](), kind[C30](), kind[C31](),
}

// RegisterComponents registers the first n stress components and returns them.
func RegisterComponents(registry *ecs.ComponentRegistry, n int) []componentKind {
	n = max(1, min(n, len(allKinds)))
	kinds := allKinds[:n]
	for _, k := range kinds {
		k.register(registry)
	}
	return kinds
}

// SpawnRandomEntity spawns an entity with up to count distinct random components.
func SpawnRandomEntity(world *ecs.World, rng *rand.Rand, kinds []componentKind, count int) ecs.Entity {
	count = min(count, len(kinds))
	components := make([]any, 0, count)
	for _, i := range rng.Perm(len(kinds))[:count] {
		components = append(components, kinds[i].value(rng))
	}
	return world.Spawn(components...)
}

// RegisterSystems registers n systems, each touching one to three distinct
// components with random read or write access.
func RegisterSystems(scheduler *ecs.Scheduler, rng *rand.Rand, kinds []componentKind, n int) {
	for i := range n {
		touches := min(rng.IntN(3)+1, len(kinds))
		picked := rng.Perm(len(kinds))[:touches]
		writes := make([]bool, touches)
		for j := range writes {
			writes[j] = rng.IntN(2) == 0
		}
		tally := rng.IntN(4) == 0

		scheduler.Register(ecs.Update, ecs.Func(fmt.Sprintf("system-%02d", i), func(p *ecs.Params) ecs.SystemFunc {
			visits := make([]func() int, touches)
			for j, k := range picked {
				visits[j] = kinds[k].query(p, writes[j])
			}
			var counter *ecs.ResMut[Tally]
			if tally {
				counter = ecs.NewResMut[Tally](p)
			}

			return func(frame *ecs.UpdateFrame) {
				total := 0
				for _, visit := range visits {
					total += visit()
				}
				if counter != nil {
					counter.Get().Visits += int64(total)
				}
			}
		}))
	}
}
