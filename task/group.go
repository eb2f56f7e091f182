package task

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runner is implemented by tasks, it allows running tasks of differing item types as a group.
type Runner interface {
	Name() string
	Run(ctx context.Context) error
}

// Group runs a set of tasks together, stopping them all once any one of them stops.
type Group struct {
	runners []Runner
}

// NewGroup creates a group of the given tasks.
func NewGroup(runners ...Runner) *Group {
	return &Group{runners: runners}
}

// Add the given task to the group, must be called before 'Run'.
func (g *Group) Add(runner Runner) {
	g.runners = append(g.runners, runner)
}

// Run runs every task in the group until the context is cancelled or any task stops, returning the first error.
func (g *Group) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, runner := range g.runners {
		runner := runner

		group.Go(func() error { return runner.Run(ctx) })
	}

	return group.Wait()
}
