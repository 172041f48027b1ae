package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
)

// visit states for the dependency walk.
const (
	unvisited = iota
	visiting
	visited
)

// Graph resolves goals and returns the targets they need, each after its
// dependencies and each exactly once.
//
// Without goals, the default goal is used. Dependencies name static targets
// or goals that a pattern can materialize.
func (d *Document) Graph(goals ...string) ([]*Target, error) {
	if len(goals) == 0 {
		if d.defaultGoal == "" {
			return nil, &ResolveError{Err: ErrNoGoal}
		}

		goals = []string{d.defaultGoal}
	}

	w := walker{doc: d, state: make(map[TargetID]int)}

	for _, goal := range goals {
		t, err := d.registry.Resolve(goal)
		if err != nil {
			return nil, err
		}

		if err := w.visit(t); err != nil {
			return nil, err
		}
	}

	return w.order, nil
}

// ResolveAndRender resolves goals and renders every target they need in the
// hand-off format, blocks separated by a blank line.
// On error nothing is returned.
func (d *Document) ResolveAndRender(goals ...string) (string, error) {
	targets, err := d.Graph(goals...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for i, t := range targets {
		if i > 0 {
			sb.WriteByte('\n')
		}

		if err := t.Render(&sb); err != nil {
			return "", err
		}
	}

	return sb.String(), nil
}

// walker performs a depth-first post-order traversal of dependencies.
type walker struct {
	doc   *Document
	state map[TargetID]int
	path  []string
	order []*Target
}

func (w *walker) visit(t *Target) error {
	switch w.state[t.id] {
	case visited:
		return nil

	case visiting:
		cycle := strings.Join(append(slices.Clone(w.path), t.name), " -> ")

		return &ResolveError{
			Name: t.name,
			Err: ErrDependencyCycle.
				With(slog.String("path", cycle)).
				Wrap(errors.New(cycle)),
		}
	}

	w.state[t.id] = visiting
	w.path = append(w.path, t.name)

	for _, dep := range t.deps {
		dt, err := w.doc.registry.Resolve(dep.Name)
		if err != nil {
			return err
		}

		if err := w.visit(dt); err != nil {
			return err
		}
	}

	w.path = w.path[:len(w.path)-1]
	w.state[t.id] = visited
	w.order = append(w.order, t)

	return nil
}
