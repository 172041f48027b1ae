package lang

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/pbsmake/log"
)

// maxSuggestions bounds the alternatives offered for an unresolvable goal.
const maxSuggestions = 3

// Registry interns the targets of a document by name.
//
// Targets are stored in an arena and addressed by [TargetID], so passes that
// create targets while visiting others work over a growing index range
// rather than a live iterator.
type Registry struct {
	env     *Environment
	logger  log.Logger
	targets []*Target
	static  map[string]TargetID
	dynamic map[string]TargetID

	staticOrder  []TargetID
	dynamicOrder []TargetID
}

// NewRegistry returns an empty registry whose targets' scopes nest in env.
func NewRegistry(env *Environment) *Registry {
	return &Registry{
		env:     env,
		logger:  env.logger,
		static:  make(map[string]TargetID),
		dynamic: make(map[string]TargetID),
	}
}

// IsStaticName reports whether name is concrete: it contains neither the
// [Wildcard] nor a variable reference.
func IsStaticName(name string) bool {
	return !strings.Contains(name, Wildcard) && !strings.Contains(name, "${")
}

// GetOrCreate returns the target named name, creating it if needed.
// Whether it is static or a pattern follows from [IsStaticName].
func (r *Registry) GetOrCreate(name string) *Target {
	table, order, kind := r.static, &r.staticOrder, KindStatic
	if !IsStaticName(name) {
		table, order, kind = r.dynamic, &r.dynamicOrder, KindDynamic
	}

	if id, ok := table[name]; ok {
		return r.targets[id]
	}

	id := TargetID(len(r.targets))
	t := newTarget(r, id, name, kind)

	r.targets = append(r.targets, t)
	table[name] = id
	*order = append(*order, id)

	return t
}

// Target returns the target with the given id, or nil.
func (r *Registry) Target(id TargetID) *Target {
	if id < 0 || int(id) >= len(r.targets) {
		return nil
	}

	return r.targets[id]
}

// Lookup returns the static target named name.
func (r *Registry) Lookup(name string) (*Target, bool) {
	id, ok := r.static[name]
	if !ok {
		return nil, false
	}

	return r.targets[id], true
}

// Pattern returns the dynamic target named name.
func (r *Registry) Pattern(name string) (*Target, bool) {
	id, ok := r.dynamic[name]
	if !ok {
		return nil, false
	}

	return r.targets[id], true
}

// Len returns the number of targets ever registered, retired included.
func (r *Registry) Len() int { return len(r.targets) }

// All returns an iterator over the targets in registration order, skipping
// retired patterns.
func (r *Registry) All() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		for i := 0; i < len(r.targets); i++ {
			if t := r.targets[i]; !t.retired && !yield(t) {
				return
			}
		}
	}
}

// Static returns an iterator over the static targets in registration order.
func (r *Registry) Static() iter.Seq[*Target] { return r.ordered(&r.staticOrder) }

// Dynamic returns an iterator over the patterns in declaration order,
// skipping retired ones.
func (r *Registry) Dynamic() iter.Seq[*Target] { return r.ordered(&r.dynamicOrder) }

func (r *Registry) ordered(order *[]TargetID) iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		for i := 0; i < len(*order); i++ {
			if t := r.targets[(*order)[i]]; !t.retired && !yield(t) {
				return
			}
		}
	}
}

// Resolve turns goal into a resolved static target.
//
// It runs three passes: pattern names are expanded, the goal is materialized
// from the first matching pattern unless a static target already has its
// name, and every static target's dependencies are resolved.
func (r *Registry) Resolve(goal string) (*Target, error) {
	if err := r.ResolveNames(); err != nil {
		return nil, err
	}

	t, err := r.MaterializeGoal(goal)
	if err != nil {
		return nil, err
	}

	if err := r.ResolveDependencies(); err != nil {
		return nil, err
	}

	return t, nil
}

// ResolveNames calls [Target.TryResolveOwnName] on every pattern in
// declaration order, including patterns registered during the pass.
func (r *Registry) ResolveNames() error {
	for i := 0; i < len(r.dynamicOrder); i++ {
		if err := r.targets[r.dynamicOrder[i]].TryResolveOwnName(); err != nil {
			return err
		}
	}

	return nil
}

// MaterializeGoal returns the static target named goal, materializing it
// from the first declared matching pattern if it does not exist.
func (r *Registry) MaterializeGoal(goal string) (*Target, error) {
	if t, ok := r.Lookup(goal); ok {
		return t, nil
	}

	if IsStaticName(goal) {
		for p := range r.Dynamic() {
			_, ok, err := p.MatchesGoal(goal)
			if err != nil {
				return nil, err
			}

			if ok {
				return p.MaterializeFor(goal)
			}
		}
	}

	return nil, &ResolveError{
		Name:        goal,
		Err:         ErrUnresolvableGoal,
		Suggestions: r.suggest(goal),
	}
}

// ResolveDependencies calls [Target.ResolveDependencies] on every static
// target in registration order.
func (r *Registry) ResolveDependencies() error {
	for i := 0; i < len(r.staticOrder); i++ {
		if err := r.targets[r.staticOrder[i]].ResolveDependencies(); err != nil {
			return err
		}
	}

	return nil
}

// suggest returns the registered names that best fuzzy-match goal.
func (r *Registry) suggest(goal string) []string {
	var names []string

	for t := range r.All() {
		names = append(names, t.name)
	}

	matches := fuzzy.Find(goal, names)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}

	if len(suggestions) > 0 {
		r.logger.Debug("suggesting targets",
			slog.String("goal", goal),
			slog.Any("suggestions", suggestions),
		)
	}

	return suggestions
}
