package lang

import (
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

// Wildcard is the marker in a pattern target's name that matches the stem of
// a goal.
const Wildcard = "%"

// TargetID addresses a [Target] within its [Registry].
type TargetID int

// Kind distinguishes concrete targets from patterns.
type Kind int

const (
	KindStatic  Kind = iota // static
	KindDynamic             // pattern
)

// Target is a named rule: dependency edges plus a recipe body.
//
// A static target names a concrete job. A dynamic target is a pattern whose
// name contains the [Wildcard] or a variable reference; it is rendered only
// after its name is resolved or it is materialized for a matching goal.
type Target struct {
	registry *Registry
	env      *Environment
	matcher  *regexp.Regexp
	name     string
	stem     string
	body     []BodyLine
	raw      []Dependency
	deps     DependencyList
	id       TargetID
	origin   TargetID // pattern materialized from, if materialized
	kind     Kind

	retired      bool
	materialized bool
}

func newTarget(r *Registry, id TargetID, name string, kind Kind) *Target {
	env := NewEnvironment(r.env)
	env.Set(TargetNameVar, name)

	return &Target{
		registry: r,
		env:      env,
		name:     name,
		id:       id,
		origin:   -1,
		kind:     kind,
	}
}

// ID returns the target's handle within its registry.
func (t *Target) ID() TargetID { return t.id }

// Name returns the target's name as declared (or as matched, for targets
// materialized from a pattern).
func (t *Target) Name() string { return t.name }

// Kind returns whether t is static or a pattern.
func (t *Target) Kind() Kind { return t.kind }

// Env returns the target's own scope.
func (t *Target) Env() *Environment { return t.env }

// Body returns the target's recipe lines.
func (t *Target) Body() []BodyLine { return slices.Clone(t.body) }

// Dependencies returns the resolved dependency edges.
func (t *Target) Dependencies() DependencyList { return slices.Clone(t.deps) }

// RawDependencies returns the dependency tokens not yet resolved.
func (t *Target) RawDependencies() []Dependency { return slices.Clone(t.raw) }

// Retired reports whether t is a pattern whose name resolved to another
// target. Retired targets take no further part in resolution.
func (t *Target) Retired() bool { return t.retired }

// Materialized reports whether t was created from a pattern for a goal, and
// returns the pattern.
func (t *Target) Materialized() (*Target, bool) {
	if !t.materialized {
		return nil, false
	}

	return t.registry.Target(t.origin), true
}

// Stem returns the portion of the name matched by a pattern's wildcard.
// It is empty unless t was materialized.
func (t *Target) Stem() string { return t.stem }

// AddBody appends recipe lines.
func (t *Target) AddBody(lines ...BodyLine) { t.body = append(t.body, lines...) }

// AddDependency appends unresolved dependency tokens.
func (t *Target) AddDependency(deps ...Dependency) { t.raw = append(t.raw, deps...) }

// ResolveDependencies consumes the raw dependency tokens.
//
// Tokens containing "=" are assigned into the target's scope. All others are
// expanded and appended to the resolved dependencies. Resolving again is a
// no-op until more tokens are added. A pattern's dependencies cannot be
// resolved.
func (t *Target) ResolveDependencies() error {
	if t.kind == KindDynamic {
		return resolveError(t.name, ErrPatternDependencies)
	}

	raw := t.raw
	t.raw = nil

	for _, dep := range raw {
		var err error
		if dep.isAssignment() {
			err = t.env.Assign(dep.Name)
		} else {
			err = t.deps.Add(dep, t.env)
		}

		if err != nil {
			return resolveError(t.name, err)
		}
	}

	return nil
}

// TryResolveOwnName expands the name of a pattern target.
//
// If expansion changes the name, the target's dependencies and body move to
// the target registered under the expanded name, and t is retired. A name
// whose only marker is the wildcard is left for goal matching.
func (t *Target) TryResolveOwnName() error {
	if t.kind != KindDynamic || t.retired {
		return nil
	}

	name, err := t.env.Expand(t.name)
	if err != nil {
		return resolveError(t.name, err)
	}

	if name == t.name {
		return nil
	}

	if strings.TrimSpace(name) == "" {
		return resolveError(t.name, ErrMalformedPattern.With(
			slog.String("reason", "name expands to nothing"),
		))
	}

	dst := t.registry.GetOrCreate(name)
	dst.raw = append(dst.raw, t.raw...)
	dst.body = append(dst.body, t.body...)

	t.raw, t.body, t.retired = nil, nil, true

	t.registry.logger.Trace("resolved target name",
		slog.String("pattern", t.name),
		slog.String("name", name),
		slog.String("kind", dst.kind.String()),
	)

	return nil
}

// MatchesGoal reports whether goal matches the pattern and returns the stem
// captured by the wildcard.
//
// The name must contain exactly one [Wildcard]. The stem is never empty.
func (t *Target) MatchesGoal(goal string) (stem string, ok bool, err error) {
	if t.matcher == nil {
		if n := strings.Count(t.name, Wildcard); n != 1 {
			return "", false, resolveError(t.name, ErrMalformedPattern.With(
				slog.String("pattern", t.name),
				slog.Int("wildcards", n),
			))
		}

		prefix, suffix, _ := strings.Cut(t.name, Wildcard)
		t.matcher = regexp.MustCompile(
			"^" + regexp.QuoteMeta(prefix) + "(.+)" + regexp.QuoteMeta(suffix) + "$",
		)
	}

	m := t.matcher.FindStringSubmatch(goal)
	if m == nil {
		return "", false, nil
	}

	return m[1], true, nil
}

// MaterializeFor creates the static target goal from the pattern t.
//
// The new target's scope is nested in a copy of the pattern's scope and binds
// [TargetMatchVar] to the stem. The pattern's dependencies and body are
// copied, then resolved. Materializing a goal again returns the same target.
func (t *Target) MaterializeFor(goal string) (*Target, error) {
	stem, ok, err := t.MatchesGoal(goal)
	if err != nil {
		return nil, err
	}

	if !ok || !IsStaticName(goal) {
		return nil, resolveError(goal,
			ErrUnresolvableGoal.With(slog.String("pattern", t.name)))
	}

	m := t.registry.GetOrCreate(goal)
	if m.materialized {
		return m, nil
	}

	m.env.reparent(t.env.Clone())
	m.env.Set(TargetMatchVar, stem)

	m.raw = append(m.raw, t.raw...)
	m.body = append(m.body, t.body...)
	m.stem, m.origin, m.materialized = stem, t.id, true

	t.registry.logger.Trace("materialized target",
		slog.String("pattern", t.name),
		slog.String("goal", goal),
		slog.String("stem", stem),
	)

	if err := m.ResolveDependencies(); err != nil {
		return nil, err
	}

	return m, nil
}

// RenderBody renders each body line through the target's scope and returns
// the resulting output lines.
//
// A literal line yields exactly one output line. Command output yields one
// line per newline-terminated line, with a final newline optional.
func (t *Target) RenderBody() ([]string, error) {
	var out []string

	for _, line := range t.body {
		text, err := line.Render(t.env)
		if err != nil {
			return nil, resolveError(t.name, err)
		}

		if _, literal := line.(literalLine); literal {
			out = append(out, text)

			continue
		}

		if text == "" {
			continue
		}

		out = append(out, strings.Split(strings.TrimSuffix(text, "\n"), "\n")...)
	}

	return out, nil
}

// Render writes the target in the hand-off format:
//
//	NAME::TYPE: DEP     one line per resolved dependency
//	NAME:               instead, if there are no dependencies
//		BODY            each body line, indented by one tab
func (t *Target) Render(w io.Writer) error {
	if t.kind == KindDynamic {
		return resolveError(t.name, ErrPatternDependencies)
	}

	body, err := t.RenderBody()
	if err != nil {
		return err
	}

	var sb strings.Builder

	if len(t.deps) == 0 && len(t.raw) == 0 {
		sb.WriteString(t.name)
		sb.WriteString(":\n")
	}

	for _, dep := range t.deps {
		sb.WriteString(t.name)
		sb.WriteString(typeSeparator)
		sb.WriteString(dep.Type)
		sb.WriteString(": ")
		sb.WriteString(dep.Name)
		sb.WriteByte('\n')
	}

	for _, line := range body {
		sb.WriteByte('\t')
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	_, err = io.WriteString(w, sb.String())

	return err
}
