package lang

import "strings"

// DefaultDependencyType is the scheduler relation used when a header or
// token does not name one.
const DefaultDependencyType = "afterok"

// typeSeparator separates a dependency name from its type, as in
// "setup::afterany".
const typeSeparator = "::"

// Dependency is an edge to another target, qualified by the scheduler
// relation between the two jobs.
type Dependency struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// NewDependency returns a dependency on name.
// An empty typ selects [DefaultDependencyType].
func NewDependency(name, typ string) Dependency {
	if typ == "" {
		typ = DefaultDependencyType
	}

	return Dependency{Name: name, Type: typ}
}

// parseDependency returns the dependency denoted by a raw header token.
//
// A token of the form NAME::TYPE overrides typ. Tokens that are variable
// assignments are kept whole.
func parseDependency(token, typ string) Dependency {
	if !strings.Contains(token, "=") {
		if name, t, ok := strings.Cut(token, typeSeparator); ok && name != "" && t != "" {
			return NewDependency(name, t)
		}
	}

	return NewDependency(token, typ)
}

// Is reports whether d depends on the target named name.
func (d Dependency) Is(name string) bool { return d.Name == name }

// isAssignment reports whether d is a variable assignment embedded in a
// dependency list rather than an edge.
func (d Dependency) isAssignment() bool { return strings.Contains(d.Name, "=") }

// String returns d in NAME::TYPE form.
func (d Dependency) String() string { return d.Name + typeSeparator + d.Type }

// DependencyList is an ordered list of dependencies.
type DependencyList []Dependency

// Add expands dep's name through env and appends the result.
func (l *DependencyList) Add(dep Dependency, env *Environment) error {
	name, err := env.Expand(dep.Name)
	if err != nil {
		return err
	}

	*l = append(*l, NewDependency(name, dep.Type))

	return nil
}

// Contains reports whether any dependency in l is on name.
func (l DependencyList) Contains(name string) bool {
	for _, d := range l {
		if d.Is(name) {
			return true
		}
	}

	return false
}

// Names returns the dependency names in order.
func (l DependencyList) Names() []string {
	names := make([]string, len(l))
	for i, d := range l {
		names[i] = d.Name
	}

	return names
}
