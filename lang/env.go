package lang

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/ardnew/pbsmake/log"
)

// Predefined variables bound on every target's environment.
const (
	// TargetNameVar holds the name of the target that owns the environment.
	TargetNameVar = "pm_target_name"
	// TargetMatchVar holds the stem a pattern target matched when it was
	// materialized for a goal.
	TargetMatchVar = "pm_target_match"
)

// Ambient looks up a variable outside of any [Environment], such as in the
// process environment. It reports whether the variable is defined.
type Ambient func(name string) (string, bool)

// noAmbient is an [Ambient] that defines nothing.
func noAmbient(string) (string, bool) { return "", false }

// Environment is a scope of variables.
//
// Lookups that miss the local scope continue in the parent scope, and the
// outermost scope defers to its [Ambient] lookup. Variables may be
// redefined but never removed.
type Environment struct {
	parent  *Environment
	vars    map[string]string
	ambient Ambient
	logger  log.Logger
	names   []string // declaration order of vars
}

// NewEnvironment returns an empty scope nested in parent.
// A nil parent creates an outermost scope backed by [os.LookupEnv].
func NewEnvironment(parent *Environment) *Environment {
	e := &Environment{
		parent:  parent,
		vars:    make(map[string]string),
		ambient: os.LookupEnv,
	}

	if parent != nil {
		e.ambient, e.logger = parent.ambient, parent.logger
	}

	return e
}

// Parent returns the enclosing scope, or nil for an outermost scope.
func (e *Environment) Parent() *Environment { return e.parent }

// reparent replaces the enclosing scope.
func (e *Environment) reparent(parent *Environment) {
	for p := parent; p != nil; p = p.parent {
		if p == e {
			panic("lang: environment cannot be its own ancestor")
		}
	}

	e.parent = parent
}

// Clone returns a copy of the local scope sharing the same parent.
func (e *Environment) Clone() *Environment {
	return &Environment{
		parent:  e.parent,
		vars:    maps.Clone(e.vars),
		ambient: e.ambient,
		logger:  e.logger,
		names:   slices.Clone(e.names),
	}
}

// Set defines name in the local scope without expanding value.
func (e *Environment) Set(name, value string) {
	if _, ok := e.vars[name]; !ok {
		e.names = append(e.names, name)
	}

	e.vars[name] = value
}

// LookupOK returns the value of name from the nearest scope defining it,
// falling back to the ambient lookup. It reports whether name is defined.
func (e *Environment) LookupOK(name string) (string, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}

		if s.parent == nil && s.ambient != nil {
			return s.ambient(name)
		}
	}

	return "", false
}

// Lookup returns the value of name like [Environment.LookupOK].
// An undefined variable is not an error: it logs a warning and yields "".
func (e *Environment) Lookup(name string) string {
	v, ok := e.LookupOK(name)
	if !ok {
		e.logger.Warn("undefined variable", slog.String("name", name))
	}

	return v
}

// identPattern matches a variable name.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Expand replaces each ${NAME} reference in template with [Environment.Lookup]
// of NAME.
//
// References do not nest. An opening "${" without a closing brace, a closing
// brace before the next opening "${", or a reference that is not a valid
// variable name is an [ErrMalformedTemplate] error.
func (e *Environment) Expand(template string) (string, error) {
	var sb strings.Builder

	for rest := template; ; {
		open := strings.Index(rest, "${")
		if closing := strings.IndexByte(rest, '}'); closing >= 0 &&
			(open < 0 || closing < open) {
			return "", malformedTemplate(template, "closing brace precedes reference")
		}

		if open < 0 {
			sb.WriteString(rest)

			return sb.String(), nil
		}

		sb.WriteString(rest[:open])
		rest = rest[open+2:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return "", malformedTemplate(template, "unterminated reference")
		}

		name := rest[:end]
		if !identPattern.MatchString(name) {
			return "", malformedTemplate(template,
				fmt.Sprintf("invalid variable name %q", name))
		}

		sb.WriteString(e.Lookup(name))
		rest = rest[end+1:]
	}
}

func malformedTemplate(template, reason string) error {
	return ErrMalformedTemplate.With(
		slog.String("template", template),
		slog.String("reason", reason),
	).Wrap(fmt.Errorf("%s in %q", reason, template))
}

// declPattern matches NAME OP VALUE, with OP one of "=", "?=" or "+=".
var declPattern = regexp.MustCompile(
	`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(\?=|\+=|=)\s*(.*?)\s*$`,
)

// Assign applies a variable declaration to the local scope.
//
// The whole declaration is expanded first, then matched as NAME OP VALUE:
//
//	NAME = VALUE   define or overwrite NAME
//	NAME ?= VALUE  define NAME only if no scope (or the ambient lookup)
//	               defines it
//	NAME += VALUE  define NAME as its visible value followed by VALUE
//
// One pair of matching quotes around VALUE is removed.
func (e *Environment) Assign(decl string) error {
	expanded, err := e.Expand(decl)
	if err != nil {
		return err
	}

	m := declPattern.FindStringSubmatch(expanded)
	if m == nil {
		return ErrMalformedDeclaration.
			With(slog.String("declaration", decl)).
			Wrap(fmt.Errorf("expected NAME = VALUE, got %q", expanded))
	}

	name, op, value := m[1], m[2], unquote(m[3])

	switch op {
	case "?=":
		if _, ok := e.LookupOK(name); ok {
			return nil
		}

	case "+=":
		prev, _ := e.LookupOK(name)
		value = prev + value
	}

	e.Set(name, value)

	return nil
}

// unquote removes one pair of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	return s
}

// Names returns the locally defined names in declaration order.
func (e *Environment) Names() []string { return slices.Clone(e.names) }

// All returns an iterator over the local variables in declaration order.
func (e *Environment) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range e.names {
			if !yield(name, e.vars[name]) {
				return
			}
		}
	}
}

// Map returns a copy of the local variables.
func (e *Environment) Map() map[string]string { return maps.Clone(e.vars) }

// WriteTo writes the local variables as declarations that [Environment.Assign]
// reads back to the same values.
func (e *Environment) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for name, value := range e.All() {
		if value != strings.TrimSpace(value) || unquote(value) != value {
			value = `"` + value + `"`
		}

		n, err := fmt.Fprintf(w, "%s = %s\n", name, value)
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}
