package lang

import (
	"context"
	"iter"
	"log/slog"

	"github.com/ardnew/pbsmake/log"
)

// Document is a parsed build description: the top-level scope holding its
// variable declarations, the registry of its targets, and the default goal.
type Document struct {
	env         *Environment
	registry    *Registry
	logger      log.Logger
	ambient     Ambient
	defaultGoal string
}

// Option configures a [Document].
type Option func(*Document)

// WithLogger sets the logger receiving diagnostics such as undefined
// variables. The default discards them.
func WithLogger(logger log.Logger) Option {
	return func(d *Document) { d.logger = logger }
}

// WithAmbient sets the lookup consulted for variables no scope defines.
// The default is [os.LookupEnv]. A nil lookup defines nothing.
func WithAmbient(ambient Ambient) Option {
	return func(d *Document) {
		if ambient == nil {
			ambient = noAmbient
		}

		d.ambient = ambient
	}
}

func newDocument(opts ...Option) *Document {
	d := &Document{env: NewEnvironment(nil)}
	d.ambient = d.env.ambient

	for _, opt := range opts {
		opt(d)
	}

	d.env.ambient, d.env.logger = d.ambient, d.logger
	d.registry = NewRegistry(d.env)

	return d
}

// Parse parses a build description.
//
// Variable declarations are applied to the document scope as they are read,
// so a declaration sees only those above it. Target headers and body lines
// are collected into the registry unresolved.
func Parse(ctx context.Context, source string, opts ...Option) (*Document, error) {
	d := newDocument(opts...)

	lines, err := classifyCached(ctx, d, source)
	if err != nil {
		return nil, err
	}

	var current *Target

	for _, line := range lines {
		switch line.Kind {
		case LineBlank, LineComment:

		case LineDeclaration:
			if err := d.env.Assign(line.Text); err != nil {
				return nil, line.errorf(err)
			}

		case LineHeader:
			current = d.registry.GetOrCreate(line.Name)

			for _, token := range line.Deps {
				current.AddDependency(parseDependency(token, line.Type))
			}

			if d.defaultGoal == "" {
				d.defaultGoal = line.Name
			}

		case LineBody:
			if current == nil {
				return nil, line.errorf(ErrOrphanBody)
			}

			current.AddBody(ParseBodyLine(line.Body))
		}
	}

	d.logger.TraceContext(ctx, "parse complete",
		slog.Int("lines", len(lines)),
		slog.Int("targets", d.registry.Len()),
		slog.Int("variables", len(d.env.names)),
		slog.String("default_goal", d.defaultGoal),
	)

	return d, nil
}

// Env returns the document scope.
func (d *Document) Env() *Environment { return d.env }

// Registry returns the document's targets.
func (d *Document) Registry() *Registry { return d.registry }

// DefaultGoal returns the name of the first declared target, used when no
// goal is requested.
func (d *Document) DefaultGoal() string { return d.defaultGoal }

// Targets returns an iterator over the declared targets in declaration
// order, excluding patterns retired by name resolution.
func (d *Document) Targets() iter.Seq[*Target] { return d.registry.All() }
