package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/pbsmake/lang"
	"github.com/ardnew/pbsmake/log"
)

// List prints the declared targets in declaration order.
type List struct {
	Where string `help:"Only list targets for which EXPR is true (fields: name, pattern, deps, body)." placeholder:"EXPR" short:"w"`
}

// listEntry is the environment a --where expression is evaluated in.
type listEntry struct {
	Name    string   `expr:"name"`
	Deps    []string `expr:"deps"`
	Body    []string `expr:"body"`
	Pattern bool     `expr:"pattern"`
}

func newListEntry(t *lang.Target) listEntry {
	e := listEntry{
		Name:    t.Name(),
		Pattern: t.Kind() == lang.KindDynamic,
	}

	for _, d := range t.RawDependencies() {
		e.Deps = append(e.Deps, d.Name)
	}

	for _, l := range t.Body() {
		e.Body = append(e.Body, l.Raw())
	}

	return e
}

// compileFilter compiles a --where expression. An empty expression matches
// every target.
func compileFilter(where string) (*vm.Program, error) {
	if strings.TrimSpace(where) == "" {
		return nil, nil
	}

	program, err := expr.Compile(where, expr.Env(listEntry{}), expr.AsBool())
	if err != nil {
		return nil, ErrInvalidFilter.With(slog.String("where", where)).Wrap(err)
	}

	return program, nil
}

func match(program *vm.Program, e listEntry) (bool, error) {
	if program == nil {
		return true, nil
	}

	out, err := expr.Run(program, e)
	if err != nil {
		return false, ErrInvalidFilter.With(slog.String("target", e.Name)).Wrap(err)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	program, err := compileFilter(l.Where)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx)
	if err != nil {
		return err
	}

	var entries []listEntry

	for t := range doc.Targets() {
		e := newListEntry(t)

		ok, err := match(program, e)
		if err != nil {
			return err
		}

		if ok {
			entries = append(entries, e)
		}
	}

	w := outputFrom(ctx)
	r := lipgloss.NewRenderer(w)

	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Name))
	}

	var (
		static  = r.NewStyle().Bold(true).Width(width)
		pattern = r.NewStyle().Foreground(lipgloss.Color("5")).Width(width)
		deps    = r.NewStyle().Faint(true)
	)

	for _, e := range entries {
		name := static.Render(e.Name)
		if e.Pattern {
			name = pattern.Render(e.Name)
		}

		line := name
		if len(e.Deps) > 0 {
			line += "  " + deps.Render(strings.Join(e.Deps, " "))
		}

		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	log.DebugContext(ctx, "listed targets",
		slog.Int("listed", len(entries)),
		slog.String("where", l.Where),
	)

	return nil
}
