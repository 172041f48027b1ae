package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/pbsmake/lang"
	"github.com/ardnew/pbsmake/log"
)

// Fmt prints the resolved graph of goals in a chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native pbsmake syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// graph resolves goals in the document named by ctx.
func graph(ctx context.Context, format string, goals []string) ([]*lang.Target, error) {
	doc, err := loadDocument(ctx)
	if err != nil {
		return nil, err
	}

	targets, err := doc.Graph(goals...)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "formatting targets",
		slog.String("format", format),
		slog.Int("targets", len(targets)),
	)

	return targets, nil
}

// Native formats the graph as it would be rendered.
type Native struct {
	Goals []string `arg:"" help:"Goals to format (default: the first declared target)." name:"goal" optional:""`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	targets, err := graph(ctx, "native", n.Goals)
	if err != nil {
		return err
	}

	return lang.WriteNative(ctx, outputFrom(ctx), targets)
}

// JSON formats the graph as a JSON array of targets.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Goals []string `arg:"" help:"Goals to format (default: the first declared target)." name:"goal" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	targets, err := graph(ctx, "json", j.Goals)
	if err != nil {
		return err
	}

	return lang.WriteJSON(ctx, outputFrom(ctx), targets, j.Indent)
}

// YAML formats the graph as a YAML sequence of targets.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Goals []string `arg:"" help:"Goals to format (default: the first declared target)." name:"goal" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	targets, err := graph(ctx, "yaml", y.Goals)
	if err != nil {
		return err
	}

	return lang.WriteYAML(ctx, outputFrom(ctx), targets, y.Indent)
}
