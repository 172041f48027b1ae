package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/pbsmake/log"
)

// Render prints the rendered definitions of goals and everything they depend
// on, ready for job submission.
type Render struct {
	Goals []string `arg:"" help:"Goals to render (default: the first declared target)." name:"goal" optional:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	doc, err := loadDocument(ctx)
	if err != nil {
		return err
	}

	out, err := doc.ResolveAndRender(r.Goals...)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(outputFrom(ctx), out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	log.DebugContext(ctx, "render complete",
		slog.Any("goals", r.Goals),
		slog.Int("bytes", len(out)),
	)

	return nil
}
