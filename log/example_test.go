package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/pbsmake/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("render complete", slog.Int("targets", 2))
	// Output:
	// level=INFO msg="render complete" targets=2
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("undefined variable", slog.String("name", "HOME2"))
	// Output:
	// level=WARN msg="undefined variable" name=HOME2
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout(""),
		log.WithPretty(false))

	logger.TraceContext(context.Background(), "materialized")
	// Output:
	// level=TRACE msg=materialized
}

func Example_jsonFormat() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"))

	logger.With(slog.String("goal", "a.txt")).Info("resolved")
	// Output:
	// {"level":"INFO","msg":"resolved","goal":"a.txt"}
}
