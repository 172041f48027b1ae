// Package log provides a leveled structured logger built on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parsed", slog.Int("targets", 3))
//
// # Configuration
//
// Loggers are configured at creation with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with additional options, and [Logger.With]
// derives one that attaches attributes to every record.
//
// # Package-Level Logger
//
// The package-level functions ([Info], [Warn], ...) write through a default
// logger on standard error. [Config] reconfigures it in place.
//
// # Levels
//
// [LevelTrace] sits below [slog.LevelDebug] and is used for per-step engine
// detail. Records below the configured level are discarded.
//
// # Zero Value
//
// The zero [Logger] discards everything, so libraries may hold one without
// requiring callers to configure it.
package log
