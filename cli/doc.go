// Package cli contains the command line interface for pbsmake.
//
// # Usage
//
//	pbsmake [flags] [render] [GOAL...]
//	pbsmake [flags] fmt native|json|yaml [GOAL...]
//	pbsmake [flags] list [--where EXPR]
//	pbsmake [flags] init [--force]
//
// The build description is read from ./Makefile unless --file names other
// files; they are concatenated in order, with "-" (stdin) last.
//
// # Configuration
//
// Flag defaults are read from the user configuration directory:
//
//	$XDG_CONFIG_HOME/pbsmake/config       pbsmake variable declarations
//	$XDG_CONFIG_HOME/pbsmake/config.json  JSON object
//
// "pbsmake init" writes the first from the current flag values.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn or error
//   - --log-format: text or json
//   - --log-time-layout: a named layout (RFC3339, kitchen, none, ...) or a
//     Go time layout
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// Logs are written to standard error; rendered output goes to standard
// output.
//
// # Profiling Options
//
//   - --pprof-mode: profile to collect (see package profile)
//   - --pprof-dir: profile output directory (default:
//     $XDG_CACHE_HOME/pbsmake/pprof)
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
package cli
