// Package profile collects runtime profiles of a pbsmake run.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	pbsmake --pprof-mode cpu --pprof-dir ./profiles render all
//
// Without the tag, [Profiler.Start] never profiles and [Modes] is empty.
// The collected file is named after the mode (cpu.pprof, mem.pprof, ...)
// and is read with "go tool pprof".
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
