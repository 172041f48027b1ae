// Package cmd implements the pbsmake subcommands: render, fmt, list and
// init.
//
// Commands receive the kong context, the source file names and the output
// writer through [context.Context]; see [WithContext], [WithSourceFiles] and
// [WithOutput].
package cmd

// ConfigIdentifier is the kong variable identifier containing the path to
// the configuration file.
var ConfigIdentifier = "config"
