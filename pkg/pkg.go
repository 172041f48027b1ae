//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time.
// The --version flag prints it.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and in the default
	// configuration path.
	Name = "pbsmake"
	// Description is a one-line summary used in help output.
	Description = "Render PBS job scripts from Makefile-style build descriptions"
)
