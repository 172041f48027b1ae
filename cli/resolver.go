package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pbsmake/lang"
	"github.com/ardnew/pbsmake/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as pbsmake variable declarations:
//
//	# ~/.config/pbsmake/config
//	log_level = debug
//	log_format = json
//	log_pretty = false
//
// Each variable sets the default of the flag with the same name, with
// underscores standing for hyphens. Targets in the file are ignored, and
// the process environment is not consulted while expanding it.
//
// Command-line flags override config file values. A file that does not
// parse is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := lang.ParseReader(ctx, r, lang.WithAmbient(nil))
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		return newConfig(doc.Env()), nil
	}
}

// config implements [kong.Resolver] for pbsmake configuration files.
type config map[string]any

func newConfig(env *lang.Environment) config {
	c := make(config)
	for name, value := range env.All() {
		c[name] = value
	}

	return c
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Flags use hyphens (log-level) but variable names cannot, so the file
	// uses underscores (log_level). Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
