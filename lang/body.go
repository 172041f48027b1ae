package lang

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// BodyLine is one line of a target's recipe.
//
// The two implementations are literal lines, emitted unchanged, and inline
// commands of the form @(BUILTIN ARGS...), evaluated when rendered.
type BodyLine interface {
	// Render returns the text the line contributes to rendered output.
	Render(env *Environment) (string, error)
	// Raw returns the line as written, without its indent.
	Raw() string

	bodyLine()
}

// commandPattern matches an inline command line and captures its contents.
var commandPattern = regexp.MustCompile(`^\s*@\((.*)\)\s*$`)

// ParseBodyLine classifies the text of a body line.
func ParseBodyLine(text string) BodyLine {
	if m := commandPattern.FindStringSubmatch(text); m != nil {
		return commandLine{raw: text, command: m[1]}
	}

	return literalLine(text)
}

// literalLine is body text emitted byte-for-byte.
// Variable references in it are left for the job's shell to interpret.
type literalLine string

func (l literalLine) Render(*Environment) (string, error) { return string(l), nil }
func (l literalLine) Raw() string                         { return string(l) }
func (literalLine) bodyLine()                             {}

// commandLine is an inline builtin invocation.
type commandLine struct {
	raw     string
	command string
}

// Render expands the command through env, splits it on whitespace, and runs
// the builtin named by the first field.
func (c commandLine) Render(env *Environment) (string, error) {
	expanded, err := env.Expand(c.command)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(expanded)
	if len(fields) == 0 {
		return "", ErrUnknownBuiltin.With(slog.String("builtin", ""))
	}

	b, ok := ParseBuiltin(fields[0])
	if !ok {
		return "", ErrUnknownBuiltin.
			With(slog.String("builtin", fields[0])).
			Wrap(fmt.Errorf("%q", fields[0]))
	}

	return b.Run(fields[1:])
}

func (c commandLine) Raw() string { return c.raw }
func (commandLine) bodyLine()     {}
