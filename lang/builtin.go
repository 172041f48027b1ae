package lang

//go:generate go tool stringer --linecomment --type Builtin --output builtin_string.go

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
)

// Builtin is a command available to inline body lines.
type Builtin int

const (
	BuiltinEcho Builtin = iota // echo
	BuiltinCat                 // cat

	builtinCount
)

// ParseBuiltin returns the builtin named name.
func ParseBuiltin(name string) (Builtin, bool) {
	for b := range builtinCount {
		if b.String() == name {
			return b, true
		}
	}

	return 0, false
}

// Run executes b with args and returns its output.
//
//	echo ARGS...  ARGS joined by single spaces, then a newline
//	cat FILES...  the contents of each file, in order
func (b Builtin) Run(args []string) (string, error) {
	switch b {
	case BuiltinEcho:
		return strings.Join(args, " ") + "\n", nil

	case BuiltinCat:
		var buf bytes.Buffer

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", ErrReadFile.With(slog.String("file", path)).Wrap(err)
			}

			buf.Write(data)
		}

		return buf.String(), nil

	default:
		return "", ErrUnknownBuiltin.With(slog.String("builtin", b.String()))
	}
}
