package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package derive from these with [Error.Wrap] and
// [Error.With], and still match them with [errors.Is].
var (
	ErrReadInput = NewError("failed to read input")

	// Parse causes.
	ErrMalformedDeclaration     = NewError("malformed variable declaration")
	ErrMalformedHeader          = NewError("malformed target header")
	ErrUnclassifiedLine         = NewError("line matches no category")
	ErrAmbiguousLine            = NewError("line matches multiple categories")
	ErrUnterminatedContinuation = NewError("unterminated line continuation")
	ErrOrphanBody               = NewError("body line precedes any target header")

	// Resolve causes.
	ErrMalformedTemplate   = NewError("malformed template")
	ErrMalformedPattern    = NewError("malformed wildcard pattern")
	ErrPatternDependencies = NewError("cannot resolve dependencies of a pattern target")
	ErrUnresolvableGoal    = NewError("unresolvable goal")
	ErrUnknownBuiltin      = NewError("unknown builtin")
	ErrReadFile            = NewError("failed to read file")
	ErrDependencyCycle     = NewError("dependency cycle")
	ErrNoGoal              = NewError("no goal requested and no target declared")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	base  *Error      // Sentinel this error derives from
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>", or "", depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.origin() == e.origin()
}

func (e *Error) origin() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns the structured attributes attached with [Error.With].
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		base:  e.origin(),
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		base:  e.origin(),
		attrs: newAttrs,
	}
}

// ParseError reports a source line that could not be classified or applied.
type ParseError struct {
	Err  error  // Cause, one of the parse-cause sentinels
	Text string // Logical line text, continuations joined
	Line int    // 1-based number of the first physical line
}

// Error implements the error interface.
//
// The message names the line and cause, followed by an excerpt:
//
//	parse error at line 3: malformed target header
//	  3 | all: :b
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("parse error at line ")
	sb.WriteString(strconv.Itoa(e.Line))

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	sb.WriteString("\n  ")
	sb.WriteString(strconv.Itoa(e.Line))
	sb.WriteString(" | ")
	sb.WriteString(e.Text)

	return sb.String()
}

// Unwrap returns the cause.
func (e *ParseError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("line", e.Line),
		slog.String("text", e.Text),
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("cause", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// ResolveError reports a failure resolving or rendering a named target.
type ResolveError struct {
	Err         error    // Cause, one of the resolve-cause sentinels
	Name        string   // Goal or target name
	Suggestions []string // Similar target names, best first
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	var sb strings.Builder

	sb.WriteString("resolve ")
	sb.WriteString(strconv.Quote(e.Name))

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString(" (did you mean ")
		sb.WriteString(strings.Join(e.Suggestions, ", "))
		sb.WriteString("?)")
	}

	return sb.String()
}

// Unwrap returns the cause.
func (e *ResolveError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *ResolveError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("name", e.Name)}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("cause", e.Err))
	}

	if len(e.Suggestions) > 0 {
		attrs = append(attrs, slog.Any("suggestions", e.Suggestions))
	}

	return slog.GroupValue(attrs...)
}

// resolveError wraps err in a *ResolveError naming name, unless it already is
// one.
func resolveError(name string, err error) error {
	if err == nil {
		return nil
	}

	var re *ResolveError
	if errors.As(err, &re) {
		return err
	}

	return &ResolveError{Name: name, Err: err}
}
