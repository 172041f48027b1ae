// Package lang parses Makefile-style build descriptions and renders the job
// definitions they describe.
//
// # Syntax
//
// A document is a sequence of lines. A line ending in a backslash continues
// on the next line.
//
//	# comment
//	NAME = VALUE            variable declaration (also ?= and +=)
//	TARGET[::TYPE]: DEPS    target header
//		BODY                recipe line, indented by one tab
//
// DEPS is a list of dependency tokens separated by whitespace or commas. A
// token NAME::TYPE overrides the header's TYPE, which defaults to "afterok".
// A token containing "=" is not a dependency but a variable declaration
// scoped to the target.
//
// A body line of the form @(BUILTIN ARGS...) is replaced by the output of a
// builtin when rendered:
//
//	@(echo ARGS...)    ARGS joined by spaces
//	@(cat FILES...)    contents of FILES
//
// Every other body line is emitted verbatim.
//
// # Variables
//
// ${NAME} references are expanded in declarations, target names, dependency
// tokens and inline commands. Scopes nest: a target's scope is inside the
// document's, and the document's falls back to the process environment. An
// undefined variable expands to the empty string with a warning.
//
// Each target defines pm_target_name as its own name. Targets materialized
// from a pattern also define pm_target_match as the matched stem.
//
// # Patterns
//
// A target whose name contains "%" is a pattern. A goal with no target of
// its own is materialized from the first declared pattern matching it:
//
//	%.txt: setup
//		@(cat ${pm_target_match}.raw)
//
// Resolving "a.txt" creates target a.txt depending on setup, whose body is
// the contents of a.raw.
//
// # Output
//
// [Document.ResolveAndRender] writes each needed target after its
// dependencies:
//
//	a.txt::afterok: setup
//		...contents of a.raw...
package lang
