package lang

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/pbsmake/log"
)

// isolated returns an outermost scope with no ambient variables.
func isolated() *Environment {
	e := NewEnvironment(nil)
	e.ambient = noAmbient

	return e
}

func TestEnvironment_Shadowing(t *testing.T) {
	parent := isolated()
	parent.Set("X", "parent")
	parent.Set("Y", "inherited")

	child := NewEnvironment(parent)
	child.Set("X", "child")

	if got := child.Lookup("X"); got != "child" {
		t.Errorf("child.Lookup(X) = %q, want %q", got, "child")
	}

	if got := child.Lookup("Y"); got != "inherited" {
		t.Errorf("child.Lookup(Y) = %q, want %q", got, "inherited")
	}

	if got := parent.Lookup("X"); got != "parent" {
		t.Errorf("parent.Lookup(X) = %q, want %q", got, "parent")
	}
}

func TestEnvironment_Ambient(t *testing.T) {
	t.Setenv("PBSMAKE_TEST_AMBIENT", "from-process")

	root := NewEnvironment(nil)
	child := NewEnvironment(root)

	if got := child.Lookup("PBSMAKE_TEST_AMBIENT"); got != "from-process" {
		t.Errorf("Lookup = %q, want process value", got)
	}

	root.Set("PBSMAKE_TEST_AMBIENT", "declared")

	if got := child.Lookup("PBSMAKE_TEST_AMBIENT"); got != "declared" {
		t.Errorf("Lookup = %q, want declared value to shadow process", got)
	}
}

func TestEnvironment_UndefinedWarns(t *testing.T) {
	var buf bytes.Buffer

	e := isolated()
	e.logger = log.Make(&buf, log.WithPretty(false), log.WithTimeLayout("none"))

	if got := e.Lookup("MISSING"); got != "" {
		t.Errorf("Lookup(MISSING) = %q, want empty", got)
	}

	out := buf.String()
	if !strings.Contains(out, "undefined variable") ||
		!strings.Contains(out, "name=MISSING") {
		t.Errorf("warning = %q", out)
	}
}

func TestEnvironment_Expand(t *testing.T) {
	e := isolated()
	e.Set("A", "alpha")
	e.Set("B", "beta")

	tests := []struct {
		name     string
		template string
		want     string
		wantErr  bool
	}{
		{"no markers", "plain text", "plain text", false},
		{"empty", "", "", false},
		{"single", "${A}", "alpha", false},
		{"adjacent", "${A}${B}", "alphabeta", false},
		{"embedded", "x-${A}-y", "x-alpha-y", false},
		{"undefined", "[${NONE}]", "[]", false},
		{"lone dollar", "$A and $", "$A and $", false},
		{"unterminated", "${A", "", true},
		{"closing first", "A}", "", true},
		{"closing before open", "} ${A}", "", true},
		{"trailing close", "${A}}", "", true},
		{"nested", "${${A}}", "", true},
		{"empty name", "${}", "", true},
		{"invalid name", "${A B}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Expand(tt.template)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedTemplate) {
					t.Fatalf("Expand(%q) error = %v, want ErrMalformedTemplate",
						tt.template, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Expand(%q) unexpected error: %v", tt.template, err)
			}

			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestEnvironment_ExpandIdempotent(t *testing.T) {
	e := isolated()

	for _, s := range []string{"", "abc", "#PBS -l walltime=1:00", "$HOME", "a $ b"} {
		once, err := e.Expand(s)
		if err != nil {
			t.Fatalf("Expand(%q): %v", s, err)
		}

		twice, err := e.Expand(once)
		if err != nil {
			t.Fatalf("Expand(Expand(%q)): %v", s, err)
		}

		if once != s || twice != s {
			t.Errorf("Expand(%q) = %q then %q", s, once, twice)
		}
	}
}

func TestEnvironment_Assign(t *testing.T) {
	tests := []struct {
		name    string
		decls   []string
		key     string
		want    string
		wantErr error
	}{
		{"simple", []string{"A = 1"}, "A", "1", nil},
		{"no spaces", []string{"A=1"}, "A", "1", nil},
		{"overwrite", []string{"A = 1", "A = 2"}, "A", "2", nil},
		{"conditional unset", []string{"A ?= 1"}, "A", "1", nil},
		{"conditional set", []string{"A = 1", "A ?= 2"}, "A", "1", nil},
		{"append", []string{"A = x", "A += y"}, "A", "xy", nil},
		{"append unset", []string{"A += y"}, "A", "y", nil},
		{"double quoted", []string{`A = "a b "`}, "A", "a b ", nil},
		{"single quoted", []string{`A = 'x'`}, "A", "x", nil},
		{"mismatched quotes", []string{`A = "x'`}, "A", `"x'`, nil},
		{"expands", []string{"A = 1", "B = ${A}2"}, "B", "12", nil},
		{"expands name", []string{"N = C", "${N} = 3"}, "C", "3", nil},
		{"empty value", []string{"A ="}, "A", "", nil},
		{"value with equals", []string{"A = b=c"}, "A", "b=c", nil},
		{"missing operator", []string{"A 1"}, "", "", ErrMalformedDeclaration},
		{"bad name", []string{"1A = 1"}, "", "", ErrMalformedDeclaration},
		{"bad template", []string{"A = ${B"}, "", "", ErrMalformedTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := isolated()

			var err error
			for _, d := range tt.decls {
				if err = e.Assign(d); err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Assign error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Assign: %v", err)
			}

			got, ok := e.LookupOK(tt.key)
			if !ok || got != tt.want {
				t.Errorf("%s = %q (defined %v), want %q", tt.key, got, ok, tt.want)
			}
		})
	}
}

func TestEnvironment_ConditionalAncestor(t *testing.T) {
	parent := isolated()
	parent.Set("X", "parent")

	child := NewEnvironment(parent)

	if err := child.Assign("X ?= child"); err != nil {
		t.Fatal(err)
	}

	if got := child.Lookup("X"); got != "parent" {
		t.Errorf("?= overwrote ancestor value: got %q", got)
	}

	if slices.Contains(child.Names(), "X") {
		t.Error("?= defined X locally although an ancestor defines it")
	}

	if err := child.Assign("X = child"); err != nil {
		t.Fatal(err)
	}

	if got := child.Lookup("X"); got != "child" {
		t.Errorf("= did not overwrite locally: got %q", got)
	}

	if got := parent.Lookup("X"); got != "parent" {
		t.Errorf("= modified the parent: got %q", got)
	}
}

func TestEnvironment_ConditionalAmbient(t *testing.T) {
	t.Setenv("PBSMAKE_TEST_COND", "process")

	e := NewEnvironment(nil)
	if err := e.Assign("PBSMAKE_TEST_COND ?= declared"); err != nil {
		t.Fatal(err)
	}

	if got := e.Lookup("PBSMAKE_TEST_COND"); got != "process" {
		t.Errorf("?= ignored the process environment: got %q", got)
	}
}

func TestEnvironment_Clone(t *testing.T) {
	parent := isolated()
	parent.Set("P", "p")

	e := NewEnvironment(parent)
	e.Set("A", "1")

	c := e.Clone()
	c.Set("A", "2")
	c.Set("B", "3")

	if got := e.Lookup("A"); got != "1" {
		t.Errorf("clone mutation leaked: A = %q", got)
	}

	if c.Parent() != parent || c.Lookup("P") != "p" {
		t.Error("clone does not share the parent")
	}

	if got, want := c.Names(), []string{"A", "B"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestEnvironment_ReparentCycle(t *testing.T) {
	a := isolated()
	b := NewEnvironment(a)

	defer func() {
		if recover() == nil {
			t.Error("reparent to a descendant did not panic")
		}
	}()

	a.reparent(b)
}

func TestEnvironment_WriteTo(t *testing.T) {
	e := isolated()
	e.Set("log_level", "debug")
	e.Set("padded", " x ")
	e.Set("quoted", `"q"`)
	e.Set("empty", "")

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	want := "log_level = debug\n" +
		"padded = \" x \"\n" +
		"quoted = \"\"q\"\"\n" +
		"empty = \n"
	if buf.String() != want {
		t.Fatalf("WriteTo =\n%s\nwant\n%s", buf.String(), want)
	}

	back := isolated()
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if err := back.Assign(line); err != nil {
			t.Fatalf("Assign(%q): %v", line, err)
		}
	}

	for name, value := range e.All() {
		if got := back.Lookup(name); got != value {
			t.Errorf("round trip %s = %q, want %q", name, got, value)
		}
	}
}
