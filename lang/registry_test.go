package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestIsStaticName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"build", true},
		{"a.txt", true},
		{"$HOME", true},
		{"%.txt", false},
		{"${X}", false},
		{"out-${X}.log", false},
	}

	for _, tt := range tests {
		if got := IsStaticName(tt.name); got != tt.want {
			t.Errorf("IsStaticName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := newTestRegistry()

	a := r.GetOrCreate("a")
	p := r.GetOrCreate("%.a")

	if r.GetOrCreate("a") != a || r.GetOrCreate("%.a") != p {
		t.Fatal("GetOrCreate did not intern")
	}

	if a.Kind() != KindStatic || p.Kind() != KindDynamic {
		t.Errorf("kinds = %v, %v", a.Kind(), p.Kind())
	}

	if r.Len() != 2 || r.Target(a.ID()) != a || r.Target(p.ID()) != p {
		t.Error("arena does not address targets by ID")
	}

	if r.Target(-1) != nil || r.Target(2) != nil {
		t.Error("Target out of range is not nil")
	}

	if _, ok := r.Lookup("%.a"); ok {
		t.Error("Lookup found a pattern")
	}

	if _, ok := r.Pattern("a"); ok {
		t.Error("Pattern found a static target")
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := newTestRegistry()

	first := r.GetOrCreate("%.txt")
	first.AddBody(ParseBodyLine("first"))

	second := r.GetOrCreate("report.%")
	second.AddBody(ParseBodyLine("second"))

	tgt, err := r.Resolve("report.txt")
	if err != nil {
		t.Fatal(err)
	}

	if origin, _ := tgt.Materialized(); origin != first {
		t.Errorf("goal materialized from %v, want the first declared pattern", origin)
	}

	if got := bodyRaw(tgt); !slices.Equal(got, []string{"first"}) {
		t.Errorf("body = %v", got)
	}

	static := r.GetOrCreate("report.txt")
	if static != tgt {
		t.Error("materialized goal not registered as static")
	}

	again, err := r.Resolve("report.txt")
	if err != nil || again != tgt {
		t.Errorf("second Resolve = %v, %v", again, err)
	}
}

func TestRegistry_ResolveStaticWins(t *testing.T) {
	r := newTestRegistry()
	r.GetOrCreate("%.txt").AddBody(ParseBodyLine("pattern"))

	concrete := r.GetOrCreate("a.txt")
	concrete.AddBody(ParseBodyLine("concrete"))

	got, err := r.Resolve("a.txt")
	if err != nil {
		t.Fatal(err)
	}

	if got != concrete {
		t.Error("pattern shadowed a declared static target")
	}

	if _, ok := got.Materialized(); ok {
		t.Error("declared static target reports materialization")
	}
}

func TestRegistry_ResolveUnresolvable(t *testing.T) {
	r := newTestRegistry()
	r.GetOrCreate("build")
	r.GetOrCreate("build-docs")
	r.GetOrCreate("clean")
	r.GetOrCreate("%.txt")

	_, err := r.Resolve("bld")
	if !errors.Is(err, ErrUnresolvableGoal) {
		t.Fatalf("error = %v, want ErrUnresolvableGoal", err)
	}

	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("error = %T, want *ResolveError", err)
	}

	if re.Name != "bld" {
		t.Errorf("Name = %q", re.Name)
	}

	if !slices.Contains(re.Suggestions, "build") || slices.Contains(re.Suggestions, "clean") {
		t.Errorf("Suggestions = %v", re.Suggestions)
	}

	if len(re.Suggestions) > maxSuggestions {
		t.Errorf("too many suggestions: %v", re.Suggestions)
	}
}

func TestRegistry_ResolveMalformedPattern(t *testing.T) {
	r := newTestRegistry()
	r.GetOrCreate("%%.txt")

	if _, err := r.Resolve("a.txt"); !errors.Is(err, ErrMalformedPattern) {
		t.Errorf("error = %v, want ErrMalformedPattern", err)
	}
}

func TestRegistry_Iterators(t *testing.T) {
	r := newTestRegistry()
	r.env.Set("N", "b")

	for _, name := range []string{"a", "%.x", "${N}", "c"} {
		r.GetOrCreate(name)
	}

	if err := r.ResolveNames(); err != nil {
		t.Fatal(err)
	}

	collect := func(seq func(func(*Target) bool)) []string {
		var out []string
		for tg := range seq {
			out = append(out, tg.Name())
		}

		return out
	}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"All", collect(r.All()), []string{"a", "%.x", "c", "b"}},
		{"Static", collect(r.Static()), []string{"a", "c", "b"}},
		{"Dynamic", collect(r.Dynamic()), []string{"%.x"}},
	}

	for _, tt := range tests {
		if !slices.Equal(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
