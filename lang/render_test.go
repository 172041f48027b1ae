package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveAndRender(t *testing.T) {
	tests := []struct {
		name   string
		source string
		goals  []string
		want   string
	}{
		{
			name:   "default goal verbatim",
			source: "default:\n\t#PBS -l walltime=1:00:00\n\techo $PBS_JOBID ${HOME}\n",
			want:   "default:\n\t#PBS -l walltime=1:00:00\n\techo $PBS_JOBID ${HOME}\n",
		},
		{
			name:   "dependencies first",
			source: "all: a b\n\tfinal\na:\n\tA\nb: a\n\tB\n",
			want: "a:\n\tA\n\n" +
				"b::afterok: a\n\tB\n\n" +
				"all::afterok: a\nall::afterok: b\n\tfinal\n",
		},
		{
			name:   "dependency type",
			source: "run::afterany: prep, post::afterok\nprep:\npost:\n",
			want: "prep:\n\n" +
				"post:\n\n" +
				"run::afterany: prep\nrun::afterok: post\n",
		},
		{
			name:   "multiple goals share dependencies",
			source: "x: common\n\tX\ny: common\n\tY\ncommon:\n\tC\n",
			goals:  []string{"x", "y"},
			want:   "common:\n\tC\n\nx::afterok: common\n\tX\n\ny::afterok: common\n\tY\n",
		},
		{
			name:   "repeated goal",
			source: "a:\n\tA\n",
			goals:  []string{"a", "a"},
			want:   "a:\n\tA\n",
		},
		{
			name: "target scoped assignment",
			source: "MODE = base\n" +
				"job: MODE=override prep\n\t@(echo ${MODE})\n" +
				"prep:\n\t@(echo ${MODE})\n",
			goals: []string{"job"},
			want:  "prep:\n\tbase\n\njob::afterok: prep\n\toverride\n",
		},
		{
			name: "pattern dependency",
			source: "all: out.log\n" +
				"%.log: ${pm_target_match}.in\n\t@(echo log ${pm_target_match})\n" +
				"%.in:\n\t@(echo in ${pm_target_name})\n",
			want: "out.in:\n\tin out.in\n\n" +
				"out.log::afterok: out.in\n\tlog out\n\n" +
				"all::afterok: out.log\n",
		},
		{
			name:   "resolved name",
			source: "NAME = build\n${NAME}: \n\t@(echo ${pm_target_name})\n",
			goals:  []string{"build"},
			want:   "build:\n\tbuild\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustParse(t, tt.source).ResolveAndRender(tt.goals...)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("ResolveAndRender =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestResolveAndRender_Pattern(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "a.raw", "#PBS -N a\necho a\n")

	d := mustParse(t, "%.txt:\n\t@(cat ${pm_target_match}.raw)\n")

	got, err := d.ResolveAndRender("a.txt")
	if err != nil {
		t.Fatal(err)
	}

	if want := "a.txt:\n\t#PBS -N a\n\techo a\n"; got != want {
		t.Errorf("ResolveAndRender =\n%s\nwant\n%s", got, want)
	}

	tgt, ok := d.Registry().Lookup("a.txt")
	if !ok || tgt.Kind() != KindStatic || tgt.Stem() != "a" {
		t.Errorf("materialized target = %v, %v", tgt, ok)
	}
}

func TestResolveAndRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		goals  []string
		want   error
	}{
		{"unresolvable", "a:\n", []string{"missing"}, ErrUnresolvableGoal},
		{"unresolvable dependency", "a: nothing\n", nil, ErrUnresolvableGoal},
		{"no goal", "A = 1\n", nil, ErrNoGoal},
		{"cycle", "a: b\nb: c\nc: a\n", []string{"a"}, ErrDependencyCycle},
		{"self cycle", "a: a\n", nil, ErrDependencyCycle},
		{"unknown builtin", "a:\n\t@(rm -rf /)\n", nil, ErrUnknownBuiltin},
		{"missing file", "a:\n\t@(cat no-such-file)\n", nil, ErrReadFile},
		{"malformed pattern", "%%.x:\n", []string{"a.x"}, ErrMalformedPattern},
		{"bad dependency", "a: ${B\n", nil, ErrMalformedTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			got, err := mustParse(t, tt.source).ResolveAndRender(tt.goals...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			var re *ResolveError
			if !errors.As(err, &re) {
				t.Errorf("error = %T, want *ResolveError", err)
			}

			if got != "" {
				t.Errorf("partial output on error: %q", got)
			}
		})
	}
}

func TestGraph_CyclePath(t *testing.T) {
	_, err := mustParse(t, "a: b\nb: c\nc: b\n").Graph()

	if err == nil || !strings.Contains(err.Error(), "b -> c -> b") {
		t.Errorf("error = %v, want cycle path", err)
	}
}
