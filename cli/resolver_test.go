package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   config
	}{
		{
			name:   "declarations",
			source: "log_level = debug\nlog_pretty = false\n",
			want:   config{"log_level": "debug", "log_pretty": "false"},
		},
		{
			name:   "expanded",
			source: "DIR = /scratch\npprof_dir = ${DIR}/pprof\n",
			want:   config{"DIR": "/scratch", "pprof_dir": "/scratch/pprof"},
		},
		{
			name:   "targets ignored",
			source: "log_format = json\nall:\n\techo\n",
			want:   config{"log_format": "json"},
		},
		{
			name:   "invalid",
			source: "this is not valid\n",
			want:   config{},
		},
		{
			name: "empty",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolve(context.Background())(strings.NewReader(tt.source))
			if err != nil {
				t.Fatal(err)
			}

			got, ok := res.(config)
			if !ok {
				t.Fatalf("resolver = %T, want config", res)
			}

			if len(got) != len(tt.want) {
				t.Errorf("config = %v, want %v", got, tt.want)
			}

			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestConfigResolve(t *testing.T) {
	c := config{"log_level": "debug", "log-format": "json"}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-caller", nil},
	}

	for _, tt := range tests {
		got, err := c.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
		if err != nil {
			t.Fatal(err)
		}

		if got != tt.want {
			t.Errorf("Resolve(%s) = %v, want %v", tt.flag, got, tt.want)
		}
	}
}

// TestResolveKong tests that configuration values become flag defaults that
// the command line overrides.
func TestResolveKong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")

	content := "log_level = debug\nlog_pretty = false\nfile = a.mk,b.mk\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli struct {
		LogLevel  string   `default:"info"`
		LogPretty bool     `default:"true"     negatable:""`
		LogFormat string   `default:"text"`
		File      []string `default:"Makefile"`
	}

	parser, err := kong.New(&cli, kong.Configuration(resolve(context.Background()), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--log-format=json"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "debug" || cli.LogPretty || cli.LogFormat != "json" {
		t.Errorf("flags = %+v", cli)
	}

	if strings.Join(cli.File, " ") != "a.mk b.mk" {
		t.Errorf("file = %q", cli.File)
	}
}
