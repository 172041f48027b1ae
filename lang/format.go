package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// TargetView is the serializable form of a resolved target.
type TargetView struct {
	Name         string            `json:"name"                   yaml:"name"`
	Pattern      string            `json:"pattern,omitempty"      yaml:"pattern,omitempty"`
	Dependencies []Dependency      `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Body         []string          `json:"body,omitempty"         yaml:"body,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"    yaml:"variables,omitempty"`
}

// View returns the serializable form of t with its body rendered.
func (t *Target) View() (TargetView, error) {
	body, err := t.RenderBody()
	if err != nil {
		return TargetView{}, err
	}

	v := TargetView{
		Name:         t.name,
		Dependencies: t.Dependencies(),
		Body:         body,
		Variables:    t.env.Map(),
	}

	if p, ok := t.Materialized(); ok {
		v.Pattern = p.name
	}

	return v, nil
}

func views(targets []*Target) ([]TargetView, error) {
	out := make([]TargetView, 0, len(targets))

	for _, t := range targets {
		v, err := t.View()
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// WriteNative writes targets in the hand-off format, separated by blank
// lines, exactly as [Document.ResolveAndRender] does. Nothing is written if
// any target fails to render.
func WriteNative(_ context.Context, w io.Writer, targets []*Target) error {
	var sb strings.Builder

	for i, t := range targets {
		if i > 0 {
			sb.WriteByte('\n')
		}

		if err := t.Render(&sb); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// WriteJSON writes targets as a JSON array. An indent of zero writes compact
// output.
func WriteJSON(_ context.Context, w io.Writer, targets []*Target, indent int) error {
	v, err := views(targets)
	if err != nil {
		return err
	}

	var data []byte
	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// WriteYAML writes targets as a YAML sequence. An indent of zero writes flow
// style.
func WriteYAML(ctx context.Context, w io.Writer, targets []*Target, indent int) error {
	v, err := views(targets)
	if err != nil {
		return err
	}

	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
