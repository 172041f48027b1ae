package lang

//go:generate go tool stringer --linecomment --type LineKind,Kind --output kind_string.go

import (
	"regexp"
	"strings"
)

// LineKind is the category of a logical source line.
type LineKind int

const (
	LineBlank       LineKind = iota // blank
	LineComment                     // comment
	LineDeclaration                 // declaration
	LineHeader                      // header
	LineBody                        // body
)

// continuation is the marker ending a physical line that continues on the
// next.
const continuation = `\`

// Surface forms of each line category.
var (
	blankPattern   = regexp.MustCompile(`^\s*$`)
	commentPattern = regexp.MustCompile(`^\s*#`)
	bodyPattern    = regexp.MustCompile(`^\t(.*)$`)
	declPrefix     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*(?:\?=|\+=|=)`)
	headerPattern  = regexp.MustCompile(`^([^\s:]+?)(?:::([^\s:]+))?\s*:(.*)$`)
)

// Line is a classified logical line.
type Line struct {
	Text string   // logical text, continuations joined
	Name string   // header: target name
	Type string   // header: dependency type, if given
	Body string   // body: text after the indent
	Deps []string // header: dependency tokens
	Num  int      // 1-based number of the first physical line
	Kind LineKind
}

// physical is one logical line before classification.
type physical struct {
	text string
	num  int
}

// joinContinuations splits source into logical lines.
//
// A line ending in a backslash is joined to the next with a single space;
// the backslash and the next line's leading whitespace are dropped.
func joinContinuations(source string) ([]physical, error) {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.TrimSuffix(source, "\n")

	if source == "" {
		return nil, nil
	}

	raw := strings.Split(source, "\n")
	lines := make([]physical, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		num := i + 1
		text := raw[i]

		for strings.HasSuffix(text, continuation) {
			if i+1 >= len(raw) {
				return nil, &ParseError{
					Line: num,
					Text: text,
					Err:  ErrUnterminatedContinuation,
				}
			}

			i++
			text = strings.TrimSuffix(text, continuation) + " " +
				strings.TrimLeft(raw[i], " \t")
		}

		lines = append(lines, physical{text: text, num: num})
	}

	return lines, nil
}

// classify assigns a logical line to exactly one category.
//
// Body takes precedence over comment, and comment over blank. A line of any
// other combination of categories is ambiguous.
func classify(p physical) (Line, error) {
	line := Line{Text: p.text, Num: p.num}

	body := bodyPattern.FindStringSubmatch(p.text)
	header := headerPattern.FindStringSubmatch(p.text)
	decl := declPrefix.MatchString(p.text)

	switch {
	case body != nil:
		line.Kind, line.Body = LineBody, body[1]

		return line, nil

	case commentPattern.MatchString(p.text):
		line.Kind = LineComment

		return line, nil

	case blankPattern.MatchString(p.text):
		line.Kind = LineBlank

		return line, nil

	case decl && header != nil:
		return line, line.errorf(ErrAmbiguousLine)

	case decl:
		line.Kind = LineDeclaration

		return line, nil

	case header != nil:
		line.Kind, line.Name, line.Type = LineHeader, header[1], header[2]

		deps := strings.TrimSpace(header[3])
		if strings.HasPrefix(deps, ":") {
			return line, line.errorf(ErrMalformedHeader)
		}

		line.Deps = strings.FieldsFunc(deps, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})

		return line, nil
	}

	switch {
	case strings.Contains(p.text, "="):
		return line, line.errorf(ErrMalformedDeclaration)
	case strings.Contains(p.text, ":"):
		return line, line.errorf(ErrMalformedHeader)
	default:
		return line, line.errorf(ErrUnclassifiedLine)
	}
}

func (l Line) errorf(cause error) *ParseError {
	return &ParseError{Line: l.Num, Text: l.Text, Err: cause}
}

// classifyAll classifies every logical line of source.
func classifyAll(source string) ([]Line, error) {
	phys, err := joinContinuations(source)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(phys))

	for _, p := range phys {
		line, err := classify(p)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}
