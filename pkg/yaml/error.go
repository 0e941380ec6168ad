package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// ErrorWrapper applies a fixed set of [ErrorOpt]s to any [*Error] found in
// an error chain.
type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{Opts: opts}
}

// Wrap applies the wrapper's options, then opts, to the [*Error] in err.
// Other errors are returned unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	for _, opt := range ew.Opts {
		opt(yamlErr)
	}
	for _, opt := range opts {
		opt(yamlErr)
	}

	return err
}

// Error is a YAML error located by a [*yaml.Path] and/or a [*token.Token].
// When Source is set, Error renders the surrounding lines highlighted with
// Style.
type Error struct {
	Err       error
	Path      *yaml.Path
	Token     *token.Token
	Style     *chroma.Style
	Formatter string
	Source    []byte
	// Context is the number of lines shown before and after the error line.
	Context int
}

type ErrorOpt func(e *Error)

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{
		Err:       err,
		Context:   2,
		Formatter: "terminal16m",
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func WithContextLines(n int) ErrorOpt {
	return func(e *Error) {
		e.Context = n
	}
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

// WithStyle sets the chroma style used to highlight the source excerpt.
func WithStyle(s *chroma.Style) ErrorOpt {
	return func(e *Error) {
		e.Style = s
	}
}

func WithFormatter(formatter string) ErrorOpt {
	return func(e *Error) {
		e.Formatter = formatter
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}
	if e.Path == nil && e.Token == nil {
		return e.Err.Error()
	}
	if len(e.Source) == 0 {
		if e.Path != nil {
			return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
		}

		return fmt.Sprintf("[%d:%d] %v", e.Token.Position.Line, e.Token.Position.Column, e.Err)
	}

	tk := e.Token
	if tk == nil {
		var err error
		tk, err = tokenFromPath(e.Source, e.Path)
		if err != nil {
			slog.Debug("locate yaml path in source",
				slog.String("path", e.Path.String()),
				slog.Any("err", err),
			)

			return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
		}
	}

	line, col := tk.Position.Line, tk.Position.Column

	return fmt.Sprintf("[%d:%d] %v:\n%s", line, col, e.Err, e.excerpt(line, col))
}

// excerpt renders the source lines around line (1-based) with line numbers
// and a caret under col.
func (e *Error) excerpt(line, col int) string {
	lines := strings.Split(strings.TrimRight(string(e.Source), "\n"), "\n")

	first := max(line-e.Context, 1)
	last := min(line+e.Context, len(lines))
	if first > last {
		return ""
	}

	highlighted := e.highlight(strings.Join(lines[first-1:last], "\n"))
	width := len(fmt.Sprint(last))

	gutter := lipgloss.NewStyle().Faint(true)
	marker := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	var sb strings.Builder
	for i, l := range highlighted {
		n := first + i
		prefix := "  "
		if n == line {
			prefix = marker.Render("> ")
		}

		fmt.Fprintf(&sb, "%s%s %s\n", prefix, gutter.Render(fmt.Sprintf("%*d |", width, n)), l)
		if n == line {
			pad := strings.Repeat(" ", 2+width+3+max(col-1, 0))
			fmt.Fprintf(&sb, "%s%s\n", pad, marker.Render("^"))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (e *Error) highlight(src string) []string {
	plain := strings.Split(src, "\n")
	if e.Style == nil {
		return plain
	}

	it, err := lexers.Get("yaml").Tokenise(nil, src)
	if err != nil {
		return plain
	}

	f := formatters.Get(e.Formatter)
	if f == nil {
		f = formatters.Fallback
	}

	var sb strings.Builder
	if err := f.Format(&sb, e.Style, it); err != nil {
		return plain
	}

	out := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(out) != len(plain) {
		return plain
	}

	return out
}

// DefaultStyle returns the style used when no configured theme is available.
func DefaultStyle() *chroma.Style {
	return styles.Get("dracula")
}

func tokenFromPath(source []byte, path *yaml.Path) (*token.Token, error) {
	if path == nil {
		return nil, errors.New("no path")
	}

	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	if tk := keyToken(file, path); tk != nil {
		return tk, nil
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", path.String(), err)
	}
	if node == nil {
		return nil, fmt.Errorf("filter %s: %w", path.String(), yaml.ErrNotFoundNode)
	}

	return node.GetToken(), nil
}

// keyToken returns the mapping key token for path, so that errors point at
// "key:" rather than its value. It returns nil for the root and for
// sequence indices.
func keyToken(file *ast.File, path *yaml.Path) *token.Token {
	s := path.String()

	dot := strings.LastIndex(s, ".")
	if dot <= 0 || dot < strings.LastIndex(s, "[") {
		return nil
	}

	parent, err := yaml.PathString(s[:dot])
	if err != nil {
		return nil
	}

	node, err := parent.FilterFile(file)
	if err != nil {
		return nil
	}

	mapping, ok := node.(*ast.MappingNode)
	if !ok {
		return nil
	}

	for _, v := range mapping.Values {
		if v.Key.String() == s[dot+1:] {
			return v.Key.GetToken()
		}
	}

	return nil
}
