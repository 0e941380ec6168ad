// Package generator renders highlighted source code into shareable formats.
package generator

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/quellcode/quellcode/pkg/validate"
)

var (
	ErrUnknownGenerator = errors.New("unknown generator")
	ErrTokenise         = errors.New("tokenise")
	ErrFormat           = errors.New("format")
)

// Options shared by all generators. Generators ignore options they do not
// support.
type Options struct {
	FontFamily        string  `json:"fontFamily"        validate:"required"        yaml:"fontFamily"`
	FontSize          float64 `json:"fontSize"          validate:"gt=0"            yaml:"fontSize"`
	TabWidth          int     `json:"tabWidth"          validate:"gte=1"           yaml:"tabWidth"`
	Padding           float64 `json:"padding"           validate:"gte=0"           yaml:"padding"`
	IncludeBackground bool    `json:"includeBackground" yaml:"includeBackground"`
	LineNumbers       bool    `json:"lineNumbers"       yaml:"lineNumbers"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		FontFamily:        "Monospace",
		FontSize:          12,
		TabWidth:          4,
		IncludeBackground: true,
	}
}

func (o Options) Validate() error {
	return validate.Struct(o)
}

// Request is a single render.
type Request struct {
	Style   *chroma.Style
	Lexer   chroma.Lexer
	Code    string
	Options Options
}

// Property describes one option a generator reads.
type Property struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Default     any    `json:"default"`
}

// Generator renders a [Request] to w.
type Generator interface {
	Name() string
	Description() string
	// Extension is the file extension for written output, without the dot.
	Extension() string
	// Properties lists the [Options] fields the generator reads.
	Properties() []Property
	Generate(w io.Writer, req Request) error
}

// Registry holds generators by name.
type Registry struct {
	gens map[string]Generator
}

// NewRegistry returns a [Registry] with gens. Later generators replace
// earlier ones with the same name.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{gens: make(map[string]Generator, len(gens))}
	for _, g := range gens {
		r.gens[strings.ToLower(g.Name())] = g
	}

	return r
}

// DefaultRegistry returns a [Registry] with every built-in generator.
func DefaultRegistry() *Registry {
	return NewRegistry(NewSVG(), NewHTML(), NewANSI(""))
}

// Get returns the generator called name, ignoring case.
func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.gens[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownGenerator, name, strings.Join(r.Names(), ", "))
	}

	return g, nil
}

// Names returns the registered generator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gens))
	for n := range r.gens {
		names = append(names, n)
	}

	slices.Sort(names)

	return names
}

// Render validates req and runs the generator called name.
func (r *Registry) Render(w io.Writer, name string, req Request) error {
	g, err := r.Get(name)
	if err != nil {
		return err
	}

	return Generate(g, w, req)
}

// Generate fills defaults for a missing style or lexer, validates options
// and runs g.
func Generate(g Generator, w io.Writer, req Request) error {
	if req.Style == nil {
		req.Style = styles.Fallback
	}
	if req.Lexer == nil {
		req.Lexer = lexers.Fallback
	}

	if err := req.Options.Validate(); err != nil {
		return fmt.Errorf("%s options: %w", g.Name(), err)
	}

	return g.Generate(w, req)
}

// tokenise splits code into coalesced tokens, one slice per line.
// Tabs are expanded to tabWidth spaces.
func tokenise(req Request) ([][]chroma.Token, error) {
	code := expandTabs(req.Code, req.Options.TabWidth)

	it, err := chroma.Coalesce(req.Lexer).Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenise, err)
	}

	lines := chroma.SplitTokensIntoLines(it.Tokens())

	// Splitting after the final newline leaves a line of empty tokens.
	if n := len(lines); n > 0 && isEmptyLine(lines[n-1]) {
		lines = lines[:n-1]
	}

	return lines, nil
}

func isEmptyLine(tokens []chroma.Token) bool {
	for _, t := range tokens {
		if t.Value != "" {
			return false
		}
	}

	return true
}

func expandTabs(s string, width int) string {
	if width < 1 || !strings.Contains(s, "\t") {
		return s
	}

	var sb strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := width - col%width
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			sb.WriteRune(r)
			col = 0
		default:
			sb.WriteRune(r)
			col++
		}
	}

	return sb.String()
}
