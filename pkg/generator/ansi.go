package generator

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/muesli/termenv"
)

// ANSI renders escape-coded text for terminals.
type ANSI struct {
	formatter string
}

// NewANSI returns an [ANSI] generator using the named chroma terminal
// formatter. An empty name picks one from the environment's colour profile.
func NewANSI(formatter string) *ANSI {
	if formatter == "" {
		formatter = FormatterForProfile(termenv.EnvColorProfile())
	}

	return &ANSI{formatter: formatter}
}

func (*ANSI) Name() string        { return "ansi" }
func (*ANSI) Description() string { return "Terminal escape codes" }
func (*ANSI) Extension() string   { return "ans" }

func (*ANSI) Properties() []Property {
	d := DefaultOptions()

	return []Property{
		{Name: "tabWidth", Description: "Spaces per tab", Kind: "int", Default: d.TabWidth},
		{Name: "lineNumbers", Description: "Prefix lines with their number", Kind: "bool", Default: d.LineNumbers},
	}
}

// Formatter returns the chroma formatter name in use.
func (a *ANSI) Formatter() string { return a.formatter }

func (a *ANSI) Generate(w io.Writer, req Request) error {
	lines, err := tokenise(req)
	if err != nil {
		return err
	}

	f := formatters.Get(a.formatter)

	gutter := len(fmt.Sprint(len(lines)))
	numbers := req.Style.Get(chroma.LineNumbers)

	var tokens []chroma.Token
	for i, line := range lines {
		if req.Options.LineNumbers {
			tokens = append(tokens, chroma.Token{
				Type:  chroma.LineNumbers,
				Value: fmt.Sprintf("%*d ", gutter, i+1),
			})
		}

		tokens = append(tokens, line...)
	}

	if req.Options.LineNumbers && !numbers.Colour.IsSet() {
		req.Style = withLineNumbers(req.Style)
	}

	if err := f.Format(w, req.Style, chroma.Literator(tokens...)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFormat, a.formatter, err)
	}

	return nil
}

// FormatterForProfile maps a terminal colour profile to a chroma formatter.
func FormatterForProfile(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	case termenv.Ascii:
		return "noop"
	}

	return "terminal8"
}

// withLineNumbers gives styles without a line number entry a faint one.
func withLineNumbers(s *chroma.Style) *chroma.Style {
	b := s.Builder()
	b.Add(chroma.LineNumbers, "#7f7f7f")

	out, err := b.Build()
	if err != nil {
		return s
	}

	return out
}
