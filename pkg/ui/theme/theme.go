// Package theme derives the application's lipgloss styles from a chroma
// style, so the chrome matches the highlighted code.
package theme

import (
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const Ellipsis = "…"

// Default is used when no theme was configured or the configured one could
// not be resolved.
var Default = New(styles.Get(DarkStyle))

const (
	DarkStyle  = "dracula"
	LightStyle = "github"
)

type Theme struct {
	ChromaStyle *chroma.Style

	TextStyle           lipgloss.Style
	SubtleStyle         lipgloss.Style
	SelectedStyle       lipgloss.Style
	SelectedSubtleStyle lipgloss.Style
	LogoStyle           lipgloss.Style
	HintStyle           lipgloss.Style
	ErrorTitleStyle     lipgloss.Style
	ErrorTextStyle      lipgloss.Style
	SuccessStyle        lipgloss.Style
	OverlayStyle        lipgloss.Style
	HelpStyle           lipgloss.Style
	StatusBarStyle      lipgloss.Style
	StatusBarNoteStyle  lipgloss.Style
	StatusBarPosStyle   lipgloss.Style

	Ellipsis string
}

// New derives a [Theme] from s. A nil style uses chroma's fallback.
func New(s *chroma.Style) *Theme {
	if s == nil {
		s = styles.Fallback
	}

	c := colours{style: s}

	text := lipgloss.NewStyle().Foreground(c.fg(chroma.Background))
	selected := lipgloss.NewStyle().Foreground(c.fg(chroma.NameTag))
	subtle := lipgloss.NewStyle().Foreground(c.fg(chroma.Comment))

	return &Theme{
		ChromaStyle: s,

		TextStyle:           text,
		SubtleStyle:         subtle,
		SelectedStyle:       selected,
		SelectedSubtleStyle: lipgloss.NewStyle().Foreground(c.fgFactor(chroma.NameTag, 0.3)),
		LogoStyle: lipgloss.NewStyle().
			Foreground(c.bg(chroma.Background)).
			Background(c.fg(chroma.NameTag)).
			Bold(true),
		HintStyle: subtle.Italic(true),
		ErrorTitleStyle: text.
			Background(c.fg(chroma.GenericDeleted)).
			Bold(true),
		ErrorTextStyle: lipgloss.NewStyle().Foreground(c.fg(chroma.GenericDeleted)),
		SuccessStyle:   lipgloss.NewStyle().Foreground(c.fg(chroma.GenericInserted)),
		OverlayStyle: text.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.fg(chroma.NameTag)).
			Padding(0, 1),
		HelpStyle: lipgloss.NewStyle().
			Foreground(c.fgFactor(chroma.Background, 0.2)).
			Background(c.bgFactor(chroma.Background, 0.2)),
		StatusBarStyle: lipgloss.NewStyle().
			Foreground(c.fg(chroma.Background)).
			Background(c.bgFactor(chroma.Background, 0.1)),
		StatusBarNoteStyle: lipgloss.NewStyle().
			Foreground(c.fg(chroma.Comment)).
			Background(c.bgFactor(chroma.Background, 0.1)),
		StatusBarPosStyle: lipgloss.NewStyle().
			Foreground(c.fg(chroma.Background)).
			Background(c.bgFactor(chroma.Background, 0.15)),

		Ellipsis: Ellipsis,
	}
}

// ResolveName maps the special names "auto", "dark" and "light" to a chroma
// style name. Other names are returned unchanged.
func ResolveName(name string) string {
	switch name {
	case "dark":
		return DarkStyle
	case "light":
		return LightStyle
	case "auto", "":
		return autoStyle()
	}

	return name
}

func autoStyle() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return DarkStyle
	}
	if termenv.HasDarkBackground() {
		return DarkStyle
	}

	return LightStyle
}

type colours struct {
	style *chroma.Style
}

func (c colours) fg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(c.style.Get(t).Colour.String()) //nolint:misspell // Chroma naming.
}

func (c colours) bg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(c.style.Get(t).Background.String())
}

func (c colours) fgFactor(t chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(c.style.Get(t).Colour.BrightenOrDarken(factor).String()) //nolint:misspell // Chroma naming.
}

func (c colours) bgFactor(t chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(c.style.Get(t).Background.BrightenOrDarken(factor).String())
}
