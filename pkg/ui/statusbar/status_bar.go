// Package statusbar renders the bottom status line and the help panel.
package statusbar

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/quellcode/quellcode/pkg/ui/theme"
	"github.com/quellcode/quellcode/pkg/version"
)

const (
	helpText  = " ? Help "
	errorText = " ! Error "
	separator = " · "
)

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

// Info describes what the preview is currently showing.
type Info struct {
	File   string
	Theme  string
	Syntax string
	Format string
	Size   int64
}

// Note joins the non-empty fields of i for display.
func (i Info) Note() string {
	parts := []string{}
	for _, p := range []string{i.File, i.Theme, i.Syntax, i.Format} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if i.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(i.Size))) //nolint:gosec // Checked above.
	}

	return strings.Join(parts, separator)
}

type Renderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

type Opt func(*Renderer)

// WithMessage shows message in place of the note.
func WithMessage(message string) Opt {
	return func(r *Renderer) {
		r.style = StyleSuccess
		r.message = message
	}
}

// WithError shows message in place of the note, styled as an error.
func WithError(message string) Opt {
	return func(r *Renderer) {
		r.style = StyleError
		r.message = message
	}
}

func NewRenderer(t *theme.Theme, width int, opts ...Opt) *Renderer {
	r := &Renderer{theme: t, width: width}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render returns the status bar for info, with the scroll position as a
// percentage.
func (r *Renderer) Render(info Info, scrollPercent float64) string {
	logo := r.logo()
	pos := r.position(scrollPercent)
	help := r.help()

	avail := max(0, r.width-
		ansi.PrintableRuneWidth(logo)-
		ansi.PrintableRuneWidth(pos)-
		ansi.PrintableRuneWidth(help))

	note := r.note(info.Note(), avail)
	padding := max(0, avail-ansi.PrintableRuneWidth(note))
	fill := r.noteStyle().Render(strings.Repeat(" ", padding))

	return logo + note + fill + pos + help
}

func (r *Renderer) logo() string {
	return r.theme.LogoStyle.Render(fmt.Sprintf(" quellcode %s ", version.GetVersion()))
}

func (r *Renderer) position(scrollPercent float64) string {
	percent := math.Max(0, math.Min(1, scrollPercent))

	return r.theme.StatusBarPosStyle.Render(fmt.Sprintf(" %3.f%% ", percent*100))
}

func (r *Renderer) help() string {
	if r.style == StyleError {
		return r.theme.ErrorTitleStyle.Render(errorText)
	}

	return r.theme.HelpStyle.Render(helpText)
}

func (r *Renderer) note(note string, width int) string {
	if r.message != "" {
		note = r.message
	}

	note = strings.TrimSpace(strings.ReplaceAll(note, "\n", " "))
	note = truncate.StringWithTail(" "+note+" ", uint(width), r.theme.Ellipsis) //nolint:gosec // Uses max.

	return r.noteStyle().Render(note)
}

func (r *Renderer) noteStyle() lipgloss.Style {
	switch r.style {
	case StyleError:
		return r.theme.StatusBarStyle.Foreground(r.theme.ErrorTextStyle.GetForeground())
	case StyleSuccess:
		return r.theme.StatusBarStyle.Foreground(r.theme.SuccessStyle.GetForeground())
	}

	return r.theme.StatusBarNoteStyle
}
