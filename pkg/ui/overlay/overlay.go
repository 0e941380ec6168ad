// Package overlay draws one rendered block centred on top of another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/reflow/truncate"

	"github.com/quellcode/quellcode/pkg/ui/theme"
)

const (
	defaultMinWidth = 16
	// Rows kept free above and below the overlay.
	defaultMargin = 4

	truncatedText = "content truncated"
)

type Overlay struct {
	theme *theme.Theme

	width, height int
	minWidth      int
	margin        int
}

type Opt func(*Overlay)

// WithMinWidth sets the minimum overlay width in cells.
func WithMinWidth(minWidth int) Opt {
	return func(o *Overlay) {
		o.minWidth = max(0, minWidth)
	}
}

// WithMargin sets the rows kept free above and below the overlay.
func WithMargin(rows int) Opt {
	return func(o *Overlay) {
		o.margin = max(0, rows)
	}
}

func New(t *theme.Theme, opts ...Opt) *Overlay {
	o := &Overlay{
		theme:    t,
		minWidth: defaultMinWidth,
		margin:   defaultMargin,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// SetSize sets the size of the view the overlay is placed on.
func (o *Overlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Place renders fg with style at widthFraction of the view width and draws
// it centred over bg. Content taller than the view is cut with a note.
func (o *Overlay) Place(bg, fg string, widthFraction float64, style lipgloss.Style) string {
	w := clamp(int(float64(o.width)*widthFraction), o.minWidth, o.width)
	inner := max(0, w-style.GetHorizontalFrameSize())

	fg = o.fit(cellbuf.Wrap(fg, inner, " /-"), inner, style)
	fg = style.Width(w - style.GetHorizontalBorderSize()).Render(fg)

	fgLines, fgWidth := lines(fg)
	bgLines, bgWidth := lines(bg)

	x := clamp(bgWidth-fgWidth, 0, bgWidth) / 2
	y := clamp(len(bgLines)-len(fgLines), 0, len(bgLines)) / 2

	var sb strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			sb.WriteByte('\n')
		}

		if i < y || i >= y+len(fgLines) {
			sb.WriteString(bgLine)
			continue
		}

		sb.WriteString(splice(bgLine, fgLines[i-y], x))
	}

	return sb.String()
}

// fit trims content so the framed overlay leaves the margin free.
func (o *Overlay) fit(content string, width int, style lipgloss.Style) string {
	maxRows := o.height - 2*o.margin - style.GetVerticalFrameSize()
	if maxRows < 1 {
		return ""
	}

	rows := strings.Split(content, "\n")
	if len(rows) <= maxRows {
		return content
	}

	note := truncate.StringWithTail(truncatedText, uint(width), o.theme.Ellipsis) //nolint:gosec // Non-negative.
	rows = append(rows[:max(0, maxRows-2)], "", o.theme.SubtleStyle.Render(note))

	return strings.Join(rows, "\n")
}

// splice overwrites bg from cell x with fg, padding bg when it is short.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if gap := x - ansi.StringWidth(left); gap > 0 {
		left += strings.Repeat(" ", gap)
	}

	right := ansi.TruncateLeft(bg, x+ansi.StringWidth(fg), "")

	return left + fg + right
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}

// lines splits s into lines and returns the widest line's width.
func lines(s string) ([]string, int) {
	ls := strings.Split(s, "\n")
	widest := 0
	for _, l := range ls {
		widest = max(widest, ansi.StringWidth(l))
	}

	return ls, widest
}
