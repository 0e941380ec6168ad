package overlay_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellcode/quellcode/pkg/ui/overlay"
	"github.com/quellcode/quellcode/pkg/ui/theme"
)

func background(width, height int) string {
	row := strings.Repeat(".", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}

	return strings.Join(rows, "\n")
}

func TestOverlay_Place(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		fg            string
		style         lipgloss.Style
		widthFraction float64
		width, height int
		wantFgRows    int
	}{
		"single line": {
			fg:            "hello",
			widthFraction: 0.5,
			width:         40,
			height:        20,
			wantFgRows:    1,
		},
		"bordered": {
			fg:            "hello",
			style:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
			widthFraction: 0.5,
			width:         40,
			height:        20,
			wantFgRows:    1,
		},
		"zero fraction uses min width": {
			fg:            "hello",
			widthFraction: 0,
			width:         40,
			height:        20,
			wantFgRows:    1,
		},
		"fraction above one is clamped": {
			fg:            "hello",
			widthFraction: 3,
			width:         40,
			height:        20,
			wantFgRows:    1,
		},
		"unicode": {
			fg:            "héllo 世界",
			widthFraction: 0.5,
			width:         40,
			height:        20,
			wantFgRows:    1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			o := overlay.New(theme.Default)
			o.SetSize(tc.width, tc.height)

			bg := background(tc.width, tc.height)
			got := o.Place(bg, tc.fg, tc.widthFraction, tc.style)

			rows := strings.Split(got, "\n")
			require.Len(t, rows, tc.height)

			for _, r := range rows {
				assert.Equal(t, tc.width, ansi.StringWidth(r))
			}

			assert.Contains(t, got, tc.fg)
		})
	}
}

func TestOverlay_PlaceCentres(t *testing.T) {
	t.Parallel()

	o := overlay.New(theme.Default, overlay.WithMinWidth(4), overlay.WithMargin(0))
	o.SetSize(10, 5)

	got := o.Place(background(10, 5), "ab", 0.4, lipgloss.NewStyle())
	rows := strings.Split(got, "\n")

	assert.Equal(t, "..........", rows[0])
	assert.Equal(t, "...ab  ...", rows[2])
}

func TestOverlay_PlaceTruncates(t *testing.T) {
	t.Parallel()

	o := overlay.New(theme.Default, overlay.WithMargin(1))
	o.SetSize(40, 10)

	fg := strings.Repeat("line\n", 30)
	got := o.Place(background(40, 10), fg, 0.5, lipgloss.NewStyle())

	assert.Contains(t, got, "content truncated")
	assert.Len(t, strings.Split(got, "\n"), 10)
}

func TestOverlay_PlaceTooSmall(t *testing.T) {
	t.Parallel()

	o := overlay.New(theme.Default)
	o.SetSize(40, 4)

	got := o.Place(background(40, 4), "hidden", 0.5, lipgloss.NewStyle())
	assert.NotContains(t, got, "hidden")
}

func TestOverlay_PlaceShortBackground(t *testing.T) {
	t.Parallel()

	o := overlay.New(theme.Default, overlay.WithMargin(0), overlay.WithMinWidth(2))
	o.SetSize(20, 3)

	got := o.Place("x\nx\nx", "ab", 0.1, lipgloss.NewStyle())
	assert.Contains(t, got, "ab")
}
