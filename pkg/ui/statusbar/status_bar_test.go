package statusbar_test

import (
	"testing"

	"github.com/muesli/reflow/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/quellcode/quellcode/pkg/ui/statusbar"
	"github.com/quellcode/quellcode/pkg/ui/theme"
)

func TestInfo_Note(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info statusbar.Info
		want string
	}{
		"empty": {
			want: "",
		},
		"all fields": {
			info: statusbar.Info{File: "main.go", Theme: "dracula", Syntax: "Go", Format: "svg", Size: 1200},
			want: "main.go · dracula · Go · svg · 1.2 kB",
		},
		"skips empty": {
			info: statusbar.Info{File: "main.go", Syntax: "Go"},
			want: "main.go · Go",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.info.Note())
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	info := statusbar.Info{File: "main.go", Theme: "dracula", Syntax: "Go"}

	tcs := map[string]struct {
		opts          []statusbar.Opt
		contains      []string
		notContains   []string
		scrollPercent float64
	}{
		"normal": {
			scrollPercent: 0.5,
			contains:      []string{"quellcode", "main.go · dracula · Go", "50%", "? Help"},
		},
		"message": {
			opts:          []statusbar.Opt{statusbar.WithMessage("Copied output")},
			scrollPercent: 0.75,
			contains:      []string{"Copied output", "75%", "? Help"},
			notContains:   []string{"main.go"},
		},
		"error": {
			opts:        []statusbar.Opt{statusbar.WithError("render failed\nbad lexer")},
			contains:    []string{"render failed bad lexer", "! Error"},
			notContains: []string{"? Help"},
		},
		"clamps percent": {
			scrollPercent: 3,
			contains:      []string{"100%"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := statusbar.NewRenderer(theme.Default, 120, tc.opts...).Render(info, tc.scrollPercent)
			for _, s := range tc.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, got, s)
			}

			assert.Equal(t, 120, ansi.PrintableRuneWidth(got))
		})
	}
}

func TestRenderer_RenderTruncates(t *testing.T) {
	t.Parallel()

	info := statusbar.Info{File: "a-very-long-file-name-that-will-not-fit.go"}

	got := statusbar.NewRenderer(theme.Default, 50).Render(info, 0)
	assert.Contains(t, got, theme.Default.Ellipsis)
	assert.LessOrEqual(t, ansi.PrintableRuneWidth(got), 50)
}
