package theme_test

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellcode/quellcode/pkg/ui/theme"
)

func TestNew(t *testing.T) {
	t.Parallel()

	custom, err := chroma.NewStyle("test-theme", chroma.StyleEntries{
		chroma.Background: "#ffffff bg:#000000",
		chroma.NameTag:    "bold #ff79c6",
	})
	require.NoError(t, err)

	tcs := map[string]struct {
		style *chroma.Style
		want  *chroma.Style
	}{
		"builtin": {style: styles.Get("monokai"), want: styles.Get("monokai")},
		"custom":  {style: custom, want: custom},
		"nil":     {style: nil, want: styles.Fallback},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			th := theme.New(tc.style)
			require.NotNil(t, th)
			assert.Equal(t, tc.want, th.ChromaStyle)
			assert.Equal(t, theme.Ellipsis, th.Ellipsis)
		})
	}
}

func TestTheme_Styles(t *testing.T) {
	t.Parallel()

	th := theme.New(styles.Get("github"))

	tcs := map[string]lipgloss.Style{
		"text":            th.TextStyle,
		"subtle":          th.SubtleStyle,
		"selected":        th.SelectedStyle,
		"selected subtle": th.SelectedSubtleStyle,
		"logo":            th.LogoStyle,
		"hint":            th.HintStyle,
		"error title":     th.ErrorTitleStyle,
		"error text":      th.ErrorTextStyle,
		"success":         th.SuccessStyle,
		"overlay":         th.OverlayStyle,
		"help":            th.HelpStyle,
		"status bar":      th.StatusBarStyle,
		"status bar note": th.StatusBarNoteStyle,
		"status bar pos":  th.StatusBarPosStyle,
	}

	for name, style := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, style.Render("content"), "content")
		})
	}
}

func TestTheme_DifferentStyles(t *testing.T) {
	t.Parallel()

	lipgloss.SetColorProfile(termenv.TrueColor)

	light := theme.New(styles.Get(theme.LightStyle))
	dark := theme.New(styles.Get(theme.DarkStyle))

	assert.NotEqual(t, light.LogoStyle.Render("x"), dark.LogoStyle.Render("x"))
}

func TestResolveName(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want string
	}{
		"dark":  {in: "dark", want: theme.DarkStyle},
		"light": {in: "light", want: theme.LightStyle},
		"named": {in: "monokai", want: "monokai"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, theme.ResolveName(tc.in))
		})
	}

	assert.Contains(t, []string{theme.DarkStyle, theme.LightStyle}, theme.ResolveName("auto"))
}

func TestTheme_Huh(t *testing.T) {
	t.Parallel()

	h := theme.New(styles.Get("github")).Huh()
	require.NotNil(t, h)
	assert.Contains(t, h.Focused.Title.Render("Theme"), "Theme")
}
