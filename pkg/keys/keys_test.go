package keys_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/muesli/reflow/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellcode/quellcode/pkg/keys"
)

func bind(desc string, ks ...keys.Key) *keys.Bind {
	b := keys.NewBind(desc, ks...)
	return &b
}

func TestKey_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "q", keys.New("q").String())
	assert.Equal(t, "↑", keys.New("up", keys.WithAlias("↑")).String())
	assert.True(t, keys.New("k", keys.Hidden()).Hidden)
}

func TestBind_String(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		bind *keys.Bind
		want string
	}{
		"nil":    {bind: nil, want: ""},
		"single": {bind: bind("quit", keys.New("q")), want: "q"},
		"many": {
			bind: bind("up", keys.New("up", keys.WithAlias("↑")), keys.New("k"), keys.New("ctrl+p", keys.Hidden())),
			want: "↑/k",
		},
		"all hidden": {bind: bind("x", keys.New("x", keys.Hidden())), want: ""},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.bind.String())
		})
	}
}

func TestBind_Match(t *testing.T) {
	t.Parallel()

	b := bind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden()))

	assert.True(t, b.Match("q"))
	assert.True(t, b.Match("ctrl+c"))
	assert.False(t, b.Match("Q"))
	assert.True(t, b.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, b.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))
	assert.False(t, (*keys.Bind)(nil).Match("q"))
	assert.Equal(t, "q", b.First())
}

func TestBind_Binding(t *testing.T) {
	t.Parallel()

	b := bind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden()))
	kb := b.Binding()

	assert.True(t, kb.Enabled())
	assert.Equal(t, []string{"q", "ctrl+c"}, kb.Keys())
	assert.Equal(t, "q", kb.Help().Key)
	assert.Equal(t, "quit", kb.Help().Desc)
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, kb))

	var unset *keys.Bind
	assert.False(t, unset.Binding().Enabled())
}

func TestSetDefault(t *testing.T) {
	t.Parallel()

	def := keys.NewBind("quit", keys.New("q"))

	tcs := map[string]struct {
		bind *keys.Bind
		want keys.Bind
	}{
		"nil": {
			want: def,
		},
		"empty keys": {
			bind: &keys.Bind{Description: "leave"},
			want: keys.NewBind("leave", keys.New("q")),
		},
		"empty description": {
			bind: &keys.Bind{Keys: []keys.Key{keys.New("x")}},
			want: keys.NewBind("quit", keys.New("x")),
		},
		"complete": {
			bind: bind("exit", keys.New("x")),
			want: keys.NewBind("exit", keys.New("x")),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := tc.bind
			keys.SetDefault(&b, def)
			require.NotNil(t, b)
			assert.Equal(t, tc.want, *b)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		groups [][]*keys.Bind
		errs   []string
	}{
		"unique": {
			groups: [][]*keys.Bind{
				{bind("quit", keys.New("q")), bind("help", keys.New("?"))},
				{bind("copy", keys.New("c"))},
			},
		},
		"nil binds ignored": {
			groups: [][]*keys.Bind{{nil, bind("quit", keys.New("q"))}},
		},
		"within group": {
			groups: [][]*keys.Bind{{bind("quit", keys.New("q")), bind("copy", keys.New("q"))}},
			errs:   []string{`"q" used by "quit" and "copy"`},
		},
		"across groups": {
			groups: [][]*keys.Bind{
				{bind("quit", keys.New("q"), keys.New("esc"))},
				{bind("close", keys.New("esc")), bind("reload", keys.New("q"))},
			},
			errs: []string{`"esc" used by "quit" and "close"`, `"q" used by "quit" and "reload"`},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := keys.Validate(tc.groups...)
			if tc.errs == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, keys.ErrDuplicateKey)
			for _, e := range tc.errs {
				assert.ErrorContains(t, err, e)
			}
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	var r keys.Renderer
	assert.Empty(t, r.Render(80))

	r.AddColumn(
		bind("scroll up", keys.New("up", keys.WithAlias("↑")), keys.New("k")),
		bind("scroll down", keys.New("down", keys.WithAlias("↓")), keys.New("j")),
	)
	r.AddColumn(
		bind("settings", keys.New(",")),
		bind("hidden", keys.New("x", keys.Hidden())),
	)
	r.AddColumn()

	out := r.Render(60)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "↑/k  scroll up")
	assert.Contains(t, lines[0], ",  settings")
	assert.Contains(t, lines[1], "↓/j  scroll down")
	assert.NotContains(t, out, "hidden")

	for _, l := range lines {
		assert.LessOrEqual(t, ansi.PrintableRuneWidth(l), 60)
	}
}

func TestRenderer_Truncates(t *testing.T) {
	t.Parallel()

	var r keys.Renderer
	r.AddColumn(bind("a very long description that will not fit", keys.New("q")))

	out := r.Render(20)
	assert.Contains(t, out, keys.Ellipsis)
	assert.LessOrEqual(t, ansi.PrintableRuneWidth(out), 20)
}

func TestRenderer_NoWidth(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		width int
	}{
		"zero":     {width: 0},
		"negative": {width: -10},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var r keys.Renderer
			r.AddColumn(bind("a very long description that will not fit", keys.New("q")))
			r.AddColumn(bind("foo", keys.New("f")))

			out := r.Render(tc.width)
			assert.Contains(t, out, "q  a very long description that will not fit")
			assert.Contains(t, out, "f  foo")
			assert.NotContains(t, out, keys.Ellipsis)
		})
	}
}
