package state_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellcode/quellcode/pkg/state"
	"github.com/quellcode/quellcode/pkg/validate"
	"github.com/quellcode/quellcode/pkg/yaml"
)

func TestNewAppState(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		themes   []string
		syntaxes []string
	}{
		"nil":        {},
		"empty":      {themes: []string{}, syntaxes: []string{}},
		"populated":  {themes: []string{"dark", "light"}, syntaxes: []string{"rust", "go"}},
		"duplicates": {themes: []string{"dark", "dark"}, syntaxes: []string{"go"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := state.NewAppState(tc.themes, tc.syntaxes)
			require.NotNil(t, a.Themes)
			require.NotNil(t, a.Syntaxes)
			assert.Len(t, a.Themes, len(tc.themes))
			assert.Len(t, a.Syntaxes, len(tc.syntaxes))
			require.NoError(t, a.Validate())

			for i := range tc.themes {
				assert.Equal(t, tc.themes[i], a.Themes[i])
			}
		})
	}
}

func TestNewAppState_Copies(t *testing.T) {
	t.Parallel()

	themes := []string{"dark"}
	a := state.NewAppState(themes, nil)
	themes[0] = "light"

	assert.Equal(t, []string{"dark"}, a.Themes)

	b := a.Clone()
	b.Themes[0] = "mono"
	assert.Equal(t, []string{"dark"}, a.Themes)
}

func TestSettingsPageState_Transitions(t *testing.T) {
	t.Parallel()

	type step struct {
		op      func(*state.SettingsPageState)
		visible bool
		visited bool
	}

	show := (*state.SettingsPageState).Show
	hide := (*state.SettingsPageState).Hide
	toggle := (*state.SettingsPageState).Toggle

	tcs := map[string]struct {
		steps []step
	}{
		"show then hide": {
			steps: []step{
				{op: show, visible: true, visited: true},
				{op: hide, visible: false, visited: true},
			},
		},
		"hide before show": {
			steps: []step{
				{op: hide, visible: false, visited: false},
			},
		},
		"toggle": {
			steps: []step{
				{op: toggle, visible: true, visited: true},
				{op: toggle, visible: false, visited: true},
				{op: toggle, visible: true, visited: true},
			},
		},
		"repeated show": {
			steps: []step{
				{op: show, visible: true, visited: true},
				{op: show, visible: true, visited: true},
				{op: hide, visible: false, visited: true},
				{op: hide, visible: false, visited: true},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := state.NewSettingsPageState(state.NewAppState(nil, nil))
			assert.False(t, s.Visible)
			assert.False(t, s.Visited)

			for i, st := range tc.steps {
				st.op(&s)
				assert.Equal(t, st.visible, s.Visible, "step %d visible", i)
				assert.Equal(t, st.visited, s.Visited, "step %d visited", i)
			}
		})
	}
}

func TestSettingsPageState_OwnsApp(t *testing.T) {
	t.Parallel()

	app := state.NewAppState([]string{"dark"}, []string{"go"})
	s := state.NewSettingsPageState(app)
	app.Themes[0] = "light"
	assert.Equal(t, []string{"dark"}, s.App.Themes)

	s.Show()
	s.SetApp(state.NewAppState([]string{"mono"}, nil))
	assert.Equal(t, []string{"mono"}, s.App.Themes)
	assert.True(t, s.Visible)
	assert.True(t, s.Visited)

	c := s.Clone()
	c.App.Themes[0] = "x"
	assert.Equal(t, []string{"mono"}, s.App.Themes)
	assert.False(t, c.Equal(s))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	base := state.SettingsPageState{
		App:     state.NewAppState([]string{"dark", "light"}, []string{"rust", "go"}),
		Visible: true,
	}

	tcs := map[string]struct {
		other state.SettingsPageState
		want  bool
	}{
		"same": {
			other: base.Clone(),
			want:  true,
		},
		"order matters": {
			other: state.SettingsPageState{
				App:     state.NewAppState([]string{"light", "dark"}, []string{"rust", "go"}),
				Visible: true,
			},
		},
		"visited differs": {
			other: state.SettingsPageState{App: base.App.Clone(), Visible: true, Visited: true},
		},
		"visible differs": {
			other: state.SettingsPageState{App: base.App.Clone()},
		},
		"syntaxes differ": {
			other: state.SettingsPageState{
				App:     state.NewAppState([]string{"dark", "light"}, []string{"rust"}),
				Visible: true,
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, base.Equal(tc.other))
			assert.Equal(t, tc.want, tc.other.Equal(base))
		})
	}
}

func TestEqual_NilAndEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, state.AppState{}.Equal(state.NewAppState(nil, nil)))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input state.SettingsPageState
		err   string
	}{
		"empty lists": {
			input: state.SettingsPageState{App: state.AppState{Themes: []string{}, Syntaxes: []string{}}},
		},
		"constructed": {
			input: state.NewSettingsPageState(state.NewAppState(nil, nil)),
		},
		"nil themes": {
			input: state.SettingsPageState{App: state.AppState{Syntaxes: []string{}}},
			err:   "app.themes: must be set",
		},
		"nil syntaxes": {
			input: state.SettingsPageState{App: state.AppState{Themes: []string{}}},
			err:   "app.syntaxes: must be set",
		},
		"element contents unchecked": {
			input: state.NewSettingsPageState(state.NewAppState([]string{""}, []string{" "})),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.input.Validate()
			if tc.err == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, validate.ErrInvalid)
			assert.ErrorContains(t, err, tc.err)
		})
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  state.SettingsPageState
	}{
		"full": {
			input: `{"app":{"themes":["dark","light"],"syntaxes":["rust","go"]},"visible":true,"visited":false}`,
			want: state.SettingsPageState{
				App:     state.NewAppState([]string{"dark", "light"}, []string{"rust", "go"}),
				Visible: true,
			},
		},
		"nulls": {
			input: `{"app":{"themes":null,"syntaxes":null}}`,
			want:  state.NewSettingsPageState(state.NewAppState(nil, nil)),
		},
		"missing app": {
			input: `{"visited":true}`,
			want:  state.SettingsPageState{App: state.NewAppState(nil, nil), Visited: true},
		},
		"empty object": {
			input: `{}`,
			want:  state.NewSettingsPageState(state.NewAppState(nil, nil)),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got state.SettingsPageState
			require.NoError(t, json.Unmarshal([]byte(tc.input), &got))
			assert.True(t, tc.want.Equal(got), "got %+v", got)
			require.NotNil(t, got.App.Themes)
			require.NotNil(t, got.App.Syntaxes)
			require.NoError(t, got.Validate())

			out, err := json.Marshal(got)
			require.NoError(t, err)

			var again state.SettingsPageState
			require.NoError(t, json.Unmarshal(out, &again))
			assert.True(t, got.Equal(again))
		})
	}
}

func TestJSON_EmptyListsEncodeAsArrays(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(state.SettingsPageState{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"app":{"themes":[],"syntaxes":[]},"visible":false,"visited":false}`, string(out))

	out, err = json.Marshal(&state.AppState{Themes: []string{"a"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"themes":["a"],"syntaxes":[]}`, string(out))
}

func TestJSON_Invalid(t *testing.T) {
	t.Parallel()

	var s state.SettingsPageState
	require.Error(t, json.Unmarshal([]byte(`{"app":{"themes":"dark"}}`), &s))
}

func TestYAML(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  state.SettingsPageState
	}{
		"full": {
			input: "app:\n  themes: [dark, light]\n  syntaxes: [rust, go]\nvisible: true\nvisited: false\n",
			want: state.SettingsPageState{
				App:     state.NewAppState([]string{"dark", "light"}, []string{"rust", "go"}),
				Visible: true,
			},
		},
		"empty lists": {
			input: "app:\n  themes: []\n  syntaxes: []\n",
			want:  state.NewSettingsPageState(state.NewAppState(nil, nil)),
		},
		"nulls": {
			input: "app:\n  themes: null\n  syntaxes:\nvisited: true\n",
			want:  state.SettingsPageState{App: state.NewAppState(nil, nil), Visited: true},
		},
		"missing app": {
			input: "visible: false\n",
			want:  state.NewSettingsPageState(state.NewAppState(nil, nil)),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got state.SettingsPageState
			require.NoError(t, yaml.Unmarshal([]byte(tc.input), &got))
			assert.True(t, tc.want.Equal(got), "got %+v", got)
			require.NotNil(t, got.App.Themes)
			require.NotNil(t, got.App.Syntaxes)

			out, err := yaml.Marshal(got)
			require.NoError(t, err)

			var again state.SettingsPageState
			require.NoError(t, yaml.Unmarshal(out, &again))
			assert.True(t, got.Equal(again), "yaml:\n%s", out)
		})
	}
}

func TestYAML_EmptyListsEncodeAsArrays(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(state.SettingsPageState{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "themes: []")
	assert.Contains(t, string(out), "syntaxes: []")
	assert.NotContains(t, string(out), "null")
}
