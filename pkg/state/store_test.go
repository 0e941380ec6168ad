package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellcode/quellcode/pkg/state"
)

func TestStore(t *testing.T) {
	t.Parallel()

	app := state.NewAppState([]string{"dracula"}, []string{"Go"})
	st := state.NewStore(state.NewSettingsPageState(app))

	got := st.Load()
	assert.False(t, got.Visible)
	assert.False(t, got.Visited)

	// Mutating a loaded copy must not change the store.
	got.App.Themes[0] = "changed"
	got.Show()
	assert.Equal(t, "dracula", st.Load().App.Themes[0])
	assert.False(t, st.Load().Visible)

	st.Save(got)
	assert.True(t, st.Load().Equal(got))

	got.App.Syntaxes[0] = "Rust"
	assert.Equal(t, "Go", st.Load().App.Syntaxes[0])
}

func TestStore_ZeroValue(t *testing.T) {
	t.Parallel()

	var st state.Store

	got := st.Load()
	require.NotNil(t, got.App.Themes)
	require.NotNil(t, got.App.Syntaxes)
	require.NoError(t, got.Validate())
}

func TestStore_Concurrent(t *testing.T) {
	t.Parallel()

	st := state.NewStore(state.NewSettingsPageState(state.AppState{}))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			s := st.Load()
			s.Toggle()
			st.Save(s)
		}()

		go func() {
			defer wg.Done()

			_ = st.Load()
		}()
	}

	wg.Wait()

	assert.True(t, st.Load().Visited)
}
