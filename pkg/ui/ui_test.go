package ui_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellcode/quellcode/pkg/generator"
	"github.com/quellcode/quellcode/pkg/state"
	"github.com/quellcode/quellcode/pkg/ui"
	"github.com/quellcode/quellcode/pkg/ui/settings"
	"github.com/quellcode/quellcode/pkg/uitest"
)

const (
	waitTime  = 3 * time.Second
	goSnippet = "package main\n\nfunc main() {}\n"
)

func testConfig() *ui.Config {
	cfg := ui.NewConfig()
	noDelay := time.Duration(0)
	cfg.MinimumDelay = &noDelay

	return cfg
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func start(t *testing.T, code ui.Code, opts ...ui.Opt) *teatest.TestModel {
	t.Helper()

	m, err := ui.NewModel(testConfig(), code, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, m.Close()) })

	return teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(uitest.CompactWidth, uitest.CompactHeight))
}

func waitForText(t *testing.T, tm *teatest.TestModel, texts ...string) {
	t.Helper()

	uitest.WaitFor(t, tm.Output(), func(b []byte) bool {
		for _, s := range texts {
			if !bytes.Contains(b, []byte(s)) {
				return false
			}
		}

		return true
	}, uitest.WithDuration(waitTime))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_RendersFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goSnippet)
	tm := start(t, ui.Code{Path: path, Theme: "monokai", Format: "svg"})

	waitForText(t, tm, "func main()", "main.go", "monokai", "Go", "svg")

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(waitTime))
}

func TestModel_Sample(t *testing.T) {
	t.Parallel()

	tm := start(t, ui.Code{})

	waitForText(t, tm, "Greeter", "sample.go", "dracula")

	require.NoError(t, tm.Quit())
}

func TestModel_MissingFile(t *testing.T) {
	t.Parallel()

	tm := start(t, ui.Code{Path: filepath.Join(t.TempDir(), "missing.go")})

	waitForText(t, tm, "ERROR", "missing.go")

	require.NoError(t, tm.Quit())
}

func TestModel_Help(t *testing.T) {
	t.Parallel()

	tm := start(t, ui.Code{})
	waitForText(t, tm, "Greeter")

	tm.Send(runes("?"))
	waitForText(t, tm, "copy output", "write output", "go to top")

	require.NoError(t, tm.Quit())
}

func TestModel_Copy(t *testing.T) {
	t.Parallel()

	copied := make(chan string, 1)
	fake := func(s string) error {
		copied <- s
		return nil
	}

	path := writeFile(t, "main.go", goSnippet)
	tm := start(t, ui.Code{Path: path, Format: "html"}, ui.WithClipboard(fake))
	waitForText(t, tm, "func main()")

	tm.Send(runes("c"))
	waitForText(t, tm, "copied html output")

	select {
	case got := <-copied:
		assert.Contains(t, got, "<pre")
		assert.Contains(t, got, "main")
	case <-time.After(waitTime):
		t.Fatal("nothing copied")
	}

	require.NoError(t, tm.Quit())
}

func TestModel_Write(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goSnippet)
	tm := start(t, ui.Code{Path: path, Format: "svg"})
	waitForText(t, tm, "func main()")

	tm.Send(runes("w"))
	waitForText(t, tm, "wrote main.go.svg")

	data, err := os.ReadFile(path + ".svg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	require.NoError(t, tm.Quit())
}

func TestModel_WriteOptions(t *testing.T) {
	t.Parallel()

	custom := generator.DefaultOptions()
	custom.FontFamily = "Fira Code"
	custom.FontSize = 20

	tcs := map[string]struct {
		opts generator.Options
		want []string
	}{
		"unset uses defaults": {
			want: []string{`font-family="Monospace"`, `font-size="12px"`},
		},
		"configured": {
			opts: custom,
			want: []string{`font-family="Fira Code"`, `font-size="20px"`},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "main.go", goSnippet)
			tm := start(t, ui.Code{Path: path, Format: "svg", Options: tc.opts})
			waitForText(t, tm, "func main()")

			tm.Send(runes("w"))
			waitForText(t, tm, "wrote main.go.svg")

			data, err := os.ReadFile(path + ".svg")
			require.NoError(t, err)

			for _, w := range tc.want {
				assert.Contains(t, string(data), w)
			}

			require.NoError(t, tm.Quit())
		})
	}
}

func TestModel_Settings(t *testing.T) {
	t.Parallel()

	store := state.NewStore(state.SettingsPageState{})
	tm := start(t, ui.Code{}, ui.WithStore(store))
	waitForText(t, tm, "Greeter")

	assert.False(t, store.Load().Visited)
	assert.NotEmpty(t, store.Load().App.Themes)
	assert.NotEmpty(t, store.Load().App.Syntaxes)

	tm.Send(runes(","))
	waitForText(t, tm, "Settings", "Theme", "Syntax")

	assert.Eventually(t, func() bool {
		s := store.Load()
		return s.Visible && s.Visited
	}, waitTime, 10*time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Eventually(t, func() bool {
		s := store.Load()
		return !s.Visible && s.Visited
	}, waitTime, 10*time.Millisecond)

	require.NoError(t, tm.Quit())
}

func TestModel_ApplySettings(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goSnippet)
	tm := start(t, ui.Code{Path: path})
	waitForText(t, tm, "func main()", "dracula")

	tm.Send(settings.ApplyMsg{Theme: "github", Syntax: "Python"})
	waitForText(t, tm, "using github · Python")

	require.NoError(t, tm.Quit())
}

func TestModel_Watch(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "main.go", goSnippet)
	tm := start(t, ui.Code{Path: path}, ui.WithWatch(true))
	waitForText(t, tm, "func main()")

	require.NoError(t, os.WriteFile(path, []byte("package changed\n"), 0o600))
	waitForText(t, tm, "changed")

	require.NoError(t, tm.Quit())
}

func TestNewModel_WatchMissingDir(t *testing.T) {
	t.Parallel()

	_, err := ui.NewModel(testConfig(), ui.Code{Path: "/does/not/exist/main.go"}, ui.WithWatch(true))
	require.ErrorIs(t, err, ui.ErrWatch)
}
