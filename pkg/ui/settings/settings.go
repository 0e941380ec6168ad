// Package settings implements the theme and syntax picker panel.
//
// The panel owns a [state.SettingsPageState]. Opening the panel calls
// [state.SettingsPageState.Show] and closing it calls
// [state.SettingsPageState.Hide]; nothing else changes the flags.
package settings

import (
	"log/slog"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellcode/quellcode/pkg/keys"
	"github.com/quellcode/quellcode/pkg/state"
	"github.com/quellcode/quellcode/pkg/ui/theme"
)

const (
	themeKey  = "theme"
	syntaxKey = "syntax"

	title    = "Settings"
	hintText = "Type / to filter, tab to switch list, enter to pick."

	maxListHeight = 10
	minListHeight = 3
)

// ApplyMsg is sent when the user confirms a selection. Empty fields mean
// no choice was available.
type ApplyMsg struct {
	Theme  string
	Syntax string
}

// ClosedMsg is sent when the panel is dismissed without applying.
type ClosedMsg struct{}

type Config struct {
	Theme  *theme.Theme
	Escape *keys.Bind
	Apply  *keys.Bind
}

type Model struct {
	form      *huh.Form
	theme     *theme.Theme
	escape    *keys.Bind
	apply     *keys.Bind
	selection *selection
	page      state.SettingsPageState
	width     int
	height    int
	// firstOpen is set while the panel shows for the first time.
	firstOpen bool
}

type selection struct {
	theme  string
	syntax string
}

// New returns a hidden panel listing the names in app.
func New(cfg Config, app state.AppState) Model {
	t := cfg.Theme
	if t == nil {
		t = theme.Default
	}

	return Model{
		theme:     t,
		escape:    cfg.Escape,
		apply:     cfg.Apply,
		selection: &selection{},
		page:      state.NewSettingsPageState(app),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Open shows the panel with the given names preselected.
func (m *Model) Open(themeName, syntaxName string) tea.Cmd {
	m.firstOpen = !m.page.Visited
	m.page.Show()

	m.selection = &selection{theme: themeName, syntax: syntaxName}
	m.form = m.newForm()

	slog.Debug("open settings",
		slog.Bool("first", m.firstOpen),
		slog.Int("themes", len(m.page.App.Themes)),
		slog.Int("syntaxes", len(m.page.App.Syntaxes)),
	)

	return m.form.Init()
}

// Close hides the panel.
func (m *Model) Close() {
	m.page.Hide()
	m.firstOpen = false
}

func (m Model) Visible() bool {
	return m.page.Visible
}

// State returns a copy of the panel state.
func (m Model) State() state.SettingsPageState {
	return m.page.Clone()
}

// SetApp replaces the listed names. An open panel keeps its current form
// until it is reopened.
func (m *Model) SetApp(app state.AppState) {
	m.page.SetApp(app)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	if m.form != nil {
		m.form = m.form.WithWidth(width).WithHeight(height)
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.page.Visible || m.form == nil {
		return m, nil
	}

	// The selects write the highlighted option to the selection as the
	// cursor moves, so it holds the current choice before submission.
	if msg, ok := msg.(tea.KeyMsg); ok && m.apply.Matches(msg) {
		return m.finish(m.selection.theme, m.selection.syntax)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.finish(m.selection.theme, m.selection.syntax)

	case huh.StateAborted:
		m.Close()

		return m, func() tea.Msg { return ClosedMsg{} }

	case huh.StateNormal:
	}

	return m, cmd
}

func (m Model) View() string {
	if !m.page.Visible || m.form == nil {
		return ""
	}

	parts := []string{m.theme.SelectedStyle.Bold(true).Render(title)}
	if m.firstOpen {
		parts = append(parts, m.theme.HintStyle.Render(hintText))
	}

	parts = append(parts, "", m.form.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) finish(themeName, syntaxName string) (Model, tea.Cmd) {
	m.Close()

	msg := ApplyMsg{Theme: themeName, Syntax: syntaxName}

	return m, func() tea.Msg { return msg }
}

func (m Model) newForm() *huh.Form {
	th := huh.NewSelect[string]().
		Key(themeKey).
		Title("Theme").
		Options(huh.NewOptions(m.page.App.Themes...)...).
		Height(m.listHeight()).
		Value(&m.selection.theme)

	sy := huh.NewSelect[string]().
		Key(syntaxKey).
		Title("Syntax").
		Options(huh.NewOptions(m.page.App.Syntaxes...)...).
		Height(m.listHeight()).
		Value(&m.selection.syntax)

	km := huh.NewDefaultKeyMap()
	km.Quit = m.escape.Binding()

	f := huh.NewForm(huh.NewGroup(th, sy)).
		WithShowHelp(false).
		WithTheme(m.theme.Huh()).
		WithKeyMap(km)

	// The parent program stays running when the form finishes.
	f.SubmitCmd = nil
	f.CancelCmd = nil

	if m.width > 0 {
		f = f.WithWidth(m.width)
	}
	if m.height > 0 {
		f = f.WithHeight(m.height)
	}

	return f
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return maxListHeight
	}

	// Two lists plus titles, hint and spacing.
	return min(maxListHeight, max(minListHeight, (m.height-6)/2))
}
