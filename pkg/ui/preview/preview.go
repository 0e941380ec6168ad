// Package preview shows highlighted code in a scrollable viewport.
package preview

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/cellbuf"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellcode/quellcode/pkg/keys"
)

// KeyBinds are the scrolling keys the preview handles.
type KeyBinds struct {
	Up       *keys.Bind
	Down     *keys.Bind
	PageUp   *keys.Bind
	PageDown *keys.Bind
	Home     *keys.Bind
	End      *keys.Bind
}

type Model struct {
	kb       KeyBinds
	content  string
	viewport viewport.Model
	wordWrap bool
}

func New(kb KeyBinds, wordWrap bool) Model {
	vp := viewport.New(0, 0)
	// Scrolling only follows the configured key binds.
	vp.KeyMap = viewport.KeyMap{}
	vp.MouseWheelEnabled = true

	return Model{kb: kb, viewport: vp, wordWrap: wordWrap}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case m.kb.Up.Matches(msg):
			m.viewport.ScrollUp(1)
		case m.kb.Down.Matches(msg):
			m.viewport.ScrollDown(1)
		case m.kb.PageUp.Matches(msg):
			m.viewport.PageUp()
		case m.kb.PageDown.Matches(msg):
			m.viewport.PageDown()
		case m.kb.Home.Matches(msg):
			m.viewport.GotoTop()
		case m.kb.End.Matches(msg):
			m.viewport.GotoBottom()
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// SetContent replaces the shown text, keeping the scroll position where
// possible.
func (m *Model) SetContent(s string) {
	m.content = s
	m.refresh()
}

// Content returns the text last passed to [Model.SetContent].
func (m Model) Content() string {
	return m.content
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = max(0, width)
	m.viewport.Height = max(0, height)
	m.refresh()
}

func (m *Model) SetWordWrap(wrap bool) {
	m.wordWrap = wrap
	m.refresh()
}

func (m Model) ScrollPercent() float64 {
	return m.viewport.ScrollPercent()
}

func (m Model) YOffset() int {
	return m.viewport.YOffset
}

func (m *Model) refresh() {
	s := m.content
	if m.wordWrap && m.viewport.Width > 0 {
		s = cellbuf.Wrap(s, m.viewport.Width, "")
	}

	m.viewport.SetContent(s)

	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}
}
