// Package ui provides the terminal application for previewing highlighted
// code and picking its theme and syntax.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellcode/quellcode/pkg/catalog"
	"github.com/quellcode/quellcode/pkg/generator"
	"github.com/quellcode/quellcode/pkg/keys"
	"github.com/quellcode/quellcode/pkg/state"
	"github.com/quellcode/quellcode/pkg/ui/overlay"
	"github.com/quellcode/quellcode/pkg/ui/preview"
	"github.com/quellcode/quellcode/pkg/ui/settings"
	"github.com/quellcode/quellcode/pkg/ui/statusbar"
	"github.com/quellcode/quellcode/pkg/ui/theme"
)

const (
	statusBarHeight = 1
	statusTimeout   = 3 * time.Second

	sampleName = "sample.go"
	sampleCode = `package main

import "fmt"

// Greeter says hello.
type Greeter struct {
	Name string
}

func (g Greeter) Greet() string {
	return fmt.Sprintf("Hello, %s!", g.Name)
}

func main() {
	fmt.Println(Greeter{Name: "quellcode"}.Greet())
}
`
)

var ErrWatch = errors.New("watch")

// Code selects what the preview shows and how output is generated.
type Code struct {
	// Path is the file to preview. Empty shows a built-in sample.
	Path   string
	Theme  string
	Syntax string
	// Format names the generator used to copy and write output.
	Format  string
	Options generator.Options
}

type Opt func(*Model)

// WithTheme sets the theme for the application chrome.
func WithTheme(t *theme.Theme) Opt {
	return func(m *Model) {
		m.theme = t
	}
}

func WithCatalog(c *catalog.Catalog) Opt {
	return func(m *Model) {
		m.cat = c
	}
}

func WithGenerators(r *generator.Registry) Opt {
	return func(m *Model) {
		m.gens = r
	}
}

// WithStore publishes the settings panel state to s after every update.
func WithStore(s *state.Store) Opt {
	return func(m *Model) {
		m.store = s
	}
}

// WithWatch reloads the file whenever it changes on disk.
func WithWatch(watch bool) Opt {
	return func(m *Model) {
		m.watch = watch
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Opt {
	return func(m *Model) {
		m.copyFn = fn
	}
}

type (
	loadedMsg struct {
		err error
		doc document
	}
	fileChangedMsg   struct{}
	watchErrMsg      struct{ err error } //nolint:errname // Tea message.
	statusTimeoutMsg struct{ id int }
)

type document struct {
	name   string
	code   string
	theme  string
	syntax string
	size   int64
}

type status struct {
	text  string
	style statusbar.Style
	id    int
}

// Model is the top-level application model.
type Model struct {
	loadStart time.Time
	err       error
	cfg       *Config
	theme     *theme.Theme
	cat       *catalog.Catalog
	gens      *generator.Registry
	store     *state.Store
	watcher   *fsnotify.Watcher
	copyFn    func(string) error
	overlay   *overlay.Overlay
	help      *statusbar.HelpRenderer
	settings  settings.Model
	preview   preview.Model
	spinner   spinner.Model
	code      Code
	doc       document
	status    status
	width     int
	height    int
	loading   bool
	showHelp  bool
	watch     bool
}

// NewModel returns the application model for code. Call [Model.Close] once
// the program exits.
func NewModel(cfg *Config, code Code, opts ...Opt) (*Model, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	cfg.EnsureDefaults()

	m := &Model{
		cfg:    cfg,
		code:   code,
		theme:  theme.Default,
		copyFn: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.cat == nil {
		m.cat = catalog.New()
	}
	if m.gens == nil {
		m.gens = generator.DefaultRegistry()
	}
	if m.code.Theme == "" {
		m.code.Theme = theme.DarkStyle
	}
	if m.code.Format == "" {
		m.code.Format = "ansi"
	}
	if m.code.Options == (generator.Options{}) {
		m.code.Options = generator.DefaultOptions()
	}

	kb := cfg.KeyBinds

	m.preview = preview.New(preview.KeyBinds{
		Up:       kb.Preview.Up,
		Down:     kb.Preview.Down,
		PageUp:   kb.Preview.PageUp,
		PageDown: kb.Preview.PageDown,
		Home:     kb.Preview.Home,
		End:      kb.Preview.End,
	}, *cfg.WordWrap)

	m.settings = settings.New(settings.Config{
		Theme:  m.theme,
		Escape: kb.Common.Escape,
		Apply:  kb.Settings.Apply,
	}, m.cat.AppState())

	kbr := &keys.Renderer{}
	kbr.AddColumn(kb.Common.Binds()...)
	kbr.AddColumn(kb.Preview.Up, kb.Preview.Down, kb.Preview.PageUp, kb.Preview.PageDown, kb.Preview.Home, kb.Preview.End)
	kbr.AddColumn(kb.Preview.Copy, kb.Preview.Write, kb.Preview.Reload)
	m.help = statusbar.NewHelpRenderer(m.theme, kbr)

	m.overlay = overlay.New(m.theme)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Line
	m.spinner.Style = m.theme.TextStyle

	if m.watch && m.code.Path != "" {
		if err := m.startWatch(); err != nil {
			return nil, err
		}
	}

	m.publish()

	return m, nil
}

// NewProgram returns a full screen program running m.
func NewProgram(m *Model, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting quellcode ui", slog.String("path", m.code.Path))

	return tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}

// Close stops watching the file.
func (m *Model) Close() error {
	if m.watcher == nil {
		return nil
	}

	if err := m.watcher.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrWatch, err)
	}

	return nil
}

// SettingsState returns a copy of the settings panel state.
func (m *Model) SettingsState() state.SettingsPageState {
	return m.settings.State()
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForChange())
	}

	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.publish()

	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case loadedMsg:
		return m.handleLoaded(msg)

	case fileChangedMsg:
		slog.Debug("file changed", slog.String("path", m.code.Path))

		return tea.Batch(m.load(), m.waitForChange())

	case watchErrMsg:
		m.err = msg.err

		return m.waitForChange()

	case settings.ApplyMsg:
		return m.apply(msg)

	case settings.ClosedMsg:
		return nil

	case statusTimeoutMsg:
		if msg.id == m.status.id {
			m.status = status{id: m.status.id}
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)

			return cmd
		}

		return nil
	}

	// Forms in the settings panel rely on their own messages.
	var cmd tea.Cmd
	if m.settings.Visible() {
		m.settings, cmd = m.settings.Update(msg)
	} else {
		m.preview, cmd = m.preview.Update(msg)
	}

	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if m.settings.Visible() {
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)

		return cmd
	}

	// Any key dismisses an error.
	m.err = nil

	kb := m.cfg.KeyBinds

	switch {
	case kb.Common.Quit.Matches(msg):
		return tea.Quit

	case kb.Common.Help.Matches(msg):
		m.showHelp = !m.showHelp
		m.resize()

	case kb.Common.Escape.Matches(msg):
		if m.showHelp {
			m.showHelp = false
			m.resize()
		}

	case kb.Common.Settings.Matches(msg):
		syntax := m.code.Syntax
		if syntax == "" {
			syntax = m.doc.syntax
		}

		return m.settings.Open(m.doc.theme, syntax)

	case kb.Preview.Copy.Matches(msg):
		return m.copyOutput()

	case kb.Preview.Write.Matches(msg):
		return m.writeOutput()

	case kb.Preview.Reload.Matches(msg):
		return m.load()

	default:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)

		return cmd
	}

	return nil
}

func (m *Model) handleLoaded(msg loadedMsg) tea.Cmd {
	if wait := m.minimumDelay() - time.Since(m.loadStart); wait > 0 {
		return tea.Tick(wait, func(time.Time) tea.Msg { return msg })
	}

	m.loading = false

	if msg.err != nil {
		m.err = msg.err
		return nil
	}

	m.doc = msg.doc
	m.render()

	return nil
}

func (m *Model) apply(msg settings.ApplyMsg) tea.Cmd {
	if msg.Theme != "" {
		m.code.Theme = msg.Theme
	}
	if msg.Syntax != "" {
		m.code.Syntax = msg.Syntax
	}

	slog.Debug("apply settings",
		slog.String("theme", m.code.Theme),
		slog.String("syntax", m.code.Syntax),
	)

	m.render()

	return m.setStatus("using "+m.doc.theme+" · "+m.doc.syntax, statusbar.StyleSuccess)
}

func (m *Model) View() string {
	s := lipgloss.JoinVertical(lipgloss.Left, m.preview.View(), m.statusBarView())
	if m.showHelp {
		s = lipgloss.JoinVertical(lipgloss.Left, s, m.help.Render(m.width))
	}

	switch {
	case m.settings.Visible():
		s = m.overlay.Place(s, m.settings.View(), 2.0/3.0, m.theme.OverlayStyle.Padding(1, 2))

	case m.err != nil:
		s = m.overlay.Place(s, m.errorView(), 2.0/3.0, m.theme.OverlayStyle.Padding(1))

	case m.loading:
		s = m.overlay.Place(s, m.spinner.View()+" Rendering...", 1.0/4.0,
			m.theme.OverlayStyle.Align(lipgloss.Center).Padding(1))
	}

	return strings.TrimRight(s, " \n")
}

func (m *Model) statusBarView() string {
	var opts []statusbar.Opt

	switch {
	case m.status.text == "":
	case m.status.style == statusbar.StyleError:
		opts = append(opts, statusbar.WithError(m.status.text))
	default:
		opts = append(opts, statusbar.WithMessage(m.status.text))
	}

	info := statusbar.Info{
		File:   m.doc.name,
		Theme:  m.doc.theme,
		Syntax: m.doc.syntax,
		Format: m.code.Format,
		Size:   m.doc.size,
	}

	return statusbar.NewRenderer(m.theme, m.width, opts...).Render(info, m.preview.ScrollPercent())
}

func (m *Model) errorView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ErrorTitleStyle.Padding(0, 1).Render("ERROR"),
		lipgloss.NewStyle().Padding(1, 0).Render(m.err.Error()),
	)
}

func (m *Model) resize() {
	h := m.height - statusBarHeight
	if m.showHelp {
		h -= m.help.Height(m.width)
	}

	m.preview.SetSize(m.width, h)
	m.overlay.SetSize(m.width, m.height)
	// Room for the overlay frame and margins.
	m.settings.SetSize(max(0, m.width*2/3-6), max(0, m.height-12))
}

func (m *Model) minimumDelay() time.Duration {
	if m.cfg.MinimumDelay == nil {
		return 0
	}

	return *m.cfg.MinimumDelay
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	m.loadStart = time.Now()

	path := m.code.Path

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		doc, err := readDocument(path)
		return loadedMsg{doc: doc, err: err}
	})
}

func readDocument(path string) (document, error) {
	if path == "" {
		return document{name: sampleName, code: sampleCode, size: int64(len(sampleCode))}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-supplied path.
	if err != nil {
		return document{}, fmt.Errorf("read %s: %w", path, err)
	}

	return document{
		name: filepath.Base(path),
		code: string(data),
		size: int64(len(data)),
	}, nil
}

// render highlights the current document for the preview.
func (m *Model) render() {
	style, err := m.cat.LookupTheme(m.code.Theme)
	if err != nil {
		m.err = err
		style = styles.Fallback
	}

	lexer := m.cat.DetectSyntax(m.code.Syntax, m.doc.name, m.doc.code)

	m.doc.theme = style.Name
	m.doc.syntax = catalog.SyntaxName(lexer)

	g := generator.NewANSI(generator.FormatterForProfile(lipgloss.ColorProfile()))

	var sb strings.Builder

	err = generator.Generate(g, &sb, generator.Request{
		Style:   style,
		Lexer:   lexer,
		Code:    m.doc.code,
		Options: m.code.Options,
	})
	if err != nil {
		m.err = err
		m.preview.SetContent(m.doc.code)

		return
	}

	m.preview.SetContent(sb.String())
}

// output generates the document in the configured format.
func (m *Model) output() (string, generator.Generator, error) {
	g, err := m.gens.Get(m.code.Format)
	if err != nil {
		return "", nil, err //nolint:wrapcheck // Already descriptive.
	}

	style, err := m.cat.LookupTheme(m.code.Theme)
	if err != nil {
		return "", nil, err //nolint:wrapcheck // Already descriptive.
	}

	var sb strings.Builder

	err = generator.Generate(g, &sb, generator.Request{
		Style:   style,
		Lexer:   m.cat.DetectSyntax(m.code.Syntax, m.doc.name, m.doc.code),
		Code:    m.doc.code,
		Options: m.code.Options,
	})
	if err != nil {
		return "", nil, err
	}

	return sb.String(), g, nil
}

func (m *Model) copyOutput() tea.Cmd {
	out, g, err := m.output()
	if err == nil {
		err = m.copyFn(out)
	}
	if err != nil {
		slog.Error("copy output", slog.Any("error", err))

		return m.setStatus("copy failed: "+err.Error(), statusbar.StyleError)
	}

	return m.setStatus(fmt.Sprintf("copied %s output", g.Name()), statusbar.StyleSuccess)
}

func (m *Model) writeOutput() tea.Cmd {
	out, g, err := m.output()
	if err != nil {
		return m.setStatus("write failed: "+err.Error(), statusbar.StyleError)
	}

	path := m.outputPath(g)

	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		slog.Error("write output", slog.String("path", path), slog.Any("error", err))

		return m.setStatus("write failed: "+err.Error(), statusbar.StyleError)
	}

	slog.Info("wrote output", slog.String("path", path))

	return m.setStatus("wrote "+filepath.Base(path), statusbar.StyleSuccess)
}

// outputPath places output next to the input, adding the generator's
// extension.
func (m *Model) outputPath(g generator.Generator) string {
	base := m.code.Path
	if base == "" {
		base = sampleName
	}

	return base + "." + g.Extension()
}

func (m *Model) setStatus(text string, style statusbar.Style) tea.Cmd {
	id := m.status.id + 1
	m.status = status{text: text, style: style, id: id}

	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{id: id}
	})
}

func (m *Model) publish() {
	if m.store != nil {
		m.store.Save(m.settings.State())
	}
}

// startWatch watches the file's directory, since editors often replace
// files rather than write to them.
func (m *Model) startWatch() error {
	abs, err := filepath.Abs(m.code.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()

		return fmt.Errorf("%w: %s: %w", ErrWatch, abs, err)
	}

	m.code.Path = abs
	m.watcher = w

	return nil
}

func (m *Model) waitForChange() tea.Cmd {
	w, path := m.watcher, m.code.Path
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case evt, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(evt.Name) == path && evt.Has(fsnotify.Create|fsnotify.Write|fsnotify.Rename) {
					return fileChangedMsg{}
				}

			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}

				return watchErrMsg{err: fmt.Errorf("%w: %w", ErrWatch, err)}
			}
		}
	}
}
