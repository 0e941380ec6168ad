package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/quellcode/quellcode/pkg/keys"
)

var ErrInvalidConfig = errors.New("invalid ui config")

// Config holds the terminal application settings.
type Config struct {
	// Theme is the chroma style used for the application chrome. "auto"
	// follows the terminal background.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
	// MinimumDelay is the shortest time a reload is shown as in progress.
	MinimumDelay *time.Duration `json:"minimumDelay,omitempty" jsonschema:"title=Minimum Delay"`
	// WordWrap wraps long lines in the preview instead of clipping them.
	WordWrap *bool     `json:"wordWrap,omitempty" jsonschema:"title=Word Wrap"`
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Binds"`
}

func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Theme == "" {
		c.Theme = "auto"
	}
	if c.MinimumDelay == nil {
		d := 200 * time.Millisecond
		c.MinimumDelay = &d
	}
	if c.WordWrap == nil {
		wrap := false
		c.WordWrap = &wrap
	}
	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	c.KeyBinds.EnsureDefaults()
}

func (c *Config) Validate() error {
	if c.MinimumDelay != nil && *c.MinimumDelay < 0 {
		return fmt.Errorf("%w: minimumDelay must not be negative", ErrInvalidConfig)
	}

	if c.KeyBinds != nil {
		if err := c.KeyBinds.Validate(); err != nil {
			return fmt.Errorf("%w: keybinds: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}

func (Config) JSONSchemaExtend(s *jsonschema.Schema) {
	if p, ok := s.Properties.Get("minimumDelay"); ok {
		p.Type = "string"
		p.Pattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`
		p.Description = "Duration such as 200ms or 1s"
	}
}

// KeyBinds holds every configurable key binding, grouped by the view that
// handles them.
type KeyBinds struct {
	Common   *CommonKeyBinds   `json:"common,omitempty"   jsonschema:"title=Common"`
	Preview  *PreviewKeyBinds  `json:"preview,omitempty"  jsonschema:"title=Preview"`
	Settings *SettingsKeyBinds `json:"settings,omitempty" jsonschema:"title=Settings"`
}

func (kb *KeyBinds) EnsureDefaults() {
	if kb.Common == nil {
		kb.Common = &CommonKeyBinds{}
	}
	if kb.Preview == nil {
		kb.Preview = &PreviewKeyBinds{}
	}
	if kb.Settings == nil {
		kb.Settings = &SettingsKeyBinds{}
	}

	kb.Common.EnsureDefaults()
	kb.Preview.EnsureDefaults()
	kb.Settings.EnsureDefaults()
}

// Validate rejects keys bound twice where both bindings are active at once.
// Common keys are active everywhere, so they may not collide with either
// view's keys.
func (kb *KeyBinds) Validate() error {
	kb.EnsureDefaults()

	var errs []error
	if err := keys.Validate(kb.Common.Binds(), kb.Preview.Binds()); err != nil {
		errs = append(errs, fmt.Errorf("preview: %w", err))
	}
	if err := keys.Validate(kb.Common.Binds(), kb.Settings.Binds()); err != nil {
		errs = append(errs, fmt.Errorf("settings: %w", err))
	}

	return errors.Join(errs...)
}

type CommonKeyBinds struct {
	Quit     *keys.Bind `json:"quit,omitempty"     jsonschema:"title=Quit"`
	Help     *keys.Bind `json:"help,omitempty"     jsonschema:"title=Help"`
	Escape   *keys.Bind `json:"escape,omitempty"   jsonschema:"title=Escape"`
	Settings *keys.Bind `json:"settings,omitempty" jsonschema:"title=Settings"`
}

func (kb *CommonKeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Quit, keys.NewBind("quit",
		keys.New("q"),
		keys.New("ctrl+c", keys.Hidden()),
	))
	keys.SetDefault(&kb.Help, keys.NewBind("help",
		keys.New("?"),
	))
	keys.SetDefault(&kb.Escape, keys.NewBind("back",
		keys.New("esc"),
	))
	keys.SetDefault(&kb.Settings, keys.NewBind("settings",
		keys.New(","),
	))
}

func (kb *CommonKeyBinds) Binds() []*keys.Bind {
	return []*keys.Bind{kb.Quit, kb.Help, kb.Escape, kb.Settings}
}

type PreviewKeyBinds struct {
	Copy     *keys.Bind `json:"copy,omitempty"     jsonschema:"title=Copy"`
	Write    *keys.Bind `json:"write,omitempty"    jsonschema:"title=Write"`
	Reload   *keys.Bind `json:"reload,omitempty"   jsonschema:"title=Reload"`
	Up       *keys.Bind `json:"up,omitempty"       jsonschema:"title=Up"`
	Down     *keys.Bind `json:"down,omitempty"     jsonschema:"title=Down"`
	PageUp   *keys.Bind `json:"pageUp,omitempty"   jsonschema:"title=Page Up"`
	PageDown *keys.Bind `json:"pageDown,omitempty" jsonschema:"title=Page Down"`
	Home     *keys.Bind `json:"home,omitempty"     jsonschema:"title=Home"`
	End      *keys.Bind `json:"end,omitempty"      jsonschema:"title=End"`
}

func (kb *PreviewKeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Copy, keys.NewBind("copy output",
		keys.New("c"),
	))
	keys.SetDefault(&kb.Write, keys.NewBind("write output",
		keys.New("w"),
	))
	keys.SetDefault(&kb.Reload, keys.NewBind("reload",
		keys.New("r"),
	))
	keys.SetDefault(&kb.Up, keys.NewBind("up",
		keys.New("up", keys.WithAlias("↑")),
		keys.New("k"),
	))
	keys.SetDefault(&kb.Down, keys.NewBind("down",
		keys.New("down", keys.WithAlias("↓")),
		keys.New("j"),
	))
	keys.SetDefault(&kb.PageUp, keys.NewBind("page up",
		keys.New("pgup"),
		keys.New("b", keys.Hidden()),
	))
	keys.SetDefault(&kb.PageDown, keys.NewBind("page down",
		keys.New("pgdown", keys.WithAlias("pgdn")),
		keys.New(" ", keys.Hidden()),
	))
	keys.SetDefault(&kb.Home, keys.NewBind("go to top",
		keys.New("home"),
		keys.New("g", keys.Hidden()),
	))
	keys.SetDefault(&kb.End, keys.NewBind("go to bottom",
		keys.New("end"),
		keys.New("G", keys.Hidden()),
	))
}

func (kb *PreviewKeyBinds) Binds() []*keys.Bind {
	return []*keys.Bind{
		kb.Copy, kb.Write, kb.Reload,
		kb.Up, kb.Down, kb.PageUp, kb.PageDown, kb.Home, kb.End,
	}
}

// SettingsKeyBinds apply while the settings panel is open. Navigation inside
// the form is handled by huh.
type SettingsKeyBinds struct {
	Apply *keys.Bind `json:"apply,omitempty" jsonschema:"title=Apply"`
}

func (kb *SettingsKeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Apply, keys.NewBind("apply",
		keys.New("ctrl+s"),
	))
}

func (kb *SettingsKeyBinds) Binds() []*keys.Bind {
	return []*keys.Bind{kb.Apply}
}
