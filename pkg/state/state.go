// Package state defines the settings panel state shared by the terminal UI,
// the CLI and the MCP server.
//
// [AppState] lists the themes and syntaxes a user can choose from, in
// display order. [SettingsPageState] wraps an [AppState] with the panel's
// visibility flags. Both types always hold non-nil sequences once
// constructed or decoded, and encode empty sequences as [] rather than null.
package state

import (
	"encoding/json"
	"slices"

	"github.com/quellcode/quellcode/pkg/validate"
	"github.com/quellcode/quellcode/pkg/yaml"
)

// AppState holds the selectable theme and syntax names.
// Names may repeat. Empty lists are valid.
type AppState struct {
	Themes   []string `json:"themes"   validate:"required" yaml:"themes"`
	Syntaxes []string `json:"syntaxes" validate:"required" yaml:"syntaxes"`
}

// NewAppState copies themes and syntaxes into a new [AppState].
// Nil inputs become empty lists.
func NewAppState(themes, syntaxes []string) AppState {
	return AppState{
		Themes:   clone(themes),
		Syntaxes: clone(syntaxes),
	}
}

// Clone returns a deep copy of a.
func (a AppState) Clone() AppState {
	return NewAppState(a.Themes, a.Syntaxes)
}

// Equal reports whether a and b list the same names in the same order.
// A nil list equals an empty one.
func (a AppState) Equal(b AppState) bool {
	return slices.Equal(a.Themes, b.Themes) && slices.Equal(a.Syntaxes, b.Syntaxes)
}

// Validate reports an error wrapping [validate.ErrInvalid] when either list
// is nil. List contents are not checked.
func (a AppState) Validate() error {
	return validate.Struct(a)
}

// appStateFields has the fields of [AppState] and none of its methods.
type appStateFields AppState

func (a AppState) MarshalJSON() ([]byte, error) {
	return json.Marshal(appStateFields(a.Clone()))
}

func (a *AppState) UnmarshalJSON(data []byte) error {
	var f appStateFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err //nolint:wrapcheck // Keep json error types for callers.
	}

	*a = AppState(f).Clone()

	return nil
}

func (a AppState) MarshalYAML() (any, error) {
	return appStateFields(a.Clone()), nil
}

func (a *AppState) UnmarshalYAML(data []byte) error {
	var f appStateFields
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	*a = AppState(f).Clone()

	return nil
}

// SettingsPageState is the state of the settings panel.
//
// Visible reports whether the panel is shown now. Visited reports whether it
// has ever been shown; once set by [SettingsPageState.Show] it stays set.
type SettingsPageState struct {
	App     AppState `json:"app"     yaml:"app"`
	Visible bool     `json:"visible" yaml:"visible"`
	Visited bool     `json:"visited" yaml:"visited"`
}

// NewSettingsPageState returns a hidden, never-visited panel state owning a
// copy of app.
func NewSettingsPageState(app AppState) SettingsPageState {
	return SettingsPageState{App: app.Clone()}
}

// Show makes the panel visible and marks it visited.
func (s *SettingsPageState) Show() {
	s.Visible = true
	s.Visited = true
}

// Hide makes the panel invisible. Visited is unchanged.
func (s *SettingsPageState) Hide() {
	s.Visible = false
}

// Toggle hides a visible panel and shows a hidden one.
func (s *SettingsPageState) Toggle() {
	if s.Visible {
		s.Hide()
		return
	}

	s.Show()
}

// SetApp replaces the available names with a copy of app, keeping the
// visibility flags.
func (s *SettingsPageState) SetApp(app AppState) {
	s.App = app.Clone()
}

// Clone returns a deep copy of s.
func (s SettingsPageState) Clone() SettingsPageState {
	s.App = s.App.Clone()
	return s
}

// Equal reports whether s and o hold equal names and flags.
func (s SettingsPageState) Equal(o SettingsPageState) bool {
	return s.Visible == o.Visible && s.Visited == o.Visited && s.App.Equal(o.App)
}

// Validate reports an error wrapping [validate.ErrInvalid] when either list
// of s.App is nil.
func (s SettingsPageState) Validate() error {
	return validate.Struct(s)
}

type settingsPageStateFields SettingsPageState

func (s SettingsPageState) MarshalJSON() ([]byte, error) {
	return json.Marshal(settingsPageStateFields(s.Clone()))
}

func (s *SettingsPageState) UnmarshalJSON(data []byte) error {
	var f settingsPageStateFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err //nolint:wrapcheck // Keep json error types for callers.
	}

	*s = SettingsPageState(f).Clone()

	return nil
}

func (s SettingsPageState) MarshalYAML() (any, error) {
	return settingsPageStateFields(s.Clone()), nil
}

func (s *SettingsPageState) UnmarshalYAML(data []byte) error {
	var f settingsPageStateFields
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	*s = SettingsPageState(f).Clone()

	return nil
}

func clone(s []string) []string {
	if s == nil {
		return []string{}
	}

	return slices.Clone(s)
}
