package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Huh returns a form theme using the colours of t.
func (t *Theme) Huh() *huh.Theme {
	h := huh.ThemeBase()

	accent := t.SelectedStyle.GetForeground()
	muted := t.SubtleStyle.GetForeground()
	text := t.TextStyle.GetForeground()
	errColour := t.ErrorTextStyle.GetForeground()

	f := &h.Focused
	f.Base = f.Base.BorderForeground(accent)
	f.Card = f.Base
	f.Title = f.Title.Foreground(accent).Bold(true)
	f.Description = f.Description.Foreground(t.SelectedSubtleStyle.GetForeground())
	f.ErrorIndicator = f.ErrorIndicator.Foreground(errColour)
	f.ErrorMessage = f.ErrorMessage.Foreground(errColour)
	f.SelectSelector = f.SelectSelector.Foreground(accent)
	f.NextIndicator = f.NextIndicator.Foreground(accent)
	f.PrevIndicator = f.PrevIndicator.Foreground(accent)
	f.Option = f.Option.Foreground(text)
	f.SelectedOption = f.SelectedOption.Foreground(accent)
	f.UnselectedOption = f.UnselectedOption.Foreground(text)
	f.SelectedPrefix = lipgloss.NewStyle().Foreground(accent).SetString("✓ ")
	f.UnselectedPrefix = lipgloss.NewStyle().Foreground(muted).SetString("• ")
	f.FocusedButton = f.FocusedButton.
		Foreground(t.LogoStyle.GetForeground()).
		Background(t.LogoStyle.GetBackground())
	f.BlurredButton = f.BlurredButton.
		Foreground(t.LogoStyle.GetForeground()).
		Background(muted)
	f.TextInput.Cursor = f.TextInput.Cursor.Foreground(accent)
	f.TextInput.Placeholder = f.TextInput.Placeholder.Foreground(muted)
	f.TextInput.Prompt = f.TextInput.Prompt.Foreground(accent)

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	h.Blurred.Card = h.Blurred.Base
	h.Blurred.NextIndicator = lipgloss.NewStyle()
	h.Blurred.PrevIndicator = lipgloss.NewStyle()

	h.Group.Title = h.Focused.Title
	h.Group.Description = h.Focused.Description

	return h
}
