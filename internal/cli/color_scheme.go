package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/quellcode/quellcode/pkg/config"
	"github.com/quellcode/quellcode/pkg/ui/theme"
)

// ColorSchemeFunc styles help and errors with the UI theme named in the
// config file, or the default theme when the file cannot be read.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	cl, err := config.NewLoaderFromFile(config.GetPath(), config.WithThemeFromData())
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	return ThemeColorScheme(cl.GetTheme(), c)
}

func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           t.TextStyle.GetForeground(),
		Title:          t.LogoStyle.GetBackground(),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        t.SelectedStyle.GetForeground(),
		Command:        t.SelectedStyle.GetForeground(),
		DimmedArgument: t.SubtleStyle.GetForeground(),
		Comment:        t.SubtleStyle.GetForeground(),
		Flag:           t.SelectedStyle.GetForeground(),
		Argument:       t.TextStyle.GetForeground(),
		Description:    t.TextStyle.GetForeground(),
		FlagDefault:    t.HintStyle.GetForeground(),
		QuotedString:   t.SuccessStyle.GetForeground(),
		ErrorHeader: [2]color.Color{
			t.ErrorTitleStyle.GetForeground(),
			t.ErrorTitleStyle.GetBackground(),
		},
	}
}
