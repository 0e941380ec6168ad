package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quellcode/quellcode/pkg/catalog"
	"github.com/quellcode/quellcode/pkg/config"
	"github.com/quellcode/quellcode/pkg/ui/theme"
)

// ConfigArgs selects the configuration file.
type ConfigArgs struct {
	ConfigPath string
}

func (ca *ConfigArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ca.ConfigPath, "config", "", "Path to the quellcode configuration file")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))
}

// Path returns the configured path, or the default path when unset.
func (ca *ConfigArgs) Path() string {
	if ca.ConfigPath != "" {
		return ca.ConfigPath
	}

	return config.GetPath()
}

// loaded is a configuration with its themes registered in a catalog.
type loaded struct {
	config  *config.Config
	catalog *catalog.Catalog
	// theme styles errors and the application chrome.
	theme *theme.Theme
}

// load reads the configuration at path. A file that cannot be read yields
// the defaults; a file that is invalid is an error.
func load(path string) (*loaded, error) {
	l := &loaded{
		config:  config.New(),
		catalog: catalog.New(),
		theme:   theme.Default,
	}

	cl, err := config.NewLoaderFromFile(path, config.WithThemeFromData())
	if err != nil {
		slog.Debug("could not read config, using defaults", slog.Any("err", err))
	} else {
		l.theme = cl.GetTheme()

		err = cl.Validate()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}

		l.config, err = cl.Load()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}
	}

	err = l.config.RegisterThemes(l.catalog)
	if err != nil {
		return nil, fmt.Errorf("register themes: %w", err)
	}

	// The chrome may use a theme defined in the same file.
	if style, err := l.catalog.LookupTheme(theme.ResolveName(l.config.UI.Theme)); err == nil {
		l.theme = theme.New(style)
	}

	return l, nil
}
