package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const appName = "quellcode"

// WriteDefault writes the embedded default configuration to path. An
// existing file is kept unless force is set, in which case it is renamed
// to "<name>.<unix nano>.old" first.
func WriteDefault(path string, force bool) error {
	exists := false

	info, err := os.Stat(path)
	if info != nil {
		switch {
		case err == nil && info.Mode().IsRegular():
			exists = true
		case info.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if exists && !force {
		slog.Debug("configuration file already exists, skipping write", slog.String("path", path))

		return nil
	}

	if exists {
		backup := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano()))
		slog.Info("backing up existing config file", slog.String("path", backup))

		if err := os.Rename(path, backup); err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}
	}

	slog.Info("write default configuration", slog.String("path", path))

	if err := os.WriteFile(path, defaultConfigYAML, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// GetPath returns the path of the user's configuration file.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, appName, "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", appName, "config.yaml")
	}

	tmp := filepath.Join(os.TempDir(), appName, "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmp),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmp
}
