package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quellcode/quellcode/pkg/catalog"
	"github.com/quellcode/quellcode/pkg/config"
	"github.com/quellcode/quellcode/pkg/generator"
	"github.com/quellcode/quellcode/pkg/log"
	"github.com/quellcode/quellcode/pkg/state"
	"github.com/quellcode/quellcode/pkg/ui"
)

const (
	cmdExamples = `  # Preview a built-in sample:
  quellcode

  # Preview a file:
  quellcode ./main.go

  # Watch for changes and reload:
  quellcode ./main.go --watch

  # Serve the MCP server next to the UI:
  quellcode ./main.go --serve-mcp localhost:8080

  # Send output to a file (disables TUI):
  quellcode ./main.go > main.svg`

	logRingSize = 200
)

type RunArgs struct {
	*RootArgs
	ConfigArgs

	File        string
	ServeMCP    string
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	ra.ConfigArgs.AddFlags(cmd)

	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "", "Serve the MCP server over HTTP at the specified address")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the file for changes and reload")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [file]",
		Short:             "Default command, can be used explicitly if the file name is ambiguous",
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: runCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ra.File = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	return cmd
}

func runCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	configPath := ra.Path()

	err := config.WriteDefault(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	l, err := load(configPath)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		return showConfig(cmd.OutOrStdout(), l)
	}

	code := ui.Code{
		Path:    ra.File,
		Theme:   l.config.Code.Theme,
		Syntax:  l.config.Code.Syntax,
		Format:  l.config.Code.Format,
		Options: l.config.Code.Options(),
	}

	// If stdout is not a terminal, write the generated output.
	if !isTerminal(cmd.OutOrStdout()) {
		return writeOutput(cmd.OutOrStdout(), l.catalog, code)
	}

	logBuf := log.NewRing(logRingSize)
	logHandler, err := log.NewHandler(logBuf, log.Options{
		Level:  ra.LogLevel,
		Format: ra.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	defer func() {
		slog.SetDefault(prevLogger)
		flushLogs(cmd.ErrOrStderr(), logBuf)
	}()

	store := state.NewStore(state.NewSettingsPageState(l.catalog.AppState()))

	ctx, cancel := context.WithCancel(ctxOrBackground(cmd))
	defer cancel()

	if ra.ServeMCP != "" {
		mcpServer, err := newMCPServer(ra.ServeMCP, l, store)
		if err != nil {
			return err
		}

		go func() {
			err := mcpServer.Serve(ctx)
			if err != nil {
				slog.Error("MCP server failed", slog.Any("err", err))
			}
		}()
	}

	err = runUI(ctx, l, code, store, ra.Watch)
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))

		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

// writeOutput renders the file given by code to w in its format.
func writeOutput(w io.Writer, cat *catalog.Catalog, code ui.Code) error {
	if code.Path == "" {
		return fmt.Errorf("%w: a file is required when stdout is not a terminal", ErrNoInput)
	}

	b, err := os.ReadFile(code.Path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return renderCode(w, cat, generator.DefaultRegistry(), renderRequest{
		Name:    filepath.Base(code.Path),
		Code:    string(b),
		Theme:   code.Theme,
		Syntax:  code.Syntax,
		Format:  code.Format,
		Options: code.Options,
	})
}

// showConfig prints the active configuration as highlighted YAML.
func showConfig(w io.Writer, l *loaded) error {
	yamlBytes, err := l.config.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	opts := generator.DefaultOptions()
	opts.IncludeBackground = false

	err = renderCode(w, l.catalog, generator.DefaultRegistry(), renderRequest{
		Name:    "config.yaml",
		Code:    string(yamlBytes),
		Theme:   l.theme.ChromaStyle.Name,
		Syntax:  "yaml",
		Format:  "ansi",
		Options: opts,
	})
	if err != nil {
		mustN(fmt.Fprintln(w, string(yamlBytes)))

		return err
	}

	return nil
}

func flushLogs(w io.Writer, buf *log.Ring) {
	slog.Debug("flush logs to console", slog.Int("count", buf.Len()))

	err := buf.FlushTo(w)
	if err != nil {
		panic(err)
	}
}

// runUI starts the UI program and blocks until it exits.
func runUI(ctx context.Context, l *loaded, code ui.Code, store *state.Store, watch bool) error {
	m, err := ui.NewModel(l.config.UI, code,
		ui.WithTheme(l.theme),
		ui.WithCatalog(l.catalog),
		ui.WithStore(store),
		ui.WithWatch(watch),
	)
	if err != nil {
		return fmt.Errorf("create ui: %w", err)
	}

	defer func() {
		if err := m.Close(); err != nil {
			slog.Warn("close ui", slog.Any("err", err))
		}
	}()

	p := ui.NewProgram(m, tea.WithContext(ctx))

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}
