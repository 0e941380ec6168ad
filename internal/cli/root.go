package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quellcode/quellcode/pkg/log"
	"github.com/quellcode/quellcode/pkg/tracing"
)

const (
	cmdName = "quellcode"
	cmdDesc = `Syntax highlighted previews of source code, exported as SVG, HTML or ANSI.`
)

type RootArgs struct {
	shutdown  tracing.ShutdownFunc
	LogLevel  string
	LogFormat string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.LevelNames()))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.FormatNames()))

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.FormatNames(), cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.LevelNames(), cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:                cmdName + " [file]",
		Short:              cmdDesc,
		Example:            cmdExamples,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
		ValidArgsFunction:  runCmd.ValidArgsFunction,
		Args:               runCmd.Args,
		RunE:               runCmd.RunE,
		SilenceUsage:       true,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(
		runCmd,
		NewRenderCmd(args),
		NewThemesCmd(args),
		NewSyntaxesCmd(args),
		NewFormatsCmd(args),
		NewStateCmd(args),
		NewMCPCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.NewHandler(cmd.ErrOrStderr(), log.Options{
			Level:  ra.LogLevel,
			Format: ra.LogFormat,
		})
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		ra.shutdown, err = tracing.Setup(ctxOrBackground(cmd))
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.shutdown == nil {
			return nil
		}

		err := ra.shutdown(context.WithoutCancel(ctxOrBackground(cmd)))
		if err != nil {
			slog.Warn("flush traces", slog.Any("err", err))
		}

		return nil
	}
}

func ctxOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
