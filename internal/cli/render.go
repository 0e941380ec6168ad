package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quellcode/quellcode/pkg/catalog"
	"github.com/quellcode/quellcode/pkg/generator"
)

const renderExamples = `  # Render a file as SVG using the configured theme:
  quellcode render main.go

  # Pick the theme, syntax and format:
  quellcode render -t github -s go -f html snippet.txt

  # Read from stdin and write to a file:
  cat main.go | quellcode render - -s go -o main.svg`

var ErrNoInput = errors.New("no input")

type RenderArgs struct {
	*RootArgs
	ConfigArgs

	Input  string
	Theme  string
	Syntax string
	Format string
	Output string
}

func (ra *RenderArgs) AddFlags(cmd *cobra.Command) {
	ra.ConfigArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&ra.Theme, "theme", "t", "", "Theme name, defaults to the configured theme")
	cmd.Flags().StringVarP(&ra.Syntax, "syntax", "s", "", "Syntax name or file name, detected when empty")
	cmd.Flags().StringVarP(&ra.Format, "format", "f", "",
		fmt.Sprintf("Output format, one of: %s", generator.DefaultRegistry().Names()))
	cmd.Flags().StringVarP(&ra.Output, "output", "o", "", "Write to this file instead of stdout")

	must(cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(generator.DefaultRegistry().Names(), cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("theme", completeNames(&ra.ConfigArgs, (*catalog.Catalog).Themes)))
	must(cmd.RegisterFlagCompletionFunc("syntax", completeNames(&ra.ConfigArgs, (*catalog.Catalog).Syntaxes)))
}

func NewRenderCmd(rootArgs *RootArgs) *cobra.Command {
	ra := &RenderArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:     "render <file|->",
		Short:   "Render a file to SVG, HTML or ANSI",
		Example: renderExamples,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.Input = args[0]

			return runRender(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, ra *RenderArgs) error {
	l, err := load(ra.Path())
	if err != nil {
		return err
	}

	req := renderRequest{
		Theme:   firstNonEmpty(ra.Theme, l.config.Code.Theme),
		Syntax:  firstNonEmpty(ra.Syntax, l.config.Code.Syntax),
		Format:  firstNonEmpty(ra.Format, l.config.Code.Format),
		Options: l.config.Code.Options(),
	}

	if ra.Input == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		req.Code = string(b)
	} else {
		b, err := os.ReadFile(ra.Input)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		req.Name = ra.Input
		req.Code = string(b)
	}

	if ra.Output == "" {
		return renderCode(cmd.OutOrStdout(), l.catalog, generator.DefaultRegistry(), req)
	}

	var sb strings.Builder

	err = renderCode(&sb, l.catalog, generator.DefaultRegistry(), req)
	if err != nil {
		return err
	}

	err = os.WriteFile(ra.Output, []byte(sb.String()), 0o600)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	slog.Info("wrote output", slog.String("path", ra.Output), slog.Int("bytes", sb.Len()))

	return nil
}

type renderRequest struct {
	// Name is the input file name, used to detect the syntax.
	Name    string
	Code    string
	Theme   string
	Syntax  string
	Format  string
	Options generator.Options
}

// renderCode writes req in its format to w. An explicit syntax must be
// known; otherwise it is detected from the name and content.
func renderCode(w io.Writer, cat *catalog.Catalog, gens *generator.Registry, req renderRequest) error {
	g, err := gens.Get(req.Format)
	if err != nil {
		return fmt.Errorf("get generator: %w", err)
	}

	style, err := cat.LookupTheme(req.Theme)
	if err != nil {
		return fmt.Errorf("lookup theme: %w", err)
	}

	lexer := cat.DetectSyntax("", req.Name, req.Code)
	if req.Syntax != "" {
		lexer, err = cat.LookupSyntax(req.Syntax)
		if err != nil {
			return fmt.Errorf("lookup syntax: %w", err)
		}
	}

	slog.Debug("render",
		slog.String("name", req.Name),
		slog.String("theme", style.Name),
		slog.String("syntax", catalog.SyntaxName(lexer)),
		slog.String("format", g.Name()),
	)

	err = generator.Generate(g, w, generator.Request{
		Style:   style,
		Lexer:   lexer,
		Code:    req.Code,
		Options: req.Options,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", g.Name(), err)
	}

	return nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}
