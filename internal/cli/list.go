package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quellcode/quellcode/pkg/catalog"
	"github.com/quellcode/quellcode/pkg/generator"
)

type ListArgs struct {
	*RootArgs
	ConfigArgs

	Query string
}

func NewThemesCmd(rootArgs *RootArgs) *cobra.Command {
	return newListCmd(rootArgs, "themes", "List available themes", (*catalog.Catalog).Themes)
}

func NewSyntaxesCmd(rootArgs *RootArgs) *cobra.Command {
	return newListCmd(rootArgs, "syntaxes", "List available syntaxes", (*catalog.Catalog).Syntaxes)
}

func newListCmd(rootArgs *RootArgs, use, short string, names func(*catalog.Catalog) []string) *cobra.Command {
	la := &ListArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:     use + " [query]",
		Short:   short,
		Example: fmt.Sprintf("  # Fuzzy match names:\n  quellcode %s mono", use),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				la.Query = args[0]
			}

			l, err := load(la.Path())
			if err != nil {
				return err
			}

			for _, n := range catalog.Filter(names(l.catalog), la.Query) {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), n))
			}

			return nil
		},
	}
	la.AddFlags(cmd)

	return cmd
}

func NewFormatsCmd(_ *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List output formats and the options they read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			reg := generator.DefaultRegistry()

			for _, name := range reg.Names() {
				g, err := reg.Get(name)
				if err != nil {
					return fmt.Errorf("get generator: %w", err)
				}

				props := make([]string, 0, len(g.Properties()))
				for _, p := range g.Properties() {
					props = append(props, p.Name)
				}

				mustN(fmt.Fprintf(w, "%-6s .%-5s %s\n", g.Name(), g.Extension(), g.Description()))
				if len(props) > 0 {
					mustN(fmt.Fprintf(w, "%14s%s\n", "", strings.Join(props, ", ")))
				}
			}

			return nil
		},
	}
}

// completeNames completes flag values from the catalog.
func completeNames(
	ca *ConfigArgs,
	names func(*catalog.Catalog) []string,
) func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		l, err := load(ca.Path())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return catalog.Filter(names(l.catalog), toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}
