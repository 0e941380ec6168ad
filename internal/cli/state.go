package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quellcode/quellcode/pkg/state"
	"github.com/quellcode/quellcode/pkg/yaml"
)

var stateFormats = []string{"json", "yaml"}

type StateArgs struct {
	*RootArgs
	ConfigArgs

	Output string
}

func NewStateCmd(rootArgs *RootArgs) *cobra.Command {
	sa := &StateArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the initial settings page state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := load(sa.Path())
			if err != nil {
				return err
			}

			s := state.NewSettingsPageState(l.catalog.AppState())

			var b []byte

			switch sa.Output {
			case "json":
				b, err = json.MarshalIndent(s, "", "  ")
			case "yaml":
				b, err = yaml.Marshal(s)
			default:
				return fmt.Errorf("invalid argument %q for \"--output\": must be one of %v", sa.Output, stateFormats)
			}
			if err != nil {
				return fmt.Errorf("marshal state: %w", err)
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), string(b)))

			return nil
		},
	}

	sa.AddFlags(cmd)
	cmd.Flags().StringVarP(&sa.Output, "output", "o", "json", fmt.Sprintf("Output format, one of: %s", stateFormats))

	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(stateFormats, cobra.ShellCompDirectiveNoFileComp),
	))

	return cmd
}
