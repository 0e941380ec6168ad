package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quellcode/quellcode/pkg/mcp"
	"github.com/quellcode/quellcode/pkg/state"
)

type MCPArgs struct {
	*RootArgs
	ConfigArgs

	Address string
}

func NewMCPCmd(rootArgs *RootArgs) *cobra.Command {
	ma := &MCPArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP server without the terminal UI",
		Example: `  # Serve over stdio:
  quellcode mcp

  # Serve streamable HTTP:
  quellcode mcp --address localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := load(ma.Path())
			if err != nil {
				return err
			}

			srv, err := newMCPServer(ma.Address, l, state.NewStore(state.NewSettingsPageState(l.catalog.AppState())))
			if err != nil {
				return err
			}

			return srv.Serve(ctxOrBackground(cmd)) //nolint:wrapcheck // Already wrapped.
		},
	}

	ma.AddFlags(cmd)
	cmd.Flags().StringVar(&ma.Address, "address", "", "Serve streamable HTTP at this address instead of stdio")

	return cmd
}

func newMCPServer(address string, l *loaded, sp mcp.StateProvider) (*mcp.Server, error) {
	srv, err := mcp.NewServer(address, sp,
		mcp.WithCatalog(l.catalog),
		mcp.WithDefaults(l.config.Code.Theme, l.config.Code.Format),
		mcp.WithOptions(l.config.Code.Options()),
	)
	if err != nil {
		return nil, fmt.Errorf("create MCP server: %w", err)
	}

	return srv, nil
}
