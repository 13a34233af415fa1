package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/imamik/cliquenet/cmd/cliquenet/handlers"
)

// Node returns the node command group.
func Node(opts *handlers.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add or remove nodes of a network",
	}
	cmd.AddCommand(nodeAdd(opts), nodeRemove(opts))
	return cmd
}

func nodeAdd(opts *handlers.GlobalOptions) *cobra.Command {
	var (
		file string
		spec handlers.NodeSpec
	)

	cmd := &cobra.Command{
		Use:   "add <network>",
		Short: "Add a node to a network",
		Long: `Add provisions a node with the existing genesis block and registers it.
If the network is running, the node is started too.

Example:
  cliquenet node add devnet --name r2 --type rpc --ip 10.0.0.20 --port 8546
  cliquenet node add devnet -f node.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && (spec.Name == "" || spec.Type == "" || spec.IP == "") {
				return errors.New("either --file or --name, --type and --ip are required")
			}
			return handlers.NodeAdd(cmd.Context(), opts, args[0], file, spec)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Node definition (YAML or JSON, - for stdin)")
	cmd.Flags().StringVar(&spec.Name, "name", "", "Node name")
	cmd.Flags().StringVar(&spec.Type, "type", "", "Node type: miner, rpc or normal")
	cmd.Flags().StringVar(&spec.IP, "ip", "", "Node address inside the network subnet")
	cmd.Flags().IntVar(&spec.Port, "port", 0, "HTTP port (rpc nodes only)")
	cmd.MarkFlagsMutuallyExclusive("file", "name")
	return cmd
}

func nodeRemove(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <network> <node>",
		Aliases: []string{"rm"},
		Short:   "Remove a node from a network",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NodeRemove(cmd.Context(), opts, args[0], args[1])
		},
	}
}
