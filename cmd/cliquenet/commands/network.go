package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/cliquenet/cmd/cliquenet/handlers"
)

// Network returns the network command group.
func Network(opts *handlers.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "network",
		Aliases: []string{"net"},
		Short:   "Manage networks",
	}

	cmd.AddCommand(
		networkList(opts),
		networkGet(opts),
		networkGenesis(opts),
		networkCreate(opts),
		networkEdit(opts),
		networkStart(opts),
		networkStop(opts),
		networkDelete(opts),
		networkStatus(opts),
	)
	return cmd
}

func networkList(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered networks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.NetworkList(cmd.Context(), opts)
		},
	}
}

func networkGet(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a network definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NetworkGet(cmd.Context(), opts, args[0])
		},
	}
}

func networkGenesis(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "genesis <id>",
		Short: "Print the genesis document of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NetworkGenesis(cmd.Context(), opts, args[0])
		},
	}
}

func networkCreate(opts *handlers.GlobalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a network from a definition file",
		Long: `Create validates a network definition against the registry and provisions it.

Provisioning creates the network directory, the faucet and signer accounts, the
bootnode keys and the genesis block of every node, then registers the network.
If any step fails, everything created so far is removed again.

Example:
  cliquenet network create -f devnet.yaml
  cat devnet.json | cliquenet network create -f -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.NetworkCreate(cmd.Context(), opts, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Network definition (YAML or JSON, - for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func networkEdit(opts *handlers.GlobalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the chain id or allocations of a stopped network",
		Long: `Edit re-provisions a stopped network with a new chain id or genesis allocations.

Accounts and the genesis block are generated again. Nodes are changed with
"cliquenet node add" and "cliquenet node remove".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NetworkEdit(cmd.Context(), opts, args[0], file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Network definition (YAML or JSON, - for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func networkStart(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start the bootnode and nodes of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NetworkStart(cmd.Context(), opts, args[0])
		},
	}
}

func networkStop(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop every container of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NetworkStop(cmd.Context(), opts, args[0])
		},
	}
}

func networkDelete(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a network with its containers and files",
		Long: `Delete removes every container of the network, its virtual network, its
directory tree and its registry entry.

WARNING: This operation is irreversible. Accounts and chain data are lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NetworkDelete(cmd.Context(), opts, args[0])
		},
	}
}

func networkStatus(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show the container states of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.NetworkStatus(cmd.Context(), opts, args[0])
		},
	}
}
