package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/cliquenet/cmd/cliquenet/handlers"
)

// Init returns the command for interactively creating a network definition.
//
// Flags:
//
//	--output, -o: Path to output file (default "network.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a network definition",
		Long: `Interactively create a network definition file.

This command asks about:

  - Network identity (id and chain id)
  - Subnet and the number of miner, rpc and normal nodes
  - Genesis allocations (optional)

Addresses are assigned from the subnet: the bootnode gets host 10 and the
nodes follow from host 11. Review the file, then provision it with
"cliquenet network create -f <file>".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "network.yaml", "Output file path")

	return cmd
}
