// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/cliquenet/cmd/cliquenet/handlers"
)

// Root returns the root command for the cliquenet CLI.
func Root() *cobra.Command {
	opts := &handlers.GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "cliquenet",
		Short:         "Provision private proof-of-authority Ethereum networks in containers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(Init())
	cmd.AddCommand(Network(opts))
	cmd.AddCommand(Node(opts))
	cmd.AddCommand(Monitor(opts))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
