package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/cliquenet/cmd/cliquenet/handlers"
)

// Monitor returns the command serving Prometheus metrics for every network.
func Monitor(opts *handlers.GlobalOptions) *cobra.Command {
	var (
		listen   string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Serve network status as Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Monitor(cmd.Context(), opts, listen, interval)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":9464", "Address of the metrics endpoint")
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "Status refresh interval")
	return cmd
}
