// Package main is the entry point for the cliquenet CLI.
//
// cliquenet provisions private proof-of-authority (clique) networks of Ethereum
// clients in local containers: it validates network definitions, generates
// signer accounts and the genesis block, and starts the bootnode and nodes on a
// dedicated virtual network.
//
// For detailed usage information, run:
//
//	cliquenet --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/cliquenet/cmd/cliquenet/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
