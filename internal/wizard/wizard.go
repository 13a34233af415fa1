package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/cliquenet/internal/network"
)

// Defaults offered by the wizard.
const (
	DefaultSubnet      = "10.0.0.0/24"
	DefaultRPCBasePort = 8545
	DefaultMiners      = 1
	DefaultRPCNodes    = 1
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Identity
	NetworkID string
	ChainID   uint64

	// Topology
	Subnet      string
	Miners      int
	RPCNodes    int
	NormalNodes int
	RPCBasePort int

	// Genesis
	Allocations []network.Allocation
}

// RunWizard runs the interactive wizard. The context is used for cancellation
// support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Subnet:      DefaultSubnet,
		Miners:      DefaultMiners,
		RPCNodes:    DefaultRPCNodes,
		RPCBasePort: DefaultRPCBasePort,
	}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	if err := runTopologyGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}

	if err := runAllocationsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("allocations: %w", err)
	}

	return result, nil
}
