package provisioning

import (
	"context"
	"time"

	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/orchestration"
	"github.com/imamik/cliquenet/internal/registry"
)

// Orchestrator drives containers for a network.
// Implemented by internal/orchestration.Orchestrator.
type Orchestrator interface {
	EnsureImage(ctx context.Context) error
	ProvisionIdentity(ctx context.Context, networkID, node string) (string, error)
	ProvisionBootnodeKeys(ctx context.Context, networkID string) error
	InitializeGenesisBlock(ctx context.Context, networkID, node string) error
	EnodeURL(networkID, bootIP string) (string, error)

	StartNode(ctx context.Context, node network.Node, chainID uint64, networkID, subnet, bootnodeEnode string) error
	StartNetwork(ctx context.Context, n *network.Network) error
	StopNetwork(ctx context.Context, n *network.Network) error
	RemoveNetwork(ctx context.Context, n *network.Network) error
	RemoveNode(ctx context.Context, networkID, node string) error
	Status(ctx context.Context, n *network.Network) (orchestration.NetworkStatus, error)
}

// Store persists network definitions.
// Implemented by internal/registry.Registry.
type Store interface {
	Read() ([]network.Network, error)
	Find(id string) (*network.Network, bool, error)
	AtomicUpdate(mutate registry.Mutator) ([]network.Network, error)
}

// Step and operation outcomes reported to a MetricsRecorder.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// MetricsRecorder receives saga step timings and operation outcomes.
// Implemented by internal/metrics.Collector.
type MetricsRecorder interface {
	ObserveStep(step, outcome string, duration time.Duration)
	ObserveOperation(operation, outcome string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveStep(string, string, time.Duration) {}
func (nopMetrics) ObserveOperation(string, string)           {}

var (
	_ Orchestrator = (*orchestration.Orchestrator)(nil)
	_ Store        = (*registry.Registry)(nil)
)
