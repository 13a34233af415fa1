package provisioning

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/genesis"
	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/orchestration"
	"github.com/imamik/cliquenet/internal/registry"
)

// Controller runs the administration use cases of the tool.
type Controller struct {
	cfg      *config.Config
	store    Store
	orch     Orchestrator
	observer Observer
	metrics  MetricsRecorder
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver replaces the default observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithMetrics records step and operation outcomes in m.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New creates a controller. Without WithObserver, events are discarded.
func New(cfg *config.Config, store Store, orch Orchestrator, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		store:    store,
		orch:     orch,
		observer: NewLogObserver(logr.Discard()),
		metrics:  nopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListNetworks returns every registered network.
func (c *Controller) ListNetworks() ([]network.Network, error) {
	return c.store.Read()
}

// GetNetwork returns the network with the given id.
func (c *Controller) GetNetwork(id string) (*network.Network, error) {
	n, ok, err := c.store.Find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, id)
	}
	return n, nil
}

// GetGenesis returns the genesis document stored for network id.
func (c *Controller) GetGenesis(id string) (*genesis.Genesis, error) {
	if _, err := c.GetNetwork(id); err != nil {
		return nil, err
	}

	path := filepath.Join(c.cfg.BootnodeDir(id), config.GenesisFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &registry.FileSystemError{Op: "read", Path: path, Err: err}
	}

	var g genesis.Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &g, nil
}

// NetworkStatus reports the container states of network id.
func (c *Controller) NetworkStatus(ctx context.Context, id string) (orchestration.NetworkStatus, error) {
	n, err := c.GetNetwork(id)
	if err != nil {
		return orchestration.NetworkStatus{}, err
	}
	return c.orch.Status(ctx, n)
}

// ensureStopped returns ErrNetworkRunning if any container of n is running.
func (c *Controller) ensureStopped(ctx context.Context, n *network.Network) error {
	status, err := c.orch.Status(ctx, n)
	if err != nil {
		return err
	}
	if status.Running {
		return fmt.Errorf("%w: %s has %d running containers", ErrNetworkRunning, n.ID, status.RunningCount())
	}
	return nil
}

// others returns the registered networks except id.
func (c *Controller) others(id string) ([]network.Network, error) {
	existing, err := c.store.Read()
	if err != nil {
		return nil, err
	}
	out := make([]network.Network, 0, len(existing))
	for _, n := range existing {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out, nil
}

func (c *Controller) record(operation string, err error) {
	outcome := OutcomeSucceeded
	if err != nil {
		outcome = OutcomeFailed
	}
	c.metrics.ObserveOperation(operation, outcome)
}

// replaceNetwork swaps the registry entry of n.ID for n.
func replaceNetwork(n *network.Network) registry.Mutator {
	return func(networks []network.Network) ([]network.Network, error) {
		i := network.Index(networks, n.ID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, n.ID)
		}
		networks[i] = n.Clone()
		return networks, nil
	}
}

func appendNetwork(n *network.Network) registry.Mutator {
	return func(networks []network.Network) ([]network.Network, error) {
		if network.Index(networks, n.ID) >= 0 {
			return nil, fmt.Errorf("network %s is already registered", n.ID)
		}
		return append(networks, n.Clone()), nil
	}
}

func removeNetwork(id string) registry.Mutator {
	return func(networks []network.Network) ([]network.Network, error) {
		i := network.Index(networks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, id)
		}
		return append(networks[:i], networks[i+1:]...), nil
	}
}
