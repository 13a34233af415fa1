package provisioning

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/genesis"
	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/validation"
)

// Result is a provisioned network and its genesis document.
type Result struct {
	Network *network.Network
	Genesis *genesis.Genesis
}

// CreateNetworkFromDocument parses a network document and provisions it.
func (c *Controller) CreateNetworkFromDocument(ctx context.Context, data []byte) (*Result, error) {
	n, errs := validation.Parse(data)
	if len(errs) > 0 {
		failure := &ValidationFailure{Errors: errs}
		LogValidationErrors(c.observer, failure)
		c.record("create", failure)
		return nil, failure
	}
	return c.CreateNetwork(ctx, n)
}

// CreateNetwork validates n against the registry, provisions its directory tree,
// identities and genesis, and registers it. On failure every side effect is undone
// and a *ProvisioningError naming the failed step is returned.
func (c *Controller) CreateNetwork(ctx context.Context, n *network.Network) (_ *Result, err error) {
	defer func() { c.record("create", err) }()

	existing, err := c.store.Read()
	if err != nil {
		return nil, err
	}
	if errs := validation.Validate(n, existing); len(errs) > 0 {
		failure := &ValidationFailure{Errors: errs}
		LogValidationErrors(c.observer, failure)
		return nil, failure
	}

	run := c.newProvisionRun(n)
	steps := append(run.steps(), Step{
		Name: "registry",
		Action: func(context.Context) error {
			_, err := c.store.AtomicUpdate(appendNetwork(n))
			return err
		},
	})

	c.observer.Printf("creating network %s with %d nodes", n.ID, len(n.Nodes))
	if err := NewSaga(c.observer.WithFields(map[string]string{"network": n.ID}), c.metrics).Run(ctx, steps); err != nil {
		return nil, err
	}
	c.observer.Printf("network %s created", n.ID)

	return &Result{Network: n, Genesis: run.genesis}, nil
}

// provisionRun carries the values produced by one provisioning saga.
type provisionRun struct {
	c *Controller
	n *network.Network

	password string
	faucet   string
	signers  []string
	genesis  *genesis.Genesis
}

func (c *Controller) newProvisionRun(n *network.Network) *provisionRun {
	return &provisionRun{c: c, n: n}
}

// steps returns the provisioning steps that build the directory tree of the
// network from nothing up to initialized chain databases.
func (r *provisionRun) steps() []Step {
	cfg := r.c.cfg
	id := r.n.ID
	removeNetworkDir := func(context.Context) error {
		return removeAll(cfg.NetworkDir(id))
	}

	steps := []Step{
		{
			Name:   "images",
			Action: func(ctx context.Context) error { return r.c.orch.EnsureImage(ctx) },
		},
		{
			Name: "network-directory",
			Action: func(context.Context) error {
				password, err := createNetworkDir(cfg, id)
				if err != nil {
					return err
				}
				r.password = password
				LogResourceCreated(r.c.observer, "network-directory", "directory", cfg.NetworkDir(id))
				return nil
			},
			Compensate: removeNetworkDir,
		},
		{
			Name:       "bootnode",
			Action:     r.provisionBootnode,
			Compensate: removeNetworkDir,
		},
	}

	for _, node := range r.n.Nodes {
		step := "node/" + node.Name
		steps = append(steps, Step{
			Name:   step,
			Action: func(ctx context.Context) error { return r.provisionNode(ctx, node) },
			Compensate: func(context.Context) error {
				return removeAll(cfg.NodeDir(id, node.Name))
			},
		})
	}

	return append(steps,
		Step{
			Name:   "genesis",
			Action: func(context.Context) error { return r.writeGenesis() },
		},
		Step{
			Name:       "genesis-init",
			Action:     r.initGenesis,
			Compensate: removeNetworkDir,
		},
	)
}

func (r *provisionRun) provisionBootnode(ctx context.Context) error {
	dir := r.c.cfg.BootnodeDir(r.n.ID)
	if err := prepareBootnodeDir(dir, r.password); err != nil {
		return err
	}

	faucet, err := r.c.orch.ProvisionIdentity(ctx, r.n.ID, network.BootnodeName)
	if err != nil {
		return err
	}
	r.faucet = faucet

	if err := r.c.orch.ProvisionBootnodeKeys(ctx, r.n.ID); err != nil {
		return err
	}
	LogResourceCreated(r.c.observer, "bootnode", "account", "0x"+faucet)
	return nil
}

func (r *provisionRun) provisionNode(ctx context.Context, node network.Node) error {
	miner := node.Type == network.NodeTypeMiner
	if err := prepareNodeDir(r.c.cfg.NodeDir(r.n.ID, node.Name), r.password, miner); err != nil {
		return err
	}
	if !miner {
		return nil
	}

	signer, err := r.c.orch.ProvisionIdentity(ctx, r.n.ID, node.Name)
	if err != nil {
		return err
	}
	r.signers = append(r.signers, signer)
	LogResourceCreated(r.c.observer, "node/"+node.Name, "signer", "0x"+signer)
	return nil
}

// writeGenesis builds the genesis document from the faucet and the signers and
// stores it in the bootnode and every node directory.
func (r *provisionRun) writeGenesis() error {
	g, err := genesis.Build(r.n, append([]string{r.faucet}, r.signers...))
	if err != nil {
		return err
	}
	data, err := g.JSON()
	if err != nil {
		return err
	}

	dirs := []string{r.c.cfg.BootnodeDir(r.n.ID)}
	for _, node := range r.n.Nodes {
		dirs = append(dirs, r.c.cfg.NodeDir(r.n.ID, node.Name))
	}
	for _, dir := range dirs {
		if err := writeFile(filepath.Join(dir, config.GenesisFile), data); err != nil {
			return err
		}
	}

	r.genesis = g
	return nil
}

func (r *provisionRun) initGenesis(ctx context.Context) error {
	for _, node := range r.n.Nodes {
		if err := r.c.orch.InitializeGenesisBlock(ctx, r.n.ID, node.Name); err != nil {
			return fmt.Errorf("node %s: %w", node.Name, err)
		}
	}
	return nil
}
