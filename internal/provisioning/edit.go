package provisioning

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/validation"
)

const stashPrefix = ".previous-"

// EditNetworkFromDocument parses a network document and applies it to network id.
func (c *Controller) EditNetworkFromDocument(ctx context.Context, id string, data []byte) (*Result, error) {
	edited, errs := validation.Parse(data)
	if len(errs) > 0 {
		failure := &ValidationFailure{Errors: errs}
		LogValidationErrors(c.observer, failure)
		return nil, failure
	}
	return c.EditNetwork(ctx, id, edited)
}

// EditNetwork changes the chain id and allocations of a stopped network. The
// directory tree is provisioned again with new accounts and a new genesis; the
// previous tree is restored if that fails. Topology changes go through AddNode
// and RemoveNode.
func (c *Controller) EditNetwork(ctx context.Context, id string, edited *network.Network) (_ *Result, err error) {
	defer func() { c.record("edit", err) }()

	current, err := c.GetNetwork(id)
	if err != nil {
		return nil, err
	}
	if err := c.ensureStopped(ctx, current); err != nil {
		return nil, err
	}

	if edited.ID == "" {
		edited.ID = id
	}
	if errs := immutableFields(current, edited); len(errs) > 0 {
		failure := &ValidationFailure{Errors: errs}
		LogValidationErrors(c.observer, failure)
		return nil, failure
	}

	others, err := c.others(id)
	if err != nil {
		return nil, err
	}
	if errs := validation.Validate(edited, others); len(errs) > 0 {
		failure := &ValidationFailure{Errors: errs}
		LogValidationErrors(c.observer, failure)
		return nil, failure
	}

	dir := c.cfg.NetworkDir(id)
	stash := filepath.Join(c.cfg.NetworksDir(), stashPrefix+id)

	run := c.newProvisionRun(edited)
	steps := []Step{{
		Name: "stash",
		Action: func(context.Context) error {
			if err := removeAll(stash); err != nil {
				return err
			}
			return rename(dir, stash)
		},
		Compensate: func(context.Context) error {
			if !exists(stash) {
				return nil
			}
			if err := removeAll(dir); err != nil {
				return err
			}
			return rename(stash, dir)
		},
	}}
	steps = append(steps, run.steps()...)
	steps = append(steps, Step{
		Name: "registry",
		Action: func(context.Context) error {
			_, err := c.store.AtomicUpdate(replaceNetwork(edited))
			return err
		},
	})

	c.observer.Printf("editing network %s", id)
	if err := NewSaga(c.observer.WithFields(map[string]string{"network": id}), c.metrics).Run(ctx, steps); err != nil {
		return nil, err
	}

	if err := removeAll(stash); err != nil {
		c.observer.Printf("failed to remove previous tree of %s: %v", id, err)
	}
	// Stopped containers still reference the replaced accounts.
	if err := c.orch.RemoveNetwork(ctx, current); err != nil {
		c.observer.Printf("failed to remove stale containers of %s: %v", id, err)
	}

	return &Result{Network: edited, Genesis: run.genesis}, nil
}

func immutableFields(current, edited *network.Network) validation.Errors {
	var errs validation.Errors
	reject := func(field, format string, args ...any) {
		errs = append(errs, validation.ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Kind:    validation.KindInvalid,
		})
	}

	if edited.ID != current.ID {
		reject("id", "network id cannot be changed (got %q)", edited.ID)
	}
	if edited.Subnet != current.Subnet {
		reject("subnet", "subnet of an existing network cannot be changed")
	}
	if edited.BootNodeIP != current.BootNodeIP {
		reject("bootNodeIP", "bootnode address of an existing network cannot be changed")
	}
	if !slices.Equal(edited.Nodes, current.Nodes) {
		reject("nodes", "nodes cannot be edited; use node add and node remove")
	}
	return errs
}

// AddNodeFromDocument parses a node document and adds it to network id.
func (c *Controller) AddNodeFromDocument(ctx context.Context, id string, data []byte) (*network.Network, error) {
	node, errs := validation.ParseNode(data)
	if len(errs) > 0 {
		failure := &ValidationFailure{Errors: errs}
		LogValidationErrors(c.observer, failure)
		return nil, failure
	}
	return c.AddNode(ctx, id, *node)
}

// AddNode provisions node in network id with the existing genesis and registers
// it. A running network gets the node started as well. Miners added this way hold
// an account but are not signers until voted in.
func (c *Controller) AddNode(ctx context.Context, id string, node network.Node) (_ *network.Network, err error) {
	defer func() { c.record("add-node", err) }()

	current, err := c.GetNetwork(id)
	if err != nil {
		return nil, err
	}

	updated := current.WithNode(node)
	others, err := c.others(id)
	if err != nil {
		return nil, err
	}
	if errs := validation.Validate(&updated, others); len(errs) > 0 {
		failure := &ValidationFailure{Errors: errs}
		LogValidationErrors(c.observer, failure)
		return nil, failure
	}

	genesisDoc, err := readFile(filepath.Join(c.cfg.BootnodeDir(id), config.GenesisFile))
	if err != nil {
		return nil, err
	}
	password, err := readFile(c.cfg.NetworkPassword(id))
	if err != nil {
		return nil, err
	}
	status, err := c.orch.Status(ctx, current)
	if err != nil {
		return nil, err
	}

	dir := c.cfg.NodeDir(id, node.Name)
	step := "node/" + node.Name
	steps := []Step{
		{
			Name: step,
			Action: func(ctx context.Context) error {
				miner := node.Type == network.NodeTypeMiner
				if err := prepareNodeDir(dir, string(password), miner); err != nil {
					return err
				}
				if !miner {
					return nil
				}
				account, err := c.orch.ProvisionIdentity(ctx, id, node.Name)
				if err != nil {
					return err
				}
				LogResourceCreated(c.observer, step, "account", "0x"+account)
				return nil
			},
			Compensate: func(context.Context) error { return removeAll(dir) },
		},
		{
			Name: "genesis-init",
			Action: func(ctx context.Context) error {
				if err := writeFile(filepath.Join(dir, config.GenesisFile), genesisDoc); err != nil {
					return err
				}
				return c.orch.InitializeGenesisBlock(ctx, id, node.Name)
			},
		},
	}
	if status.Running {
		steps = append(steps, Step{
			Name: "start",
			Action: func(ctx context.Context) error {
				enode, err := c.orch.EnodeURL(id, current.BootNodeIP)
				if err != nil {
					return err
				}
				return c.orch.StartNode(ctx, node, current.ChainID, id, current.Subnet, enode)
			},
			Compensate: func(ctx context.Context) error { return c.orch.RemoveNode(ctx, id, node.Name) },
		})
	}
	steps = append(steps, Step{
		Name: "registry",
		Action: func(context.Context) error {
			_, err := c.store.AtomicUpdate(replaceNetwork(&updated))
			return err
		},
	})

	c.observer.Printf("adding node %s to network %s", node.Name, id)
	if err := NewSaga(c.observer.WithFields(map[string]string{"network": id}), c.metrics).Run(ctx, steps); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveNode removes the container, directory and registry entry of a node. The
// last miner of a network cannot be removed.
func (c *Controller) RemoveNode(ctx context.Context, id, name string) (_ *network.Network, err error) {
	defer func() { c.record("remove-node", err) }()

	current, err := c.GetNetwork(id)
	if err != nil {
		return nil, err
	}
	node, ok := current.FindNode(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s in network %s", ErrNodeNotFound, name, id)
	}
	if node.Type == network.NodeTypeMiner && len(current.Miners()) == 1 {
		return nil, fmt.Errorf("%w: %s is the only miner of %s", ErrLastMiner, name, id)
	}

	if err := c.orch.RemoveNode(ctx, id, name); err != nil {
		return nil, fmt.Errorf("failed to remove container of %s: %w", name, err)
	}
	if err := removeAll(c.cfg.NodeDir(id, name)); err != nil {
		return nil, err
	}

	updated := current.WithoutNode(name)
	if _, err := c.store.AtomicUpdate(replaceNetwork(&updated)); err != nil {
		return nil, err
	}
	LogResourceDeleted(c.observer, "remove-node", "node", name)
	return &updated, nil
}
