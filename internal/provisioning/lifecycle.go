package provisioning

import (
	"context"
	"errors"
	"fmt"
)

// StartNetwork starts the virtual network, bootnode and nodes of network id.
func (c *Controller) StartNetwork(ctx context.Context, id string) (err error) {
	defer func() { c.record("start", err) }()

	n, err := c.GetNetwork(id)
	if err != nil {
		return err
	}
	c.observer.Printf("starting network %s", id)
	if err := c.orch.StartNetwork(ctx, n); err != nil {
		return fmt.Errorf("failed to start network %s: %w", id, err)
	}
	return nil
}

// StopNetwork stops every container of network id. Missing containers are ignored.
func (c *Controller) StopNetwork(ctx context.Context, id string) (err error) {
	defer func() { c.record("stop", err) }()

	n, err := c.GetNetwork(id)
	if err != nil {
		return err
	}
	c.observer.Printf("stopping network %s", id)
	if err := c.orch.StopNetwork(ctx, n); err != nil {
		return fmt.Errorf("failed to stop network %s: %w", id, err)
	}
	return nil
}

// DeleteNetwork removes the containers, virtual network, directory tree and
// registry entry of network id. Every part is attempted even when an earlier one
// fails; the failures are joined.
func (c *Controller) DeleteNetwork(ctx context.Context, id string) (err error) {
	defer func() { c.record("delete", err) }()

	n, err := c.GetNetwork(id)
	if err != nil {
		return err
	}
	c.observer.Printf("deleting network %s", id)

	var errs []error
	if err := c.orch.RemoveNetwork(ctx, n); err != nil {
		errs = append(errs, fmt.Errorf("containers: %w", err))
	} else {
		LogResourceDeleted(c.observer, "delete", "containers", id)
	}

	dir := c.cfg.NetworkDir(id)
	if err := removeAll(dir); err != nil {
		errs = append(errs, err)
	} else {
		LogResourceDeleted(c.observer, "delete", "directory", dir)
	}

	if _, err := c.store.AtomicUpdate(removeNetwork(id)); err != nil {
		errs = append(errs, fmt.Errorf("registry: %w", err))
	} else {
		LogResourceDeleted(c.observer, "delete", "registry-entry", id)
	}

	return errors.Join(errs...)
}
