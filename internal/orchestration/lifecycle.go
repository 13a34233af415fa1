package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/imamik/cliquenet/internal/command"
	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/platform/docker"
	"github.com/imamik/cliquenet/internal/util/labels"
	"github.com/imamik/cliquenet/internal/util/naming"
)

// CreateVirtualNetwork recreates the bridge network of a chain network.
func (o *Orchestrator) CreateVirtualNetwork(ctx context.Context, networkID, subnet string) error {
	name := naming.VirtualNetwork(networkID)
	if err := o.runtime.RemoveNetwork(ctx, name); err != nil && !docker.IsNotFound(err) {
		return fmt.Errorf("failed to remove existing virtual network: %w", err)
	}

	_, err := o.runtime.CreateNetwork(ctx, docker.NetworkSpec{
		Name:   name,
		Subnet: subnet,
		Labels: labels.NewLabelBuilder(networkID).WithProject(networkID).Build(),
	})
	if err != nil {
		return fmt.Errorf("failed to create virtual network: %w", err)
	}
	o.log.Info("virtual network created", "network", networkID, "subnet", subnet)
	return nil
}

// StartBootnode starts the discovery node and returns its enode URL once the settle
// interval has passed.
func (o *Orchestrator) StartBootnode(ctx context.Context, networkID, bootIP, subnet string) (string, error) {
	name := naming.Bootnode(networkID)
	if err := o.RemoveIfExists(ctx, name); err != nil {
		return "", fmt.Errorf("failed to start bootnode: %w", err)
	}

	args, err := command.Build(network.NodeTypeBootnode, command.Params{BootNodeIP: bootIP, Subnet: subnet})
	if err != nil {
		return "", fmt.Errorf("failed to start bootnode: %w", err)
	}
	bind, err := bindMount(o.cfg.BootnodeDir(networkID), command.DataDir)
	if err != nil {
		return "", fmt.Errorf("failed to start bootnode: %w", err)
	}

	_, err = o.runtime.CreateContainer(ctx, docker.ContainerSpec{
		Name:        name,
		Image:       o.cfg.ToolsImage,
		Entrypoint:  []string{"bootnode"},
		Cmd:         args,
		Binds:       []string{bind},
		Network:     naming.VirtualNetwork(networkID),
		IPv4Address: bootIP,
		Hostname:    name,
		Labels: labels.NewLabelBuilder(networkID).
			WithNode(network.BootnodeName).
			WithRole(string(network.NodeTypeBootnode)).
			Build(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to start bootnode: %w", err)
	}
	if err := o.runtime.StartContainer(ctx, name); err != nil {
		return "", fmt.Errorf("failed to start bootnode: %w", err)
	}
	o.log.Info("bootnode started", "network", networkID, "ip", bootIP)

	if err := sleep(ctx, o.cfg.BootnodeSettle); err != nil {
		return "", err
	}

	url, err := o.EnodeURL(networkID, bootIP)
	if err != nil {
		return "", fmt.Errorf("failed to start bootnode: %w", err)
	}
	return url, nil
}

// StartNode starts a client node attached to the network's bootnode.
func (o *Orchestrator) StartNode(ctx context.Context, node network.Node, chainID uint64, networkID, subnet, bootnodeEnode string) error {
	name := naming.Node(networkID, node.Name)

	params := command.Params{
		ChainID:       strconv.FormatUint(chainID, 10),
		NodeIP:        node.IP,
		Subnet:        subnet,
		BootnodeEnode: bootnodeEnode,
		Port:          node.Port,
	}
	if node.Type == network.NodeTypeMiner {
		account, err := o.SignerAccount(networkID, node.Name)
		if err != nil {
			return fmt.Errorf("failed to start %s node %s: %w", node.Type, node.Name, err)
		}
		params.Account = account
	}

	args, err := command.Build(node.Type, params)
	if err != nil {
		return fmt.Errorf("failed to start %s node %s: %w", node.Type, node.Name, err)
	}

	if err := o.RemoveIfExists(ctx, name); err != nil {
		return fmt.Errorf("failed to start %s node %s: %w", node.Type, node.Name, err)
	}

	bind, err := bindMount(o.cfg.NodeDir(networkID, node.Name), command.NodeDataDir)
	if err != nil {
		return err
	}

	spec := docker.ContainerSpec{
		Name:        name,
		Image:       o.cfg.ClientImage,
		Entrypoint:  []string{"geth"},
		Cmd:         args,
		Binds:       []string{bind},
		Network:     naming.VirtualNetwork(networkID),
		IPv4Address: node.IP,
		Hostname:    name,
		Labels: labels.NewLabelBuilder(networkID).
			WithNode(node.Name).
			WithRole(string(node.Type)).
			Build(),
	}
	if node.Type == network.NodeTypeRPC {
		spec.Ports = []int{node.Port}
	}

	if _, err := o.runtime.CreateContainer(ctx, spec); err != nil {
		return fmt.Errorf("failed to start %s node %s: %w", node.Type, node.Name, err)
	}
	if err := o.runtime.StartContainer(ctx, name); err != nil {
		return fmt.Errorf("failed to start %s node %s: %w", node.Type, node.Name, err)
	}
	o.log.Info("node started", "network", networkID, "node", node.Name, "type", string(node.Type), "ip", node.IP)
	return nil
}

// StartNetwork brings up the whole network: images, virtual network, bootnode and
// then every node in declaration order.
func (o *Orchestrator) StartNetwork(ctx context.Context, n *network.Network) error {
	log := o.log.WithValues("network", n.ID)
	log.Info("starting network", "nodes", len(n.Nodes))

	if err := o.EnsureImage(ctx); err != nil {
		return err
	}
	// The bridge cannot be recreated while containers are still attached to it.
	for _, name := range containerNames(n) {
		if err := o.RemoveIfExists(ctx, name); err != nil {
			return fmt.Errorf("failed to clear container %s: %w", name, err)
		}
	}
	if err := o.CreateVirtualNetwork(ctx, n.ID, n.Subnet); err != nil {
		return err
	}
	enodeURL, err := o.StartBootnode(ctx, n.ID, n.BootNodeIP, n.Subnet)
	if err != nil {
		return err
	}

	for i, node := range n.Nodes {
		if i > 0 {
			if err := sleep(ctx, o.cfg.NodeStartDelay); err != nil {
				return err
			}
		}
		if err := o.StartNode(ctx, node, n.ChainID, n.ID, n.Subnet, enodeURL); err != nil {
			return err
		}
	}

	log.Info("network started")
	return nil
}

// StopNetwork stops every running container of the network, bootnode first.
// Missing containers are skipped and every stop is attempted.
func (o *Orchestrator) StopNetwork(ctx context.Context, n *network.Network) error {
	names := containerNames(n)
	tasks := make([]Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, Task{Name: name, Func: func(ctx context.Context) error {
			return o.stopIfRunning(ctx, name)
		}})
	}
	if err := RunAll(ctx, tasks); err != nil {
		return fmt.Errorf("failed to stop network %s: %w", n.ID, err)
	}
	o.log.Info("network stopped", "network", n.ID)
	return nil
}

// RemoveNetwork removes every container of the network and its virtual network.
// Every removal is attempted; failures are joined.
func (o *Orchestrator) RemoveNetwork(ctx context.Context, n *network.Network) error {
	var errs []error
	for _, name := range containerNames(n) {
		if err := o.RemoveIfExists(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := o.runtime.RemoveNetwork(ctx, naming.VirtualNetwork(n.ID)); err != nil && !docker.IsNotFound(err) {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to remove network %s: %w", n.ID, err)
	}
	o.log.Info("network containers removed", "network", n.ID)
	return nil
}

// RemoveNode removes the container of a single node.
func (o *Orchestrator) RemoveNode(ctx context.Context, networkID, node string) error {
	return o.RemoveIfExists(ctx, naming.Container(networkID, node))
}

func (o *Orchestrator) stopIfRunning(ctx context.Context, name string) error {
	info, err := o.runtime.InspectContainer(ctx, name)
	if docker.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	switch info.State {
	case docker.StateRunning, docker.StateRestarting:
		return o.runtime.StopContainer(ctx, name)
	case docker.StatePaused:
		if err := o.runtime.UnpauseContainer(ctx, name); err != nil {
			return err
		}
		return o.runtime.StopContainer(ctx, name)
	default:
		return nil
	}
}

// containerNames lists the bootnode container followed by every node container.
func containerNames(n *network.Network) []string {
	names := make([]string, 0, len(n.Nodes)+1)
	names = append(names, naming.Bootnode(n.ID))
	for _, node := range n.Nodes {
		names = append(names, naming.Node(n.ID, node.Name))
	}
	return names
}
