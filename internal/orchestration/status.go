package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/platform/docker"
	"github.com/imamik/cliquenet/internal/util/naming"
)

// ContainerStatus is the state of one container of a network.
type ContainerStatus struct {
	Node      string                `json:"node"`
	Type      network.NodeType      `json:"type"`
	Container string                `json:"container"`
	State     docker.ContainerState `json:"state"`
}

// NetworkStatus aggregates the container states of a network.
type NetworkStatus struct {
	NetworkID  string            `json:"networkId"`
	Running    bool              `json:"running"`
	Containers []ContainerStatus `json:"containers"`
}

// RunningCount is the number of containers in the running state.
func (s NetworkStatus) RunningCount() int {
	count := 0
	for _, c := range s.Containers {
		if c.State == docker.StateRunning {
			count++
		}
	}
	return count
}

// Status inspects the bootnode and every node container. A network is running when
// any of its containers runs.
func (o *Orchestrator) Status(ctx context.Context, n *network.Network) (NetworkStatus, error) {
	status := NetworkStatus{NetworkID: n.ID}

	add := func(node string, typ network.NodeType, name string) error {
		state, err := o.containerState(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to get status of %s: %w", name, err)
		}
		status.Containers = append(status.Containers, ContainerStatus{
			Node:      node,
			Type:      typ,
			Container: name,
			State:     state,
		})
		if state == docker.StateRunning || state == docker.StateRestarting {
			status.Running = true
		}
		return nil
	}

	if err := add(network.BootnodeName, network.NodeTypeBootnode, naming.Bootnode(n.ID)); err != nil {
		return NetworkStatus{}, err
	}
	for _, node := range n.Nodes {
		if err := add(node.Name, node.Type, naming.Node(n.ID, node.Name)); err != nil {
			return NetworkStatus{}, err
		}
	}
	return status, nil
}

func (o *Orchestrator) containerState(ctx context.Context, name string) (docker.ContainerState, error) {
	info, err := o.runtime.InspectContainer(ctx, name)
	if docker.IsNotFound(err) {
		return docker.StateAbsent, nil
	}
	if err != nil {
		return "", err
	}
	return info.State, nil
}
