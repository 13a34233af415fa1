package docker

import "context"

// ContainerState is the lifecycle state reported by the engine.
type ContainerState string

// Engine container states plus StateAbsent for containers that do not exist.
const (
	StateCreated    ContainerState = "created"
	StateRunning    ContainerState = "running"
	StatePaused     ContainerState = "paused"
	StateRestarting ContainerState = "restarting"
	StateRemoving   ContainerState = "removing"
	StateExited     ContainerState = "exited"
	StateDead       ContainerState = "dead"
	StateAbsent     ContainerState = "absent"
)

// Active reports whether a container in this state holds a network endpoint.
func (s ContainerState) Active() bool {
	switch s {
	case StateRunning, StatePaused, StateRestarting:
		return true
	}
	return false
}

// ContainerSpec describes a container to create.
type ContainerSpec struct {
	Name       string
	Image      string
	Entrypoint []string
	Cmd        []string
	// Binds are host:container volume mounts.
	Binds       []string
	Network     string
	IPv4Address string
	Hostname    string
	// Ports are published on the same host port over tcp.
	Ports  []int
	Labels map[string]string
}

// ContainerInfo is the subset of inspect output the orchestrator needs.
type ContainerInfo struct {
	ID    string
	Name  string
	Image string
	State ContainerState
}

// NetworkSpec describes a bridge network with a single IPAM subnet.
type NetworkSpec struct {
	Name   string
	Subnet string
	Labels map[string]string
}

// Runtime is the container engine surface used by the orchestrator.
type Runtime interface {
	ImageExists(ctx context.Context, ref string) (bool, error)
	PullImage(ctx context.Context, ref string) error

	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)
	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
	UnpauseContainer(ctx context.Context, name string) error
	RemoveContainer(ctx context.Context, name string, force bool) error
	InspectContainer(ctx context.Context, name string) (ContainerInfo, error)
	// WaitContainer blocks until the container stops and returns its exit code.
	WaitContainer(ctx context.Context, name string) (int64, error)
	// ContainerLogs returns demultiplexed stdout and stderr.
	ContainerLogs(ctx context.Context, name string) (stdout, stderr string, err error)

	CreateNetwork(ctx context.Context, spec NetworkSpec) (string, error)
	RemoveNetwork(ctx context.Context, name string) error
}
