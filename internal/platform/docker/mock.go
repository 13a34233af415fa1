package docker

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// StartResult is what a simulated process produces when its container starts.
type StartResult struct {
	// Exited marks a one-shot process; the container is exited after WaitContainer.
	Exited   bool
	ExitCode int64
	Stdout   string
	Stderr   string
}

// MockContainer is the in-memory record of a container.
type MockContainer struct {
	ID     string
	Spec   ContainerSpec
	State  ContainerState
	Result StartResult
}

// Call records one Runtime invocation.
type Call struct {
	Method string
	Target string
}

// MockRuntime is an in-memory Runtime. Each method can be overridden with its
// Func field; otherwise it operates on the Containers, Networks and Images maps.
type MockRuntime struct {
	mu sync.Mutex

	Images     map[string]bool
	Containers map[string]*MockContainer
	Networks   map[string]NetworkSpec
	Calls      []Call

	// OnStart simulates the process started in a container. Returning an error fails
	// StartContainer.
	OnStart func(spec ContainerSpec) (StartResult, error)

	ImageExistsFunc      func(ctx context.Context, ref string) (bool, error)
	PullImageFunc        func(ctx context.Context, ref string) error
	CreateContainerFunc  func(ctx context.Context, spec ContainerSpec) (string, error)
	StartContainerFunc   func(ctx context.Context, name string) error
	StopContainerFunc    func(ctx context.Context, name string) error
	UnpauseContainerFunc func(ctx context.Context, name string) error
	RemoveContainerFunc  func(ctx context.Context, name string, force bool) error
	InspectContainerFunc func(ctx context.Context, name string) (ContainerInfo, error)
	WaitContainerFunc    func(ctx context.Context, name string) (int64, error)
	ContainerLogsFunc    func(ctx context.Context, name string) (string, string, error)
	CreateNetworkFunc    func(ctx context.Context, spec NetworkSpec) (string, error)
	RemoveNetworkFunc    func(ctx context.Context, name string) error

	nextID int
}

// NewMockRuntime returns an empty MockRuntime.
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Images:     make(map[string]bool),
		Containers: make(map[string]*MockContainer),
		Networks:   make(map[string]NetworkSpec),
	}
}

func (m *MockRuntime) record(method, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: method, Target: target})
	if m.Images == nil {
		m.Images = make(map[string]bool)
	}
	if m.Containers == nil {
		m.Containers = make(map[string]*MockContainer)
	}
	if m.Networks == nil {
		m.Networks = make(map[string]NetworkSpec)
	}
}

// CallsTo returns the targets of every call to method, in order.
func (m *MockRuntime) CallsTo(method string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var targets []string
	for _, c := range m.Calls {
		if c.Method == method {
			targets = append(targets, c.Target)
		}
	}
	return targets
}

// ContainerNames returns the names of existing containers, sorted.
func (m *MockRuntime) ContainerNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.Containers))
	for name := range m.Containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetState forces the state of an existing container.
func (m *MockRuntime) SetState(name string, state ContainerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Containers[name]; ok {
		c.State = state
	}
}

func (m *MockRuntime) ImageExists(ctx context.Context, ref string) (bool, error) {
	m.record("ImageExists", ref)
	if m.ImageExistsFunc != nil {
		return m.ImageExistsFunc(ctx, ref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Images[ref], nil
}

func (m *MockRuntime) PullImage(ctx context.Context, ref string) error {
	m.record("PullImage", ref)
	if m.PullImageFunc != nil {
		return m.PullImageFunc(ctx, ref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images[ref] = true
	return nil
}

func (m *MockRuntime) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	m.record("CreateContainer", spec.Name)
	if m.CreateContainerFunc != nil {
		return m.CreateContainerFunc(ctx, spec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Containers[spec.Name]; exists {
		return "", &RuntimeError{Op: "create", Target: spec.Name, Err: fmt.Errorf("name already in use")}
	}
	if spec.Network != "" {
		if _, ok := m.Networks[spec.Network]; !ok {
			return "", &RuntimeError{Op: "create", Target: spec.Name, Err: fmt.Errorf("network %s: %w", spec.Network, ErrNotFound)}
		}
	}
	m.nextID++
	id := fmt.Sprintf("mock-%d", m.nextID)
	m.Containers[spec.Name] = &MockContainer{ID: id, Spec: spec, State: StateCreated}
	return id, nil
}

func (m *MockRuntime) StartContainer(ctx context.Context, name string) error {
	m.record("StartContainer", name)
	if m.StartContainerFunc != nil {
		return m.StartContainerFunc(ctx, name)
	}

	m.mu.Lock()
	c, ok := m.Containers[name]
	onStart := m.OnStart
	m.mu.Unlock()
	if !ok {
		return notFound("start", name)
	}

	var result StartResult
	if onStart != nil {
		var err error
		result, err = onStart(c.Spec)
		if err != nil {
			return &RuntimeError{Op: "start", Target: name, Err: err}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c.Result = result
	c.State = StateRunning
	return nil
}

func (m *MockRuntime) StopContainer(ctx context.Context, name string) error {
	m.record("StopContainer", name)
	if m.StopContainerFunc != nil {
		return m.StopContainerFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Containers[name]
	if !ok {
		return notFound("stop", name)
	}
	if c.State == StatePaused {
		return &RuntimeError{Op: "stop", Target: name, Err: fmt.Errorf("container is paused")}
	}
	c.State = StateExited
	return nil
}

func (m *MockRuntime) UnpauseContainer(ctx context.Context, name string) error {
	m.record("UnpauseContainer", name)
	if m.UnpauseContainerFunc != nil {
		return m.UnpauseContainerFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Containers[name]
	if !ok {
		return notFound("unpause", name)
	}
	c.State = StateRunning
	return nil
}

func (m *MockRuntime) RemoveContainer(ctx context.Context, name string, force bool) error {
	m.record("RemoveContainer", name)
	if m.RemoveContainerFunc != nil {
		return m.RemoveContainerFunc(ctx, name, force)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Containers[name]
	if !ok {
		return notFound("remove", name)
	}
	if c.State == StateRunning && !force {
		return &RuntimeError{Op: "remove", Target: name, Err: fmt.Errorf("container is running")}
	}
	delete(m.Containers, name)
	return nil
}

func (m *MockRuntime) InspectContainer(ctx context.Context, name string) (ContainerInfo, error) {
	m.record("InspectContainer", name)
	if m.InspectContainerFunc != nil {
		return m.InspectContainerFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Containers[name]
	if !ok {
		return ContainerInfo{}, notFound("inspect", name)
	}
	return ContainerInfo{ID: c.ID, Name: name, Image: c.Spec.Image, State: c.State}, nil
}

func (m *MockRuntime) WaitContainer(ctx context.Context, name string) (int64, error) {
	m.record("WaitContainer", name)
	if m.WaitContainerFunc != nil {
		return m.WaitContainerFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Containers[name]
	if !ok {
		return -1, notFound("wait", name)
	}
	if c.State == StateRunning && !c.Result.Exited {
		return -1, &RuntimeError{Op: "wait", Target: name, Err: fmt.Errorf("process does not exit")}
	}
	c.State = StateExited
	return c.Result.ExitCode, nil
}

func (m *MockRuntime) ContainerLogs(ctx context.Context, name string) (string, string, error) {
	m.record("ContainerLogs", name)
	if m.ContainerLogsFunc != nil {
		return m.ContainerLogsFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Containers[name]
	if !ok {
		return "", "", notFound("logs", name)
	}
	return c.Result.Stdout, c.Result.Stderr, nil
}

func (m *MockRuntime) CreateNetwork(ctx context.Context, spec NetworkSpec) (string, error) {
	m.record("CreateNetwork", spec.Name)
	if m.CreateNetworkFunc != nil {
		return m.CreateNetworkFunc(ctx, spec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Networks[spec.Name]; exists {
		return "", &RuntimeError{Op: "create network", Target: spec.Name, Err: fmt.Errorf("network already exists")}
	}
	m.Networks[spec.Name] = spec
	return "net-" + spec.Name, nil
}

func (m *MockRuntime) RemoveNetwork(ctx context.Context, name string) error {
	m.record("RemoveNetwork", name)
	if m.RemoveNetworkFunc != nil {
		return m.RemoveNetworkFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Networks[name]; !ok {
		return notFound("remove network", name)
	}
	for cname, c := range m.Containers {
		if c.Spec.Network == name && c.State.Active() {
			return &RuntimeError{Op: "remove network", Target: name,
				Err: fmt.Errorf("network has active endpoints (%s)", cname)}
		}
	}
	delete(m.Networks, name)
	return nil
}

func notFound(op, target string) error {
	return &RuntimeError{Op: op, Target: target, Err: ErrNotFound}
}
