package docker

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceCompliance(_ *testing.T) {
	var _ Runtime = (*RealClient)(nil)
	var _ Runtime = (*MockRuntime)(nil)
}

func TestRuntimeError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := wrap("start", "net1-m1", cause)

	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "start", rerr.Op)
	assert.Equal(t, "net1-m1", rerr.Target)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "docker start net1-m1: boom", err.Error())
	assert.False(t, IsNotFound(err))
	assert.NoError(t, wrap("start", "x", nil))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	engine := errdefs.NotFound(errors.New("no such container"))
	assert.True(t, IsNotFound(engine))
	assert.True(t, IsNotFound(wrap("inspect", "c", engine)))
	assert.True(t, errors.Is(wrap("inspect", "c", engine), ErrNotFound))
	assert.True(t, IsNotFound(notFound("inspect", "c")))
	assert.False(t, IsNotFound(nil))
}

func TestMockRuntime_ContainerLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMockRuntime()
	m.OnStart = func(spec ContainerSpec) (StartResult, error) {
		return StartResult{Exited: true, ExitCode: 3, Stdout: spec.Name + " out"}, nil
	}

	_, err := m.CreateContainer(ctx, ContainerSpec{Name: "c", Network: "missing"})
	assert.True(t, IsNotFound(err))

	_, err = m.CreateNetwork(ctx, NetworkSpec{Name: "n", Subnet: "10.0.0.0/24"})
	require.NoError(t, err)

	id, err := m.CreateContainer(ctx, ContainerSpec{Name: "c", Network: "n"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = m.CreateContainer(ctx, ContainerSpec{Name: "c"})
	assert.Error(t, err)

	require.NoError(t, m.StartContainer(ctx, "c"))
	info, err := m.InspectContainer(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, StateRunning, info.State)

	code, err := m.WaitContainer(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(3), code)

	stdout, _, err := m.ContainerLogs(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "c out", stdout)

	require.NoError(t, m.RemoveContainer(ctx, "c", false))
	_, err = m.InspectContainer(ctx, "c")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, []string{"c", "c"}, m.CallsTo("InspectContainer"))
}

func TestMockRuntime_RunningContainerNeedsStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMockRuntime()
	_, err := m.CreateContainer(ctx, ContainerSpec{Name: "c"})
	require.NoError(t, err)
	require.NoError(t, m.StartContainer(ctx, "c"))

	assert.Error(t, m.RemoveContainer(ctx, "c", false))
	_, err = m.WaitContainer(ctx, "c")
	assert.Error(t, err)

	m.SetState("c", StatePaused)
	assert.Error(t, m.StopContainer(ctx, "c"))
	require.NoError(t, m.UnpauseContainer(ctx, "c"))
	require.NoError(t, m.StopContainer(ctx, "c"))
	require.NoError(t, m.RemoveContainer(ctx, "c", false))
	assert.Empty(t, m.ContainerNames())
}

func TestMockRuntime_NetworkWithActiveEndpoints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMockRuntime()
	_, err := m.CreateNetwork(ctx, NetworkSpec{Name: "net1", Subnet: "10.0.0.0/24"})
	require.NoError(t, err)
	_, err = m.CreateContainer(ctx, ContainerSpec{Name: "c", Network: "net1", IPv4Address: "10.0.0.10"})
	require.NoError(t, err)
	require.NoError(t, m.StartContainer(ctx, "c"))

	err = m.RemoveNetwork(ctx, "net1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, m.Networks, "net1")

	require.NoError(t, m.StopContainer(ctx, "c"))
	require.NoError(t, m.RemoveNetwork(ctx, "net1"))
	assert.NotContains(t, m.Networks, "net1")
}

func TestMockRuntime_FuncOverrides(t *testing.T) {
	t.Parallel()

	expected := errors.New("pull failed")
	m := &MockRuntime{
		PullImageFunc: func(_ context.Context, ref string) error {
			assert.Equal(t, "img", ref)
			return expected
		},
	}

	assert.ErrorIs(t, m.PullImage(context.Background(), "img"), expected)
	ok, err := m.ImageExists(context.Background(), "img")
	require.NoError(t, err)
	assert.False(t, ok)
}
