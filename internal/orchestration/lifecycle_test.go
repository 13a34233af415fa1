package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/platform/docker"
	testutil "github.com/imamik/cliquenet/internal/testing"
	"github.com/imamik/cliquenet/internal/util/labels"
)

// provisioned prepares the on-disk state StartNetwork expects for n.
func (f *fixture) provisioned(t *testing.T, n *network.Network) {
	t.Helper()
	ctx := context.Background()
	f.prepareDir(t, n.ID, network.BootnodeName)
	require.NoError(t, f.orch.ProvisionBootnodeKeys(ctx, n.ID))
	for _, node := range n.Nodes {
		f.prepareDir(t, n.ID, node.Name)
		if node.Type == network.NodeTypeMiner {
			_, err := f.orch.ProvisionIdentity(ctx, n.ID, node.Name)
			require.NoError(t, err)
		}
	}
	f.rt.Calls = nil
}

func TestCreateVirtualNetwork(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.orch.CreateVirtualNetwork(ctx, "net1", "10.0.0.0/24"))
	// A second call replaces the existing network.
	require.NoError(t, f.orch.CreateVirtualNetwork(ctx, "net1", "10.0.0.0/24"))

	spec, ok := f.rt.Networks["net1"]
	require.True(t, ok)
	assert.Equal(t, "10.0.0.0/24", spec.Subnet)
	assert.Equal(t, "net1", spec.Labels[labels.KeyNetwork])
	assert.Equal(t, "net1 private ethnetwork", spec.Labels[labels.KeyProject])
	assert.Equal(t, []string{"net1", "net1"}, f.rt.CallsTo("RemoveNetwork"))
}

func TestStartNetwork(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	n := testutil.NewNetworkBuilder().
		WithNodes(
			network.Node{Name: "m1", Type: network.NodeTypeMiner, IP: "10.0.0.11"},
			network.Node{Name: "r1", Type: network.NodeTypeRPC, IP: "10.0.0.12", Port: 8545},
			network.Node{Name: "n1", Type: network.NodeTypeNormal, IP: "10.0.0.13"},
		).
		Build()
	f.provisioned(t, n)

	require.NoError(t, f.orch.StartNetwork(context.Background(), n))

	assert.Equal(t, []string{"net1-bootnode", "net1-m1", "net1-r1", "net1-n1"}, f.rt.CallsTo("StartContainer"))
	assert.Equal(t, []string{"net1-bootnode", "net1-m1", "net1-n1", "net1-r1"}, f.rt.ContainerNames())

	boot := f.rt.Containers["net1-bootnode"]
	assert.Equal(t, f.cfg.ToolsImage, boot.Spec.Image)
	assert.Equal(t, "10.0.0.10", boot.Spec.IPv4Address)
	assert.Equal(t, "net1", boot.Spec.Network)
	assert.Contains(t, boot.Spec.Cmd, "-addr=10.0.0.10:30301")

	miner := f.rt.Containers["net1-m1"]
	account := f.sim.Accounts["net1-m1-init"]
	assert.Contains(t, miner.Spec.Cmd, "--miner.etherbase=0x"+account)
	assert.Contains(t, miner.Spec.Cmd, "--networkid=4242")
	assert.Equal(t, docker.StateRunning, miner.State)
	assert.Empty(t, miner.Spec.Ports)

	rpc := f.rt.Containers["net1-r1"]
	assert.Equal(t, []int{8545}, rpc.Spec.Ports)
	assert.Equal(t, "r1", rpc.Spec.Labels[labels.KeyNode])

	enodeURL, err := f.orch.EnodeURL("net1", "10.0.0.10")
	require.NoError(t, err)
	assert.Contains(t, rpc.Spec.Cmd, "--bootnodes="+enodeURL)
}

func TestStartNetwork_Reentrant(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	n := testutil.NewNetworkBuilder().Build()
	f.provisioned(t, n)
	ctx := context.Background()

	require.NoError(t, f.orch.StartNetwork(ctx, n))
	for _, name := range []string{"net1-bootnode", "net1-m1", "net1-r1"} {
		require.Equal(t, docker.StateRunning, f.rt.Containers[name].State, name)
	}

	// The running containers hold endpoints on the bridge until they are cleared.
	require.NoError(t, f.orch.StartNetwork(ctx, n))

	assert.Equal(t, []string{"net1-bootnode", "net1-m1", "net1-r1"}, f.rt.ContainerNames())
	assert.Equal(t, []string{"net1-bootnode", "net1-m1", "net1-r1"}, f.rt.CallsTo("StopContainer"))
	assert.Equal(t, []string{"net1", "net1"}, f.rt.CallsTo("RemoveNetwork"))
	for _, name := range []string{"net1-bootnode", "net1-m1", "net1-r1"} {
		assert.Equal(t, docker.StateRunning, f.rt.Containers[name].State, name)
	}
}

func TestStartNode_MinerWithoutAccount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.prepareDir(t, "net1", "m1")

	err := f.orch.StartNode(context.Background(), network.Node{Name: "m1", Type: network.NodeTypeMiner, IP: "10.0.0.11"},
		4242, "net1", "10.0.0.0/24", "enode://x@10.0.0.10:30301")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m1")
	assert.Empty(t, f.rt.CallsTo("CreateContainer"))
}

func TestStartNode_BuildsCommandBeforeCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.orch.StartNode(context.Background(), network.Node{Name: "r1", Type: network.NodeTypeRPC, IP: "10.0.0.12"},
		4242, "net1", "10.0.0.0/24", "enode://x@10.0.0.10:30301")
	require.Error(t, err)
	assert.Empty(t, f.rt.CallsTo("CreateContainer"))
}

func TestStopNetwork(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	n := testutil.NewNetworkBuilder().Build()
	f.provisioned(t, n)
	ctx := context.Background()
	require.NoError(t, f.orch.StartNetwork(ctx, n))
	f.rt.SetState("net1-r1", docker.StatePaused)
	delete(f.rt.Containers, "net1-m1")

	require.NoError(t, f.orch.StopNetwork(ctx, n))

	status, err := f.orch.Status(ctx, n)
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Equal(t, []ContainerStatus{
		{Node: "bootnode", Type: network.NodeTypeBootnode, Container: "net1-bootnode", State: docker.StateExited},
		{Node: "m1", Type: network.NodeTypeMiner, Container: "net1-m1", State: docker.StateAbsent},
		{Node: "r1", Type: network.NodeTypeRPC, Container: "net1-r1", State: docker.StateExited},
	}, status.Containers)
}

func TestStopNetwork_JoinsErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	n := testutil.NewNetworkBuilder().Build()
	f.provisioned(t, n)
	ctx := context.Background()
	require.NoError(t, f.orch.StartNetwork(ctx, n))

	f.rt.StopContainerFunc = func(_ context.Context, name string) error {
		return &docker.RuntimeError{Op: "stop", Target: name, Err: errors.New("timeout")}
	}

	err := f.orch.StopNetwork(ctx, n)
	require.Error(t, err)
	assert.Equal(t, []string{"net1-bootnode", "net1-m1", "net1-r1"}, f.rt.CallsTo("StopContainer"))
	assert.Contains(t, err.Error(), "net1-r1")
}

func TestRemoveNetwork(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	n := testutil.NewNetworkBuilder().Build()
	f.provisioned(t, n)
	ctx := context.Background()
	require.NoError(t, f.orch.StartNetwork(ctx, n))

	require.NoError(t, f.orch.RemoveNetwork(ctx, n))
	assert.Empty(t, f.rt.ContainerNames())
	assert.Empty(t, f.rt.Networks)

	// Nothing left: a second removal is a no-op.
	require.NoError(t, f.orch.RemoveNetwork(ctx, n))
}

func TestStatus_Running(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	n := testutil.NewNetworkBuilder().Build()
	f.provisioned(t, n)
	ctx := context.Background()

	status, err := f.orch.Status(ctx, n)
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Equal(t, 0, status.RunningCount())

	require.NoError(t, f.orch.StartNetwork(ctx, n))
	status, err = f.orch.Status(ctx, n)
	require.NoError(t, err)
	assert.True(t, status.Running)
	assert.Equal(t, 3, status.RunningCount())
}

func TestEnodeURL_MissingKey(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.orch.EnodeURL("net1", "10.0.0.10")
	assert.Error(t, err)

	dir := f.cfg.BootnodeDir("net1")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.PublicKeyFile), []byte("abcd"), 0o600))
	_, err = f.orch.EnodeURL("net1", "10.0.0.10")
	assert.ErrorContains(t, err, "64")
}

func TestRunAll(t *testing.T) {
	t.Parallel()
	var order []string
	task := func(name string, err error) Task {
		return Task{Name: name, Func: func(context.Context) error {
			order = append(order, name)
			return err
		}}
	}

	err := RunAll(context.Background(), []Task{
		task("a", nil),
		task("b", errors.New("boom")),
		task("c", nil),
	})

	require.Error(t, err)
	assert.Equal(t, "b: boom", err.Error())
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.NoError(t, RunAll(context.Background(), nil))
}
