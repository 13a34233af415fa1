package registry

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/cliquenet/internal/network"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "state", "networks.json"), logr.Discard())
}

func appendNetwork(id string) Mutator {
	return func(networks []network.Network) ([]network.Network, error) {
		return append(networks, network.Network{
			ID:          id,
			ChainID:     4242,
			Subnet:      "10.0.0.0/24",
			BootNodeIP:  "10.0.0.10",
			Allocations: []network.Allocation{},
			Nodes:       []network.Node{{Name: "m1", Type: network.NodeTypeMiner, IP: "10.0.0.11"}},
		}), nil
	}
}

func TestRead_MissingFileInitializes(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)

	networks, err := r.Read()
	require.NoError(t, err)
	assert.Empty(t, networks)

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestRead_Corrupt(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(r.Path()), 0o750))
	require.NoError(t, os.WriteFile(r.Path(), []byte("{not json"), 0o600))

	_, err := r.Read()
	var fsErr *FileSystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "parse", fsErr.Op)
}

func TestRead_TornDocumentRestoresBackup(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	_, err := r.AtomicUpdate(appendNetwork("net1"))
	require.NoError(t, err)
	good, err := os.ReadFile(r.Path())
	require.NoError(t, err)

	// an update was interrupted after the backup and halfway through the write
	require.NoError(t, os.WriteFile(r.BackupPath(), good, 0o600))
	require.NoError(t, os.WriteFile(r.Path(), []byte(`[{"id": "ne`), 0o600))

	networks, err := r.Read()
	require.NoError(t, err)
	require.Len(t, networks, 1)
	assert.Equal(t, "net1", networks[0].ID)

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, string(good), string(data))
	assert.NoFileExists(t, r.BackupPath())

	_, err = r.AtomicUpdate(appendNetwork("net2"))
	require.NoError(t, err)
}

func TestRead_CorruptBackupIsIgnored(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(r.Path()), 0o750))
	require.NoError(t, os.WriteFile(r.Path(), []byte("{not json"), 0o600))
	require.NoError(t, os.WriteFile(r.BackupPath(), []byte("[{"), 0o600))

	_, err := r.Read()
	var fsErr *FileSystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, r.Path(), fsErr.Path)
	assert.FileExists(t, r.BackupPath())
}

func TestAtomicUpdate_Append(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)

	updated, err := r.AtomicUpdate(appendNetwork("net1"))
	require.NoError(t, err)
	require.Len(t, updated, 1)

	updated, err = r.AtomicUpdate(appendNetwork("net2"))
	require.NoError(t, err)
	require.Len(t, updated, 2)

	n, ok, err := r.Find("net2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "net2", n.ID)

	_, ok, err = r.Find("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoFileExists(t, r.BackupPath())

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"net1\"")
	assert.Contains(t, string(data), `"bootNodeIP": "10.0.0.10"`)
}

func TestAtomicUpdate_WriteFailureRestores(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	_, err := r.AtomicUpdate(appendNetwork("net1"))
	require.NoError(t, err)

	before, err := os.ReadFile(r.Path())
	require.NoError(t, err)

	r.writeFile = func(name string, _ []byte, perm fs.FileMode) error {
		// Leave a torn document behind, as a crash mid-write would.
		if err := os.WriteFile(name, []byte(`[{"id": "ne`), perm); err != nil {
			return err
		}
		return errors.New("disk full")
	}

	_, err = r.AtomicUpdate(appendNetwork("net2"))
	require.Error(t, err)
	var fsErr *FileSystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "write", fsErr.Op)

	after, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.NoFileExists(t, r.BackupPath())
}

func TestAtomicUpdate_ConsistencyFailureRestores(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	_, err := r.AtomicUpdate(appendNetwork("net1"))
	require.NoError(t, err)
	before, err := os.ReadFile(r.Path())
	require.NoError(t, err)

	r.writeFile = func(name string, _ []byte, perm fs.FileMode) error {
		return os.WriteFile(name, []byte("[]"), perm)
	}

	_, err = r.AtomicUpdate(appendNetwork("net2"))
	var cErr *ConsistencyError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, 2, cErr.Expected)
	assert.Equal(t, 0, cErr.Actual)

	after, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestAtomicUpdate_MutatorErrorLeavesRegistry(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	_, err := r.AtomicUpdate(appendNetwork("net1"))
	require.NoError(t, err)
	before, err := os.ReadFile(r.Path())
	require.NoError(t, err)

	sentinel := errors.New("not allowed")
	_, err = r.AtomicUpdate(func([]network.Network) ([]network.Network, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	after, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.NoFileExists(t, r.BackupPath())
}

func TestAtomicUpdate_Remove(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	_, err := r.AtomicUpdate(appendNetwork("net1"))
	require.NoError(t, err)

	updated, err := r.AtomicUpdate(func(networks []network.Network) ([]network.Network, error) {
		i := network.Index(networks, "net1")
		return append(networks[:i], networks[i+1:]...), nil
	})
	require.NoError(t, err)
	assert.Empty(t, updated)

	networks, err := r.Read()
	require.NoError(t, err)
	assert.Empty(t, networks)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	fsErr := &FileSystemError{Op: "write", Path: "/x", Err: fs.ErrPermission}
	assert.Equal(t, "write /x: permission denied", fsErr.Error())
	assert.ErrorIs(t, fsErr, fs.ErrPermission)

	cErr := &ConsistencyError{Expected: 2, Actual: 1}
	assert.Contains(t, cErr.Error(), "expected 2")
}
