package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/imamik/cliquenet/internal/network"
)

// BackupSuffix is appended to the registry path for the update backup.
const BackupSuffix = ".bak"

// Mutator returns the new network list from the current one.
type Mutator func(networks []network.Network) ([]network.Network, error)

// Registry reads and updates the registry document.
type Registry struct {
	path string
	log  logr.Logger

	// writeFile is replaceable in tests to inject write failures.
	writeFile func(name string, data []byte, perm fs.FileMode) error
}

// New returns a Registry stored at path.
func New(path string, log logr.Logger) *Registry {
	return &Registry{
		path:      path,
		log:       log.WithName("registry"),
		writeFile: os.WriteFile,
	}
}

// Path is the location of the registry document.
func (r *Registry) Path() string {
	return r.path
}

// BackupPath is the location of the backup kept during updates.
func (r *Registry) BackupPath() string {
	return r.path + BackupSuffix
}

// Read returns every network. A missing registry is created empty. When the
// document cannot be read but an update backup is present, the backup is
// restored and returned.
func (r *Registry) Read() ([]network.Network, error) {
	networks, err := r.read()
	if err == nil {
		return networks, nil
	}
	if recovered, ok := r.recoverBackup(err); ok {
		return recovered, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		if err := r.write([]network.Network{}); err != nil {
			return nil, err
		}
		return []network.Network{}, nil
	}
	return nil, err
}

// Find returns the network with the given id.
func (r *Registry) Find(id string) (*network.Network, bool, error) {
	networks, err := r.Read()
	if err != nil {
		return nil, false, err
	}
	i := network.Index(networks, id)
	if i < 0 {
		return nil, false, nil
	}
	return &networks[i], true, nil
}

// AtomicUpdate applies mutate to the stored networks and returns the new list. On
// any failure the previous document is restored and the error returned.
func (r *Registry) AtomicUpdate(mutate Mutator) ([]network.Network, error) {
	if _, err := r.Read(); err != nil {
		return nil, err
	}

	if err := copyFile(r.path, r.BackupPath()); err != nil {
		return nil, &FileSystemError{Op: "backup", Path: r.path, Err: err}
	}

	updated, err := r.update(mutate)
	if err != nil {
		if restoreErr := r.restore(); restoreErr != nil {
			return nil, errors.Join(err, restoreErr)
		}
		return nil, err
	}

	if err := os.Remove(r.BackupPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.log.Error(err, "failed to delete registry backup", "path", r.BackupPath())
	}
	return updated, nil
}

func (r *Registry) update(mutate Mutator) ([]network.Network, error) {
	current, err := r.read()
	if err != nil {
		return nil, err
	}

	updated, err := mutate(current)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = []network.Network{}
	}

	if err := r.write(updated); err != nil {
		return nil, err
	}

	check, err := r.read()
	if err != nil {
		return nil, err
	}
	if len(check) != len(updated) {
		return nil, &ConsistencyError{Expected: len(updated), Actual: len(check)}
	}

	r.log.V(1).Info("registry updated", "networks", len(updated))
	return updated, nil
}

func (r *Registry) restore() error {
	if err := copyFile(r.BackupPath(), r.path); err != nil {
		return &FileSystemError{Op: "restore", Path: r.path, Err: err}
	}
	if err := os.Remove(r.BackupPath()); err != nil {
		return &FileSystemError{Op: "remove", Path: r.BackupPath(), Err: err}
	}
	r.log.Info("registry restored from backup", "path", r.path)
	return nil
}

// recoverBackup restores the backup left by an interrupted update.
func (r *Registry) recoverBackup(cause error) ([]network.Network, bool) {
	networks, err := readFile(r.BackupPath())
	if err != nil {
		return nil, false
	}
	r.log.Info("registry unreadable, using update backup", "path", r.path, "error", cause.Error())
	if err := r.restore(); err != nil {
		r.log.Error(err, "failed to restore registry backup", "path", r.BackupPath())
		return nil, false
	}
	return networks, true
}

func (r *Registry) read() ([]network.Network, error) {
	return readFile(r.path)
}

func readFile(path string) ([]network.Network, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileSystemError{Op: "read", Path: path, Err: err}
	}

	var networks []network.Network
	if err := json.Unmarshal(data, &networks); err != nil {
		return nil, &FileSystemError{Op: "parse", Path: path, Err: err}
	}
	if networks == nil {
		networks = []network.Network{}
	}
	return networks, nil
}

func (r *Registry) write(networks []network.Network) error {
	data, err := json.MarshalIndent(networks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return &FileSystemError{Op: "mkdir", Path: filepath.Dir(r.path), Err: err}
	}
	if err := r.writeFile(r.path, append(data, '\n'), 0o600); err != nil {
		return &FileSystemError{Op: "write", Path: r.path, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}
