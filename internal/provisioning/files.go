package provisioning

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/registry"
	"github.com/imamik/cliquenet/internal/util/keygen"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

func mkdir(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return &registry.FileSystemError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return &registry.FileSystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &registry.FileSystemError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func removeAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return &registry.FileSystemError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

func rename(from, to string) error {
	if err := os.Rename(from, to); err != nil {
		return &registry.FileSystemError{Op: "rename", Path: from, Err: err}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// createNetworkDir creates an empty network root and its shared account password.
// A tree left behind by an interrupted run is removed first: the id is not
// registered, so nothing in it is authoritative.
func createNetworkDir(cfg *config.Config, id string) (string, error) {
	if err := removeAll(cfg.NetworkDir(id)); err != nil {
		return "", err
	}
	if err := mkdir(cfg.NetworkDir(id)); err != nil {
		return "", err
	}
	password, err := keygen.Password(keygen.DefaultPasswordLength)
	if err != nil {
		return "", err
	}
	if err := writeFile(cfg.NetworkPassword(id), []byte(password)); err != nil {
		return "", err
	}
	return password, nil
}

// prepareNodeDir lays out a node directory: keystore, nodekey and jwtsecret, plus
// the account password when the node holds an account.
func prepareNodeDir(dir, password string, withAccount bool) error {
	if err := mkdir(filepath.Join(dir, config.KeystoreDir)); err != nil {
		return err
	}
	if _, err := keygen.NodeKey(filepath.Join(dir, config.NodeKeyFile)); err != nil {
		return &registry.FileSystemError{Op: "write", Path: filepath.Join(dir, config.NodeKeyFile), Err: err}
	}
	secret, err := keygen.JWTSecret()
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, config.JWTSecretFile), []byte(secret)); err != nil {
		return err
	}
	if withAccount {
		return writeFile(filepath.Join(dir, config.PasswordFile), []byte(password))
	}
	return nil
}

// prepareBootnodeDir lays out the bootnode directory, which holds the faucet account.
func prepareBootnodeDir(dir, password string) error {
	if err := mkdir(filepath.Join(dir, config.KeystoreDir)); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, config.PasswordFile), []byte(password))
}
