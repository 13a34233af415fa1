package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/platform/docker"
	"github.com/imamik/cliquenet/internal/util/keygen"
)

// ClientSimulator stands in for the client and bootnode binaries. Its OnStart method
// is installed as docker.MockRuntime.OnStart and performs the filesystem effects of
// the command a container would run in its mounted directory.
type ClientSimulator struct {
	mu sync.Mutex

	// Fail makes the process in the named container exit with status 1.
	Fail map[string]bool

	// Accounts records every account address created, by container name.
	Accounts map[string]string
}

// NewClientSimulator returns a simulator with no injected failures.
func NewClientSimulator() *ClientSimulator {
	return &ClientSimulator{
		Fail:     make(map[string]bool),
		Accounts: make(map[string]string),
	}
}

// FailContainer makes the named container exit with status 1.
func (s *ClientSimulator) FailContainer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fail[name] = true
}

// OnStart implements the docker.MockRuntime hook.
func (s *ClientSimulator) OnStart(spec docker.ContainerSpec) (docker.StartResult, error) {
	s.mu.Lock()
	fail := s.Fail[spec.Name]
	s.mu.Unlock()
	if fail {
		return docker.StartResult{Exited: true, ExitCode: 1, Stderr: "Fatal: simulated failure"}, nil
	}

	dir, err := hostDir(spec)
	if err != nil {
		return docker.StartResult{}, err
	}

	switch {
	case isCommand(spec, "geth", "account", "new"):
		return s.newAccount(spec.Name, dir)
	case isCommand(spec, "geth", "init"):
		return initGenesis(dir), nil
	case isCommand(spec, "bootnode", "-genkey"):
		return genBootKey(dir)
	default:
		return docker.StartResult{}, nil
	}
}

func (s *ClientSimulator) newAccount(container, dir string) (docker.StartResult, error) {
	password, err := os.ReadFile(filepath.Join(dir, config.PasswordFile))
	if err != nil {
		return docker.StartResult{Exited: true, ExitCode: 1, Stderr: "Fatal: Failed to read password file"}, nil
	}

	account, err := keystore.StoreKey(filepath.Join(dir, config.KeystoreDir), strings.TrimSpace(string(password)),
		keystore.LightScryptN, keystore.LightScryptP)
	if err != nil {
		return docker.StartResult{}, fmt.Errorf("store key: %w", err)
	}

	s.mu.Lock()
	s.Accounts[container] = strings.ToLower(strings.TrimPrefix(account.Address.Hex(), "0x"))
	s.mu.Unlock()

	stdout := fmt.Sprintf("\nYour new key was generated\n\nPublic address of the key:   %s\nPath of the secret key file: %s\n",
		account.Address.Hex(), account.URL.Path)
	return docker.StartResult{Exited: true, Stdout: stdout}, nil
}

func initGenesis(dir string) docker.StartResult {
	data, err := os.ReadFile(filepath.Join(dir, config.GenesisFile))
	if err != nil {
		return docker.StartResult{Exited: true, ExitCode: 1, Stderr: "Fatal: Failed to read genesis file"}
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return docker.StartResult{Exited: true, ExitCode: 1, Stderr: "Fatal: invalid genesis file"}
	}
	if err := os.MkdirAll(filepath.Join(dir, "geth", "chaindata"), 0o750); err != nil {
		return docker.StartResult{Exited: true, ExitCode: 1, Stderr: err.Error()}
	}
	return docker.StartResult{Exited: true, Stderr: "Successfully wrote genesis state"}
}

func genBootKey(dir string) (docker.StartResult, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return docker.StartResult{}, err
	}
	if err := crypto.SaveECDSA(filepath.Join(dir, config.BootKeyFile), key); err != nil {
		return docker.StartResult{Exited: true, ExitCode: 1, Stderr: err.Error()}, nil
	}
	return docker.StartResult{Exited: true, Stdout: keygen.PublicKeyHex(&key.PublicKey) + "\n"}, nil
}

func isCommand(spec docker.ContainerSpec, entrypoint string, args ...string) bool {
	if len(spec.Entrypoint) == 0 || spec.Entrypoint[0] != entrypoint {
		return false
	}
	for _, a := range args {
		if !slices.Contains(spec.Cmd, a) {
			return false
		}
	}
	return true
}

func hostDir(spec docker.ContainerSpec) (string, error) {
	if len(spec.Binds) == 0 {
		return "", fmt.Errorf("container %s has no bind mount", spec.Name)
	}
	bind := spec.Binds[0]
	i := strings.LastIndex(bind, ":")
	if i <= 0 {
		return "", fmt.Errorf("container %s: malformed bind %q", spec.Name, bind)
	}
	return bind[:i], nil
}
