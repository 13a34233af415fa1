package config

import (
	"path/filepath"
	"time"
)

// Defaults.
const (
	DefaultBaseDir        = "data"
	DefaultClientImage    = "ethereum/client-go:v1.13.15"
	DefaultToolsImage     = "ethereum/client-go:alltools-v1.13.15"
	DefaultBootnodeSettle = 5 * time.Second
	DefaultNodeStartDelay = 2 * time.Second
	DefaultPullRetries    = 3
)

// File and directory names of the on-disk layout.
const (
	NetworksDirName  = "networks"
	RegistryFileName = "networks.json"
	BootnodeDirName  = "bootnode"
	PasswordFile     = "password.txt"
	GenesisFile      = "genesis.json"
	KeystoreDir      = "keystore"
	NodeKeyFile      = "nodekey"
	JWTSecretFile    = "jwtsecret"
	BootKeyFile      = "boot.key"
	PublicKeyFile    = "public.key"
)

// Config is the runtime configuration.
type Config struct {
	// BaseDir is the root of the registry file and the networks tree.
	BaseDir string `yaml:"baseDir"`
	// RegistryPath overrides <BaseDir>/networks.json.
	RegistryPath string `yaml:"registryPath"`

	ClientImage string `yaml:"clientImage"`
	ToolsImage  string `yaml:"toolsImage"`
	DockerHost  string `yaml:"dockerHost"`

	BootnodeSettle time.Duration `yaml:"bootnodeSettle"`
	NodeStartDelay time.Duration `yaml:"nodeStartDelay"`
	PullRetries    int           `yaml:"pullRetries"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		BaseDir:        DefaultBaseDir,
		ClientImage:    DefaultClientImage,
		ToolsImage:     DefaultToolsImage,
		BootnodeSettle: DefaultBootnodeSettle,
		NodeStartDelay: DefaultNodeStartDelay,
		PullRetries:    DefaultPullRetries,
	}
}

// NetworksDir is the parent of every network directory.
func (c *Config) NetworksDir() string {
	return filepath.Join(c.BaseDir, NetworksDirName)
}

// Registry is the path of the registry document.
func (c *Config) Registry() string {
	if c.RegistryPath != "" {
		return c.RegistryPath
	}
	return filepath.Join(c.BaseDir, RegistryFileName)
}

// NetworkDir is the directory of network id.
func (c *Config) NetworkDir(id string) string {
	return filepath.Join(c.NetworksDir(), id)
}

// NodeDir is the directory of a node, or of the bootnode when node is "bootnode".
func (c *Config) NodeDir(id, node string) string {
	return filepath.Join(c.NetworkDir(id), node)
}

// BootnodeDir is the directory of the network's discovery node.
func (c *Config) BootnodeDir(id string) string {
	return c.NodeDir(id, BootnodeDirName)
}

// NetworkPassword is the shared account password of network id.
func (c *Config) NetworkPassword(id string) string {
	return filepath.Join(c.NetworkDir(id), PasswordFile)
}
