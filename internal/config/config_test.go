package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"CLIQUENET_BASE_DIR",
	"CLIQUENET_CLIENT_IMAGE",
	"CLIQUENET_TOOLS_IMAGE",
	"CLIQUENET_BOOTNODE_SETTLE",
	"CLIQUENET_NODE_START_DELAY",
	"CLIQUENET_PULL_RETRIES",
	"DOCKER_HOST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 5*time.Second, cfg.BootnodeSettle)
	assert.Equal(t, 2*time.Second, cfg.NodeStartDelay)
	assert.Equal(t, "ethereum/client-go:v1.13.15", cfg.ClientImage)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cliquenet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseDir: /var/lib/cliquenet
clientImage: custom/geth:1
bootnodeSettle: 1s
pullRetries: 7
`), 0o600))

	t.Setenv("CLIQUENET_CLIENT_IMAGE", "env/geth:2")
	t.Setenv("CLIQUENET_NODE_START_DELAY", "250ms")
	t.Setenv("CLIQUENET_PULL_RETRIES", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/cliquenet", cfg.BaseDir)
	assert.Equal(t, "env/geth:2", cfg.ClientImage)
	assert.Equal(t, DefaultToolsImage, cfg.ToolsImage)
	assert.Equal(t, time.Second, cfg.BootnodeSettle)
	assert.Equal(t, 250*time.Millisecond, cfg.NodeStartDelay)
	assert.Equal(t, 7, cfg.PullRetries)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseDir: [unclosed"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to unmarshal yaml")

	require.NoError(t, os.WriteFile(path, []byte("pullRetries: -1\nclientImage: \"\"\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pullRetries")
	assert.Contains(t, err.Error(), "clientImage")
}

func TestLayout(t *testing.T) {
	t.Parallel()

	cfg := &Config{BaseDir: "/srv"}
	assert.Equal(t, "/srv/networks.json", cfg.Registry())
	assert.Equal(t, "/srv/networks/net1", cfg.NetworkDir("net1"))
	assert.Equal(t, "/srv/networks/net1/m1", cfg.NodeDir("net1", "m1"))
	assert.Equal(t, "/srv/networks/net1/bootnode", cfg.BootnodeDir("net1"))
	assert.Equal(t, "/srv/networks/net1/password.txt", cfg.NetworkPassword("net1"))

	cfg.RegistryPath = "/etc/registry.json"
	assert.Equal(t, "/etc/registry.json", cfg.Registry())
}
