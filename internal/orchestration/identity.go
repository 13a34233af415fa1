package orchestration

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/p2p/enode"

	"github.com/imamik/cliquenet/internal/command"
	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/network"
)

const setupDataDir = command.DataDir

var accountAddressPattern = regexp.MustCompile(`Public address of the key:\s*(0x[0-9a-fA-F]{40})`)

// ProvisionIdentity creates a keystore account in the node directory and returns its
// address as 40 lowercase hex characters.
func (o *Orchestrator) ProvisionIdentity(ctx context.Context, networkID, node string) (string, error) {
	dir := o.cfg.NodeDir(networkID, node)
	run, err := o.runHelper(ctx, networkID, node, o.cfg.ClientImage, []string{"geth"}, command.NewAccountArgs(), dir)
	if err != nil {
		return "", fmt.Errorf("failed to create account for %s: %w", node, err)
	}
	if run.ExitCode != 0 {
		return "", fmt.Errorf("failed to create account for %s: exit code %d: %s", node, run.ExitCode, strings.TrimSpace(run.Stderr))
	}

	match := accountAddressPattern.FindStringSubmatch(run.Stdout + "\n" + run.Stderr)
	if match == nil {
		return "", fmt.Errorf("failed to create account for %s: address not found in output", node)
	}

	address := strings.ToLower(strings.TrimPrefix(match[1], "0x"))
	o.log.Info("account created", "network", networkID, "node", node, "address", "0x"+address)
	return address, nil
}

// ProvisionBootnodeKeys generates the discovery key of the bootnode and writes its
// public half to public.key.
func (o *Orchestrator) ProvisionBootnodeKeys(ctx context.Context, networkID string) error {
	dir := o.cfg.BootnodeDir(networkID)
	run, err := o.runHelper(ctx, networkID, network.BootnodeName, o.cfg.ToolsImage, []string{"bootnode"}, command.GenKeyArgs(), dir)
	if err != nil {
		return fmt.Errorf("failed to generate bootnode keys: %w", err)
	}
	if run.ExitCode != 0 {
		return fmt.Errorf("failed to generate bootnode keys: exit code %d: %s", run.ExitCode, strings.TrimSpace(run.Stderr))
	}

	pub := strings.TrimSpace(run.Stdout)
	if _, err := parsePublicKey(pub); err != nil {
		return fmt.Errorf("failed to generate bootnode keys: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, config.PublicKeyFile), []byte(pub), 0o600); err != nil {
		return fmt.Errorf("failed to write bootnode public key: %w", err)
	}
	o.log.V(1).Info("bootnode keys generated", "network", networkID)
	return nil
}

// InitializeGenesisBlock writes the genesis block into the node's data directory.
func (o *Orchestrator) InitializeGenesisBlock(ctx context.Context, networkID, node string) error {
	dir := o.cfg.NodeDir(networkID, node)
	run, err := o.runHelper(ctx, networkID, node, o.cfg.ClientImage, []string{"geth"}, command.InitArgs(), dir)
	if err != nil {
		return fmt.Errorf("failed to initialize genesis for %s: %w", node, err)
	}
	if run.ExitCode != 0 {
		return fmt.Errorf("failed to initialize genesis for %s: exit code %d: %s", node, run.ExitCode, strings.TrimSpace(run.Stderr))
	}
	o.log.V(1).Info("genesis initialized", "network", networkID, "node", node)
	return nil
}

// EnodeURL builds the bootnode's enode URL from its stored public key.
func (o *Orchestrator) EnodeURL(networkID, bootIP string) (string, error) {
	data, err := os.ReadFile(filepath.Join(o.cfg.BootnodeDir(networkID), config.PublicKeyFile))
	if err != nil {
		return "", fmt.Errorf("failed to read bootnode public key: %w", err)
	}
	pub, err := parsePublicKey(strings.TrimSpace(string(data)))
	if err != nil {
		return "", err
	}
	ip := net.ParseIP(bootIP)
	if ip == nil {
		return "", fmt.Errorf("invalid bootnode ip %q", bootIP)
	}
	return enode.NewV4(pub, ip, command.BootnodePort, command.BootnodePort).URLv4(), nil
}

// SignerAccount returns the address of the single account in the node's keystore as
// 40 lowercase hex characters.
func (o *Orchestrator) SignerAccount(networkID, node string) (string, error) {
	dir := filepath.Join(o.cfg.NodeDir(networkID, node), config.KeystoreDir)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("failed to read keystore of %s: %w", node, err)
	}

	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	accounts := ks.Accounts()
	if len(accounts) == 0 {
		return "", fmt.Errorf("%s: %w", node, errNoAccount)
	}
	if len(accounts) > 1 {
		return "", fmt.Errorf("%s: %w (%d)", node, errSeveralAccounts, len(accounts))
	}
	return strings.ToLower(strings.TrimPrefix(accounts[0].Address.Hex(), "0x")), nil
}

// parsePublicKey decodes the 128 hex character public key printed by the bootnode tool.
func parsePublicKey(s string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid bootnode public key: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("invalid bootnode public key: %d bytes, want 64", len(raw))
	}
	pub, err := crypto.UnmarshalPubkey(append([]byte{0x04}, raw...))
	if err != nil {
		return nil, fmt.Errorf("invalid bootnode public key: %w", err)
	}
	return pub, nil
}
