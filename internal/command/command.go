// Package command maps a node role to the argument list of its client process.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/cliquenet/internal/network"
)

// BootnodePort is the discovery port of the bootnode.
const BootnodePort = 30301

// Paths inside the containers. Setup helpers and the bootnode mount their
// directory at DataDir; long-running clients mount theirs at NodeDataDir.
const (
	DataDir         = "/eth"
	NodeDataDir     = "/root/.ethereum"
	BootKeyPath     = DataDir + "/boot.key"
	GenesisPath     = DataDir + "/genesis.json"
	AccountPassword = NodeDataDir + "/password.txt"
)

// RPCAPIs is the module list exposed over HTTP by rpc nodes.
const RPCAPIs = "admin,eth,debug,miner,net,txpool,personal,web3"

var (
	// ErrMissingParameter is returned when a role lacks one of its required parameters.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrUnknownRole is returned for a role without a command template.
	ErrUnknownRole = errors.New("unknown role")
)

// Params holds the values a role template may need.
type Params struct {
	ChainID       string
	BootNodeIP    string
	NodeIP        string
	Subnet        string
	BootnodeEnode string
	Account       string
	Port          int
}

type param struct {
	name string
	set  func(Params) bool
}

var (
	pChainID  = param{"chainId", func(p Params) bool { return p.ChainID != "" }}
	pBootIP   = param{"bootNodeIP", func(p Params) bool { return p.BootNodeIP != "" }}
	pNodeIP   = param{"nodeIP", func(p Params) bool { return p.NodeIP != "" }}
	pSubnet   = param{"subnet", func(p Params) bool { return p.Subnet != "" }}
	pEnode    = param{"bootnodeEnode", func(p Params) bool { return p.BootnodeEnode != "" }}
	pAccount  = param{"account", func(p Params) bool { return p.Account != "" }}
	pPort     = param{"port", func(p Params) bool { return p.Port > 0 }}
	roleInput = map[network.NodeType][]param{
		network.NodeTypeBootnode: {pBootIP, pSubnet},
		network.NodeTypeMiner:    {pChainID, pNodeIP, pSubnet, pEnode, pAccount},
		network.NodeTypeRPC:      {pChainID, pNodeIP, pSubnet, pEnode, pPort},
		network.NodeTypeNormal:   {pChainID, pNodeIP, pSubnet, pEnode},
	}
)

// Build returns the process arguments for role. The bootnode command runs the
// discovery binary; every other role runs the client.
func Build(role network.NodeType, p Params) ([]string, error) {
	required, ok := roleInput[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	for _, r := range required {
		if !r.set(p) {
			return nil, fmt.Errorf("%w: %s requires %s", ErrMissingParameter, role, r.name)
		}
	}

	switch role {
	case network.NodeTypeBootnode:
		return []string{
			"-addr=" + p.BootNodeIP + ":" + strconv.Itoa(BootnodePort),
			"-nodekey=" + BootKeyPath,
			"-netrestrict=" + p.Subnet,
			"-verbosity=3",
		}, nil
	case network.NodeTypeMiner:
		account := "0x" + strings.TrimPrefix(strings.ToLower(p.Account), "0x")
		return []string{
			"--networkid=" + p.ChainID,
			"--mine",
			"--miner.etherbase=" + account,
			"--bootnodes=" + p.BootnodeEnode,
			"--nat=extip:" + p.NodeIP,
			"--netrestrict=" + p.Subnet,
			"--unlock=" + account,
			"--password=" + AccountPassword,
			"--allow-insecure-unlock",
			"--ipcdisable",
		}, nil
	case network.NodeTypeRPC:
		return []string{
			"--networkid=" + p.ChainID,
			"--http",
			"--http.addr=0.0.0.0",
			"--http.port=" + strconv.Itoa(p.Port),
			"--http.corsdomain=*",
			"--http.api=" + RPCAPIs,
			"--netrestrict=" + p.Subnet,
			"--bootnodes=" + p.BootnodeEnode,
			"--nat=extip:" + p.NodeIP,
			"--ipcdisable",
		}, nil
	default:
		return []string{
			"--networkid=" + p.ChainID,
			"--bootnodes=" + p.BootnodeEnode,
			"--nat=extip:" + p.NodeIP,
			"--netrestrict=" + p.Subnet,
			"--ipcdisable",
		}, nil
	}
}

// MustBuild is like Build but panics on error.
func MustBuild(role network.NodeType, p Params) []string {
	args, err := Build(role, p)
	if err != nil {
		panic(err)
	}
	return args
}

// InitArgs returns the client arguments that write the genesis block into DataDir.
func InitArgs() []string {
	return []string{"init", "--datadir", DataDir, GenesisPath}
}

// NewAccountArgs returns the client arguments that create a keystore account in DataDir.
func NewAccountArgs() []string {
	return []string{"account", "new", "--datadir", DataDir, "--password", DataDir + "/password.txt"}
}

// GenKeyArgs returns the bootnode arguments that generate the discovery key and print its public half.
func GenKeyArgs() []string {
	return []string{"-genkey", BootKeyPath, "-writeaddress"}
}
