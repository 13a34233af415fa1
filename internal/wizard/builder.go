package wizard

import (
	"fmt"

	"github.com/imamik/cliquenet/internal/config"
	"github.com/imamik/cliquenet/internal/network"
)

// Host numbers assigned within the subnet.
const (
	bootnodeHost  = 10
	firstNodeHost = 11
)

// BuildNetwork creates a network definition from the wizard result. The bootnode
// gets host 10 of the subnet and the nodes follow in the order miners, rpc nodes,
// normal nodes.
func BuildNetwork(result *WizardResult) (*network.Network, error) {
	if result.Miners < 1 {
		return nil, errNoMiner
	}

	total := result.Miners + result.RPCNodes + result.NormalNodes
	usable, err := config.UsableHosts(result.Subnet)
	if err != nil {
		return nil, err
	}
	// Hosts 1-9 are left free and the bootnode takes host 10.
	if firstNodeHost+total-1 > usable {
		return nil, fmt.Errorf("%w: %s fits %d nodes, %d requested", errSubnetTooSmall, result.Subnet, max(usable-firstNodeHost+1, 0), total)
	}

	bootIP, err := config.CIDRHost(result.Subnet, bootnodeHost)
	if err != nil {
		return nil, err
	}

	n := &network.Network{
		ID:          result.NetworkID,
		ChainID:     result.ChainID,
		Subnet:      result.Subnet,
		BootNodeIP:  bootIP,
		Allocations: append([]network.Allocation{}, result.Allocations...),
	}

	host := firstNodeHost
	add := func(prefix string, count int, typ network.NodeType) error {
		for i := 1; i <= count; i++ {
			ip, err := config.CIDRHost(result.Subnet, host)
			if err != nil {
				return err
			}
			node := network.Node{Name: fmt.Sprintf("%s%d", prefix, i), Type: typ, IP: ip}
			if typ == network.NodeTypeRPC {
				node.Port = result.RPCBasePort + i - 1
			}
			n.Nodes = append(n.Nodes, node)
			host++
		}
		return nil
	}

	if err := add("m", result.Miners, network.NodeTypeMiner); err != nil {
		return nil, err
	}
	if err := add("r", result.RPCNodes, network.NodeTypeRPC); err != nil {
		return nil, err
	}
	if err := add("n", result.NormalNodes, network.NodeTypeNormal); err != nil {
		return nil, err
	}
	return n, nil
}
