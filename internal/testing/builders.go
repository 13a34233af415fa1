package testing

import (
	"slices"

	"github.com/imamik/cliquenet/internal/network"
)

// NetworkBuilder provides a fluent interface for constructing network definitions.
// Each method returns a new builder (immutable) for chaining.
type NetworkBuilder struct {
	n network.Network
}

// NewNetworkBuilder starts from the net1 network: chain 4242 on 10.0.0.0/24 with
// miner m1 and rpc r1 on port 8545.
func NewNetworkBuilder() *NetworkBuilder {
	return &NetworkBuilder{
		n: network.Network{
			ID:          "net1",
			ChainID:     4242,
			Subnet:      "10.0.0.0/24",
			BootNodeIP:  "10.0.0.10",
			Allocations: []network.Allocation{},
			Nodes: []network.Node{
				{Name: "m1", Type: network.NodeTypeMiner, IP: "10.0.0.11"},
				{Name: "r1", Type: network.NodeTypeRPC, IP: "10.0.0.12", Port: 8545},
			},
		},
	}
}

// WithID sets the network id.
func (b *NetworkBuilder) WithID(id string) *NetworkBuilder {
	nb := b.clone()
	nb.n.ID = id
	return nb
}

// WithChainID sets the chain id.
func (b *NetworkBuilder) WithChainID(id uint64) *NetworkBuilder {
	nb := b.clone()
	nb.n.ChainID = id
	return nb
}

// WithSubnet sets the subnet and bootnode IP.
func (b *NetworkBuilder) WithSubnet(subnet, bootIP string) *NetworkBuilder {
	nb := b.clone()
	nb.n.Subnet = subnet
	nb.n.BootNodeIP = bootIP
	return nb
}

// WithNodes replaces the node list.
func (b *NetworkBuilder) WithNodes(nodes ...network.Node) *NetworkBuilder {
	nb := b.clone()
	nb.n.Nodes = slices.Clone(nodes)
	return nb
}

// WithAllocation appends an allocation.
func (b *NetworkBuilder) WithAllocation(address string, value uint64) *NetworkBuilder {
	nb := b.clone()
	nb.n.Allocations = append(nb.n.Allocations, network.Allocation{Address: address, Value: value})
	return nb
}

// Build returns the network.
func (b *NetworkBuilder) Build() *network.Network {
	n := b.n.Clone()
	return &n
}

func (b *NetworkBuilder) clone() *NetworkBuilder {
	return &NetworkBuilder{n: b.n.Clone()}
}
