package network

import (
	"encoding/json"
	"slices"
)

// NodeType is the role a node plays in the network.
type NodeType string

// Node roles.
const (
	NodeTypeMiner    NodeType = "miner"
	NodeTypeRPC      NodeType = "rpc"
	NodeTypeNormal   NodeType = "normal"
	NodeTypeBootnode NodeType = "bootnode"
)

// BootnodeName is the reserved node name of the discovery node. Its directory and
// container are derived from it.
const BootnodeName = "bootnode"

// Valid reports whether t is a known role.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeMiner, NodeTypeRPC, NodeTypeNormal, NodeTypeBootnode:
		return true
	}
	return false
}

// Node is a single client process of a network.
type Node struct {
	Name string   `json:"name"`
	Type NodeType `json:"type"`
	IP   string   `json:"ip"`
	Port int      `json:"port,omitempty"` // rpc nodes only
}

// Allocation is a genesis balance expressed in ether.
type Allocation struct {
	Address string `json:"address"`
	Value   uint64 `json:"value"`
}

// Network is a complete network definition as stored in the registry.
type Network struct {
	ID          string       `json:"id"`
	ChainID     uint64       `json:"chainId"`
	Subnet      string       `json:"subnet"`
	BootNodeIP  string       `json:"bootNodeIP"`
	Allocations []Allocation `json:"allocations"`
	Nodes       []Node       `json:"nodes"`
}

// UnmarshalJSON accepts the legacy "ipBootNode" and "alloc" keys written by earlier
// tooling in addition to the current field names.
func (n *Network) UnmarshalJSON(data []byte) error {
	type plain Network
	var aux struct {
		plain
		IPBootNode string       `json:"ipBootNode"`
		Alloc      []Allocation `json:"alloc"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*n = Network(aux.plain)
	if n.BootNodeIP == "" {
		n.BootNodeIP = aux.IPBootNode
	}
	if n.Allocations == nil && aux.Alloc != nil {
		n.Allocations = aux.Alloc
	}
	return nil
}

// Miners returns the miner nodes in declaration order.
func (n *Network) Miners() []Node {
	var miners []Node
	for _, node := range n.Nodes {
		if node.Type == NodeTypeMiner {
			miners = append(miners, node)
		}
	}
	return miners
}

// FindNode returns the node with the given name.
func (n *Network) FindNode(name string) (Node, bool) {
	for _, node := range n.Nodes {
		if node.Name == name {
			return node, true
		}
	}
	return Node{}, false
}

// WithNode returns a copy of n with node appended.
func (n *Network) WithNode(node Node) Network {
	c := n.Clone()
	c.Nodes = append(c.Nodes, node)
	return c
}

// WithoutNode returns a copy of n without the named node.
func (n *Network) WithoutNode(name string) Network {
	c := n.Clone()
	c.Nodes = slices.DeleteFunc(c.Nodes, func(node Node) bool { return node.Name == name })
	return c
}

// Clone returns a deep copy of n.
func (n *Network) Clone() Network {
	c := *n
	c.Nodes = slices.Clone(n.Nodes)
	c.Allocations = slices.Clone(n.Allocations)
	return c
}

// Index returns the position of the network with the given id, or -1.
func Index(networks []Network, id string) int {
	return slices.IndexFunc(networks, func(n Network) bool { return n.ID == id })
}
