// Package network defines the network, node and allocation types that make up a
// private proof-of-authority network definition.
//
// A Network is the unit stored in the registry. Nodes and allocations are owned by
// their network and have no identity outside of it: nodes are addressed by
// (network id, node name).
package network
