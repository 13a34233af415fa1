// Package naming provides the deterministic names of docker objects.
//
// Every container and virtual network of a chain network is named after the network
// id, so a stale object from an earlier run can be found and removed before it is
// recreated: {network} for the virtual network, {network}-bootnode for the discovery
// node, {network}-{node} for client nodes and {network}-{node}-init for one-shot helpers.
package naming
