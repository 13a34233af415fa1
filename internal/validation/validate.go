package validation

import (
	"fmt"
	"net/netip"
	"regexp"

	"github.com/ethereum/go-ethereum/common"

	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/util/naming"
)

// Port range accepted for rpc nodes.
const (
	MinRPCPort = 1024
	MaxRPCPort = 65535
)

// ReservedChainIDs are chain ids of well-known public networks. A private network
// using one of them would be indistinguishable to wallets and signers.
var ReservedChainIDs = map[uint64]string{
	1:        "Ethereum mainnet",
	2:        "Morden",
	3:        "Ropsten",
	4:        "Rinkeby",
	5:        "Goerli",
	10:       "Optimism",
	42:       "Kovan",
	56:       "BNB Smart Chain",
	61:       "Ethereum Classic",
	100:      "Gnosis",
	137:      "Polygon",
	8453:     "Base",
	17000:    "Holesky",
	42161:    "Arbitrum One",
	11155111: "Sepolia",
}

// namePattern restricts ids and node names to characters that are safe as a
// directory name and as part of a container name.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Validate checks candidate against the structural rules and against existing, the
// networks already in the registry (excluding candidate itself when editing).
// An empty result means the candidate is accepted.
func Validate(candidate *network.Network, existing []network.Network) Errors {
	// (a) reserved chain id short-circuits everything else
	if name, ok := ReservedChainIDs[candidate.ChainID]; ok {
		return Errors{{
			Field:   "chainId",
			Message: fmt.Sprintf("chain id %d is reserved for %s", candidate.ChainID, name),
			Kind:    KindReserved,
		}}
	}

	var errs Errors
	errs = append(errs, validateIdentity(candidate, existing)...)
	errs = append(errs, validateRegistryUniqueness(candidate, existing)...)
	errs = append(errs, validateNodeIPsAgainstRegistry(candidate, existing)...)

	prefix, subnetOK := ParseSubnet(candidate.Subnet)
	if !subnetOK {
		errs = append(errs, invalid("subnet",
			"%q is not an IPv4 CIDR with a mask between /%d and /%d", candidate.Subnet, MinSubnetMask, MaxSubnetMask))
	} else if prefix.Masked() != prefix {
		errs = append(errs, invalid("subnet", "%q has host bits set, use %s", candidate.Subnet, prefix.Masked()))
	} else {
		errs = append(errs, validateSubnetOverlap(prefix, candidate.ID, existing)...)
		errs = append(errs, validateAddressesInSubnet(candidate, prefix)...)
	}

	errs = append(errs, validateNodes(candidate)...)
	errs = append(errs, validateContainerNames(candidate, existing)...)

	if len(candidate.Miners()) == 0 {
		errs = append(errs, invalid("nodes", "at least one miner node is required"))
	}

	errs = append(errs, validateAllocations(candidate.Allocations)...)
	return errs
}

func validateIdentity(candidate *network.Network, existing []network.Network) Errors {
	var errs Errors
	switch {
	case candidate.ID == "":
		errs = append(errs, invalid("id", "network id is required"))
	case !namePattern.MatchString(candidate.ID):
		errs = append(errs, invalid("id", "%q may only contain letters, digits, '_', '.' and '-'", candidate.ID))
	}
	for _, n := range existing {
		if candidate.ID != "" && n.ID == candidate.ID {
			errs = append(errs, duplicate("id", "network %q already exists", candidate.ID))
			break
		}
	}
	if candidate.ChainID == 0 {
		errs = append(errs, invalid("chainId", "chain id must be a positive integer"))
	}
	return errs
}

// (b) chain id, subnet and bootnode ip must be unique across the registry.
func validateRegistryUniqueness(candidate *network.Network, existing []network.Network) Errors {
	var errs Errors
	for _, n := range existing {
		if candidate.ChainID != 0 && n.ChainID == candidate.ChainID {
			errs = append(errs, duplicate("chainId", "chain id %d is already used by network %q", candidate.ChainID, n.ID))
			break
		}
	}
	for _, n := range existing {
		if candidate.Subnet != "" && n.Subnet == candidate.Subnet {
			errs = append(errs, duplicate("subnet", "subnet %s is already used by network %q", candidate.Subnet, n.ID))
			break
		}
	}
	if owner, ok := registryIPOwner(existing, candidate.BootNodeIP); ok {
		errs = append(errs, duplicate("bootNodeIP", "ip %s is already used by network %q", candidate.BootNodeIP, owner))
	}
	return errs
}

// (c) node ips are unique across every network in the registry, not only this one.
func validateNodeIPsAgainstRegistry(candidate *network.Network, existing []network.Network) Errors {
	var errs Errors
	for i, node := range candidate.Nodes {
		if owner, ok := registryIPOwner(existing, node.IP); ok {
			errs = append(errs, duplicate(fmt.Sprintf("nodes[%d].ip", i),
				"ip %s of node %q is already used by network %q", node.IP, node.Name, owner))
		}
	}
	return errs
}

func registryIPOwner(existing []network.Network, ip string) (string, bool) {
	if ip == "" {
		return "", false
	}
	for _, n := range existing {
		if n.BootNodeIP == ip {
			return n.ID, true
		}
		for _, node := range n.Nodes {
			if node.IP == ip {
				return n.ID, true
			}
		}
	}
	return "", false
}

func validateSubnetOverlap(prefix netip.Prefix, id string, existing []network.Network) Errors {
	for _, n := range existing {
		other, ok := ParseSubnet(n.Subnet)
		if !ok || n.Subnet == prefix.String() {
			continue // exact duplicates are reported by the uniqueness check
		}
		if subnetsOverlap(prefix, other) {
			return Errors{duplicate("subnet", "subnet %s overlaps subnet %s of network %q", prefix, n.Subnet, n.ID)}
		}
	}
	return nil
}

// (e) the bootnode and every node must live inside the subnet.
func validateAddressesInSubnet(candidate *network.Network, prefix netip.Prefix) Errors {
	var errs Errors
	check := func(field, ip string) {
		addr, ok := ParseIPv4(ip)
		if !ok {
			return // reported as malformed elsewhere
		}
		if !IsIPInSubnet(ip, candidate.Subnet) {
			errs = append(errs, invalid(field, "ip %s is outside subnet %s", ip, candidate.Subnet))
			return
		}
		if reservedAddress(addr, prefix) {
			errs = append(errs, invalid(field, "ip %s is the network, gateway or broadcast address of %s", ip, candidate.Subnet))
		}
	}

	if _, ok := ParseIPv4(candidate.BootNodeIP); !ok {
		errs = append(errs, invalid("bootNodeIP", "%q is not a valid IPv4 address", candidate.BootNodeIP))
	} else {
		check("bootNodeIP", candidate.BootNodeIP)
	}
	for i, node := range candidate.Nodes {
		check(fmt.Sprintf("nodes[%d].ip", i), node.IP)
	}
	return errs
}

// (f) per-node shape and uniqueness within the candidate.
func validateNodes(candidate *network.Network) Errors {
	var errs Errors
	names := make(map[string]int)
	ips := map[string]string{candidate.BootNodeIP: network.BootnodeName}
	ports := make(map[int]string)

	for i, node := range candidate.Nodes {
		field := func(name string) string { return fmt.Sprintf("nodes[%d].%s", i, name) }

		switch {
		case node.Name == "":
			errs = append(errs, invalid(field("name"), "node name is required"))
		case node.Name == network.BootnodeName:
			errs = append(errs, invalid(field("name"), "%q is reserved for the discovery node", node.Name))
		case !namePattern.MatchString(node.Name):
			errs = append(errs, invalid(field("name"), "%q may only contain letters, digits, '_', '.' and '-'", node.Name))
		default:
			if _, seen := names[node.Name]; seen {
				errs = append(errs, duplicate(field("name"), "node name %q is used more than once", node.Name))
			}
			names[node.Name] = i
		}

		switch {
		case node.Type == network.NodeTypeBootnode:
			errs = append(errs, invalid(field("type"), "the discovery node is declared through bootNodeIP, not as a node"))
		case !node.Type.Valid():
			errs = append(errs, invalid(field("type"), "unknown node type %q (want miner, rpc or normal)", node.Type))
		}

		if _, ok := ParseIPv4(node.IP); !ok {
			errs = append(errs, invalid(field("ip"), "%q is not a valid IPv4 address", node.IP))
		} else if owner, seen := ips[node.IP]; seen && node.IP != "" {
			errs = append(errs, duplicate(field("ip"), "ip %s is already assigned to %q", node.IP, owner))
		} else {
			ips[node.IP] = node.Name
		}

		if node.Type == network.NodeTypeRPC {
			switch {
			case node.Port == 0:
				errs = append(errs, invalid(field("port"), "rpc node %q requires a port", node.Name))
			case node.Port < MinRPCPort || node.Port > MaxRPCPort:
				errs = append(errs, invalid(field("port"), "port %d is outside %d-%d", node.Port, MinRPCPort, MaxRPCPort))
			default:
				if owner, seen := ports[node.Port]; seen {
					errs = append(errs, duplicate(field("port"), "port %d is already used by node %q", node.Port, owner))
				} else {
					ports[node.Port] = node.Name
				}
			}
		} else if node.Port != 0 {
			errs = append(errs, invalid(field("port"), "only rpc nodes may declare a port"))
		}
	}
	return errs
}

// containerClaim is a container name derived from a network definition.
type containerClaim struct {
	name  string
	field string // field of the definition the name derives from
	owner string // node the container belongs to
}

// containerClaims lists the bootnode, node and helper containers of n. Nodes whose
// name is unusable are skipped; validateNodes reports them.
func containerClaims(n *network.Network) []containerClaim {
	claims := []containerClaim{
		{naming.Bootnode(n.ID), "id", network.BootnodeName},
		{naming.Helper(n.ID, network.BootnodeName), "id", network.BootnodeName},
	}
	for i, node := range n.Nodes {
		if node.Name == network.BootnodeName || !namePattern.MatchString(node.Name) {
			continue
		}
		field := fmt.Sprintf("nodes[%d].name", i)
		claims = append(claims,
			containerClaim{naming.Node(n.ID, node.Name), field, node.Name},
			containerClaim{naming.Helper(n.ID, node.Name), field, node.Name},
		)
	}
	return claims
}

// Container names join the network id and the node name with '-', so distinct
// definitions can derive the same name ("a" + "b-c" and "a-b" + "c"). Such a
// candidate is rejected: starting or deleting one network would replace the
// other's container.
func validateContainerNames(candidate *network.Network, existing []network.Network) Errors {
	if !namePattern.MatchString(candidate.ID) {
		return nil
	}

	taken := make(map[string]string)
	for i := range existing {
		n := &existing[i]
		if n.ID == candidate.ID {
			continue
		}
		for _, c := range containerClaims(n) {
			taken[c.name] = fmt.Sprintf("network %q", n.ID)
		}
	}

	var errs Errors
	reported := make(map[string]bool)
	report := func(c containerClaim, owner string) {
		if reported[c.field] {
			return
		}
		reported[c.field] = true
		errs = append(errs, duplicate(c.field, "container name %s is already used by %s", c.name, owner))
	}

	own := make(map[string]string)
	for _, c := range containerClaims(candidate) {
		if owner, ok := taken[c.name]; ok {
			report(c, owner)
			continue
		}
		if owner, ok := own[c.name]; ok && owner != c.owner {
			report(c, fmt.Sprintf("node %q", owner))
			continue
		}
		own[c.name] = c.owner
	}
	return errs
}

// (h) allocations must name well-formed, distinct accounts with a positive value.
func validateAllocations(allocs []network.Allocation) Errors {
	var errs Errors
	seen := make(map[common.Address]int)
	for i, alloc := range allocs {
		field := func(name string) string { return fmt.Sprintf("allocations[%d].%s", i, name) }

		if !IsAddress(alloc.Address) {
			errs = append(errs, invalid(field("address"), "%q is not a 40 character hex account", alloc.Address))
		} else {
			addr := common.HexToAddress(alloc.Address)
			if j, dup := seen[addr]; dup {
				errs = append(errs, duplicate(field("address"), "account %s is already allocated by allocations[%d]", alloc.Address, j))
			} else {
				seen[addr] = i
			}
		}
		if alloc.Value == 0 {
			errs = append(errs, invalid(field("value"), "value must be a positive integer"))
		}
	}
	return errs
}

// IsAddress reports whether s is a 40 hex character account, with or without 0x.
func IsAddress(s string) bool {
	return common.IsHexAddress(s)
}
