package validation

import (
	"encoding/binary"
	"net/netip"
)

// Supported subnet mask range.
const (
	MinSubnetMask = 16
	MaxSubnetMask = 30
)

// ParseSubnet parses an IPv4 CIDR and checks the mask is within the supported range.
func ParseSubnet(subnet string) (netip.Prefix, bool) {
	prefix, err := netip.ParsePrefix(subnet)
	if err != nil || !prefix.Addr().Is4() {
		return netip.Prefix{}, false
	}
	if prefix.Bits() < MinSubnetMask || prefix.Bits() > MaxSubnetMask {
		return netip.Prefix{}, false
	}
	return prefix, true
}

// ParseIPv4 parses a dotted-quad IPv4 address.
func ParseIPv4(ip string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return netip.Addr{}, false
	}
	return addr, true
}

// IsIPInSubnet reports whether ip lies inside subnet by comparing the whole octets
// implied by the subnet mask (mask/8 octets). Masks that are not a multiple of 8 are
// compared on their whole-octet part only. Malformed input yields false.
func IsIPInSubnet(ip, subnet string) bool {
	prefix, ok := ParseSubnet(subnet)
	if !ok {
		return false
	}
	addr, ok := ParseIPv4(ip)
	if !ok {
		return false
	}

	base := prefix.Addr().As4()
	candidate := addr.As4()
	for i := 0; i < prefix.Bits()/8; i++ {
		if base[i] != candidate[i] {
			return false
		}
	}
	return true
}

// reservedAddress reports whether addr is the network address, the bridge gateway
// (first host) or the broadcast address of prefix. Docker claims the gateway for
// the bridge itself.
func reservedAddress(addr netip.Addr, prefix netip.Prefix) bool {
	network := prefix.Masked().Addr()
	if addr == network || addr == network.Next() {
		return true
	}

	hostBits := 32 - prefix.Bits()
	netU := binary.BigEndian.Uint32(network.AsSlice())
	broadcast := netU | (uint32(1)<<hostBits - 1)
	return binary.BigEndian.Uint32(addr.AsSlice()) == broadcast
}

// subnetsOverlap reports whether two prefixes share any address.
func subnetsOverlap(a, b netip.Prefix) bool {
	return a.Overlaps(b)
}
