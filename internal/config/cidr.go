package config

import (
	"encoding/binary"
	"fmt"
	"net"
)

// CIDRHost calculates a full host IP address for a given network address and host number.
// This mimics the behavior of Terraform's cidrhost function.
//
// Parameters:
//   - prefix: The network prefix (e.g., "10.0.0.0/24")
//   - hostnum: The host number to calculate. Can be negative to count from the end
//
// Note: Only IPv4 addresses are supported. IPv6 addresses will return an error.
func CIDRHost(prefix string, hostnum int) (string, error) {
	network, err := parseIPv4CIDR(prefix)
	if err != nil {
		return "", err
	}

	maskSize, totalBits := network.Mask.Size()
	maxHosts := uint64(1) << (totalBits - maskSize)

	var offset uint64
	if hostnum < 0 {
		absHostNum := uint64(-hostnum)
		if absHostNum > maxHosts {
			return "", fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
		offset = maxHosts - absHostNum
	} else {
		offset = uint64(hostnum)
		if offset >= maxHosts {
			return "", fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
	}

	return ipFromUint(uintFromIP(network.IP) + offset).String(), nil
}

// UsableHosts is the number of assignable addresses in prefix, excluding the network,
// gateway and broadcast addresses that the bridge driver reserves.
func UsableHosts(prefix string) (int, error) {
	network, err := parseIPv4CIDR(prefix)
	if err != nil {
		return 0, err
	}
	maskSize, totalBits := network.Mask.Size()
	hosts := (1 << (totalBits - maskSize)) - 3
	if hosts < 0 {
		hosts = 0
	}
	return hosts, nil
}

func parseIPv4CIDR(prefix string) (*net.IPNet, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if network.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}
	return network, nil
}

// uintFromIP converts an IP address to uint64.
// Only supports IPv4 addresses.
func uintFromIP(ip net.IP) uint64 {
	if len(ip) == 16 {
		if ip4 := ip.To4(); ip4 != nil {
			return uint64(binary.BigEndian.Uint32(ip4))
		}
		return 0
	}
	return uint64(binary.BigEndian.Uint32(ip))
}

// ipFromUint converts a uint64 value back to an IPv4 address.
func ipFromUint(val uint64) net.IP {
	ip := make(net.IP, 4)
	// #nosec G115
	binary.BigEndian.PutUint32(ip, uint32(val))
	return ip
}
