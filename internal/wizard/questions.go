package wizard

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/validation"
)

// networkIDRegex validates network id format: 1-32 lowercase alphanumeric with hyphens.
var networkIDRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// runIdentityGroup prompts for network id and chain id.
func runIdentityGroup(ctx context.Context, result *WizardResult) error {
	var chainID string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Network ID").
				Description("1-32 lowercase alphanumeric characters or hyphens").
				Placeholder("devnet").
				Value(&result.NetworkID).
				Validate(validateNetworkID),
			huh.NewInput().
				Title("Chain ID").
				Description("Must differ from public networks and from your other networks").
				Placeholder("4242").
				Value(&chainID).
				Validate(validateChainID),
		).Title("Network Identity"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.ChainID, _ = strconv.ParseUint(strings.TrimSpace(chainID), 10, 64)
	return nil
}

// runTopologyGroup prompts for the subnet and the number of nodes per role.
func runTopologyGroup(ctx context.Context, result *WizardResult) error {
	miners := strconv.Itoa(result.Miners)
	rpcNodes := strconv.Itoa(result.RPCNodes)
	normalNodes := strconv.Itoa(result.NormalNodes)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subnet").
				Description("The bootnode gets host 10, nodes follow from host 11").
				Value(&result.Subnet).
				Validate(validateCIDR),
			huh.NewInput().
				Title("Miners").
				Description("Signer nodes sealing blocks (at least one)").
				Value(&miners).
				Validate(validateMinerCount),
			huh.NewInput().
				Title("RPC Nodes").
				Description("Nodes exposing the HTTP API, ports assigned from 8545").
				Value(&rpcNodes).
				Validate(validateCount),
			huh.NewInput().
				Title("Normal Nodes").
				Description("Plain peers without mining or HTTP API").
				Value(&normalNodes).
				Validate(validateCount),
		).Title("Topology"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.Miners, _ = strconv.Atoi(strings.TrimSpace(miners))
	result.RPCNodes, _ = strconv.Atoi(strings.TrimSpace(rpcNodes))
	result.NormalNodes, _ = strconv.Atoi(strings.TrimSpace(normalNodes))
	return nil
}

// runAllocationsGroup prompts for genesis balances (optional).
func runAllocationsGroup(ctx context.Context, result *WizardResult) error {
	var input string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Genesis Allocations (Optional)").
				Description("address=ether pairs separated by commas. Leave empty for none.").
				Placeholder("0x8ba1f109551bd432803012645ac136ddd64dba72=5000").
				Value(&input).
				Validate(func(s string) error {
					_, err := parseAllocations(s)
					return err
				}),
		).Title("Genesis"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.Allocations, _ = parseAllocations(input)
	return nil
}

func validateNetworkID(s string) error {
	if s == "" {
		return errNetworkIDRequired
	}
	if !networkIDRegex.MatchString(s) {
		return errNetworkIDInvalid
	}
	return nil
}

func validateChainID(s string) error {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return errChainIDInvalid
	}
	return nil
}

func validateCIDR(s string) error {
	if strings.TrimSpace(s) == "" {
		return errCIDRRequired
	}
	if _, ok := validation.ParseSubnet(s); !ok {
		return errCIDRInvalid
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errCountInvalid
	}
	return nil
}

func validateMinerCount(s string) error {
	if err := validateCount(s); err != nil {
		return err
	}
	if n, _ := strconv.Atoi(strings.TrimSpace(s)); n == 0 {
		return errNoMiner
	}
	return nil
}

// parseAllocations parses "addr=value, addr=value". Empty input yields no
// allocations.
func parseAllocations(input string) ([]network.Allocation, error) {
	var allocs []network.Allocation
	for _, part := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == '\n' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		addr, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, errAllocationInvalid
		}
		addr = strings.TrimSpace(addr)
		v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || v == 0 || !validation.IsAddress(addr) {
			return nil, errAllocationInvalid
		}
		allocs = append(allocs, network.Allocation{Address: addr, Value: v})
	}
	return allocs, nil
}
