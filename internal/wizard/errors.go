package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errNetworkIDRequired = errors.New("network id is required")
	errNetworkIDInvalid  = errors.New("network id must be 1-32 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errChainIDInvalid    = errors.New("chain id must be a positive integer")
	errCIDRRequired      = errors.New("CIDR is required")
	errCIDRInvalid       = errors.New("invalid CIDR format (expected: x.x.x.x/xx with a mask from 16 to 30)")
	errCountInvalid      = errors.New("count must be a non-negative integer")
	errAllocationInvalid = errors.New("allocations must be address=value pairs separated by commas")
	errNoMiner           = errors.New("a network needs at least one miner")
	errSubnetTooSmall    = errors.New("subnet has too few addresses for the requested nodes")
)
