package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/cliquenet/internal/validation"
)

var (
	// ErrNetworkNotFound is returned for an id that is not in the registry.
	ErrNetworkNotFound = errors.New("network not found")
	// ErrNetworkRunning is returned when an operation needs the network stopped.
	ErrNetworkRunning = errors.New("network is running")
	// ErrNodeNotFound is returned for a node name that is not in the network.
	ErrNodeNotFound = errors.New("node not found")
	// ErrLastMiner is returned when removing a node would leave no miner.
	ErrLastMiner = errors.New("cannot remove the last miner")
)

// ValidationFailure carries every violation found in a rejected request.
type ValidationFailure struct {
	Errors validation.Errors
}

func (e *ValidationFailure) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("validation failed with %d errors:\n%s", len(e.Errors), e.Errors.Error())
}

// HasField reports whether any violation concerns field.
func (e *ValidationFailure) HasField(field string) bool {
	return e.Errors.HasField(field)
}

// ProvisioningError is returned when a saga step fails. Compensation failures, if
// any, are attached but not unwrapped.
type ProvisioningError struct {
	Step         string
	Err          error
	Compensation error
}

func (e *ProvisioningError) Error() string {
	msg := fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
	if e.Compensation != nil {
		msg += fmt.Sprintf(" (rollback incomplete: %v)", e.Compensation)
	}
	return msg
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
