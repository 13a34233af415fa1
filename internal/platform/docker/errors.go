package docker

import (
	"errors"
	"fmt"

	"github.com/docker/docker/errdefs"
)

// ErrNotFound is wrapped by errors for missing containers, images and networks.
var ErrNotFound = errors.New("not found")

// RuntimeError is returned for every failed engine call.
type RuntimeError struct {
	Op     string
	Target string
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("docker %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the target object does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || errdefs.IsNotFound(err)
}

func wrap(op, target string, err error) error {
	if err == nil {
		return nil
	}
	if errdefs.IsNotFound(err) {
		err = fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return &RuntimeError{Op: op, Target: target, Err: err}
}
