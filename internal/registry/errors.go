package registry

import "fmt"

// FileSystemError is returned when a registry or network file operation fails.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}

// ConsistencyError is returned when the registry read back after a write does not
// hold the expected number of networks.
type ConsistencyError struct {
	Expected int
	Actual   int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("registry consistency check failed: expected %d networks, found %d", e.Expected, e.Actual)
}
