// Package docker wraps the Docker Engine API behind the narrow [Runtime] interface
// used to run client containers.
//
//   - runtime.go: Runtime interface, container and network specs
//   - real_client.go: Runtime backed by github.com/docker/docker/client
//   - mock.go: in-memory Runtime for tests
//   - errors.go: RuntimeError and not-found classification
//
// Every error returned by RealClient is a *RuntimeError naming the operation and the
// container, image or network it acted on. Missing objects satisfy [IsNotFound].
package docker
