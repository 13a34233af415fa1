// Package orchestration drives the container runtime for a chain network.
//
// The [Orchestrator] owns the ordering rules: images are available before any
// container is created, the virtual network exists before the bootnode starts, the
// bootnode is up and has settled before any client node starts, and nodes start one
// at a time. Every container is removed before it is recreated so that every start
// operation can be re-entered after a crash. Stopping a network goes through the
// containers one by one and attempts every stop even when an earlier one fails.
//
// Setup work (account creation, bootnode key generation, genesis initialisation) runs
// in short-lived helper containers whose logs are captured and parsed.
package orchestration
