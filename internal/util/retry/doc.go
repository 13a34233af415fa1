// Package retry retries transient failures with a doubling delay.
//
// The orchestrator uses [Do] for image pulls, where registry hiccups are
// common. An error wrapped with [Permanent] ends the loop at once.
package retry
