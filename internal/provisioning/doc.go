// Package provisioning is the use-case layer for chain networks.
//
// [Controller] exposes every administration operation: create, list, get, start,
// stop, delete, status, edit, and node add/remove. Creation runs as a [Saga]: an
// ordered list of steps, each paired with a compensation. When a step fails, the
// compensations of that step and of every earlier step run in reverse order, so a
// failed create leaves no network directory behind and the registry untouched.
//
// Validation happens before any side effect. Rejected input is reported as a
// *[ValidationFailure] carrying every violation found.
//
// # Observability
//
// Each step emits structured [Event]s through an [Observer]. [LogObserver] writes
// them to a logr.Logger; a [MetricsRecorder] receives step durations and operation
// outcomes.
package provisioning
