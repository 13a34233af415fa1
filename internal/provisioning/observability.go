package provisioning

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-logr/logr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf logs a free-form message
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a step
	Progress(step string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Step      string            // Step name (e.g., "bootnode", "node/m1")
	Message   string            // Human-readable message
	Resource  string            // Resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventStepStarted indicates a saga step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a saga step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a saga step failed.
	EventStepFailed EventType = "step.failed"

	// EventStepCompensated indicates a step's compensation ran.
	EventStepCompensated EventType = "step.compensated"
	// EventCompensationFailed indicates a step's compensation failed.
	EventCompensationFailed EventType = "step.compensation_failed"

	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"

	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...), o.keyValues(nil)...)
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Step != "" {
		kv = append(kv, "step", event.Step)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, o.keyValues(event.Fields)...)

	switch event.Type {
	case EventStepFailed, EventCompensationFailed, EventValidationError:
		o.log.Error(nil, event.Message, kv...)
	case EventProgress, EventStepStarted:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(step string, current, total int) {
	kv := []any{"step", step, "current", current, "total", total}
	if total > 0 {
		kv = append(kv, "percent", (current*100)/total)
	}
	o.log.V(1).Info("progress", append(kv, o.keyValues(nil)...)...)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := maps.Clone(o.contextFields)
	maps.Copy(newFields, fields)
	return &LogObserver{
		log:           o.log,
		contextFields: newFields,
	}
}

// keyValues merges context fields under event fields, sorted by key.
func (o *LogObserver) keyValues(fields map[string]string) []any {
	merged := maps.Clone(o.contextFields)
	if merged == nil {
		merged = make(map[string]string)
	}
	maps.Copy(merged, fields)

	keys := slices.Sorted(maps.Keys(merged))
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, merged[k])
	}
	return kv
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: "starting",
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Step:    step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogStepCompensated logs a successful compensation.
func LogStepCompensated(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepCompensated,
		Step:    step,
		Message: "rolled back",
	})
}

// LogCompensationFailed logs a failed compensation.
func LogCompensationFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventCompensationFailed,
		Step:    step,
		Message: fmt.Sprintf("rollback failed: %v", err),
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Step:     step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleted logs a successful resource deletion event.
func LogResourceDeleted(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleted,
		Step:     step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s deleted", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogValidationErrors logs one event per violation.
func LogValidationErrors(observer Observer, failure *ValidationFailure) {
	for _, e := range failure.Errors {
		observer.Event(Event{
			Type:    EventValidationError,
			Message: e.Message,
			Fields: map[string]string{
				"field": e.Field,
				"kind":  string(e.Kind),
			},
		})
	}
}
