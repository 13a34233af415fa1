package provisioning

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"

	"github.com/imamik/cliquenet/internal/validation"
)

// recordingObserver is a test implementation of Observer that records events.
// Observers derived with WithFields share the parent's record.
type recordingObserver struct {
	mu       *sync.Mutex
	events   *[]Event
	messages *[]string
	fields   map[string]string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		mu:       &sync.Mutex{},
		events:   &[]Event{},
		messages: &[]string{},
		fields:   map[string]string{},
	}
}

func (r *recordingObserver) Printf(format string, v ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.messages = append(*r.messages, fmt.Sprintf(format, v...))
}

func (r *recordingObserver) Event(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.Fields == nil {
		event.Fields = map[string]string{}
	}
	for k, v := range r.fields {
		event.Fields[k] = v
	}
	*r.events = append(*r.events, event)
}

func (r *recordingObserver) Progress(step string, current, total int) {
	r.Event(Event{
		Type: EventProgress,
		Step: step,
		Fields: map[string]string{
			"current": fmt.Sprint(current),
			"total":   fmt.Sprint(total),
		},
	})
}

func (r *recordingObserver) WithFields(fields map[string]string) Observer {
	child := &recordingObserver{mu: r.mu, events: r.events, messages: r.messages, fields: map[string]string{}}
	for k, v := range r.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

// steps returns the step names of events of type t in order.
func (r *recordingObserver) steps(t EventType) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range *r.events {
		if e.Type == t {
			out = append(out, e.Step)
		}
	}
	return out
}

func newBufferObserver(verbosity int) (*LogObserver, *bytes.Buffer) {
	var buf bytes.Buffer
	log := funcr.New(func(prefix, args string) {
		buf.WriteString(prefix + " " + args + "\n")
	}, funcr.Options{Verbosity: verbosity})
	return NewLogObserver(log), &buf
}

func TestLogObserver_Printf(t *testing.T) {
	t.Parallel()
	observer, buf := newBufferObserver(0)

	observer.Printf("creating network %s", "net1")

	assert.Contains(t, buf.String(), "creating network net1")
}

func TestLogObserver_EventFields(t *testing.T) {
	t.Parallel()
	observer, buf := newBufferObserver(0)

	observer.WithFields(map[string]string{"network": "net1"}).Event(Event{
		Type:     EventResourceCreated,
		Step:     "bootnode",
		Resource: "0xabc",
		Message:  "account created",
		Fields:   map[string]string{"type": "account"},
	})

	out := buf.String()
	assert.Contains(t, out, "account created")
	assert.Contains(t, out, `"network"="net1"`)
	assert.Contains(t, out, `"type"="account"`)
	assert.Contains(t, out, `"step"="bootnode"`)
}

func TestLogObserver_ProgressIsVerbose(t *testing.T) {
	t.Parallel()

	quiet, quietBuf := newBufferObserver(0)
	quiet.Progress("genesis", 1, 4)
	assert.Empty(t, quietBuf.String())

	verbose, verboseBuf := newBufferObserver(1)
	verbose.Progress("genesis", 1, 4)
	assert.Contains(t, verboseBuf.String(), "genesis")
}

func TestLogObserver_FailureIsError(t *testing.T) {
	t.Parallel()
	observer, buf := newBufferObserver(0)

	LogStepFailed(observer, "genesis-init", errors.New("exit code 1"))

	out := buf.String()
	assert.Contains(t, out, "genesis-init")
	assert.Contains(t, out, "exit code 1")
}

func TestLogHelpers_EventTypes(t *testing.T) {
	t.Parallel()
	observer := newRecordingObserver()

	LogStepStart(observer, "a")
	LogStepComplete(observer, "a", time.Second)
	LogStepFailed(observer, "b", errors.New("boom"))
	LogStepCompensated(observer, "b")
	LogCompensationFailed(observer, "a", errors.New("busy"))
	LogResourceCreated(observer, "a", "directory", "/tmp/x")
	LogResourceDeleted(observer, "a", "directory", "/tmp/x")

	assert.Equal(t, []string{"a"}, observer.steps(EventStepStarted))
	assert.Equal(t, []string{"a"}, observer.steps(EventStepCompleted))
	assert.Equal(t, []string{"b"}, observer.steps(EventStepFailed))
	assert.Equal(t, []string{"b"}, observer.steps(EventStepCompensated))
	assert.Equal(t, []string{"a"}, observer.steps(EventCompensationFailed))
	assert.Equal(t, []string{"a"}, observer.steps(EventResourceCreated))
	assert.Equal(t, []string{"a"}, observer.steps(EventResourceDeleted))
}

func TestLogValidationErrors_OneEventPerViolation(t *testing.T) {
	t.Parallel()
	observer := newRecordingObserver()

	LogValidationErrors(observer, &ValidationFailure{Errors: validation.Errors{
		{Field: "chainId", Message: "already used by net0", Kind: validation.KindDuplicate},
		{Field: "nodes[1].port", Message: "duplicate port 8545", Kind: validation.KindDuplicate},
	}})

	assert.Len(t, observer.steps(EventValidationError), 2)
}
