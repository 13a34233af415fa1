package provisioning

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMetrics struct {
	mu         sync.Mutex
	steps      map[string]string
	operations map[string]string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{steps: map[string]string{}, operations: map[string]string{}}
}

func (m *recordingMetrics) ObserveStep(step, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[step] = outcome
}

func (m *recordingMetrics) ObserveOperation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[operation] = outcome
}

// trace records actions and compensations in execution order.
type trace struct {
	calls []string
}

func (tr *trace) step(name string, actionErr, compErr error) Step {
	return Step{
		Name: name,
		Action: func(context.Context) error {
			tr.calls = append(tr.calls, "do:"+name)
			return actionErr
		},
		Compensate: func(context.Context) error {
			tr.calls = append(tr.calls, "undo:"+name)
			return compErr
		},
	}
}

func TestSaga_RunsStepsInOrder(t *testing.T) {
	t.Parallel()
	tr := &trace{}
	metrics := newRecordingMetrics()
	observer := newRecordingObserver()

	err := NewSaga(observer, metrics).Run(context.Background(), []Step{
		tr.step("a", nil, nil),
		tr.step("b", nil, nil),
		tr.step("c", nil, nil),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"do:a", "do:b", "do:c"}, tr.calls)
	assert.Equal(t, []string{"a", "b", "c"}, observer.steps(EventStepCompleted))
	assert.Equal(t, map[string]string{"a": OutcomeSucceeded, "b": OutcomeSucceeded, "c": OutcomeSucceeded}, metrics.steps)
}

func TestSaga_CompensatesInReverseOnFailure(t *testing.T) {
	t.Parallel()
	tr := &trace{}
	boom := errors.New("boom")
	observer := newRecordingObserver()

	err := NewSaga(observer, nil).Run(context.Background(), []Step{
		tr.step("a", nil, nil),
		tr.step("b", nil, nil),
		tr.step("c", boom, nil),
		tr.step("d", nil, nil),
	})

	var perr *ProvisioningError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "c", perr.Step)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, perr.Compensation)
	assert.Equal(t, []string{"do:a", "do:b", "do:c", "undo:c", "undo:b", "undo:a"}, tr.calls)
	assert.Equal(t, []string{"c", "b", "a"}, observer.steps(EventStepCompensated))
}

func TestSaga_SkipsNilCompensation(t *testing.T) {
	t.Parallel()
	tr := &trace{}
	noUndo := Step{
		Name:   "pull",
		Action: func(context.Context) error { tr.calls = append(tr.calls, "do:pull"); return nil },
	}

	err := NewSaga(newRecordingObserver(), nil).Run(context.Background(), []Step{
		noUndo,
		tr.step("b", errors.New("boom"), nil),
	})

	require.Error(t, err)
	assert.Equal(t, []string{"do:pull", "do:b", "undo:b"}, tr.calls)
}

func TestSaga_CompensationFailureIsReported(t *testing.T) {
	t.Parallel()
	tr := &trace{}
	stuck := errors.New("directory busy")
	observer := newRecordingObserver()

	err := NewSaga(observer, nil).Run(context.Background(), []Step{
		tr.step("a", nil, stuck),
		tr.step("b", errors.New("boom"), nil),
	})

	var perr *ProvisioningError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, perr.Compensation, stuck)
	assert.Contains(t, err.Error(), "rollback incomplete")
	assert.NotErrorIs(t, err, stuck)
	assert.Equal(t, []string{"a"}, observer.steps(EventCompensationFailed))
	assert.Equal(t, []string{"b"}, observer.steps(EventStepCompensated))
}

func TestSaga_CompensatesAfterCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	var compensated bool
	err := NewSaga(newRecordingObserver(), nil).Run(ctx, []Step{
		{
			Name:   "a",
			Action: func(context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				compensated = ctx.Err() == nil
				return nil
			},
		},
		{
			Name: "b",
			Action: func(ctx context.Context) error {
				cancel()
				return ctx.Err()
			},
		},
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, compensated)
}

func TestSaga_RecordsFailedStep(t *testing.T) {
	t.Parallel()
	metrics := newRecordingMetrics()
	tr := &trace{}

	_ = NewSaga(newRecordingObserver(), metrics).Run(context.Background(), []Step{
		tr.step("a", nil, nil),
		tr.step("b", errors.New("boom"), nil),
	})

	assert.Equal(t, OutcomeSucceeded, metrics.steps["a"])
	assert.Equal(t, OutcomeFailed, metrics.steps["b"])
}
