package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Step is one unit of a saga. Compensate undoes Action and must be safe to run
// when Action failed part way or did nothing. A nil Compensate means there is
// nothing to undo.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga runs steps in order and rolls back on the first failure.
type Saga struct {
	observer Observer
	metrics  MetricsRecorder
}

// NewSaga creates a saga executor reporting to observer and metrics.
func NewSaga(observer Observer, metrics MetricsRecorder) *Saga {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Saga{observer: observer, metrics: metrics}
}

// Run executes steps sequentially. When step i fails, the compensations of steps
// i, i-1, ..., 0 run in that order and a *ProvisioningError naming step i is
// returned. Compensations run even if ctx has been cancelled.
func (s *Saga) Run(ctx context.Context, steps []Step) error {
	start := time.Now()

	for i, step := range steps {
		stepStart := time.Now()
		LogStepStart(s.observer, step.Name)
		s.observer.Progress(step.Name, i+1, len(steps))

		if err := step.Action(ctx); err != nil {
			s.metrics.ObserveStep(step.Name, OutcomeFailed, time.Since(stepStart))
			LogStepFailed(s.observer, step.Name, err)

			compErr := s.compensate(ctx, steps[:i+1])
			return &ProvisioningError{Step: step.Name, Err: err, Compensation: compErr}
		}

		s.metrics.ObserveStep(step.Name, OutcomeSucceeded, time.Since(stepStart))
		LogStepComplete(s.observer, step.Name, time.Since(stepStart))
	}

	s.observer.Printf("completed %d steps in %v", len(steps), time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Saga) compensate(ctx context.Context, done []Step) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			LogCompensationFailed(s.observer, step.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
			continue
		}
		LogStepCompensated(s.observer, step.Name)
	}
	return errors.Join(errs...)
}
