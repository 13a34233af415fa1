package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy describes how often and how patiently an operation is retried.
type Policy struct {
	// Retries is the number of attempts after the first one.
	Retries int
	// Delay is the wait before the first retry. It doubles after every retry up
	// to MaxDelay.
	Delay    time.Duration
	MaxDelay time.Duration
	// Notify is called before each wait with the failed attempt number (1-based).
	Notify func(attempt int, err error)
}

// DefaultPolicy retries five times starting at one second.
func DefaultPolicy() Policy {
	return Policy{Retries: 5, Delay: time.Second, MaxDelay: 30 * time.Second}
}

// Do runs op until it succeeds, returns a permanent error, exhausts the policy or
// ctx is done.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	delay := p.Delay
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		if attempt > p.Retries {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		if p.Notify != nil {
			p.Notify(attempt, err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("interrupted after %d attempts: %w", attempt, errors.Join(ctx.Err(), err))
		case <-timer.C:
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns it unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err or any error it wraps was marked Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
