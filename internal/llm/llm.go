// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the scoring/summarization providers behind a common
// interface with retry, backoff, and tolerant response parsing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Provider is one scoring/summarization backend. Implementations send a
// prompt with optional system context and return the raw response text.
// Providers are not assumed deterministic: identical inputs may yield
// different outputs across calls.
type Provider interface {
	Name() string
	Invoke(ctx context.Context, prompt, system string) (string, error)
}

// Fault is a classified provider failure. Transient faults (network
// errors, rate limits, timeouts, unparseable responses) are retried;
// fatal faults (bad credentials, missing binary) are not.
type Fault struct {
	Reason    string
	Transient bool
	Err       error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Reason, f.Err)
	}
	return f.Reason
}

func (f *Fault) Unwrap() error { return f.Err }

// TransientFault wraps err as a retryable failure.
func TransientFault(reason string, err error) error {
	return &Fault{Reason: reason, Transient: true, Err: err}
}

// FatalFault wraps err as a non-retryable failure.
func FatalFault(reason string, err error) error {
	return &Fault{Reason: reason, Transient: false, Err: err}
}

// IsTransient reports whether err should be retried. Unclassified errors
// count as transient: the providers classify everything they can, and an
// unknown failure at the network boundary is more likely a blip than a
// configuration problem. Context expiry is transient per the timeout
// policy; caller cancellation is surfaced by the retry loop itself.
func IsTransient(err error) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Transient
	}
	return true
}

// Invoker drives a Provider with bounded retries and exponential backoff.
// It is a pure function from (prompt, system) to (response | failure)
// given the retry budget; the only side effect is the outbound call.
type Invoker struct {
	Provider Provider

	// MaxAttempts is the total number of provider calls made before giving
	// up (minimum 1).
	MaxAttempts int

	// RetryDelay is the base backoff delay, doubling after each failed
	// attempt: d, 2d, 4d, ...
	RetryDelay time.Duration

	// Timeout bounds each individual call; expiry is a transient failure.
	Timeout time.Duration
}

// Invoke calls the provider until accept is satisfied or attempts are
// exhausted. accept may be nil, in which case any response is accepted; a
// non-nil accept rejecting a response counts as a transient failure and
// follows the same retry path, since an unparseable response is
// indistinguishable from a garbled one.
func (iv Invoker) Invoke(ctx context.Context, prompt, system string, accept func(raw string) error) (string, error) {
	attempts := iv.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * iv.RetryDelay
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		raw, err := iv.call(ctx, prompt, system)
		if err == nil && accept != nil {
			if acceptErr := accept(raw); acceptErr != nil {
				err = TransientFault("unusable response", acceptErr)
			}
		}
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !IsTransient(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// call performs one provider invocation under the per-call timeout.
func (iv Invoker) call(ctx context.Context, prompt, system string) (string, error) {
	if iv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, iv.Timeout)
		defer cancel()
	}

	raw, err := iv.Provider.Invoke(ctx, prompt, system)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return "", TransientFault("provider call timed out", err)
	}
	return raw, err
}
