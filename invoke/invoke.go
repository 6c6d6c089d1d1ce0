// Package invoke is the sole sanctioned path between agents and the external
// generation backend. It wraps a single call with retry, backoff and default
// fallback (WithRecovery), recovers structured payloads from free text
// (ParseStructured) and extracts typed fields safely (Field).
//
// Generation failures never propagate as errors: callers receive an Outcome
// whose status distinguishes a fresh result, a degraded default and a fatal
// (context-cancelled) termination.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hupe1980/interviewmesh/logging"
)

// Status classifies an Outcome.
type Status int

const (
	// StatusOK means the call produced a usable value.
	StatusOK Status = iota
	// StatusRecovered means all attempts failed and the default was used.
	StatusRecovered
	// StatusFatal means the surrounding context was cancelled mid-call.
	StatusFatal
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRecovered:
		return "recovered"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the explicit result type of WithRecovery. Degraded-but-valid
// results (StatusRecovered) are distinguishable from fresh ones without any
// error handling on the caller's side.
type Outcome struct {
	Text     string
	Status   Status
	Cause    error // terminal error chain for Recovered/Fatal
	Attempts int
}

// OK reports whether the value came from a successful call.
func (o Outcome) OK() bool { return o.Status == StatusOK }

// Degraded reports whether the value is a recovered default.
func (o Outcome) Degraded() bool { return o.Status == StatusRecovered }

// CallFunc executes one attempt against the generation backend. Inputs carry
// the structured request (system directive, history, prompt); the returned
// string is the raw completion text.
type CallFunc func(ctx context.Context, inputs map[string]any) (string, error)

// DefaultFunc produces the fallback value when every attempt failed.
type DefaultFunc func() string

// Options configures an Invoker.
type Options struct {
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration
	// Logger receives the error chain of exhausted calls.
	Logger logging.Logger
}

// Invoker bundles the retry/backoff policy shared by all agents. Safe for
// concurrent use; it holds no per-call state.
type Invoker struct {
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         logging.Logger
}

// New constructs an Invoker with optional overrides.
func New(optFns ...func(o *Options)) *Invoker {
	opts := Options{
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     3 * time.Second,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Invoker{
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
		logger:         opts.Logger,
	}
}

// WithRecovery executes call(inputs); on failure it retries up to maxRetries
// additional times with exponential backoff and jitter. When all attempts
// fail the outcome carries defaultFn() with StatusRecovered and the joined
// error chain as Cause — the conversation degrades, it never stalls. Only
// context cancellation yields StatusFatal.
func (iv *Invoker) WithRecovery(
	ctx context.Context,
	call CallFunc,
	inputs map[string]any,
	defaultFn DefaultFunc,
	maxRetries int,
) Outcome {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var chain []error
	attempts := 0
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := withJitter(expBackoff(attempt-1, iv.initialBackoff, iv.maxBackoff))
			if !sleepWithContext(ctx, delay) {
				return Outcome{Status: StatusFatal, Cause: ctx.Err(), Attempts: attempts}
			}
		}

		attempts++
		text, err := call(ctx, inputs)
		if err == nil {
			return Outcome{Text: text, Status: StatusOK, Attempts: attempts}
		}
		chain = append(chain, fmt.Errorf("attempt %d: %w", attempt+1, err))
		if ctx.Err() != nil {
			return Outcome{Status: StatusFatal, Cause: ctx.Err(), Attempts: attempts}
		}
		iv.logger.Warn("generation attempt failed attempt=%d max=%d err=%v", attempt+1, maxRetries+1, err)
	}

	cause := errors.Join(chain...)
	iv.logger.Error("generation exhausted %d attempts, falling back to default: %v", attempts, cause)
	return Outcome{Text: defaultFn(), Status: StatusRecovered, Cause: cause, Attempts: attempts}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func expBackoff(attempt int, initial, max time.Duration) time.Duration {
	if attempt <= 0 {
		return initial
	}
	d := initial << attempt
	if d <= 0 {
		return max
	}
	if max > 0 && d > max {
		return max
	}
	return d
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	// +/-20% jitter.
	j := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(d) * j)
}
