// =============================================================================
// Floor Plan Filler - Background Operations
// =============================================================================
//
// Long operations (extraction, PDF conversion) run off the caller's goroutine
// and hand back exactly one Result on a buffered channel, the same way the
// batch processor collects per-file results.
//
// A Runner accepts one operation at a time. Submitting while another one is
// in flight fails with ErrBusy instead of queueing, so the user cannot start
// a second save or extraction on top of the first.
//
// =============================================================================

package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrBusy is returned by Submit while an operation is still running.
var ErrBusy = errors.New("another operation is still running")

// Func is the unit of work run by a Runner.
type Func func(ctx context.Context) (any, error)

// Result is the outcome of one submitted operation.
type Result struct {
	// Name identifies the operation in logs and messages.
	Name string

	// Value is whatever the operation returned. Nil on failure.
	Value any

	// Err is the operation's error, or a recovered panic.
	Err error

	// Elapsed is the wall time spent in the operation.
	Elapsed time.Duration
}

// Runner runs at most one operation at a time.
type Runner struct {
	mu      sync.Mutex
	busy    bool
	running string
}

// NewRunner returns an idle Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Submit starts fn on its own goroutine.
//
// PARAMETERS:
//   - ctx: Passed to fn unchanged.
//   - name: Label for the operation.
//   - fn: The work to run.
//
// RETURNS:
//   - A channel that receives exactly one Result and is then closed.
//   - ErrBusy if an operation is already in flight.
func (r *Runner) Submit(ctx context.Context, name string, fn Func) (<-chan Result, error) {
	r.mu.Lock()
	if r.busy {
		current := r.running
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrBusy, current)
	}
	r.busy = true
	r.running = name
	r.mu.Unlock()

	results := make(chan Result, 1)

	go func() {
		start := time.Now()
		result := Result{Name: name}

		func() {
			defer func() {
				if p := recover(); p != nil {
					result.Err = fmt.Errorf("%s panicked: %v", name, p)
				}
			}()
			result.Value, result.Err = fn(ctx)
		}()

		result.Elapsed = time.Since(start)
		if result.Err != nil {
			result.Value = nil
		}

		// Free the runner before delivering so the receiver can submit again.
		r.mu.Lock()
		r.busy = false
		r.running = ""
		r.mu.Unlock()

		results <- result
		close(results)
	}()

	return results, nil
}

// Busy reports whether an operation is running, and its name.
func (r *Runner) Busy() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running, r.busy
}

// Run submits fn and waits for its result.
func (r *Runner) Run(ctx context.Context, name string, fn Func) (Result, error) {
	results, err := r.Submit(ctx, name, fn)
	if err != nil {
		return Result{Name: name, Err: err}, err
	}
	return <-results, nil
}
