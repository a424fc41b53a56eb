// Package isolate runs backend calls inside a per-call crash boundary.
//
// A panic raised by the wrapped function is recovered on the goroutine that
// raised it and returned as a *PanicError. If the caller's context ends first
// the call is abandoned and a *TimeoutError is returned; the abandoned
// goroutine runs to completion in the background. No process-wide state is
// touched, so any number of boundaries may be active at once.
//
// Go cannot recover from runtime fatal errors (stack exhaustion, concurrent
// map writes, faults inside cgo). Backends must bound their own recursion.
package isolate

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// ErrPanic matches any *PanicError.
	ErrPanic = errors.New("backend panicked")

	// ErrTimeout matches any *TimeoutError.
	ErrTimeout = errors.New("backend timed out")

	errGoexit = errors.New("goroutine exited without returning")
)

// PanicError reports a recovered panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("backend panicked: %v", e.Value)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}

// TimeoutError reports a call abandoned because its context ended.
type TimeoutError struct {
	Elapsed time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("backend abandoned after %s: %v", e.Elapsed.Round(time.Millisecond), e.Cause)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

type outcome[T any] struct {
	value T
	err   error
}

// Run calls fn inside a crash boundary and returns its result. Errors
// returned by fn are passed through unchanged.
func Run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, &TimeoutError{Cause: err}
	}

	start := time.Now()
	done := make(chan outcome[T], 1)

	go func() {
		normal := false
		defer func() {
			if r := recover(); r != nil {
				done <- outcome[T]{err: &PanicError{Value: r, Stack: debug.Stack()}}
			} else if !normal {
				// runtime.Goexit unwinds without a panic value.
				done <- outcome[T]{err: &PanicError{Value: errGoexit, Stack: debug.Stack()}}
			}
		}()
		v, err := fn()
		normal = true
		done <- outcome[T]{value: v, err: err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		return zero, &TimeoutError{Elapsed: time.Since(start), Cause: context.Cause(ctx)}
	}
}

// Call is Run for functions that only report an error.
func Call(ctx context.Context, fn func() error) error {
	_, err := Run(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
