package s3async

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Future is a write-once handle to a result produced asynchronously.
// Exactly one of the value or the error is set, exactly once. Readers may
// block with a deadline (Wait, WaitTimeout) or poll (TryResult).
//
// A future that is never consumed does not cancel the in-flight exchange;
// the result simply goes unread. Likewise a Wait that times out leaves the
// exchange running to completion in the background, and the late result is
// discarded.
type Future[T any] struct {
	done chan struct{}
	once sync.Once

	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T) {
	f.once.Do(func() {
		f.value = v
		close(f.done)
	})
}

func (f *Future[T]) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// rejected returns a future that is already settled with err. Used for
// descriptor errors caught before dispatch.
func rejected[T any](err error) *Future[T] {
	f := newFuture[T]()
	f.reject(err)
	return f
}

// Wait blocks until the future settles or ctx expires. A deadline expiry
// surfaces as ErrTimeout; plain cancellation returns the context error.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		if ctx.Err() == context.DeadlineExceeded {
			return zero, fmt.Errorf("wait for result: %w", ErrTimeout)
		}
		return zero, ctx.Err()
	}
}

// WaitTimeout is Wait with a duration instead of a context.
func (f *Future[T]) WaitTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return f.Wait(ctx)
}

// Done returns a channel closed when the future settles. Useful in select
// loops alongside other channels.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// TryResult polls the future without blocking. The bool reports whether
// the future has settled.
func (f *Future[T]) TryResult() (T, error, bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}
