package client

import (
	"context"
	"errors"
	"sync"
)

// Collection manages one refreshable list of items. Loads are independent,
// unordered reads: starting a new load supersedes any load still in flight,
// and a superseded or cancelled load is dropped silently rather than surfaced
// as an error. There is no cross-collection consistency guarantee.
type Collection[T any] struct {
	mu      sync.Mutex
	items   []T
	lastErr string
	cancel  context.CancelFunc
	gen     uint64
}

// NewCollection creates an empty collection
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{}
}

// Load fetches items and installs them unless this load was superseded by a
// newer one. A fetch aborted by cancellation returns nil: superseded reads
// are a non-error and never reach the caller.
func (c *Collection[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil
		}
		// A superseded load stays silent even when its fetch ignored
		// cancellation and failed for another reason
		if gen != c.gen {
			return nil
		}
		c.lastErr = err.Error()
		return err
	}

	// A newer load has started; keep its (eventual) result instead
	if gen != c.gen {
		return nil
	}

	c.items = items
	c.lastErr = ""
	return nil
}

// LastError returns the display message of the most recent failed load, or
// the empty string after a successful one. Silent drops never set it.
func (c *Collection[T]) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Items returns a copy of the current items
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Len returns the current item count
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
