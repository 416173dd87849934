package classpool

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// cell memoizes one computation. The first caller runs it; concurrent callers
// wait on the same run and observe its single outcome. A panicking computation
// re-panics in its caller and leaves the cell failed with ErrConcurrencyFault.
type cell[T any] struct {
	once sync.Once
	done atomic.Bool // set after a successful run
	val  T
	err  error
}

func (c *cell[T]) get(what string, compute func() (T, error)) (T, error) {
	c.once.Do(func() {
		finished := false
		defer func() {
			if !finished {
				c.err = errors.Wrapf(ErrConcurrencyFault, "computing %s", what)
			}
		}()
		c.val, c.err = compute()
		finished = true
		if c.err == nil {
			c.done.Store(true)
		}
	})
	return c.val, c.err
}

// seed stores v as the outcome unless the cell already ran.
func (c *cell[T]) seed(v T) {
	c.once.Do(func() {
		c.val = v
		c.done.Store(true)
	})
}

// peek returns the value without blocking when it has been computed.
func (c *cell[T]) peek() (T, bool) {
	if c.done.Load() {
		return c.val, true
	}
	var zero T
	return zero, false
}
