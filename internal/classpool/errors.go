package classpool

import (
	"github.com/pkg/errors"

	"hier/internal/provider"
)

var (
	// ErrNotFound is returned unchanged from the provider when an identifier
	// names no type.
	ErrNotFound = provider.ErrNotFound

	// ErrDanglingReference reports that a Class's link into the pool can no
	// longer be upgraded because the pool dropped its copy (Clear or replace).
	ErrDanglingReference = errors.New("dangling class reference")

	// ErrConcurrencyFault reports that a memoized fact was poisoned by a panic
	// during its computation. The pool should not be used further.
	ErrConcurrencyFault = errors.New("class entry poisoned by an earlier panic")
)
