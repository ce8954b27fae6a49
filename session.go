package connpool

import (
	"context"
	"time"
)

// Session is an opaque handle to an open database connection. The pool
// never interprets its contents, only its liveness and closability.
//
// Identity is by interface value (pointer) equality: Pool.IsActive and the
// LeakDetector's internal bookkeeping both rely on this, so callers must
// never wrap a Session returned by Acquire in a proxy before passing it
// back into Release or IsActive.
type Session interface {
	// IsAlive reports whether the underlying connection is still usable,
	// blocking up to timeout to find out.
	IsAlive(ctx context.Context, timeout time.Duration) bool
	// Close releases the underlying connection. Called at most once per
	// Session by the pool.
	Close() error
}
