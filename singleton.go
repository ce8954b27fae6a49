package connpool

import (
	"context"
	"sync"

	"github.com/lattice-db/connpool/poolerrors"
)

// singleton holds the process-wide Pool instance. Generalizes the
// teacher's init()-based global logger.Logger to the explicit two-step
// form ConnectionPoolManager.java uses: initialize(...) once, then
// getInstance() any number of times.
var (
	singletonMu       sync.Mutex
	singletonInstance *Pool
)

// Initialize constructs the process-wide Pool from settings, credentials,
// and factory, installing a TickerScheduler to drive the leak scanner.
// It is idempotent after first success: later calls with any arguments
// return nil silently without reinitializing, matching
// ConnectionPoolManager.initialize's synchronized-check-then-set.
func Initialize(ctx context.Context, settings Settings, credentials Credentials, factory SessionFactory) error {
	const op = "Initialize"
	if settings == nil {
		return poolerrors.NewNullArgument(op, "settings is nil")
	}
	if credentials == nil {
		return poolerrors.NewNullArgument(op, "credentials is nil")
	}
	if factory == nil {
		return poolerrors.NewNullArgument(op, "factory is nil")
	}

	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singletonInstance != nil {
		return nil
	}

	p, err := NewPool(ctx, settings, credentials, factory, NewTickerScheduler())
	if err != nil {
		return err
	}
	singletonInstance = p
	return nil
}

// Instance returns the process-wide Pool. It fails with NotInitialized
// if Initialize has not yet completed successfully.
func Instance() (*Pool, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singletonInstance == nil {
		return nil, poolerrors.ErrNotInitialized
	}
	return singletonInstance, nil
}

// resetForTest tears down the singleton so tests can call Initialize
// more than once within a process. Not exported: production callers
// never need to un-initialize the pool.
func resetForTest() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singletonInstance != nil {
		singletonInstance.Shutdown()
	}
	singletonInstance = nil
}
