package connpool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lattice-db/connpool/logger"
	"github.com/lattice-db/connpool/poolerrors"
)

// Pool is a bounded cache of live database sessions: a free queue of idle
// sessions, an active set of borrowed ones, and a sizing policy that
// grows the free queue's bound under high load and shrinks it (with
// hysteresis) under low load. It is the core described in spec §4.3,
// grounded on the teacher's network.ConnectionPool
// (connection_pool.go/pool_core.go/adaptive_connection_pool.go), with the
// exact grow/top-up/shrink arithmetic taken from
// ConnectionPoolManager.java.
type Pool struct {
	settings    Settings
	credentials Credentials
	factory     SessionFactory

	free   atomic.Pointer[freeQueue]
	active *activeSet

	capacity      atomic.Int64
	activeCount   atomic.Int64
	lowLoadStreak atomic.Int64
	leakArmed     atomic.Bool

	// sizingMu is the single mutual-exclusion lock serializing the three
	// sizing decisions (handleHighLoad, topUp, handleLowLoad), per spec
	// §5. Borrow/return paths outside these regions stay lock-free.
	sizingMu sync.Mutex

	leakDetector *LeakDetector
	scheduler    Scheduler
}

// NewPool constructs a Pool against settings and factory, using
// scheduler to drive the background leak scan (armed lazily on the
// first Acquire, per spec §4.3/§4.5). It eagerly opens
// min(InitialFill, BaselineCapacity) sessions into the free queue, as
// ConnectionPoolManager's constructor does via fillConnectionPool.
func NewPool(ctx context.Context, settings Settings, credentials Credentials, factory SessionFactory, scheduler Scheduler) (*Pool, error) {
	const op = "NewPool"
	if settings == nil {
		return nil, poolerrors.NewNullArgument(op, "settings is nil")
	}
	if credentials == nil {
		return nil, poolerrors.NewNullArgument(op, "credentials is nil")
	}
	if factory == nil {
		return nil, poolerrors.NewNullArgument(op, "factory is nil")
	}
	if err := Validate(settings); err != nil {
		return nil, err
	}
	if scheduler == nil {
		scheduler = NewTickerScheduler()
	}

	p := &Pool{
		settings:    settings,
		credentials: credentials,
		factory:     factory,
		active:      newActiveSet(),
		scheduler:   scheduler,
	}
	p.capacity.Store(int64(settings.BaselineCapacity()))
	p.free.Store(newFreeQueue(settings.BaselineCapacity()))
	p.leakDetector = NewLeakDetector(settings.LeakThreshold(), p.ReclaimLeaked)

	fillCount := settings.InitialFill()
	if fillCount > settings.BaselineCapacity() {
		fillCount = settings.BaselineCapacity()
	}
	free := p.loadFree()
	for i := 0; i < fillCount; i++ {
		s, err := factory.Open(ctx)
		if err != nil {
			return nil, wrapBackendUnavailable(op, err)
		}
		free.offer(s)
	}

	return p, nil
}

func (p *Pool) loadFree() *freeQueue {
	return p.free.Load()
}

// Acquire returns a validated session, blocking on an empty free queue
// up to Settings.AcquireTimeout. On success the returned session is in
// the active set, registered with the LeakDetector, and the leak
// scanner has been armed.
func (p *Pool) Acquire(ctx context.Context) (Session, error) {
	const op = "Pool.Acquire"
	ctx = ensureRequestID(ctx)

	p.handleHighLoad()

	free := p.loadFree()
	if free.len() == 0 {
		if err := p.topUp(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, poolerrors.NewInterrupted(op, ctxErr)
			}
			return nil, wrapBackendUnavailable(op, err)
		}
		free = p.loadFree()
	}

	s, ok := free.poll(ctx, p.settings.AcquireTimeout())
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, poolerrors.NewInterrupted(op, err)
		}
		return nil, poolerrors.NewAcquireTimeout(op)
	}

	s, err := p.validateOnHandout(ctx, s)
	if err != nil {
		return nil, wrapBackendUnavailable(op, err)
	}

	p.active.add(s)
	p.activeCount.Add(1)
	if err := p.leakDetector.Register(s); err != nil {
		poolerrors.LogWarning(ctx, err)
	}
	p.armLeakScan()

	return s, nil
}

// validateOnHandout checks s.IsAlive and, if dead, deregisters it
// (defensive — it is not yet registered on the acquire path), closes it,
// and opens a fresh replacement from the factory. The replacement is
// what Acquire ultimately returns.
func (p *Pool) validateOnHandout(ctx context.Context, s Session) (Session, error) {
	if s.IsAlive(ctx, p.settings.ValidationTimeout()) {
		return s, nil
	}
	poolerrors.LogWarning(ctx, poolerrors.New(poolerrors.ValidationFailed, "session failed validation at handout; replacing"))
	p.leakDetector.Deregister(s)
	p.closeSession(ctx, s)
	return p.factory.Open(ctx)
}

// Release returns s to the pool. s is removed from the active set and
// validated; if it is still alive and the free queue has room it is
// re-queued, otherwise it is closed. Always evaluates the shrink policy
// afterward, regardless of whether s was known to the pool, so closing
// an unknown session never corrupts pool state.
func (p *Pool) Release(ctx context.Context, s Session) error {
	const op = "Pool.Release"
	if s == nil {
		return poolerrors.NewNullArgument(op, "session is nil")
	}
	ctx = ensureRequestID(ctx)

	wasActive := p.active.remove(s)

	if s.IsAlive(ctx, p.settings.ValidationTimeout()) {
		free := p.loadFree()
		if !free.offer(s) {
			p.closeSession(ctx, s)
		}
	} else {
		poolerrors.LogWarning(ctx, poolerrors.New(poolerrors.ValidationFailed, "session failed validation at release"))
		p.closeSession(ctx, s)
	}

	p.leakDetector.Deregister(s)
	if wasActive {
		p.activeCount.Add(-1)
	}
	p.handleLowLoad()
	return nil
}

// ReclaimLeaked is invoked by the LeakDetector's scanner for a session
// held past LeakThreshold. It closes s, removes it from the active set,
// and decrements activeCount; a session not in the active set is left
// as it is, without being closed. It deliberately does not touch the free
// queue, capacity, or shrink hysteresis, and must never take sizingMu:
// this is the documented back-edge from LeakDetector into Pool (spec
// §5), and taking the sizing lock here could deadlock against a
// concurrent grow/shrink that is waiting on the scanner to finish.
func (p *Pool) ReclaimLeaked(s Session) {
	if !p.active.remove(s) {
		return
	}
	p.closeSession(context.Background(), s)
	p.activeCount.Add(-1)
}

func (p *Pool) closeSession(ctx context.Context, s Session) {
	if err := s.Close(); err != nil {
		poolerrors.LogWarning(ctx, poolerrors.Wrap(err, poolerrors.CloseFailed, "Pool.closeSession"))
	}
}

// armLeakScan schedules the leak scanner at a fixed rate the first time
// it is called; subsequent calls are no-ops. Resolves spec §9 Open
// Question 1 in favor of fixed-rate scheduling.
func (p *Pool) armLeakScan() {
	if !p.leakArmed.CompareAndSwap(false, true) {
		return
	}
	p.scheduler.SchedulePeriodic(p.leakDetector.Scan, p.settings.LeakScanInterval())
	logger.Info("leak scanner armed", logger.Component("pool"), "interval", p.settings.LeakScanInterval())
}

// FreeCount returns the number of idle sessions currently queued.
func (p *Pool) FreeCount() int { return p.loadFree().len() }

// ActiveCount returns the number of sessions currently held by
// borrowers.
func (p *Pool) ActiveCount() int { return int(p.activeCount.Load()) }

// Capacity returns the current capacity bound.
func (p *Pool) Capacity() int { return int(p.capacity.Load()) }

// IsActive reports whether s is currently held by a borrower.
//
// This relies on Session identity (interface-value/pointer equality);
// callers must not wrap a Session returned by Acquire in a proxy before
// passing it to IsActive (spec §9 Open Question 4).
func (p *Pool) IsActive(s Session) bool { return p.active.contains(s) }

// IsLeakScanArmed reports whether the background leak scanner has been
// scheduled yet.
func (p *Pool) IsLeakScanArmed() bool { return p.leakArmed.Load() }

// Shutdown stops the background leak scanner. It does not close any
// session; callers that want a clean shutdown should first drain the
// free queue and close its sessions themselves.
func (p *Pool) Shutdown() {
	p.scheduler.Stop()
}

// ensureRequestID stamps ctx with a fresh correlation ID for the pool's
// structured logging, unless the caller already supplied one. This is
// what ties together the Acquire/validate/leak-arm log lines (and, on
// Release, the release/validate/shrink lines) for a single borrow.
func ensureRequestID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if id, ok := ctx.Value(logger.RequestIDKey).(string); ok && id != "" {
		return ctx
	}
	return logger.WithContextValue(ctx, logger.RequestIDKey, uuid.NewString())
}

func wrapBackendUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*poolerrors.PoolError); ok {
		return pe
	}
	return poolerrors.NewBackendUnavailable(op, err)
}
