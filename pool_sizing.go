package connpool

import (
	"context"

	"github.com/lattice-db/connpool/logger"
	"github.com/lattice-db/connpool/poolerrors"
)

// handleHighLoad is the grow policy, run on every Acquire before the
// free queue is consulted. It only ever raises capacity; it never opens
// a session itself (that is topUp's job, kept as a separate step per
// spec §9 Open Question 3, matching ConnectionPoolManager.java's
// increasePoolSize/addConnections split).
func (p *Pool) handleHighLoad() {
	p.sizingMu.Lock()
	defer p.sizingMu.Unlock()

	capacity := p.capacity.Load()
	active := p.activeCount.Load()
	loadRatio := float64(active) / float64(capacity)
	if loadRatio <= p.settings.HighLoadRatio() {
		return
	}

	maxCapacity := int64(p.settings.MaxCapacity())
	if capacity >= maxCapacity {
		return
	}

	newCapacity := int64(float64(capacity) * p.settings.GrowFactor())
	if newCapacity > maxCapacity {
		newCapacity = maxCapacity
	}
	if newCapacity <= capacity {
		return
	}

	p.growTo(newCapacity)
}

// growTo reconfigures the free queue to a larger bound, transferring
// every currently-idle session across. Swapping the pointer is atomic
// with respect to readers: a concurrent Acquire that captured the old
// freeQueue before the swap still operates on a valid, bounded FIFO.
func (p *Pool) growTo(newCapacity int64) {
	oldFree := p.loadFree()
	newFree := newFreeQueue(int(newCapacity))
	oldFree.drainInto(func(s Session) bool {
		newFree.offer(s)
		return true
	})
	p.free.Store(newFree)
	p.capacity.Store(newCapacity)
	logger.Info("pool grown", logger.Component("pool"), "new_capacity", newCapacity)
}

// topUp opens fresh sessions into the free queue when it is empty,
// guaranteeing forward progress for the acquiring caller: if the
// computed batch size rounds to zero, it still opens exactly one
// session. Returns the last factory error only if every attempted open
// failed (so the caller sees a BackendUnavailable instead of silently
// blocking on an empty queue).
func (p *Pool) topUp(ctx context.Context) error {
	p.sizingMu.Lock()
	defer p.sizingMu.Unlock()

	free := p.loadFree()
	if free.len() > 0 {
		return nil
	}

	capacity := int(p.capacity.Load())
	n := int(float64(capacity) * p.settings.TopUpFactor())
	if n > p.settings.MaxTopUpCount() {
		n = p.settings.MaxTopUpCount()
	}
	if n <= 0 {
		n = 1
	}

	opened := 0
	var lastErr error
	for i := 0; i < n; i++ {
		if free.len() >= free.cap() {
			break
		}
		s, err := p.factory.Open(ctx)
		if err != nil {
			lastErr = err
			poolerrors.LogWarning(ctx, wrapBackendUnavailable("Pool.topUp", err))
			continue
		}
		if !free.offer(s) {
			p.closeSession(ctx, s)
			break
		}
		opened++
	}

	if opened == 0 && lastErr != nil {
		return lastErr
	}
	logger.Info("pool topped up", logger.Component("pool"), "opened", opened)
	return nil
}

// handleLowLoad is the shrink policy, run on every Release. It
// short-circuits once capacity has returned to baseline, and otherwise
// requires LowLoadHysteresis consecutive low-load observations before
// acting, to damp oscillation.
func (p *Pool) handleLowLoad() {
	p.sizingMu.Lock()
	defer p.sizingMu.Unlock()

	capacity := p.capacity.Load()
	baseline := int64(p.settings.BaselineCapacity())
	if capacity == baseline {
		return
	}

	active := p.activeCount.Load()
	loadRatio := float64(active) / float64(capacity)
	if loadRatio >= p.settings.LowLoadRatio() {
		p.lowLoadStreak.Store(0)
		return
	}

	streak := p.lowLoadStreak.Add(1)
	if streak < int64(p.settings.LowLoadHysteresis()) {
		return
	}

	floor := baseline
	if active > floor {
		floor = active
	}
	shrunk := int64(float64(capacity) * p.settings.ShrinkFactor())
	target := floor
	if shrunk < target {
		target = shrunk
	}

	p.shrinkTo(target)
	p.lowLoadStreak.Store(0)
}

// shrinkTo reconfigures the free queue to a smaller bound. Per spec §9
// Open Question 2: a popped session that the active set also claims is
// treated as a broken invariant (two borrowers could otherwise be
// handed the same session) — it is logged at error level and closed,
// never silently re-queued. Any idle session beyond the new bound is
// likewise closed; the rest transfer into the new queue.
func (p *Pool) shrinkTo(newCapacity int64) {
	if newCapacity < 1 {
		newCapacity = 1
	}

	oldFree := p.loadFree()
	newFree := newFreeQueue(int(newCapacity))
	ctx := context.Background()

	oldFree.drainInto(func(s Session) bool {
		if p.active.contains(s) {
			poolerrors.LogError(ctx, poolerrors.New(poolerrors.CloseFailed,
				"session popped from free queue during shrink is also in the active set; closing instead of re-queueing"))
			p.closeSession(ctx, s)
			return true
		}
		if newFree.len() < int(newCapacity) {
			newFree.offer(s)
		} else {
			p.closeSession(ctx, s)
		}
		return true
	})

	p.free.Store(newFree)
	p.capacity.Store(newCapacity)
	logger.Info("pool shrunk", logger.Component("pool"), "new_capacity", newCapacity)
}
