package connpool

// PoolMetrics is a read-only snapshot aggregating Pool's individual
// observers into a single call, grounded on the teacher's own
// PoolMetrics/GetMetrics() convention in network/connection_pool.go.
// Not named in spec.md itself; supplemented from
// ConnectionPoolManager.java's individual getters (spec §4.3), which
// this collapses into one struct for logging and tests.
type PoolMetrics struct {
	Capacity      int
	FreeCount     int
	ActiveCount   int
	LowLoadStreak int
	LeakScanArmed bool
}

// Metrics returns a point-in-time snapshot of p's sizing state.
func (p *Pool) Metrics() PoolMetrics {
	return PoolMetrics{
		Capacity:      p.Capacity(),
		FreeCount:     p.FreeCount(),
		ActiveCount:   p.ActiveCount(),
		LowLoadStreak: int(p.lowLoadStreak.Load()),
		LeakScanArmed: p.IsLeakScanArmed(),
	}
}
