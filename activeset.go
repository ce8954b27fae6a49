package connpool

import "sync"

// activeSet is a concurrent set of Sessions currently held by borrowers,
// guarded by a plain mutex (the teacher's network/connection_pool.go
// guards its comparable active-connection bookkeeping the same way).
// Membership is by interface value (pointer) identity.
type activeSet struct {
	mu sync.Mutex
	m  map[Session]struct{}
}

func newActiveSet() *activeSet {
	return &activeSet{m: make(map[Session]struct{})}
}

func (a *activeSet) add(s Session) {
	a.mu.Lock()
	a.m[s] = struct{}{}
	a.mu.Unlock()
}

func (a *activeSet) remove(s Session) bool {
	a.mu.Lock()
	_, ok := a.m[s]
	delete(a.m, s)
	a.mu.Unlock()
	return ok
}

func (a *activeSet) contains(s Session) bool {
	a.mu.Lock()
	_, ok := a.m[s]
	a.mu.Unlock()
	return ok
}

func (a *activeSet) size() int {
	a.mu.Lock()
	n := len(a.m)
	a.mu.Unlock()
	return n
}
