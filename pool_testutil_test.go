package connpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// fakeSession is a controllable Session for tests: IsAlive and Close are
// both scriptable, and every call is counted so tests can assert on call
// counts without reaching into pool internals.
type fakeSession struct {
	id int64

	mu        sync.Mutex
	alive     bool
	closed    bool
	closeErr  error
	aliveCalls int
	closeCalls int
}

func newFakeSession(id int64) *fakeSession {
	return &fakeSession{id: id, alive: true}
}

func (s *fakeSession) IsAlive(ctx context.Context, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliveCalls++
	return s.alive
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	s.closed = true
	return s.closeErr
}

func (s *fakeSession) setAlive(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = v
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSession) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// fakeFactory opens fakeSessions with sequential ids. When failNext is
// set, the next N opens fail with errFakeDial before resuming success.
type fakeFactory struct {
	nextID    atomic.Int64
	openCount atomic.Int64

	mu       sync.Mutex
	failNext int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{}
}

var errFakeDial = errors.New("fake dial refused")

func (f *fakeFactory) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.openCount.Add(1)
	f.mu.Lock()
	if f.failNext > 0 {
		f.failNext--
		f.mu.Unlock()
		return nil, errFakeDial
	}
	f.mu.Unlock()
	id := f.nextID.Add(1)
	return newFakeSession(id), nil
}

func (f *fakeFactory) failNextOpens(n int) {
	f.mu.Lock()
	f.failNext = n
	f.mu.Unlock()
}

func (f *fakeFactory) opens() int {
	return int(f.openCount.Load())
}

// testSettings is a mutable Settings implementation for table-driven
// scenario tests; each field defaults to a permissive value and tests
// override only what the scenario needs.
type testSettings struct {
	baselineCapacity  int
	initialFill       int
	maxCapacity       int
	acquireTimeout    time.Duration
	validationTimeout time.Duration
	leakThreshold     time.Duration
	leakScanInterval  time.Duration
	highLoadRatio     float64
	lowLoadRatio      float64
	growFactor        float64
	topUpFactor       float64
	maxTopUpCount     int
	shrinkFactor      float64
	lowLoadHysteresis int
}

func newTestSettings() *testSettings {
	return &testSettings{
		baselineCapacity:  10,
		initialFill:       10,
		maxCapacity:       50,
		acquireTimeout:    time.Second,
		validationTimeout: time.Second,
		leakThreshold:     time.Minute,
		leakScanInterval:  time.Minute,
		highLoadRatio:     0.8,
		lowLoadRatio:      0.2,
		growFactor:        2,
		topUpFactor:       0.5,
		maxTopUpCount:     8,
		shrinkFactor:      0.5,
		lowLoadHysteresis: 5,
	}
}

func (s *testSettings) BaselineCapacity() int            { return s.baselineCapacity }
func (s *testSettings) InitialFill() int                 { return s.initialFill }
func (s *testSettings) MaxCapacity() int                 { return s.maxCapacity }
func (s *testSettings) AcquireTimeout() time.Duration    { return s.acquireTimeout }
func (s *testSettings) ValidationTimeout() time.Duration { return s.validationTimeout }
func (s *testSettings) LeakThreshold() time.Duration     { return s.leakThreshold }
func (s *testSettings) LeakScanInterval() time.Duration  { return s.leakScanInterval }
func (s *testSettings) HighLoadRatio() float64           { return s.highLoadRatio }
func (s *testSettings) LowLoadRatio() float64            { return s.lowLoadRatio }
func (s *testSettings) GrowFactor() float64              { return s.growFactor }
func (s *testSettings) TopUpFactor() float64             { return s.topUpFactor }
func (s *testSettings) MaxTopUpCount() int               { return s.maxTopUpCount }
func (s *testSettings) ShrinkFactor() float64            { return s.shrinkFactor }
func (s *testSettings) LowLoadHysteresis() int           { return s.lowLoadHysteresis }
