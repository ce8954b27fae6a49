package connpool

import (
	"time"

	"github.com/lattice-db/connpool/poolerrors"
)

// Settings is a read-only, immutable-after-construction view of the
// tunables that drive Pool sizing and validation. Two concrete providers
// are supplied: DefaultSettings (hardcoded) and FileSettings (a key/value
// property file). The core depends only on this interface.
type Settings interface {
	// BaselineCapacity is the floor capacity; the pool never shrinks
	// below it.
	BaselineCapacity() int
	// InitialFill is the number of sessions opened eagerly at startup.
	InitialFill() int
	// MaxCapacity is the hard ceiling; the pool never grows beyond it.
	MaxCapacity() int
	// AcquireTimeout bounds how long Acquire waits on an empty free
	// queue.
	AcquireTimeout() time.Duration
	// ValidationTimeout is passed to Session.IsAlive.
	ValidationTimeout() time.Duration
	// LeakThreshold is how long a session may be held before it is
	// considered leaked.
	LeakThreshold() time.Duration
	// LeakScanInterval is the period of the leak scanner.
	LeakScanInterval() time.Duration
	// HighLoadRatio: active/capacity above this triggers growth.
	HighLoadRatio() float64
	// LowLoadRatio: active/capacity below this is a candidate for
	// shrinking.
	LowLoadRatio() float64
	// GrowFactor is the capacity multiplier applied when growing (>1).
	GrowFactor() float64
	// TopUpFactor is the fraction of current capacity opened when the
	// free queue empties (0..1).
	TopUpFactor() float64
	// MaxTopUpCount hard-caps a single top-up batch.
	MaxTopUpCount() int
	// ShrinkFactor is the capacity multiplier applied when shrinking
	// (0..1).
	ShrinkFactor() float64
	// LowLoadHysteresis is the number of consecutive low-load
	// observations required before a shrink.
	LowLoadHysteresis() int
}

// Validate enforces sizing-policy invariants against any Settings
// implementation. FileSettings calls this before returning to its
// caller, and NewPool calls it again on every Settings it is handed.
// DefaultSettings does not call it; its fixed values always pass.
func Validate(s Settings) error {
	const op = "Validate"
	if s.BaselineCapacity() <= 0 {
		return poolerrors.NewConfigMissingf(op, "baselineCapacity must be > 0, got %d", s.BaselineCapacity())
	}
	if s.MaxCapacity() < s.BaselineCapacity() {
		return poolerrors.NewConfigMissingf(op, "maxCapacity (%d) must be >= baselineCapacity (%d)", s.MaxCapacity(), s.BaselineCapacity())
	}
	if s.InitialFill() < 0 {
		return poolerrors.NewConfigMissingf(op, "initialFill must be >= 0, got %d", s.InitialFill())
	}
	if s.LowLoadRatio() <= 0 || s.LowLoadRatio() >= s.HighLoadRatio() {
		return poolerrors.NewConfigMissingf(op, "lowLoadRatio (%v) must be in (0, highLoadRatio)", s.LowLoadRatio())
	}
	if s.HighLoadRatio() > 1 {
		return poolerrors.NewConfigMissingf(op, "highLoadRatio (%v) must be <= 1", s.HighLoadRatio())
	}
	if s.ShrinkFactor() <= 0 || s.ShrinkFactor() >= 1 {
		return poolerrors.NewConfigMissingf(op, "shrinkFactor (%v) must be in (0, 1)", s.ShrinkFactor())
	}
	if s.GrowFactor() <= 1 {
		return poolerrors.NewConfigMissingf(op, "growFactor (%v) must be > 1", s.GrowFactor())
	}
	if s.TopUpFactor() < 0 || s.TopUpFactor() > 1 {
		return poolerrors.NewConfigMissingf(op, "topUpFactor (%v) must be in [0, 1]", s.TopUpFactor())
	}
	if s.MaxTopUpCount() < 1 {
		return poolerrors.NewConfigMissingf(op, "maxTopUpCount must be >= 1, got %d", s.MaxTopUpCount())
	}
	if s.LowLoadHysteresis() < 1 {
		return poolerrors.NewConfigMissingf(op, "lowLoadHysteresis must be >= 1, got %d", s.LowLoadHysteresis())
	}
	if s.AcquireTimeout() < 0 {
		return poolerrors.NewConfigMissingf(op, "acquireTimeout must be >= 0, got %v", s.AcquireTimeout())
	}
	return nil
}
