package connpool

import (
	"strconv"
	"strings"
	"time"

	"github.com/lattice-db/connpool/poolerrors"
)

// Property keys, matching PropertyFileConnectionPoolConfiguration.java's
// key list exactly (spec §6).
const (
	keyInitialMaxPoolSize          = "initial.max.pool.size"
	keyInitialPoolSize             = "initial.pool.size"
	keyConnectionTimeoutAmount     = "connection.timeout.amount"
	keyConnectionTimeoutUnit       = "connection.timeout.unit"
	keyLeakThresholdAmount         = "connection.leak.threshold.amount"
	keyLeakThresholdUnit           = "connection.leak.threshold.unit"
	keyValidationTimeoutSeconds    = "connection.validation.timeout.seconds"
	keyLeakDetectorServiceInterval = "connection.leak.detector.service.interval"
	keyLeakDetectorIntervalUnit    = "connection.leak.detector.service.interval.unit"
	keyHighLoadThreshold           = "high.load.threshold"
	keyLowLoadThreshold            = "low.load.threshold"
	keyMaximumPoolSize             = "maximum.pool.size"
	keyHighLoadGrowthFactor        = "high.load.growth.factor"
	keyHighLoadConnGrowthFactor    = "high.load.connection.growth.factor"
	keyMaximumConnGrowthAmount     = "maximum.connection.growth.amount"
	keyLowLoadShrinkFactor         = "low.load.pool.shrink.factor"
	keyLowLoadHysteresisCount      = "low.load.hysteresis.count"
)

// FileSettings is the key/value property-file Settings provider, read
// once at construction time and immutable thereafter.
type FileSettings struct {
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

// LoadFileSettings reads a Settings provider from a property file at
// path. Every key of spec §6 is required; a missing key or an invalid
// value fails with a *poolerrors.PoolError{Code: ConfigMissing}.
func LoadFileSettings(path string) (*FileSettings, error) {
	const op = "LoadFileSettings"
	props, err := loadProperties(path)
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ConfigMissing, op)
	}
	return newFileSettings(op, props)
}

// ParseFileSettings builds a FileSettings provider from already-loaded
// key/value pairs (used by tests and callers that source the property
// file contents themselves).
func ParseFileSettings(contents string) (*FileSettings, error) {
	const op = "ParseFileSettings"
	props, err := parseProperties(strings.NewReader(contents))
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ConfigMissing, op)
	}
	return newFileSettings(op, props)
}

func newFileSettings(op string, props properties) (*FileSettings, error) {
	fs := &FileSettings{}

	baseline, err := props.getInt(op, keyInitialMaxPoolSize)
	if err != nil {
		return nil, err
	}
	fs.baselineCapacity = baseline

	initialFill, err := props.getInt(op, keyInitialPoolSize)
	if err != nil {
		return nil, err
	}
	fs.initialFill = initialFill

	acquireTimeout, err := props.getDuration(op, keyConnectionTimeoutAmount, keyConnectionTimeoutUnit)
	if err != nil {
		return nil, err
	}
	fs.acquireTimeout = acquireTimeout

	leakThreshold, err := props.getDuration(op, keyLeakThresholdAmount, keyLeakThresholdUnit)
	if err != nil {
		return nil, err
	}
	fs.leakThreshold = leakThreshold

	validationSeconds, err := props.getInt(op, keyValidationTimeoutSeconds)
	if err != nil {
		return nil, err
	}
	fs.validationTimeout = time.Duration(validationSeconds) * time.Second

	leakScanInterval, err := props.getDuration(op, keyLeakDetectorServiceInterval, keyLeakDetectorIntervalUnit)
	if err != nil {
		return nil, err
	}
	fs.leakScanInterval = leakScanInterval

	fs.highLoadRatio, err = props.getFloat(op, keyHighLoadThreshold)
	if err != nil {
		return nil, err
	}
	fs.lowLoadRatio, err = props.getFloat(op, keyLowLoadThreshold)
	if err != nil {
		return nil, err
	}
	fs.maxCapacity, err = props.getInt(op, keyMaximumPoolSize)
	if err != nil {
		return nil, err
	}
	fs.growFactor, err = props.getFloat(op, keyHighLoadGrowthFactor)
	if err != nil {
		return nil, err
	}
	fs.topUpFactor, err = props.getFloat(op, keyHighLoadConnGrowthFactor)
	if err != nil {
		return nil, err
	}
	fs.maxTopUpCount, err = props.getInt(op, keyMaximumConnGrowthAmount)
	if err != nil {
		return nil, err
	}
	fs.shrinkFactor, err = props.getFloat(op, keyLowLoadShrinkFactor)
	if err != nil {
		return nil, err
	}
	fs.lowLoadHysteresis, err = props.getInt(op, keyLowLoadHysteresisCount)
	if err != nil {
		return nil, err
	}

	if err := Validate(fs); err != nil {
		return nil, err
	}
	return fs, nil
}

func (p properties) getInt(op, key string) (int, error) {
	raw, err := p.get(op, key)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, poolerrors.NewConfigMissingf(op, "key %q has non-integer value %q", key, raw)
	}
	return n, nil
}

func (p properties) getFloat(op, key string) (float64, error) {
	raw, err := p.get(op, key)
	if err != nil {
		return 0, err
	}
	f, convErr := strconv.ParseFloat(raw, 64)
	if convErr != nil {
		return 0, poolerrors.NewConfigMissingf(op, "key %q has non-numeric value %q", key, raw)
	}
	return f, nil
}

// getDuration combines an integer amount key and a unit key (one of
// NANOS|MICROS|MILLIS|SECONDS|MINUTES|HOURS|DAYS, or the long forms
// NANOSECONDS|MICROSECONDS|MILLISECONDS, case-insensitive) into a
// time.Duration, per spec §6.
func (p properties) getDuration(op, amountKey, unitKey string) (time.Duration, error) {
	amount, err := p.getInt(op, amountKey)
	if err != nil {
		return 0, err
	}
	rawUnit, err := p.get(op, unitKey)
	if err != nil {
		return 0, err
	}
	unit, ok := parseTimeUnit(rawUnit)
	if !ok {
		return 0, poolerrors.NewConfigMissingf(op, "key %q has unrecognized time unit %q", unitKey, rawUnit)
	}
	return time.Duration(amount) * unit, nil
}

func parseTimeUnit(s string) (time.Duration, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NANOS", "NANOSECONDS":
		return time.Nanosecond, true
	case "MICROS", "MICROSECONDS":
		return time.Microsecond, true
	case "MILLIS", "MILLISECONDS":
		return time.Millisecond, true
	case "SECONDS":
		return time.Second, true
	case "MINUTES":
		return time.Minute, true
	case "HOURS":
		return time.Hour, true
	case "DAYS":
		return 24 * time.Hour, true
	default:
		return 0, false
	}
}

func (s *FileSettings) BaselineCapacity() int           { return s.baselineCapacity }
func (s *FileSettings) InitialFill() int                { return s.initialFill }
func (s *FileSettings) MaxCapacity() int                { return s.maxCapacity }
func (s *FileSettings) AcquireTimeout() time.Duration    { return s.acquireTimeout }
func (s *FileSettings) ValidationTimeout() time.Duration { return s.validationTimeout }
func (s *FileSettings) LeakThreshold() time.Duration     { return s.leakThreshold }
func (s *FileSettings) LeakScanInterval() time.Duration  { return s.leakScanInterval }
func (s *FileSettings) HighLoadRatio() float64           { return s.highLoadRatio }
func (s *FileSettings) LowLoadRatio() float64            { return s.lowLoadRatio }
func (s *FileSettings) GrowFactor() float64              { return s.growFactor }
func (s *FileSettings) TopUpFactor() float64             { return s.topUpFactor }
func (s *FileSettings) MaxTopUpCount() int               { return s.maxTopUpCount }
func (s *FileSettings) ShrinkFactor() float64             { return s.shrinkFactor }
func (s *FileSettings) LowLoadHysteresis() int             { return s.lowLoadHysteresis }
