package connpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-db/connpool/poolerrors"
)

func TestDefaultSettings_PassesValidate(t *testing.T) {
	require.NoError(t, Validate(DefaultSettings()))
}

const validSettingsFile = `
initial.max.pool.size = 10
initial.pool.size = 10
connection.timeout.amount = 5
connection.timeout.unit = SECONDS
connection.leak.threshold.amount = 5
connection.leak.threshold.unit = MINUTES
connection.validation.timeout.seconds = 3
connection.leak.detector.service.interval = 30
connection.leak.detector.service.interval.unit = SECONDS
high.load.threshold = 0.8
low.load.threshold = 0.2
maximum.pool.size = 50
high.load.growth.factor = 1.5
high.load.connection.growth.factor = 0.25
maximum.connection.growth.amount = 10
low.load.pool.shrink.factor = 0.75
low.load.hysteresis.count = 5
`

func TestParseFileSettings_HappyPath(t *testing.T) {
	fs, err := ParseFileSettings(validSettingsFile)
	require.NoError(t, err)

	assert.Equal(t, 10, fs.BaselineCapacity())
	assert.Equal(t, 10, fs.InitialFill())
	assert.Equal(t, 50, fs.MaxCapacity())
	assert.Equal(t, 5*time.Second, fs.AcquireTimeout())
	assert.Equal(t, 3*time.Second, fs.ValidationTimeout())
	assert.Equal(t, 5*time.Minute, fs.LeakThreshold())
	assert.Equal(t, 30*time.Second, fs.LeakScanInterval())
	assert.Equal(t, 0.8, fs.HighLoadRatio())
	assert.Equal(t, 0.2, fs.LowLoadRatio())
	assert.Equal(t, 1.5, fs.GrowFactor())
	assert.Equal(t, 0.25, fs.TopUpFactor())
	assert.Equal(t, 10, fs.MaxTopUpCount())
	assert.Equal(t, 0.75, fs.ShrinkFactor())
	assert.Equal(t, 5, fs.LowLoadHysteresis())
}

func TestParseFileSettings_MissingKeyFails(t *testing.T) {
	_, err := ParseFileSettings(`initial.max.pool.size = 10`)
	assert.True(t, poolerrors.IsConfigMissing(err))
}

func TestParseFileSettings_NonIntegerValueFails(t *testing.T) {
	contents := `
initial.max.pool.size = not-a-number
initial.pool.size = 10
connection.timeout.amount = 5
connection.timeout.unit = SECONDS
connection.leak.threshold.amount = 5
connection.leak.threshold.unit = MINUTES
connection.validation.timeout.seconds = 3
connection.leak.detector.service.interval = 30
connection.leak.detector.service.interval.unit = SECONDS
high.load.threshold = 0.8
low.load.threshold = 0.2
maximum.pool.size = 50
high.load.growth.factor = 1.5
high.load.connection.growth.factor = 0.25
maximum.connection.growth.amount = 10
low.load.pool.shrink.factor = 0.75
low.load.hysteresis.count = 5
`
	_, err := ParseFileSettings(contents)
	assert.True(t, poolerrors.IsConfigMissing(err))
}

func TestParseFileSettings_UnrecognizedUnitFails(t *testing.T) {
	contents := `
initial.max.pool.size = 10
initial.pool.size = 10
connection.timeout.amount = 5
connection.timeout.unit = FORTNIGHTS
connection.leak.threshold.amount = 5
connection.leak.threshold.unit = MINUTES
connection.validation.timeout.seconds = 3
connection.leak.detector.service.interval = 30
connection.leak.detector.service.interval.unit = SECONDS
high.load.threshold = 0.8
low.load.threshold = 0.2
maximum.pool.size = 50
high.load.growth.factor = 1.5
high.load.connection.growth.factor = 0.25
maximum.connection.growth.amount = 10
low.load.pool.shrink.factor = 0.75
low.load.hysteresis.count = 5
`
	_, err := ParseFileSettings(contents)
	assert.True(t, poolerrors.IsConfigMissing(err))
}

func TestValidate_RejectsEachInvariantViolation(t *testing.T) {
	base := func() *testSettings { return newTestSettings() }

	cases := map[string]func(*testSettings){
		"baselineCapacity zero":     func(s *testSettings) { s.baselineCapacity = 0 },
		"maxCapacity below baseline": func(s *testSettings) { s.maxCapacity = s.baselineCapacity - 1 },
		"initialFill negative":      func(s *testSettings) { s.initialFill = -1 },
		"lowLoadRatio zero":         func(s *testSettings) { s.lowLoadRatio = 0 },
		"lowLoadRatio equal to high": func(s *testSettings) { s.lowLoadRatio = s.highLoadRatio },
		"highLoadRatio above one":   func(s *testSettings) { s.highLoadRatio = 1.1; s.lowLoadRatio = 0.05 },
		"shrinkFactor zero":        func(s *testSettings) { s.shrinkFactor = 0 },
		"shrinkFactor at one":      func(s *testSettings) { s.shrinkFactor = 1 },
		"growFactor at one":        func(s *testSettings) { s.growFactor = 1 },
		"topUpFactor negative":     func(s *testSettings) { s.topUpFactor = -0.1 },
		"topUpFactor above one":    func(s *testSettings) { s.topUpFactor = 1.1 },
		"maxTopUpCount zero":       func(s *testSettings) { s.maxTopUpCount = 0 },
		"lowLoadHysteresis zero":   func(s *testSettings) { s.lowLoadHysteresis = 0 },
		"acquireTimeout negative":  func(s *testSettings) { s.acquireTimeout = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := base()
			mutate(s)
			err := Validate(s)
			assert.True(t, poolerrors.IsConfigMissing(err), "case %q: expected ConfigMissing, got %v", name, err)
		})
	}
}
