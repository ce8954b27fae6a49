package connpool

import "time"

// defaultSettings is the hardcoded Settings provider, mirroring
// DefaultPoolConfiguration.java's baseline/maximum pool sizes and
// validation timeout.
type defaultSettings struct{}

// DefaultSettings returns a hardcoded Settings provider with sane values
// for a small, lightly elastic pool. It always passes Validate.
func DefaultSettings() Settings {
	return defaultSettings{}
}

func (defaultSettings) BaselineCapacity() int             { return 10 }
func (defaultSettings) InitialFill() int                  { return 10 }
func (defaultSettings) MaxCapacity() int                  { return 50 }
func (defaultSettings) AcquireTimeout() time.Duration     { return 10 * time.Minute }
func (defaultSettings) ValidationTimeout() time.Duration  { return 5 * time.Second }
func (defaultSettings) LeakThreshold() time.Duration      { return 5 * time.Minute }
func (defaultSettings) LeakScanInterval() time.Duration   { return 30 * time.Second }
func (defaultSettings) HighLoadRatio() float64            { return 0.8 }
func (defaultSettings) LowLoadRatio() float64             { return 0.2 }
func (defaultSettings) GrowFactor() float64               { return 1.5 }
func (defaultSettings) TopUpFactor() float64               { return 0.25 }
func (defaultSettings) MaxTopUpCount() int                 { return 10 }
func (defaultSettings) ShrinkFactor() float64               { return 0.75 }
func (defaultSettings) LowLoadHysteresis() int              { return 5 }
