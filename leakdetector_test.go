package connpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeakDetector_RegisterDeregister(t *testing.T) {
	d := NewLeakDetector(time.Minute, func(Session) {})
	s := newFakeSession(1)

	require.NoError(t, d.Register(s))
	assert.True(t, d.IsRegistered(s))
	assert.Equal(t, 1, d.Count())

	d.Deregister(s)
	assert.False(t, d.IsRegistered(s))
	assert.Equal(t, 0, d.Count())
}

func TestLeakDetector_RegisterNullArgument(t *testing.T) {
	d := NewLeakDetector(time.Minute, func(Session) {})
	err := d.Register(nil)
	assert.Error(t, err)
}

func TestLeakDetector_ScanOnlyReclaimsPastThreshold(t *testing.T) {
	d := NewLeakDetector(time.Minute, func(Session) {})
	old := newFakeSession(1)
	fresh := newFakeSession(2)

	base := time.Now()
	d.now = func() time.Time { return base }
	require.NoError(t, d.Register(old))

	d.now = func() time.Time { return base.Add(30 * time.Second) }
	require.NoError(t, d.Register(fresh))

	d.now = func() time.Time { return base.Add(90 * time.Second) }
	d.Scan()

	assert.False(t, d.IsRegistered(old), "held 90s against a 60s threshold: should be reclaimed")
	assert.True(t, d.IsRegistered(fresh), "held only 60s against a 60s threshold: should survive")
}

func TestLeakDetector_DeregisterIsIdempotent(t *testing.T) {
	d := NewLeakDetector(time.Minute, func(Session) {})
	s := newFakeSession(1)
	d.Deregister(s) // never registered
	require.NoError(t, d.Register(s))
	d.Deregister(s)
	d.Deregister(s) // already gone
	assert.False(t, d.IsRegistered(s))
}
