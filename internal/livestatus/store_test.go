package livestatus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(id string, wait int, at time.Time) Sample {
	return Sample{
		ExperienceID:   id,
		Status:         StatusOperating,
		StandbyMin:     wait,
		SingleRiderMin: WaitUnknown,
		ObservedAt:     at,
	}
}

func TestStoreSnapshot(t *testing.T) {
	s := NewStore(30 * time.Minute)
	now := time.Now()

	_, err := s.Snapshot("mk", now)
	assert.ErrorIs(t, err, ErrUnavailable, "snapshot before any fetch")

	s.Apply("mk", []Sample{sampleAt("a", 20, now), sampleAt("b", 45, now)}, now)

	snap, err := s.Snapshot("mk", now)
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, 20, snap["a"].StandbyMin)

	// snapshots are copies; mutating one must not leak into the store
	snap["a"] = sampleAt("a", 999, now)
	again, err := s.Snapshot("mk", now)
	require.NoError(t, err)
	assert.Equal(t, 20, again["a"].StandbyMin)

	_, err = s.Snapshot("other-park", now)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStoreSnapshotStale(t *testing.T) {
	s := NewStore(30 * time.Minute)
	t0 := time.Now()
	s.Apply("mk", []Sample{sampleAt("a", 20, t0)}, t0)

	_, err := s.Snapshot("mk", t0.Add(29*time.Minute))
	assert.NoError(t, err)

	_, err = s.Snapshot("mk", t0.Add(31*time.Minute))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStoreHistoryBounded(t *testing.T) {
	s := NewStore(0)
	t0 := time.Now()

	for i := 0; i < historyDepth+5; i++ {
		at := t0.Add(time.Duration(i) * time.Minute)
		s.Apply("mk", []Sample{sampleAt("a", i, at)}, at)
	}

	h := s.History("mk", "a")
	require.Len(t, h, historyDepth)
	assert.Equal(t, 5, h[0].StandbyMin, "oldest entries evicted first")
	assert.Equal(t, historyDepth+4, h[len(h)-1].StandbyMin)
}

func TestStoreTrend(t *testing.T) {
	s := NewStore(0)
	t0 := time.Now()

	s.Apply("mk", []Sample{sampleAt("a", 10, t0)}, t0)
	assert.Zero(t, s.Trend("mk", "a"), "one sample is not a trend")

	s.Apply("mk", []Sample{sampleAt("a", 30, t0.Add(10*time.Minute))}, t0.Add(10*time.Minute))
	assert.InDelta(t, 2.0, s.Trend("mk", "a"), 0.001)

	// closed samples carry no wait signal
	closed := Sample{ExperienceID: "a", Status: StatusClosed, StandbyMin: WaitUnknown, ObservedAt: t0.Add(20 * time.Minute)}
	s.Apply("mk", []Sample{closed}, t0.Add(20*time.Minute))
	assert.InDelta(t, 2.0, s.Trend("mk", "a"), 0.001)
}
