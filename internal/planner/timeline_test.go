package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineReserve(t *testing.T) {
	tl := newTimeline(9*60, 17*60)

	assert.True(t, tl.reserve(12*60, 13*60))
	assert.False(t, tl.reserve(12*60+30, 13*60+30), "overlapping reserve accepted")
	assert.False(t, tl.reserve(8*60, 9*60+30), "reserve before open accepted")
	assert.False(t, tl.reserve(16*60+30, 17*60+30), "reserve past close accepted")
	assert.False(t, tl.reserve(10*60, 10*60), "empty interval accepted")
	assert.True(t, tl.reserve(13*60, 13*60+30), "back-to-back block rejected")
}

func TestTimelineEarliestFit(t *testing.T) {
	tl := newTimeline(9*60, 17*60)
	require.True(t, tl.reserve(12*60, 13*60))

	start, ok := tl.earliestFit(9*60, 30)
	require.True(t, ok)
	assert.Equal(t, 9*60, start)

	// a slot colliding with lunch slides past the block
	start, ok = tl.earliestFit(11*60+45, 30)
	require.True(t, ok)
	assert.Equal(t, 13*60, start)

	// requests before open clamp to open
	start, ok = tl.earliestFit(5*60, 30)
	require.True(t, ok)
	assert.Equal(t, 9*60, start)

	_, ok = tl.earliestFit(16*60+45, 30)
	assert.False(t, ok, "slot past close reported as fitting")
}

func TestTimelineFitsAt(t *testing.T) {
	tl := newTimeline(9*60, 17*60)
	require.True(t, tl.reserve(12*60, 13*60))

	assert.True(t, tl.fitsAt(11*60, 60))
	assert.False(t, tl.fitsAt(11*60+30, 60), "overlap with block")
	assert.True(t, tl.fitsAt(13*60, 60), "slot starting at block end")
	assert.False(t, tl.fitsAt(16*60+30, 60), "slot past close")
}

func TestParseClock(t *testing.T) {
	for in, want := range map[string]int{
		"00:00": 0,
		"09:05": 9*60 + 5,
		"23:59": 23*60 + 59,
	} {
		got, err := parseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "25:00", "12:61", "noon"} {
		_, err := parseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:05", formatClock(9*60+5))
	assert.Equal(t, "00:00", formatClock(0))
	assert.Equal(t, "23:59", formatClock(23*60+59))
}

func TestWalkBetween(t *testing.T) {
	// missing coordinates fall back to the default hop
	min, meters := walkBetween(0, 0, 28.41, -81.58, 1.0)
	assert.Equal(t, defaultHopMeters, meters)
	assert.Equal(t, 4, min)

	// slow pace takes longer over the same hop
	slowMin, _ := walkBetween(0, 0, 28.41, -81.58, 1.35)
	assert.Greater(t, slowMin, min)

	// two real points roughly 340m apart in the park
	_, meters = walkBetween(28.4180, -81.5810, 28.4195, -81.5830, 1.0)
	assert.InDelta(t, 260, meters, 30)
}
