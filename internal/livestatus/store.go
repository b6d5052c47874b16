package livestatus

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrUnavailable is returned when no usable snapshot exists for a park,
// either because the feed has never been fetched or because the last
// fetch is older than the staleness bound.
var ErrUnavailable = errors.New("live status unavailable")

const historyDepth = 12

// Store holds the latest live-status snapshot per park plus a short
// per-experience history for trend extrapolation. All access is
// goroutine-safe; Snapshot hands out copies so optimization runs never
// share mutable state with the poller.
type Store struct {
	mu sync.RWMutex

	samples map[string]map[string]Sample    // parkID -> experienceID -> latest
	history map[string]map[string][]Sample  // parkID -> experienceID -> oldest..newest
	updated map[string]time.Time

	staleAfter time.Duration
}

func NewStore(staleAfter time.Duration) *Store {
	return &Store{
		samples:    make(map[string]map[string]Sample),
		history:    make(map[string]map[string][]Sample),
		updated:    make(map[string]time.Time),
		staleAfter: staleAfter,
	}
}

// Apply replaces the park's snapshot with a fresh set of samples and
// appends each to its history ring.
func (s *Store) Apply(parkID string, samples []Sample, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := make(map[string]Sample, len(samples))
	hist := s.history[parkID]
	if hist == nil {
		hist = make(map[string][]Sample)
		s.history[parkID] = hist
	}
	for _, smp := range samples {
		cur[smp.ExperienceID] = smp
		h := append(hist[smp.ExperienceID], smp)
		if len(h) > historyDepth {
			h = h[len(h)-historyDepth:]
		}
		hist[smp.ExperienceID] = h
	}
	s.samples[parkID] = cur
	s.updated[parkID] = at
}

// Snapshot returns a copy of the park's latest samples keyed by
// experience id, or ErrUnavailable when missing or stale.
func (s *Store) Snapshot(parkID string, now time.Time) (map[string]Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur, ok := s.samples[parkID]
	if !ok {
		return nil, ErrUnavailable
	}
	if s.staleAfter > 0 && now.Sub(s.updated[parkID]) > s.staleAfter {
		return nil, ErrUnavailable
	}

	out := make(map[string]Sample, len(cur))
	for id, smp := range cur {
		out[id] = smp
	}
	return out, nil
}

// History returns up to the last historyDepth samples for one experience,
// oldest first.
func (s *Store) History(parkID, experienceID string) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.history[parkID][experienceID]
	out := make([]Sample, len(h))
	copy(out, h)
	return out
}

// Trend estimates the per-minute wait drift for an experience from its
// recent history. Zero when there is not enough signal.
func (s *Store) Trend(parkID, experienceID string) float64 {
	h := s.History(parkID, experienceID)

	var pts []Sample
	for _, smp := range h {
		if smp.StandbyMin >= 0 && smp.Status == StatusOperating {
			pts = append(pts, smp)
		}
	}
	if len(pts) < 2 {
		return 0
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].ObservedAt.Before(pts[j].ObservedAt) })

	first, last := pts[0], pts[len(pts)-1]
	minutes := last.ObservedAt.Sub(first.ObservedAt).Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(last.StandbyMin-first.StandbyMin) / minutes
}
