package planner

import (
	"fmt"
	"time"

	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/livestatus"
)

// Replanner decides when a plan has drifted from live conditions and, on
// demand, produces a replacement. It never mutates a plan in place:
// Replan returns a new Result. Invocation is caller-driven (manual
// refresh or a poll), never a background loop.
type Replanner struct {
	Opt *Optimizer

	// A scheduled wait must grow past max(assumed*(1+WaitDriftPct),
	// assumed+WaitDriftMin) to count as drift.
	WaitDriftPct float64
	WaitDriftMin int

	// GraceMin is how far the clock may run past an unstarted item before
	// the schedule counts as broken.
	GraceMin int
}

func NewReplanner(opt *Optimizer) *Replanner {
	return &Replanner{
		Opt:          opt,
		WaitDriftPct: 0.5,
		WaitDriftMin: 30,
		GraceMin:     15,
	}
}

// ShouldReplan reports whether any trigger condition holds for the prior
// plan, with one human-readable reason per trigger. completed marks
// experience ids the party has already finished.
func (r *Replanner) ShouldReplan(prior *Plan, live map[string]livestatus.Sample, now time.Time, completed map[string]bool) (bool, []string) {
	nowMin := minuteOfDay(now)
	var reasons []string

	for _, it := range prior.Itinerary {
		if it.ID == "" || completed[it.ID] {
			continue
		}
		if it.endMinute() <= nowMin {
			continue // already in the past; frozen either way
		}

		if smp, ok := live[it.ID]; ok {
			if !smp.Open() {
				reasons = append(reasons, fmt.Sprintf("%s is now %s", it.Name, smp.Status))
				continue
			}
			if it.Type == ItemRide || it.Type == ItemMeetAndGreet {
				assumed := it.WaitTime
				threshold := assumed + r.WaitDriftMin
				if pct := int(float64(assumed) * (1 + r.WaitDriftPct)); pct > threshold {
					threshold = pct
				}
				if smp.StandbyMin >= 0 && it.LightningLane == nil && smp.StandbyMin > threshold {
					reasons = append(reasons, fmt.Sprintf("%s wait rose to %d min (planned %d)", it.Name, smp.StandbyMin, assumed))
				}
			}
		}

		if nowMin > it.startMinute()+r.GraceMin {
			reasons = append(reasons, fmt.Sprintf("%s was scheduled for %s and has not started", it.Name, it.StartTime))
		}
	}

	return len(reasons) > 0, reasons
}

// Replan re-runs the optimizer with the same preferences against a fresh
// snapshot. Items already in the past are frozen into the result
// unchanged; only the remainder of the day is rescheduled.
func (r *Replanner) Replan(exps []catalog.Experience, live map[string]livestatus.Sample, prefs Preferences, prior *Plan, now time.Time, completed map[string]bool) (*Result, error) {
	nowMin := minuteOfDay(now)

	var frozen []ItineraryItem
	rest := prefs
	rest.Excluded = append([]string(nil), prefs.Excluded...)

	// Rescheduling may not start before the clock, nor inside an item that
	// is still underway: the window opens once the last frozen item ends.
	resumeMin := nowMin

	for _, it := range prior.Itinerary {
		if it.startMinute() >= nowMin && !completed[it.ID] {
			continue
		}
		frozen = append(frozen, it)
		if end := it.endMinute(); end > resumeMin {
			resumeMin = end
		}
		switch it.Type {
		case ItemBreak:
			if taken := it.endMinute() - it.startMinute(); taken > 0 {
				rest.BreakMin -= taken
				if rest.BreakMin < 0 {
					rest.BreakMin = 0
				}
			}
		case ItemMeal, ItemDining:
			rest.MealWindows = dropMeal(rest.MealWindows, it.startMinute())
		default:
			if it.ID != "" && !rest.RideRepeats {
				rest.Excluded = append(rest.Excluded, it.ID)
			}
		}
	}

	if resumeMin > rest.OpenMin {
		rest.OpenMin = resumeMin
	}
	if rest.OpenMin >= rest.CloseMin {
		res := &Result{Plan: Plan{
			Itinerary: frozen,
			Reason:    "the visit window has ended",
		}}
		res.Stats = combineStats(frozen, Stats{}, rest)
		return res, nil
	}

	// meal windows already underway or past are no longer schedulable
	var meals []MealWindow
	for _, w := range rest.MealWindows {
		if w.StartMin >= rest.OpenMin {
			meals = append(meals, w)
		}
	}
	rest.MealWindows = meals
	rest.prioritySet = toSet(rest.Priority)
	rest.excludedSet = toSet(rest.Excluded)

	res, err := r.Opt.Plan(exps, live, rest)
	if err != nil {
		return nil, err
	}

	res.Itinerary = append(append([]ItineraryItem{}, frozen...), res.Itinerary...)
	res.Stats = combineStats(frozen, res.Stats, prefs)
	return res, nil
}

func dropMeal(meals []MealWindow, startMin int) []MealWindow {
	var out []MealWindow
	for _, w := range meals {
		if w.StartMin == startMin {
			continue
		}
		out = append(out, w)
	}
	return out
}

// combineStats folds frozen items into the freshly computed stats. The
// frozen walking distance is unknown (only minutes were recorded), so
// WalkingDistance covers the rescheduled remainder only.
func combineStats(frozen []ItineraryItem, s Stats, prefs Preferences) Stats {
	for _, it := range frozen {
		if it.attraction() {
			s.TotalAttractions++
			s.ExpectedWaitTime += it.WaitTime
		}
		if it.LightningLane != nil {
			s.LightningLaneUsage++
			s.LightningLaneCost += it.LightningLane.Price
		}
	}
	if len(frozen) > 0 {
		s.StartTime = frozen[0].StartTime
	}
	if s.EndTime == "" {
		s.EndTime = formatClock(prefs.CloseMin)
	}
	return s
}
