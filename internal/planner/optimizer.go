package planner

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/livestatus"
)

// Optimizer turns a catalog, a live-status snapshot and normalized
// preferences into a primary day plan plus named alternatives. A run is a
// pure function of its inputs: it never mutates the catalog or snapshot
// it was given, so concurrent runs need no locking.
type Optimizer struct {
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Optimizer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Optimizer{log: log}
}

// profile alters the objective or window for one plan variant. The zero
// profile is the primary plan.
type profile struct {
	name           string
	windowStart    int // minutes, 0 = inherit
	windowEnd      int // minutes, 0 = inherit
	excludeOutdoor bool
	indoorBoost    float64
	comfortWait    int // 0 = inherit
	flatten        bool
}

// Plan produces the primary plan and the alternative bundle. Infeasible
// inputs (empty catalog, everything closed) yield an empty primary plan
// with a diagnostic reason, not an error.
func (o *Optimizer) Plan(exps []catalog.Experience, live map[string]livestatus.Sample, prefs Preferences) (*Result, error) {
	if prefs.PaceMultiplier <= 0 {
		prefs.PaceMultiplier = 1
	}
	if prefs.prioritySet == nil {
		prefs.prioritySet = toSet(prefs.Priority)
	}
	if prefs.excludedSet == nil {
		prefs.excludedSet = toSet(prefs.Excluded)
	}

	primary := o.buildPlan(exps, live, prefs, profile{name: "primary"})
	res := &Result{Plan: *primary}

	if primary.Stats.TotalAttractions == 0 {
		// nothing schedulable; alternatives would all be empty too
		return res, nil
	}

	maxOf := func(a, b int) int {
		if a > b {
			return a
		}
		return b
	}
	minOf := func(a, b int) int {
		if a < b {
			return a
		}
		return b
	}

	variants := []struct {
		prof profile
		dst  **Plan
		when bool
	}{
		{profile{name: "morning", windowEnd: minOf(prefs.CloseMin, 13*60)}, &res.Alternatives.Morning, true},
		{profile{name: "afternoon", windowStart: maxOf(prefs.OpenMin, 12*60), windowEnd: minOf(prefs.CloseMin, 17*60)}, &res.Alternatives.Afternoon, true},
		{profile{name: "evening", windowStart: maxOf(prefs.OpenMin, 16*60)}, &res.Alternatives.Evening, true},
		{profile{name: "rainy_day", excludeOutdoor: true, indoorBoost: 30}, &res.Alternatives.RainyDay, prefs.WeatherAdaptation},
		{profile{name: "low_wait", comfortWait: 15}, &res.Alternatives.LowWaitTime, true},
		{profile{name: "max_attractions", flatten: true}, &res.Alternatives.MaxAttractions, true},
	}

	for _, v := range variants {
		if !v.when {
			continue
		}
		ws, we := windowFor(prefs, v.prof)
		if we-ws < 60 {
			continue // window restriction leaves no usable day segment
		}
		*v.dst = o.buildPlan(exps, live, prefs, v.prof)
	}

	return res, nil
}

func windowFor(prefs Preferences, prof profile) (int, int) {
	ws, we := prefs.OpenMin, prefs.CloseMin
	if prof.windowStart > ws {
		ws = prof.windowStart
	}
	if prof.windowEnd > 0 && prof.windowEnd < we {
		we = prof.windowEnd
	}
	return ws, we
}

// buildPlan runs one greedy pass under a single profile.
//
// Candidates are processed in descending value/cost order; each is
// inserted at the earliest feasible slot after the running cursor.
// Break time and meal windows are reserved as blocking intervals before
// placement starts.
func (o *Optimizer) buildPlan(exps []catalog.Experience, live map[string]livestatus.Sample, prefs Preferences, prof profile) *Plan {
	ws, we := windowFor(prefs, prof)
	if we-ws <= 0 {
		return emptyPlan(ws, we, "the requested time window is empty")
	}

	tl := newTimeline(ws, we)

	// reserved blocks first: meals, then the break budget
	var blockItems []ItineraryItem
	var meals []MealWindow
	for _, w := range prefs.MealWindows {
		if w.StartMin < ws || w.EndMin > we {
			continue // outside a restricted variant window
		}
		if tl.reserve(w.StartMin, w.EndMin) {
			meals = append(meals, w)
		}
	}
	if prefs.BreakMin > 0 {
		if start, ok := placeBreak(tl, ws, we, prefs.BreakMin); ok {
			blockItems = append(blockItems, ItineraryItem{
				Type:      ItemBreak,
				Name:      "Rest break",
				StartTime: formatClock(start),
				EndTime:   formatClock(start + prefs.BreakMin),
				Notes:     "Reserved downtime",
			})
		} else {
			o.log.Debugw("break does not fit window", "profile", prof.name, "break_min", prefs.BreakMin)
		}
	}

	cands, dining := feasibleCandidates(exps, live, prefs, prof)

	// Lightning Lane upgrades happen before the wait-tolerance filter so
	// an upgraded headliner can re-enter the feasible set.
	assignLightningLanes(cands, prefs)

	denominator := 0
	kept := cands[:0]
	for _, c := range cands {
		if c.matches {
			denominator++
		}
		if c.wait > prefs.MaxWaitMin {
			continue
		}
		kept = append(kept, c)
	}
	cands = kept

	if len(cands) == 0 && len(dining) == 0 {
		reason := "no schedulable experiences match the current constraints"
		if len(exps) == 0 {
			reason = "the park catalog is empty"
		}
		return emptyPlan(ws, we, reason)
	}

	for _, c := range cands {
		c.score(prefs, prof)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		ar, br := a.value/a.cost, b.value/b.cost
		if ar != br {
			return ar > br
		}
		if a.priority != b.priority {
			return a.priority
		}
		if a.wait != b.wait {
			return a.wait < b.wait
		}
		return a.idx < b.idx
	})

	items, totalWait, meters := o.place(tl, cands, prefs, ws, we)

	// meal windows become dining stops when a feasible table exists
	items = append(items, mealItems(meals, dining)...)
	items = append(items, blockItems...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].startMinute() < items[j].startMinute() })

	plan := &Plan{Itinerary: items}
	plan.Stats = buildStats(items, totalWait, meters, ws, we, denominator)
	if plan.Stats.TotalAttractions == 0 {
		plan.Reason = "no experiences could be placed inside the visit window"
	}
	return plan
}

// place commits candidates in priority (ratio) order, advancing a time
// cursor. Fixed-showtime experiences may only start at a declared
// showtime; continuous ones take the earliest block-free slot.
func (o *Optimizer) place(tl *timeline, cands []*candidate, prefs Preferences, ws, we int) (items []ItineraryItem, totalWait int, meters float64) {
	cursor := ws
	var prev *catalog.Experience
	used := make(map[string]int)

	rounds := 1
	if prefs.RideRepeats {
		rounds = 2
	}

	for round := 0; round < rounds; round++ {
		for _, c := range cands {
			if used[c.exp.ID] > round {
				continue
			}
			if round > 0 && (c.exp.Category != catalog.CategoryRide || used[c.exp.ID] == 0) {
				continue // repeats apply to rides already ridden once
			}

			// a repeat rides standby; the Lightning Lane entry was spent
			// on the first pass
			wait, ll := c.wait, c.ll
			if round > 0 {
				wait, ll = c.standby, nil
				if wait > prefs.MaxWaitMin {
					continue
				}
			}

			var transit int
			var hop float64
			if prev == nil {
				transit, hop = walkFromEntrance(prefs.PaceMultiplier)
			} else {
				transit, hop = walkBetween(prev.Lat, prev.Lng, c.exp.Lat, c.exp.Lng, prefs.PaceMultiplier)
			}
			arrival := cursor + transit

			var it ItineraryItem
			var endMin int
			if c.exp.FixedShowtime() {
				start, ok := nextShowtime(tl, c.exp, arrival, we)
				if !ok {
					continue
				}
				slack := start - arrival
				it = ItineraryItem{
					Type:        itemType(c.exp.Category),
					ID:          c.exp.ID,
					Name:        c.exp.Name,
					StartTime:   formatClock(start),
					EndTime:     formatClock(start + c.exp.DurationMin),
					WaitTime:    slack,
					WalkingTime: transit,
					Location:    c.exp.Land,
					Notes:       "Scheduled showtime",
				}
				endMin = start + c.exp.DurationMin
				totalWait += slack
			} else {
				busy := wait + c.exp.DurationMin
				start, ok := tl.earliestFit(arrival, busy)
				if !ok {
					continue
				}
				it = ItineraryItem{
					Type:          itemType(c.exp.Category),
					ID:            c.exp.ID,
					Name:          c.exp.Name,
					StartTime:     formatClock(start),
					EndTime:       formatClock(start + busy),
					WaitTime:      wait,
					WalkingTime:   transit,
					Location:      c.exp.Land,
					LightningLane: ll,
				}
				if c.singleRider && ll == nil {
					it.Notes = "Single-rider line"
				}
				endMin = start + busy
				totalWait += wait
			}

			items = append(items, it)
			used[c.exp.ID]++
			cursor = endMin
			exp := c.exp
			prev = &exp
			meters += hop
		}
	}
	return items, totalWait, meters
}

// nextShowtime finds the earliest declared showtime at or after arrival
// that fits the window and blocks, within the slack bound. Waiting more
// than showSlackMaxMin for a show wastes more day than it is worth.
func nextShowtime(tl *timeline, exp catalog.Experience, arrival, we int) (int, bool) {
	times := make([]int, 0, len(exp.Showtimes))
	for _, s := range exp.Showtimes {
		if m, err := parseClock(s); err == nil {
			times = append(times, m)
		}
	}
	sort.Ints(times)

	for _, st := range times {
		if st < arrival {
			continue
		}
		if st-arrival > showSlackMaxMin {
			return 0, false
		}
		if st+exp.DurationMin > we {
			return 0, false
		}
		if tl.fitsAt(st, exp.DurationMin) {
			return st, true
		}
	}
	return 0, false
}

// placeBreak reserves the break block near the middle of the day,
// sliding later (then earlier) when meals are in the way.
func placeBreak(tl *timeline, ws, we, dur int) (int, bool) {
	midpoint := ws + (we-ws)/2 - dur/2
	if start, ok := tl.earliestFit(midpoint, dur); ok {
		if tl.reserve(start, start+dur) {
			return start, true
		}
	}
	if start, ok := tl.earliestFit(ws, dur); ok {
		if tl.reserve(start, start+dur) {
			return start, true
		}
	}
	return 0, false
}

// mealItems turns each reserved meal window into a dining stop, assigning
// the most popular unused feasible dining experience, or a generic meal
// slot when none exists.
func mealItems(meals []MealWindow, dining []*candidate) []ItineraryItem {
	sorted := make([]*candidate, len(dining))
	copy(sorted, dining)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].exp.Popularity != sorted[j].exp.Popularity {
			return sorted[i].exp.Popularity > sorted[j].exp.Popularity
		}
		return sorted[i].idx < sorted[j].idx
	})

	used := make(map[string]bool)
	var out []ItineraryItem
	for _, w := range meals {
		item := ItineraryItem{
			Type:      ItemMeal,
			Name:      w.Label,
			StartTime: formatClock(w.StartMin),
			EndTime:   formatClock(w.EndMin),
		}
		for _, d := range sorted {
			if used[d.exp.ID] {
				continue
			}
			used[d.exp.ID] = true
			item.Type = ItemDining
			item.ID = d.exp.ID
			item.Name = d.exp.Name
			item.Location = d.exp.Land
			item.Description = w.Label
			break
		}
		out = append(out, item)
	}
	return out
}

func itemType(c catalog.Category) string {
	switch c {
	case catalog.CategoryShow:
		return ItemShow
	case catalog.CategoryMeetAndGreet:
		return ItemMeetAndGreet
	case catalog.CategoryDining:
		return ItemDining
	default:
		return ItemRide
	}
}

func buildStats(items []ItineraryItem, totalWait int, meters float64, ws, we, denominator int) Stats {
	s := Stats{
		ExpectedWaitTime: totalWait,
		WalkingDistance:  math.Round(meters/10) / 100, // km, 2 decimals
		StartTime:        formatClock(ws),
		EndTime:          formatClock(we),
	}
	for _, it := range items {
		if it.attraction() {
			s.TotalAttractions++
		}
		if it.LightningLane != nil {
			s.LightningLaneUsage++
			s.LightningLaneCost += it.LightningLane.Price
		}
	}
	if len(items) > 0 {
		s.StartTime = items[0].StartTime
		s.EndTime = items[len(items)-1].EndTime
	}
	if denominator > 0 {
		pct := int(math.Round(float64(s.TotalAttractions) / float64(denominator) * 100))
		if pct > 100 {
			pct = 100
		}
		s.CoveragePercentage = pct
	}
	return s
}

func emptyPlan(ws, we int, reason string) *Plan {
	return &Plan{
		Itinerary: []ItineraryItem{},
		Stats: Stats{
			StartTime: formatClock(ws),
			EndTime:   formatClock(we),
		},
		Reason: reason,
	}
}
