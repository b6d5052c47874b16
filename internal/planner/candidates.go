package planner

import (
	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/livestatus"
)

// Scoring constants. The priority boost is deliberately large enough to
// dominate every other factor, so explicitly prioritized attractions sort
// ahead of anything merely popular.
const (
	priorityBoost     = 10000.0
	prefMatchBoost    = 25.0
	waitPenaltyPerMin = 1.5
	estHopMin         = 6.0

	defaultComfortWait  = 45
	crowdComfortWait    = 30
	defaultWaitEstimate = 15

	showSlackMaxMin = 45
	llWaitMin       = 10
)

// candidate is one schedulable experience with its observed wait and the
// value/cost pair driving greedy selection.
type candidate struct {
	exp catalog.Experience
	idx int // catalog order, final tie-break

	standby     int // observed (or estimated) standby wait
	wait        int // effective wait after single-rider / lightning lane
	singleRider bool
	ll          *LightningLaneSelection

	priority bool
	matches  bool

	value float64
	cost  float64
}

// feasibleCandidates applies every hard constraint: exclusion list,
// operating status, height, mobility, and content toggles. Experiences
// failing a hard constraint are never placed, not merely penalized.
// Dining is handled separately through meal windows and is not a greedy
// candidate.
func feasibleCandidates(exps []catalog.Experience, live map[string]livestatus.Sample, prefs Preferences, prof profile) (cands, dining []*candidate) {
	for i, exp := range exps {
		if prefs.IsExcluded(exp.ID) {
			continue
		}
		if smp, ok := live[exp.ID]; ok && !smp.Open() {
			continue
		}
		if prefs.MinRiderHeightCM > 0 && exp.MinHeightCM > prefs.MinRiderHeightCM {
			continue
		}
		if prefs.MobilityConsiderations && !exp.WheelchairAccessible {
			continue
		}
		if prof.excludeOutdoor && exp.Outdoor() {
			continue
		}

		switch exp.Category {
		case catalog.CategoryShow:
			if !prefs.IncludeShows {
				continue
			}
		case catalog.CategoryMeetAndGreet:
			if !prefs.IncludeMeetAndGreets {
				continue
			}
		}

		c := &candidate{
			exp:      exp,
			idx:      i,
			priority: prefs.IsPriority(exp.ID),
			matches:  matchesPreference(exp, prefs.RidePreference),
		}
		c.standby, c.wait, c.singleRider = effectiveWait(exp, live)

		if exp.Category == catalog.CategoryDining {
			dining = append(dining, c)
			continue
		}
		cands = append(cands, c)
	}
	return cands, dining
}

// effectiveWait picks the standby wait from the live snapshot, falling
// back to a flat estimate when the feed has no usable number, and takes
// the single-rider line when it is reported shorter.
func effectiveWait(exp catalog.Experience, live map[string]livestatus.Sample) (standby, effective int, singleRider bool) {
	standby = 0
	if exp.Category == catalog.CategoryRide || exp.Category == catalog.CategoryMeetAndGreet {
		standby = defaultWaitEstimate
	}
	smp, ok := live[exp.ID]
	if ok && smp.StandbyMin >= 0 {
		standby = smp.StandbyMin
	}

	effective = standby
	if exp.SingleRider && ok && smp.SingleRiderMin >= 0 && smp.SingleRiderMin < effective {
		effective = smp.SingleRiderMin
		singleRider = true
	}
	return standby, effective, singleRider
}

func matchesPreference(exp catalog.Experience, pref string) bool {
	switch pref {
	case RidePrefThrill:
		return exp.Thrill()
	case RidePrefFamily:
		return !exp.Thrill()
	default:
		return true
	}
}

// score fills value and cost. Value rewards popularity, preference match
// and priority listing, and penalizes waits past the comfort threshold;
// cost is the minutes the item will consume. The cost transit term is an
// average-hop estimate since the true transit depends on placement order.
func (c *candidate) score(prefs Preferences, prof profile) {
	comfort := prof.comfortWait
	if comfort == 0 {
		comfort = defaultComfortWait
		if prefs.CrowdAvoidance {
			comfort = crowdComfortWait
		}
		if prefs.MaxWaitMin < comfort {
			comfort = prefs.MaxWaitMin
		}
	}

	v := c.exp.Popularity
	if c.matches {
		v += prefMatchBoost
	}
	if prof.indoorBoost > 0 && !c.exp.Outdoor() {
		v += prof.indoorBoost
	}
	if over := float64(c.wait - comfort); over > 0 {
		v -= over * waitPenaltyPerMin
	}

	if prof.flatten {
		// maximize item count: every feasible item is worth the same,
		// priorities slightly more
		v = 1
		if c.priority {
			v = 2
		}
	} else if c.priority {
		v += priorityBoost
	}

	if v < 1 {
		v = 1
	}
	c.value = v
	c.cost = float64(c.exp.DurationMin+c.wait) + estHopMin*prefs.PaceMultiplier
}
