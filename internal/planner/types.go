package planner

// Output contract consumed by the itinerary renderer and the saved-plan
// store. Field names follow the client's JSON shape.

// ItemType values double as a coarse render hint for the client.
const (
	ItemRide         = "ride"
	ItemShow         = "show"
	ItemMeetAndGreet = "meet_and_greet"
	ItemDining       = "dining"
	ItemMeal         = "meal"
	ItemBreak        = "break"
)

type ItineraryItem struct {
	Type        string `json:"type"`
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	WaitTime    int    `json:"waitTime,omitempty"`
	WalkingTime int    `json:"walkingTime,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`

	LightningLane *LightningLaneSelection `json:"lightningLane,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// startMinute and endMinute re-derive schedule math from the wire times,
// so plans loaded back from storage stay usable by the re-planner.
func (it ItineraryItem) startMinute() int {
	m, err := parseClock(it.StartTime)
	if err != nil {
		return 0
	}
	return m
}

func (it ItineraryItem) endMinute() int {
	m, err := parseClock(it.EndTime)
	if err != nil {
		return 0
	}
	return m
}

func (it ItineraryItem) attraction() bool {
	switch it.Type {
	case ItemRide, ItemShow, ItemMeetAndGreet:
		return true
	}
	return false
}

type LightningLaneSelection struct {
	Type  string  `json:"type"`
	Price float64 `json:"price,omitempty"`
}

type Stats struct {
	TotalAttractions   int     `json:"totalAttractions"`
	ExpectedWaitTime   int     `json:"expectedWaitTime"`
	WalkingDistance    float64 `json:"walkingDistance"` // km
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	CoveragePercentage int     `json:"coveragePercentage"`
	LightningLaneUsage int     `json:"lightningLaneUsage"`
	LightningLaneCost  float64 `json:"lightningLaneCost,omitempty"`
}

// Plan is one time-ordered day plan. A zero-attraction plan carries a
// Reason explaining why nothing could be scheduled; that is a normal
// result, not an error.
type Plan struct {
	Itinerary []ItineraryItem `json:"itinerary"`
	Stats     Stats           `json:"stats"`
	Reason    string          `json:"reason,omitempty"`
}

// Alternatives are sibling plans produced from the same inputs under
// altered objective weights or window restrictions.
type Alternatives struct {
	Morning        *Plan `json:"morningAlternative,omitempty"`
	Afternoon      *Plan `json:"afternoonAlternative,omitempty"`
	Evening        *Plan `json:"eveningAlternative,omitempty"`
	RainyDay       *Plan `json:"rainyDayPlan,omitempty"`
	LowWaitTime    *Plan `json:"lowWaitTimePlan,omitempty"`
	MaxAttractions *Plan `json:"maxAttractionsPlan,omitempty"`
}

type Result struct {
	Plan
	Alternatives Alternatives `json:"alternatives"`
}

// Plans returns the primary plan plus every generated alternative, for
// callers that need to sweep all of them (exclusion checks, rendering).
func (r *Result) Plans() []*Plan {
	out := []*Plan{&r.Plan}
	for _, p := range []*Plan{
		r.Alternatives.Morning, r.Alternatives.Afternoon, r.Alternatives.Evening,
		r.Alternatives.RainyDay, r.Alternatives.LowWaitTime, r.Alternatives.MaxAttractions,
	} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
