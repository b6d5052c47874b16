package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError reports every violated field of a PlanRequest at once
// so the caller can surface the full set of form errors in one pass.
type ValidationError struct {
	Fields []FieldViolation
}

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid plan request: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldViolation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Preferences is the normalized, immutable constraint and weighting
// profile for one optimization run.
type Preferences struct {
	ParkID string
	Date   time.Time

	OpenMin  int
	CloseMin int

	PartySize    int
	HasChildren  bool
	ChildrenAges []int
	HasStroller  bool

	MobilityConsiderations bool

	Priority []string
	Excluded []string

	RidePreference string
	MaxWaitMin     int
	WalkingPace    string
	PaceMultiplier float64

	BreakMin    int
	MealWindows []MealWindow

	UseMultiPass  bool
	UseSinglePass bool
	BudgetCapped  bool
	BudgetUSD     float64

	AccommodateHeight    bool
	RideRepeats          bool
	IncludeMeetAndGreets bool
	IncludeShows         bool
	WeatherAdaptation    bool
	CrowdAvoidance       bool

	// Shortest rider height the plan must accommodate; 0 disables the
	// height constraint.
	MinRiderHeightCM int

	prioritySet map[string]bool
	excludedSet map[string]bool
}

type MealWindow struct {
	Label    string
	StartMin int
	EndMin   int
}

const mealWindowMin = 60

func (p Preferences) IsPriority(id string) bool { return p.prioritySet[id] }
func (p Preferences) IsExcluded(id string) bool { return p.excludedSet[id] }

const (
	RidePrefThrill = "thrill"
	RidePrefFamily = "family"
	RidePrefAll    = "all"
)

var paceMultipliers = map[string]float64{
	"slow":     1.35,
	"moderate": 1.0,
	"fast":     0.8,
}

// Normalize validates a raw request and produces the canonical
// Preferences for the optimizer. Pure; every violation is collected
// rather than failing on the first.
func Normalize(req PlanRequest) (Preferences, error) {
	verr := &ValidationError{}

	p := Preferences{
		ParkID:                 req.ParkID,
		PartySize:              req.PartySize,
		HasChildren:            req.HasChildren,
		ChildrenAges:           append([]int(nil), req.ChildrenAges...),
		HasStroller:            req.HasStroller,
		MobilityConsiderations: req.MobilityConsiderations,
		Priority:               dedupe(req.Preferences.PriorityAttractions),
		Excluded:               dedupe(req.Preferences.ExcludedAttractions),
		MaxWaitMin:             req.Preferences.MaxWaitTime,
		BreakMin:               req.Preferences.BreakDuration,
		UseMultiPass:           req.UseGeniePlus,
		UseSinglePass:          req.UseIndividualLightningLane,
		AccommodateHeight:      req.AccommodateHeight,
		RideRepeats:            req.RideRepeats,
		IncludeMeetAndGreets:   req.IncludeMeetAndGreets,
		IncludeShows:           req.IncludeShows,
		WeatherAdaptation:      req.WeatherAdaptation,
		CrowdAvoidance:         req.CrowdAvoidance,
	}

	if req.ParkID == "" {
		verr.add("parkId", "required")
	}

	if req.Date == "" {
		verr.add("date", "required")
	} else if d, err := time.Parse("2006-01-02", req.Date); err != nil {
		verr.add("date", "must be a calendar day (YYYY-MM-DD)")
	} else {
		p.Date = d
	}

	p.OpenMin = 9 * 60
	p.CloseMin = 21 * 60
	if req.StartTime != "" {
		if m, err := parseClock(req.StartTime); err != nil {
			verr.add("startTime", "%v", err)
		} else {
			p.OpenMin = m
		}
	}
	if req.EndTime != "" {
		if m, err := parseClock(req.EndTime); err != nil {
			verr.add("endTime", "%v", err)
		} else {
			p.CloseMin = m
		}
	}
	if p.CloseMin <= p.OpenMin {
		verr.add("endTime", "must be after startTime")
	}

	if req.PartySize < 1 || req.PartySize > 20 {
		verr.add("partySize", "must be between 1 and 20")
	}
	if req.Preferences.MaxWaitTime < 0 || req.Preferences.MaxWaitTime > 240 {
		verr.add("preferences.maxWaitTime", "must be between 0 and 240 minutes")
	}
	if req.Preferences.BreakDuration < 0 || req.Preferences.BreakDuration > 240 {
		verr.add("preferences.breakDuration", "must be between 0 and 240 minutes")
	}

	switch req.Preferences.RidePreference {
	case RidePrefThrill, RidePrefFamily, RidePrefAll:
		p.RidePreference = req.Preferences.RidePreference
	case "":
		p.RidePreference = RidePrefAll
	default:
		verr.add("preferences.ridePreference", "must be one of thrill, family, all")
	}

	pace := req.Preferences.WalkingPace
	if pace == "" {
		pace = "moderate"
	}
	if mult, ok := paceMultipliers[pace]; ok {
		p.WalkingPace = pace
		p.PaceMultiplier = mult
	} else {
		verr.add("preferences.walkingPace", "must be one of slow, moderate, fast")
	}

	if req.HasChildren {
		for i, age := range req.ChildrenAges {
			if age < 0 || age > 17 {
				verr.add("childrenAges", "age %d at index %d out of range", age, i)
			}
		}
		if req.AccommodateHeight && len(req.ChildrenAges) > 0 {
			p.MinRiderHeightCM = heightForYoungest(req.ChildrenAges)
		}
	}

	if w, ok := mealWindow("preferences.lunchTime", "Lunch", req.Preferences.LunchTime, p, verr); ok {
		p.MealWindows = append(p.MealWindows, w)
	}
	if w, ok := mealWindow("preferences.dinnerTime", "Dinner", req.Preferences.DinnerTime, p, verr); ok {
		p.MealWindows = append(p.MealWindows, w)
	}
	sort.Slice(p.MealWindows, func(i, j int) bool { return p.MealWindows[i].StartMin < p.MealWindows[j].StartMin })
	for i := 1; i < len(p.MealWindows); i++ {
		if p.MealWindows[i].StartMin < p.MealWindows[i-1].EndMin {
			verr.add("preferences.dinnerTime", "meal windows overlap")
		}
	}

	if req.MaxLightningLaneBudget != nil {
		if *req.MaxLightningLaneBudget < 0 {
			verr.add("maxLightningLaneBudget", "must not be negative")
		} else {
			p.BudgetCapped = true
			p.BudgetUSD = *req.MaxLightningLaneBudget
		}
	}

	if len(verr.Fields) > 0 {
		return Preferences{}, verr
	}

	p.prioritySet = toSet(p.Priority)
	p.excludedSet = toSet(p.Excluded)
	return p, nil
}

func mealWindow(field, label, val string, p Preferences, verr *ValidationError) (MealWindow, bool) {
	if val == "" {
		return MealWindow{}, false
	}
	m, err := parseClock(val)
	if err != nil {
		verr.add(field, "%v", err)
		return MealWindow{}, false
	}
	if m < p.OpenMin || m+mealWindowMin > p.CloseMin {
		verr.add(field, "meal must fit inside the park visit window")
		return MealWindow{}, false
	}
	return MealWindow{Label: label, StartMin: m, EndMin: m + mealWindowMin}, true
}

// heightForYoungest approximates median standing height for the youngest
// listed child, used to rule out rides the party cannot all board.
func heightForYoungest(ages []int) int {
	youngest := ages[0]
	for _, a := range ages[1:] {
		if a < youngest {
			youngest = a
		}
	}
	heights := []int{75, 80, 88, 96, 103, 110, 116, 122, 128, 133, 138, 144, 150, 156, 163, 167, 172, 175}
	if youngest < 0 {
		youngest = 0
	}
	if youngest >= len(heights) {
		youngest = len(heights) - 1
	}
	return heights[youngest]
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
