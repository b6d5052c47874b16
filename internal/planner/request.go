package planner

// PlanRequest is the raw optimization request as submitted by the
// planning form or API caller. It is validated and canonicalized by
// Normalize before any scheduling work happens.
type PlanRequest struct {
	ParkID    string `json:"parkId"`
	Date      string `json:"date"`                // YYYY-MM-DD
	StartTime string `json:"startTime,omitempty"` // HH:MM, default park open
	EndTime   string `json:"endTime,omitempty"`   // HH:MM, default park close

	PartySize    int   `json:"partySize"`
	HasChildren  bool  `json:"hasChildren"`
	ChildrenAges []int `json:"childrenAges,omitempty"`
	HasStroller  bool  `json:"hasStroller"`

	MobilityConsiderations bool `json:"mobilityConsiderations"`

	Preferences RequestPreferences `json:"preferences"`

	UseGeniePlus               bool     `json:"useGeniePlus"`
	UseIndividualLightningLane bool     `json:"useIndividualLightningLane"`
	MaxLightningLaneBudget     *float64 `json:"maxLightningLaneBudget,omitempty"`

	AccommodateHeight    bool `json:"accommodateHeight"`
	RideRepeats          bool `json:"rideRepeats"`
	IncludeMeetAndGreets bool `json:"includeMeetAndGreets"`
	IncludeShows         bool `json:"includeShows"`
	WeatherAdaptation    bool `json:"weatherAdaptation"`
	CrowdAvoidance       bool `json:"crowdAvoidance"`
}

type RequestPreferences struct {
	PriorityAttractions []string `json:"priorityAttractions,omitempty"`
	ExcludedAttractions []string `json:"excludedAttractions,omitempty"`
	RidePreference      string   `json:"ridePreference"` // thrill | family | all
	MaxWaitTime         int      `json:"maxWaitTime"`    // minutes
	WalkingPace         string   `json:"walkingPace"`    // slow | moderate | fast
	BreakDuration       int      `json:"breakDuration"`  // minutes
	LunchTime           string   `json:"lunchTime,omitempty"`  // HH:MM
	DinnerTime          string   `json:"dinnerTime,omitempty"` // HH:MM
}
