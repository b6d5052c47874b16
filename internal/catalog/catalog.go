package catalog

// Experience is one bookable unit in a park: a ride, a show, a
// meet-and-greet or a dining location. Experiences are immutable for the
// duration of a planning run.
type Experience struct {
	ID       string   `json:"id" yaml:"id" csv:"id"`
	ParkID   string   `json:"parkId" yaml:"park_id" csv:"park_id"`
	Name     string   `json:"name" yaml:"name" csv:"name"`
	Category Category `json:"category" yaml:"category" csv:"category"`

	DurationMin int           `json:"durationMinutes" yaml:"duration_minutes" csv:"duration_minutes"`
	Capacity    CapacityClass `json:"capacityClass" yaml:"capacity_class" csv:"capacity_class"`

	MinHeightCM          int  `json:"minHeightCm,omitempty" yaml:"min_height_cm" csv:"min_height_cm"`
	WheelchairAccessible bool `json:"wheelchairAccessible" yaml:"wheelchair_accessible" csv:"wheelchair_accessible"`

	Tags []string `json:"tags,omitempty" yaml:"tags" csv:"-"`

	// Showtimes holds fixed start times ("15:04", park-local) for
	// fixed-showtime experiences; empty for continuously available ones.
	Showtimes []string `json:"showtimes,omitempty" yaml:"showtimes" csv:"-"`

	Land string  `json:"land,omitempty" yaml:"land" csv:"land"`
	Lat  float64 `json:"lat,omitempty" yaml:"lat" csv:"lat"`
	Lng  float64 `json:"lng,omitempty" yaml:"lng" csv:"lng"`

	Popularity  float64 `json:"popularity" yaml:"popularity" csv:"popularity"`
	SingleRider bool    `json:"singleRider,omitempty" yaml:"single_rider" csv:"single_rider"`

	// FeedID joins the experience to the live wait-time feed's ride id.
	FeedID string `json:"-" yaml:"feed_id" csv:"feed_id"`

	LightningLane *LightningLaneOffer `json:"lightningLane,omitempty" yaml:"lightning_lane" csv:"-"`
}

type Category string

const (
	CategoryRide         Category = "ride"
	CategoryShow         Category = "show"
	CategoryMeetAndGreet Category = "meet_and_greet"
	CategoryDining       Category = "dining"
)

type CapacityClass string

const (
	CapacityNone          CapacityClass = "none"
	CapacityStandby       CapacityClass = "standby"
	CapacityFixedShowtime CapacityClass = "fixed_showtime"
)

// LightningLaneOffer describes an expedited-entry product attached to an
// experience: a per-use multi-pass entry or a pay-per-ride single pass.
type LightningLaneOffer struct {
	Type     string  `json:"type" yaml:"type"` // "multi_pass" or "single_pass"
	PriceUSD float64 `json:"price" yaml:"price"`
}

const (
	LightningLaneMultiPass  = "multi_pass"
	LightningLaneSinglePass = "single_pass"
)

func (e Experience) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Outdoor reports whether the experience is exposed to weather. Anything
// not explicitly tagged indoor counts as outdoor for rainy-day planning
// except shows and dining, which default to covered venues.
func (e Experience) Outdoor() bool {
	if e.HasTag("outdoor") {
		return true
	}
	if e.HasTag("indoor") {
		return false
	}
	return e.Category == CategoryRide || e.Category == CategoryMeetAndGreet
}

func (e Experience) Thrill() bool {
	return e.HasTag("thrill")
}

func (e Experience) FixedShowtime() bool {
	return e.Capacity == CapacityFixedShowtime || len(e.Showtimes) > 0
}
