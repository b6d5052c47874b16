package livestatus

import "time"

// Status is the operational state reported by the live feed.
type Status string

const (
	StatusOperating     Status = "operating"
	StatusDown          Status = "down"
	StatusClosed        Status = "closed"
	StatusRefurbishment Status = "refurbishment"
)

// WaitUnknown marks a standby or single-rider wait the feed could not
// report.
const WaitUnknown = -1

// Sample is one per-experience observation from the live feed.
type Sample struct {
	ExperienceID   string    `json:"experienceId"`
	Status         Status    `json:"status"`
	StandbyMin     int       `json:"standbyMinutes"`
	SingleRiderMin int       `json:"singleRiderMinutes"`
	ObservedAt     time.Time `json:"observedAt"`
}

// Open reports whether guests can currently be admitted.
func (s Sample) Open() bool {
	return s.Status == StatusOperating
}
