package livestatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches wait times from a queue-times style JSON feed:
// GET {base}/parks/{parkID}/queue_times.json returns lands, each holding
// rides with an is_open flag and a wait_time in minutes.
type Client struct {
	hc      *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// feedID tolerates both JSON forms seen in the wild: numeric feed ids
// and string ids (snapshot files keyed by experience id).
type feedID string

func (f *feedID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = feedID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = feedID(n.String())
	return nil
}

type feedRide struct {
	ID          feedID    `json:"id"`
	Name        string    `json:"name"`
	IsOpen      bool      `json:"is_open"`
	WaitTime    *int      `json:"wait_time"`
	SingleRider *int      `json:"single_rider_wait_time"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

type feedResponse struct {
	Lands []struct {
		Rides []feedRide `json:"rides"`
	} `json:"lands"`
	Rides []feedRide `json:"rides"`
}

// Fetch pulls the park's current wait times and maps feed ride ids onto
// experience ids via feedToExperience. Rides absent from the mapping are
// dropped.
func (c *Client) Fetch(ctx context.Context, parkID string, feedToExperience map[string]string) ([]Sample, error) {
	url := fmt.Sprintf("%s/parks/%s/queue_times.json", c.baseURL, parkID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("live feed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("live feed: unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("live feed: %w", err)
	}

	var fr feedResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("live feed: decode: %w", err)
	}

	rides := fr.Rides
	for _, land := range fr.Lands {
		rides = append(rides, land.Rides...)
	}

	var out []Sample
	for _, r := range rides {
		expID, ok := feedToExperience[string(r.ID)]
		if !ok {
			continue
		}
		out = append(out, toSample(expID, r))
	}
	return out, nil
}

func toSample(expID string, r feedRide) Sample {
	smp := Sample{
		ExperienceID:   expID,
		StandbyMin:     WaitUnknown,
		SingleRiderMin: WaitUnknown,
		ObservedAt:     r.LastUpdated,
	}
	if smp.ObservedAt.IsZero() {
		smp.ObservedAt = time.Now().UTC()
	}

	switch strings.ToLower(r.Status) {
	case "refurbishment":
		smp.Status = StatusRefurbishment
	case "down":
		smp.Status = StatusDown
	case "closed":
		smp.Status = StatusClosed
	case "operating", "":
		if r.IsOpen {
			smp.Status = StatusOperating
		} else {
			smp.Status = StatusClosed
		}
	default:
		if r.IsOpen {
			smp.Status = StatusOperating
		} else {
			smp.Status = StatusClosed
		}
	}

	if r.WaitTime != nil {
		smp.StandbyMin = *r.WaitTime
	}
	if r.SingleRider != nil {
		smp.SingleRiderMin = *r.SingleRider
	}
	return smp
}

// ParseFile decodes a previously captured feed response, for offline
// planning from a snapshot file.
func ParseFile(data []byte, feedToExperience map[string]string) ([]Sample, error) {
	var fr feedResponse
	if err := json.Unmarshal(data, &fr); err != nil {
		return nil, fmt.Errorf("live feed: decode: %w", err)
	}
	rides := fr.Rides
	for _, land := range fr.Lands {
		rides = append(rides, land.Rides...)
	}
	var out []Sample
	for _, r := range rides {
		expID, ok := feedToExperience[string(r.ID)]
		if !ok {
			// fall back to the ride id itself so snapshot files can key
			// samples directly by experience id, numeric ids included
			if r.ID == "" {
				continue
			}
			expID = string(r.ID)
		}
		out = append(out, toSample(expID, r))
	}
	return out, nil
}
