package livestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBody = `{
  "lands": [
    {
      "id": 1,
      "name": "Frontier",
      "rides": [
        {"id": 101, "name": "Dragon Coaster", "is_open": true, "wait_time": 35, "last_updated": "2026-09-12T14:02:00Z"},
        {"id": 102, "name": "Splash Run", "is_open": false, "wait_time": 0, "last_updated": "2026-09-12T14:02:00Z"}
      ]
    }
  ],
  "rides": [
    {"id": 103, "name": "Carousel", "is_open": true, "wait_time": 5, "single_rider_wait_time": 2, "last_updated": "2026-09-12T14:02:00Z"},
    {"id": 999, "name": "Unmapped", "is_open": true, "wait_time": 10}
  ]
}`

func TestClientFetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	mapping := map[string]string{
		"101": "dragon-coaster",
		"102": "splash-run",
		"103": "carousel",
	}

	samples, err := NewClient(srv.URL).Fetch(context.Background(), "6", mapping)
	require.NoError(t, err)
	assert.Equal(t, "/parks/6/queue_times.json", gotPath)
	require.Len(t, samples, 3, "unmapped rides must be dropped")

	byID := make(map[string]Sample, len(samples))
	for _, s := range samples {
		byID[s.ExperienceID] = s
	}

	dragon := byID["dragon-coaster"]
	assert.Equal(t, StatusOperating, dragon.Status)
	assert.Equal(t, 35, dragon.StandbyMin)
	assert.Equal(t, WaitUnknown, dragon.SingleRiderMin)
	assert.True(t, dragon.Open())

	splash := byID["splash-run"]
	assert.Equal(t, StatusClosed, splash.Status)
	assert.False(t, splash.Open())

	carousel := byID["carousel"]
	assert.Equal(t, 5, carousel.StandbyMin)
	assert.Equal(t, 2, carousel.SingleRiderMin)
}

func TestClientFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "6", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "6", nil)
	assert.Error(t, err)
}

func TestParseFileKeysByExperienceID(t *testing.T) {
	// snapshot files may key rides directly by experience id, with no
	// feed mapping at all; numeric ids are experience ids like any other
	body := `{"rides": [
	  {"id": "dragon-coaster", "is_open": true, "wait_time": 25},
	  {"id": 4021, "is_open": true, "wait_time": 10},
	  {"id": "", "is_open": true, "wait_time": 5}
	]}`

	samples, err := ParseFile([]byte(body), nil)
	require.NoError(t, err)
	require.Len(t, samples, 2, "rides without an id must be dropped")

	byID := make(map[string]Sample, len(samples))
	for _, s := range samples {
		byID[s.ExperienceID] = s
	}
	assert.Equal(t, 25, byID["dragon-coaster"].StandbyMin)
	assert.Equal(t, 10, byID["4021"].StandbyMin)
}

func TestParseFileMappingWins(t *testing.T) {
	body := `{"rides": [{"id": 101, "is_open": true, "wait_time": 35}]}`

	samples, err := ParseFile([]byte(body), map[string]string{"101": "dragon-coaster"})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "dragon-coaster", samples[0].ExperienceID)
}

func TestStatusMapping(t *testing.T) {
	wait := 0
	cases := []struct {
		ride feedRide
		want Status
	}{
		{feedRide{Status: "Refurbishment"}, StatusRefurbishment},
		{feedRide{Status: "Down", IsOpen: true}, StatusDown},
		{feedRide{Status: "", IsOpen: true, WaitTime: &wait}, StatusOperating},
		{feedRide{Status: "", IsOpen: false}, StatusClosed},
		{feedRide{Status: "Mystery", IsOpen: true}, StatusOperating},
	}
	for _, tc := range cases {
		got := toSample("x", tc.ride)
		assert.Equal(t, tc.want, got.Status, "status %q open=%v", tc.ride.Status, tc.ride.IsOpen)
	}
}
