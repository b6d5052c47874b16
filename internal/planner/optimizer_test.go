package planner

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/livestatus"
)

func ride(id string, durMin int, popularity float64, tags ...string) catalog.Experience {
	return catalog.Experience{
		ID:                   id,
		ParkID:               "test-park",
		Name:                 id,
		Category:             catalog.CategoryRide,
		DurationMin:          durMin,
		Capacity:             catalog.CapacityStandby,
		WheelchairAccessible: true,
		Popularity:           popularity,
		Tags:                 tags,
	}
}

func operating(wait int) livestatus.Sample {
	return livestatus.Sample{
		Status:         livestatus.StatusOperating,
		StandbyMin:     wait,
		SingleRiderMin: livestatus.WaitUnknown,
		ObservedAt:     time.Now(),
	}
}

func closedSample() livestatus.Sample {
	return livestatus.Sample{
		Status:         livestatus.StatusClosed,
		StandbyMin:     livestatus.WaitUnknown,
		SingleRiderMin: livestatus.WaitUnknown,
		ObservedAt:     time.Now(),
	}
}

func baseRequest() PlanRequest {
	return PlanRequest{
		ParkID:    "test-park",
		Date:      "2026-09-12",
		StartTime: "09:00",
		EndTime:   "17:00",
		PartySize: 2,
		Preferences: RequestPreferences{
			RidePreference: "all",
			MaxWaitTime:    60,
			WalkingPace:    "moderate",
		},
		IncludeShows: true,
	}
}

func mustNormalize(t *testing.T, req PlanRequest) Preferences {
	t.Helper()
	prefs, err := Normalize(req)
	require.NoError(t, err)
	return prefs
}

func TestPlanExcludesRidesOverWaitTolerance(t *testing.T) {
	exps := []catalog.Experience{
		ride("quick-coaster", 5, 50),
		ride("river-rapids", 5, 50),
		ride("headliner", 5, 50),
	}
	live := map[string]livestatus.Sample{
		"quick-coaster": operating(10),
		"river-rapids":  operating(20),
		"headliner":     operating(90),
	}

	res, err := New(nil).Plan(exps, live, mustNormalize(t, baseRequest()))
	require.NoError(t, err)

	ids := itemIDs(res.Itinerary)
	assert.Contains(t, ids, "quick-coaster")
	assert.Contains(t, ids, "river-rapids")
	assert.NotContains(t, ids, "headliner")
	assert.Equal(t, 2, res.Stats.TotalAttractions)
	assert.Equal(t, 30, res.Stats.ExpectedWaitTime)

	// start times reflect queued durations: wait+ride occupy the slot
	for i := 1; i < len(res.Itinerary); i++ {
		assert.GreaterOrEqual(t, res.Itinerary[i].startMinute(), res.Itinerary[i-1].endMinute(),
			"items %d and %d overlap", i-1, i)
	}
}

func TestPlanItemsStayInsideWindow(t *testing.T) {
	exps := []catalog.Experience{
		ride("a", 20, 90), ride("b", 15, 80), ride("c", 10, 70),
		ride("d", 30, 60), ride("e", 10, 55), ride("f", 25, 40),
	}
	live := map[string]livestatus.Sample{}
	for _, e := range exps {
		live[e.ID] = operating(15)
	}

	req := baseRequest()
	req.Preferences.BreakDuration = 45
	req.Preferences.LunchTime = "12:00"
	prefs := mustNormalize(t, req)

	res, err := New(nil).Plan(exps, live, prefs)
	require.NoError(t, err)
	require.NotEmpty(t, res.Itinerary)

	open, close := 9*60, 17*60
	for i, it := range res.Itinerary {
		assert.GreaterOrEqual(t, it.startMinute(), open, "item %d starts before open", i)
		assert.LessOrEqual(t, it.endMinute(), close, "item %d ends after close", i)
		if i > 0 {
			assert.GreaterOrEqual(t, it.startMinute(), res.Itinerary[i-1].endMinute(),
				"items %d and %d overlap", i-1, i)
		}
	}

	// reserved meal and break survive a dense schedule
	var sawMeal, sawBreak bool
	for _, it := range res.Itinerary {
		switch it.Type {
		case ItemMeal, ItemDining:
			sawMeal = true
		case ItemBreak:
			sawBreak = true
		}
	}
	assert.True(t, sawMeal, "lunch window missing from plan")
	assert.True(t, sawBreak, "break block missing from plan")
}

func TestPlanNeverSchedulesExcluded(t *testing.T) {
	exps := []catalog.Experience{
		ride("rise-resistance", 10, 100),
		ride("quick-coaster", 5, 50),
	}
	live := map[string]livestatus.Sample{
		"rise-resistance": operating(30),
		"quick-coaster":   operating(10),
	}

	req := baseRequest()
	req.Preferences.ExcludedAttractions = []string{"rise-resistance"}
	req.WeatherAdaptation = true

	res, err := New(nil).Plan(exps, live, mustNormalize(t, req))
	require.NoError(t, err)

	for _, plan := range res.Plans() {
		for _, it := range plan.Itinerary {
			assert.NotEqual(t, "rise-resistance", it.ID)
		}
	}
}

func TestPlanPlacesFeasiblePriorityFirst(t *testing.T) {
	exps := []catalog.Experience{
		ride("filler-1", 5, 90),
		ride("filler-2", 5, 90),
		ride("sleeper-hit", 10, 5),
	}
	live := map[string]livestatus.Sample{
		"filler-1":    operating(10),
		"filler-2":    operating(10),
		"sleeper-hit": operating(40),
	}

	req := baseRequest()
	req.Preferences.PriorityAttractions = []string{"sleeper-hit"}

	res, err := New(nil).Plan(exps, live, mustNormalize(t, req))
	require.NoError(t, err)

	ids := itemIDs(res.Itinerary)
	require.Contains(t, ids, "sleeper-hit")
	// priority dominates popularity: it is scheduled before the fillers
	assert.Equal(t, "sleeper-hit", res.Itinerary[0].ID)
}

func TestPlanDeterministic(t *testing.T) {
	exps := []catalog.Experience{
		ride("a", 10, 50), ride("b", 10, 50), ride("c", 10, 50),
		ride("d", 15, 70), ride("e", 20, 70),
	}
	live := map[string]livestatus.Sample{
		"a": operating(10), "b": operating(10), "c": operating(25),
		"d": operating(30), "e": operating(5),
	}
	prefs := mustNormalize(t, baseRequest())

	opt := New(nil)
	first, err := opt.Plan(exps, live, prefs)
	require.NoError(t, err)
	second, err := opt.Plan(exps, live, prefs)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestPlanMonotonicInWaitTolerance(t *testing.T) {
	exps := []catalog.Experience{
		ride("quick-coaster", 5, 50),
		ride("river-rapids", 5, 50),
		ride("headliner", 5, 50),
	}
	live := map[string]livestatus.Sample{
		"quick-coaster": operating(10),
		"river-rapids":  operating(20),
		"headliner":     operating(90),
	}

	counts := make([]int, 0, 3)
	for _, maxWait := range []int{30, 60, 120} {
		req := baseRequest()
		req.Preferences.MaxWaitTime = maxWait
		res, err := New(nil).Plan(exps, live, mustNormalize(t, req))
		require.NoError(t, err)
		counts = append(counts, res.Stats.TotalAttractions)
	}

	for i := 1; i < len(counts); i++ {
		assert.GreaterOrEqual(t, counts[i], counts[i-1],
			"raising maxWaitTime reduced scheduled items: %v", counts)
	}
}

func TestPlanRespectsLightningLaneBudget(t *testing.T) {
	withLL := func(e catalog.Experience, typ string, price float64) catalog.Experience {
		e.LightningLane = &catalog.LightningLaneOffer{Type: typ, PriceUSD: price}
		return e
	}
	exps := []catalog.Experience{
		withLL(ride("headliner-1", 5, 90), catalog.LightningLaneSinglePass, 15),
		withLL(ride("headliner-2", 5, 85), catalog.LightningLaneSinglePass, 12),
		withLL(ride("headliner-3", 5, 80), catalog.LightningLaneSinglePass, 14),
	}
	live := map[string]livestatus.Sample{
		"headliner-1": operating(55),
		"headliner-2": operating(50),
		"headliner-3": operating(45),
	}

	budget := 27.0
	req := baseRequest()
	req.UseIndividualLightningLane = true
	req.MaxLightningLaneBudget = &budget

	res, err := New(nil).Plan(exps, live, mustNormalize(t, req))
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Stats.LightningLaneCost, budget)
	assert.Greater(t, res.Stats.LightningLaneUsage, 0)

	spend := 0.0
	for _, it := range res.Itinerary {
		if it.LightningLane != nil {
			spend += it.LightningLane.Price
		}
	}
	assert.LessOrEqual(t, spend, budget)
	assert.Equal(t, spend, res.Stats.LightningLaneCost)
}

func TestPlanEmptyCatalog(t *testing.T) {
	res, err := New(nil).Plan(nil, nil, mustNormalize(t, baseRequest()))
	require.NoError(t, err)

	assert.Empty(t, res.Itinerary)
	assert.Equal(t, 0, res.Stats.CoveragePercentage)
	assert.NotEmpty(t, res.Reason)
	assert.Nil(t, res.Alternatives.Morning)
	assert.Nil(t, res.Alternatives.RainyDay)
	assert.Nil(t, res.Alternatives.MaxAttractions)
}

func TestPlanEverythingClosed(t *testing.T) {
	exps := []catalog.Experience{ride("a", 5, 50), ride("b", 5, 50)}
	live := map[string]livestatus.Sample{
		"a": closedSample(),
		"b": closedSample(),
	}

	res, err := New(nil).Plan(exps, live, mustNormalize(t, baseRequest()))
	require.NoError(t, err)
	assert.Empty(t, res.Itinerary)
	assert.NotEmpty(t, res.Reason)
}

func TestPlanFixedShowtimeAlignment(t *testing.T) {
	show := catalog.Experience{
		ID:                   "fountain-show",
		ParkID:               "test-park",
		Name:                 "Fountain Spectacular",
		Category:             catalog.CategoryShow,
		DurationMin:          25,
		Capacity:             catalog.CapacityFixedShowtime,
		WheelchairAccessible: true,
		Popularity:           95,
		Showtimes:            []string{"09:30", "14:00"},
	}
	exps := []catalog.Experience{show, ride("quick-coaster", 5, 40)}
	live := map[string]livestatus.Sample{"quick-coaster": operating(10)}

	res, err := New(nil).Plan(exps, live, mustNormalize(t, baseRequest()))
	require.NoError(t, err)

	var found bool
	for _, it := range res.Itinerary {
		if it.ID == "fountain-show" {
			found = true
			assert.Contains(t, show.Showtimes, it.StartTime, "show must start at a declared showtime")
		}
	}
	assert.True(t, found, "show missing from plan")
}

func TestPlanRainyDayExcludesOutdoor(t *testing.T) {
	exps := []catalog.Experience{
		ride("splash-run", 10, 90, "outdoor", "water"),
		ride("dark-voyage", 10, 60, "indoor", "dark"),
	}
	live := map[string]livestatus.Sample{
		"splash-run":  operating(20),
		"dark-voyage": operating(20),
	}

	req := baseRequest()
	req.WeatherAdaptation = true

	res, err := New(nil).Plan(exps, live, mustNormalize(t, req))
	require.NoError(t, err)
	require.NotNil(t, res.Alternatives.RainyDay)

	for _, it := range res.Alternatives.RainyDay.Itinerary {
		assert.NotEqual(t, "splash-run", it.ID, "outdoor ride placed in rainy-day plan")
	}
	// the primary plan still uses the outdoor headliner
	assert.Contains(t, itemIDs(res.Itinerary), "splash-run")
}

func TestPlanHeightConstraint(t *testing.T) {
	tall := ride("mega-coaster", 5, 99)
	tall.MinHeightCM = 132
	exps := []catalog.Experience{tall, ride("carousel", 5, 40)}
	live := map[string]livestatus.Sample{
		"mega-coaster": operating(20),
		"carousel":     operating(5),
	}

	req := baseRequest()
	req.HasChildren = true
	req.ChildrenAges = []int{4}
	req.AccommodateHeight = true

	res, err := New(nil).Plan(exps, live, mustNormalize(t, req))
	require.NoError(t, err)

	ids := itemIDs(res.Itinerary)
	assert.NotContains(t, ids, "mega-coaster")
	assert.Contains(t, ids, "carousel")
}

func TestPlanCoveragePercentage(t *testing.T) {
	exps := []catalog.Experience{
		ride("quick-coaster", 5, 50),
		ride("river-rapids", 5, 50),
		ride("headliner", 5, 50),
	}
	live := map[string]livestatus.Sample{
		"quick-coaster": operating(10),
		"river-rapids":  operating(20),
		"headliner":     operating(90),
	}

	res, err := New(nil).Plan(exps, live, mustNormalize(t, baseRequest()))
	require.NoError(t, err)

	// 2 scheduled of 3 feasible matching experiences
	assert.Equal(t, 67, res.Stats.CoveragePercentage)
}

func itemIDs(items []ItineraryItem) []string {
	var ids []string
	for _, it := range items {
		if it.ID != "" {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
