package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	req := PlanRequest{
		ParkID:    "test-park",
		Date:      "2026-09-12",
		PartySize: 4,
	}

	p, err := Normalize(req)
	require.NoError(t, err)

	assert.Equal(t, 9*60, p.OpenMin)
	assert.Equal(t, 21*60, p.CloseMin)
	assert.Equal(t, RidePrefAll, p.RidePreference)
	assert.Equal(t, "moderate", p.WalkingPace)
	assert.Equal(t, 1.0, p.PaceMultiplier)
	assert.Empty(t, p.MealWindows)
	assert.False(t, p.BudgetCapped)
}

func TestNormalizeCollectsAllViolations(t *testing.T) {
	req := PlanRequest{
		// parkId and date missing
		PartySize: 0,
		Preferences: RequestPreferences{
			MaxWaitTime:    500,
			RidePreference: "extreme",
			WalkingPace:    "sprint",
		},
	}

	_, err := Normalize(req)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make(map[string]bool)
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{
		"parkId", "date", "partySize",
		"preferences.maxWaitTime", "preferences.ridePreference", "preferences.walkingPace",
	} {
		assert.True(t, fields[want], "missing violation for %s (got %v)", want, verr.Fields)
	}
}

func TestNormalizeRejectsInvertedWindow(t *testing.T) {
	req := PlanRequest{
		ParkID:    "test-park",
		Date:      "2026-09-12",
		StartTime: "18:00",
		EndTime:   "10:00",
		PartySize: 2,
	}

	_, err := Normalize(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "endTime", verr.Fields[0].Field)
}

func TestNormalizeMealWindows(t *testing.T) {
	req := PlanRequest{
		ParkID:    "test-park",
		Date:      "2026-09-12",
		PartySize: 2,
		Preferences: RequestPreferences{
			LunchTime:  "12:30",
			DinnerTime: "18:00",
		},
	}

	p, err := Normalize(req)
	require.NoError(t, err)
	require.Len(t, p.MealWindows, 2)
	assert.Equal(t, MealWindow{Label: "Lunch", StartMin: 12*60 + 30, EndMin: 13*60 + 30}, p.MealWindows[0])
	assert.Equal(t, MealWindow{Label: "Dinner", StartMin: 18 * 60, EndMin: 19 * 60}, p.MealWindows[1])
}

func TestNormalizeRejectsOverlappingMeals(t *testing.T) {
	req := PlanRequest{
		ParkID:    "test-park",
		Date:      "2026-09-12",
		PartySize: 2,
		Preferences: RequestPreferences{
			LunchTime:  "12:00",
			DinnerTime: "12:30",
		},
	}

	_, err := Normalize(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "meal windows overlap")
}

func TestNormalizeRejectsMealOutsideWindow(t *testing.T) {
	req := PlanRequest{
		ParkID:    "test-park",
		Date:      "2026-09-12",
		EndTime:   "18:00",
		PartySize: 2,
		Preferences: RequestPreferences{
			DinnerTime: "17:30", // window would run past close
		},
	}

	_, err := Normalize(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "preferences.dinnerTime", verr.Fields[0].Field)
}

func TestNormalizeHeightConstraint(t *testing.T) {
	req := PlanRequest{
		ParkID:            "test-park",
		Date:              "2026-09-12",
		PartySize:         4,
		HasChildren:       true,
		ChildrenAges:      []int{9, 4},
		AccommodateHeight: true,
	}

	p, err := Normalize(req)
	require.NoError(t, err)
	assert.Equal(t, 103, p.MinRiderHeightCM, "height is taken from the youngest child")

	// without the toggle the constraint stays off
	req.AccommodateHeight = false
	p, err = Normalize(req)
	require.NoError(t, err)
	assert.Zero(t, p.MinRiderHeightCM)
}

func TestNormalizeDedupesLists(t *testing.T) {
	req := PlanRequest{
		ParkID:    "test-park",
		Date:      "2026-09-12",
		PartySize: 2,
		Preferences: RequestPreferences{
			PriorityAttractions: []string{"a", " a ", "b", "a"},
			ExcludedAttractions: []string{"c", "", "c"},
		},
	}

	p, err := Normalize(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Priority)
	assert.Equal(t, []string{"c"}, p.Excluded)
	assert.True(t, p.IsPriority("a"))
	assert.True(t, p.IsExcluded("c"))
	assert.False(t, p.IsExcluded("a"))
}

func TestNormalizeBudget(t *testing.T) {
	budget := 40.0
	req := PlanRequest{
		ParkID:                 "test-park",
		Date:                   "2026-09-12",
		PartySize:              2,
		UseGeniePlus:           true,
		MaxLightningLaneBudget: &budget,
	}

	p, err := Normalize(req)
	require.NoError(t, err)
	assert.True(t, p.UseMultiPass)
	assert.False(t, p.UseSinglePass)
	assert.True(t, p.BudgetCapped)
	assert.Equal(t, 40.0, p.BudgetUSD)

	negative := -1.0
	req.MaxLightningLaneBudget = &negative
	_, err = Normalize(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "maxLightningLaneBudget", verr.Fields[0].Field)
}
