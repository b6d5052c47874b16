package planner

import (
	"fmt"
	"math"
	"time"
)

// Times of day are handled as minutes since midnight, park-local. The
// wire format is zero-padded "15:04".

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return h*60 + m, nil
}

func formatClock(min int) string {
	if min < 0 {
		min = 0
	}
	return fmt.Sprintf("%02d:%02d", (min/60)%24, min%60)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Base walking speed in meters per minute before the pace multiplier.
const walkSpeedMetersPerMin = 75.0

// Default hop when either end has no coordinates, and the walk from the
// park gate to the first experience.
const (
	defaultHopMeters  = 280.0
	entranceHopMeters = 350.0
)

// walkBetween estimates walking meters and minutes between two points at
// the given pace multiplier. Straight-line distance; park paths are not
// modeled.
func walkBetween(aLat, aLng, bLat, bLng, paceMult float64) (minutes int, meters float64) {
	if (aLat == 0 && aLng == 0) || (bLat == 0 && bLng == 0) {
		meters = defaultHopMeters
	} else {
		meters = haversineMeters(aLat, aLng, bLat, bLng)
	}
	return walkMinutes(meters, paceMult), meters
}

func walkFromEntrance(paceMult float64) (minutes int, meters float64) {
	return walkMinutes(entranceHopMeters, paceMult), entranceHopMeters
}

func walkMinutes(meters, paceMult float64) int {
	min := int(math.Ceil(meters / walkSpeedMetersPerMin * paceMult))
	if min < 1 {
		min = 1
	}
	return min
}

func haversineMeters(aLat, aLng, bLat, bLng float64) float64 {
	const earthRadius = 6371000.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(bLat - aLat)
	dLng := toRad(bLng - aLng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(aLat))*math.Cos(toRad(bLat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(h))
}
