package catalog

import (
	"context"

	"github.com/example/park-planner/internal/db"
)

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

const experienceColumns = `id,park_id,name,category,duration_minutes,capacity_class,min_height_cm,wheelchair_accessible,tags,showtimes,land,lat,lng,popularity,single_rider,feed_id,lightning_lane_type,lightning_lane_price`

// GetExperiences returns the full catalog for a park in stable catalog
// order (by land, then name). The order is the optimizer's final
// tie-break, so it must be deterministic.
func (r *Repo) GetExperiences(ctx context.Context, parkID string) ([]Experience, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+experienceColumns+`
FROM experiences
WHERE park_id=$1
ORDER BY land, name, id`, parkID)
	if err != nil {
		return nil, db.WrapNotFound(err)
	}
	defer rows.Close()

	var out []Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Upsert(ctx context.Context, e Experience) error {
	var llType *string
	var llPrice *float64
	if e.LightningLane != nil {
		llType = &e.LightningLane.Type
		llPrice = &e.LightningLane.PriceUSD
	}
	return r.db.Exec(ctx, `
INSERT INTO experiences(`+experienceColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
ON CONFLICT (park_id, id) DO UPDATE SET
  name=EXCLUDED.name, category=EXCLUDED.category,
  duration_minutes=EXCLUDED.duration_minutes, capacity_class=EXCLUDED.capacity_class,
  min_height_cm=EXCLUDED.min_height_cm, wheelchair_accessible=EXCLUDED.wheelchair_accessible,
  tags=EXCLUDED.tags, showtimes=EXCLUDED.showtimes, land=EXCLUDED.land,
  lat=EXCLUDED.lat, lng=EXCLUDED.lng, popularity=EXCLUDED.popularity,
  single_rider=EXCLUDED.single_rider, feed_id=EXCLUDED.feed_id,
  lightning_lane_type=EXCLUDED.lightning_lane_type, lightning_lane_price=EXCLUDED.lightning_lane_price`,
		e.ID, e.ParkID, e.Name, string(e.Category), e.DurationMin, string(e.Capacity),
		e.MinHeightCM, e.WheelchairAccessible, e.Tags, e.Showtimes, e.Land,
		e.Lat, e.Lng, e.Popularity, e.SingleRider, e.FeedID, llType, llPrice)
}

// UpdateShowtimes replaces the showtime list for a named show, matching
// case-insensitively on name. Used by the showtime scraper.
func (r *Repo) UpdateShowtimes(ctx context.Context, parkID, name string, times []string) error {
	return r.db.Exec(ctx, `
UPDATE experiences SET showtimes=$3, capacity_class='fixed_showtime'
WHERE park_id=$1 AND lower(name)=lower($2)`, parkID, name, times)
}

// FeedIDMap returns feed ride id -> experience id for a park, for joining
// live wait-time samples onto catalog entries.
func (r *Repo) FeedIDMap(ctx context.Context, parkID string) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id, feed_id FROM experiences WHERE park_id=$1 AND feed_id <> ''`, parkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var id, feedID string
		if err := rows.Scan(&id, &feedID); err != nil {
			return nil, err
		}
		m[feedID] = id
	}
	return m, rows.Err()
}

func scanExperience(row db.Row) (Experience, error) {
	var e Experience
	var category, capacity string
	var llType *string
	var llPrice *float64
	if err := row.Scan(
		&e.ID, &e.ParkID, &e.Name, &category, &e.DurationMin, &capacity,
		&e.MinHeightCM, &e.WheelchairAccessible, &e.Tags, &e.Showtimes, &e.Land,
		&e.Lat, &e.Lng, &e.Popularity, &e.SingleRider, &e.FeedID, &llType, &llPrice,
	); err != nil {
		return Experience{}, err
	}
	e.Category = Category(category)
	e.Capacity = CapacityClass(capacity)
	if llType != nil {
		price := 0.0
		if llPrice != nil {
			price = *llPrice
		}
		e.LightningLane = &LightningLaneOffer{Type: *llType, PriceUSD: price}
	}
	return e, nil
}
