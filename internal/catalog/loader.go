package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"gopkg.in/yaml.v3"
)

// File formats for seeding a park catalog. YAML is the hand-authored
// format; CSV covers exports from spreadsheet-maintained catalogs.

type yamlFile struct {
	ParkID      string       `yaml:"park_id"`
	Experiences []Experience `yaml:"experiences"`
}

// LoadYAML reads a park catalog from a YAML document. A top-level park_id
// is applied to every experience that does not set its own.
func LoadYAML(r io.Reader) ([]Experience, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var f yamlFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}

	out := make([]Experience, 0, len(f.Experiences))
	for i, e := range f.Experiences {
		if e.ParkID == "" {
			e.ParkID = f.ParkID
		}
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("catalog yaml: experience %d (%s): %w", i, e.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// csvRow mirrors Experience for flat CSV files; list-valued fields are
// pipe-separated in a single column.
type csvRow struct {
	Experience
	TagList      string `csv:"tags"`
	ShowtimeList string `csv:"showtimes"`
	LLType       string `csv:"lightning_lane_type"`
	LLPrice      string `csv:"lightning_lane_price"`
}

// LoadCSV reads a park catalog from a headered CSV file.
func LoadCSV(r io.Reader, parkID string) ([]Experience, error) {
	dec, err := csvutil.NewDecoder(newCSVReader(r))
	if err != nil {
		return nil, fmt.Errorf("catalog csv: %w", err)
	}

	var rows []csvRow
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("catalog csv: %w", err)
	}

	out := make([]Experience, 0, len(rows))
	for i, row := range rows {
		e := row.Experience
		if e.ParkID == "" {
			e.ParkID = parkID
		}
		e.Tags = splitList(row.TagList)
		e.Showtimes = splitList(row.ShowtimeList)
		if row.LLType != "" {
			price := 0.0
			if row.LLPrice != "" {
				if _, err := fmt.Sscanf(row.LLPrice, "%f", &price); err != nil {
					return nil, fmt.Errorf("catalog csv: row %d: bad lightning_lane_price %q", i, row.LLPrice)
				}
			}
			e.LightningLane = &LightningLaneOffer{Type: row.LLType, PriceUSD: price}
		}
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("catalog csv: row %d (%s): %w", i, e.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func validate(e Experience) error {
	if e.ID == "" {
		return fmt.Errorf("id required")
	}
	if e.ParkID == "" {
		return fmt.Errorf("park_id required")
	}
	if e.Name == "" {
		return fmt.Errorf("name required")
	}
	switch e.Category {
	case CategoryRide, CategoryShow, CategoryMeetAndGreet, CategoryDining:
	default:
		return fmt.Errorf("unknown category %q", e.Category)
	}
	if e.DurationMin <= 0 {
		return fmt.Errorf("duration_minutes must be positive")
	}
	return nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return cr
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, "|") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
