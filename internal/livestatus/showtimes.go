package livestatus

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ShowtimeScraper pulls fixed show start times from a park's published
// entertainment schedule page. Parks rarely expose showtimes through the
// wait-time feed, so the schedule page is the source of record.
type ShowtimeScraper struct {
	hc  *http.Client
	url string
}

func NewShowtimeScraper(url string) *ShowtimeScraper {
	return &ShowtimeScraper{
		hc:  &http.Client{Timeout: 15 * time.Second},
		url: url,
	}
}

var clockRe = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)

// Fetch returns show name -> sorted "HH:MM" start times.
//
// The expected markup is a list of entries each carrying a name element
// and one or more time elements, e.g.
//
//	<div class="show-entry">
//	  <span class="show-name">Fountain Spectacular</span>
//	  <span class="show-time">13:30</span><span class="show-time">17:00</span>
//	</div>
func (s *ShowtimeScraper) Fetch(ctx context.Context) (map[string][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("showtimes: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("showtimes: unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("showtimes: parse: %w", err)
	}
	return parseShowtimes(doc), nil
}

func parseShowtimes(doc *goquery.Document) map[string][]string {
	out := make(map[string][]string)

	doc.Find(".show-entry").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Find(".show-name").First().Text())
		if name == "" {
			return
		}
		var times []string
		sel.Find(".show-time").Each(func(_ int, t *goquery.Selection) {
			if m := clockRe.FindString(t.Text()); m != "" {
				times = append(times, normalizeClock(m))
			}
		})
		if len(times) > 0 {
			out[name] = dedupeSorted(times)
		}
	})
	return out
}

func normalizeClock(s string) string {
	if len(s) == 4 { // "9:30" -> "09:30"
		return "0" + s
	}
	return s
}

func dedupeSorted(times []string) []string {
	seen := make(map[string]bool, len(times))
	var out []string
	for _, t := range times {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	// lexicographic order is chronological for zero-padded HH:MM
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
