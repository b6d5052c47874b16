package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/livestatus"
	"github.com/example/park-planner/internal/planner"
)

// newPlanCmd runs a single optimization offline from a YAML catalog file
// and an optional captured live snapshot, without a database or server.
func newPlanCmd() *cobra.Command {
	var (
		catalogFile string
		liveFile    string

		parkID    string
		date      string
		startTime string
		endTime   string
		partySize int

		priority string
		exclude  string
		ridePref string
		maxWait  int
		pace     string
		breakMin int
		lunch    string
		dinner   string

		includeShows bool
		includeMeets bool
		rideRepeats  bool
	)

	c := &cobra.Command{
		Use:   "plan",
		Short: "Build a day itinerary from catalog + live snapshot files",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(catalogFile)
			if err != nil {
				return err
			}
			defer f.Close()

			exps, err := catalog.LoadYAML(f)
			if err != nil {
				return err
			}

			live := map[string]livestatus.Sample{}
			if liveFile != "" {
				b, err := os.ReadFile(liveFile)
				if err != nil {
					return err
				}
				samples, err := livestatus.ParseFile(b, feedMap(exps))
				if err != nil {
					return err
				}
				for _, s := range samples {
					live[s.ExperienceID] = s
				}
			}

			req := planner.PlanRequest{
				ParkID:    parkID,
				Date:      date,
				StartTime: startTime,
				EndTime:   endTime,
				PartySize: partySize,
				Preferences: planner.RequestPreferences{
					PriorityAttractions: splitList(priority),
					ExcludedAttractions: splitList(exclude),
					RidePreference:      ridePref,
					MaxWaitTime:         maxWait,
					WalkingPace:         pace,
					BreakDuration:       breakMin,
					LunchTime:           lunch,
					DinnerTime:          dinner,
				},
				IncludeShows:         includeShows,
				IncludeMeetAndGreets: includeMeets,
				RideRepeats:          rideRepeats,
			}

			prefs, err := planner.Normalize(req)
			if err != nil {
				return err
			}

			res, err := planner.New(nil).Plan(exps, live, prefs)
			if err != nil {
				return err
			}

			printPlan(&res.Plan, "Primary plan")
			for _, alt := range []struct {
				name string
				plan *planner.Plan
			}{
				{"Morning alternative", res.Alternatives.Morning},
				{"Afternoon alternative", res.Alternatives.Afternoon},
				{"Evening alternative", res.Alternatives.Evening},
				{"Rainy-day plan", res.Alternatives.RainyDay},
				{"Low-wait plan", res.Alternatives.LowWaitTime},
				{"Max-attractions plan", res.Alternatives.MaxAttractions},
			} {
				if alt.plan != nil {
					printPlan(alt.plan, alt.name)
				}
			}
			return nil
		},
	}

	c.Flags().StringVar(&catalogFile, "catalog", "", "catalog YAML file")
	c.Flags().StringVar(&liveFile, "live", "", "captured live snapshot JSON (optional)")
	c.Flags().StringVar(&parkID, "park", "", "park id")
	c.Flags().StringVar(&date, "date", "", "visit date YYYY-MM-DD")
	c.Flags().StringVar(&startTime, "start", "09:00", "park open HH:MM")
	c.Flags().StringVar(&endTime, "end", "21:00", "park close HH:MM")
	c.Flags().IntVar(&partySize, "party-size", 2, "party size")
	c.Flags().StringVar(&priority, "priority", "", "priority experience ids (comma-separated)")
	c.Flags().StringVar(&exclude, "exclude", "", "excluded experience ids (comma-separated)")
	c.Flags().StringVar(&ridePref, "ride-pref", "all", "ride preference: thrill, family, all")
	c.Flags().IntVar(&maxWait, "max-wait", 60, "max acceptable wait (minutes)")
	c.Flags().StringVar(&pace, "pace", "moderate", "walking pace: slow, moderate, fast")
	c.Flags().IntVar(&breakMin, "break", 0, "break time budget (minutes)")
	c.Flags().StringVar(&lunch, "lunch", "", "lunch time HH:MM")
	c.Flags().StringVar(&dinner, "dinner", "", "dinner time HH:MM")
	c.Flags().BoolVar(&includeShows, "shows", true, "include shows")
	c.Flags().BoolVar(&includeMeets, "meet-and-greets", false, "include meet and greets")
	c.Flags().BoolVar(&rideRepeats, "repeats", false, "allow ride repeats")

	_ = c.MarkFlagRequired("catalog")
	_ = c.MarkFlagRequired("park")
	_ = c.MarkFlagRequired("date")
	return c
}

func printPlan(p *planner.Plan, title string) {
	fmt.Printf("\n%s (%d attractions, %d min expected wait, %.1f km, %d%% coverage)\n",
		title, p.Stats.TotalAttractions, p.Stats.ExpectedWaitTime, p.Stats.WalkingDistance, p.Stats.CoveragePercentage)
	if p.Reason != "" {
		fmt.Printf("  %s\n", p.Reason)
	}
	for _, it := range p.Itinerary {
		line := fmt.Sprintf("  %s-%s  %-14s %s", it.StartTime, it.EndTime, it.Type, it.Name)
		if it.WaitTime > 0 {
			line += fmt.Sprintf(" (wait %dm)", it.WaitTime)
		}
		if it.LightningLane != nil {
			line += fmt.Sprintf(" [LL %s $%.0f]", it.LightningLane.Type, it.LightningLane.Price)
		}
		fmt.Println(line)
	}
}

func feedMap(exps []catalog.Experience) map[string]string {
	m := make(map[string]string, len(exps))
	for _, e := range exps {
		if e.FeedID != "" {
			m[e.FeedID] = e.ID
		}
		m[e.ID] = e.ID
	}
	return m
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
