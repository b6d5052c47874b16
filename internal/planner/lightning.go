package planner

import (
	"sort"

	"github.com/example/park-planner/internal/catalog"
)

// assignLightningLanes upgrades the highest-wait eligible candidates to
// Lightning Lane entry, greedily by wait saved per dollar, until the
// budget ceiling is reached. Zero-priced (entitlement-covered) entries
// are taken first since they cost nothing. Upgraded candidates get the
// short Lightning Lane wait in place of standby.
func assignLightningLanes(cands []*candidate, prefs Preferences) {
	if !prefs.UseMultiPass && !prefs.UseSinglePass {
		return
	}

	var eligible []*candidate
	for _, c := range cands {
		offer := c.exp.LightningLane
		if offer == nil {
			continue
		}
		switch offer.Type {
		case catalog.LightningLaneMultiPass:
			if !prefs.UseMultiPass {
				continue
			}
		case catalog.LightningLaneSinglePass:
			if !prefs.UseSinglePass {
				continue
			}
		default:
			continue
		}
		if c.wait <= llWaitMin {
			continue // nothing to save
		}
		eligible = append(eligible, c)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		af, bf := a.exp.LightningLane.PriceUSD == 0, b.exp.LightningLane.PriceUSD == 0
		if af != bf {
			return af // free entries first
		}
		as, bs := savedPerDollar(a), savedPerDollar(b)
		if as != bs {
			return as > bs
		}
		if a.wait != b.wait {
			return a.wait > b.wait
		}
		return a.idx < b.idx
	})

	spend := 0.0
	for _, c := range eligible {
		price := c.exp.LightningLane.PriceUSD
		if prefs.BudgetCapped && spend+price > prefs.BudgetUSD {
			continue
		}
		spend += price
		c.ll = &LightningLaneSelection{Type: c.exp.LightningLane.Type, Price: price}
		c.wait = llWaitMin
		c.singleRider = false
	}
}

func savedPerDollar(c *candidate) float64 {
	saved := float64(c.wait - llWaitMin)
	price := c.exp.LightningLane.PriceUSD
	if price <= 0 {
		return saved // free: rank by raw savings
	}
	return saved / price
}
