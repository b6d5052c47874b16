package livestatus

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FeedMapper resolves feed ride ids to experience ids for a park.
// Satisfied by catalog.Repo.
type FeedMapper interface {
	FeedIDMap(ctx context.Context, parkID string) (map[string]string, error)
}

// Poller refreshes the live-status store for a set of parks on a fixed
// interval. It only writes snapshots; consumers read through Store.
type Poller struct {
	Client   *Client
	Store    *Store
	Mapper   FeedMapper
	ParkIDs  []string
	Interval time.Duration
	Log      *zap.SugaredLogger
}

func (p *Poller) Run(ctx context.Context) error {
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	// kick immediately
	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	for _, parkID := range p.ParkIDs {
		mapping, err := p.Mapper.FeedIDMap(ctx, parkID)
		if err != nil {
			p.Log.Warnw("feed id mapping failed", "park", parkID, "err", err)
			continue
		}

		samples, err := p.Client.Fetch(ctx, parkID, mapping)
		if err != nil {
			p.Log.Warnw("live feed fetch failed", "park", parkID, "err", err)
			continue
		}

		p.Store.Apply(parkID, samples, time.Now().UTC())
		p.Log.Debugw("live feed updated", "park", parkID, "samples", len(samples))
	}
}
