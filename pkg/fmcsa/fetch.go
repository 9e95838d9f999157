package fmcsa

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// FetchAll issues the four provider calls concurrently and joins them
// into a single record. There is no partial-result fallback: if any one
// fetch fails the whole call fails and the record is nil.
func (c *Client) FetchAll(ctx context.Context, id Identifier) (*CarrierRecord, error) {
	rec := &CarrierRecord{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := c.GetSnapshot(ctx, id)
		if err != nil {
			return err
		}
		rec.Snapshot = snap
		return nil
	})
	g.Go(func() error {
		sum, err := c.GetInspections(ctx, id)
		if err != nil {
			return err
		}
		rec.Inspections = sum
		return nil
	})
	g.Go(func() error {
		lines, err := c.GetCrashes(ctx, id)
		if err != nil {
			return err
		}
		rec.Crashes = lines
		return nil
	})
	g.Go(func() error {
		lines, err := c.GetViolations(ctx, id)
		if err != nil {
			return err
		}
		rec.Violations = lines
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("carrier record fetched", "id", id.String(),
		"crashes", len(rec.Crashes), "violations", len(rec.Violations))
	return rec, nil
}
