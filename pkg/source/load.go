package source

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/crease/pkg/core"
)

// TableLoader is the part of core.Source that reads individual tables.
type TableLoader interface {
	Name() string
	LoadMatches(ctx context.Context) (core.Matches, error)
	LoadDeliveries(ctx context.Context) (core.Deliveries, error)
}

// LoadTables reads both tables concurrently and assembles a dataset.
// The first failure cancels the other read.
func LoadTables(ctx context.Context, src TableLoader) (*core.Dataset, error) {
	var (
		matches    core.Matches
		deliveries core.Deliveries
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = src.LoadMatches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		deliveries, err = src.LoadDeliveries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &core.Dataset{
		Matches:    matches,
		Deliveries: deliveries,
		Source:     src.Name(),
		LoadedAt:   time.Now(),
	}, nil
}
