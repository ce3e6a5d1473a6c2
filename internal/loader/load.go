package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/model"
)

// Paths names the layer files. Empty Places or Roads skip that layer.
type Paths struct {
	Schemes string
	Places  string
	Roads   string
}

// Dataset holds every loaded layer.
type Dataset struct {
	Schemes []model.Scheme
	Places  []model.Place
	Roads   []model.Road
}

// LoadAll reads the configured layers in parallel. The first failure
// cancels the rest and is returned.
func LoadAll(ctx context.Context, paths Paths, tr *geo.Transformer) (*Dataset, error) {
	if paths.Schemes == "" {
		return nil, eris.New("loader: schemes path is required")
	}

	var ds Dataset
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := LoadSchemes(paths.Schemes, tr)
		if err != nil {
			return err
		}
		ds.Schemes = s
		return gctx.Err()
	})

	if paths.Places != "" {
		g.Go(func() error {
			p, err := LoadPlaces(paths.Places)
			if err != nil {
				return err
			}
			ds.Places = p
			return gctx.Err()
		})
	}

	if paths.Roads != "" {
		g.Go(func() error {
			r, err := LoadRoads(paths.Roads)
			if err != nil {
				return err
			}
			ds.Roads = r
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("layers loaded",
		zap.String("component", "loader"),
		zap.Int("schemes", len(ds.Schemes)),
		zap.Int("places", len(ds.Places)),
		zap.Int("roads", len(ds.Roads)),
	)
	return &ds, nil
}
