package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/loader"
	"github.com/mwhydro/hydromap/internal/proximity"
	"github.com/mwhydro/hydromap/internal/render"
	"github.com/mwhydro/hydromap/internal/store"
)

// layers selects which optional layers loadDataset reads.
type layers struct {
	places bool
	roads  bool
}

// loadDataset reads the scheme layer and the requested optional layers.
func loadDataset(ctx context.Context, c *config.Config, want layers) (*loader.Dataset, error) {
	tr, err := geo.NewTransformer(c.Projection.Source, c.Projection.Auto)
	if err != nil {
		return nil, err
	}
	paths := loader.Paths{Schemes: c.Data.Schemes}
	if want.places {
		paths.Places = c.Data.Places
	}
	if want.roads {
		paths.Roads = c.Data.Roads
	}
	return loader.LoadAll(ctx, paths, tr)
}

// engineOptions maps the proximity config onto engine options.
func engineOptions(c *config.Config) proximity.Options {
	opts := proximity.DefaultOptions()
	opts.Limit = c.Proximity.Limit
	opts.WithinKM = c.Proximity.WithinKM
	opts.BufferKM = c.Proximity.BufferKM
	return opts
}

// mapViews returns the default, places and roads viewports.
func mapViews(c *config.Config) (view, places, roads render.View) {
	view = render.View{CenterLat: c.Map.CenterLat, CenterLon: c.Map.CenterLon, Zoom: c.Map.Zoom}
	places = render.View{CenterLat: c.Map.PlacesCenterLat, CenterLon: c.Map.PlacesCenterLon, Zoom: c.Map.PlacesZoom}
	roads = render.View{CenterLat: c.Map.CenterLat, CenterLon: c.Map.CenterLon, Zoom: c.Map.RoadsZoom}
	return view, places, roads
}

func newBuilder(c *config.Config) (*render.Builder, error) {
	style, err := render.LoadStyle(c.Map.StyleFile)
	if err != nil {
		return nil, err
	}
	return render.NewBuilder(style), nil
}

// initStore opens and migrates the configured result store.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	if err := c.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, c.Store.Driver, c.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
