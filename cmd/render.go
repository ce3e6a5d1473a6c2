package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/network"
	"github.com/mwhydro/hydromap/internal/proximity"
	"github.com/mwhydro/hydromap/internal/render"
)

// mapNames lists the maps render understands, in output order.
var mapNames = []string{"schemes", "proximity", "places", "roads"}

var renderCmd = &cobra.Command{
	Use:       "render [schemes|proximity|places|roads|all]",
	Short:     "Write the HTML maps",
	Long:      "Renders the scheme, proximity, places and road network maps as standalone Leaflet pages in map.output_dir.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: append([]string{"all"}, mapNames...),
	RunE: func(cmd *cobra.Command, args []string) error {
		which := "all"
		if len(args) == 1 {
			which = args[0]
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.Map.OutputDir = out
		}
		if err := cfg.Validate("render"); err != nil {
			return err
		}
		return runRender(cmd.Context(), cfg, which, os.Stdout)
	},
}

func init() {
	renderCmd.Flags().String("out", "", "output directory (default from config)")
	rootCmd.AddCommand(renderCmd)
}

// runRender writes the selected maps and prints each path to w.
func runRender(ctx context.Context, c *config.Config, which string, w io.Writer) error {
	selected, err := selectMaps(which)
	if err != nil {
		return err
	}

	want := layers{}
	for _, name := range selected {
		switch name {
		case "places":
			want.places = true
		case "roads":
			want.roads = true
		}
	}
	data, err := loadDataset(ctx, c, want)
	if err != nil {
		return err
	}
	builder, err := newBuilder(c)
	if err != nil {
		return err
	}

	opts := engineOptions(c)
	m := proximity.NewMatrix(data.Schemes)
	view, placesView, roadsView := mapViews(c)

	for _, name := range selected {
		var (
			page *render.Page
			file string
		)
		switch name {
		case "schemes":
			page, err = builder.SchemesMap(data.Schemes, view)
			file = render.SchemesFile
		case "proximity":
			page, err = builder.ProximityMap(data.Schemes, m.Links(opts), c.Proximity.WithinKM, view)
			file = render.ProximityFile
		case "places":
			page, err = builder.PlacesMap(data.Places, placesView)
			file = render.PlacesFile
		case "roads":
			roads := network.FilterMajor(data.Roads, c.Roads.MajorTypes)
			page, err = builder.RoadNetworkMap(roads, data.Schemes, m.Links(opts), m.Buffers(opts), render.CenterOf(data.Schemes, roadsView))
			file = render.RoadsFile
		}
		if err != nil {
			return eris.Wrapf(err, "render %s", name)
		}
		path, err := page.WriteFile(c.Map.OutputDir, file)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, path)
	}
	return nil
}

func selectMaps(which string) ([]string, error) {
	if which == "" || which == "all" {
		return mapNames, nil
	}
	for _, name := range mapNames {
		if name == which {
			return []string{name}, nil
		}
	}
	return nil, eris.Errorf("unknown map %q (want one of schemes, proximity, places, roads, all)", which)
}
