package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/geo"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hydromap",
	Short: "Hydropower proximity analysis and maps for Malawi",
	Long:  "Loads hydropower schemes, places and roads, computes distances between schemes and renders Leaflet maps, tables and a dashboard.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		applyLayerFlags(cmd, c)

		if err := config.InitLogger(c.Log); err != nil {
			return err
		}

		// Reject a bad projection before any layer is read.
		if _, err := geo.NewTransformer(c.Projection.Source, c.Projection.Auto); err != nil {
			return eris.Wrap(err, "projection.source")
		}

		zap.L().Debug("config loaded",
			zap.String("component", "cli"),
			zap.String("command", cmd.CommandPath()),
			zap.String("schemes", c.Data.Schemes),
			zap.String("store", c.Store.Driver),
		)
		cfg = c
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("schemes", "", "hydropower schemes GeoJSON (overrides data.schemes)")
	pf.String("places", "", "places GeoJSON (overrides data.places)")
	pf.String("roads", "", "roads GeoJSON (overrides data.roads)")
	pf.String("log-level", "", "log level (overrides log.level)")
}

// applyLayerFlags copies the persistent flags that were set onto c.
func applyLayerFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	set := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	set("schemes", &c.Data.Schemes)
	set("places", &c.Data.Places)
	set("roads", &c.Data.Roads)
	set("log-level", &c.Log.Level)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
