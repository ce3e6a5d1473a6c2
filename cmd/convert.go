package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mwhydro/hydromap/internal/loader"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in.shp> <out.geojson>",
	Short: "Convert a shapefile to GeoJSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := loader.ConvertShapefile(args[0], args[1])
		if err != nil {
			return eris.Wrap(err, "convert")
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d features written to %s\n", n, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
