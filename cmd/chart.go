package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/render"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write the scheme status distribution chart",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")
		return runChart(cmd.Context(), cfg, out, cmd.OutOrStdout())
	},
}

func init() {
	chartCmd.Flags().String("out", "status_distribution.png", "output PNG path")
	rootCmd.AddCommand(chartCmd)
}

func runChart(ctx context.Context, c *config.Config, path string, w io.Writer) error {
	data, err := loadDataset(ctx, c, layers{})
	if err != nil {
		return err
	}
	if err := writeFile(path, func(out io.Writer) error {
		return render.StatusChart(out, data.Schemes)
	}); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, path)
	return nil
}
