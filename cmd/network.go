package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/network"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Print road network metrics",
	Long:  "Filters the road layer to the major highway types and prints graph metrics: nodes, edges, density, lengths and the type distribution.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if types, _ := cmd.Flags().GetStringSlice("types"); len(types) > 0 {
			cfg.Roads.MajorTypes = types
		}
		return runNetwork(cmd.Context(), cfg, os.Stdout)
	},
}

func init() {
	networkCmd.Flags().StringSlice("types", nil, "highway types to keep (default from config)")
	rootCmd.AddCommand(networkCmd)
}

func runNetwork(ctx context.Context, c *config.Config, w io.Writer) error {
	data, err := loadDataset(ctx, c, layers{roads: true})
	if err != nil {
		return err
	}
	formatMetrics(w, network.Analyze(data.Roads, c.Roads.MajorTypes))
	return nil
}

// formatMetrics writes the network metrics to out.
func formatMetrics(out io.Writer, m network.Metrics) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Roads:\t%d\n", m.Roads)
	_, _ = fmt.Fprintf(w, "Segments:\t%d\n", m.Segments)
	_, _ = fmt.Fprintf(w, "Nodes:\t%d\n", m.Nodes)
	_, _ = fmt.Fprintf(w, "Edges:\t%d\n", m.Edges)
	_, _ = fmt.Fprintf(w, "Density:\t%.6f\n", m.Density)
	_, _ = fmt.Fprintf(w, "Total length:\t%.2f km\n", m.TotalLengthKM)
	_, _ = fmt.Fprintf(w, "Avg edge length:\t%.2f km\n", m.AvgLengthKM)
	if len(m.Types) > 0 {
		_, _ = fmt.Fprintln(w, "Types:")
		for _, t := range m.Types {
			_, _ = fmt.Fprintf(w, "  %s\t%d\n", t.Highway, t.Count)
		}
	}
	_ = w.Flush()
}
