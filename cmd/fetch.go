package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the input layers",
	Long:  "Downloads every layer that has a URL under data.sources to its data path, retrying transient failures.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFetch(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

// layerSources pairs each configured URL with its local path.
func layerSources(c *config.Config) []fetcher.Source {
	return []fetcher.Source{
		{Name: "schemes", URL: c.Data.Sources.Schemes, Path: c.Data.Schemes},
		{Name: "places", URL: c.Data.Sources.Places, Path: c.Data.Places},
		{Name: "roads", URL: c.Data.Sources.Roads, Path: c.Data.Roads},
	}
}

func runFetch(ctx context.Context, c *config.Config, w io.Writer) error {
	f := fetcher.New(fetcher.Options{
		Timeout:     c.Fetch.Timeout,
		MaxRetries:  c.Fetch.MaxRetries,
		RatePerHost: c.Fetch.RatePerHost,
	})

	results, err := fetcher.FetchAll(ctx, f, layerSources(c))
	if err != nil {
		return err
	}
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s: %d bytes -> %s\n", r.Name, r.Bytes, r.Path)
	}
	return nil
}
