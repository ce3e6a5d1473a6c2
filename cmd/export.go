package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/export"
	"github.com/mwhydro/hydromap/internal/proximity"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write filtered scheme rows as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		statuses, _ := cmd.Flags().GetStringSlice("status")
		name, _ := cmd.Flags().GetString("name")
		out, _ := cmd.Flags().GetString("out")

		criteria, err := proximity.ParseCriteria(statuses, name)
		if err != nil {
			return err
		}
		return runExport(cmd.Context(), cfg, criteria, out, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringSlice("status", nil, "statuses to keep (repeatable)")
	exportCmd.Flags().String("name", "", "case-insensitive scheme name filter")
	exportCmd.Flags().String("out", export.SchemesCSVFile, "output CSV path")
	rootCmd.AddCommand(exportCmd)
}

// runExport writes the schemes matching criteria to path.
func runExport(ctx context.Context, c *config.Config, criteria proximity.Criteria, path string, w io.Writer) error {
	data, err := loadDataset(ctx, c, layers{})
	if err != nil {
		return err
	}

	schemes := proximity.Filter(data.Schemes, criteria)
	if err := writeFile(filepath.Clean(path), func(out io.Writer) error {
		return export.WriteSchemesCSV(out, schemes)
	}); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "%d of %d schemes written to %s\n", len(schemes), len(data.Schemes), path)
	return nil
}
