package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/config"
	"github.com/mwhydro/hydromap/internal/export"
	"github.com/mwhydro/hydromap/internal/model"
	"github.com/mwhydro/hydromap/internal/proximity"
)

// proximityFlags holds the output options of the proximity command.
type proximityFlags struct {
	csvDir string
	xlsx   string
	save   bool
}

var proximityCmd = &cobra.Command{
	Use:   "proximity",
	Short: "Compute and print the proximity tables",
	Long:  "Computes nearest-neighbour statistics per scheme and distance statistics per status pair, prints both tables and optionally exports or saves them.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("limit") {
			cfg.Proximity.Limit, _ = cmd.Flags().GetInt("limit")
		}
		if err := cfg.Validate("render"); err != nil {
			return err
		}

		var f proximityFlags
		f.csvDir, _ = cmd.Flags().GetString("csv")
		f.xlsx, _ = cmd.Flags().GetString("xlsx")
		f.save, _ = cmd.Flags().GetBool("save")

		return runProximity(cmd.Context(), cfg, f, os.Stdout)
	},
}

func init() {
	proximityCmd.Flags().Int("limit", 20, "number of scheme rows to keep (0 = all)")
	proximityCmd.Flags().String("csv", "", "directory to write proximity.csv and status_proximity.csv")
	proximityCmd.Flags().String("xlsx", "", "path of an XLSX workbook to write")
	proximityCmd.Flags().Bool("save", false, "save the run to the result store")
	rootCmd.AddCommand(proximityCmd)
}

// runProximity computes both tables, prints them to w and writes the
// requested outputs.
func runProximity(ctx context.Context, c *config.Config, f proximityFlags, w io.Writer) error {
	data, err := loadDataset(ctx, c, layers{})
	if err != nil {
		return err
	}

	res := proximity.Analyze(data.Schemes, engineOptions(c))

	formatProximityTable(w, res.Rows)
	_, _ = fmt.Fprintln(w)
	formatStatusTable(w, res.StatusPairs)

	if f.csvDir != "" {
		if err := writeProximityCSVs(f.csvDir, res); err != nil {
			return err
		}
	}

	if f.xlsx != "" {
		if err := writeWorkbook(f.xlsx, export.Workbook{
			Schemes:     data.Schemes,
			Proximity:   res.Rows,
			StatusPairs: res.StatusPairs,
		}); err != nil {
			return err
		}
	}

	if f.save {
		st, err := initStore(ctx, c)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.SaveRun(ctx, model.Run{
			Schemes:     data.Schemes,
			Proximity:   res.Rows,
			StatusPairs: res.StatusPairs,
		})
		if err != nil {
			return eris.Wrap(err, "proximity save")
		}
		zap.L().Info("run saved", zap.String("run_id", run.ID), zap.Int("schemes", run.SchemeCount))
		_, _ = fmt.Fprintf(w, "\nSaved run %s\n", run.ID)
	}

	return nil
}

func writeProximityCSVs(dir string, res proximity.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create %s", dir)
	}
	if err := writeFile(filepath.Join(dir, "proximity.csv"), func(w io.Writer) error {
		return export.WriteProximityCSV(w, res.Rows)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "status_proximity.csv"), func(w io.Writer) error {
		return export.WriteStatusCSV(w, res.StatusPairs)
	})
}

func writeWorkbook(path string, wb export.Workbook) error {
	return writeFile(path, func(w io.Writer) error {
		return export.WriteXLSX(w, wb)
	})
}

// writeFile creates path and hands it to fn, closing it afterwards.
func writeFile(path string, fn func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := fn(out); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "write %s", path)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "close %s", path)
	}
	zap.L().Info("file written", zap.String("path", path))
	return nil
}

// formatProximityTable writes the per-scheme table to out.
func formatProximityTable(out io.Writer, rows []model.ProximityRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCHEME\tSTATUS\tMIN_KM\tAVG_KM\tMAX_KM\tNEAREST")
	_, _ = fmt.Fprintln(w, "------\t------\t------\t------\t------\t-------")

	for _, r := range rows {
		nearest := ""
		if len(r.Neighbors) > 0 {
			nearest = proximity.FormatNeighbor(r.Neighbors[0])
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%s\n",
			r.Scheme,
			r.Status,
			r.MinDistanceKM,
			r.AvgDistanceKM,
			r.MaxDistanceKM,
			nearest,
		)
	}
	_ = w.Flush()
}

// formatStatusTable writes the status pair table to out.
func formatStatusTable(out io.Writer, rows []model.StatusProximityRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	within := proximity.DefaultWithinKM
	if len(rows) > 0 && rows[0].WithinKM > 0 {
		within = rows[0].WithinKM
	}
	_, _ = fmt.Fprintf(w, "STATUS1\tSTATUS2\tMIN_KM\tAVG_KM\tMAX_KM\tPAIRS\tWITHIN_%gKM\n", within)
	_, _ = fmt.Fprintln(w, "-------\t-------\t------\t------\t------\t-----\t------")

	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%d\t%d\n",
			r.Status1,
			r.Status2,
			r.MinDistanceKM,
			r.AvgDistanceKM,
			r.MaxDistanceKM,
			r.TotalComparisons,
			r.WithinCount,
		)
	}
	_ = w.Flush()
}
