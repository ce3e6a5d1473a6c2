package render

import (
	"image/color"
	"io"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mwhydro/hydromap/internal/model"
	"github.com/mwhydro/hydromap/internal/proximity"
)

// Chart dimensions.
const (
	ChartWidth  = 8 * vg.Inch
	ChartHeight = 5 * vg.Inch
)

// StatusChart writes a PNG bar chart of the number of schemes per status.
func StatusChart(w io.Writer, schemes []model.Scheme) error {
	counts := proximity.CountByStatus(schemes)

	values := make(plotter.Values, len(model.Statuses))
	labels := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		values[i] = float64(counts[s])
		labels[i] = string(s)
	}

	p := plot.New()
	p.Title.Text = "Hydropower schemes by status"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Schemes"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return eris.Wrap(err, "render: bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 30, G: 144, B: 255, A: 255}
	p.Add(bars)
	p.NominalX(labels...)

	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return eris.Wrap(err, "render: chart writer")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return eris.Wrap(err, "render: write chart")
	}
	return nil
}
