package proximity

import (
	"fmt"
	"strings"

	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/model"
)

// FormatNeighbor renders one neighbour as "name (status): 12.34 km".
func FormatNeighbor(n model.Neighbor) string {
	return fmt.Sprintf("%s (%s): %.2f km", n.Scheme, n.Status, n.DistanceKM)
}

// FormatNeighbors joins the rendered neighbours with ", ".
func FormatNeighbors(neighbors []model.Neighbor) string {
	parts := make([]string, len(neighbors))
	for i, n := range neighbors {
		parts[i] = FormatNeighbor(n)
	}
	return strings.Join(parts, ", ")
}

// Link is a line drawn between two schemes on the proximity maps.
type Link struct {
	From       model.Scheme
	To         model.Scheme
	DistanceKM float64
	Class      string
}

// Links returns one link per unordered scheme pair, classified against
// opts.WithinKM.
func (m *Matrix) Links(opts Options) []Link {
	n := len(m.schemes)
	if n < 2 {
		return nil
	}
	within := opts.withinKM()
	out := make([]Link, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := m.Distance(i, j)
			out = append(out, Link{
				From:       m.schemes[i],
				To:         m.schemes[j],
				DistanceKM: d,
				Class:      geo.ClassifyDistance(d, within),
			})
		}
	}
	return out
}
