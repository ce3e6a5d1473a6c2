package proximity

import (
	"sort"

	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/model"
)

// Buffers draws a circle of opts.BufferKM around every scheme and lists the
// other schemes whose distance is within that radius, nearest first.
func (m *Matrix) Buffers(opts Options) []model.BufferRow {
	radius := opts.bufferKM()
	rows := make([]model.BufferRow, 0, len(m.schemes))

	for i, s := range m.schemes {
		type hit struct {
			name string
			d    float64
		}
		var hits []hit
		for j, other := range m.schemes {
			if i == j {
				continue
			}
			if d := m.Distance(i, j); d <= radius {
				hits = append(hits, hit{other.Name, d})
			}
		}
		sort.Slice(hits, func(a, b int) bool {
			if hits[a].d != hits[b].d {
				return hits[a].d < hits[b].d
			}
			return hits[a].name < hits[b].name
		})

		within := make([]string, len(hits))
		for k, h := range hits {
			within[k] = h.name
		}

		rows = append(rows, model.BufferRow{
			Scheme:        s.Name,
			Status:        s.Status,
			RadiusKM:      radius,
			Ring:          geo.BufferRing(s.Longitude, s.Latitude, radius, opts.Segments),
			SchemesWithin: within,
		})
	}
	return rows
}

// Buffers returns a buffer row per scheme in input order.
func Buffers(schemes []model.Scheme, opts Options) []model.BufferRow {
	return NewMatrix(schemes).Buffers(opts)
}
