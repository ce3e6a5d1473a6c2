// Package proximity computes pairwise distances between hydropower schemes
// and aggregates them per scheme and per status pair.
package proximity

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/model"
)

// Defaults used when Options fields are zero.
const (
	DefaultLimit    = 20
	DefaultWithinKM = 50.0
	DefaultBufferKM = 10.0
)

// Options tunes the engine.
type Options struct {
	// Limit caps the number of per-scheme rows. Zero returns every row.
	Limit int
	// WithinKM is the inclusive threshold counted by StatusPairs and used to
	// classify neighbour links as near.
	WithinKM float64
	// BufferKM is the buffer radius used by Buffers.
	BufferKM float64
	// Segments is the number of vertices of each buffer ring.
	Segments int
}

// DefaultOptions returns the options the maps and tables use by default.
func DefaultOptions() Options {
	return Options{
		Limit:    DefaultLimit,
		WithinKM: DefaultWithinKM,
		BufferKM: DefaultBufferKM,
		Segments: geo.DefaultBufferSegments,
	}
}

func (o Options) withinKM() float64 {
	if o.WithinKM <= 0 {
		return DefaultWithinKM
	}
	return o.WithinKM
}

func (o Options) bufferKM() float64 {
	if o.BufferKM <= 0 {
		return DefaultBufferKM
	}
	return o.BufferKM
}

// Pair is the distance from one scheme to another.
type Pair struct {
	From       model.Scheme
	To         model.Scheme
	DistanceKM float64
}

// Matrix holds the distance between every two schemes. Each unordered pair
// is computed once and stored in both directions.
type Matrix struct {
	schemes []model.Scheme
	dist    []float64
}

// NewMatrix computes the distance matrix of schemes.
func NewMatrix(schemes []model.Scheme) *Matrix {
	n := len(schemes)
	m := &Matrix{schemes: schemes, dist: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := schemes[i], schemes[j]
			d := geo.DistanceKM(a.Longitude, a.Latitude, b.Longitude, b.Latitude)
			m.dist[i*n+j] = d
			m.dist[j*n+i] = d
		}
	}
	return m
}

// Len returns the number of schemes.
func (m *Matrix) Len() int { return len(m.schemes) }

// Distance returns the distance in km between schemes i and j.
func (m *Matrix) Distance(i, j int) float64 {
	return m.dist[i*len(m.schemes)+j]
}

// Pairs returns every directed pair (N*(N-1) entries), grouped by source
// scheme in input order. Self-pairs are excluded.
func (m *Matrix) Pairs() []Pair {
	n := len(m.schemes)
	if n < 2 {
		return nil
	}
	out := make([]Pair, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			out = append(out, Pair{From: m.schemes[i], To: m.schemes[j], DistanceKM: m.Distance(i, j)})
		}
	}
	return out
}

// Pairs returns the distance from every scheme to every other scheme.
func Pairs(schemes []model.Scheme) []Pair {
	return NewMatrix(schemes).Pairs()
}

// Rows aggregates the matrix per scheme. Statistics and neighbour
// distances are rounded to two decimals. Rows are ordered by minimum
// distance, then name; opts.Limit caps the result.
func (m *Matrix) Rows(opts Options) []model.ProximityRow {
	n := len(m.schemes)
	rows := make([]model.ProximityRow, 0, n)

	for i, s := range m.schemes {
		row := model.ProximityRow{Scheme: s.Name, Status: s.Status, Neighbors: make([]model.Neighbor, 0, n-1)}
		if n > 1 {
			var sum float64
			lo, hi := math.Inf(1), 0.0
			for j, other := range m.schemes {
				if i == j {
					continue
				}
				d := m.Distance(i, j)
				sum += d
				if d < lo {
					lo = d
				}
				if d > hi {
					hi = d
				}
				row.Neighbors = append(row.Neighbors, model.Neighbor{
					Scheme:     other.Name,
					Status:     other.Status,
					DistanceKM: d,
				})
			}
			row.MinDistanceKM = geo.RoundKM(lo)
			row.AvgDistanceKM = geo.RoundKM(sum / float64(n-1))
			row.MaxDistanceKM = geo.RoundKM(hi)
		}

		sort.SliceStable(row.Neighbors, func(a, b int) bool {
			na, nb := row.Neighbors[a], row.Neighbors[b]
			if na.DistanceKM != nb.DistanceKM {
				return na.DistanceKM < nb.DistanceKM
			}
			return na.Scheme < nb.Scheme
		})
		for k := range row.Neighbors {
			row.Neighbors[k].DistanceKM = geo.RoundKM(row.Neighbors[k].DistanceKM)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].MinDistanceKM != rows[b].MinDistanceKM {
			return rows[a].MinDistanceKM < rows[b].MinDistanceKM
		}
		return rows[a].Scheme < rows[b].Scheme
	})

	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows
}

// StatusRows aggregates every directed pair whose statuses differ, keyed by
// (status1, status2) and ordered by status1 then status2.
func (m *Matrix) StatusRows(opts Options) []model.StatusProximityRow {
	type key struct{ s1, s2 model.Status }
	type acc struct {
		lo, hi, sum float64
		count       int
		within      int
	}

	within := opts.withinKM()
	groups := make(map[key]*acc)
	for i, a := range m.schemes {
		for j, b := range m.schemes {
			if i == j || a.Status == b.Status {
				continue
			}
			d := m.Distance(i, j)
			k := key{a.Status, b.Status}
			g, ok := groups[k]
			if !ok {
				g = &acc{lo: d, hi: d}
				groups[k] = g
			}
			if d < g.lo {
				g.lo = d
			}
			if d > g.hi {
				g.hi = d
			}
			g.sum += d
			g.count++
			if d <= within {
				g.within++
			}
		}
	}

	rows := make([]model.StatusProximityRow, 0, len(groups))
	for k, g := range groups {
		rows = append(rows, model.StatusProximityRow{
			Status1:          k.s1,
			Status2:          k.s2,
			MinDistanceKM:    geo.RoundKM(g.lo),
			AvgDistanceKM:    geo.RoundKM(g.sum / float64(g.count)),
			MaxDistanceKM:    geo.RoundKM(g.hi),
			TotalComparisons: g.count,
			WithinKM:         within,
			WithinCount:      g.within,
		})
	}
	sort.Slice(rows, func(a, b int) bool {
		if rows[a].Status1 != rows[b].Status1 {
			return rows[a].Status1 < rows[b].Status1
		}
		return rows[a].Status2 < rows[b].Status2
	})
	return rows
}

// Compute returns the per-scheme proximity rows.
func Compute(schemes []model.Scheme, opts Options) []model.ProximityRow {
	return NewMatrix(schemes).Rows(opts)
}

// StatusPairs returns the status-pair aggregates.
func StatusPairs(schemes []model.Scheme, opts Options) []model.StatusProximityRow {
	return NewMatrix(schemes).StatusRows(opts)
}

// Result bundles both tables computed from one distance matrix.
type Result struct {
	Rows        []model.ProximityRow
	StatusPairs []model.StatusProximityRow
}

// Analyze computes the per-scheme and status-pair tables in one pass over
// the distance matrix.
func Analyze(schemes []model.Scheme, opts Options) Result {
	m := NewMatrix(schemes)
	res := Result{Rows: m.Rows(opts), StatusPairs: m.StatusRows(opts)}

	zap.L().Debug("proximity computed",
		zap.String("component", "proximity"),
		zap.Int("schemes", len(schemes)),
		zap.Int("rows", len(res.Rows)),
		zap.Int("status_pairs", len(res.StatusPairs)),
	)
	return res
}
