// Package network builds an undirected graph from road polylines and
// reports its size and composition.
package network

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/geo"
	"github.com/mwhydro/hydromap/internal/model"
)

// DefaultMajorTypes are the highway classes kept for the network map.
var DefaultMajorTypes = []string{"primary", "secondary", "tertiary"}

// TypeCount is the number of road features of one highway type.
type TypeCount struct {
	Highway string `json:"highway"`
	Count   int    `json:"count"`
}

// Metrics summarises a road network.
type Metrics struct {
	Roads         int         `json:"roads"`
	Segments      int         `json:"segments"`
	Nodes         int         `json:"nodes"`
	Edges         int         `json:"edges"`
	Density       float64     `json:"density"`
	TotalLengthKM float64     `json:"total_length_km"`
	AvgLengthKM   float64     `json:"avg_length_km"`
	Types         []TypeCount `json:"types"`
}

// FilterMajor keeps roads whose highway tag is one of types (case-insensitive).
// An empty types slice falls back to DefaultMajorTypes.
func FilterMajor(roads []model.Road, types []string) []model.Road {
	if len(types) == 0 {
		types = DefaultMajorTypes
	}
	keep := make(map[string]bool, len(types))
	for _, t := range types {
		keep[strings.ToLower(strings.TrimSpace(t))] = true
	}

	out := make([]model.Road, 0, len(roads))
	for _, r := range roads {
		if keep[strings.ToLower(r.Highway)] {
			out = append(out, r)
		}
	}
	return out
}

type edge struct{ a, b [2]float64 }

func newEdge(p, q [2]float64) edge {
	if q[0] < p[0] || (q[0] == p[0] && q[1] < p[1]) {
		p, q = q, p
	}
	return edge{p, q}
}

// Graph is an undirected simple graph whose nodes are distinct coordinates
// and whose edges join consecutive coordinates of a polyline.
type Graph struct {
	nodes map[[2]float64]struct{}
	edges map[edge]float64
}

// Build constructs the graph of roads. Zero-length steps add no edge.
func Build(roads []model.Road) *Graph {
	g := &Graph{
		nodes: make(map[[2]float64]struct{}),
		edges: make(map[edge]float64),
	}
	for _, r := range roads {
		for _, line := range r.Lines {
			for i, pt := range line {
				g.nodes[pt] = struct{}{}
				if i == 0 || line[i-1] == pt {
					continue
				}
				prev := line[i-1]
				e := newEdge(prev, pt)
				if _, ok := g.edges[e]; !ok {
					g.edges[e] = geo.DistanceKM(prev[0], prev[1], pt[0], pt[1])
				}
			}
		}
	}
	return g
}

// NumNodes returns the number of distinct coordinates.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of distinct undirected edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Density returns 2E / (N(N-1)), zero for graphs with fewer than two nodes.
func (g *Graph) Density() float64 {
	n := float64(len(g.nodes))
	if n < 2 {
		return 0
	}
	return 2 * float64(len(g.edges)) / (n * (n - 1))
}

// LengthKM returns the summed great-circle length of all edges.
func (g *Graph) LengthKM() float64 {
	var total float64
	for _, d := range g.edges {
		total += d
	}
	return total
}

// Analyze filters roads to the major types and computes the metrics.
func Analyze(roads []model.Road, majorTypes []string) Metrics {
	major := FilterMajor(roads, majorTypes)
	g := Build(major)

	m := Metrics{
		Roads:   len(major),
		Nodes:   g.NumNodes(),
		Edges:   g.NumEdges(),
		Density: g.Density(),
		Types:   typeDistribution(major),
	}
	for _, r := range major {
		m.Segments += len(r.Lines)
	}
	m.TotalLengthKM = geo.RoundKM(g.LengthKM())
	if m.Edges > 0 {
		m.AvgLengthKM = geo.RoundKM(g.LengthKM() / float64(m.Edges))
	}

	zap.L().Debug("road network analysed",
		zap.String("component", "network"),
		zap.Int("roads", m.Roads),
		zap.Int("nodes", m.Nodes),
		zap.Int("edges", m.Edges),
	)
	return m
}

// typeDistribution counts roads per highway type, most frequent first.
func typeDistribution(roads []model.Road) []TypeCount {
	counts := make(map[string]int)
	for _, r := range roads {
		counts[strings.ToLower(r.Highway)]++
	}
	out := make([]TypeCount, 0, len(counts))
	for h, c := range counts {
		out = append(out, TypeCount{Highway: h, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Highway < out[j].Highway
	})
	return out
}
