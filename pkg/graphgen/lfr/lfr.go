// Package lfr generates LFR-style benchmark graphs: power-law degree and
// community-size distributions joined by a mixing parameter that controls
// what fraction of each vertex's edges cross its planted community.
package lfr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/gilchrisn/sbp-clustering/pkg/graph"
	"github.com/gilchrisn/sbp-clustering/pkg/rng"
)

// Config describes one LFR instance.
type Config struct {
	N           int
	Tau1        float64 // degree-sequence power-law exponent
	Tau2        float64 // community-size power-law exponent
	Mu          float64 // mixing parameter: fraction of edges that cross communities
	AvgDegree   int
	MinCommSize int
}

// Generate builds a graph and its ground-truth community assignment from
// cfg. The planted community count is not an input: it falls out of how
// many power-law-sized communities are needed to cover N vertices.
func Generate(cfg Config, seed int64) (*graph.Graph, []int32, error) {
	if cfg.N <= 0 || cfg.MinCommSize <= 0 || cfg.AvgDegree <= 0 {
		return nil, nil, fmt.Errorf("lfr graphgen: n=%d avg_degree=%d min_comm_size=%d must be positive",
			cfg.N, cfg.AvgDegree, cfg.MinCommSize)
	}

	r := rng.FromSeed(seed, 0)
	n := cfg.N

	degree := make([]int, n)
	sum := 0
	for i := range degree {
		degree[i] = maxInt(1, samplePowerlaw(1.0, cfg.Tau1, r))
		sum += degree[i]
	}
	meanDeg := float64(sum) / float64(n)
	scale := float64(cfg.AvgDegree) / meanDeg
	for i := range degree {
		degree[i] = maxInt(1, int(float64(degree[i])*scale))
	}

	var commSizes []int
	total := 0
	for total < n {
		s := maxInt(cfg.MinCommSize, samplePowerlaw(float64(cfg.MinCommSize), cfg.Tau2, r))
		commSizes = append(commSizes, s)
		total += s
	}
	commSizes[len(commSizes)-1] -= total - n

	truth := make([]int32, n)
	node := 0
	for c, size := range commSizes {
		for i := 0; i < size && node < n; i++ {
			truth[node] = int32(c)
			node++
		}
	}

	internalStubs := make([][]int, len(commSizes))
	var externalStubs []int
	for i := 0; i < n; i++ {
		kin := int((1 - cfg.Mu) * float64(degree[i]))
		kout := degree[i] - kin
		for k := 0; k < kin; k++ {
			internalStubs[truth[i]] = append(internalStubs[truth[i]], i)
		}
		for k := 0; k < kout; k++ {
			externalStubs = append(externalStubs, i)
		}
	}

	scratch := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		scratch.AddNode(simple.Node(int64(i)))
	}

	for _, stubs := range internalStubs {
		r.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })
		for i := 0; i+1 < len(stubs); i += 2 {
			u, v := stubs[i], stubs[i+1]
			if u != v {
				scratch.SetEdge(simple.Edge{F: simple.Node(int64(u)), T: simple.Node(int64(v))})
			}
		}
	}

	r.Shuffle(len(externalStubs), func(i, j int) { externalStubs[i], externalStubs[j] = externalStubs[j], externalStubs[i] })
	for i := 0; i+1 < len(externalStubs); i += 2 {
		u, v := externalStubs[i], externalStubs[i+1]
		if u != v && truth[u] != truth[v] {
			scratch.SetEdge(simple.Edge{F: simple.Node(int64(u)), T: simple.Node(int64(v))})
		}
	}

	var edges [][2]int
	it := scratch.Edges()
	for it.Next() {
		e := it.Edge()
		edges = append(edges, [2]int{int(e.From().ID()), int(e.To().ID())})
	}

	g, err := graph.NewFromEdges(n, edges)
	if err != nil {
		return nil, nil, fmt.Errorf("lfr graphgen: %w", err)
	}
	return g, truth, nil
}

// samplePowerlaw draws an integer from a bounded power-law distribution with
// exponent tau and lower cutoff xmin, via inverse-CDF sampling.
func samplePowerlaw(xmin, tau float64, r *rng.Source) int {
	u := r.Float64()
	return int(xmin * math.Pow(1-u, -1/(tau-1)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
