// Package subgraph projects a cluster of a BlockModel onto a standalone
// Graph with local vertex numbering, the operation the top-down splitter
// runs once per cluster before proposing a binary split.
package subgraph

import (
	"sync"

	"github.com/gilchrisn/sbp-clustering/pkg/block"
	"github.com/gilchrisn/sbp-clustering/pkg/graph"
)

// SubGraph is a cluster's induced subgraph plus the local-to-global vertex
// mapping needed to translate results back onto the parent graph.
type SubGraph struct {
	Graph   *graph.Graph
	Mapping []int32 // Mapping[local] = global vertex id
}

// ExtractAll builds one SubGraph per cluster of bm, fanning the K
// extractions out across workers goroutines — each writes into its own
// disjoint slot of the result slice, so no synchronization is needed beyond
// the final barrier.
func ExtractAll(bm *block.BlockModel, workers int) []SubGraph {
	if bm == nil || bm.G == nil || bm.K <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > bm.K {
		workers = bm.K
	}

	members := make([][]int32, bm.K)
	for v, c := range bm.Assignment {
		if c < 0 || int(c) >= bm.K {
			continue
		}
		members[c] = append(members[c], int32(v))
	}

	out := make([]SubGraph, bm.K)

	jobs := make(chan int, bm.K)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				out[c] = extractOne(bm, members[c])
			}
		}()
	}
	for c := 0; c < bm.K; c++ {
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	return out
}

func extractOne(bm *block.BlockModel, mapping []int32) SubGraph {
	n := len(mapping)
	globalToLocal := make(map[int32]int32, n)
	for local, global := range mapping {
		globalToLocal[global] = int32(local)
	}

	var edges [][2]int
	for local, global := range mapping {
		cluster := bm.Assignment[global]
		for _, neighbor := range bm.G.Neighbors(int(global)) {
			if bm.Assignment[neighbor] != cluster {
				continue
			}
			nLocal, ok := globalToLocal[neighbor]
			if !ok {
				continue
			}
			if int(nLocal) > local {
				edges = append(edges, [2]int{local, int(nLocal)})
			}
		}
	}

	g, err := graph.NewFromEdges(n, edges)
	if err != nil {
		// Construction from an already-validated parent graph cannot
		// produce an invalid subgraph; defend anyway with an empty one.
		g = graph.New(n)
	}

	return SubGraph{Graph: g, Mapping: mapping}
}
