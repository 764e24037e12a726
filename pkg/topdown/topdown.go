// Package topdown implements the agglomerative splitter: starting from the
// trivial 1-cluster partition, it repeatedly snowball-splits the cluster
// whose binary split improves (or only marginally worsens) the MDL score
// the most, until K* clusters are reached or no split is tolerated.
package topdown

import (
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/sbp-clustering/pkg/block"
	"github.com/gilchrisn/sbp-clustering/pkg/config"
	"github.com/gilchrisn/sbp-clustering/pkg/graph"
	"github.com/gilchrisn/sbp-clustering/pkg/refine"
	"github.com/gilchrisn/sbp-clustering/pkg/rng"
	"github.com/gilchrisn/sbp-clustering/pkg/sbperr"
	"github.com/gilchrisn/sbp-clustering/pkg/subgraph"
)

// binarySplitMinSize is the smallest subgraph a snowball split will attempt
// to bipartition; anything smaller stays a single cluster.
const binarySplitMinSize = 2

// Run partitions g top-down into at most kStar clusters, writing the final
// partition into bm (which is reset to the trivial partition on entry).
// Neither top-down nor bottom-up guarantees K == kStar: top-down may stall
// with K < kStar when no remaining cluster admits a tolerated split.
func Run(g *graph.Graph, bm *block.BlockModel, kStar int, proposalsPerSplit int, cfg *config.Config, log zerolog.Logger) error {
	if g == nil {
		return sbperr.ErrNilGraph
	}
	if kStar < 1 {
		return sbperr.ErrInvalidTargetClusters
	}
	if err := g.Validate(); err != nil {
		return err
	}

	n := g.VertexCount()
	if n == 0 {
		*bm = *block.New(g, 0)
		return nil
	}

	*bm = *block.NewSingleCluster(g)
	if n < binarySplitMinSize || kStar == 1 {
		return nil
	}

	workers := cfg.NumWorkers()

	for bm.K < kStar {
		subgraphs := subgraph.ExtractAll(bm, workers)

		type candidate struct {
			deltaH     float64
			clusterIdx int
			split      *block.BlockModel
		}
		var candidates []candidate

		for i, sub := range subgraphs {
			if sub.Graph.VertexCount() < binarySplitMinSize {
				continue
			}

			single := block.NewSingleCluster(sub.Graph)
			hBefore := block.ComputeH(single)

			split := connectivitySnowballSplit(sub.Graph, proposalsPerSplit, workers)
			hAfter := block.ComputeH(split)

			tolerance := cfg.SplitTolerance() * math.Abs(hBefore)
			if hAfter < hBefore+tolerance {
				candidates = append(candidates, candidate{
					deltaH:     hAfter - hBefore,
					clusterIdx: i,
					split:      split,
				})
			}
		}

		if len(candidates) == 0 {
			log.Debug().Int("k", bm.K).Msg("top-down split: no tolerated candidate, stopping")
			break
		}

		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.deltaH < best.deltaH {
				best = c
			}
		}

		sub := subgraphs[best.clusterIdx]
		newID := bm.GrowByOne()
		for local, assign := range best.split.Assignment {
			if assign == 1 {
				bm.Assignment[sub.Mapping[local]] = newID
			}
		}
		bm.UpdateMatrix(workers)

		log.Info().
			Int("k", bm.K).
			Int("split_cluster", best.clusterIdx).
			Float64("delta_h", best.deltaH).
			Msg("top-down split accepted")

		refine.RunReplicated(bm, cfg.MCMCRefinementMultiplier()*n, workers, 0, log)
	}

	return nil
}

// connectivitySnowballSplit proposes `proposals` independent binary splits
// of sub in parallel and keeps the one with the lowest H.
func connectivitySnowballSplit(sub *graph.Graph, proposals, workers int) *block.BlockModel {
	if sub.VertexCount() < binarySplitMinSize {
		bm := block.New(sub, 1)
		for i := range bm.Assignment {
			bm.Assignment[i] = 0
		}
		bm.UpdateMatrix(1)
		return bm
	}

	if workers < 1 {
		workers = 1
	}
	if workers > proposals {
		workers = proposals
	}

	type result struct {
		bm *block.BlockModel
		h  float64
	}

	jobs := make(chan int, proposals)
	results := make(chan result, proposals)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			src := rng.FromEntropy(workerID)
			for range jobs {
				bm := proposeSplit(sub, src)
				results <- result{bm: bm, h: block.ComputeH(bm)}
			}
		}(w)
	}

	for p := 0; p < proposals; p++ {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var best *block.BlockModel
	bestH := math.MaxFloat64
	for r := range results {
		if r.h < bestH {
			bestH = r.h
			best = r.bm
		}
	}
	return best
}

// proposeSplit grows a single binary-split candidate: seed two random
// vertices into parts 0 and 1, then greedily assign the rest in random
// order to whichever part has more already-assigned neighbors, breaking
// ties uniformly at random.
func proposeSplit(sub *graph.Graph, src *rng.Source) *block.BlockModel {
	n := sub.VertexCount()
	bm := block.New(sub, 2)

	seed1 := src.Intn(n)
	seed2 := src.Intn(n)
	for seed2 == seed1 {
		seed2 = src.Intn(n)
	}

	assignment := make([]int32, n)
	for i := range assignment {
		assignment[i] = block.NullCluster
	}
	assignment[seed1] = 0
	assignment[seed2] = 1

	var unassigned []int
	for i := 0; i < n; i++ {
		if assignment[i] == block.NullCluster {
			unassigned = append(unassigned, i)
		}
	}
	src.Shuffle(len(unassigned), func(i, j int) {
		unassigned[i], unassigned[j] = unassigned[j], unassigned[i]
	})

	for _, v := range unassigned {
		var score0, score1 int
		for _, nb := range sub.Neighbors(v) {
			switch assignment[nb] {
			case 0:
				score0++
			case 1:
				score1++
			}
		}
		switch {
		case score0 > score1:
			assignment[v] = 0
		case score1 > score0:
			assignment[v] = 1
		default:
			assignment[v] = int32(src.Intn(2))
		}
	}

	bm.Assignment = assignment
	bm.UpdateMatrix(1)
	return bm
}
