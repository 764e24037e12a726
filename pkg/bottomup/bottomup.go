// Package bottomup implements the batched parallel merger: starting from
// every vertex in its own cluster, it repeatedly proposes best-partner
// merges, accepts an independent (conflict-free) batch of them, and falls
// back to a single forced merge when no beneficial merge exists but the
// target cluster count has not yet been reached.
package bottomup

import (
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/sbp-clustering/pkg/block"
	"github.com/gilchrisn/sbp-clustering/pkg/config"
	"github.com/gilchrisn/sbp-clustering/pkg/graph"
	"github.com/gilchrisn/sbp-clustering/pkg/refine"
	"github.com/gilchrisn/sbp-clustering/pkg/sbperr"
)

type mergeProposal struct {
	c1, c2 int32
	deltaH float64
}

// Run partitions g bottom-up into at least kStar clusters, writing the
// final partition into bm (reset to the fine 1-vertex-per-cluster
// partition on entry). Bottom-up forces merges to make progress but halts
// if even a single pair becomes unavailable, so K == kStar is not
// guaranteed.
func Run(g *graph.Graph, bm *block.BlockModel, kStar int, cfg *config.Config, log zerolog.Logger) error {
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
	workers := cfg.NumWorkers()

	if n == 0 {
		*bm = *block.New(g, 0)
		return nil
	}

	*bm = *block.New(g, n)
	for i := range bm.Assignment {
		bm.Assignment[i] = int32(i)
	}
	bm.UpdateMatrix(workers)

	for bm.K > kStar {
		proposals, forced := proposeBatch(bm, kStar, workers)
		if len(proposals) == 0 {
			break
		}

		sort.Slice(proposals, func(i, j int) bool { return proposals[i].deltaH < proposals[j].deltaH })

		clustersToRemove := bm.K - kStar
		maxMerges := int(float64(bm.K) * cfg.MergeBatchSizeFactor())
		if clustersToRemove < maxMerges {
			maxMerges = clustersToRemove
		}
		if maxMerges < 1 {
			maxMerges = 1
		}

		used := make(map[int32]bool)
		var batch []mergeProposal
		for _, p := range proposals {
			if used[p.c1] || used[p.c2] {
				continue
			}
			batch = append(batch, p)
			used[p.c1] = true
			used[p.c2] = true
			if len(batch) >= maxMerges {
				break
			}
		}

		for _, m := range batch {
			for i, c := range bm.Assignment {
				if c == m.c2 {
					bm.Assignment[i] = m.c1
				}
			}
		}

		bm.RenumberDense(workers)

		log.Info().
			Int("k", bm.K).
			Int("merges", len(batch)).
			Bool("forced", forced).
			Msg("bottom-up merge batch applied")

		maybeRefine(bm, kStar, forced, n, cfg, log)

		if bm.K <= kStar {
			break
		}
	}

	if bm.K == kStar {
		iters := cfg.ForcedMergeMCMCMultiplier() * bm.K
		if iters > cfg.MaxBottomUpMCMCIters() {
			iters = cfg.MaxBottomUpMCMCIters()
		}
		refine.RunReplicated(bm, iters, workers, 0, log)
	}

	return nil
}

// proposeBatch collects, in parallel over clusters, each cluster's single
// best connected merge partner with negative ΔH. If none exist but more
// merging is still required, it falls back to scanning every unordered
// pair (no edge requirement) for the single least-bad merge.
func proposeBatch(bm *block.BlockModel, kStar, workers int) ([]mergeProposal, bool) {
	if workers < 1 {
		workers = 1
	}
	if workers > bm.K {
		workers = bm.K
	}

	jobs := make(chan int32, bm.K)
	results := make(chan mergeProposal, bm.K)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if bm.Sizes[c] == 0 {
					continue
				}
				bestDelta := math.MaxFloat64
				bestPartner := block.NullCluster
				for cp := int32(0); int(cp) < bm.K; cp++ {
					if cp == c || bm.Sizes[cp] == 0 {
						continue
					}
					if bm.Matrix[c][cp] == 0 && bm.Matrix[cp][c] == 0 {
						continue
					}
					if d := block.DeltaHMerge(bm, c, cp); d < bestDelta {
						bestDelta = d
						bestPartner = cp
					}
				}
				if bestPartner != block.NullCluster && bestDelta < 0 {
					results <- mergeProposal{c1: c, c2: bestPartner, deltaH: bestDelta}
				}
			}
		}()
	}
	for c := int32(0); int(c) < bm.K; c++ {
		jobs <- c
	}
	close(jobs)
	go func() { wg.Wait(); close(results) }()

	var proposals []mergeProposal
	for p := range results {
		proposals = append(proposals, p)
	}

	if len(proposals) > 0 || bm.K <= kStar {
		return proposals, false
	}

	// Forced-merge fallback: no beneficial, connected merge exists but
	// progress toward kStar is still required.
	bestDelta := math.MaxFloat64
	var bestC1, bestC2 int32 = block.NullCluster, block.NullCluster
	for c1 := int32(0); int(c1) < bm.K; c1++ {
		if bm.Sizes[c1] == 0 {
			continue
		}
		for c2 := c1 + 1; int(c2) < bm.K; c2++ {
			if bm.Sizes[c2] == 0 {
				continue
			}
			if d := block.DeltaHMerge(bm, c1, c2); d < bestDelta {
				bestDelta = d
				bestC1, bestC2 = c1, c2
			}
		}
	}

	if bestC1 == block.NullCluster {
		return nil, false
	}
	return []mergeProposal{{c1: bestC1, c2: bestC2, deltaH: bestDelta}}, true
}

func maybeRefine(bm *block.BlockModel, kStar int, forced bool, n int, cfg *config.Config, log zerolog.Logger) {
	if bm.K > n/cfg.MCMCThresholdDivisor() {
		return
	}

	iters := cfg.BottomUpMCMCMultiplier() * bm.K
	if forced {
		iters = cfg.ForcedMergeMCMCMultiplier() * bm.K
	}
	if bm.K <= kStar+2 {
		iters = cfg.ForcedMergeMCMCMultiplier() * bm.K * 2
	}
	if iters > cfg.MaxBottomUpMCMCIters() {
		iters = cfg.MaxBottomUpMCMCIters()
	}

	refine.RunReplicated(bm, iters, cfg.NumWorkers(), 0, log)
}
