// Package block implements the mutable partition state the engine optimizes:
// a vertex-to-cluster assignment, a dense block-edge-count matrix, and
// cluster sizes, together with the MDL scoring functions defined over them.
package block

import (
	"sync"
	"time"

	"github.com/gilchrisn/sbp-clustering/pkg/graph"
)

// NullCluster is the sentinel assignment used only during construction,
// before every vertex has been placed in a cluster.
const NullCluster int32 = -1

// BlockModel binds to a Graph and a cluster count K. It holds a
// non-owning, borrowed reference to the graph: the model never mutates it
// and must not outlive it.
type BlockModel struct {
	G          *graph.Graph
	K          int
	Assignment []int32
	Matrix     [][]uint64 // K x K; Matrix[r][s] = directed adjacency entries r->s
	Sizes      []uint64   // Sizes[r] = |{v : Assignment[v] = r}|

	// MCMCRuntime accumulates wall-clock time spent inside refinement
	// passes driven against this model, mirroring the original engine's
	// per-blockmodel refinement-time bookkeeping.
	MCMCRuntime time.Duration
}

// New allocates a BlockModel over g with k clusters, all vertices
// unassigned (NullCluster).
func New(g *graph.Graph, k int) *BlockModel {
	bm := &BlockModel{G: g, K: k}
	if g == nil {
		return bm
	}

	n := g.VertexCount()
	bm.Assignment = make([]int32, n)
	for i := range bm.Assignment {
		bm.Assignment[i] = NullCluster
	}
	bm.Sizes = make([]uint64, k)
	bm.Matrix = make([][]uint64, k)
	for r := range bm.Matrix {
		bm.Matrix[r] = make([]uint64, k)
	}
	return bm
}

// NewSingleCluster allocates a BlockModel over g with every vertex placed
// in cluster 0 and the block matrix already built.
func NewSingleCluster(g *graph.Graph) *BlockModel {
	bm := New(g, 1)
	if g == nil {
		return bm
	}
	for i := range bm.Assignment {
		bm.Assignment[i] = 0
	}
	bm.UpdateMatrix(1)
	return bm
}

// Clone deep-copies the model, used by replicated-state MCMC exploration
// where each worker mutates its own private snapshot.
func (bm *BlockModel) Clone() *BlockModel {
	out := &BlockModel{
		G:           bm.G,
		K:           bm.K,
		MCMCRuntime: bm.MCMCRuntime,
	}
	out.Assignment = append([]int32(nil), bm.Assignment...)
	out.Sizes = append([]uint64(nil), bm.Sizes...)
	out.Matrix = make([][]uint64, len(bm.Matrix))
	for i, row := range bm.Matrix {
		out.Matrix[i] = append([]uint64(nil), row...)
	}
	return out
}

// UpdateMatrix fully rebuilds Matrix and Sizes from Assignment. It fans the
// scan out over workers goroutines, each reducing into a private matrix,
// then sums the partials serially — the same worker-pool-plus-reduction
// shape used for parallel proposal collection elsewhere in this engine, so
// no atomic increments are needed on the hot path.
func (bm *BlockModel) UpdateMatrix(workers int) {
	if bm.G == nil || bm.K <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}

	n := bm.G.VertexCount()
	for r := range bm.Matrix {
		for s := range bm.Matrix[r] {
			bm.Matrix[r][s] = 0
		}
	}
	for r := range bm.Sizes {
		bm.Sizes[r] = 0
	}

	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}

	type partial struct {
		matrix [][]uint64
		sizes  []uint64
	}
	partials := make([]partial, workers)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}

		p := &partials[w]
		p.matrix = make([][]uint64, bm.K)
		for r := range p.matrix {
			p.matrix[r] = make([]uint64, bm.K)
		}
		p.sizes = make([]uint64, bm.K)

		wg.Add(1)
		go func(lo, hi int, p *partial) {
			defer wg.Done()
			for u := lo; u < hi; u++ {
				cu := bm.Assignment[u]
				if cu < 0 || int(cu) >= bm.K {
					continue
				}
				for _, v := range bm.G.Neighbors(u) {
					if int(v) < 0 || int(v) >= n {
						continue
					}
					cv := bm.Assignment[v]
					if cv < 0 || int(cv) >= bm.K {
						continue
					}
					p.matrix[cu][cv]++
				}
				p.sizes[cu]++
			}
		}(lo, hi, p)
	}
	wg.Wait()

	for _, p := range partials {
		if p.matrix == nil {
			continue
		}
		for r := 0; r < bm.K; r++ {
			for s := 0; s < bm.K; s++ {
				bm.Matrix[r][s] += p.matrix[r][s]
			}
			bm.Sizes[r] += p.sizes[r]
		}
	}
}

// MoveVertex reassigns vertex v from its current cluster to newCluster in
// O(deg(v)), keeping Matrix and Sizes consistent without a full rebuild. A
// move to the vertex's current cluster is a no-op.
func (bm *BlockModel) MoveVertex(v int, newCluster int32) {
	if bm.G == nil || v < 0 || v >= len(bm.Assignment) {
		return
	}

	old := bm.Assignment[v]
	if old == newCluster {
		return
	}
	if old < 0 || int(old) >= bm.K || newCluster < 0 || int(newCluster) >= bm.K {
		return
	}

	for _, w := range bm.G.Neighbors(v) {
		if int(w) < 0 || int(w) >= len(bm.Assignment) {
			continue
		}
		cw := bm.Assignment[w]
		if cw < 0 || int(cw) >= bm.K {
			continue
		}

		bm.Matrix[old][cw]--
		bm.Matrix[cw][old]--
		bm.Matrix[newCluster][cw]++
		bm.Matrix[cw][newCluster]++
	}

	bm.Sizes[old]--
	bm.Sizes[newCluster]++
	bm.Assignment[v] = newCluster
}

// RenumberDense compacts cluster ids so that every id in {0..K-1} is
// non-empty, rebuilding Matrix and Sizes from the new assignment.
func (bm *BlockModel) RenumberDense(workers int) {
	if bm.G == nil {
		return
	}

	oldToNew := make([]int32, bm.K)
	for i := range oldToNew {
		oldToNew[i] = NullCluster
	}

	next := int32(0)
	for _, c := range bm.Assignment {
		if c < 0 || int(c) >= bm.K {
			continue
		}
		if oldToNew[c] == NullCluster {
			oldToNew[c] = next
			next++
		}
	}

	for i, c := range bm.Assignment {
		if c >= 0 && int(c) < len(oldToNew) {
			bm.Assignment[i] = oldToNew[c]
		}
	}

	bm.K = int(next)
	bm.Matrix = make([][]uint64, bm.K)
	for r := range bm.Matrix {
		bm.Matrix[r] = make([]uint64, bm.K)
	}
	bm.Sizes = make([]uint64, bm.K)
	bm.UpdateMatrix(workers)
}

// GrowByOne appends one new, empty cluster id (K, the current count) to
// Matrix and Sizes without rebuilding them. The top-down splitter uses it to
// allocate the id of a new cluster, then moves vertices into it and calls
// UpdateMatrix.
func (bm *BlockModel) GrowByOne() int32 {
	newID := int32(bm.K)
	bm.K++

	for r := range bm.Matrix {
		bm.Matrix[r] = append(bm.Matrix[r], 0)
	}
	bm.Matrix = append(bm.Matrix, make([]uint64, bm.K))
	bm.Sizes = append(bm.Sizes, 0)

	return newID
}
