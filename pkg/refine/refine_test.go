package refine

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/sbp-clustering/pkg/block"
	"github.com/gilchrisn/sbp-clustering/pkg/graph"
	"github.com/gilchrisn/sbp-clustering/pkg/rng"
)

func twoTriangleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{2, 3},
	}
	g, err := graph.NewFromEdges(6, edges)
	if err != nil {
		t.Fatalf("twoTriangleGraph: %v", err)
	}
	return g
}

func TestNeighborGuidedProposalIsolatedVertexStays(t *testing.T) {
	g := graph.New(3)
	bm := block.New(g, 2)
	bm.Assignment = []int32{0, 0, 1}
	bm.UpdateMatrix(1)

	r := rng.FromSeed(1, 0)
	got := NeighborGuidedProposal(bm, 0, r)
	if got != bm.Assignment[0] {
		t.Errorf("NeighborGuidedProposal(isolated) = %v, want %v (stay put)", got, bm.Assignment[0])
	}
}

func TestNeighborGuidedProposalStaysInRange(t *testing.T) {
	g := twoTriangleGraph(t)
	bm := New2Cluster(t, g)

	r := rng.FromSeed(7, 0)
	for v := 0; v < g.VertexCount(); v++ {
		c := NeighborGuidedProposal(bm, v, r)
		if c < 0 || int(c) >= bm.K {
			t.Errorf("NeighborGuidedProposal(%d) = %v, out of range [0,%d)", v, c, bm.K)
		}
	}
}

func TestRunNeverWorsensH(t *testing.T) {
	g := twoTriangleGraph(t)
	bm := New2Cluster(t, g)

	hBefore := block.ComputeH(bm)
	Run(bm, 200, rng.FromSeed(42, 0), 1, zerolog.Nop())
	hAfter := block.ComputeH(bm)

	if hAfter > hBefore+1e-9 {
		t.Errorf("H increased after refinement: before=%v after=%v", hBefore, hAfter)
	}
}

func TestRunRecordsMCMCRuntime(t *testing.T) {
	g := twoTriangleGraph(t)
	bm := New2Cluster(t, g)

	if bm.MCMCRuntime != 0 {
		t.Fatalf("MCMCRuntime = %v before any refinement, want 0", bm.MCMCRuntime)
	}
	Run(bm, 50, rng.FromSeed(1, 0), 1, zerolog.Nop())
	if bm.MCMCRuntime <= 0 {
		t.Errorf("MCMCRuntime = %v after refinement, want > 0", bm.MCMCRuntime)
	}
}

func TestRunReplicatedAdoptsBestReplica(t *testing.T) {
	g := twoTriangleGraph(t)
	bm := New2Cluster(t, g)

	hBefore := block.ComputeH(bm)
	RunReplicated(bm, 100, 4, 99, zerolog.Nop())
	hAfter := block.ComputeH(bm)

	if hAfter > hBefore+1e-9 {
		t.Errorf("H increased after replicated refinement: before=%v after=%v", hBefore, hAfter)
	}
	if bm.K != 2 {
		t.Errorf("K = %d after replicated refinement, want 2", bm.K)
	}
}

// New2Cluster builds a test fixture: two clusters seeded from the two
// triangles of g, already matrix-consistent.
func New2Cluster(t *testing.T, g *graph.Graph) *block.BlockModel {
	t.Helper()
	bm := block.New(g, 2)
	bm.Assignment = []int32{0, 0, 0, 1, 1, 1}
	bm.UpdateMatrix(1)
	return bm
}
