package block

import (
	"math"
	"testing"

	"github.com/gilchrisn/sbp-clustering/pkg/graph"
)

func twoClusterGraph(t *testing.T) *graph.Graph {
	t.Helper()
	// Two triangles {0,1,2} and {3,4,5} joined by a single bridge edge.
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{2, 3},
	}
	g, err := graph.NewFromEdges(6, edges)
	if err != nil {
		t.Fatalf("twoClusterGraph: %v", err)
	}
	return g
}

func TestComputeHNullMatchesSingleCluster(t *testing.T) {
	g := twoClusterGraph(t)
	single := NewSingleCluster(g)

	got := ComputeH(single)
	want := ComputeHNull(g)

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ComputeH(single-cluster) = %v, want ComputeHNull(g) = %v", got, want)
	}
}

func TestComputeHInvalidInputs(t *testing.T) {
	if got := ComputeH(nil); got != inf {
		t.Errorf("ComputeH(nil) = %v, want inf", got)
	}
	if got := ComputeH(&BlockModel{K: 0}); got != inf {
		t.Errorf("ComputeH(K=0) = %v, want inf", got)
	}
}

func TestComputeHNormalizedEmptyGraph(t *testing.T) {
	g := graph.New(0)
	bm := NewSingleCluster(g)
	if got := ComputeHNormalized(bm); got != 0 {
		t.Errorf("ComputeHNormalized(empty) = %v, want 0", got)
	}
}

func TestDeltaHMergeSameCluster(t *testing.T) {
	g := twoClusterGraph(t)
	bm := NewSingleCluster(g)
	if got := DeltaHMerge(bm, 0, 0); got != 0 {
		t.Errorf("DeltaHMerge(c,c) = %v, want 0", got)
	}
}

func TestDeltaHMergeInvalidCluster(t *testing.T) {
	g := twoClusterGraph(t)
	bm := NewSingleCluster(g)
	if got := DeltaHMerge(bm, 0, 5); got != inf {
		t.Errorf("DeltaHMerge(out-of-range) = %v, want inf", got)
	}
}

func TestDeltaHMergeMatchesFullRecompute(t *testing.T) {
	g := twoClusterGraph(t)
	bm := New(g, 2)
	bm.Assignment = []int32{0, 0, 0, 1, 1, 1}
	bm.UpdateMatrix(1)

	hBefore := ComputeH(bm)

	merged := bm.Clone()
	for i, c := range merged.Assignment {
		if c == 1 {
			merged.Assignment[i] = 0
		}
	}
	merged.RenumberDense(1)
	hAfter := ComputeH(merged)

	wantDelta := hAfter - hBefore
	gotDelta := DeltaHMerge(bm, 0, 1)

	if math.Abs(gotDelta-wantDelta) > 1e-6 {
		t.Errorf("DeltaHMerge(0,1) = %v, want %v (full recompute)", gotDelta, wantDelta)
	}
}
