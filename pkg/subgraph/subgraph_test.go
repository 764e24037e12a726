package subgraph

import (
	"testing"

	"github.com/gilchrisn/sbp-clustering/pkg/block"
	"github.com/gilchrisn/sbp-clustering/pkg/graph"
)

func TestExtractAllProjectsInducedSubgraphs(t *testing.T) {
	// Two triangles {0,1,2} and {3,4,5} joined by a bridge edge, which must
	// not appear in either extracted subgraph.
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{2, 3},
	}
	g, err := graph.NewFromEdges(6, edges)
	if err != nil {
		t.Fatalf("NewFromEdges: %v", err)
	}

	bm := block.New(g, 2)
	bm.Assignment = []int32{0, 0, 0, 1, 1, 1}
	bm.UpdateMatrix(1)

	subs := ExtractAll(bm, 2)
	if len(subs) != 2 {
		t.Fatalf("ExtractAll returned %d subgraphs, want 2", len(subs))
	}

	for i, sub := range subs {
		if sub.Graph.VertexCount() != 3 {
			t.Errorf("cluster %d: VertexCount() = %d, want 3", i, sub.Graph.VertexCount())
		}
		if sub.Graph.EdgeCount() != 3 {
			t.Errorf("cluster %d: EdgeCount() = %d, want 3 (triangle, no bridge)", i, sub.Graph.EdgeCount())
		}
		if len(sub.Mapping) != 3 {
			t.Errorf("cluster %d: Mapping length = %d, want 3", i, len(sub.Mapping))
		}
	}
}

func TestExtractAllNilOrEmpty(t *testing.T) {
	if got := ExtractAll(nil, 2); got != nil {
		t.Errorf("ExtractAll(nil) = %v, want nil", got)
	}

	g := graph.New(0)
	bm := block.New(g, 0)
	if got := ExtractAll(bm, 2); got != nil {
		t.Errorf("ExtractAll(K=0) = %v, want nil", got)
	}
}
