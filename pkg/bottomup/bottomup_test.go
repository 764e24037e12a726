package bottomup

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/sbp-clustering/pkg/block"
	"github.com/gilchrisn/sbp-clustering/pkg/config"
	"github.com/gilchrisn/sbp-clustering/pkg/graph"
	"github.com/gilchrisn/sbp-clustering/pkg/sbperr"
)

func twoCliqueGraph(t *testing.T) *graph.Graph {
	t.Helper()
	var edges [][2]int
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	for i := 4; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	edges = append(edges, [2]int{3, 4})
	g, err := graph.NewFromEdges(8, edges)
	if err != nil {
		t.Fatalf("twoCliqueGraph: %v", err)
	}
	return g
}

func TestRunRejectsInvalidInputs(t *testing.T) {
	cfg := config.New()
	var bm block.BlockModel

	if err := Run(nil, &bm, 2, cfg, zerolog.Nop()); err != sbperr.ErrNilGraph {
		t.Errorf("Run(nil graph) = %v, want ErrNilGraph", err)
	}

	g := graph.New(3)
	if err := Run(g, &bm, 0, cfg, zerolog.Nop()); err != sbperr.ErrInvalidTargetClusters {
		t.Errorf("Run(kStar=0) = %v, want ErrInvalidTargetClusters", err)
	}
}

func TestRunEmptyGraphYieldsZeroClusters(t *testing.T) {
	cfg := config.New()
	g := graph.New(0)
	var bm block.BlockModel

	if err := Run(g, &bm, 2, cfg, zerolog.Nop()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if bm.K != 0 {
		t.Errorf("K = %d on empty graph, want 0", bm.K)
	}
}

func TestRunMergesToTarget(t *testing.T) {
	cfg := config.New()
	g := twoCliqueGraph(t)
	var bm block.BlockModel

	if err := Run(g, &bm, 2, cfg, zerolog.Nop()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if bm.K < 2 {
		t.Errorf("K = %d, want >= kStar=2", bm.K)
	}
	if len(bm.Assignment) != 8 {
		t.Errorf("Assignment length = %d, want 8", len(bm.Assignment))
	}
}

func TestRunStartsFromFinePartition(t *testing.T) {
	cfg := config.New()
	g := twoCliqueGraph(t)
	var bm block.BlockModel

	if err := Run(g, &bm, 8, cfg, zerolog.Nop()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if bm.K != 8 {
		t.Errorf("K = %d with kStar=8 (== N), want 8 (no merges needed)", bm.K)
	}
}
