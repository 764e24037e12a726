package lfr

import "testing"

func baseConfig() Config {
	return Config{
		N:           200,
		Tau1:        2.5,
		Tau2:        1.5,
		Mu:          0.2,
		AvgDegree:   10,
		MinCommSize: 10,
	}
}

func TestGenerateVertexCount(t *testing.T) {
	cfg := baseConfig()
	g, truth, err := Generate(cfg, 1)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := g.VertexCount(); got != cfg.N {
		t.Errorf("VertexCount() = %d, want %d", got, cfg.N)
	}
	if len(truth) != cfg.N {
		t.Errorf("len(truth) = %d, want %d", len(truth), cfg.N)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestGenerateProducesMultipleCommunities(t *testing.T) {
	cfg := baseConfig()
	_, truth, err := Generate(cfg, 3)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	seen := make(map[int32]bool)
	for _, c := range truth {
		seen[c] = true
	}
	if len(seen) < 2 {
		t.Errorf("got %d communities, want at least 2 for N=%d min_comm_size=%d", len(seen), cfg.N, cfg.MinCommSize)
	}
}

func TestGenerateRejectsNonPositiveParams(t *testing.T) {
	cfg := baseConfig()
	cfg.N = 0
	if _, _, err := Generate(cfg, 1); err == nil {
		t.Error("Generate(N=0) expected error, got nil")
	}

	cfg = baseConfig()
	cfg.AvgDegree = 0
	if _, _, err := Generate(cfg, 1); err == nil {
		t.Error("Generate(AvgDegree=0) expected error, got nil")
	}

	cfg = baseConfig()
	cfg.MinCommSize = 0
	if _, _, err := Generate(cfg, 1); err == nil {
		t.Error("Generate(MinCommSize=0) expected error, got nil")
	}
}
