package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "configs.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadStandardConfigs(t *testing.T) {
	path := writeTempCSV(t, "n,k,p_in,p_out\n100,4,0.8,0.05\n200,8,0.7,0.02\nmalformed,row,here\n")

	configs, err := LoadStandardConfigs(path)
	if err != nil {
		t.Fatalf("LoadStandardConfigs() error = %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("got %d configs, want 2 (malformed row skipped)", len(configs))
	}
	if configs[0].N != 100 || configs[0].K != 4 {
		t.Errorf("configs[0] = %+v, want N=100 K=4", configs[0])
	}
}

func TestLoadLFRConfigs(t *testing.T) {
	path := writeTempCSV(t, "n,tau1,tau2,mu,avg_degree,min_comm_size\n500,2.5,1.5,0.3,15,20\n")

	configs, err := LoadLFRConfigs(path)
	if err != nil {
		t.Fatalf("LoadLFRConfigs() error = %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("got %d configs, want 1", len(configs))
	}
	if configs[0].N != 500 || configs[0].AvgDegree != 15 {
		t.Errorf("configs[0] = %+v, want N=500 AvgDegree=15", configs[0])
	}
}

func TestLoadStandardConfigsMissingFile(t *testing.T) {
	if _, err := LoadStandardConfigs("/nonexistent/path.csv"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestResultWriterWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")

	w, err := NewResultWriter(path)
	if err != nil {
		t.Fatalf("NewResultWriter() error = %v", err)
	}

	if err := w.Write(Result{
		GraphID:        "abc-123",
		NumVertices:    10,
		NumEdges:       20,
		TargetClusters: 2,
		Algorithm:      "TopDown",
		ExecutionMode:  "parallel",
		RunNumber:      1,
		RuntimeSec:     1.234567,
		MCMCRuntimeSec: 0.5,
		MemoryMB:       12.34,
		NMI:            0.9,
		MDLRaw:         42.12,
		MDLNorm:        0.5,
		ClustersFound:  2,
	}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (header + 1 row)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "graph_id,num_vertices") {
		t.Errorf("header = %q, want it to start with graph_id,num_vertices", lines[0])
	}
	if !strings.Contains(lines[1], "abc-123") {
		t.Errorf("row = %q, want it to contain graph_id abc-123", lines[1])
	}
}

func TestPeakMemoryMBIsPositive(t *testing.T) {
	if got := PeakMemoryMB(); got <= 0 {
		t.Errorf("PeakMemoryMB() = %v, want > 0", got)
	}
}
