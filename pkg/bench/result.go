package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// Result is one row of the benchmark result sink.
type Result struct {
	GraphID        string
	NumVertices    int
	NumEdges       int
	TargetClusters int
	Algorithm      string // "TopDown" or "BottomUp"
	ExecutionMode  string // "sequential" or "parallel"
	RunNumber      int
	RuntimeSec     float64
	MCMCRuntimeSec float64
	MemoryMB       float64
	NMI            float64
	MDLRaw         float64
	MDLNorm        float64
	ClustersFound  int
}

// NewGraphID stamps a fresh run identifier for a generated benchmark graph.
func NewGraphID() string {
	return uuid.New().String()
}

var resultHeader = []string{
	"graph_id", "num_vertices", "num_edges", "target_clusters", "algorithm",
	"execution_mode", "run_number", "runtime_sec", "mcmc_runtime_sec",
	"memory_mb", "nmi", "mdl_raw", "mdl_norm", "clusters_found",
}

// ResultWriter appends Result rows to a CSV file, flushing after each row so
// a long benchmark sweep survives a crash with partial results intact.
type ResultWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewResultWriter creates path (truncating any existing file) and writes the
// header row immediately.
func NewResultWriter(path string) (*ResultWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("bench: creating result file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("bench: writing result header: %w", err)
	}
	w.Flush()
	return &ResultWriter{file: f, writer: w}, nil
}

// Write appends r as a single row and flushes immediately.
func (rw *ResultWriter) Write(r Result) error {
	record := []string{
		r.GraphID,
		strconv.Itoa(r.NumVertices),
		strconv.Itoa(r.NumEdges),
		strconv.Itoa(r.TargetClusters),
		r.Algorithm,
		r.ExecutionMode,
		strconv.Itoa(r.RunNumber),
		strconv.FormatFloat(r.RuntimeSec, 'f', 6, 64),
		strconv.FormatFloat(r.MCMCRuntimeSec, 'f', 6, 64),
		strconv.FormatFloat(r.MemoryMB, 'f', 2, 64),
		strconv.FormatFloat(r.NMI, 'f', 6, 64),
		strconv.FormatFloat(r.MDLRaw, 'f', 2, 64),
		strconv.FormatFloat(r.MDLNorm, 'f', 6, 64),
		strconv.Itoa(r.ClustersFound),
	}
	if err := rw.writer.Write(record); err != nil {
		return fmt.Errorf("bench: writing result row: %w", err)
	}
	rw.writer.Flush()
	return rw.writer.Error()
}

// Close flushes and closes the underlying file.
func (rw *ResultWriter) Close() error {
	rw.writer.Flush()
	return rw.file.Close()
}
