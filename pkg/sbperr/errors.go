// Package sbperr defines the sentinel errors the partitioning engine reports
// for invalid input. No exceptions propagate across the library boundary;
// entry points return ErrNilGraph and ErrInvalidTargetClusters as they are,
// and graph validation failures as errors wrapping ErrMalformedGraph.
package sbperr

import "errors"

var (
	// ErrInvalidTargetClusters is returned when K* < 1.
	ErrInvalidTargetClusters = errors.New("sbp: target cluster count must be >= 1")

	// ErrNilGraph is returned when a nil graph is passed to an entry point.
	ErrNilGraph = errors.New("sbp: graph must not be nil")

	// ErrMalformedGraph is returned when a graph fails adjacency validation:
	// an out-of-range neighbor, a self-loop, or an asymmetric edge.
	ErrMalformedGraph = errors.New("sbp: malformed graph")

	// ErrInvalidCluster names an out-of-range or empty cluster id. No
	// function in this module returns it: block.DeltaHMerge reports such
	// ids with its inf score instead.
	ErrInvalidCluster = errors.New("sbp: invalid or empty cluster")
)
