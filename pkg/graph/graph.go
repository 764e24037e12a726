// Package graph implements the immutable, read-only adjacency structure the
// partitioning engine operates over.
package graph

import (
	"fmt"

	"github.com/gilchrisn/sbp-clustering/pkg/sbperr"
)

// Graph is an undirected, unweighted, self-loop-free adjacency structure on
// vertices {0..N-1}. Once built it is never mutated by the engine.
type Graph struct {
	adj [][]int32
}

// New allocates a graph on n vertices with no edges.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{adj: make([][]int32, n)}
}

// NewFromEdges builds a graph on n vertices from a raw edge list, deduplicating
// and symmetrizing it. It rejects out-of-range endpoints and self-loops.
func NewFromEdges(n int, edges [][2]int) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("graph: negative vertex count %d", n)
	}

	seen := make([]map[int32]struct{}, n)
	g := New(n)

	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, fmt.Errorf("graph: edge (%d,%d) out of range for %d vertices", u, v, n)
		}
		if u == v {
			return nil, fmt.Errorf("graph: self-loop at vertex %d not allowed", u)
		}

		if seen[u] == nil {
			seen[u] = make(map[int32]struct{})
		}
		if _, dup := seen[u][int32(v)]; dup {
			continue
		}
		seen[u][int32(v)] = struct{}{}

		if seen[v] == nil {
			seen[v] = make(map[int32]struct{})
		}
		seen[v][int32(u)] = struct{}{}

		g.adj[u] = append(g.adj[u], int32(v))
		g.adj[v] = append(g.adj[v], int32(u))
	}

	return g, nil
}

// Validate checks the invariants a caller-supplied graph must satisfy: every
// neighbor reference is in range and adjacency is symmetric. Every error it
// returns wraps sbperr.ErrMalformedGraph.
func (g *Graph) Validate() error {
	n := g.VertexCount()
	present := make([]map[int32]struct{}, n)

	for u := 0; u < n; u++ {
		for _, v := range g.adj[u] {
			if v < 0 || int(v) >= n {
				return fmt.Errorf("graph: vertex %d has out-of-range neighbor %d: %w", u, v, sbperr.ErrMalformedGraph)
			}
			if v == int32(u) {
				return fmt.Errorf("graph: vertex %d has a self-loop: %w", u, sbperr.ErrMalformedGraph)
			}
			if present[u] == nil {
				present[u] = make(map[int32]struct{})
			}
			present[u][v] = struct{}{}
		}
	}

	for u := 0; u < n; u++ {
		for _, v := range g.adj[u] {
			if _, ok := present[v][int32(u)]; !ok {
				return fmt.Errorf("graph: edge (%d,%d) is not symmetric: %w", u, v, sbperr.ErrMalformedGraph)
			}
		}
	}

	return nil
}

// VertexCount returns N.
func (g *Graph) VertexCount() int { return len(g.adj) }

// EdgeCount returns M, the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, nb := range g.adj {
		total += len(nb)
	}
	return total / 2
}

// Neighbors returns the adjacency list of v. Callers must not mutate it.
func (g *Graph) Neighbors(v int) []int32 {
	if v < 0 || v >= len(g.adj) {
		return nil
	}
	return g.adj[v]
}

// Degree returns deg(v).
func (g *Graph) Degree(v int) int {
	if v < 0 || v >= len(g.adj) {
		return 0
	}
	return len(g.adj[v])
}
