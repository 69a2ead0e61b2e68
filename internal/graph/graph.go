// Package graph maintains the directed dependency graph among facts:
// an edge A -> B means B is derived from A and must recompute when A
// changes. The graph must stay acyclic; Build rejects any edge set that
// contains a cycle before a traversal ever starts.
package graph

import (
	"sort"

	"github.com/ppiankov/credence/internal/model"
)

// Graph is an index-based adjacency-list view over a fact set. Facts are
// nodes; DependsOn edges define derivation. The structure is immutable
// once built; rebuild after any edge change.
type Graph struct {
	ids   []string
	index map[string]int
	out   [][]int // out[i]: facts derived from ids[i] (dependents)
	in    [][]int // in[i]: facts ids[i] is derived from
}

// Build constructs the graph from the fact set and validates acyclicity.
// Edges are taken from DependsOn; declared Dependents lists are treated as
// a denormalized mirror and do not add edges. Returns *model.CycleError if
// the edge set contains a cycle.
func Build(facts []model.Fact) (*Graph, error) {
	g := &Graph{
		ids:   make([]string, 0, len(facts)),
		index: make(map[string]int, len(facts)),
	}

	sorted := make([]model.Fact, len(facts))
	copy(sorted, facts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, f := range sorted {
		if _, ok := g.index[f.ID]; ok {
			continue
		}
		g.index[f.ID] = len(g.ids)
		g.ids = append(g.ids, f.ID)
	}

	g.out = make([][]int, len(g.ids))
	g.in = make([][]int, len(g.ids))

	for _, f := range sorted {
		to := g.index[f.ID]
		for _, dep := range f.DependsOn {
			from, ok := g.index[dep]
			if !ok {
				// Edge to an unknown fact carries no recomputation
				continue
			}
			g.out[from] = append(g.out[from], to)
			g.in[to] = append(g.in[to], from)
		}
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Dependents returns the ids of facts directly derived from the given fact
func (g *Graph) Dependents(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.out[i]))
	for _, j := range g.out[i] {
		out = append(out, g.ids[j])
	}
	return out
}

// Dependencies returns the ids of facts the given fact is derived from
func (g *Graph) Dependencies(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(g.in[i]))
	for _, j := range g.in[i] {
		deps = append(deps, g.ids[j])
	}
	return deps
}

// Contains reports whether the fact id is a node of the graph
func (g *Graph) Contains(id string) bool {
	_, ok := g.index[id]
	return ok
}

// DFS colors
const (
	white = iota // unvisited
	gray         // on the current path
	black        // fully explored
)

// validate runs a depth-first search and reports the first cycle found,
// including the fact ids along it
func (g *Graph) validate() error {
	color := make([]int, len(g.ids))
	parent := make([]int, len(g.ids))
	for i := range parent {
		parent[i] = -1
	}

	var visit func(i int) *model.CycleError
	visit = func(i int) *model.CycleError {
		color[i] = gray
		for _, j := range g.out[i] {
			switch color[j] {
			case white:
				parent[j] = i
				if err := visit(j); err != nil {
					return err
				}
			case gray:
				return g.cycleError(parent, i, j)
			}
		}
		color[i] = black
		return nil
	}

	for i := range g.ids {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleError reconstructs the cycle path from the back edge end -> start
func (g *Graph) cycleError(parent []int, end, start int) *model.CycleError {
	path := []string{g.ids[end]}
	for i := end; i != start && parent[i] != -1; i = parent[i] {
		path = append(path, g.ids[parent[i]])
	}
	// Reverse into traversal order and close the loop
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	path = append(path, path[0])
	return &model.CycleError{Path: path}
}
