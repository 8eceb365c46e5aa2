// Package schedule orders the calculated fields of one entity so that
// every field is evaluated after the calculated fields it references.
//
// The graph is rebuilt from ASTs for every batch; nothing here is
// persisted or shared between batches.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/fieldcalc/internal/formula"
)

// CycleError reports a circular dependency between calculated fields.
// Ordering is impossible for the whole batch, so a single cycle blocks
// every field in the entity, not just the ones on the cycle.
type CycleError struct {
	// Cycle lists the fields on the detected cycle in reference order,
	// with the starting field repeated at the end: ["a", "b", "a"].
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " -> "))
}

// IsCycleError reports whether err is a circular-dependency failure.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}

// Graph is the dependency graph over one entity's calculated fields.
// Edges run from a field to the calculated fields its formula
// references. References to non-calculated (user-supplied) fields are
// leaves and impose no ordering constraint, so they never appear.
type Graph struct {
	nodes []string            // sorted field ids
	deps  map[string][]string // field -> sorted calculated fields it references
}

// Build constructs the dependency graph for a set of (field, AST)
// pairs. Reference sets are intersected with the calculated-field set;
// everything else comes from the caller's snapshot and is assumed
// already available.
func Build(asts map[string]formula.Node) *Graph {
	g := &Graph{
		nodes: make([]string, 0, len(asts)),
		deps:  make(map[string][]string, len(asts)),
	}
	for id := range asts {
		g.nodes = append(g.nodes, id)
	}
	sort.Strings(g.nodes)

	for id, root := range asts {
		var deps []string
		for _, ref := range formula.References(root) {
			if _, calculated := asts[ref]; calculated {
				deps = append(deps, ref)
			}
		}
		// References already sorted; keep that order for determinism.
		g.deps[id] = deps
	}
	return g
}

// Dependencies returns the calculated fields the given field references,
// sorted ascending. Returns nil for unknown fields.
func (g *Graph) Dependencies(id string) []string {
	return g.deps[id]
}

// Order returns a deterministic evaluation order: a permutation of the
// field ids in which every field appears after all calculated fields it
// references. When no edge constrains two fields, the one with the
// lexically smaller id comes first, so the same input set always
// produces the same order.
//
// Returns a CycleError if the graph is cyclic.
func (g *Graph) Order() ([]string, error) {
	if err := g.checkCycles(); err != nil {
		return nil, err
	}

	// Kahn's algorithm with a sorted ready list for the tie-break.
	pending := make(map[string]int, len(g.nodes)) // unsatisfied dependency count
	dependents := make(map[string][]string, len(g.nodes))
	for _, id := range g.nodes {
		pending[id] = len(g.deps[id])
		for _, dep := range g.deps[id] {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for _, id := range g.nodes { // g.nodes is sorted, so ready starts sorted
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dependent := range dependents[id] {
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = insertSorted(ready, dependent)
			}
		}
	}
	return order, nil
}

// insertSorted inserts id into the sorted ready list, keeping it sorted.
func insertSorted(ready []string, id string) []string {
	i := sort.SearchStrings(ready, id)
	ready = append(ready, "")
	copy(ready[i+1:], ready[i:])
	ready[i] = id
	return ready
}

// node colors for cycle detection.
const (
	white = iota // unvisited
	gray         // on the current DFS path
	black        // fully explored
)

// checkCycles runs a three-color depth-first search over the graph.
// Revisiting a gray node means the current path loops back on itself;
// the cycle reported is the path segment from that node to the top of
// the stack.
func (g *Graph) checkCycles() error {
	color := make(map[string]int, len(g.nodes))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		path = append(path, id)
		for _, dep := range g.deps[id] {
			switch color[dep] {
			case gray:
				return cycleFrom(path, dep)
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	for _, id := range g.nodes {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleFrom slices the DFS path from the first occurrence of start and
// closes the loop by repeating it at the end.
func cycleFrom(path []string, start string) *CycleError {
	for i, id := range path {
		if id == start {
			cycle := append([]string{}, path[i:]...)
			cycle = append(cycle, start)
			return &CycleError{Cycle: cycle}
		}
	}
	// Unreachable: start is gray, so it is on the path.
	return &CycleError{Cycle: []string{start, start}}
}
