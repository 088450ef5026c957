package mbqc

import (
	"context"
	"fmt"
	"time"
)

// Strategy selects the scheduler's optimization target.
type Strategy string

const (
	MinimizeSpace Strategy = "MINIMIZE_SPACE"
	MinimizeTime  Strategy = "MINIMIZE_TIME"
)

// ParseStrategy validates a wire strategy selector.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case MinimizeSpace, MinimizeTime:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("mbqc: unknown strategy %q", s)
}

// NodeSet is a set of engine node indices.
type NodeSet map[int]struct{}

// Flow maps an engine node index to its correction target set.
type Flow map[int]NodeSet

// EdgeKey identifies an engine edge by its canonical (min, max) index pair.
type EdgeKey struct {
	U int
	V int
}

// NewEdgeKey reorders a and b into canonical (min, max) form.
func NewEdgeKey(a, b int) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{U: a, V: b}
}

// EngineSlice is one scheduling tick in index space.
type EngineSlice struct {
	PrepareNodes  []int
	EntangleEdges []EdgeKey
	MeasureNodes  []int
}

// EngineSchedule is a schedule in index space, as produced by the solver
// or reconstructed from a caller-edited wire schedule.
type EngineSchedule struct {
	PrepareTime  map[int]*int
	MeasureTime  map[int]*int
	EntangleTime map[EdgeKey]*int
	Timeline     []EngineSlice
}

// Engine creates per-request graph handles. Implementations own all graph
// algorithms: canonical-form checking, flow validity, odd-neighborhood
// derivation, and the scheduling solver. This layer only translates
// across the boundary.
type Engine interface {
	NewGraph(ctx context.Context) (Graph, error)
}

// Graph is one engine graph under construction and inspection. Mutating
// calls must precede checks and solves; edges, role registrations, and
// basis assignments all require their referenced nodes to exist.
type Graph interface {
	// AddNode adds a physical node at a 3D coordinate and returns its
	// sequential index.
	AddNode(x, y, z float64) int
	AddEdge(u, v int) error
	RegisterInput(node, qubitIndex int) error
	RegisterOutput(node, qubitIndex int) error
	AssignMeasBasis(node int, basis MeasBasis) error

	// CheckCanonicalForm fails with an *EngineError when the graph is not
	// in canonical form (a non-output node without a measurement basis).
	CheckCanonicalForm(ctx context.Context) error

	// CheckFlow fails with an *EngineError when the flow is invalid.
	// A nil zflow means the engine derives it by the odd-neighborhood rule.
	CheckFlow(ctx context.Context, xflow, zflow Flow) error

	// OddNeighbors returns the nodes adjacent to an odd number of members
	// of set.
	OddNeighbors(ctx context.Context, set NodeSet) (NodeSet, error)

	// SolveSchedule runs the constraint solver. It returns ErrNoSolution
	// when the instance is unsatisfiable and ErrSolveTimeout when the
	// deadline is hit; neither is retried.
	SolveSchedule(ctx context.Context, xflow, zflow Flow, strategy Strategy, timeout time.Duration) (*EngineSchedule, error)

	// ValidateSchedule checks a caller-edited schedule against the
	// scheduling rules, returning one index-space message per violation.
	ValidateSchedule(ctx context.Context, sched *EngineSchedule, xflow Flow) ([]string, error)
}
