// Package enginetest provides a deterministic in-memory engine for tests
// and examples. It implements just enough of the engine contract to
// exercise the translation layer; it is not a real solver.
package enginetest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/meikuraledutech/mbqc"
)

// Engine implements mbqc.Engine in memory.
type Engine struct {
	// SolveErr, when set, is returned by every SolveSchedule call. Use it
	// to script solver failures (mbqc.ErrNoSolution, mbqc.ErrSolveTimeout,
	// or an *mbqc.EngineError).
	SolveErr error

	// FlowErr, when set, is returned by every CheckFlow call.
	FlowErr error
}

// New returns an Engine with no scripted failures.
func New() *Engine {
	return &Engine{}
}

// NewGraph returns an empty in-memory graph.
func (e *Engine) NewGraph(ctx context.Context) (mbqc.Graph, error) {
	return &Graph{
		eng:     e,
		inputs:  map[int]int{},
		outputs: map[int]int{},
		bases:   map[int]mbqc.MeasBasis{},
	}, nil
}

// Graph is one in-memory graph.
type Graph struct {
	eng     *Engine
	coords  [][3]float64
	adj     []map[int]struct{}
	inputs  map[int]int
	outputs map[int]int
	bases   map[int]mbqc.MeasBasis
}

func (g *Graph) AddNode(x, y, z float64) int {
	g.coords = append(g.coords, [3]float64{x, y, z})
	g.adj = append(g.adj, map[int]struct{}{})
	return len(g.coords) - 1
}

func (g *Graph) AddEdge(u, v int) error {
	if err := g.checkIndex(u); err != nil {
		return err
	}
	if err := g.checkIndex(v); err != nil {
		return err
	}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	return nil
}

func (g *Graph) RegisterInput(node, qubitIndex int) error {
	if err := g.checkIndex(node); err != nil {
		return err
	}
	g.inputs[node] = qubitIndex
	return nil
}

func (g *Graph) RegisterOutput(node, qubitIndex int) error {
	if err := g.checkIndex(node); err != nil {
		return err
	}
	g.outputs[node] = qubitIndex
	return nil
}

func (g *Graph) AssignMeasBasis(node int, basis mbqc.MeasBasis) error {
	if err := g.checkIndex(node); err != nil {
		return err
	}
	g.bases[node] = basis
	return nil
}

func (g *Graph) checkIndex(node int) error {
	if node < 0 || node >= len(g.coords) {
		return fmt.Errorf("enginetest: node %d out of range", node)
	}
	return nil
}

// CheckCanonicalForm requires every non-output node to carry a
// measurement basis.
func (g *Graph) CheckCanonicalForm(ctx context.Context) error {
	for node := range g.coords {
		if _, isOutput := g.outputs[node]; isOutput {
			continue
		}
		if _, ok := g.bases[node]; !ok {
			return &mbqc.EngineError{
				Kind:    "validation",
				Message: fmt.Sprintf("node %d has no measurement basis", node),
			}
		}
	}
	return nil
}

// CheckFlow runs basic range and role checks over the flow mappings.
func (g *Graph) CheckFlow(ctx context.Context, xflow, zflow mbqc.Flow) error {
	if g.eng.FlowErr != nil {
		return g.eng.FlowErr
	}
	for _, f := range []mbqc.Flow{xflow, zflow} {
		for v, targets := range f {
			if v < 0 || v >= len(g.coords) {
				return &mbqc.EngineError{Kind: "validation", Message: fmt.Sprintf("node %d is not in the graph", v)}
			}
			if _, isOutput := g.outputs[v]; isOutput {
				return &mbqc.EngineError{Kind: "validation", Message: fmt.Sprintf("node %d is an output and cannot carry corrections", v)}
			}
			for t := range targets {
				if t < 0 || t >= len(g.coords) {
					return &mbqc.EngineError{Kind: "validation", Message: fmt.Sprintf("node %d is not in the graph", t)}
				}
			}
		}
	}
	return nil
}

// OddNeighbors returns the nodes adjacent to an odd number of members of set.
func (g *Graph) OddNeighbors(ctx context.Context, set mbqc.NodeSet) (mbqc.NodeSet, error) {
	counts := map[int]int{}
	for v := range set {
		if v < 0 || v >= len(g.coords) {
			return nil, &mbqc.EngineError{Kind: "validation", Message: fmt.Sprintf("node %d is not in the graph", v)}
		}
		for nb := range g.adj[v] {
			counts[nb]++
		}
	}
	out := mbqc.NodeSet{}
	for n, c := range counts {
		if c%2 == 1 {
			out[n] = struct{}{}
		}
	}
	return out, nil
}

// SolveSchedule produces a fixed-shape layered schedule: non-inputs
// prepared at tick 0, all edges entangled at tick 1, measurements from
// tick 2 on in x-flow dependency order. Both strategies yield the same
// schedule here; strategy selection is a solver concern this fake
// doesn't model.
func (g *Graph) SolveSchedule(ctx context.Context, xflow, zflow mbqc.Flow, strategy mbqc.Strategy, timeout time.Duration) (*mbqc.EngineSchedule, error) {
	if g.eng.SolveErr != nil {
		return nil, g.eng.SolveErr
	}

	es := &mbqc.EngineSchedule{
		PrepareTime:  map[int]*int{},
		MeasureTime:  map[int]*int{},
		EntangleTime: map[mbqc.EdgeKey]*int{},
	}

	prepared := []int{}
	for node := range g.coords {
		if _, isInput := g.inputs[node]; isInput {
			es.PrepareTime[node] = nil
			continue
		}
		es.PrepareTime[node] = intp(0)
		prepared = append(prepared, node)
	}
	sort.Ints(prepared)

	entangled := []mbqc.EdgeKey{}
	for u := range g.adj {
		for v := range g.adj[u] {
			if u < v {
				k := mbqc.NewEdgeKey(u, v)
				es.EntangleTime[k] = intp(1)
				entangled = append(entangled, k)
			}
		}
	}
	sort.Slice(entangled, func(i, j int) bool {
		if entangled[i].U != entangled[j].U {
			return entangled[i].U < entangled[j].U
		}
		return entangled[i].V < entangled[j].V
	})

	layers := g.measureLayers(xflow)
	for node := range g.coords {
		if _, isOutput := g.outputs[node]; isOutput {
			es.MeasureTime[node] = nil
			continue
		}
		es.MeasureTime[node] = intp(2 + layers[node])
	}

	if len(prepared) > 0 {
		es.Timeline = append(es.Timeline, mbqc.EngineSlice{PrepareNodes: prepared})
	}
	if len(entangled) > 0 {
		es.Timeline = append(es.Timeline, mbqc.EngineSlice{EntangleEdges: entangled})
	}
	maxLayer := 0
	for _, l := range layers {
		if l > maxLayer {
			maxLayer = l
		}
	}
	for l := 0; l <= maxLayer; l++ {
		measured := []int{}
		for node := range g.coords {
			if _, isOutput := g.outputs[node]; isOutput {
				continue
			}
			if layers[node] == l {
				measured = append(measured, node)
			}
		}
		sort.Ints(measured)
		if len(measured) > 0 {
			es.Timeline = append(es.Timeline, mbqc.EngineSlice{MeasureNodes: measured})
		}
	}
	return es, nil
}

// measureLayers assigns each node a layer such that a node with x-flow
// targets sits in an earlier layer than every non-output target.
func (g *Graph) measureLayers(xflow mbqc.Flow) map[int]int {
	layers := map[int]int{}
	for node := range g.coords {
		layers[node] = 0
	}
	// Longest-path relaxation; flows on editor-sized graphs are shallow.
	for range g.coords {
		for v, targets := range xflow {
			for t := range targets {
				if _, isOutput := g.outputs[t]; isOutput {
					continue
				}
				if t < len(g.coords) && layers[t] <= layers[v] {
					layers[t] = layers[v] + 1
				}
			}
		}
	}
	return layers
}

// ValidateSchedule applies the scheduling rules: inputs are never
// prepared, outputs are never measured, every other node needs both a
// prepare and a measure time, measurement order respects the x-flow
// dependency ordering, and each edge is entangled strictly before either
// endpoint is measured.
func (g *Graph) ValidateSchedule(ctx context.Context, sched *mbqc.EngineSchedule, xflow mbqc.Flow) ([]string, error) {
	var msgs []string

	for node := 0; node < len(g.coords); node++ {
		_, isInput := g.inputs[node]
		_, isOutput := g.outputs[node]
		_, hasPrepare := timeOf(sched.PrepareTime, node)
		_, hasMeasure := timeOf(sched.MeasureTime, node)

		if isInput && hasPrepare {
			msgs = append(msgs, fmt.Sprintf("node %d is an input and must not be prepared", node))
		}
		if isOutput && hasMeasure {
			msgs = append(msgs, fmt.Sprintf("node %d is an output and must not be measured", node))
		}
		if !isInput && !isOutput {
			if !hasPrepare {
				msgs = append(msgs, fmt.Sprintf("node %d has no prepare time", node))
			}
			if !hasMeasure {
				msgs = append(msgs, fmt.Sprintf("node %d has no measure time", node))
			}
		}
	}

	flowKeys := make([]int, 0, len(xflow))
	for v := range xflow {
		flowKeys = append(flowKeys, v)
	}
	sort.Ints(flowKeys)
	for _, v := range flowKeys {
		mv, ok := timeOf(sched.MeasureTime, v)
		if !ok {
			continue
		}
		targets := setToList(xflow[v])
		for _, t := range targets {
			mt, ok := timeOf(sched.MeasureTime, t)
			if !ok {
				continue
			}
			if mv >= mt {
				msgs = append(msgs, fmt.Sprintf("node %d must be measured before node %d", v, t))
			}
		}
	}

	for _, k := range g.edgeKeys() {
		et, ok := timeOf2(sched.EntangleTime, k)
		if !ok {
			msgs = append(msgs, fmt.Sprintf("Edge (%d, %d) has no entangle time", k.U, k.V))
			continue
		}
		for _, end := range []int{k.U, k.V} {
			if mt, ok := timeOf(sched.MeasureTime, end); ok && et >= mt {
				msgs = append(msgs, fmt.Sprintf("Edge (%d, %d) must be entangled before node %d is measured", k.U, k.V, end))
			}
		}
	}

	return msgs, nil
}

func (g *Graph) edgeKeys() []mbqc.EdgeKey {
	keys := []mbqc.EdgeKey{}
	for u := range g.adj {
		for v := range g.adj[u] {
			if u < v {
				keys = append(keys, mbqc.NewEdgeKey(u, v))
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].U != keys[j].U {
			return keys[i].U < keys[j].U
		}
		return keys[i].V < keys[j].V
	})
	return keys
}

func timeOf(m map[int]*int, node int) (int, bool) {
	t, ok := m[node]
	if !ok || t == nil {
		return 0, false
	}
	return *t, true
}

func timeOf2(m map[mbqc.EdgeKey]*int, k mbqc.EdgeKey) (int, bool) {
	t, ok := m[k]
	if !ok || t == nil {
		return 0, false
	}
	return *t, true
}

func setToList(set mbqc.NodeSet) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func intp(v int) *int {
	return &v
}
