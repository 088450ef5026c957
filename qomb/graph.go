package qomb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/meikuraledutech/mbqc"
)

// graph accumulates the spec of one engine graph. Mutators are local and
// cheap; checks and solves serialize the accumulated spec to the daemon.
type graph struct {
	c       *Client
	nodes   []nodeSpec
	edges   [][2]int
	inputs  map[int]int
	outputs map[int]int
	bases   map[int]basisSpec
}

func (g *graph) AddNode(x, y, z float64) int {
	g.nodes = append(g.nodes, nodeSpec{Coordinate: [3]float64{x, y, z}})
	return len(g.nodes) - 1
}

func (g *graph) AddEdge(u, v int) error {
	if err := g.checkIndex(u); err != nil {
		return err
	}
	if err := g.checkIndex(v); err != nil {
		return err
	}
	g.edges = append(g.edges, [2]int{u, v})
	return nil
}

func (g *graph) RegisterInput(node, qubitIndex int) error {
	if err := g.checkIndex(node); err != nil {
		return err
	}
	g.inputs[node] = qubitIndex
	return nil
}

func (g *graph) RegisterOutput(node, qubitIndex int) error {
	if err := g.checkIndex(node); err != nil {
		return err
	}
	g.outputs[node] = qubitIndex
	return nil
}

func (g *graph) AssignMeasBasis(node int, basis mbqc.MeasBasis) error {
	if err := g.checkIndex(node); err != nil {
		return err
	}
	g.bases[node] = basisFromModel(basis)
	return nil
}

func (g *graph) checkIndex(node int) error {
	if node < 0 || node >= len(g.nodes) {
		return fmt.Errorf("qomb: node %d out of range", node)
	}
	return nil
}

func (g *graph) CheckCanonicalForm(ctx context.Context) error {
	return g.c.post(ctx, "/v1/graph/check-canonical", checkRequest{Graph: g.payload()}, nil)
}

func (g *graph) CheckFlow(ctx context.Context, xflow, zflow mbqc.Flow) error {
	return g.c.post(ctx, "/v1/graph/check-flow", checkRequest{
		Graph: g.payload(),
		XFlow: flowPayload(xflow),
		ZFlow: flowPayload(zflow),
	}, nil)
}

func (g *graph) OddNeighbors(ctx context.Context, set mbqc.NodeSet) (mbqc.NodeSet, error) {
	var out struct {
		Nodes []int `json:"nodes"`
	}
	err := g.c.post(ctx, "/v1/graph/odd-neighbors", oddNeighborsRequest{
		Graph: g.payload(),
		Nodes: setToList(set),
	}, &out)
	if err != nil {
		return nil, err
	}
	res := make(mbqc.NodeSet, len(out.Nodes))
	for _, n := range out.Nodes {
		res[n] = struct{}{}
	}
	return res, nil
}

func (g *graph) SolveSchedule(ctx context.Context, xflow, zflow mbqc.Flow, strategy mbqc.Strategy, timeout time.Duration) (*mbqc.EngineSchedule, error) {
	var out scheduleResponse
	err := g.c.post(ctx, "/v1/schedule/solve", solveRequest{
		Graph:          g.payload(),
		XFlow:          flowPayload(xflow),
		ZFlow:          flowPayload(zflow),
		Strategy:       string(strategy),
		TimeoutSeconds: int(timeout.Seconds()),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toModel()
}

func (g *graph) ValidateSchedule(ctx context.Context, sched *mbqc.EngineSchedule, xflow mbqc.Flow) ([]string, error) {
	var out struct {
		Errors []string `json:"errors"`
	}
	err := g.c.post(ctx, "/v1/schedule/validate", validateScheduleRequest{
		Graph:    g.payload(),
		XFlow:    flowPayload(xflow),
		Schedule: scheduleFromModel(sched),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Errors, nil
}

// payload serializes the accumulated graph with deterministic ordering.
func (g *graph) payload() graphPayload {
	p := graphPayload{
		Nodes:   g.nodes,
		Edges:   g.edges,
		Inputs:  ioList(g.inputs),
		Outputs: ioList(g.outputs),
	}
	if p.Edges == nil {
		p.Edges = [][2]int{}
	}
	if p.Nodes == nil {
		p.Nodes = []nodeSpec{}
	}
	basisNodes := make([]int, 0, len(g.bases))
	for n := range g.bases {
		basisNodes = append(basisNodes, n)
	}
	sort.Ints(basisNodes)
	p.Bases = make([]nodeBasis, 0, len(basisNodes))
	for _, n := range basisNodes {
		p.Bases = append(p.Bases, nodeBasis{Node: n, Basis: g.bases[n]})
	}
	return p
}

func ioList(m map[int]int) []ioSpec {
	out := make([]ioSpec, 0, len(m))
	for node, q := range m {
		out = append(out, ioSpec{Node: node, QubitIndex: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}

func setToList(set mbqc.NodeSet) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// flowPayload renders a flow as string-keyed JSON (object keys must be
// strings) with sorted target lists. A nil flow renders as null, which
// the daemon reads as "derive it".
func flowPayload(f mbqc.Flow) map[string][]int {
	if f == nil {
		return nil
	}
	out := make(map[string][]int, len(f))
	for v, set := range f {
		out[strconv.Itoa(v)] = setToList(set)
	}
	return out
}
