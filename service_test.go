package mbqc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/mbqc"
	"github.com/meikuraledutech/mbqc/enginetest"
)

func ip(v int) *int { return &v }

func inputNode(id string, x float64, qubit int) mbqc.GraphNode {
	return mbqc.GraphNode{
		ID:         id,
		Coordinate: mbqc.Coordinate{X: x, Dim: 2},
		Role:       mbqc.RoleInput,
		MeasBasis:  &mbqc.MeasBasis{Kind: mbqc.BasisPlanner, Plane: mbqc.PlaneXY},
		QubitIndex: ip(qubit),
	}
}

func outputNode(id string, x float64, qubit int) mbqc.GraphNode {
	return mbqc.GraphNode{
		ID:         id,
		Coordinate: mbqc.Coordinate{X: x, Dim: 2},
		Role:       mbqc.RoleOutput,
		QubitIndex: ip(qubit),
	}
}

func midNode(id string, x float64) mbqc.GraphNode {
	return mbqc.GraphNode{
		ID:         id,
		Coordinate: mbqc.Coordinate{X: x, Dim: 2},
		Role:       mbqc.RoleIntermediate,
		MeasBasis:  &mbqc.MeasBasis{Kind: mbqc.BasisAxis, Axis: mbqc.AxisX, Sign: mbqc.SignPlus},
	}
}

// bellProject is the two-node pattern: one measured input feeding one
// output, with the z-flow left to the engine.
func bellProject() *mbqc.Project {
	return &mbqc.Project{
		Name:      "bell",
		Dimension: 2,
		Nodes:     []mbqc.GraphNode{inputNode("n0", 0, 0), outputNode("n1", 1, 0)},
		Edges:     []mbqc.GraphEdge{{ID: "n0-n1", Source: "n0", Target: "n1"}},
		Flow: mbqc.FlowDefinition{
			XFlow: map[string][]string{"n0": {"n1"}},
			ZFlow: mbqc.ZFlow{Auto: true},
		},
	}
}

func TestServiceValidateProject(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	resp, err := svc.ValidateProject(context.Background(), bellProject())
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
}

func TestServiceValidateProjectEmpty(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	p := &mbqc.Project{
		Name:      "empty",
		Dimension: 2,
		Nodes:     []mbqc.GraphNode{},
		Edges:     []mbqc.GraphEdge{},
		Flow:      mbqc.FlowDefinition{XFlow: map[string][]string{}, ZFlow: mbqc.ZFlow{Auto: true}},
	}
	resp, err := svc.ValidateProject(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
}

func TestServiceValidateProjectNonCanonical(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	p := bellProject()
	// a non-output node without a basis breaks canonical form
	p.Nodes = append(p.Nodes, mbqc.GraphNode{
		ID:         "n2",
		Coordinate: mbqc.Coordinate{X: 2, Dim: 2},
		Role:       mbqc.RoleIntermediate,
	})

	resp, err := svc.ValidateProject(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "validation", resp.Errors[0].Type)
	assert.Equal(t, "node n2 has no measurement basis", resp.Errors[0].Message)
}

func TestServiceValidateProjectEngineReject(t *testing.T) {
	eng := enginetest.New()
	eng.FlowErr = &mbqc.EngineError{Kind: "validation", Message: "node 1 is an output and cannot carry corrections"}
	svc := mbqc.NewService(eng)

	resp, err := svc.ValidateProject(context.Background(), bellProject())
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "validation", resp.Errors[0].Type)
	// indices rewritten to wire ids
	assert.Equal(t, "node n1 is an output and cannot carry corrections", resp.Errors[0].Message)
}

func TestServiceValidateProjectUnknownFlowID(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	p := bellProject()
	p.Flow.XFlow["ghost"] = []string{"n1"}

	_, err := svc.ValidateProject(context.Background(), p)
	var uerr *mbqc.UnknownIDError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "ghost", uerr.ID)
}

func TestServiceComputeZFlow(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	p := &mbqc.Project{
		Name:      "path",
		Dimension: 2,
		Nodes: []mbqc.GraphNode{
			inputNode("n0", 0, 0),
			midNode("n1", 1),
			outputNode("n2", 2, 0),
		},
		Edges: []mbqc.GraphEdge{
			{ID: "n0-n1", Source: "n0", Target: "n1"},
			{ID: "n1-n2", Source: "n1", Target: "n2"},
		},
		Flow: mbqc.FlowDefinition{
			XFlow: map[string][]string{"n0": {"n1"}},
			ZFlow: mbqc.ZFlow{Auto: true},
		},
	}

	zflow, err := svc.ComputeZFlow(context.Background(), p)
	require.NoError(t, err)
	// odd neighborhood of {n1} on the path n0-n1-n2
	assert.Equal(t, map[string][]string{"n0": {"n0", "n2"}}, zflow)
}

func TestServiceComputeSchedule(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	s, err := svc.ComputeSchedule(context.Background(), bellProject(), mbqc.MinimizeSpace, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, map[string]*int{"n0": nil, "n1": ip(0)}, s.PrepareTime)
	assert.Equal(t, map[string]*int{"n0-n1": ip(1)}, s.EntangleTime)
	assert.Equal(t, map[string]*int{"n0": ip(2), "n1": nil}, s.MeasureTime)

	require.Len(t, s.Timeline, 3)
	for i, sl := range s.Timeline {
		assert.Equal(t, i, sl.Time)
	}
	assert.Equal(t, []string{"n1"}, s.Timeline[0].PrepareNodes)
	assert.Equal(t, []string{"n0-n1"}, s.Timeline[1].EntangleEdges)
	assert.Equal(t, []string{"n0"}, s.Timeline[2].MeasureNodes)
}

func TestServiceComputeScheduleSolverFailure(t *testing.T) {
	eng := enginetest.New()
	eng.SolveErr = mbqc.ErrNoSolution
	svc := mbqc.NewService(eng)

	_, err := svc.ComputeSchedule(context.Background(), bellProject(), mbqc.MinimizeTime, time.Minute)
	assert.ErrorIs(t, err, mbqc.ErrNoSolution)

	eng.SolveErr = mbqc.ErrSolveTimeout
	_, err = svc.ComputeSchedule(context.Background(), bellProject(), mbqc.MinimizeTime, time.Minute)
	assert.ErrorIs(t, err, mbqc.ErrSolveTimeout)
}

func TestServiceValidateScheduleAccepts(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	p := bellProject()
	s, err := svc.ComputeSchedule(context.Background(), p, mbqc.MinimizeSpace, time.Minute)
	require.NoError(t, err)

	resp, err := svc.ValidateSchedule(context.Background(), p, s)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
}

func TestServiceValidateScheduleTampered(t *testing.T) {
	svc := mbqc.NewService(enginetest.New())
	p := bellProject()
	s, err := svc.ComputeSchedule(context.Background(), p, mbqc.MinimizeSpace, time.Minute)
	require.NoError(t, err)

	// measure the output node before its edge is entangled
	s.MeasureTime["n1"] = ip(0)

	resp, err := svc.ValidateSchedule(context.Background(), p, s)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Errors)

	var messages []string
	for _, e := range resp.Errors {
		assert.Equal(t, "schedule", e.Type)
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "node n1 is an output and must not be measured")
	assert.Contains(t, messages, "Edge (n0, n1) must be entangled before node n1 is measured")
	for _, m := range messages {
		// violations reach the caller in id space, never raw indices
		assert.NotContains(t, m, "node 0")
		assert.NotContains(t, m, "node 1")
	}
}

func TestServiceLenientTranslation(t *testing.T) {
	svc := mbqc.NewService(enginetest.New()).WithLenientTranslation()
	p := bellProject()
	p.Flow.XFlow["ghost"] = []string{"n1"}

	resp, err := svc.ValidateProject(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
}
