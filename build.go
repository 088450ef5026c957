package mbqc

import (
	"context"
	"fmt"
)

// BuildGraph constructs the engine graph for a validated project and
// returns the graph handle plus the id map every later translation needs.
// The four passes must not be reordered: edges, role registrations, and
// basis assignments all reference nodes added in the first pass.
func BuildGraph(ctx context.Context, eng Engine, p *Project) (Graph, *IDMap, error) {
	ids, err := NewIDMap(p.Nodes)
	if err != nil {
		return nil, nil, err
	}
	g, err := eng.NewGraph(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("mbqc: new graph: %w", err)
	}

	for _, n := range p.Nodes {
		x, y, z := n.Coordinate.Lift3D()
		idx := g.AddNode(x, y, z)
		if want, _ := ids.Index(n.ID); idx != want {
			return nil, nil, fmt.Errorf("mbqc: engine assigned index %d to node %q, want %d", idx, n.ID, want)
		}
	}

	for _, e := range p.Edges {
		u, uok := ids.Index(e.Source)
		v, vok := ids.Index(e.Target)
		if !uok || !vok {
			return nil, nil, &SchemaError{Field: "edges", Msg: fmt.Sprintf("edge %q references unknown node", e.ID)}
		}
		if err := g.AddEdge(u, v); err != nil {
			return nil, nil, fmt.Errorf("mbqc: add edge %q: %w", e.ID, err)
		}
	}

	for _, n := range p.Nodes {
		if n.QubitIndex == nil {
			continue
		}
		idx, _ := ids.Index(n.ID)
		switch n.Role {
		case RoleInput:
			if err := g.RegisterInput(idx, *n.QubitIndex); err != nil {
				return nil, nil, fmt.Errorf("mbqc: register input %q: %w", n.ID, err)
			}
		case RoleOutput:
			if err := g.RegisterOutput(idx, *n.QubitIndex); err != nil {
				return nil, nil, fmt.Errorf("mbqc: register output %q: %w", n.ID, err)
			}
		}
	}

	for _, n := range p.Nodes {
		if n.MeasBasis == nil {
			continue
		}
		idx, _ := ids.Index(n.ID)
		if err := g.AssignMeasBasis(idx, *n.MeasBasis); err != nil {
			return nil, nil, fmt.Errorf("mbqc: assign basis %q: %w", n.ID, err)
		}
	}

	return g, ids, nil
}
