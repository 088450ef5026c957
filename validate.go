package mbqc

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var fieldValidator = validator.New()

// Validate enforces the project's cross-field invariants after per-field
// parsing. Order matters: the duplicate-id check runs first because every
// later component assumes the id→index mapping is injective.
func (p *Project) Validate() error {
	if err := fieldValidator.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &SchemaError{Field: fe.Field(), Msg: fmt.Sprintf("failed %q validation", fe.Tag())}
		}
		return &SchemaError{Msg: err.Error()}
	}
	if p.Nodes == nil {
		return &SchemaError{Field: "nodes", Msg: "required field is missing"}
	}
	if p.Edges == nil {
		return &SchemaError{Field: "edges", Msg: "required field is missing"}
	}
	if p.Flow.XFlow == nil {
		return &SchemaError{Field: "flow", Msg: "xflow is required"}
	}

	ids := make(map[string]struct{}, len(p.Nodes))
	for _, n := range p.Nodes {
		if _, dup := ids[n.ID]; dup {
			return &SchemaError{Field: "nodes", Msg: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		ids[n.ID] = struct{}{}
	}

	for i := range p.Nodes {
		if err := validateNode(&p.Nodes[i]); err != nil {
			return err
		}
	}

	for i := range p.Edges {
		if err := validateEdge(&p.Edges[i], ids); err != nil {
			return err
		}
	}
	return nil
}

// validateNode checks the role table:
//
//	input        ⇒ measBasis present, qubitIndex present
//	output       ⇒ measBasis absent,  qubitIndex present
//	intermediate ⇒ measBasis present, qubitIndex absent
func validateNode(n *GraphNode) error {
	if n.Coordinate.Dim == 0 {
		return &SchemaError{Field: "nodes", Msg: fmt.Sprintf("node %q: coordinate is required", n.ID)}
	}
	switch n.Role {
	case RoleInput:
		if n.MeasBasis == nil {
			return nodeRoleError(n, "requires measBasis")
		}
		if n.QubitIndex == nil {
			return nodeRoleError(n, "requires qubitIndex")
		}
	case RoleOutput:
		if n.MeasBasis != nil {
			return nodeRoleError(n, "must not have measBasis")
		}
		if n.QubitIndex == nil {
			return nodeRoleError(n, "requires qubitIndex")
		}
	case RoleIntermediate:
		if n.MeasBasis == nil {
			return nodeRoleError(n, "requires measBasis")
		}
		if n.QubitIndex != nil {
			return nodeRoleError(n, "must not have qubitIndex")
		}
	}
	return nil
}

func nodeRoleError(n *GraphNode, what string) error {
	return &SchemaError{Field: "nodes", Msg: fmt.Sprintf("node %q: role %s %s", n.ID, n.Role, what)}
}

func validateEdge(e *GraphEdge, ids map[string]struct{}) error {
	if _, ok := ids[e.Source]; !ok {
		return &SchemaError{Field: "edges", Msg: fmt.Sprintf("edge %q references unknown node %q", e.ID, e.Source)}
	}
	if _, ok := ids[e.Target]; !ok {
		return &SchemaError{Field: "edges", Msg: fmt.Sprintf("edge %q references unknown node %q", e.ID, e.Target)}
	}
	if want := EdgeID(e.Source, e.Target); e.ID != want {
		return &SchemaError{Field: "edges", Msg: fmt.Sprintf("edge id must be canonical: expected %q, got %q", want, e.ID)}
	}
	return nil
}
