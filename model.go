package mbqc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Role classifies a node's position in the measurement pattern.
type Role string

const (
	RoleInput        Role = "input"
	RoleOutput       Role = "output"
	RoleIntermediate Role = "intermediate"
)

// Plane is the measurement plane of a planner basis.
type Plane string

const (
	PlaneXY Plane = "XY"
	PlaneYZ Plane = "YZ"
	PlaneXZ Plane = "XZ"
)

// Axis is a Pauli axis.
type Axis string

const (
	AxisX Axis = "X"
	AxisY Axis = "Y"
	AxisZ Axis = "Z"
)

// Sign is the direction along a Pauli axis.
type Sign string

const (
	SignPlus  Sign = "PLUS"
	SignMinus Sign = "MINUS"
)

// Coordinate is a 2D or 3D point. The dimension is fixed once at parse
// time from the presence of the "z" key, never by trial decoding.
type Coordinate struct {
	X   float64
	Y   float64
	Z   float64
	Dim int // 2 or 3; 0 means the coordinate was never parsed
}

// Lift3D returns the coordinate as a 3D point. A 2D coordinate is lifted
// with z = 0 for engines that require three dimensions.
func (c Coordinate) Lift3D() (x, y, z float64) {
	if c.Dim == 2 {
		return c.X, c.Y, 0
	}
	return c.X, c.Y, c.Z
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return &SchemaError{Field: "coordinate", Msg: "expected an object"}
	}
	if _, ok := keys["z"]; ok {
		var v struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
			Z *float64 `json:"z"`
		}
		if err := decodeStrict(data, &v); err != nil {
			return &SchemaError{Field: "coordinate", Msg: err.Error()}
		}
		if v.X == nil || v.Y == nil || v.Z == nil {
			return &SchemaError{Field: "coordinate", Msg: "3D coordinate requires x, y, and z"}
		}
		*c = Coordinate{X: *v.X, Y: *v.Y, Z: *v.Z, Dim: 3}
		return nil
	}
	var v struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := decodeStrict(data, &v); err != nil {
		return &SchemaError{Field: "coordinate", Msg: err.Error()}
	}
	if v.X == nil || v.Y == nil {
		return &SchemaError{Field: "coordinate", Msg: "2D coordinate requires x and y"}
	}
	*c = Coordinate{X: *v.X, Y: *v.Y, Dim: 2}
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if c.Dim == 3 {
		return json.Marshal(struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
			Z float64 `json:"z"`
		}{c.X, c.Y, c.Z})
	}
	return json.Marshal(struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}{c.X, c.Y})
}

// BasisKind tags the two measurement basis variants.
type BasisKind string

const (
	BasisPlanner BasisKind = "planner"
	BasisAxis    BasisKind = "axis"
)

// MeasBasis is a measurement basis: either a planner basis (plane plus
// angle coefficient) or a Pauli axis basis (axis plus sign). Kind decides
// which fields are meaningful.
type MeasBasis struct {
	Kind       BasisKind
	Plane      Plane
	AngleCoeff float64 // a in 2πa, e.g. 0.25 = π/2
	Axis       Axis
	Sign       Sign
}

// Angle returns the planner measurement angle in radians.
func (b MeasBasis) Angle() float64 {
	return 2 * math.Pi * b.AngleCoeff
}

func (b *MeasBasis) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type BasisKind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return &SchemaError{Field: "measBasis", Msg: "expected an object"}
	}
	switch tag.Type {
	case BasisPlanner:
		var v struct {
			Type       BasisKind `json:"type"`
			Plane      *Plane    `json:"plane"`
			AngleCoeff *float64  `json:"angleCoeff"`
		}
		if err := decodeStrict(data, &v); err != nil {
			return &SchemaError{Field: "measBasis", Msg: err.Error()}
		}
		if v.Plane == nil || v.AngleCoeff == nil {
			return &SchemaError{Field: "measBasis", Msg: "planner basis requires plane and angleCoeff"}
		}
		switch *v.Plane {
		case PlaneXY, PlaneYZ, PlaneXZ:
		default:
			return &SchemaError{Field: "measBasis", Msg: fmt.Sprintf("unknown plane %q", *v.Plane)}
		}
		*b = MeasBasis{Kind: BasisPlanner, Plane: *v.Plane, AngleCoeff: *v.AngleCoeff}
		return nil
	case BasisAxis:
		var v struct {
			Type BasisKind `json:"type"`
			Axis *Axis     `json:"axis"`
			Sign *Sign     `json:"sign"`
		}
		if err := decodeStrict(data, &v); err != nil {
			return &SchemaError{Field: "measBasis", Msg: err.Error()}
		}
		if v.Axis == nil || v.Sign == nil {
			return &SchemaError{Field: "measBasis", Msg: "axis basis requires axis and sign"}
		}
		switch *v.Axis {
		case AxisX, AxisY, AxisZ:
		default:
			return &SchemaError{Field: "measBasis", Msg: fmt.Sprintf("unknown axis %q", *v.Axis)}
		}
		switch *v.Sign {
		case SignPlus, SignMinus:
		default:
			return &SchemaError{Field: "measBasis", Msg: fmt.Sprintf("unknown sign %q", *v.Sign)}
		}
		*b = MeasBasis{Kind: BasisAxis, Axis: *v.Axis, Sign: *v.Sign}
		return nil
	default:
		return &SchemaError{Field: "measBasis", Msg: fmt.Sprintf("unknown basis type %q", tag.Type)}
	}
}

func (b MeasBasis) MarshalJSON() ([]byte, error) {
	if b.Kind == BasisAxis {
		return json.Marshal(struct {
			Type BasisKind `json:"type"`
			Axis Axis      `json:"axis"`
			Sign Sign      `json:"sign"`
		}{BasisAxis, b.Axis, b.Sign})
	}
	return json.Marshal(struct {
		Type       BasisKind `json:"type"`
		Plane      Plane     `json:"plane"`
		AngleCoeff float64   `json:"angleCoeff"`
	}{BasisPlanner, b.Plane, b.AngleCoeff})
}

// GraphNode is one vertex of the editor's graph.
type GraphNode struct {
	ID         string     `json:"id" validate:"required"`
	Coordinate Coordinate `json:"coordinate"`
	Role       Role       `json:"role" validate:"required,oneof=input output intermediate"`
	MeasBasis  *MeasBasis `json:"measBasis,omitempty"`
	QubitIndex *int       `json:"qubitIndex,omitempty"`
}

// GraphEdge is an undirected edge keyed by its canonical id.
type GraphEdge struct {
	ID     string `json:"id" validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// ZFlow is either the "auto" sentinel or a manual id-keyed mapping.
type ZFlow struct {
	Auto bool
	Flow map[string][]string
}

func (z *ZFlow) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "auto" {
			return &SchemaError{Field: "zflow", Msg: fmt.Sprintf("unknown sentinel %q, expected \"auto\"", s)}
		}
		*z = ZFlow{Auto: true}
		return nil
	}
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return &SchemaError{Field: "zflow", Msg: "expected \"auto\" or an object of id lists"}
	}
	*z = ZFlow{Flow: m}
	return nil
}

func (z ZFlow) MarshalJSON() ([]byte, error) {
	if z.Auto {
		return json.Marshal("auto")
	}
	if z.Flow == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(z.Flow)
}

// FlowDefinition carries the x-flow and z-flow correction mappings.
type FlowDefinition struct {
	XFlow map[string][]string `json:"xflow"`
	ZFlow ZFlow               `json:"zflow"`
}

func (f *FlowDefinition) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return &SchemaError{Field: "flow", Msg: "expected an object"}
	}
	for k := range keys {
		if k != "xflow" && k != "zflow" {
			return &SchemaError{Field: "flow", Msg: fmt.Sprintf("unknown field %q", k)}
		}
	}
	xraw, ok := keys["xflow"]
	if !ok {
		return &SchemaError{Field: "flow", Msg: "xflow is required"}
	}
	zraw, ok := keys["zflow"]
	if !ok {
		return &SchemaError{Field: "flow", Msg: "zflow is required"}
	}
	var xflow map[string][]string
	if err := json.Unmarshal(xraw, &xflow); err != nil {
		return &SchemaError{Field: "xflow", Msg: "expected an object of id lists"}
	}
	var zflow ZFlow
	if err := json.Unmarshal(zraw, &zflow); err != nil {
		return err
	}
	*f = FlowDefinition{XFlow: xflow, ZFlow: zflow}
	return nil
}

// Project is the editor's full wire payload.
type Project struct {
	Name      string         `json:"name" validate:"required"`
	Dimension int            `json:"dimension" validate:"oneof=2 3"`
	Nodes     []GraphNode    `json:"nodes" validate:"dive"`
	Edges     []GraphEdge    `json:"edges" validate:"dive"`
	Flow      FlowDefinition `json:"flow"`
}

// TimeSlice is one scheduling tick.
type TimeSlice struct {
	Time          int      `json:"time"`
	PrepareNodes  []string `json:"prepareNodes"`
	EntangleEdges []string `json:"entangleEdges"`
	MeasureNodes  []string `json:"measureNodes"`
}

// ScheduleResult is the wire form of a computed or caller-edited
// schedule. A nil time means the engine assigned none.
type ScheduleResult struct {
	PrepareTime  map[string]*int `json:"prepareTime"`
	MeasureTime  map[string]*int `json:"measureTime"`
	EntangleTime map[string]*int `json:"entangleTime"`
	Timeline     []TimeSlice     `json:"timeline"`
}

// ValidationError is one reported violation.
type ValidationError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ValidationResponse is the body of every validation-style endpoint.
type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

const edgeIDSep = "-"

// EdgeID returns the canonical id of the edge between a and b: the two
// endpoint ids sorted lexicographically and joined with "-". Symmetric
// and idempotent.
func EdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + edgeIDSep + b
}

// SplitEdgeID splits a canonical edge id into its two endpoint ids.
// Returns false unless the id splits into exactly two non-empty parts.
func SplitEdgeID(id string) (a, b string, ok bool) {
	parts := strings.Split(id, edgeIDSep)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ParseProject decodes a wire project, rejecting unknown fields at every
// nesting level, and runs full cross-field validation.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := decodeStrict(data, &p); err != nil {
		return nil, asSchemaError(err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseScheduleResult decodes a wire schedule with the same closed-schema
// discipline as ParseProject.
func ParseScheduleResult(data []byte) (*ScheduleResult, error) {
	var s ScheduleResult
	if err := decodeStrict(data, &s); err != nil {
		return nil, asSchemaError(err)
	}
	if err := s.checkRequired(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *ScheduleResult) checkRequired() error {
	if s.PrepareTime == nil || s.MeasureTime == nil || s.EntangleTime == nil {
		return &SchemaError{Field: "schedule", Msg: "prepareTime, measureTime, and entangleTime are required"}
	}
	return nil
}

// ScheduleValidateRequest pairs a project with a caller-edited schedule.
type ScheduleValidateRequest struct {
	Project  *Project        `json:"project"`
	Schedule *ScheduleResult `json:"schedule"`
}

// ParseScheduleValidateRequest decodes and validates a schedule
// validation request body.
func ParseScheduleValidateRequest(data []byte) (*ScheduleValidateRequest, error) {
	var r ScheduleValidateRequest
	if err := decodeStrict(data, &r); err != nil {
		return nil, asSchemaError(err)
	}
	if r.Project == nil {
		return nil, &SchemaError{Field: "project", Msg: "required field is missing"}
	}
	if r.Schedule == nil {
		return nil, &SchemaError{Field: "schedule", Msg: "required field is missing"}
	}
	if err := r.Project.Validate(); err != nil {
		return nil, err
	}
	if err := r.Schedule.checkRequired(); err != nil {
		return nil, err
	}
	return &r, nil
}

// decodeStrict decodes one JSON value rejecting unknown fields. The
// rejection propagates into nested structs except where a custom
// unmarshaler takes over, and those enforce their own closed shapes.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func asSchemaError(err error) error {
	var se *SchemaError
	if errors.As(err, &se) {
		return se
	}
	return &SchemaError{Msg: err.Error()}
}
