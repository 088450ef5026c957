package mbqc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Coordinate
		wantErr bool
	}{
		{
			name:  "2D",
			input: `{"x": 1.5, "y": -2}`,
			want:  Coordinate{X: 1.5, Y: -2, Dim: 2},
		},
		{
			name:  "3D",
			input: `{"x": 1, "y": 2, "z": 3}`,
			want:  Coordinate{X: 1, Y: 2, Z: 3, Dim: 3},
		},
		{
			name:  "3D with zero z stays 3D",
			input: `{"x": 1, "y": 2, "z": 0}`,
			want:  Coordinate{X: 1, Y: 2, Z: 0, Dim: 3},
		},
		{
			name:    "unknown field",
			input:   `{"x": 1, "y": 2, "w": 3}`,
			wantErr: true,
		},
		{
			name:    "missing y",
			input:   `{"x": 1}`,
			wantErr: true,
		},
		{
			name:    "missing y with z present",
			input:   `{"x": 1, "z": 3}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			input:   `[1, 2]`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Coordinate
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestCoordinateMarshal(t *testing.T) {
	out, err := json.Marshal(Coordinate{X: 1, Y: 2, Dim: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1, "y": 2}`, string(out))

	out, err = json.Marshal(Coordinate{X: 1, Y: 2, Z: 0, Dim: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1, "y": 2, "z": 0}`, string(out))
}

func TestMeasBasisUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MeasBasis
		wantErr bool
	}{
		{
			name:  "planner",
			input: `{"type": "planner", "plane": "XY", "angleCoeff": 0.25}`,
			want:  MeasBasis{Kind: BasisPlanner, Plane: PlaneXY, AngleCoeff: 0.25},
		},
		{
			name:  "axis",
			input: `{"type": "axis", "axis": "Z", "sign": "MINUS"}`,
			want:  MeasBasis{Kind: BasisAxis, Axis: AxisZ, Sign: SignMinus},
		},
		{
			name:    "unknown type",
			input:   `{"type": "magic"}`,
			wantErr: true,
		},
		{
			name:    "planner with axis field",
			input:   `{"type": "planner", "plane": "XY", "angleCoeff": 0, "axis": "X"}`,
			wantErr: true,
		},
		{
			name:    "planner missing angleCoeff",
			input:   `{"type": "planner", "plane": "XY"}`,
			wantErr: true,
		},
		{
			name:    "bad plane",
			input:   `{"type": "planner", "plane": "ZZ", "angleCoeff": 0}`,
			wantErr: true,
		},
		{
			name:    "bad sign",
			input:   `{"type": "axis", "axis": "X", "sign": "UP"}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b MeasBasis
			err := json.Unmarshal([]byte(tt.input), &b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestMeasBasisAngle(t *testing.T) {
	b := MeasBasis{Kind: BasisPlanner, Plane: PlaneXY, AngleCoeff: 0.5}
	assert.InDelta(t, 3.14159265, b.Angle(), 1e-8)
}

func TestZFlowUnmarshal(t *testing.T) {
	var z ZFlow
	require.NoError(t, json.Unmarshal([]byte(`"auto"`), &z))
	assert.True(t, z.Auto)

	require.NoError(t, json.Unmarshal([]byte(`{"n0": ["n1", "n2"]}`), &z))
	assert.False(t, z.Auto)
	assert.Equal(t, map[string][]string{"n0": {"n1", "n2"}}, z.Flow)

	require.Error(t, json.Unmarshal([]byte(`"manual"`), &z))
	require.Error(t, json.Unmarshal([]byte(`42`), &z))
}

func TestZFlowMarshal(t *testing.T) {
	out, err := json.Marshal(ZFlow{Auto: true})
	require.NoError(t, err)
	assert.Equal(t, `"auto"`, string(out))

	out, err = json.Marshal(ZFlow{Flow: map[string][]string{"a": {"b"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": ["b"]}`, string(out))
}

func TestParseProject(t *testing.T) {
	p, err := ParseProject([]byte(sampleProjectJSON))
	require.NoError(t, err)
	assert.Equal(t, "bell-pair", p.Name)
	assert.Equal(t, 2, p.Dimension)
	require.Len(t, p.Nodes, 2)
	assert.Equal(t, RoleInput, p.Nodes[0].Role)
	require.NotNil(t, p.Nodes[0].MeasBasis)
	assert.True(t, p.Flow.ZFlow.Auto)
}

func TestParseProjectRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "top level",
			input: `{"name": "p", "dimension": 2, "nodes": [], "edges": [], "flow": {"xflow": {}, "zflow": "auto"}, "extra": 1}`,
		},
		{
			name: "inside node",
			input: `{"name": "p", "dimension": 2, "nodes": [
				{"id": "n0", "coordinate": {"x": 0, "y": 0}, "role": "output", "qubitIndex": 0, "color": "red"}
			], "edges": [], "flow": {"xflow": {}, "zflow": "auto"}}`,
		},
		{
			name: "inside edge",
			input: `{"name": "p", "dimension": 2, "nodes": [], "edges": [
				{"id": "a-b", "source": "a", "target": "b", "weight": 2}
			], "flow": {"xflow": {}, "zflow": "auto"}}`,
		},
		{
			name:  "inside flow",
			input: `{"name": "p", "dimension": 2, "nodes": [], "edges": [], "flow": {"xflow": {}, "zflow": "auto", "wflow": {}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProject([]byte(tt.input))
			require.Error(t, err)
			var se *SchemaError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestParseProjectRequiresFlowFields(t *testing.T) {
	_, err := ParseProject([]byte(`{"name": "p", "dimension": 2, "nodes": [], "edges": [], "flow": {"xflow": {}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zflow")
}

func TestEdgeID(t *testing.T) {
	assert.Equal(t, "a-b", EdgeID("a", "b"))
	assert.Equal(t, "a-b", EdgeID("b", "a"))

	pairs := [][2]string{{"n0", "n1"}, {"x", "x"}, {"q10", "q2"}, {"", "z"}}
	for _, p := range pairs {
		// symmetric
		assert.Equal(t, EdgeID(p[0], p[1]), EdgeID(p[1], p[0]))
		// idempotent under re-normalization of its endpoints
		a, b := p[0], p[1]
		if b < a {
			a, b = b, a
		}
		assert.Equal(t, EdgeID(p[0], p[1]), EdgeID(a, b))
	}
}

func TestSplitEdgeID(t *testing.T) {
	a, b, ok := SplitEdgeID("n0-n1")
	require.True(t, ok)
	assert.Equal(t, "n0", a)
	assert.Equal(t, "n1", b)

	for _, bad := range []string{"n0", "n0-n1-n2", "-n1", "n0-", ""} {
		_, _, ok := SplitEdgeID(bad)
		assert.False(t, ok, "SplitEdgeID(%q)", bad)
	}
}

func TestParseScheduleResult(t *testing.T) {
	s, err := ParseScheduleResult([]byte(`{
		"prepareTime": {"n0": null, "n1": 0},
		"measureTime": {"n0": 2},
		"entangleTime": {"n0-n1": 1},
		"timeline": [{"time": 0, "prepareNodes": ["n1"], "entangleEdges": [], "measureNodes": []}]
	}`))
	require.NoError(t, err)
	assert.Nil(t, s.PrepareTime["n0"])
	require.NotNil(t, s.PrepareTime["n1"])
	assert.Equal(t, 0, *s.PrepareTime["n1"])

	_, err = ParseScheduleResult([]byte(`{"prepareTime": {}}`))
	require.Error(t, err)

	_, err = ParseScheduleResult([]byte(`{"prepareTime": {}, "measureTime": {}, "entangleTime": {}, "timeline": [], "extra": 1}`))
	require.Error(t, err)
}

const sampleProjectJSON = `{
	"name": "bell-pair",
	"dimension": 2,
	"nodes": [
		{"id": "n0", "coordinate": {"x": 0, "y": 0}, "role": "input",
		 "measBasis": {"type": "planner", "plane": "XY", "angleCoeff": 0},
		 "qubitIndex": 0},
		{"id": "n1", "coordinate": {"x": 1, "y": 0}, "role": "output", "qubitIndex": 0}
	],
	"edges": [{"id": "n0-n1", "source": "n0", "target": "n1"}],
	"flow": {"xflow": {"n0": ["n1"]}, "zflow": "auto"}
}`
