package mbqc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateErrorText(t *testing.T) {
	ids := flowIDMap(t, "in", "mid", "out")

	tests := []struct {
		name string
		msg  string
		want string
	}{
		{
			name: "node reference",
			msg:  "node 1 has no measurement basis",
			want: "node mid has no measurement basis",
		},
		{
			name: "capitalized node reference",
			msg:  "Node 0 is an input and must not be prepared",
			want: "Node in is an input and must not be prepared",
		},
		{
			name: "edge pair",
			msg:  "Edge (0, 2) has no entangle time",
			want: "Edge (in, out) has no entangle time",
		},
		{
			name: "bracketed list",
			msg:  "unsatisfied constraints on [0, 1, 2]",
			want: "unsatisfied constraints on [in, mid, out]",
		},
		{
			name: "bracketed list without spaces",
			msg:  "nodes [1,2] conflict",
			want: "nodes [mid, out] conflict",
		},
		{
			name: "unmapped index",
			msg:  "node 7 is unknown",
			want: "node ?7 is unknown",
		},
		{
			name: "mixed references",
			msg:  "node 0 must be measured before node 1; Edge (1, 2) missing",
			want: "node in must be measured before node mid; Edge (mid, out) missing",
		},
		{
			name: "no references",
			msg:  "solver returned no assignment",
			want: "solver returned no assignment",
		},
		{
			name: "bare numbers untouched",
			msg:  "expected 2 qubits",
			want: "expected 2 qubits",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateErrorText(tt.msg, ids))
		})
	}
}

func TestTranslateErrorTextNumericIDs(t *testing.T) {
	// ids that are themselves digit strings must not be re-translated by a
	// later pass
	ids := flowIDMap(t, "42")
	got := TranslateErrorText("node 0 failed", ids)
	require.Equal(t, "node 42 failed", got)
}
