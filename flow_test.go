package mbqc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flowIDMap(t *testing.T, ids ...string) *IDMap {
	t.Helper()
	nodes := make([]GraphNode, len(ids))
	for i, id := range ids {
		nodes[i] = GraphNode{ID: id}
	}
	m, err := NewIDMap(nodes)
	require.NoError(t, err)
	return m
}

func TestTranslateFlowCollapsesDuplicates(t *testing.T) {
	ids := flowIDMap(t, "n0", "n1", "n2")
	f := &FlowDefinition{
		XFlow: map[string][]string{"n0": {"n1", "n2", "n1"}},
		ZFlow: ZFlow{Flow: map[string][]string{"n1": {"n2"}}},
	}
	xflow, zflow, err := TranslateFlow(f, ids, TranslateOptions{})
	require.NoError(t, err)
	assert.Equal(t, Flow{0: NodeSet{1: {}, 2: {}}}, xflow)
	assert.Equal(t, Flow{1: NodeSet{2: {}}}, zflow)
}

func TestTranslateFlowAuto(t *testing.T) {
	ids := flowIDMap(t, "n0", "n1")
	f := &FlowDefinition{
		XFlow: map[string][]string{"n0": {"n1"}},
		ZFlow: ZFlow{Auto: true},
	}
	xflow, zflow, err := TranslateFlow(f, ids, TranslateOptions{})
	require.NoError(t, err)
	assert.Nil(t, zflow)
	assert.Equal(t, Flow{0: NodeSet{1: {}}}, xflow)
}

func TestTranslateFlowUnknownID(t *testing.T) {
	ids := flowIDMap(t, "n0", "n1")

	f := &FlowDefinition{
		XFlow: map[string][]string{"ghost": {"n1"}},
		ZFlow: ZFlow{Auto: true},
	}
	_, _, err := TranslateFlow(f, ids, TranslateOptions{})
	var uerr *UnknownIDError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "ghost", uerr.ID)
	assert.Equal(t, "xflow", uerr.Where)

	f.XFlow = map[string][]string{"n0": {"ghost"}}
	_, _, err = TranslateFlow(f, ids, TranslateOptions{})
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "ghost", uerr.ID)
}

func TestTranslateFlowLenient(t *testing.T) {
	ids := flowIDMap(t, "n0", "n1")
	f := &FlowDefinition{
		XFlow: map[string][]string{"ghost": {"n1"}, "n0": {"n1", "ghost"}},
		ZFlow: ZFlow{Auto: true},
	}
	xflow, _, err := TranslateFlow(f, ids, TranslateOptions{Lenient: true})
	require.NoError(t, err)
	assert.Equal(t, Flow{0: NodeSet{1: {}}}, xflow)
}

func TestFlowToWire(t *testing.T) {
	ids := flowIDMap(t, "n0", "n1", "n2")
	f := Flow{
		0: NodeSet{2: {}, 1: {}},
		5: NodeSet{1: {}}, // unknown index, dropped
		1: NodeSet{0: {}, 9: {}},
	}
	wire := FlowToWire(f, ids)
	assert.Equal(t, map[string][]string{
		"n0": {"n1", "n2"},
		"n1": {"n0"},
	}, wire)
}
