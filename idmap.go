package mbqc

import "fmt"

// IDMap is the per-request bijection between wire node ids and engine
// indices. It is built once from the validated node list and is the
// single source of truth for every later translation.
type IDMap struct {
	fwd map[string]int
	rev []string
}

// NewIDMap assigns each node a fresh sequential index in list order.
// Duplicate ids are rejected: the reverse map is only the forward map's
// inverse when the forward map is injective.
func NewIDMap(nodes []GraphNode) (*IDMap, error) {
	m := &IDMap{
		fwd: make(map[string]int, len(nodes)),
		rev: make([]string, 0, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := m.fwd[n.ID]; dup {
			return nil, &SchemaError{Field: "nodes", Msg: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		m.fwd[n.ID] = len(m.rev)
		m.rev = append(m.rev, n.ID)
	}
	return m, nil
}

// Index returns the engine index for a wire id.
func (m *IDMap) Index(id string) (int, bool) {
	idx, ok := m.fwd[id]
	return idx, ok
}

// ID returns the wire id for an engine index.
func (m *IDMap) ID(index int) (string, bool) {
	if index < 0 || index >= len(m.rev) {
		return "", false
	}
	return m.rev[index], true
}

// Len returns the number of mapped nodes.
func (m *IDMap) Len() int {
	return len(m.rev)
}
