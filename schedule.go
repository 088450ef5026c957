package mbqc

import (
	"fmt"
	"sort"
)

// ScheduleFromEngine converts the solver's index-space result into the
// wire schedule. Entries the reverse map cannot resolve are dropped
// defensively, canonical edge ids are rebuilt from the mapped endpoints,
// id lists are sorted, and timeline slices are renumbered 0..k-1 by
// position regardless of any time label carried upstream.
func ScheduleFromEngine(es *EngineSchedule, ids *IDMap) *ScheduleResult {
	out := &ScheduleResult{
		PrepareTime:  nodeTimesToWire(es.PrepareTime, ids),
		MeasureTime:  nodeTimesToWire(es.MeasureTime, ids),
		EntangleTime: make(map[string]*int, len(es.EntangleTime)),
		Timeline:     make([]TimeSlice, 0, len(es.Timeline)),
	}
	for k, t := range es.EntangleTime {
		a, aok := ids.ID(k.U)
		b, bok := ids.ID(k.V)
		if !aok || !bok {
			continue
		}
		out.EntangleTime[EdgeID(a, b)] = t
	}
	for i, sl := range es.Timeline {
		out.Timeline = append(out.Timeline, TimeSlice{
			Time:          i,
			PrepareNodes:  indicesToIDs(sl.PrepareNodes, ids),
			EntangleEdges: edgeKeysToIDs(sl.EntangleEdges, ids),
			MeasureNodes:  indicesToIDs(sl.MeasureNodes, ids),
		})
	}
	return out
}

// ScheduleToEngine converts a caller-edited wire schedule back to index
// space for engine validation. Unknown node ids and edge keys that do not
// split into exactly two known ids fail fast unless opts.Lenient is set;
// endpoint pairs are reordered into canonical (min, max) form.
func ScheduleToEngine(s *ScheduleResult, ids *IDMap, opts TranslateOptions) (*EngineSchedule, error) {
	es := &EngineSchedule{
		PrepareTime:  make(map[int]*int, len(s.PrepareTime)),
		MeasureTime:  make(map[int]*int, len(s.MeasureTime)),
		EntangleTime: make(map[EdgeKey]*int, len(s.EntangleTime)),
		Timeline:     make([]EngineSlice, 0, len(s.Timeline)),
	}
	if err := nodeTimesToEngine(s.PrepareTime, ids, "prepareTime", opts, es.PrepareTime); err != nil {
		return nil, err
	}
	if err := nodeTimesToEngine(s.MeasureTime, ids, "measureTime", opts, es.MeasureTime); err != nil {
		return nil, err
	}
	for key, t := range s.EntangleTime {
		k, ok := edgeKeyFromID(key, ids)
		if !ok {
			if opts.Lenient {
				continue
			}
			return nil, &SchemaError{Field: "entangleTime", Msg: fmt.Sprintf("%q is not a canonical edge id over known nodes", key)}
		}
		es.EntangleTime[k] = t
	}
	for _, sl := range s.Timeline {
		esl := EngineSlice{}
		var err error
		if esl.PrepareNodes, err = idsToIndices(sl.PrepareNodes, ids, "timeline", opts); err != nil {
			return nil, err
		}
		if esl.MeasureNodes, err = idsToIndices(sl.MeasureNodes, ids, "timeline", opts); err != nil {
			return nil, err
		}
		for _, key := range sl.EntangleEdges {
			k, ok := edgeKeyFromID(key, ids)
			if !ok {
				if opts.Lenient {
					continue
				}
				return nil, &SchemaError{Field: "timeline", Msg: fmt.Sprintf("%q is not a canonical edge id over known nodes", key)}
			}
			esl.EntangleEdges = append(esl.EntangleEdges, k)
		}
		es.Timeline = append(es.Timeline, esl)
	}
	return es, nil
}

func nodeTimesToWire(m map[int]*int, ids *IDMap) map[string]*int {
	out := make(map[string]*int, len(m))
	for idx, t := range m {
		if id, ok := ids.ID(idx); ok {
			out[id] = t
		}
	}
	return out
}

func nodeTimesToEngine(m map[string]*int, ids *IDMap, where string, opts TranslateOptions, out map[int]*int) error {
	for id, t := range m {
		idx, ok := ids.Index(id)
		if !ok {
			if opts.Lenient {
				continue
			}
			return &UnknownIDError{ID: id, Where: where}
		}
		out[idx] = t
	}
	return nil
}

func indicesToIDs(indices []int, ids *IDMap) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if id, ok := ids.ID(idx); ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func idsToIndices(nodeIDs []string, ids *IDMap, where string, opts TranslateOptions) ([]int, error) {
	out := make([]int, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		idx, ok := ids.Index(id)
		if !ok {
			if opts.Lenient {
				continue
			}
			return nil, &UnknownIDError{ID: id, Where: where}
		}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out, nil
}

func edgeKeysToIDs(keys []EdgeKey, ids *IDMap) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		a, aok := ids.ID(k.U)
		b, bok := ids.ID(k.V)
		if !aok || !bok {
			continue
		}
		out = append(out, EdgeID(a, b))
	}
	sort.Strings(out)
	return out
}

func edgeKeyFromID(id string, ids *IDMap) (EdgeKey, bool) {
	a, b, ok := SplitEdgeID(id)
	if !ok {
		return EdgeKey{}, false
	}
	u, uok := ids.Index(a)
	v, vok := ids.Index(b)
	if !uok || !vok {
		return EdgeKey{}, false
	}
	return NewEdgeKey(u, v), true
}
