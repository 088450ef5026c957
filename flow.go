package mbqc

import "sort"

// TranslateOptions control the strictness of wire→engine translation.
// The zero value fails fast on unknown node references.
type TranslateOptions struct {
	// Lenient drops references to unknown node ids instead of failing.
	Lenient bool
}

// TranslateFlow converts the wire flow to index space. Duplicate targets
// collapse into a set; target order carries no meaning downstream. When
// zflow is the "auto" sentinel the returned zflow is nil and the caller
// must ask the engine to derive it by the odd-neighborhood rule.
func TranslateFlow(f *FlowDefinition, ids *IDMap, opts TranslateOptions) (xflow, zflow Flow, err error) {
	xflow, err = translateFlowMap(f.XFlow, ids, "xflow", opts)
	if err != nil {
		return nil, nil, err
	}
	if f.ZFlow.Auto {
		return xflow, nil, nil
	}
	zflow, err = translateFlowMap(f.ZFlow.Flow, ids, "zflow", opts)
	if err != nil {
		return nil, nil, err
	}
	return xflow, zflow, nil
}

func translateFlowMap(m map[string][]string, ids *IDMap, where string, opts TranslateOptions) (Flow, error) {
	out := make(Flow, len(m))
	for id, targets := range m {
		idx, ok := ids.Index(id)
		if !ok {
			if opts.Lenient {
				continue
			}
			return nil, &UnknownIDError{ID: id, Where: where}
		}
		set := make(NodeSet, len(targets))
		for _, t := range targets {
			ti, ok := ids.Index(t)
			if !ok {
				if opts.Lenient {
					continue
				}
				return nil, &UnknownIDError{ID: t, Where: where}
			}
			set[ti] = struct{}{}
		}
		out[idx] = set
	}
	return out, nil
}

// FlowToWire converts an index-space flow back to the wire shape. Target
// lists are sorted for deterministic output. Indices the reverse map
// cannot resolve are engine-produced and dropped defensively.
func FlowToWire(f Flow, ids *IDMap) map[string][]string {
	out := make(map[string][]string, len(f))
	for idx, set := range f {
		id, ok := ids.ID(idx)
		if !ok {
			continue
		}
		targets := make([]string, 0, len(set))
		for t := range set {
			if tid, ok := ids.ID(t); ok {
				targets = append(targets, tid)
			}
		}
		sort.Strings(targets)
		out[id] = targets
	}
	return out
}
