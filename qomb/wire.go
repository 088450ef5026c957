package qomb

import (
	"fmt"
	"strconv"

	"github.com/meikuraledutech/mbqc"
)

// Daemon wire shapes. Planner bases carry the measurement angle in
// radians (2π times the wire angle coefficient); the conversion happens
// once, here, at the boundary.

type nodeSpec struct {
	Coordinate [3]float64 `json:"coordinate"`
}

type ioSpec struct {
	Node       int `json:"node"`
	QubitIndex int `json:"qubitIndex"`
}

type basisSpec struct {
	Type  string  `json:"type"`
	Plane string  `json:"plane,omitempty"`
	Angle float64 `json:"angle,omitempty"`
	Axis  string  `json:"axis,omitempty"`
	Sign  string  `json:"sign,omitempty"`
}

type nodeBasis struct {
	Node  int       `json:"node"`
	Basis basisSpec `json:"basis"`
}

type graphPayload struct {
	Nodes   []nodeSpec  `json:"nodes"`
	Edges   [][2]int    `json:"edges"`
	Inputs  []ioSpec    `json:"inputs"`
	Outputs []ioSpec    `json:"outputs"`
	Bases   []nodeBasis `json:"bases"`
}

type checkRequest struct {
	Graph graphPayload     `json:"graph"`
	XFlow map[string][]int `json:"xflow,omitempty"`
	ZFlow map[string][]int `json:"zflow,omitempty"`
}

type oddNeighborsRequest struct {
	Graph graphPayload `json:"graph"`
	Nodes []int        `json:"nodes"`
}

type solveRequest struct {
	Graph          graphPayload     `json:"graph"`
	XFlow          map[string][]int `json:"xflow"`
	ZFlow          map[string][]int `json:"zflow,omitempty"`
	Strategy       string           `json:"strategy"`
	TimeoutSeconds int              `json:"timeoutSeconds"`
}

type validateScheduleRequest struct {
	Graph    graphPayload     `json:"graph"`
	XFlow    map[string][]int `json:"xflow"`
	Schedule schedulePayload  `json:"schedule"`
}

type entangleEntry struct {
	U    int  `json:"u"`
	V    int  `json:"v"`
	Time *int `json:"time"`
}

type slicePayload struct {
	PrepareNodes  []int    `json:"prepareNodes"`
	EntangleEdges [][2]int `json:"entangleEdges"`
	MeasureNodes  []int    `json:"measureNodes"`
}

type schedulePayload struct {
	PrepareTime  map[string]*int `json:"prepareTime"`
	MeasureTime  map[string]*int `json:"measureTime"`
	EntangleTime []entangleEntry `json:"entangleTime"`
	Timeline     []slicePayload  `json:"timeline"`
}

type scheduleResponse = schedulePayload

func basisFromModel(b mbqc.MeasBasis) basisSpec {
	if b.Kind == mbqc.BasisAxis {
		return basisSpec{Type: "axis", Axis: string(b.Axis), Sign: string(b.Sign)}
	}
	return basisSpec{Type: "planner", Plane: string(b.Plane), Angle: b.Angle()}
}

func scheduleFromModel(es *mbqc.EngineSchedule) schedulePayload {
	out := schedulePayload{
		PrepareTime:  nodeTimes(es.PrepareTime),
		MeasureTime:  nodeTimes(es.MeasureTime),
		EntangleTime: make([]entangleEntry, 0, len(es.EntangleTime)),
		Timeline:     make([]slicePayload, 0, len(es.Timeline)),
	}
	for k, t := range es.EntangleTime {
		out.EntangleTime = append(out.EntangleTime, entangleEntry{U: k.U, V: k.V, Time: t})
	}
	for _, sl := range es.Timeline {
		sp := slicePayload{
			PrepareNodes:  sl.PrepareNodes,
			MeasureNodes:  sl.MeasureNodes,
			EntangleEdges: make([][2]int, 0, len(sl.EntangleEdges)),
		}
		for _, k := range sl.EntangleEdges {
			sp.EntangleEdges = append(sp.EntangleEdges, [2]int{k.U, k.V})
		}
		out.Timeline = append(out.Timeline, sp)
	}
	return out
}

func (r *schedulePayload) toModel() (*mbqc.EngineSchedule, error) {
	es := &mbqc.EngineSchedule{
		PrepareTime:  map[int]*int{},
		MeasureTime:  map[int]*int{},
		EntangleTime: map[mbqc.EdgeKey]*int{},
		Timeline:     make([]mbqc.EngineSlice, 0, len(r.Timeline)),
	}
	var err error
	if es.PrepareTime, err = indexTimes(r.PrepareTime); err != nil {
		return nil, err
	}
	if es.MeasureTime, err = indexTimes(r.MeasureTime); err != nil {
		return nil, err
	}
	for _, e := range r.EntangleTime {
		es.EntangleTime[mbqc.NewEdgeKey(e.U, e.V)] = e.Time
	}
	for _, sl := range r.Timeline {
		esl := mbqc.EngineSlice{
			PrepareNodes: sl.PrepareNodes,
			MeasureNodes: sl.MeasureNodes,
		}
		for _, e := range sl.EntangleEdges {
			esl.EntangleEdges = append(esl.EntangleEdges, mbqc.NewEdgeKey(e[0], e[1]))
		}
		es.Timeline = append(es.Timeline, esl)
	}
	return es, nil
}

func nodeTimes(m map[int]*int) map[string]*int {
	out := make(map[string]*int, len(m))
	for idx, t := range m {
		out[strconv.Itoa(idx)] = t
	}
	return out
}

func indexTimes(m map[string]*int) (map[int]*int, error) {
	out := make(map[int]*int, len(m))
	for key, t := range m {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("qomb: non-integer node key %q in schedule", key)
		}
		out[idx] = t
	}
	return out, nil
}
