package mbqc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Service is the per-request pipeline between the wire model and the
// engine: parse → validate → build graph → engine call → translate the
// result or error back into id space. It holds no per-request state;
// every call builds a fresh graph and id map, and any stage failing
// short-circuits before the engine is touched further.
type Service struct {
	eng  Engine
	log  *zap.Logger
	opts TranslateOptions
}

// NewService returns a Service with a no-op logger and strict translation.
func NewService(eng Engine) *Service {
	return &Service{eng: eng, log: zap.NewNop()}
}

// WithLogger sets the structured logger.
func (s *Service) WithLogger(log *zap.Logger) *Service {
	s.log = log
	return s
}

// WithLenientTranslation restores the drop-unknown-references behavior
// for callers that depend on it.
func (s *Service) WithLenientTranslation() *Service {
	s.opts.Lenient = true
	return s
}

// ValidateProject runs the engine's canonical-form and flow checks.
// Engine-reported violations come back in the response body with indices
// rewritten to node ids; schema problems in the project itself are
// returned as an error before any engine interaction.
func (s *Service) ValidateProject(ctx context.Context, p *Project) (*ValidationResponse, error) {
	g, ids, err := BuildGraph(ctx, s.eng, p)
	if err != nil {
		return nil, err
	}
	xflow, zflow, err := TranslateFlow(&p.Flow, ids, s.opts)
	if err != nil {
		return nil, err
	}
	if err := g.CheckCanonicalForm(ctx); err != nil {
		return s.checkResponse(err, ids)
	}
	if err := g.CheckFlow(ctx, xflow, zflow); err != nil {
		return s.checkResponse(err, ids)
	}
	return &ValidationResponse{Valid: true, Errors: []ValidationError{}}, nil
}

// ComputeZFlow derives the z-flow from the x-flow by the engine's
// odd-neighborhood rule and returns it keyed by node id.
func (s *Service) ComputeZFlow(ctx context.Context, p *Project) (map[string][]string, error) {
	g, ids, err := BuildGraph(ctx, s.eng, p)
	if err != nil {
		return nil, err
	}
	xflow, _, err := TranslateFlow(&p.Flow, ids, s.opts)
	if err != nil {
		return nil, err
	}
	zflow := make(Flow, len(xflow))
	for v, targets := range xflow {
		odd, err := g.OddNeighbors(ctx, targets)
		if err != nil {
			return nil, s.translated(err, ids)
		}
		zflow[v] = odd
	}
	return FlowToWire(zflow, ids), nil
}

// ComputeSchedule runs the engine's solver and translates its result.
// Solver failure (timeout or unsatisfiability) is surfaced as an error,
// never retried; resubmission is the caller's responsibility.
func (s *Service) ComputeSchedule(ctx context.Context, p *Project, strategy Strategy, timeout time.Duration) (*ScheduleResult, error) {
	g, ids, err := BuildGraph(ctx, s.eng, p)
	if err != nil {
		return nil, err
	}
	xflow, zflow, err := TranslateFlow(&p.Flow, ids, s.opts)
	if err != nil {
		return nil, err
	}
	es, err := g.SolveSchedule(ctx, xflow, zflow, strategy, timeout)
	if err != nil {
		return nil, s.translated(err, ids)
	}
	return ScheduleFromEngine(es, ids), nil
}

// ValidateSchedule checks a caller-edited schedule against the engine's
// scheduling rules and reports violations in id space.
func (s *Service) ValidateSchedule(ctx context.Context, p *Project, sched *ScheduleResult) (*ValidationResponse, error) {
	g, ids, err := BuildGraph(ctx, s.eng, p)
	if err != nil {
		return nil, err
	}
	xflow, _, err := TranslateFlow(&p.Flow, ids, s.opts)
	if err != nil {
		return nil, err
	}
	es, err := ScheduleToEngine(sched, ids, s.opts)
	if err != nil {
		return nil, err
	}
	msgs, err := g.ValidateSchedule(ctx, es, xflow)
	if err != nil {
		return nil, s.translated(err, ids)
	}
	if len(msgs) == 0 {
		return &ValidationResponse{Valid: true, Errors: []ValidationError{}}, nil
	}
	out := make([]ValidationError, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ValidationError{Type: "schedule", Message: TranslateErrorText(m, ids)})
	}
	return &ValidationResponse{Valid: false, Errors: out}, nil
}

// checkResponse turns an engine check failure into a valid:false body.
// Anything other than an *EngineError is unexpected and propagates.
func (s *Service) checkResponse(err error, ids *IDMap) (*ValidationResponse, error) {
	var ee *EngineError
	if !errors.As(err, &ee) {
		return nil, err
	}
	s.log.Debug("engine check failed",
		zap.String("kind", ee.Kind),
		zap.String("message", ee.Message),
	)
	return &ValidationResponse{
		Valid:  false,
		Errors: []ValidationError{{Type: ee.Kind, Message: TranslateErrorText(ee.Message, ids)}},
	}, nil
}

// translated rewrites the message of an *EngineError into id space and
// passes every other error through unchanged.
func (s *Service) translated(err error, ids *IDMap) error {
	var ee *EngineError
	if errors.As(err, &ee) {
		return &EngineError{Kind: ee.Kind, Message: TranslateErrorText(ee.Message, ids)}
	}
	return err
}
