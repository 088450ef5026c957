package mbqc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSolution means the engine's solver proved no schedule exists.
	ErrNoSolution = errors.New("mbqc: no schedule satisfies the constraints")

	// ErrSolveTimeout means the solver hit its deadline before deciding.
	ErrSolveTimeout = errors.New("mbqc: schedule solve timed out")
)

// SchemaError reports a payload that failed closed-schema or cross-field
// validation. It is always raised before any engine interaction.
type SchemaError struct {
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("mbqc: schema: %s: %s", e.Field, e.Msg)
	}
	return "mbqc: schema: " + e.Msg
}

// UnknownIDError reports a flow or schedule reference to a node id that
// is not part of the project.
type UnknownIDError struct {
	ID    string
	Where string // the referencing field, e.g. "xflow" or "measureTime"
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("mbqc: %s references unknown node id %q", e.Where, e.ID)
}

// EngineError carries a semantic violation reported by the engine. The
// message text is index-space; TranslateErrorText rewrites it before it
// reaches a response body.
type EngineError struct {
	Kind    string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("mbqc: engine: %s: %s", e.Kind, e.Message)
}
