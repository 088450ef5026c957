package mbqc

import (
	"context"
	"encoding/json"
	"time"
)

// ProjectRecord is a stored editor document: the project payload plus the
// caller's last accepted schedule, if any. Payloads are validated with
// the closed-schema parser before they are persisted.
type ProjectRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
	Schedule  json.RawMessage `json:"schedule,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SaveProjectRequest is the body of a project save. The payload must be
// a valid project; the schedule, when present, a valid wire schedule.
type SaveProjectRequest struct {
	Payload  json.RawMessage `json:"payload"`
	Schedule json.RawMessage `json:"schedule,omitempty"`
}

// ParseSaveProjectRequest decodes a save request and validates the
// embedded documents before anything is persisted.
func ParseSaveProjectRequest(data []byte) (*SaveProjectRequest, error) {
	var r SaveProjectRequest
	if err := decodeStrict(data, &r); err != nil {
		return nil, asSchemaError(err)
	}
	if len(r.Payload) == 0 {
		return nil, &SchemaError{Field: "payload", Msg: "required field is missing"}
	}
	if _, err := ParseProject(r.Payload); err != nil {
		return nil, err
	}
	if len(r.Schedule) > 0 {
		if _, err := ParseScheduleResult(r.Schedule); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

// ProjectStore persists editor documents between sessions. The
// translation pipeline itself never touches storage; this is the
// editor's save/open surface.
type ProjectStore interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// SaveProject upserts a record by name and returns it with all
	// generated fields filled in.
	SaveProject(ctx context.Context, rec *ProjectRecord) (*ProjectRecord, error)

	// GetProject returns nil, nil when no record exists under name.
	GetProject(ctx context.Context, name string) (*ProjectRecord, error)

	ListProjects(ctx context.Context) ([]ProjectRecord, error)

	// DeleteProject is a no-op when the name doesn't exist.
	DeleteProject(ctx context.Context, name string) error
}
