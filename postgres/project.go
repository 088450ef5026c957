package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/mbqc"
)

// SaveProject upserts a record by name. A record saved under a new name
// gets an auto-generated UUID; saving an existing name replaces its
// payload and schedule and bumps updated_at.
// Returns the record with all generated fields filled in.
func (s *PGStore) SaveProject(ctx context.Context, rec *mbqc.ProjectRecord) (*mbqc.ProjectRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO projects (id, name, payload, schedule)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE
		   SET payload = EXCLUDED.payload,
		       schedule = EXCLUDED.schedule,
		       updated_at = NOW()
		 RETURNING id, name, payload, schedule, created_at, updated_at`,
		rec.ID, rec.Name, rec.Payload, rec.Schedule,
	)

	var out mbqc.ProjectRecord
	if err := row.Scan(&out.ID, &out.Name, &out.Payload, &out.Schedule, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("mbqc: save project %q: %w", rec.Name, err)
	}
	return &out, nil
}

// GetProject fetches a record by name.
// Returns nil, nil if not found.
func (s *PGStore) GetProject(ctx context.Context, name string) (*mbqc.ProjectRecord, error) {
	var rec mbqc.ProjectRecord
	err := s.db.QueryRow(ctx,
		`SELECT id, name, payload, schedule, created_at, updated_at FROM projects WHERE name = $1`, name,
	).Scan(&rec.ID, &rec.Name, &rec.Payload, &rec.Schedule, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mbqc: get project %q: %w", name, err)
	}

	return &rec, nil
}

// ListProjects returns all records ordered by name.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListProjects(ctx context.Context) ([]mbqc.ProjectRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, payload, schedule, created_at, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("mbqc: list projects: %w", err)
	}
	defer rows.Close()

	recs := []mbqc.ProjectRecord{}
	for rows.Next() {
		var rec mbqc.ProjectRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Payload, &rec.Schedule, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("mbqc: scan project: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mbqc: rows projects: %w", err)
	}

	return recs, nil
}

// DeleteProject deletes a record by name.
// No error if the name doesn't exist.
func (s *PGStore) DeleteProject(ctx context.Context, name string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM projects WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("mbqc: delete project %q: %w", name, err)
	}
	return nil
}
