package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var Schema string

// Run statuses.
const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// ErrNotFound is returned when a run does not exist. It wraps pgx.ErrNoRows.
var ErrNotFound = fmt.Errorf("run not found: %w", pgx.ErrNoRows)

// LinkRun is the DB model for the link_runs table.
type LinkRun struct {
	ID         uuid.UUID       `json:"id"`
	Repository string          `json:"repository"`
	Source     string          `json:"source"`
	Status     string          `json:"status"`
	Error      *string         `json:"error,omitempty"`
	Stats      json.RawMessage `json:"stats,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// EnsureSchema creates the tables if they do not exist.
func (q *Queries) EnsureSchema(ctx context.Context) error {
	if _, err := q.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type CreateRunParams struct {
	ID         uuid.UUID
	Repository string
	Source     string
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (LinkRun, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO link_runs (id, repository, source, status)
		 VALUES ($1, $2, $3, 'pending')
		 RETURNING id, repository, source, status, error, stats, created_at, started_at, finished_at`,
		arg.ID, arg.Repository, arg.Source)
	return scanRun(row)
}

func (q *Queries) GetRun(ctx context.Context, id uuid.UUID) (LinkRun, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, repository, source, status, error, stats, created_at, started_at, finished_at
		 FROM link_runs WHERE id = $1`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs of a repository, newest first. An
// empty repository lists runs of every repository.
func (q *Queries) ListRuns(ctx context.Context, repository string, limit int32) ([]LinkRun, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, repository, source, status, error, stats, created_at, started_at, finished_at
		 FROM link_runs
		 WHERE $1::text = '' OR repository = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		repository, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LinkRun
	for rows.Next() {
		i, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (q *Queries) StartRun(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx,
		`UPDATE link_runs SET status = 'running', started_at = now() WHERE id = $1`, id)
	return err
}

func (q *Queries) CompleteRun(ctx context.Context, id uuid.UUID, stats any) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = q.db.Exec(ctx,
		`UPDATE link_runs SET status = 'completed', stats = $2, finished_at = now() WHERE id = $1`,
		id, raw)
	return err
}

func (q *Queries) FailRun(ctx context.Context, id uuid.UUID, message string) error {
	_, err := q.db.Exec(ctx,
		`UPDATE link_runs SET status = 'failed', error = $2, finished_at = now() WHERE id = $1`,
		id, message)
	return err
}

func scanRun(row pgx.Row) (LinkRun, error) {
	var i LinkRun
	err := row.Scan(&i.ID, &i.Repository, &i.Source, &i.Status, &i.Error, &i.Stats,
		&i.CreatedAt, &i.StartedAt, &i.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return i, ErrNotFound
	}
	return i, err
}
