// Package pgstore persists projects and tasks in PostgreSQL.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/taskflow/pkg/pg"
	"github.com/dmitrymomot/taskflow/svc/taskboard"
)

// Store implements taskboard.Store. Status updates are single-row UPDATE
// statements, so Postgres row locks order concurrent writers.
type Store struct {
	db pg.DBTX
}

var _ taskboard.Store = (*Store)(nil)

func New(db pg.DBTX) *Store {
	if db == nil {
		panic("pgstore: db is required")
	}
	return &Store{db: db}
}

const nilUUID = `'00000000-0000-0000-0000-000000000000'::uuid`

const projectColumns = `id, workspace_id, name, description, archived,
	COALESCE(created_by, ` + nilUUID + `), created_at, updated_at`

func (s *Store) InsertProject(ctx context.Context, p *taskboard.Project) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO projects (id, workspace_id, name, description, archived, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.WorkspaceID, p.Name, p.Description, p.Archived, nullUUID(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*taskboard.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if pg.IsNotFoundError(err) {
		return nil, taskboard.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProject(ctx context.Context, p *taskboard.Project) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE projects SET name = $2, description = $3, archived = $4, updated_at = $5
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Archived, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return taskboard.ErrProjectNotFound
	}
	return nil
}

// DeleteProject relies on ON DELETE CASCADE to drop the project's tasks.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return taskboard.ErrProjectNotFound
	}
	return nil
}

func (s *Store) ListProjects(ctx context.Context, workspaceID uuid.UUID) ([]taskboard.Project, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE workspace_id = $1
		ORDER BY created_at DESC, id`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []taskboard.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (s *Store) CountProjectsByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM projects WHERE workspace_id = $1`, workspaceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

const taskColumns = `id, workspace_id, project_id, title, description, status, priority,
	position, due_date, COALESCE(created_by, ` + nilUUID + `), created_at, updated_at`

func (s *Store) InsertTask(ctx context.Context, t *taskboard.Task) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO tasks (id, workspace_id, project_id, title, description, status, priority,
			position, due_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.WorkspaceID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority,
		t.Position, t.DueDate, nullUUID(t.CreatedBy), t.CreatedAt, t.UpdatedAt,
	)
	if pg.IsForeignKeyViolationError(err) {
		return taskboard.ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*taskboard.Task, error) {
	row := s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanOne(row, "get task")
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status taskboard.Status, at time.Time) (*taskboard.Task, error) {
	if !taskboard.StatusTransitions.Known(status) {
		return nil, taskboard.ErrInvalidStatus
	}
	row := s.db.QueryRow(ctx, `
		UPDATE tasks SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+taskColumns,
		id, status, at,
	)
	return scanOne(row, "update task status")
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return taskboard.ErrTaskNotFound
	}
	return nil
}

func (s *Store) ListByProject(ctx context.Context, projectID uuid.UUID) ([]taskboard.Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id = $1
		ORDER BY position, created_at, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []taskboard.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *Store) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE workspace_id = $1`, workspaceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func scanOne(row pgx.Row, op string) (*taskboard.Task, error) {
	t, err := scanTask(row)
	if pg.IsNotFoundError(err) {
		return nil, taskboard.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func scanTask(row pgx.Row) (*taskboard.Task, error) {
	var t taskboard.Task
	if err := row.Scan(
		&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.Position, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		t.DueDate = &d
	}
	return &t, nil
}

func scanProject(row pgx.Row) (*taskboard.Project, error) {
	var p taskboard.Project
	if err := row.Scan(
		&p.ID, &p.WorkspaceID, &p.Name, &p.Description, &p.Archived, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
