package taskboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists projects and their tasks. Every method returning a single
// record reports unknown ids with ErrTaskNotFound or ErrProjectNotFound.
type Store interface {
	InsertProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	// DeleteProject removes the project together with its tasks.
	DeleteProject(ctx context.Context, id uuid.UUID) error
	// ListProjects returns the projects of a workspace, newest first.
	ListProjects(ctx context.Context, workspaceID uuid.UUID) ([]Project, error)
	CountProjectsByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)

	// InsertTask fails with ErrProjectNotFound when task.ProjectID is unknown.
	InsertTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	// UpdateStatus sets the status of one task atomically.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, at time.Time) (*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	// ListByProject orders tasks by position, then creation time.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error)
	CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}
