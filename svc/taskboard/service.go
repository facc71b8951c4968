package taskboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/pkg/logger"
	"github.com/dmitrymomot/taskflow/pkg/validator"
)

// Service owns the project and task lifecycle of every workspace.
type Service struct {
	store        Store
	taskLimit    LimitChecker
	projectLimit LimitChecker
	log          *slog.Logger
	now          func() time.Time
}

// NewService returns a Service over store. It panics when store is nil.
func NewService(store Store, opts ...Option) *Service {
	if store == nil {
		panic("taskboard: store is required")
	}
	s := &Service{
		store: store,
		log:   logger.Discard(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("taskboard"))
	return s
}

// CreateProject stores a new project for a workspace after the project
// limit check passes.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validator.Apply(
		validator.RequiredUUID("workspace_id", in.WorkspaceID),
		validator.Required("name", in.Name),
		validator.MaxLen("name", in.Name, MaxTitleLength),
	); err != nil {
		return nil, err
	}

	if s.projectLimit != nil {
		if err := s.projectLimit(ctx, in.WorkspaceID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	project := &Project{
		ID:          uuid.New(),
		WorkspaceID: in.WorkspaceID,
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertProject(ctx, project); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "project created",
		logger.ProjectID(project.ID), logger.WorkspaceID(project.WorkspaceID))
	return project.Clone(), nil
}

// GetProject returns a project by id.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidProject
	}
	return s.store.GetProject(ctx, id)
}

// ListProjects returns the projects of a workspace, newest first.
func (s *Service) ListProjects(ctx context.Context, workspaceID uuid.UUID) ([]Project, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrInvalidWorkspace
	}
	return s.store.ListProjects(ctx, workspaceID)
}

// UpdateProject applies the non-nil fields of in. The owning workspace
// cannot be changed.
func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		project.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Archived != nil {
		project.Archived = *in.Archived
	}
	if err := validator.Apply(
		validator.Required("name", project.Name),
		validator.MaxLen("name", project.Name, MaxTitleLength),
	); err != nil {
		return nil, err
	}

	project.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return project.Clone(), nil
}

// DeleteProject removes a project and all of its tasks.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidProject
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "project deleted", logger.ProjectID(id))
	return nil
}

// CountProjectsByWorkspace has the shape of a billing resource counter.
func (s *Service) CountProjectsByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	if workspaceID == uuid.Nil {
		return 0, ErrInvalidWorkspace
	}
	return s.store.CountProjectsByWorkspace(ctx, workspaceID)
}

// CreateTask validates in and stores a new task in StatusTodo. The task joins
// the workspace of its project, and the task limit is checked against that
// workspace. Validation failures are returned as validator.ValidationErrors.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}

	if err := validator.Apply(
		validator.RequiredUUID("project_id", in.ProjectID),
		validator.Required("title", in.Title),
		validator.MaxLen("title", in.Title, MaxTitleLength),
		validator.OneOf("priority", in.Priority, priorities),
		validator.MinNum("position", in.Position, 0),
	); err != nil {
		return nil, err
	}

	project, err := s.store.GetProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Archived {
		return nil, ErrProjectArchived
	}

	if s.taskLimit != nil {
		if err := s.taskLimit(ctx, project.WorkspaceID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	task := &Task{
		ID:          uuid.New(),
		WorkspaceID: project.WorkspaceID,
		ProjectID:   project.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusTodo,
		Priority:    in.Priority,
		Position:    in.Position,
		DueDate:     in.DueDate,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertTask(ctx, task); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "task created",
		logger.TaskID(task.ID), logger.ProjectID(task.ProjectID), logger.WorkspaceID(task.WorkspaceID))
	return task.Clone(), nil
}

// GetTask returns a task by id.
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidTaskID
	}
	return s.store.GetTask(ctx, id)
}

// SetStatus applies status unconditionally when it is one of the known
// statuses. Concurrent updates of one task are applied in arrival order.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Task, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidTaskID
	}
	if !StatusTransitions.Known(status) {
		return nil, ErrInvalidStatus
	}
	task, err := s.store.UpdateStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.DebugContext(ctx, "task status changed", logger.TaskID(id), slog.String("status", string(status)))
	return task, nil
}

// DeleteTask removes a task permanently.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidTaskID
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "task deleted", logger.TaskID(id))
	return nil
}

// ListTasks returns the tasks of a project ordered by position, then
// creation time. Unknown projects fail with ErrProjectNotFound.
func (s *Service) ListTasks(ctx context.Context, projectID uuid.UUID) ([]Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.ListByProject(ctx, projectID)
}

// Board groups the current tasks of a project by status.
func (s *Service) Board(ctx context.Context, projectID uuid.UUID) (*Board, error) {
	tasks, err := s.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	b := &Board{Todo: []Task{}, InProgress: []Task{}, Done: []Task{}}
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			b.Todo = append(b.Todo, t)
		case StatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case StatusDone:
			b.Done = append(b.Done, t)
		}
	}
	return b, nil
}

// CountByWorkspace has the shape of a billing resource counter.
func (s *Service) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	if workspaceID == uuid.Nil {
		return 0, ErrInvalidWorkspace
	}
	return s.store.CountByWorkspace(ctx, workspaceID)
}
