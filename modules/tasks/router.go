// Package tasks mounts project and task board operations over HTTP+JSON.
package tasks

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/handler"
	"github.com/dmitrymomot/taskflow/pkg/logger"
	"github.com/dmitrymomot/taskflow/svc/taskboard"
)

// Service is the subset of *taskboard.Service used by the router.
type Service interface {
	CreateProject(ctx context.Context, in taskboard.CreateProjectInput) (*taskboard.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*taskboard.Project, error)
	ListProjects(ctx context.Context, workspaceID uuid.UUID) ([]taskboard.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, in taskboard.UpdateProjectInput) (*taskboard.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateTask(ctx context.Context, in taskboard.CreateTaskInput) (*taskboard.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*taskboard.Task, error)
	SetStatus(ctx context.Context, id uuid.UUID, status taskboard.Status) (*taskboard.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListTasks(ctx context.Context, projectID uuid.UUID) ([]taskboard.Task, error)
	Board(ctx context.Context, projectID uuid.UUID) (*taskboard.Board, error)
}

type RouterOptions struct {
	Service Service
	Logger  *slog.Logger
	// Auth guards every route.
	Auth func(http.Handler) http.Handler
}

// Router builds the project and task routes. Mount it at the API version root:
//
//	r.Mount("/v1", tasks.Router(tasks.RouterOptions{Service: boardSvc, Auth: auth}))
func Router(opts RouterOptions) chi.Router {
	if opts.Service == nil {
		panic("tasks module: service is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	h := &handlers{svc: opts.Service}
	eh := handler.NewErrorHandler(log.With(logger.Component("tasks_http")))

	r := chi.NewRouter()
	if opts.Auth != nil {
		r.Use(opts.Auth)
	}

	r.Post("/projects", wrap(eh, h.createProject, jsonBody))
	r.Get("/workspaces/{workspaceID}/projects", wrap(eh, h.listProjects, pathParams))
	r.Get("/projects/{projectID}", wrap(eh, h.getProject, pathParams))
	r.Patch("/projects/{projectID}", wrap(eh, h.updateProject, pathParams, jsonBody))
	r.Delete("/projects/{projectID}", wrap(eh, h.deleteProject, pathParams))
	r.Get("/projects/{projectID}/tasks", wrap(eh, h.listTasks, pathParams))
	r.Get("/projects/{projectID}/board", wrap(eh, h.board, pathParams))

	r.Post("/tasks", wrap(eh, h.createTask, jsonBody))
	r.Get("/tasks/{taskID}", wrap(eh, h.getTask, pathParams))
	r.Patch("/tasks/{taskID}/status", wrap(eh, h.setStatus, pathParams, jsonBody))
	r.Delete("/tasks/{taskID}", wrap(eh, h.deleteTask, pathParams))

	return r
}

func wrap[R any](eh handler.ErrorHandler[handler.Context], fn handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(fn,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](eh),
	)
}
