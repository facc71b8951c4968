package tasks

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/handler"
	"github.com/dmitrymomot/taskflow/pkg/binder"
	"github.com/dmitrymomot/taskflow/pkg/jwt"
	"github.com/dmitrymomot/taskflow/svc/taskboard"
)

var (
	jsonBody   handler.Bind = binder.JSON()
	pathParams handler.Bind = binder.Path(chi.URLParam)
)

type handlers struct {
	svc Service
}

type workspaceRequest struct {
	WorkspaceID uuid.UUID `path:"workspaceID"`
}

type createProjectRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type updateProjectRequest struct {
	ProjectID   uuid.UUID `path:"projectID" json:"-"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Archived    *bool     `json:"archived"`
}

type projectRequest struct {
	ProjectID uuid.UUID `path:"projectID"`
}

type taskRequest struct {
	TaskID uuid.UUID `path:"taskID"`
}

type createTaskRequest struct {
	ProjectID   uuid.UUID          `json:"project_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    taskboard.Priority `json:"priority"`
	Position    int                `json:"position"`
	DueDate     *time.Time         `json:"due_date"`
}

type setStatusRequest struct {
	TaskID uuid.UUID        `path:"taskID" json:"-"`
	Status taskboard.Status `json:"status"`
}

func (h *handlers) createProject(ctx handler.Context, req createProjectRequest) handler.Response {
	project, err := h.svc.CreateProject(ctx, taskboard.CreateProjectInput{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actingUser(ctx),
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(project)
}

func (h *handlers) listProjects(ctx handler.Context, req workspaceRequest) handler.Response {
	list, err := h.svc.ListProjects(ctx, req.WorkspaceID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(list)
}

func (h *handlers) getProject(ctx handler.Context, req projectRequest) handler.Response {
	project, err := h.svc.GetProject(ctx, req.ProjectID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(project)
}

func (h *handlers) updateProject(ctx handler.Context, req updateProjectRequest) handler.Response {
	project, err := h.svc.UpdateProject(ctx, req.ProjectID, taskboard.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Archived:    req.Archived,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(project)
}

func (h *handlers) deleteProject(ctx handler.Context, req projectRequest) handler.Response {
	if err := h.svc.DeleteProject(ctx, req.ProjectID); err != nil {
		return handler.Error(err)
	}
	return handler.NoContent()
}

func (h *handlers) listTasks(ctx handler.Context, req projectRequest) handler.Response {
	list, err := h.svc.ListTasks(ctx, req.ProjectID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(list)
}

func (h *handlers) board(ctx handler.Context, req projectRequest) handler.Response {
	b, err := h.svc.Board(ctx, req.ProjectID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(b, handler.WithMeta(map[string]any{"counts": b.Counts()}))
}

func (h *handlers) createTask(ctx handler.Context, req createTaskRequest) handler.Response {
	task, err := h.svc.CreateTask(ctx, taskboard.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Position:    req.Position,
		DueDate:     req.DueDate,
		CreatedBy:   actingUser(ctx),
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(task)
}

func (h *handlers) getTask(ctx handler.Context, req taskRequest) handler.Response {
	task, err := h.svc.GetTask(ctx, req.TaskID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(task)
}

func (h *handlers) setStatus(ctx handler.Context, req setStatusRequest) handler.Response {
	task, err := h.svc.SetStatus(ctx, req.TaskID, req.Status)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(task)
}

func (h *handlers) deleteTask(ctx handler.Context, req taskRequest) handler.Response {
	if err := h.svc.DeleteTask(ctx, req.TaskID); err != nil {
		return handler.Error(err)
	}
	return handler.NoContent()
}

// actingUser is the token subject when it is a UUID.
func actingUser(ctx handler.Context) uuid.UUID {
	sub, ok := jwt.Subject(ctx)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil
	}
	return id
}
