package tasks_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/modules/tasks"
	"github.com/dmitrymomot/taskflow/pkg/apperr"
	"github.com/dmitrymomot/taskflow/pkg/jwt"
	"github.com/dmitrymomot/taskflow/svc/taskboard"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string              `json:"code"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

type testAPI struct {
	router http.Handler
	token  string
	userID uuid.UUID
}

func newTestAPI(t *testing.T, opts ...taskboard.Option) *testAPI {
	t.Helper()
	tokens, err := jwt.NewFromString("jwt-signing-key")
	require.NoError(t, err)
	userID := uuid.New()
	token, err := tokens.Issue(userID.String(), time.Hour)
	require.NoError(t, err)

	svc := taskboard.NewService(taskboard.NewMemoryStore(), opts...)
	return &testAPI{
		router: tasks.Router(tasks.RouterOptions{Service: svc, Auth: jwt.Middleware(tokens)}),
		token:  token,
		userID: userID,
	}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+a.token)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (a *testAPI) createProject(t *testing.T, ws uuid.UUID, name string) taskboard.Project {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/projects", `{"workspace_id":"`+ws.String()+`","name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, code)
	var project taskboard.Project
	require.NoError(t, json.Unmarshal(env.Data, &project))
	return project
}

func (a *testAPI) create(t *testing.T, project uuid.UUID, title string) taskboard.Task {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/tasks",
		`{"project_id":"`+project.String()+`","title":"`+title+`"}`)
	require.Equal(t, http.StatusCreated, code)
	var task taskboard.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	return task
}

func TestRouter_TaskLifecycle(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	ws := uuid.New()
	project := api.createProject(t, ws, "Board").ID

	task := api.create(t, project, "T1")
	assert.Equal(t, ws, task.WorkspaceID)
	assert.Equal(t, taskboard.StatusTodo, task.Status)
	assert.Equal(t, taskboard.PriorityMedium, task.Priority)
	assert.Equal(t, api.userID, task.CreatedBy)

	code, env := api.do(t, http.MethodPatch, "/tasks/"+task.ID.String()+"/status", `{"status":"done"}`)
	require.Equal(t, http.StatusOK, code)
	var updated taskboard.Task
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, taskboard.StatusDone, updated.Status)

	code, env = api.do(t, http.MethodPatch, "/tasks/"+task.ID.String()+"/status", `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_argument", env.Error.Code)

	code, env = api.do(t, http.MethodGet, "/tasks/"+task.ID.String(), "")
	require.Equal(t, http.StatusOK, code)
	var got taskboard.Task
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, taskboard.StatusDone, got.Status)

	code, env = api.do(t, http.MethodGet, "/projects/"+project.String()+"/board", "")
	require.Equal(t, http.StatusOK, code)
	var board taskboard.Board
	require.NoError(t, json.Unmarshal(env.Data, &board))
	assert.Empty(t, board.Todo)
	require.Len(t, board.Done, 1)
	assert.Contains(t, env.Meta, "counts")

	code, _ = api.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, code)

	code, env = api.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestRouter_ListTasks(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	ws := uuid.New()
	project := api.createProject(t, ws, "One").ID

	api.create(t, project, "a")
	api.create(t, project, "b")
	api.create(t, api.createProject(t, ws, "Two").ID, "elsewhere")

	code, env := api.do(t, http.MethodGet, "/projects/"+project.String()+"/tasks", "")
	require.Equal(t, http.StatusOK, code)
	var list []taskboard.Task
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	empty := api.createProject(t, ws, "Empty").ID
	code, env = api.do(t, http.MethodGet, "/projects/"+empty.String()+"/tasks", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", string(env.Data))

	code, _ = api.do(t, http.MethodGet, "/projects/"+uuid.NewString()+"/tasks", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_CreateErrors(t *testing.T) {
	t.Parallel()

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)
		code, env := api.do(t, http.MethodPost, "/tasks", `{"title":"","priority":"urgent"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "title")
		assert.Contains(t, env.Error.Details, "priority")
		assert.Contains(t, env.Error.Details, "project_id")
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)
		project := api.createProject(t, uuid.New(), "P").ID
		code, _ := api.do(t, http.MethodPost, "/tasks",
			`{"project_id":"`+project.String()+`","title":"T","status":"done"}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("workspace comes from the project", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)
		project := api.createProject(t, uuid.New(), "P").ID
		code, _ := api.do(t, http.MethodPost, "/tasks",
			`{"workspace_id":"`+uuid.NewString()+`","project_id":"`+project.String()+`","title":"T"}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown project", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t)
		code, env := api.do(t, http.MethodPost, "/tasks", `{"project_id":"`+uuid.NewString()+`","title":"T"}`)
		assert.Equal(t, http.StatusNotFound, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "not_found", env.Error.Code)
	})

	t.Run("plan limit", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, taskboard.WithTaskLimit(func(context.Context, uuid.UUID) error {
			return apperr.New(apperr.ErrLimitExceeded, "plan limit reached")
		}))
		project := api.createProject(t, uuid.New(), "P").ID
		code, env := api.do(t, http.MethodPost, "/tasks", `{"project_id":"`+project.String()+`","title":"T"}`)
		assert.Equal(t, http.StatusForbidden, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "limit_exceeded", env.Error.Code)
	})
}

func TestRouter_ProjectLifecycle(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	ws := uuid.New()

	project := api.createProject(t, ws, "Alpha")
	assert.Equal(t, ws, project.WorkspaceID)
	assert.Equal(t, api.userID, project.CreatedBy)
	api.createProject(t, uuid.New(), "Other")

	code, env := api.do(t, http.MethodGet, "/workspaces/"+ws.String()+"/projects", "")
	require.Equal(t, http.StatusOK, code)
	var list []taskboard.Project
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, project.ID, list[0].ID)

	code, env = api.do(t, http.MethodPatch, "/projects/"+project.ID.String(), `{"name":"Beta","archived":true}`)
	require.Equal(t, http.StatusOK, code)
	var updated taskboard.Project
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Beta", updated.Name)
	assert.True(t, updated.Archived)

	code, env = api.do(t, http.MethodPost, "/tasks", `{"project_id":"`+project.ID.String()+`","title":"T"}`)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)

	code, _ = api.do(t, http.MethodGet, "/projects/"+project.ID.String(), "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(t, http.MethodDelete, "/projects/"+project.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = api.do(t, http.MethodGet, "/projects/"+project.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_ProjectLimit(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, taskboard.WithProjectLimit(func(context.Context, uuid.UUID) error {
		return apperr.New(apperr.ErrLimitExceeded, "plan limit reached")
	}))

	code, env := api.do(t, http.MethodPost, "/projects", `{"workspace_id":"`+uuid.NewString()+`","name":"P"}`)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "limit_exceeded", env.Error.Code)
}

func TestRouter_Unauthenticated(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+uuid.NewString()+"/tasks", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
