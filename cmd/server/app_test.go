package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/pkg/jwt"
	"github.com/dmitrymomot/taskflow/pkg/logger"
	"github.com/dmitrymomot/taskflow/svc/billing"
)

func memorySettings() settings {
	return settings{
		App: appConfig{Env: "development", Name: "taskflow", JWTSigningKey: "signing-key", Storage: storageMemory},
		Billing: billing.Config{
			Currency:      "INR",
			DefaultPlanID: billing.PlanFree,
			GatewaySecret: "gateway-secret",
			OrderTTL:      time.Hour,
			SweepSchedule: "@every 10m",
		},
	}
}

func TestNewApp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	a, err := newApp(ctx, memorySettings(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NotNil(t, a.sweeper)

	srv := httptest.NewServer(a.router)
	t.Cleanup(srv.Close)

	tokens, err := jwt.NewFromString("signing-key", jwt.WithIssuer("taskflow"))
	require.NoError(t, err)
	token, err := tokens.Issue(uuid.NewString(), time.Hour)
	require.NoError(t, err)

	call := func(t *testing.T, method, path, body string, auth bool) (int, string) {
		t.Helper()
		req, err := http.NewRequestWithContext(ctx, method, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if auth {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		return resp.StatusCode, string(raw)
	}

	t.Run("health", func(t *testing.T) {
		code, body := call(t, http.MethodGet, "/healthz", "", false)
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "alive")

		code, body = call(t, http.MethodGet, "/readyz", "", false)
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "ready")
	})

	t.Run("public plans", func(t *testing.T) {
		code, body := call(t, http.MethodGet, "/v1/billing/plans", "", false)
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `"pro"`)
	})

	t.Run("protected routes", func(t *testing.T) {
		code, body := call(t, http.MethodGet, "/v1/projects/"+uuid.NewString()+"/tasks", "", false)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Contains(t, body, "unauthorized")

		code, _ = call(t, http.MethodGet, "/v1/workspaces/"+uuid.NewString()+"/projects", "", true)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("activation is counted and projects and tasks are limited", func(t *testing.T) {
		ws := uuid.NewString()
		code, _ := call(t, http.MethodPost, "/v1/billing/orders", `{"workspace_id":"`+ws+`","plan_id":"free"}`, true)
		require.Equal(t, http.StatusCreated, code)

		var projectID string
		for i := range 3 {
			code, body := call(t, http.MethodPost, "/v1/projects", `{"workspace_id":"`+ws+`","name":"P`+strconv.Itoa(i)+`"}`, true)
			require.Equal(t, http.StatusCreated, code)
			var created struct {
				Data struct {
					ID string `json:"id"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &created))
			projectID = created.Data.ID
		}
		code, body := call(t, http.MethodPost, "/v1/projects", `{"workspace_id":"`+ws+`","name":"P4"}`, true)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Contains(t, body, "limit_exceeded")

		code, _ = call(t, http.MethodPost, "/v1/tasks", `{"project_id":"`+projectID+`","title":"first"}`, true)
		assert.Equal(t, http.StatusCreated, code)

		code, body = call(t, http.MethodGet, "/v1/billing/workspaces/"+ws+"/usage", "", true)
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `"projects":{"current":3,"limit":3}`)
		assert.Contains(t, body, `"tasks":{"current":1,"limit":100}`)

		code, body = call(t, http.MethodGet, "/metrics", "", false)
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `taskflow_billing_activations_total{branch="free",plan="free"} 1`)
	})

	t.Run("unknown route", func(t *testing.T) {
		code, body := call(t, http.MethodGet, "/nope", "", false)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, body, `"error"`)
	})
}

func TestNewApp_InvalidPlans(t *testing.T) {
	t.Parallel()
	s := memorySettings()
	s.Billing.DefaultPlanID = billing.PlanPro

	_, err := newApp(context.Background(), s, logger.Discard())
	assert.ErrorIs(t, err, billing.ErrInvalidPlanConfiguration)
}

func TestNewApp_InvalidSchedule(t *testing.T) {
	t.Parallel()
	s := memorySettings()
	s.Billing.SweepSchedule = "whenever"

	_, err := newApp(context.Background(), s, logger.Discard())
	assert.ErrorIs(t, err, billing.ErrInvalidSweepSchedule)
}
