package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"checklist/internal/checklist"
	"checklist/internal/config"
	"checklist/internal/domain"
	"checklist/internal/repository"
	"checklist/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *checklist.Controller) {
	t.Helper()
	ctrl := checklist.New(repository.New(store.NewMemory()))
	require.NoError(t, ctrl.Initialize(context.Background()))

	cfg := config.NewConfig()
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	return New(ctrl, cfg, nil), ctrl
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_AddAndList(t *testing.T) {
	s, ctrl := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/tasks", `{"text":"Buy milk","day":"15"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var created taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Buy milk", created.Text)
	assert.Equal(t, 15, created.Day)
	assert.False(t, created.Completed)
	assert.NotEmpty(t, created.ID)

	rec = do(t, s, http.MethodPost, "/tasks", `{"text":"Call mom","day":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, created, listed[0])
	assert.Equal(t, "Call mom", listed[1].Text)
	assert.Len(t, ctrl.List(), 2)
}

func TestServer_ListEmpty(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_AddValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"day out of range", `{"text":"Buy milk","day":"32"}`, "day"},
		{"day zero as number", `{"text":"Buy milk","day":0}`, "day"},
		{"day not numeric", `{"text":"Buy milk","day":"soon"}`, "day"},
		{"day missing", `{"text":"Buy milk"}`, "day"},
		{"blank text", `{"text":"   ","day":"4"}`, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ctrl := newTestServer(t)

			rec := do(t, s, http.MethodPost, "/tasks", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_FAILED", resp.Code)
			require.NotEmpty(t, resp.Fields)
			assert.Equal(t, tt.field, resp.Fields[0].Field)
			assert.Empty(t, ctrl.List())
		})
	}
}

func TestServer_AddInvalidJSON(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/tasks", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ToggleAndRemove(t *testing.T) {
	s, ctrl := newTestServer(t)
	task, err := ctrl.Add(context.Background(), "Buy milk", "15")
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/tasks/"+task.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var toggled taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.True(t, toggled.Completed)

	rec = do(t, s, http.MethodDelete, "/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, ctrl.List())
}

func TestServer_UnknownTask(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/tasks/missing/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/tasks/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestServer_Progress(t *testing.T) {
	s, ctrl := newTestServer(t)
	ctx := context.Background()
	a, _ := ctrl.Add(ctx, "a", "1")
	_, _ = ctrl.Add(ctx, "b", "2")
	_, _ = ctrl.Add(ctx, "c", "3")
	require.NoError(t, ctrl.Toggle(ctx, a.ID))

	rec := do(t, s, http.MethodGet, "/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp progressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 33.33, resp.Percentage)
	assert.Equal(t, "33.33", resp.Formatted)
	assert.Equal(t, 1, resp.Completed)
	assert.Equal(t, 3, resp.Total)

	u, err := url.Parse(resp.ChartURL)
	require.NoError(t, err)
	assert.Equal(t, "t:33.33", u.Query().Get("chd"))
}

func TestServer_Health(t *testing.T) {
	s, ctrl := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","dirty":false}`, rec.Body.String())

	_, err := ctrl.Add(context.Background(), "a", "1")
	require.NoError(t, err)

	rec = do(t, s, http.MethodGet, "/health", "")
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.LastSaved)
	assert.NotEmpty(t, resp.SavedAgo)
}

func TestServer_CORS(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/tasks", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// failingService reports an internal error from every mutation.
type failingService struct {
	TaskService
}

func (failingService) Add(ctx context.Context, text, dayRaw string) (domain.Task, error) {
	return domain.Task{}, errors.New("boom")
}

func TestServer_InternalError(t *testing.T) {
	ctrl := checklist.New(repository.New(store.NewMemory()))
	s := New(failingService{TaskService: ctrl}, nil, nil)

	rec := do(t, s, http.MethodPost, "/tasks", `{"text":"a","day":"1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_ERROR", resp.Code)
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	ctrl := checklist.New(repository.New(store.NewMemory()))
	s := New(ctrl, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
