package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"task_manager/internal/domain"
	approuter "task_manager/internal/http"
	"task_manager/internal/logger"
	"task_manager/internal/repository"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"dueDate"`
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Discard()
	os.Exit(m.Run())
}

func newApp(t *testing.T) http.Handler {
	t.Helper()
	svc := service.NewTaskService(repository.NewMemoryTaskRepository())
	return approuter.NewRouter(svc, approuter.RouteOptions{StoreName: "memory"})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func doRaw(t *testing.T, h http.Handler, method, path, raw string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeTask(t *testing.T, rr *httptest.ResponseRecorder) taskJSON {
	t.Helper()
	var out taskJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body=%s", rr.Body.String())
	return out
}

func decodeTasks(t *testing.T, rr *httptest.ResponseRecorder) []taskJSON {
	t.Helper()
	var out []taskJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body=%s", rr.Body.String())
	return out
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body=%s", rr.Body.String())
	return out.Error
}

func createTask(t *testing.T, app http.Handler, body map[string]any) taskJSON {
	t.Helper()
	rr := doJSON(t, app, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusCreated, rr.Code, "body=%s", rr.Body.String())
	return decodeTask(t, rr)
}

func TestPOST_Tasks_Created(t *testing.T) {
	app := newApp(t)

	created := createTask(t, app, map[string]any{
		"title":       "A",
		"description": "d",
		"dueDate":     "2025-01-01",
	})

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Pending", created.Status)
	assert.True(t, created.DueDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	rr := doJSON(t, app, http.MethodGet, "/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decodeTask(t, rr))
}

func TestPOST_Tasks_KeepsStatus(t *testing.T) {
	app := newApp(t)

	created := createTask(t, app, map[string]any{
		"title":       "A",
		"description": "d",
		"status":      "Completed",
		"dueDate":     "2025-01-01T09:00:00Z",
	})
	assert.Equal(t, "Completed", created.Status)
}

func TestPOST_Tasks_MissingFields_400(t *testing.T) {
	app := newApp(t)

	bodies := []map[string]any{
		{"description": "d", "dueDate": "2025-01-01"},
		{"title": "A", "dueDate": "2025-01-01"},
		{"title": "A", "description": "d"},
		{"title": "", "description": "d", "dueDate": "2025-01-01"},
		{},
	}
	for _, body := range bodies {
		rr := doJSON(t, app, http.MethodPost, "/tasks", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, "body=%v", body)
		assert.Equal(t, "Title, description, and dueDate are required.", decodeError(t, rr))
	}

	rr := doJSON(t, app, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeTasks(t, rr), "no record persisted")
}

func TestPOST_Tasks_EmptyBody_400(t *testing.T) {
	app := newApp(t)

	rr := doRaw(t, app, http.MethodPost, "/tasks", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPOST_Tasks_InvalidJSON_400(t *testing.T) {
	app := newApp(t)

	rr := doRaw(t, app, http.MethodPost, "/tasks", "{bad json}")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body.", decodeError(t, rr))
}

func TestPOST_Tasks_InvalidStatusOrDate_400(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodPost, "/tasks", map[string]any{
		"title": "A", "description": "d", "dueDate": "2025-01-01", "status": "InProgress",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, app, http.MethodPost, "/tasks", map[string]any{
		"title": "A", "description": "d", "dueDate": "next week",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGET_Tasks_EmptyList_200(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestGET_Tasks_Filters(t *testing.T) {
	app := newApp(t)

	createTask(t, app, map[string]any{"title": "p1", "description": "d", "dueDate": "2025-01-01"})
	createTask(t, app, map[string]any{"title": "c1", "description": "d", "dueDate": "2025-01-15", "status": "Completed"})
	createTask(t, app, map[string]any{"title": "c2", "description": "d", "dueDate": "2025-03-01", "status": "Completed"})

	rr := doJSON(t, app, http.MethodGet, "/tasks?status=Completed", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	completed := decodeTasks(t, rr)
	require.Len(t, completed, 2)
	for _, task := range completed {
		assert.Equal(t, "Completed", task.Status)
	}

	bound := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	rr = doJSON(t, app, http.MethodGet, "/tasks?dueDate=2025-01-15", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	due := decodeTasks(t, rr)
	require.Len(t, due, 2)
	for _, task := range due {
		assert.False(t, task.DueDate.After(bound), "dueDate %v > %v", task.DueDate, bound)
	}

	rr = doJSON(t, app, http.MethodGet, "/tasks?status=Completed&dueDate=2025-01-15", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	both := decodeTasks(t, rr)
	require.Len(t, both, 1)
	assert.Equal(t, "c1", both[0].Title)

	rr = doJSON(t, app, http.MethodGet, "/tasks?status=InProgress", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeTasks(t, rr))

	rr = doJSON(t, app, http.MethodGet, "/tasks?dueDate=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGET_TaskByID_NotFound_404(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodGet, "/tasks/3f1c2f7e-8b4a-4f0e-9a55-3c2b1d0e9f87", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Task not found.", decodeError(t, rr))
}

func TestGET_TaskByID_MalformedID_400(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodGet, "/tasks/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid task id.", decodeError(t, rr))
}

func TestPUT_Task(t *testing.T) {
	app := newApp(t)
	created := createTask(t, app, map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01"})

	rr := doJSON(t, app, http.MethodPut, "/tasks/"+created.ID, map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, rr.Code, "body=%s", rr.Body.String())
	updated := decodeTask(t, rr)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Completed", updated.Status)
	assert.Equal(t, "A", updated.Title)
	assert.Equal(t, "d", updated.Description)
	assert.True(t, created.DueDate.Equal(updated.DueDate))

	rr = doJSON(t, app, http.MethodPut, "/tasks/"+created.ID, map[string]any{
		"title": "B", "description": "e", "status": "Pending", "dueDate": "2025-02-01",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	updated = decodeTask(t, rr)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "e", updated.Description)
	assert.Equal(t, "Pending", updated.Status)

	rr = doJSON(t, app, http.MethodGet, "/tasks/"+created.ID, nil)
	assert.Equal(t, updated, decodeTask(t, rr))
}

func TestPUT_Task_Errors(t *testing.T) {
	app := newApp(t)
	created := createTask(t, app, map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01"})

	rr := doJSON(t, app, http.MethodPut, "/tasks/6b0f5e0a-1d52-4d8c-8a4a-7b1a3f5c2d10", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, app, http.MethodPut, "/tasks/"+created.ID, map[string]any{"status": "Archived"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `Invalid status. Status must be "Pending" or "Completed".`, decodeError(t, rr))

	rr = doJSON(t, app, http.MethodPut, "/tasks/"+created.ID, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRaw(t, app, http.MethodPut, "/tasks/"+created.ID, "[")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDELETE_Task(t *testing.T) {
	app := newApp(t)
	created := createTask(t, app, map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01"})

	rr := doJSON(t, app, http.MethodDelete, "/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = doJSON(t, app, http.MethodGet, "/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, app, http.MethodDelete, "/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDueDateOutsideJSONRange_400(t *testing.T) {
	app := newApp(t)
	created := createTask(t, app, map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01"})

	rr := doJSON(t, app, http.MethodPost, "/tasks", map[string]any{
		"title": "B", "description": "d", "dueDate": "9999-12-31T23:30:00-01:00",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotEmpty(t, decodeError(t, rr))

	rr = doJSON(t, app, http.MethodPut, "/tasks/"+created.ID, map[string]any{"dueDate": "9999-12-31T23:30:00-01:00"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// the list endpoint still renders every stored task
	rr = doJSON(t, app, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	tasks := decodeTasks(t, rr)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.True(t, created.DueDate.Equal(tasks[0].DueDate))
}

func TestGET_TasksByStatus(t *testing.T) {
	app := newApp(t)

	rr := doJSON(t, app, http.MethodGet, "/tasks/status/InProgress", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `Invalid status. Status must be "Pending" or "Completed".`, decodeError(t, rr))

	// asymmetric contract: 404 here, 200 [] on the query form
	rr = doJSON(t, app, http.MethodGet, "/tasks/status/Completed", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No tasks found with status Completed.", decodeError(t, rr))

	rr = doJSON(t, app, http.MethodGet, "/tasks?status=Completed", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	created := createTask(t, app, map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01", "status": "Completed"})
	rr = doJSON(t, app, http.MethodGet, "/tasks/status/Completed", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	tasks := decodeTasks(t, rr)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestGET_TasksByDueDate(t *testing.T) {
	app := newApp(t)
	created := createTask(t, app, map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01"})
	createTask(t, app, map[string]any{"title": "B", "description": "d", "dueDate": "2024-12-01"})

	rr := doJSON(t, app, http.MethodGet, "/tasks/dueDate/2025-01-01", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	tasks := decodeTasks(t, rr)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	rr = doJSON(t, app, http.MethodGet, "/tasks/dueDate/2025-01-02", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No tasks found with this due date 2025-01-02.", decodeError(t, rr))

	rr = doJSON(t, app, http.MethodGet, "/tasks/dueDate/whenever", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScenario_CreateListDeleteFetch(t *testing.T) {
	app := newApp(t)

	created := createTask(t, app, map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01"})
	assert.Equal(t, "Pending", created.Status)

	rr := doJSON(t, app, http.MethodGet, "/tasks/status/Pending", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	tasks := decodeTasks(t, rr)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	rr = doJSON(t, app, http.MethodDelete, "/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, app, http.MethodGet, "/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type brokenRepo struct{}

var errBroken = errors.New("connection reset")

func (brokenRepo) Create(context.Context, *domain.Task) error {
	return errBroken
}

func (brokenRepo) Find(context.Context, domain.TaskFilter) ([]*domain.Task, error) {
	return nil, errBroken
}

func (brokenRepo) FindByID(context.Context, string) (*domain.Task, error) {
	return nil, errBroken
}

func (brokenRepo) UpdateByID(context.Context, string, domain.TaskPatch) (*domain.Task, error) {
	return nil, errBroken
}

func (brokenRepo) DeleteByID(context.Context, string) (*domain.Task, error) {
	return nil, errBroken
}

func (brokenRepo) Ping(context.Context) error {
	return errBroken
}

func TestStorageFailure_500(t *testing.T) {
	app := approuter.NewRouter(service.NewTaskService(brokenRepo{}), approuter.RouteOptions{StoreName: "broken"})

	cases := []struct {
		method, path string
		body         map[string]any
		msg          string
	}{
		{http.MethodPost, "/tasks", map[string]any{"title": "A", "description": "d", "dueDate": "2025-01-01"}, "Error saving task."},
		{http.MethodGet, "/tasks", nil, "Error fetching tasks."},
		{http.MethodGet, "/tasks/abc", nil, "Error fetching task."},
		{http.MethodPut, "/tasks/abc", map[string]any{"title": "B"}, "Error updating task."},
		{http.MethodDelete, "/tasks/abc", nil, "Error deleting task."},
		{http.MethodGet, "/tasks/status/Pending", nil, "Error fetching tasks by status."},
		{http.MethodGet, "/tasks/dueDate/2025-01-01", nil, "Error fetching tasks by due date."},
	}
	for _, tc := range cases {
		rr := doJSON(t, app, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusInternalServerError, rr.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.msg, decodeError(t, rr))
		assert.NotContains(t, rr.Body.String(), "connection reset")
	}

	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, app, http.MethodGet, "/health", nil).Code)
}
