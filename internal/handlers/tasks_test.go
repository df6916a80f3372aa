package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echotask/echotask/internal/database"
	"github.com/echotask/echotask/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func newTaskRouter(repo database.TaskRepositoryInterface) *mux.Router {
	router := mux.NewRouter()
	NewTaskHandler(repo).RegisterRoutes(router.PathPrefix("/api/v1/tasks").Subrouter())
	return router
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	user := testUser()
	dueDate := "2025-06-12"
	dueTime := "09:00"
	stored := []*models.Task{
		{ID: uuid.New(), UserID: user.ID, Title: "Pay rent", Category: "Finance", DueDate: &dueDate},
		{ID: uuid.New(), UserID: user.ID, Title: "Morning run", Category: "Health", DueDate: &dueDate, DueTime: &dueTime},
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFilter func(t *testing.T, filter database.TaskFilter)
	}{
		{
			name:       "no filters",
			query:      "",
			wantStatus: http.StatusOK,
			wantFilter: func(t *testing.T, filter database.TaskFilter) {
				if filter.Category != nil || filter.DueDate != nil || filter.IsDone != nil {
					t.Errorf("Expected empty filter, got %+v", filter)
				}
			},
		},
		{
			name:       "category filter",
			query:      "?category=Finance",
			wantStatus: http.StatusOK,
			wantFilter: func(t *testing.T, filter database.TaskFilter) {
				if filter.Category == nil || *filter.Category != "Finance" {
					t.Errorf("Expected category filter Finance, got %v", filter.Category)
				}
			},
		},
		{
			name:       "due date and is_done filters",
			query:      "?due_date=2025-06-12&is_done=false",
			wantStatus: http.StatusOK,
			wantFilter: func(t *testing.T, filter database.TaskFilter) {
				if filter.DueDate == nil || *filter.DueDate != "2025-06-12" {
					t.Errorf("Expected due date filter, got %v", filter.DueDate)
				}
				if filter.IsDone == nil || *filter.IsDone != false {
					t.Errorf("Expected is_done filter, got %v", filter.IsDone)
				}
			},
		},
		{
			name:       "invalid category",
			query:      "?category=Chores",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid due date",
			query:      "?due_date=12/06/2025",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid is_done",
			query:      "?is_done=maybe",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured database.TaskFilter
			repo := &mockTaskRepo{
				getPaginatedFunc: func(ctx context.Context, userID uuid.UUID, filter database.TaskFilter, page, pageSize int) ([]*models.Task, int, error) {
					captured = filter
					return stored, len(stored), nil
				},
			}

			req := authenticatedRequest("GET", "/api/v1/tasks"+tt.query, nil, user)
			w := httptest.NewRecorder()
			newTaskRouter(repo).ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			tt.wantFilter(t, captured)

			var result ListTasksResponse
			decodeData(t, resp, &result)
			if len(result.Tasks) != 2 {
				t.Errorf("Expected 2 tasks, got %d", len(result.Tasks))
			}
			if result.Total != 2 || result.Page != 1 {
				t.Errorf("Expected total 2 on page 1, got total %d page %d", result.Total, result.Page)
			}
		})
	}
}

func TestListTasks_PageSizeClamped(t *testing.T) {
	t.Parallel()

	var gotPageSize int
	repo := &mockTaskRepo{
		getPaginatedFunc: func(ctx context.Context, userID uuid.UUID, filter database.TaskFilter, page, pageSize int) ([]*models.Task, int, error) {
			gotPageSize = pageSize
			return []*models.Task{}, 0, nil
		},
	}

	req := authenticatedRequest("GET", "/api/v1/tasks?page_size=9999", nil, testUser())
	w := httptest.NewRecorder()
	newTaskRouter(repo).ServeHTTP(w, req)

	if gotPageSize != MaxPageSize {
		t.Errorf("Expected page size clamped to %d, got %d", MaxPageSize, gotPageSize)
	}
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	user := testUser()
	dueDate := "2025-07-01"
	dueTime := "14:30"

	tests := []struct {
		name       string
		request    CreateTaskRequest
		wantStatus int
		check      func(t *testing.T, task *models.Task)
	}{
		{
			name:       "full task",
			request:    CreateTaskRequest{Title: "Pay electricity bill", DueDate: &dueDate, DueTime: &dueTime, Category: "Finance"},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, task *models.Task) {
				if task.Title != "Pay electricity bill" {
					t.Errorf("Unexpected title %q", task.Title)
				}
				if task.Category != "Finance" {
					t.Errorf("Expected Finance, got %s", task.Category)
				}
				if task.Source != models.TaskSourceRules {
					t.Errorf("Expected rules source, got %s", task.Source)
				}
			},
		},
		{
			name:       "default category",
			request:    CreateTaskRequest{Title: "Buy milk"},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, task *models.Task) {
				if task.Category != "Tasks" {
					t.Errorf("Expected default category Tasks, got %s", task.Category)
				}
			},
		},
		{
			name:       "missing title",
			request:    CreateTaskRequest{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid due date",
			request: func() CreateTaskRequest {
				bad := "not-a-date"
				return CreateTaskRequest{Title: "Test", DueDate: &bad}
			}(),
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid category",
			request: func() CreateTaskRequest {
				return CreateTaskRequest{Title: "Test", Category: "Chores"}
			}(),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockTaskRepo{}
			body, _ := json.Marshal(tt.request)
			req := authenticatedRequest("POST", "/api/v1/tasks", body, user)
			w := httptest.NewRecorder()
			newTaskRouter(repo).ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus != http.StatusCreated {
				if len(repo.created) != 0 {
					t.Errorf("Expected no task persisted, got %d", len(repo.created))
				}
				return
			}

			if len(repo.created) != 1 {
				t.Fatalf("Expected 1 task persisted, got %d", len(repo.created))
			}
			tt.check(t, repo.created[0])
		})
	}
}

func TestGetTask_Ownership(t *testing.T) {
	t.Parallel()

	owner := testUser()
	intruder := testUser()
	task := &models.Task{ID: uuid.New(), UserID: owner.ID, Title: "Private task", Category: "Tasks"}
	repo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
			return task, nil
		},
	}

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{name: "owner can read", user: owner, wantStatus: http.StatusOK},
		{name: "other user forbidden", user: intruder, wantStatus: http.StatusForbidden},
		{name: "anonymous unauthorized", user: nil, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := authenticatedRequest("GET", "/api/v1/tasks/"+task.ID.String(), nil, tt.user)
			w := httptest.NewRecorder()
			newTaskRouter(repo).ServeHTTP(w, req)

			if w.Result().StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Result().StatusCode)
			}
		})
	}
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	user := testUser()
	dueDate := "2025-06-12"
	dueTime := "10:00"

	newTask := func() *models.Task {
		d, tm := dueDate, dueTime
		return &models.Task{
			ID:       uuid.New(),
			UserID:   user.ID,
			Title:    "Original title",
			DueDate:  &d,
			DueTime:  &tm,
			Category: "Work",
		}
	}

	t.Run("partial update changes only provided fields", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		var updated *models.Task
		repo := &mockTaskRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) { return task, nil },
			updateFunc:  func(ctx context.Context, task *models.Task) error { updated = task; return nil },
		}

		title := "Renamed"
		body, _ := json.Marshal(UpdateTaskRequest{Title: &title})
		req := authenticatedRequest("PATCH", "/api/v1/tasks/"+task.ID.String(), body, user)
		w := httptest.NewRecorder()
		newTaskRouter(repo).ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
		}
		if updated == nil {
			t.Fatal("Expected update to be persisted")
		}
		if updated.Title != "Renamed" {
			t.Errorf("Expected renamed title, got %q", updated.Title)
		}
		if updated.DueDate == nil || *updated.DueDate != dueDate {
			t.Errorf("Expected due date untouched, got %v", updated.DueDate)
		}
		if updated.Category != "Work" {
			t.Errorf("Expected category untouched, got %s", updated.Category)
		}
	})

	t.Run("empty string clears due date and time", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		var updated *models.Task
		repo := &mockTaskRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) { return task, nil },
			updateFunc:  func(ctx context.Context, task *models.Task) error { updated = task; return nil },
		}

		empty := ""
		body, _ := json.Marshal(UpdateTaskRequest{DueDate: &empty, DueTime: &empty})
		req := authenticatedRequest("PATCH", "/api/v1/tasks/"+task.ID.String(), body, user)
		w := httptest.NewRecorder()
		newTaskRouter(repo).ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
		}
		if updated.DueDate != nil || updated.DueTime != nil {
			t.Errorf("Expected due date and time cleared, got %v %v", updated.DueDate, updated.DueTime)
		}
	})

	t.Run("invalid time rejected", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		repo := &mockTaskRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) { return task, nil },
		}

		bad := "25:99"
		body, _ := json.Marshal(UpdateTaskRequest{DueTime: &bad})
		req := authenticatedRequest("PATCH", "/api/v1/tasks/"+task.ID.String(), body, user)
		w := httptest.NewRecorder()
		newTaskRouter(repo).ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
		}
	})
}

func TestCompleteTask(t *testing.T) {
	t.Parallel()

	user := testUser()
	task := &models.Task{ID: uuid.New(), UserID: user.ID, Title: "Water plants", Category: "Home"}

	var updated *models.Task
	repo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) { return task, nil },
		updateFunc:  func(ctx context.Context, task *models.Task) error { updated = task; return nil },
	}

	req := authenticatedRequest("POST", "/api/v1/tasks/"+task.ID.String()+"/complete", nil, user)
	w := httptest.NewRecorder()
	newTaskRouter(repo).ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if updated == nil || !updated.IsDone {
		t.Error("Expected task marked done")
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	user := testUser()
	task := &models.Task{ID: uuid.New(), UserID: user.ID, Title: "Old task", Category: "Tasks"}

	var deleted uuid.UUID
	repo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) { return task, nil },
		deleteFunc:  func(ctx context.Context, id uuid.UUID) error { deleted = id; return nil },
	}

	req := authenticatedRequest("DELETE", "/api/v1/tasks/"+task.ID.String(), nil, user)
	w := httptest.NewRecorder()
	newTaskRouter(repo).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Result().StatusCode)
	}
	if deleted != task.ID {
		t.Errorf("Expected delete of %s, got %s", task.ID, deleted)
	}
}
