package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echotask/echotask/internal/models"
	"github.com/echotask/echotask/internal/parser"
	"github.com/echotask/echotask/internal/queue"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func newConversationRouter(repo *mockConversationRepo, jobQueue queue.JobQueue) *mux.Router {
	router := mux.NewRouter()
	NewConversationHandler(repo, jobQueue, nil).RegisterRoutes(router.PathPrefix("/api/v1/conversations").Subrouter())
	return router
}

func seedConversation(repo *mockConversationRepo, user *models.User) *models.Conversation {
	conv := &models.Conversation{
		ID:     uuid.New(),
		UserID: user.ID,
		Topic:  parser.DefaultTopic,
		Status: models.ConversationStatusActive,
	}
	repo.conversations[conv.ID] = conv
	return conv
}

func TestCreateConversation(t *testing.T) {
	t.Parallel()

	user := testUser()
	repo := newMockConversationRepo()

	req := authenticatedRequest("POST", "/api/v1/conversations", nil, user)
	w := httptest.NewRecorder()
	newConversationRouter(repo, nil).ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var result models.Conversation
	decodeData(t, resp, &result)

	if result.Topic != parser.DefaultTopic {
		t.Errorf("Expected default topic, got %q", result.Topic)
	}
	if result.Status != models.ConversationStatusActive {
		t.Errorf("Expected active status, got %s", result.Status)
	}
	if result.UserID != user.ID {
		t.Errorf("Expected owner %s, got %s", user.ID, result.UserID)
	}
}

func TestGetConversation_IncludesMessages(t *testing.T) {
	t.Parallel()

	user := testUser()
	repo := newMockConversationRepo()
	conv := seedConversation(repo, user)
	repo.messages[conv.ID] = []*models.Message{
		{ID: uuid.New(), ConversationID: conv.ID, Role: models.MessageRoleUser, Content: "remind me to call mom"},
		{ID: uuid.New(), ConversationID: conv.ID, Role: models.MessageRoleBot, Content: "Task created!"},
	}

	req := authenticatedRequest("GET", "/api/v1/conversations/"+conv.ID.String(), nil, user)
	w := httptest.NewRecorder()
	newConversationRouter(repo, nil).ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result ConversationWithMessages
	decodeData(t, resp, &result)

	if result.ID != conv.ID {
		t.Errorf("Expected conversation %s, got %s", conv.ID, result.ID)
	}
	if len(result.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(result.Messages))
	}
}

func TestGetConversation_Ownership(t *testing.T) {
	t.Parallel()

	owner := testUser()
	repo := newMockConversationRepo()
	conv := seedConversation(repo, owner)

	req := authenticatedRequest("GET", "/api/v1/conversations/"+conv.ID.String(), nil, testUser())
	w := httptest.NewRecorder()
	newConversationRouter(repo, nil).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Result().StatusCode)
	}
}

func TestAppendMessage(t *testing.T) {
	t.Parallel()

	user := testUser()

	tests := []struct {
		name       string
		request    AppendMessageRequest
		wantStatus int
	}{
		{
			name:       "user message",
			request:    AppendMessageRequest{Role: "user", Content: "need to buy groceries"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "bot message",
			request:    AppendMessageRequest{Role: "bot", Content: "Task created!"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid role",
			request:    AppendMessageRequest{Role: "system", Content: "hello"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty content",
			request:    AppendMessageRequest{Role: "user", Content: ""},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newMockConversationRepo()
			conv := seedConversation(repo, user)
			jobQueue := &mockJobQueue{}

			body, _ := json.Marshal(tt.request)
			req := authenticatedRequest("POST", "/api/v1/conversations/"+conv.ID.String()+"/messages", body, user)
			w := httptest.NewRecorder()
			newConversationRouter(repo, jobQueue).ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus != http.StatusCreated {
				if len(repo.messages[conv.ID]) != 0 {
					t.Errorf("Expected no messages appended, got %d", len(repo.messages[conv.ID]))
				}
				return
			}

			msgs := repo.messages[conv.ID]
			if len(msgs) != 1 {
				t.Fatalf("Expected 1 message appended, got %d", len(msgs))
			}
			if string(msgs[0].Role) != tt.request.Role {
				t.Errorf("Expected role %s, got %s", tt.request.Role, msgs[0].Role)
			}

			// Every append schedules an async topic refresh.
			if len(jobQueue.enqueued) != 1 {
				t.Fatalf("Expected 1 topic refresh job, got %d", len(jobQueue.enqueued))
			}
			job := jobQueue.enqueued[0]
			if job.Type != queue.JobTypeRefreshTopic {
				t.Errorf("Expected refresh_topic job, got %s", job.Type)
			}
			if job.ConversationID == nil || *job.ConversationID != conv.ID {
				t.Errorf("Expected job for conversation %s, got %v", conv.ID, job.ConversationID)
			}
		})
	}
}

func TestAppendMessage_NoQueue(t *testing.T) {
	t.Parallel()

	user := testUser()
	repo := newMockConversationRepo()
	conv := seedConversation(repo, user)

	body, _ := json.Marshal(AppendMessageRequest{Role: "user", Content: "remind me to water the plants"})
	req := authenticatedRequest("POST", "/api/v1/conversations/"+conv.ID.String()+"/messages", body, user)
	w := httptest.NewRecorder()
	newConversationRouter(repo, nil).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("Expected append to succeed without a queue, got %d", w.Result().StatusCode)
	}
}

func TestArchiveConversation(t *testing.T) {
	t.Parallel()

	user := testUser()
	repo := newMockConversationRepo()
	conv := seedConversation(repo, user)

	req := authenticatedRequest("POST", "/api/v1/conversations/"+conv.ID.String()+"/archive", nil, user)
	w := httptest.NewRecorder()
	newConversationRouter(repo, nil).ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if repo.conversations[conv.ID].Status != models.ConversationStatusSaved {
		t.Errorf("Expected saved status, got %s", repo.conversations[conv.ID].Status)
	}
}

func TestDeleteConversation(t *testing.T) {
	t.Parallel()

	user := testUser()
	repo := newMockConversationRepo()
	conv := seedConversation(repo, user)

	req := authenticatedRequest("DELETE", "/api/v1/conversations/"+conv.ID.String(), nil, user)
	w := httptest.NewRecorder()
	newConversationRouter(repo, nil).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Result().StatusCode)
	}
	if _, exists := repo.conversations[conv.ID]; exists {
		t.Error("Expected conversation removed")
	}
}
