package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/echotask/echotask/internal/database"
	"github.com/echotask/echotask/internal/middleware"
	"github.com/echotask/echotask/internal/models"
	"github.com/echotask/echotask/internal/parser"
	"github.com/echotask/echotask/internal/queue"
	"github.com/echotask/echotask/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ConversationHandler handles conversation log requests
type ConversationHandler struct {
	convRepo database.ConversationRepositoryInterface
	jobQueue queue.JobQueue
	logger   *zap.Logger
}

// NewConversationHandler creates a new conversation handler. jobQueue may be
// nil, in which case topic refresh after message appends is skipped.
func NewConversationHandler(convRepo database.ConversationRepositoryInterface, jobQueue queue.JobQueue, log *zap.Logger) *ConversationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConversationHandler{convRepo: convRepo, jobQueue: jobQueue, logger: log}
}

// RegisterRoutes registers conversation routes on the given router
// The router should already have the /conversations prefix
func (h *ConversationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListConversations).Methods("GET")
	r.HandleFunc("", h.CreateConversation).Methods("POST")
	r.HandleFunc("/{id}", h.GetConversation).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteConversation).Methods("DELETE")
	r.HandleFunc("/{id}/messages", h.ListMessages).Methods("GET")
	r.HandleFunc("/{id}/messages", h.AppendMessage).Methods("POST")
	r.HandleFunc("/{id}/archive", h.ArchiveConversation).Methods("POST")
}

// AppendMessageRequest represents a message append request
type AppendMessageRequest struct {
	Role    string `json:"role" validate:"required,oneof=user bot"`
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// ConversationWithMessages is a conversation plus its transcript
type ConversationWithMessages struct {
	*models.Conversation
	Messages []*models.Message `json:"messages"`
}

// ListConversations lists the user's conversations, most recent first
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	conversations, err := h.convRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve conversations")
		return
	}

	respondJSON(w, http.StatusOK, conversations)
}

// CreateConversation starts a new conversation
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	conv := &models.Conversation{
		ID:     uuid.New(),
		UserID: user.ID,
		Topic:  parser.DefaultTopic,
		Status: models.ConversationStatusActive,
	}

	if err := h.convRepo.Create(r.Context(), conv); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create conversation")
		return
	}

	respondJSON(w, http.StatusCreated, conv)
}

// GetConversation retrieves a conversation with its transcript
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	conv, ok := h.loadOwnedConversation(w, r, user.ID)
	if !ok {
		return
	}

	messages, err := h.convRepo.GetMessages(r.Context(), conv.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve messages")
		return
	}

	respondJSON(w, http.StatusOK, ConversationWithMessages{Conversation: conv, Messages: messages})
}

// ListMessages retrieves a conversation's transcript in order
func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	conv, ok := h.loadOwnedConversation(w, r, user.ID)
	if !ok {
		return
	}

	messages, err := h.convRepo.GetMessages(r.Context(), conv.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// AppendMessage appends a message to a conversation and schedules a topic
// refresh so the stored topic tracks the transcript.
func (h *ConversationHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	conv, ok := h.loadOwnedConversation(w, r, user.ID)
	if !ok {
		return
	}

	var req AppendMessageRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	content := validation.SanitizeText(req.Content)
	if content == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Content cannot be empty after sanitization")
		return
	}

	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Role:           models.MessageRole(req.Role),
		Content:        content,
	}

	if err := h.convRepo.AppendMessage(r.Context(), msg); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to append message")
		return
	}

	if h.jobQueue != nil {
		job := queue.NewRefreshTopicJob(user.ID, conv.ID)
		if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
			h.logger.Warn("topic_refresh_enqueue_failed",
				zap.String("conversation_id", conv.ID.String()),
				zap.Error(err),
			)
		}
	}

	respondJSON(w, http.StatusCreated, msg)
}

// ArchiveConversation marks a conversation as saved
func (h *ConversationHandler) ArchiveConversation(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	conv, ok := h.loadOwnedConversation(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.convRepo.UpdateStatus(r.Context(), conv.ID, models.ConversationStatusSaved); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to archive conversation")
		return
	}

	conv.Status = models.ConversationStatusSaved
	respondJSON(w, http.StatusOK, conv)
}

// DeleteConversation deletes a conversation and its transcript
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	conv, ok := h.loadOwnedConversation(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.convRepo.Delete(r.Context(), conv.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete conversation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadOwnedConversation parses the route ID, loads the conversation, and
// verifies ownership, writing the error response itself when any step fails.
func (h *ConversationHandler) loadOwnedConversation(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Conversation, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid conversation ID")
		return nil, false
	}

	conv, err := h.convRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Conversation not found")
		return nil, false
	}

	if conv.UserID != userID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Conversation does not belong to user")
		return nil, false
	}

	return conv, true
}
