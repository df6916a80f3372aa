package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/echotask/echotask/internal/database"
	"github.com/echotask/echotask/internal/logger"
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

// UtteranceHandler runs the capture pipeline: classify an utterance,
// extract a task from it, and keep the conversation log current.
type UtteranceHandler struct {
	taskRepo          database.TaskRepositoryInterface
	convRepo          database.ConversationRepositoryInterface
	jobQueue          queue.JobQueue
	enrichmentEnabled bool
	logger            *zap.Logger
}

// NewUtteranceHandler creates a new utterance handler. jobQueue may be nil,
// in which case enrichment and async topic refresh are skipped.
func NewUtteranceHandler(
	taskRepo database.TaskRepositoryInterface,
	convRepo database.ConversationRepositoryInterface,
	jobQueue queue.JobQueue,
	enrichmentEnabled bool,
	log *zap.Logger,
) *UtteranceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UtteranceHandler{
		taskRepo:          taskRepo,
		convRepo:          convRepo,
		jobQueue:          jobQueue,
		enrichmentEnabled: enrichmentEnabled,
		logger:            log,
	}
}

// RegisterRoutes registers utterance routes on the given router
func (h *UtteranceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ProcessUtterance).Methods("POST")
}

// MaxUtteranceLength bounds a single speech transcript
const MaxUtteranceLength = 1000

// UtteranceRequest represents a captured utterance
type UtteranceRequest struct {
	Text           string     `json:"text" validate:"required,min=1,max=1000"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
}

// UtteranceResponse is the pipeline result. Task is nil for non-task
// utterances; Suggestion is empty unless a similar open task was found.
type UtteranceResponse struct {
	Task           *models.Task `json:"task,omitempty"`
	Reply          string       `json:"reply"`
	Suggestion     string       `json:"suggestion,omitempty"`
	ConversationID uuid.UUID    `json:"conversation_id"`
	Topic          string       `json:"topic"`
}

// ProcessUtterance classifies the utterance, persists a task when one is
// detected, and appends the exchange to the conversation.
func (h *UtteranceHandler) ProcessUtterance(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req UtteranceRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
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

	text := validation.SanitizeText(req.Text)
	if text == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Text is required and cannot be empty after sanitization")
		return
	}

	ctx := r.Context()
	now := time.Now()

	var task *models.Task
	var suggestion string

	parsed := parser.ParseTask(text)
	if parsed != nil {
		title := parsed.Title
		if title == "" {
			// The utterance was all command and date/time phrasing.
			// Keep the expanded text so the task is not blank.
			title = parser.ExpandAbbreviations(text)
		}

		dueDate := parser.ResolveDate(parsed.RawDate, now)
		dueTime := parser.ResolveTime(parsed.RawTime)

		task = &models.Task{
			ID:        uuid.New(),
			UserID:    user.ID,
			Title:     title,
			Utterance: text,
			DueDate:   &dueDate,
			DueTime:   &dueTime,
			Category:  parsed.SuggestedCategory,
			Source:    models.TaskSourceRules,
		}

		if err := h.taskRepo.Create(ctx, task); err != nil {
			h.logger.Error("task_creation_failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create task")
			return
		}

		h.logger.Info("task_captured",
			zap.String("task_id", task.ID.String()),
			zap.String("category", task.Category),
			zap.String("utterance", logger.SanitizeUtterance(text)),
		)

		// Similarity only considers open tasks due the same day.
		existing, err := h.taskRepo.GetOpenByUserAndDate(ctx, user.ID, dueDate)
		if err != nil {
			h.logger.Warn("similar_task_lookup_failed", zap.Error(err))
		} else {
			suggestion = parser.CheckForSimilarTasks(task, existing)
		}

		h.enqueueEnrichment(ctx, user.ID, task.ID)
	}

	reply := parser.BotReply(text, task != nil)

	conv, err := h.resolveConversation(ctx, user.ID, req.ConversationID)
	if err != nil {
		h.logger.Error("conversation_resolution_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to resolve conversation")
		return
	}

	userMsg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Role:           models.MessageRoleUser,
		Content:        text,
	}
	if err := h.convRepo.AppendMessage(ctx, userMsg); err != nil {
		h.logger.Error("message_append_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record message")
		return
	}

	botMsg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Role:           models.MessageRoleBot,
		Content:        reply,
	}
	if err := h.convRepo.AppendMessage(ctx, botMsg); err != nil {
		h.logger.Error("message_append_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record message")
		return
	}

	topic := h.refreshTopic(ctx, user.ID, conv)

	respondJSON(w, http.StatusCreated, UtteranceResponse{
		Task:           task,
		Reply:          reply,
		Suggestion:     suggestion,
		ConversationID: conv.ID,
		Topic:          topic,
	})
}

// resolveConversation finds the conversation for this exchange: the one the
// client named, the user's active one, or a fresh one.
func (h *UtteranceHandler) resolveConversation(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID) (*models.Conversation, error) {
	if conversationID != nil {
		conv, err := h.convRepo.GetByID(ctx, *conversationID)
		if err != nil {
			return nil, fmt.Errorf("conversation not found: %w", err)
		}
		if conv.UserID != userID {
			return nil, fmt.Errorf("conversation does not belong to user")
		}
		return conv, nil
	}

	conv, err := h.convRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active conversation: %w", err)
	}
	if conv != nil {
		return conv, nil
	}

	conv = &models.Conversation{
		ID:     uuid.New(),
		UserID: userID,
		Topic:  parser.DefaultTopic,
		Status: models.ConversationStatusActive,
	}
	if err := h.convRepo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// refreshTopic recomputes the conversation topic. The derivation is cheap,
// so it runs inline; the queued refresh job exists for the worker to
// re-derive topics after enrichment rewrites task titles.
func (h *UtteranceHandler) refreshTopic(ctx context.Context, userID uuid.UUID, conv *models.Conversation) string {
	msgPtrs, err := h.convRepo.GetMessages(ctx, conv.ID)
	if err != nil {
		h.logger.Warn("topic_refresh_failed", zap.Error(err))
		return conv.Topic
	}

	msgs := make([]models.Message, 0, len(msgPtrs))
	for _, m := range msgPtrs {
		msgs = append(msgs, *m)
	}

	topic := parser.GenerateTopic(msgs)
	if topic != conv.Topic {
		if err := h.convRepo.UpdateTopic(ctx, conv.ID, topic); err != nil {
			h.logger.Warn("topic_update_failed", zap.Error(err))
			return conv.Topic
		}
		conv.Topic = topic
	}
	return topic
}

// enqueueEnrichment schedules AI re-parsing for a captured task. Failure to
// enqueue never fails the capture: the rule-based fields stand on their own.
func (h *UtteranceHandler) enqueueEnrichment(ctx context.Context, userID, taskID uuid.UUID) {
	if !h.enrichmentEnabled || h.jobQueue == nil {
		return
	}

	job := queue.NewEnrichTaskJob(userID, taskID)
	if err := h.jobQueue.Enqueue(ctx, job); err != nil {
		h.logger.Warn("enrichment_enqueue_failed",
			zap.String("task_id", taskID.String()),
			zap.Error(err),
		)
	}
}
