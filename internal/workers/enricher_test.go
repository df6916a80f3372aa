package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/echotask/echotask/internal/database"
	"github.com/echotask/echotask/internal/models"
	"github.com/echotask/echotask/internal/queue"
	"github.com/echotask/echotask/internal/services/ai"
	"github.com/google/uuid"
)

// mockAIProvider is a mock implementation of ai.Provider
type mockAIProvider struct {
	parseUtteranceFunc func(ctx context.Context, utterance string, now time.Time) (*ai.EnrichedTask, error)
}

func (m *mockAIProvider) ParseUtterance(ctx context.Context, utterance string, now time.Time) (*ai.EnrichedTask, error) {
	if m.parseUtteranceFunc != nil {
		return m.parseUtteranceFunc(ctx, utterance, now)
	}
	return &ai.EnrichedTask{Title: "Enriched title", Category: "Tasks"}, nil
}

// Ensure mock implements Provider interface
var _ ai.Provider = (*mockAIProvider)(nil)

// mockTaskRepo is a mock implementation of TaskRepositoryInterface
type mockTaskRepo struct {
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*models.Task, error)
	updateFunc  func(ctx context.Context, task *models.Task) error
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &models.Task{
		ID:        id,
		UserID:    uuid.New(),
		Title:     "Test task",
		Utterance: "test task",
		Category:  "Tasks",
		Source:    models.TaskSourceRules,
	}, nil
}

func (m *mockTaskRepo) GetByUserID(ctx context.Context, userID uuid.UUID, category *string, isDone *bool) ([]*models.Task, error) {
	return []*models.Task{}, nil
}

func (m *mockTaskRepo) GetByUserIDPaginated(ctx context.Context, userID uuid.UUID, filter database.TaskFilter, page, pageSize int) ([]*models.Task, int, error) {
	return []*models.Task{}, 0, nil
}

func (m *mockTaskRepo) GetOpenByUserAndDate(ctx context.Context, userID uuid.UUID, dueDate string) ([]*models.Task, error) {
	return []*models.Task{}, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, task)
	}
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// Ensure mock implements interface
var _ database.TaskRepositoryInterface = (*mockTaskRepo)(nil)

// mockConversationRepo is a mock implementation of ConversationRepositoryInterface
type mockConversationRepo struct {
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	getMessagesFunc func(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
	updateTopicFunc func(ctx context.Context, id uuid.UUID, topic string) error
}

func (m *mockConversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	return nil
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &models.Conversation{
		ID:     id,
		UserID: uuid.New(),
		Topic:  "New Conversation",
		Status: models.ConversationStatusActive,
	}, nil
}

func (m *mockConversationRepo) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	return nil, nil
}

func (m *mockConversationRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	return []*models.Conversation{}, nil
}

func (m *mockConversationRepo) UpdateTopic(ctx context.Context, id uuid.UUID, topic string) error {
	if m.updateTopicFunc != nil {
		return m.updateTopicFunc(ctx, id, topic)
	}
	return nil
}

func (m *mockConversationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus) error {
	return nil
}

func (m *mockConversationRepo) AppendMessage(ctx context.Context, msg *models.Message) error {
	return nil
}

func (m *mockConversationRepo) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	if m.getMessagesFunc != nil {
		return m.getMessagesFunc(ctx, conversationID)
	}
	return []*models.Message{}, nil
}

func (m *mockConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// Ensure mock implements interface
var _ database.ConversationRepositoryInterface = (*mockConversationRepo)(nil)

// mockJobQueue is a mock implementation of JobQueue
type mockJobQueue struct {
	enqueueFunc func(ctx context.Context, job *queue.Job) error
}

func (m *mockJobQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, job)
	}
	return nil
}

func (m *mockJobQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (m *mockJobQueue) Close() error {
	return nil
}

func (m *mockJobQueue) HealthCheck(ctx context.Context) error {
	return nil
}

// Ensure mock implements interface
var _ queue.JobQueue = (*mockJobQueue)(nil)

// mockMessage is a mock implementation of MessageInterface
type mockMessage struct {
	job      *queue.Job
	ackFunc  func() error
	nackFunc func(requeue bool) error
}

func (m *mockMessage) Ack() error {
	if m.ackFunc != nil {
		return m.ackFunc()
	}
	return nil
}

func (m *mockMessage) Nack(requeue bool) error {
	if m.nackFunc != nil {
		return m.nackFunc(requeue)
	}
	return nil
}

func (m *mockMessage) GetJob() *queue.Job {
	return m.job
}

// Ensure mock implements interface
var _ queue.MessageInterface = (*mockMessage)(nil)

func TestEnricher_ProcessEnrichTaskJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name         string
		job          *queue.Job
		setupMocks   func(updated **models.Task) (*mockAIProvider, *mockTaskRepo)
		expectError  bool
		validateTask func(*testing.T, *models.Task)
	}{
		{
			name: "successful enrichment",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobTypeEnrichTask,
				UserID: userID,
				TaskID: &taskID,
			},
			setupMocks: func(updated **models.Task) (*mockAIProvider, *mockTaskRepo) {
				provider := &mockAIProvider{
					parseUtteranceFunc: func(ctx context.Context, utterance string, now time.Time) (*ai.EnrichedTask, error) {
						return &ai.EnrichedTask{
							Title:    "Call the dentist",
							DueDate:  stringPtr("2025-06-12"),
							DueTime:  stringPtr("14:30"),
							Category: "Health",
						}, nil
					},
				}
				taskRepo := &mockTaskRepo{
					getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
						return &models.Task{
							ID:        id,
							UserID:    userID,
							Title:     "call dentist",
							Utterance: "remind me to call the dentist",
							Category:  "Tasks",
							Source:    models.TaskSourceRules,
						}, nil
					},
					updateFunc: func(ctx context.Context, task *models.Task) error {
						*updated = task
						return nil
					},
				}
				return provider, taskRepo
			},
			expectError: false,
			validateTask: func(t *testing.T, task *models.Task) {
				if task == nil {
					t.Fatal("Expected task to be updated")
				}
				if task.Title != "Call the dentist" {
					t.Errorf("Expected enriched title, got %q", task.Title)
				}
				if task.Source != models.TaskSourceAI {
					t.Errorf("Expected source to be ai, got %s", task.Source)
				}
				if task.DueDate == nil || *task.DueDate != "2025-06-12" {
					t.Errorf("Expected due date 2025-06-12, got %v", task.DueDate)
				}
				if task.DueTime == nil || *task.DueTime != "14:30" {
					t.Errorf("Expected due time 14:30, got %v", task.DueTime)
				}
				if task.Category != "Health" {
					t.Errorf("Expected category Health, got %s", task.Category)
				}
			},
		},
		{
			name: "missing task_id",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobTypeEnrichTask,
				UserID: userID,
				TaskID: nil,
			},
			setupMocks: func(updated **models.Task) (*mockAIProvider, *mockTaskRepo) {
				return &mockAIProvider{}, &mockTaskRepo{}
			},
			expectError: true,
		},
		{
			name: "task not found",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobTypeEnrichTask,
				UserID: userID,
				TaskID: &taskID,
			},
			setupMocks: func(updated **models.Task) (*mockAIProvider, *mockTaskRepo) {
				taskRepo := &mockTaskRepo{
					getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
						return nil, errors.New("not found")
					},
				}
				return &mockAIProvider{}, taskRepo
			},
			expectError: true,
		},
		{
			name: "task belongs to different user",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobTypeEnrichTask,
				UserID: userID,
				TaskID: &taskID,
			},
			setupMocks: func(updated **models.Task) (*mockAIProvider, *mockTaskRepo) {
				taskRepo := &mockTaskRepo{
					getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
						return &models.Task{
							ID:        id,
							UserID:    uuid.New(), // Different user
							Title:     "Test task",
							Utterance: "test task",
						}, nil
					},
				}
				return &mockAIProvider{}, taskRepo
			},
			expectError: true,
		},
		{
			name: "completed task skipped",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobTypeEnrichTask,
				UserID: userID,
				TaskID: &taskID,
			},
			setupMocks: func(updated **models.Task) (*mockAIProvider, *mockTaskRepo) {
				provider := &mockAIProvider{
					parseUtteranceFunc: func(ctx context.Context, utterance string, now time.Time) (*ai.EnrichedTask, error) {
						return nil, errors.New("provider should not be called")
					},
				}
				taskRepo := &mockTaskRepo{
					getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
						return &models.Task{
							ID:        id,
							UserID:    userID,
							Title:     "Done task",
							Utterance: "done task",
							IsDone:    true,
						}, nil
					},
				}
				return provider, taskRepo
			},
			expectError: false, // Should skip silently
			validateTask: func(t *testing.T, task *models.Task) {
				if task != nil {
					t.Error("Expected no update for completed task")
				}
			},
		},
		{
			name: "provider error",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobTypeEnrichTask,
				UserID: userID,
				TaskID: &taskID,
			},
			setupMocks: func(updated **models.Task) (*mockAIProvider, *mockTaskRepo) {
				provider := &mockAIProvider{
					parseUtteranceFunc: func(ctx context.Context, utterance string, now time.Time) (*ai.EnrichedTask, error) {
						return nil, errors.New("provider failed")
					},
				}
				taskRepo := &mockTaskRepo{
					getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
						return &models.Task{
							ID:        id,
							UserID:    userID,
							Title:     "Test task",
							Utterance: "test task",
						}, nil
					},
				}
				return provider, taskRepo
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var updated *models.Task
			provider, taskRepo := tt.setupMocks(&updated)

			enricher := NewEnricher(provider, taskRepo, &mockConversationRepo{}, &mockJobQueue{}, nil)

			err := enricher.ProcessEnrichTaskJob(context.Background(), tt.job)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}

			if tt.validateTask != nil {
				tt.validateTask(t, updated)
			}
		})
	}
}

func TestEnricher_ProcessRefreshTopicJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	conversationID := uuid.New()

	t.Run("topic updated from transcript", func(t *testing.T) {
		t.Parallel()

		var updatedTopic string
		convRepo := &mockConversationRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
				return &models.Conversation{
					ID:     id,
					UserID: userID,
					Topic:  "New Conversation",
					Status: models.ConversationStatusActive,
				}, nil
			},
			getMessagesFunc: func(ctx context.Context, id uuid.UUID) ([]*models.Message, error) {
				return []*models.Message{
					{ConversationID: id, Role: models.MessageRoleUser, Content: "remind me to water the plants"},
					{ConversationID: id, Role: models.MessageRoleBot, Content: "Task added."},
				}, nil
			},
			updateTopicFunc: func(ctx context.Context, id uuid.UUID, topic string) error {
				updatedTopic = topic
				return nil
			},
		}

		enricher := NewEnricher(&mockAIProvider{}, &mockTaskRepo{}, convRepo, &mockJobQueue{}, nil)

		job := &queue.Job{
			ID:             uuid.New(),
			Type:           queue.JobTypeRefreshTopic,
			UserID:         userID,
			ConversationID: &conversationID,
		}

		if err := enricher.ProcessRefreshTopicJob(context.Background(), job); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if updatedTopic != "Remind me to water the plants" {
			t.Errorf("Expected topic derived from first user message, got %q", updatedTopic)
		}
	})

	t.Run("unchanged topic skips update", func(t *testing.T) {
		t.Parallel()

		updateCalled := false
		convRepo := &mockConversationRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
				return &models.Conversation{
					ID:     id,
					UserID: userID,
					Topic:  "Remind me to water the plants",
					Status: models.ConversationStatusActive,
				}, nil
			},
			getMessagesFunc: func(ctx context.Context, id uuid.UUID) ([]*models.Message, error) {
				return []*models.Message{
					{ConversationID: id, Role: models.MessageRoleUser, Content: "remind me to water the plants"},
				}, nil
			},
			updateTopicFunc: func(ctx context.Context, id uuid.UUID, topic string) error {
				updateCalled = true
				return nil
			},
		}

		enricher := NewEnricher(&mockAIProvider{}, &mockTaskRepo{}, convRepo, &mockJobQueue{}, nil)

		job := &queue.Job{
			ID:             uuid.New(),
			Type:           queue.JobTypeRefreshTopic,
			UserID:         userID,
			ConversationID: &conversationID,
		}

		if err := enricher.ProcessRefreshTopicJob(context.Background(), job); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if updateCalled {
			t.Error("Expected no update when topic is unchanged")
		}
	})

	t.Run("missing conversation_id", func(t *testing.T) {
		t.Parallel()

		enricher := NewEnricher(&mockAIProvider{}, &mockTaskRepo{}, &mockConversationRepo{}, &mockJobQueue{}, nil)

		job := &queue.Job{
			ID:     uuid.New(),
			Type:   queue.JobTypeRefreshTopic,
			UserID: userID,
		}

		if err := enricher.ProcessRefreshTopicJob(context.Background(), job); err == nil {
			t.Error("Expected error but got nil")
		}
	})

	t.Run("conversation belongs to different user", func(t *testing.T) {
		t.Parallel()

		convRepo := &mockConversationRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
				return &models.Conversation{
					ID:     id,
					UserID: uuid.New(), // Different user
					Topic:  "New Conversation",
				}, nil
			},
		}

		enricher := NewEnricher(&mockAIProvider{}, &mockTaskRepo{}, convRepo, &mockJobQueue{}, nil)

		job := &queue.Job{
			ID:             uuid.New(),
			Type:           queue.JobTypeRefreshTopic,
			UserID:         userID,
			ConversationID: &conversationID,
		}

		if err := enricher.ProcessRefreshTopicJob(context.Background(), job); err == nil {
			t.Error("Expected error but got nil")
		}
	})
}

func TestEnricher_ProcessJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name        string
		job         *queue.Job
		setupMocks  func() (*mockAIProvider, *mockTaskRepo)
		expectError bool
	}{
		{
			name: "enrich task job",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobTypeEnrichTask,
				UserID: userID,
				TaskID: &taskID,
			},
			setupMocks: func() (*mockAIProvider, *mockTaskRepo) {
				taskRepo := &mockTaskRepo{
					getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
						return &models.Task{
							ID:        id,
							UserID:    userID,
							Title:     "Test task",
							Utterance: "test task",
						}, nil
					},
				}
				return &mockAIProvider{}, taskRepo
			},
			expectError: false,
		},
		{
			name: "unknown job type",
			job: &queue.Job{
				ID:     uuid.New(),
				Type:   queue.JobType("unknown"),
				UserID: userID,
			},
			setupMocks: func() (*mockAIProvider, *mockTaskRepo) {
				return &mockAIProvider{}, &mockTaskRepo{}
			},
			expectError: true,
		},
		{
			name: "job not ready yet",
			job: &queue.Job{
				ID:        uuid.New(),
				Type:      queue.JobTypeEnrichTask,
				UserID:    userID,
				TaskID:    &taskID,
				NotBefore: timePtr(time.Now().Add(1 * time.Hour)),
			},
			setupMocks: func() (*mockAIProvider, *mockTaskRepo) {
				return &mockAIProvider{}, &mockTaskRepo{}
			},
			expectError: false, // Should skip silently
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, taskRepo := tt.setupMocks()

			enricher := NewEnricher(provider, taskRepo, &mockConversationRepo{}, &mockJobQueue{}, nil)

			msg := &mockMessage{
				job: tt.job,
			}

			err := enricher.ProcessJob(context.Background(), msg)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}

func TestEnricher_HandleJobError_QuotaReenqueue(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	quotaErr := &ai.APIError{
		StatusCode:  429,
		Type:        "insufficient_quota",
		Code:        "insufficient_quota",
		Message:     "You exceeded your current quota",
		IsPermanent: true,
	}

	var enqueued *queue.Job
	jobQueue := &mockJobQueue{
		enqueueFunc: func(ctx context.Context, job *queue.Job) error {
			enqueued = job
			return nil
		},
	}
	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Task, error) {
			return &models.Task{
				ID:        id,
				UserID:    userID,
				Title:     "Test task",
				Utterance: "test task",
			}, nil
		},
	}
	provider := &mockAIProvider{
		parseUtteranceFunc: func(ctx context.Context, utterance string, now time.Time) (*ai.EnrichedTask, error) {
			return nil, quotaErr
		},
	}

	enricher := NewEnricher(provider, taskRepo, &mockConversationRepo{}, jobQueue, nil)

	job := &queue.Job{
		ID:     uuid.New(),
		Type:   queue.JobTypeEnrichTask,
		UserID: userID,
		TaskID: &taskID,
	}
	msg := &mockMessage{job: job}

	if err := enricher.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("Expected quota error to be absorbed by re-enqueue, got: %v", err)
	}
	if enqueued == nil {
		t.Fatal("Expected job to be re-enqueued")
	}
	if enqueued.NotBefore == nil || !enqueued.NotBefore.After(time.Now()) {
		t.Error("Expected re-enqueued job to carry a future NotBefore")
	}
	if enqueued.TaskID == nil || *enqueued.TaskID != taskID {
		t.Error("Expected re-enqueued job to keep its task reference")
	}
	if enqueued.RetryCount != job.RetryCount+1 {
		t.Errorf("Expected retry count %d, got %d", job.RetryCount+1, enqueued.RetryCount)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func stringPtr(s string) *string {
	return &s
}
