package database

import (
	"context"

	"github.com/echotask/echotask/internal/models"
	"github.com/google/uuid"
)

// TaskRepositoryInterface defines the interface for task repository operations
// This interface enables better testability by allowing mock implementations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, category *string, isDone *bool) ([]*models.Task, error)
	GetByUserIDPaginated(ctx context.Context, userID uuid.UUID, filter TaskFilter, page, pageSize int) ([]*models.Task, int, error)
	GetOpenByUserAndDate(ctx context.Context, userID uuid.UUID, dueDate string) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConversationRepositoryInterface defines the interface for conversation repository operations
type ConversationRepositoryInterface interface {
	Create(ctx context.Context, conv *models.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)
	UpdateTopic(ctx context.Context, id uuid.UUID, topic string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus) error
	AppendMessage(ctx context.Context, msg *models.Message) error
	GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByProviderID(ctx context.Context, providerID string) (*models.User, error)
}

// Ensure concrete types implement the interfaces
var (
	_ TaskRepositoryInterface         = (*TaskRepository)(nil)
	_ ConversationRepositoryInterface = (*ConversationRepository)(nil)
	_ UserRepositoryInterface         = (*UserRepository)(nil)
)
