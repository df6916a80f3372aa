package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/echotask/echotask/internal/models"
	"github.com/google/uuid"
)

// ConversationRepository handles conversation and message database operations
type ConversationRepository struct {
	db *DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create creates a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	query := `
		INSERT INTO conversations (id, user_id, topic, status, last_message_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		conv.ID,
		conv.UserID,
		conv.Topic,
		conv.Status,
		now,
		now,
	).Scan(&conv.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	conv.LastMessageAt = conv.CreatedAt

	return nil
}

// GetByID retrieves a conversation by ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conv := &models.Conversation{}
	query := `
		SELECT id, user_id, topic, status, last_message_at, created_at
		FROM conversations
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Topic,
		&conv.Status,
		&conv.LastMessageAt,
		&conv.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conv, nil
}

// GetActiveByUserID retrieves the user's current active conversation, or nil if
// none exists
func (r *ConversationRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	conv := &models.Conversation{}
	query := `
		SELECT id, user_id, topic, status, last_message_at, created_at
		FROM conversations
		WHERE user_id = $1 AND status = $2
		ORDER BY last_message_at DESC
		LIMIT 1
	`

	err := r.db.QueryRowContext(ctx, query, userID, models.ConversationStatusActive).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Topic,
		&conv.Status,
		&conv.LastMessageAt,
		&conv.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active conversation: %w", err)
	}

	return conv, nil
}

// GetByUserID retrieves all conversations for a user, newest activity first
func (r *ConversationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	query := `
		SELECT id, user_id, topic, status, last_message_at, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY last_message_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var convs []*models.Conversation
	for rows.Next() {
		conv := &models.Conversation{}
		err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.Topic,
			&conv.Status,
			&conv.LastMessageAt,
			&conv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return convs, nil
}

// UpdateTopic sets a conversation's derived topic
func (r *ConversationRepository) UpdateTopic(ctx context.Context, id uuid.UUID, topic string) error {
	query := `UPDATE conversations SET topic = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, topic)
	if err != nil {
		return fmt.Errorf("failed to update conversation topic: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("conversation not found")
	}

	return nil
}

// UpdateStatus transitions a conversation between active and saved
func (r *ConversationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus) error {
	query := `UPDATE conversations SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update conversation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("conversation not found")
	}

	return nil
}

// AppendMessage adds a message to a conversation and bumps its activity time
func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.Role,
		msg.Content,
		now,
	).Scan(&msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	bump := `UPDATE conversations SET last_message_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, bump, msg.ConversationID, msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to bump conversation activity: %w", err)
	}

	return nil
}

// GetMessages retrieves a conversation's messages in chronological order
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return msgs, nil
}

// Delete deletes a conversation and its messages
func (r *ConversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM conversations WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("conversation not found")
	}

	return nil
}
