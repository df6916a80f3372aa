package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskSource records which parser produced the task's structured fields.
type TaskSource string

const (
	// TaskSourceRules means the fields came from the rule-based pipeline.
	TaskSourceRules TaskSource = "rules"
	// TaskSourceAI means a remote enrichment pass overwrote the fields.
	TaskSourceAI TaskSource = "ai"
)

// Task is a captured task. DueDate (YYYY-MM-DD) and DueTime (24-hour HH:MM)
// are nil when the task has no schedule.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Utterance string     `json:"utterance"`
	DueDate   *string    `json:"due_date,omitempty"`
	DueTime   *string    `json:"due_time,omitempty"`
	Category  string     `json:"category"`
	IsDone    bool       `json:"is_done"`
	Source    TaskSource `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
