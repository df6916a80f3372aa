package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/echotask/echotask/internal/models"
	"github.com/google/uuid"
)

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, utterance, due_date, due_time, category, is_done, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Utterance,
		nullString(task.DueDate),
		nullString(task.DueTime),
		task.Category,
		task.IsDone,
		task.Source,
		now,
		now,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, user_id, title, utterance, due_date, due_time, category, is_done, source, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// GetByUserID retrieves all tasks for a user, optionally filtered by category and done state
func (r *TaskRepository) GetByUserID(ctx context.Context, userID uuid.UUID, category *string, isDone *bool) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, utterance, due_date, due_time, category, is_done, source, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, *category)
		argIndex++
	}

	if isDone != nil {
		query += fmt.Sprintf(" AND is_done = $%d", argIndex)
		args = append(args, *isDone)
		argIndex++
	}

	query += " ORDER BY due_date NULLS LAST, due_time NULLS LAST, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// TaskFilter narrows task listings. Nil fields are ignored.
type TaskFilter struct {
	Category *string
	DueDate  *string
	IsDone   *bool
}

// GetByUserIDPaginated retrieves a page of tasks for a user along with the
// total count matching the filter.
func (r *TaskRepository) GetByUserIDPaginated(ctx context.Context, userID uuid.UUID, filter TaskFilter, page, pageSize int) ([]*models.Task, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	where := " WHERE user_id = $1"
	args := []any{userID}
	argIndex := 2

	if filter.Category != nil {
		where += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.DueDate != nil {
		where += fmt.Sprintf(" AND due_date = $%d", argIndex)
		args = append(args, *filter.DueDate)
		argIndex++
	}

	if filter.IsDone != nil {
		where += fmt.Sprintf(" AND is_done = $%d", argIndex)
		args = append(args, *filter.IsDone)
		argIndex++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM tasks" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := `
		SELECT id, user_id, title, utterance, due_date, due_time, category, is_done, source, created_at, updated_at
		FROM tasks
	` + where
	query += fmt.Sprintf(" ORDER BY due_date NULLS LAST, due_time NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, total, nil
}

// GetOpenByUserAndDate retrieves a user's unfinished tasks due on a given date.
// Used by the similar-task check when a new task comes in.
func (r *TaskRepository) GetOpenByUserAndDate(ctx context.Context, userID uuid.UUID, dueDate string) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, utterance, due_date, due_time, category, is_done, source, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND due_date = $2 AND is_done = FALSE
		ORDER BY due_time NULLS LAST, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, dueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by date: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, utterance = $3, due_date = $4, due_time = $5, category = $6, is_done = $7, source = $8, updated_at = $9
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		task.Utterance,
		nullString(task.DueDate),
		nullString(task.DueTime),
		task.Category,
		task.IsDone,
		task.Source,
		now,
	).Scan(&task.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("task not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete deletes a task by ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("task not found")
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	task := &models.Task{}
	var dueDate, dueTime sql.NullString

	err := s.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Utterance,
		&dueDate,
		&dueTime,
		&task.Category,
		&task.IsDone,
		&task.Source,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		task.DueDate = &dueDate.String
	}
	if dueTime.Valid {
		task.DueTime = &dueTime.String
	}

	return task, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
