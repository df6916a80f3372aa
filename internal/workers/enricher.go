package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/echotask/echotask/internal/database"
	"github.com/echotask/echotask/internal/models"
	"github.com/echotask/echotask/internal/parser"
	"github.com/echotask/echotask/internal/queue"
	"github.com/echotask/echotask/internal/services/ai"
	"go.uber.org/zap"
)

// Enricher processes enrichment jobs: it re-parses task utterances with the
// AI provider and re-derives conversation topics.
type Enricher struct {
	provider ai.Provider
	taskRepo database.TaskRepositoryInterface
	convRepo database.ConversationRepositoryInterface
	jobQueue queue.JobQueue // For re-enqueueing jobs with delays
	logger   *zap.Logger
}

// NewEnricher creates a new enricher
func NewEnricher(
	provider ai.Provider,
	taskRepo database.TaskRepositoryInterface,
	convRepo database.ConversationRepositoryInterface,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		provider: provider,
		taskRepo: taskRepo,
		convRepo: convRepo,
		jobQueue: jobQueue,
		logger:   logger,
	}
}

// ProcessEnrichTaskJob re-parses a task's recorded utterance and overwrites
// the rule-derived fields with the provider's interpretation.
func (e *Enricher) ProcessEnrichTaskJob(ctx context.Context, job *queue.Job) error {
	if e.provider == nil {
		return fmt.Errorf("ai provider not configured")
	}

	if job.TaskID == nil {
		return fmt.Errorf("task_id is required for enrichment job")
	}

	task, err := e.taskRepo.GetByID(ctx, *job.TaskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if task.UserID != job.UserID {
		return fmt.Errorf("task does not belong to user")
	}

	// A completed task no longer benefits from enrichment
	if task.IsDone {
		e.logger.Debug("skipping_enrichment_for_done_task",
			zap.String("task_id", task.ID.String()),
		)
		return nil
	}

	if task.Utterance == "" {
		e.logger.Debug("skipping_enrichment_without_utterance",
			zap.String("task_id", task.ID.String()),
		)
		return nil
	}

	enrichCtx := context.WithValue(ctx, ai.UserIDContextKey(), job.UserID)
	enrichCtx = context.WithValue(enrichCtx, ai.TaskIDContextKey(), task.ID)

	enriched, err := e.provider.ParseUtterance(enrichCtx, task.Utterance, time.Now())
	if err != nil {
		return fmt.Errorf("failed to enrich task: %w", err)
	}

	task.Title = enriched.Title
	task.DueDate = enriched.DueDate
	task.DueTime = enriched.DueTime
	task.Category = enriched.Category
	task.Source = models.TaskSourceAI

	if err := e.taskRepo.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	e.logger.Info("task_enriched",
		zap.String("task_id", task.ID.String()),
		zap.String("category", task.Category),
		zap.Bool("has_due_date", task.DueDate != nil),
		zap.Bool("has_due_time", task.DueTime != nil),
	)
	return nil
}

// ProcessRefreshTopicJob re-derives a conversation's topic from its transcript
func (e *Enricher) ProcessRefreshTopicJob(ctx context.Context, job *queue.Job) error {
	if job.ConversationID == nil {
		return fmt.Errorf("conversation_id is required for topic refresh job")
	}

	conv, err := e.convRepo.GetByID(ctx, *job.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to get conversation: %w", err)
	}

	if conv.UserID != job.UserID {
		return fmt.Errorf("conversation does not belong to user")
	}

	msgPtrs, err := e.convRepo.GetMessages(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("failed to get messages: %w", err)
	}

	msgs := make([]models.Message, 0, len(msgPtrs))
	for _, m := range msgPtrs {
		msgs = append(msgs, *m)
	}

	topic := parser.GenerateTopic(msgs)
	if topic == conv.Topic {
		return nil
	}

	if err := e.convRepo.UpdateTopic(ctx, conv.ID, topic); err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}

	e.logger.Info("topic_refreshed",
		zap.String("conversation_id", conv.ID.String()),
		zap.String("topic", topic),
	)
	return nil
}

// ProcessJob processes a job based on its type
func (e *Enricher) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	// Respect NotBefore: return to the queue and wait
	if !job.ShouldProcess() {
		e.logger.Debug("job_not_ready",
			zap.String("job_id", job.ID.String()),
			zap.Timep("not_before", job.NotBefore),
		)
		if ackErr := msg.Ack(); ackErr != nil {
			e.logger.Warn("failed_to_ack_deferred_job", zap.Error(ackErr))
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeEnrichTask:
		if err := e.ProcessEnrichTaskJob(ctx, job); err != nil {
			return e.handleJobError(ctx, msg, job, err, "enrichment")
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	case queue.JobTypeRefreshTopic:
		if err := e.ProcessRefreshTopicJob(ctx, job); err != nil {
			// Topic refresh is best effort, do not requeue
			if nackErr := msg.Nack(false); nackErr != nil {
				e.logger.Warn("failed_to_nack_topic_job", zap.Error(nackErr))
			}
			return fmt.Errorf("topic refresh failed: %w", err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack topic job: %w", ackErr)
		}
		return nil

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			e.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError handles errors from job processing with retry logic tuned for
// AI provider failure modes
func (e *Enricher) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error, jobType string) error {
	// Quota errors should back off for a long time before retrying
	if ai.IsQuotaError(err) {
		retryDelay := ai.GetRetryDelay(err, job.RetryCount)
		notBefore := time.Now().Add(retryDelay)

		e.logger.Warn("job_quota_exhausted",
			zap.String("job_type", jobType),
			zap.String("job_id", job.ID.String()),
			zap.Time("retry_at", notBefore),
			zap.Error(err),
		)

		delayedJob := e.delayedRetry(job, notBefore)

		if ackErr := msg.Ack(); ackErr != nil {
			e.logger.Warn("failed_to_ack_before_reenqueue", zap.Error(ackErr))
		}

		if e.jobQueue != nil {
			if enqueueErr := e.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
				return fmt.Errorf("quota exhausted, failed to re-enqueue: %w", enqueueErr)
			}
			return nil
		}

		// No queue access, drop to DLQ to prevent spam
		if nackErr := msg.Nack(false); nackErr != nil {
			e.logger.Warn("failed_to_nack_quota_job", zap.Error(nackErr))
		}
		return fmt.Errorf("quota exhausted (job %s): %w", job.ID, err)
	}

	// Rate limits retry with backoff via the delayed exchange
	if ai.IsRateLimitError(err) {
		retryDelay := ai.GetRetryDelay(err, job.RetryCount)

		if job.CanRetry() && e.jobQueue != nil {
			notBefore := time.Now().Add(retryDelay)
			delayedJob := e.delayedRetry(job, notBefore)

			if ackErr := msg.Ack(); ackErr != nil {
				e.logger.Warn("failed_to_ack_rate_limited_job", zap.Error(ackErr))
			}

			if enqueueErr := e.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
				if nackErr := msg.Nack(true); nackErr != nil {
					e.logger.Warn("failed_to_nack_rate_limited_job", zap.Error(nackErr))
				}
				return fmt.Errorf("rate limited, failed to re-enqueue: %w", enqueueErr)
			}

			e.logger.Info("job_rate_limited_retry_scheduled",
				zap.String("job_type", jobType),
				zap.String("job_id", job.ID.String()),
				zap.Time("retry_at", notBefore),
				zap.Duration("delay", retryDelay),
			)
			return nil
		}

		// Fallback: nack with requeue (immediate retry)
		if job.CanRetry() {
			job.IncrementRetry()
			if nackErr := msg.Nack(true); nackErr != nil {
				e.logger.Warn("failed_to_nack_rate_limited_job", zap.Error(nackErr))
			}
			return fmt.Errorf("rate limited (will retry): %w", err)
		}
	}

	// Other errors use standard retry logic
	if job.CanRetry() {
		job.IncrementRetry()
		e.logger.Warn("job_failed_will_retry",
			zap.String("job_type", jobType),
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			e.logger.Warn("failed_to_nack_job", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	// Max retries exceeded, send to DLQ
	e.logger.Error("job_failed_max_retries",
		zap.String("job_type", jobType),
		zap.String("job_id", job.ID.String()),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		e.logger.Warn("failed_to_nack_job_to_dlq", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}

// delayedRetry clones a job for re-enqueueing with a NotBefore delay
func (e *Enricher) delayedRetry(job *queue.Job, notBefore time.Time) *queue.Job {
	return &queue.Job{
		ID:             job.ID,
		Type:           job.Type,
		UserID:         job.UserID,
		TaskID:         job.TaskID,
		ConversationID: job.ConversationID,
		NotBefore:      &notBefore,
		NotAfter:       job.NotAfter,
		Metadata:       job.Metadata,
		CreatedAt:      job.CreatedAt,
		RetryCount:     job.RetryCount + 1,
		MaxRetries:     job.MaxRetries,
	}
}
