package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/echotask/echotask/internal/models"
)

// closeTimeWindowMinutes is how far apart two due times may be and still
// count as close enough to consolidate.
const closeTimeWindowMinutes = 120

// Suggestion proposes merging a new task with an existing same-category,
// same-day task at a shared time. It exists for one display cycle and is
// never persisted.
type Suggestion struct {
	Message       string      `json:"message"`
	ProposedTime  string      `json:"proposed_time"`
	AffectedTasks []uuid.UUID `json:"affected_tasks"`
}

// FindSimilarTasks returns existing tasks that share the new task's
// category and due date and have a due time set, in list order. The new
// task itself is skipped.
func FindSimilarTasks(newTask *models.Task, existing []*models.Task) []*models.Task {
	if newTask.DueDate == nil || newTask.Category == "" {
		return nil
	}

	var similar []*models.Task
	for _, task := range existing {
		if task.ID == newTask.ID {
			continue
		}
		if task.Category != newTask.Category {
			continue
		}
		if task.DueDate == nil || *task.DueDate != *newTask.DueDate {
			continue
		}
		if task.DueTime == nil || newTask.DueTime == nil {
			continue
		}
		similar = append(similar, task)
	}
	return similar
}

// SuggestConsolidation proposes a shared midpoint time when any similar
// task's due time falls within the close-time window of the new task's.
// The first close match in list order wins. Returns nil when nothing is
// close enough.
func SuggestConsolidation(newTask *models.Task, similar []*models.Task) *Suggestion {
	if len(similar) == 0 || newTask.DueTime == nil {
		return nil
	}

	var closeTask *models.Task
	for _, task := range similar {
		if task.DueTime != nil && timesClose(*newTask.DueTime, *task.DueTime) {
			closeTask = task
			break
		}
	}
	if closeTask == nil {
		return nil
	}

	midpoint := midpointTime(*newTask.DueTime, *closeTask.DueTime)
	return &Suggestion{
		Message: fmt.Sprintf("You have %q at %s. Want to combine %s tasks at %s?",
			closeTask.Title, FormatTimeForDisplay(*closeTask.DueTime),
			newTask.Category, FormatTimeForDisplay(midpoint)),
		ProposedTime:  midpoint,
		AffectedTasks: []uuid.UUID{newTask.ID, closeTask.ID},
	}
}

// CheckForSimilarTasks runs the full similarity pass for a newly created
// task against the existing task list and returns a human-readable
// suggestion, or "" when there is nothing to suggest.
func CheckForSimilarTasks(newTask *models.Task, existing []*models.Task) string {
	similar := FindSimilarTasks(newTask, existing)
	if len(similar) == 0 {
		return ""
	}

	if suggestion := SuggestConsolidation(newTask, similar); suggestion != nil {
		return suggestion.Message
	}

	// Similar but not close in time: just point it out.
	if len(similar) >= 2 {
		return fmt.Sprintf("You have %d other %s tasks today. Consider batching them together!",
			len(similar), newTask.Category)
	}
	return fmt.Sprintf("You have another %s task today: %q", newTask.Category, similar[0].Title)
}

// timeToMinutes converts an HH:MM string to minutes since midnight.
func timeToMinutes(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

// minutesToTime converts minutes since midnight to an HH:MM string.
func minutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func timesClose(a, b string) bool {
	diff := timeToMinutes(a) - timeToMinutes(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= closeTimeWindowMinutes
}

// midpointTime averages two clock times, flooring the result.
func midpointTime(a, b string) string {
	return minutesToTime((timeToMinutes(a) + timeToMinutes(b)) / 2)
}
