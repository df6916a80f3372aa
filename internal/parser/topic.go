package parser

import (
	"regexp"
	"strings"

	"github.com/echotask/echotask/internal/models"
)

// DefaultTopic is the floor value for conversations with no usable messages.
const DefaultTopic = "New Conversation"

const (
	topicMaxLen      = 50
	topicTruncateAt  = 47
	topicMinWords    = 2
	greetingMaxWords = 3
)

// greetings are skipped when picking a topic so "hi" never becomes a
// conversation title.
var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "hola": {}, "greetings": {},
	"good morning": {}, "good afternoon": {}, "good evening": {}, "good night": {},
	"morning": {}, "afternoon": {}, "evening": {}, "night": {},
	"howdy": {}, "sup": {}, "whats up": {}, "wassup": {}, "yo": {}, "hiya": {}, "heya": {},
}

var nonAlphaSpace = regexp.MustCompile(`[^a-z\s]`)

// isGreeting reports whether a message is just a greeting: either the
// whole normalized text is in the greeting set, or the message is at most
// three words and any one of them is.
func isGreeting(message string) bool {
	normalized := nonAlphaSpace.ReplaceAllString(strings.TrimSpace(strings.ToLower(message)), "")
	if _, ok := greetings[normalized]; ok {
		return true
	}

	words := strings.Fields(normalized)
	if len(words) <= greetingMaxWords {
		for _, w := range words {
			if _, ok := greetings[w]; ok {
				return true
			}
		}
	}
	return false
}

// GenerateTopic derives a short display label for a conversation: the first
// user message that is neither a greeting nor trivially short, truncated at
// a word boundary. Falls back to the first user message, then to
// DefaultTopic. Never returns an empty string.
func GenerateTopic(messages []models.Message) string {
	if len(messages) == 0 {
		return DefaultTopic
	}

	var userMessages []models.Message
	for _, m := range messages {
		if m.Role == models.MessageRoleUser {
			userMessages = append(userMessages, m)
		}
	}
	if len(userMessages) == 0 {
		return DefaultTopic
	}

	for _, m := range userMessages {
		content := strings.TrimSpace(m.Content)
		if !isGreeting(content) && len(strings.Fields(content)) > topicMinWords {
			return truncateTopic(content)
		}
	}

	// Nothing substantive: use the first user message, greeting or not.
	return truncateTopic(strings.TrimSpace(userMessages[0].Content))
}

// truncateTopic caps a topic at 50 characters, breaking at the last space
// within the first 47 and appending an ellipsis when truncated.
func truncateTopic(content string) string {
	if len(content) <= topicMaxLen {
		return capitalize(content)
	}
	truncated := content[:topicTruncateAt]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}
	return capitalize(truncated) + "..."
}
