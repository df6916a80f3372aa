package parser

import "strings"

// BotReply produces the conversational acknowledgement shown after an
// utterance is processed. taskCreated short-circuits everything else.
func BotReply(message string, taskCreated bool) string {
	lower := strings.ToLower(message)

	if taskCreated {
		return "Task created!"
	}

	if isTaskCommand(message) {
		return "Got it! I'll add that to your tasks."
	}

	if containsAny(lower, "meal", "recipe", "food", "cook", "eat", "dinner", "lunch", "breakfast") {
		return "Saving that meal idea for you!"
	}

	if containsAny(lower, "buy", "grocery", "shopping", "store") {
		return "I'll add that to your shopping list."
	}

	if strings.HasPrefix(lower, "what") || strings.HasPrefix(lower, "when") ||
		strings.HasPrefix(lower, "where") || strings.HasPrefix(lower, "why") ||
		strings.HasPrefix(lower, "how") || strings.Contains(lower, "?") {
		return "Let me help you with that."
	}

	if strings.Contains(lower, "hello") || strings.Contains(lower, "hi ") ||
		strings.HasPrefix(lower, "hi") || strings.Contains(lower, "hey") {
		return "Hi! I'm here to help. What's on your mind?"
	}

	if strings.Contains(lower, "thank") {
		return "You're welcome! Anything else?"
	}

	return "Got it, I've noted that down."
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
