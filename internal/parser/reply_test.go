package parser

import "testing"

func TestBotReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		message     string
		taskCreated bool
		want        string
	}{
		{"task created wins", "anything at all", true, "Task created!"},
		{"task command acknowledged", "remind me to water the plants", false, "Got it! I'll add that to your tasks."},
		{"question", "why is this happening?", false, "Let me help you with that."},
		{"greeting", "hello", false, "Hi! I'm here to help. What's on your mind?"},
		{"thanks", "thank you so much", false, "You're welcome! Anything else?"},
		{"default", "the sky is blue", false, "Got it, I've noted that down."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BotReply(tt.message, tt.taskCreated); got != tt.want {
				t.Errorf("BotReply(%q, %v) = %q, want %q", tt.message, tt.taskCreated, got, tt.want)
			}
		})
	}
}
