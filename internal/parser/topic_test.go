package parser

import (
	"strings"
	"testing"

	"github.com/echotask/echotask/internal/models"
)

func userMsg(content string) models.Message {
	return models.Message{Role: models.MessageRoleUser, Content: content}
}

func botMsg(content string) models.Message {
	return models.Message{Role: models.MessageRoleBot, Content: content}
}

func TestGenerateTopic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		messages []models.Message
		want     string
	}{
		{"empty conversation", nil, "New Conversation"},
		{"bot only", []models.Message{botMsg("How can I help?")}, "New Conversation"},
		{
			"skips greeting for substantive message",
			[]models.Message{userMsg("hi"), userMsg("I need to finish the quarterly report by Friday")},
			"I need to finish the quarterly report by Friday",
		},
		{
			"greeting only falls back to it",
			[]models.Message{userMsg("hey")},
			"Hey",
		},
		{
			"short message skipped",
			[]models.Message{userMsg("ok sure"), userMsg("plan the birthday party for Saturday")},
			"Plan the birthday party for Saturday",
		},
		{
			"capitalizes topic",
			[]models.Message{userMsg("buy groceries for the week")},
			"Buy groceries for the week",
		},
		{
			"greeting with punctuation still greeting",
			[]models.Message{userMsg("Hello!!"), userMsg("schedule the dentist appointment please")},
			"Schedule the dentist appointment please",
		},
		{
			"good morning greeting skipped",
			[]models.Message{userMsg("good morning"), userMsg("remind me about the team standup")},
			"Remind me about the team standup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GenerateTopic(tt.messages); got != tt.want {
				t.Errorf("GenerateTopic() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateTopic_Truncation(t *testing.T) {
	t.Parallel()

	long := "organize the storage closet and donate everything we have not used since last spring"
	got := GenerateTopic([]models.Message{userMsg(long)})

	if !strings.HasSuffix(got, "...") {
		t.Fatalf("GenerateTopic(long message) = %q, want ellipsis suffix", got)
	}
	if len(got) > 50 {
		t.Errorf("GenerateTopic(long message) length = %d, want <= 50", len(got))
	}
	// Truncation breaks at a word boundary, so no partial trailing word.
	body := strings.TrimSuffix(got, "...")
	if !strings.HasPrefix(strings.ToLower(long), strings.ToLower(body)) {
		t.Errorf("topic %q is not a prefix of the message", body)
	}
	if strings.HasSuffix(body, " ") {
		t.Errorf("topic %q has trailing space before ellipsis", body)
	}
}

func TestIsGreeting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"hi", true},
		{"Hello", true},
		{"good morning", true},
		{"hey there friend", true},
		{"yo", true},
		{"whats up", true},
		{"I need to buy milk", false},
		{"schedule the meeting", false},
		{"hi everyone welcome to the weekly planning call", false},
	}

	for _, tt := range tests {
		if got := isGreeting(tt.text); got != tt.want {
			t.Errorf("isGreeting(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
