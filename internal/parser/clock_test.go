package parser

import (
	"regexp"
	"testing"
)

func TestResolveTime_ExplicitPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"at hh:mm pm", "meet at 5:30pm", "17:30"},
		{"at hh:mm with periods", "call at 3:00 p.m.", "15:00"},
		{"hh:mm pm no at", "dinner 6:45pm", "18:45"},
		{"bare 24-hour", "standup 17:00", "17:00"},
		{"bare 24-hour morning", "train leaves 05:30", "05:30"},
		{"at h pm no colon", "gym at 5pm", "17:00"},
		{"h pm no colon no at", "leave 9am", "09:00"},
		{"h pm with spaces and periods", "pickup 3 p.m.", "15:00"},
		{"noon 12pm stays 12", "lunch at 12pm", "12:00"},
		{"midnight 12am becomes 0", "flight at 12am", "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveTime(tt.text); got != tt.want {
				t.Errorf("ResolveTime(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveTime_SmartDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"breakfast", "make breakfast", "08:00"},
		{"brunch", "brunch with Sarah", "11:00"},
		{"lunch", "lunch meeting", "12:00"},
		{"snack", "pack a snack", "15:00"},
		{"dinner", "cook dinner", "18:30"},
		{"supper", "supper with grandma", "19:00"},
		{"dessert", "pick up dessert", "20:00"},
		{"plain morning", "errands in the morning", "08:00"},
		{"morning workout is early", "morning workout", "07:00"},
		{"morning gym is early", "hit the gym in the morning", "07:00"},
		{"afternoon", "walk the dog in the afternoon", "14:00"},
		{"noon", "meet at noon", "12:00"},
		{"evening", "read in the evening", "18:00"},
		{"tonight", "do laundry tonight", "20:00"},
		{"midnight", "server deploy at midnight", "00:00"},
		{"doctor appointment business hours", "see the doctor", "10:00"},
		{"therapy business hours", "therapy session", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveTime(tt.text); got != tt.want {
				t.Errorf("ResolveTime(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveTime_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"no cue at all", "nonsense", "20:00"},
		{"empty text", "", "20:00"},
		{"out of range hours rejected", "meet at 26:00", "20:00"},
		{"out of range minutes rejected", "meet at 10:75", "20:00"},
		{"out of range falls through to smart default", "dinner at 29:99", "18:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveTime(tt.text); got != tt.want {
				t.Errorf("ResolveTime(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// ResolveTime must always produce a syntactically valid 24-hour HH:MM.
func TestResolveTime_AlwaysValid(t *testing.T) {
	t.Parallel()

	clock := regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	inputs := []string{"", "nonsense", "at 5pm", "17:00", "99:99", "breakfast", "midnight", "tonight at 8"}
	for _, input := range inputs {
		if got := ResolveTime(input); !clock.MatchString(got) {
			t.Errorf("ResolveTime(%q) = %q, not a valid HH:MM", input, got)
		}
	}
}
