package parser

import "testing"

func TestExpandAbbreviations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"doctor with period", "Dr. Smith at 3pm", "Doctor Smith at 3pm"},
		{"doctor without period", "Dr Smith at 3pm", "Doctor Smith at 3pm"},
		{"appointment", "Appt. with the bank", "Appointment with the bank"},
		{"meeting", "Mtg. tomorrow", "Meeting tomorrow"},
		{"case insensitive", "dr. smith", "Doctor smith"},
		{"multiple abbreviations", "Mtg. with Dr. Jones", "Meeting with Doctor Jones"},
		{"not a token boundary", "Drive to the store", "Drive to the store"},
		{"inside word untouched", "Hydra. station", "Hydra. station"},
		{"empty input", "", ""},
		{"no abbreviations", "buy milk tomorrow", "buy milk tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExpandAbbreviations(tt.input); got != tt.want {
				t.Errorf("ExpandAbbreviations(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Already-expanded text must be a fixed point.
func TestExpandAbbreviations_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Dr. Smith at 3pm",
		"Appt. with Prof. Davis",
		"Mr. and Mrs. Jones",
		"plain text with no shorthand",
		"",
	}

	for _, input := range inputs {
		once := ExpandAbbreviations(input)
		twice := ExpandAbbreviations(once)
		if once != twice {
			t.Errorf("ExpandAbbreviations not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
