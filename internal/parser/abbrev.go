package parser

import "regexp"

// abbreviation maps a spoken-shorthand token to its full word. Matches are
// anchored to the token plus an optional period and a trailing space, so
// substrings inside larger words are never expanded.
type abbreviation struct {
	pattern     *regexp.Regexp
	replacement string
}

var abbreviations = []abbreviation{
	{regexp.MustCompile(`(?i)\bDr\.?\s`), "Doctor "},
	{regexp.MustCompile(`(?i)\bAppt\.?\s`), "Appointment "},
	{regexp.MustCompile(`(?i)\bMtg\.?\s`), "Meeting "},
	{regexp.MustCompile(`(?i)\bPres\.?\s`), "Presentation "},
	{regexp.MustCompile(`(?i)\bConf\.?\s`), "Conference "},
	{regexp.MustCompile(`(?i)\bProf\.?\s`), "Professor "},
	{regexp.MustCompile(`(?i)\bMr\.?\s`), "Mister "},
	{regexp.MustCompile(`(?i)\bMrs\.?\s`), "Missus "},
	{regexp.MustCompile(`(?i)\bMs\.?\s`), "Miss "},
}

// ExpandAbbreviations replaces common voice-recognition shorthand ("Dr.",
// "Appt.", "Mtg.") with full words. All other text is preserved verbatim,
// and already-expanded text is a fixed point.
func ExpandAbbreviations(text string) string {
	for _, a := range abbreviations {
		text = a.pattern.ReplaceAllString(text, a.replacement)
	}
	return text
}
