package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// ParsedTask is the result of classifying one utterance. RawDate and
// RawTime carry the full expanded utterance so the date and time resolvers
// re-scan the whole text instead of relying on extraction leftovers.
type ParsedTask struct {
	IsTask            bool   `json:"is_task"`
	Title             string `json:"title"`
	RawDate           string `json:"raw_date"`
	RawTime           string `json:"raw_time"`
	SuggestedCategory string `json:"suggested_category"`
}

// dateTimeIndicators marks utterances that mention any date or time cue.
// Utterances with such a cue are classified as tasks even without a
// command keyword, noun, or verb match.
var dateTimeIndicators = regexp.MustCompile(`(?i)\b(today|tomorrow|tonight|morning|afternoon|evening|night|monday|tuesday|wednesday|thursday|friday|saturday|sunday|next week|weekend|at \d|:\d|am|pm|a\.m|p\.m)\b`)

// commandPatterns are stripped from the front matter of a task utterance,
// in order, each as a literal case-insensitive phrase.
var commandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)remind me to `),
	regexp.MustCompile(`(?i)reminder to `),
	regexp.MustCompile(`(?i)todo: `),
	regexp.MustCompile(`(?i)task: `),
	regexp.MustCompile(`(?i)need to `),
	regexp.MustCompile(`(?i)have to `),
	regexp.MustCompile(`(?i)must `),
	regexp.MustCompile(`(?i)should `),
	regexp.MustCompile(`(?i)don't forget to `),
	regexp.MustCompile(`(?i)remember to `),
	regexp.MustCompile(`(?i)make sure to `),
	regexp.MustCompile(`(?i)make sure `),
	regexp.MustCompile(`(?i)i'll `),
	regexp.MustCompile(`(?i)i will `),
}

// dateTimePatterns are stripped from the title after command phrases, in
// order. Each removes one kind of date or time phrasing.
var dateTimePatterns = []*regexp.Regexp{
	// at/by 3:00 p.m., at 5pm, by 6
	regexp.MustCompile(`(?i)\b(at|@|by)\s*\d{1,2}:?\d{0,2}\s*([ap]\.?m\.?)?`),
	// standalone p.m., a.m.
	regexp.MustCompile(`(?i)\b[ap]\.?m\.?\b`),
	// in the morning
	regexp.MustCompile(`(?i)\bin the\s+(morning|afternoon|evening|night)\b`),
	// standalone morning/evening
	regexp.MustCompile(`(?i)\b(morning|afternoon|evening|night)\b`),
	// for tomorrow, on this
	regexp.MustCompile(`(?i)\b(for|on|by|in)\s+(tomorrow|today|tonight|this|next)\b`),
	// for Monday, by weekend
	regexp.MustCompile(`(?i)\b(for|on|by|in)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday|weekend|week|month)\b`),
	// by next week
	regexp.MustCompile(`(?i)\bby\s+next\s+(week|month|year)\b`),
	// next week, next Monday
	regexp.MustCompile(`(?i)\bnext\s+(week|month|year|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`(?i)\btomorrow\b`),
	regexp.MustCompile(`(?i)\btoday\b`),
	// tonight, with the common transcription typo
	regexp.MustCompile(`(?i)\btonigh?t\b`),
	regexp.MustCompile(`(?i)\bthis\s+(morning|afternoon|evening|night|weekend|week|month|year)\b`),
	regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`(?i)\bweekend\b`),
	regexp.MustCompile(`(?i)\bweek\b`),
	regexp.MustCompile(`(?i)\bmonth\b`),
}

var (
	whitespaceRuns      = regexp.MustCompile(`\s+`)
	trailingPreposition = regexp.MustCompile(`(?i)\b(for|at|on|by|in)\s*$`)
)

// isTaskCommand reports whether an utterance reads as a task. Detection is
// deliberately lenient and biased toward false positives: an explicit
// command keyword, a task noun, an action verb anywhere in the text, or a
// bare date/time cue all qualify. Keyword checks are substring matches,
// not word-boundary matches.
func isTaskCommand(text string) bool {
	lower := strings.ToLower(ExpandAbbreviations(text))

	for _, keyword := range taskKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	for _, noun := range taskNouns {
		if strings.Contains(lower, noun) {
			return true
		}
	}

	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}

	return dateTimeIndicators.MatchString(lower)
}

// ParseTask classifies an utterance and, when it reads as a task, extracts
// a clean title with command and date/time phrasing removed. Returns nil
// for non-task utterances; that is a normal outcome, not an error. The
// title may legitimately come back empty when the utterance was nothing
// but command and date/time phrasing.
func ParseTask(message string) *ParsedTask {
	expanded := ExpandAbbreviations(message)

	if !isTaskCommand(expanded) {
		return nil
	}

	title := expanded
	for _, p := range commandPatterns {
		title = p.ReplaceAllString(title, "")
	}
	for _, p := range dateTimePatterns {
		title = p.ReplaceAllString(title, "")
	}
	title = whitespaceRuns.ReplaceAllString(title, " ")
	title = trailingPreposition.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)
	title = capitalize(title)

	// Category comes from the expanded, unstripped text so date/time
	// phrasing removal never changes category detection.
	return &ParsedTask{
		IsTask:            true,
		Title:             title,
		RawDate:           expanded,
		RawTime:           expanded,
		SuggestedCategory: DetectCategory(expanded),
	}
}

// capitalize upper-cases the first letter of text, leaving the rest as-is.
func capitalize(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
