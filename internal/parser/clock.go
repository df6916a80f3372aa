package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTime is the universal fallback when no explicit time or smart
// default applies.
const DefaultTime = "20:00"

// timePattern is one explicit clock-time rule. Patterns are ordered from
// most to least specific and the first valid match wins; an out-of-range
// match falls through to the next pattern.
type timePattern struct {
	re       *regexp.Regexp
	hasColon bool
	// bareTwentyFour marks the HH:MM-without-meridiem form, which must not
	// fire when a meridiem follows the minutes (those belong to the
	// patterns above it).
	bareTwentyFour bool
}

var timePatterns = []timePattern{
	// at 5:30pm, at 3:00 p.m.
	{re: regexp.MustCompile(`(?i)at\s*(\d{1,2}):(\d{2})\s*([ap]\.?m\.?)`), hasColon: true},
	// 5:30pm, 3:00 p.m.
	{re: regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*([ap]\.?m\.?)`), hasColon: true},
	// 17:00, 05:30 (already 24-hour)
	{re: regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})`), hasColon: true, bareTwentyFour: true},
	// at 5pm, at 3 p.m.
	{re: regexp.MustCompile(`(?i)at\s*(\d{1,2})\s*([ap]\.?m\.?)`)},
	// 5pm, 3 p.m.
	{re: regexp.MustCompile(`(?i)(\d{1,2})\s*([ap]\.?m\.?)`)},
}

// trailingMeridiem detects a meridiem immediately after a bare HH:MM match.
var trailingMeridiem = regexp.MustCompile(`(?i)^\s*[ap]\.?m`)

// mealTimes and dayPartTimes back the smart defaults, evaluated in order.
var mealTimes = []struct {
	keyword string
	clock   string
}{
	{"breakfast", "08:00"},
	{"brunch", "11:00"},
	{"lunch", "12:00"},
	{"snack", "15:00"},
	{"dinner", "18:30"},
	{"supper", "19:00"},
	{"dessert", "20:00"},
}

var exerciseKeywords = []string{"gym", "workout", "exercise"}

var healthKeywords = []string{"doctor", "dentist", "checkup", "physical", "therapy"}

// ResolveTime extracts an explicit clock time from text or infers one from
// contextual keywords. The result is always a 24-hour HH:MM string; when
// nothing matches it falls back to DefaultTime.
func ResolveTime(text string) string {
	lower := strings.ToLower(text)

	for _, p := range timePatterns {
		loc := p.re.FindStringSubmatchIndex(lower)
		if loc == nil {
			continue
		}
		if p.bareTwentyFour && trailingMeridiem.MatchString(lower[loc[1]:]) {
			// Meridiem follows: this is a 12-hour time that an earlier,
			// more specific pattern already rejected.
			continue
		}

		match := p.re.FindStringSubmatch(lower)
		var hours, minutes int
		var meridiem string
		if p.hasColon {
			hours, _ = strconv.Atoi(match[1])
			minutes, _ = strconv.Atoi(match[2])
			if len(match) > 3 {
				meridiem = match[3]
			}
		} else {
			hours, _ = strconv.Atoi(match[1])
			minutes = 0
			meridiem = match[2]
		}

		if meridiem != "" {
			// "p.m." and "pm" are equivalent.
			clean := strings.ReplaceAll(strings.ToLower(meridiem), ".", "")
			if clean == "pm" && hours < 12 {
				hours += 12
			} else if clean == "am" && hours == 12 {
				hours = 0
			}
		}

		if hours >= 0 && hours <= 23 && minutes >= 0 && minutes <= 59 {
			return fmt.Sprintf("%02d:%02d", hours, minutes)
		}
	}

	if smart := smartDefaultTime(lower); smart != "" {
		return smart
	}

	return DefaultTime
}

// smartDefaultTime infers a clock time from meal, time-of-day, or
// health-appointment keywords. Returns "" when no keyword applies.
func smartDefaultTime(lower string) string {
	for _, m := range mealTimes {
		if strings.Contains(lower, m.keyword) {
			return m.clock
		}
	}

	if strings.Contains(lower, "morning") {
		// Morning exercise starts earlier than a generic morning errand.
		for _, kw := range exerciseKeywords {
			if strings.Contains(lower, kw) {
				return "07:00"
			}
		}
		return "08:00"
	}
	// "afternoon" contains "noon" and "midnight" contains "night", so the
	// longer keywords must be tested first under substring matching.
	if strings.Contains(lower, "afternoon") {
		return "14:00"
	}
	if strings.Contains(lower, "noon") {
		return "12:00"
	}
	if strings.Contains(lower, "evening") {
		return "18:00"
	}
	if strings.Contains(lower, "midnight") {
		return "00:00"
	}
	if strings.Contains(lower, "night") || strings.Contains(lower, "tonight") {
		return "20:00"
	}

	// Health appointments default to business hours.
	for _, kw := range healthKeywords {
		if strings.Contains(lower, kw) {
			return "10:00"
		}
	}

	return ""
}
