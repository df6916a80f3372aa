package parser

import (
	"strings"
	"time"
)

// ISODateFormat is the layout for resolved dates.
const ISODateFormat = "2006-01-02"

// dayNames indexed to match time.Weekday (Sunday == 0).
var dayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// ResolveDate maps relative date phrasing in text to an absolute calendar
// date, evaluated against now. Rules are tried in priority order and the
// first match wins:
//
//  1. "today" -> now
//  2. "tomorrow" -> now + 1 day
//  3. a weekday name -> the next occurrence strictly after today
//  4. "next week" -> now + 7 days
//  5. "weekend" -> the upcoming Saturday
//  6. no match -> now
//
// The result is always a YYYY-MM-DD string; there is no failure case.
func ResolveDate(text string, now time.Time) string {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "today") {
		return now.Format(ISODateFormat)
	}

	if strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1).Format(ISODateFormat)
	}

	// Day names resolve to the next occurrence. If today is that weekday,
	// roll a full week forward; "this monday" never means today here.
	currentDay := int(now.Weekday())
	for target, name := range dayNames {
		if strings.Contains(lower, name) {
			daysAhead := target - currentDay
			if daysAhead <= 0 {
				daysAhead += 7
			}
			return now.AddDate(0, 0, daysAhead).Format(ISODateFormat)
		}
	}

	if strings.Contains(lower, "next week") {
		return now.AddDate(0, 0, 7).Format(ISODateFormat)
	}

	// Weekend means the upcoming Saturday.
	if strings.Contains(lower, "weekend") || strings.Contains(lower, "saturday") || strings.Contains(lower, "sunday") {
		daysToSaturday := 6 - currentDay
		if currentDay == 0 {
			daysToSaturday = 6
		}
		return now.AddDate(0, 0, daysToSaturday).Format(ISODateFormat)
	}

	return now.Format(ISODateFormat)
}

// Today returns now formatted as a YYYY-MM-DD string.
func Today(now time.Time) string {
	return now.Format(ISODateFormat)
}
