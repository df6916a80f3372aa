package parser

import (
	"fmt"
	"time"
)

// FormatDateForDisplay renders an ISO date for conversational display:
// "Today, Nov 21", "Tomorrow, Nov 22", or "Mon, Nov 25". An unparseable
// date string is returned unchanged.
func FormatDateForDisplay(dateStr string, now time.Time) string {
	date, err := time.Parse(ISODateFormat, dateStr)
	if err != nil {
		return dateStr
	}

	today := now.Format(ISODateFormat)
	tomorrow := now.AddDate(0, 0, 1).Format(ISODateFormat)

	switch dateStr {
	case today:
		return "Today, " + date.Format("Jan 2")
	case tomorrow:
		return "Tomorrow, " + date.Format("Jan 2")
	default:
		return date.Format("Mon, Jan 2")
	}
}

// FormatTimeForDisplay renders an HH:MM 24-hour string as a 12-hour time,
// e.g. "15:00" -> "3:00 PM".
func FormatTimeForDisplay(clock string) string {
	minutes := timeToMinutes(clock)
	hours := minutes / 60
	mins := minutes % 60

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	displayHours := hours
	if hours > 12 {
		displayHours = hours - 12
	} else if hours == 0 {
		displayHours = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHours, mins, period)
}
