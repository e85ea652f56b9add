package timeutil

import (
	"fmt"
	"time"
)

// Relative formats a timestamp as a short relative-time string, the way
// feed clients render cast ages: "just now", "5m", "3h", "2d", then a
// calendar date ("Jan 15") once the post is older than a week, with the
// year appended once it falls outside the current year.
func Relative(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}

	diff := now.Sub(ts)
	if diff < 0 {
		diff = 0
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%dh", int(diff.Hours()))
	}
	if days := int(diff.Hours() / 24); days < 7 {
		return fmt.Sprintf("%dd", days)
	}

	if ts.Year() == now.Year() {
		return ts.Format("Jan 2")
	}
	return ts.Format("Jan 2, 2006")
}
