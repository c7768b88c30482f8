package sunsights

import (
	"fmt"
	"time"
)

// activityTimeLayout is the backend's activity timestamp format.
const activityTimeLayout = "2006-01-02 15:04:05"

// HumanizeTimestamp renders a backend timestamp relative to now: "Just now",
// "N minutes ago", up through days, then a plain date. Unparseable input is
// returned as-is and empty input becomes "Never", so the feed never shows a
// blank cell.
func HumanizeTimestamp(ts string, now time.Time) string {
	if ts == "" {
		return "Never"
	}
	t, err := time.ParseInLocation(activityTimeLayout, ts, now.Location())
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, ts); err2 == nil {
			t = t2
		} else {
			return ts
		}
	}

	diff := now.Sub(t)
	mins := int(diff.Minutes())
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return pluralAgo(mins, "minute")
	case hours < 24:
		return pluralAgo(hours, "hour")
	case days < 7:
		return pluralAgo(days, "day")
	default:
		return t.Format("2006-01-02")
	}
}

func pluralAgo(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
