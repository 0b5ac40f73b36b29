package practice

import "fmt"

// FormatTimer renders seconds as M:SS. Minutes are not rolled into hours,
// so 3725 renders as "62:05". Negative input renders as "0:00".
func FormatTimer(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatDurationShort renders a minute count as "45m", "2h" or "1h 30m".
func FormatDurationShort(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
