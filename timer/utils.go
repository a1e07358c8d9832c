package timer

import (
	"fmt"
)

// FormatTime converts a number of seconds into mm:ss, or h:mm:ss once the
// value reaches an hour.
func FormatTime(sec int) string {
	if sec < 0 {
		sec = 0
	}
	if sec >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", sec/3600, sec%3600/60, sec%60)
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

// SplitDuration breaks a duration in seconds into hours, minutes and seconds.
func SplitDuration(sec int) (hours, minutes, seconds int) {
	if sec < 0 {
		sec = 0
	}
	return sec / 3600, sec % 3600 / 60, sec % 60
}
