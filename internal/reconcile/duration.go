package reconcile

import "fmt"

const (
	msPerMinute   = int64(60_000)
	minutesPerDay = 24 * 60
	halfDay       = 12 * 60
)

// TimeToMs converts a wall-clock hour and minute to milliseconds.
func TimeToMs(h, m int) int64 {
	return int64(h*60+m) * msPerMinute
}

// MsToTime splits a non-negative duration into whole hours and the minute
// remainder. Hours are not capped at 24.
func MsToTime(ms int64) (h, m int) {
	if ms < 0 {
		ms = -ms
	}
	total := ms / msPerMinute
	return int(total / 60), int(total % 60)
}

// FormatHHMM renders a duration as zero-padded "HH:MM" with floored minutes.
// Negative durations are rendered by magnitude; use FormatBalance for signs.
func FormatHHMM(ms int64) string {
	h, m := MsToTime(ms)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatBalance renders actual minus theoretical with an explicit sign:
// "+01:30", "-00:05" or "00:00".
func FormatBalance(ms int64) string {
	switch {
	case ms/msPerMinute > 0:
		return "+" + FormatHHMM(ms)
	case ms/msPerMinute < 0:
		return "-" + FormatHHMM(ms)
	default:
		return "00:00"
	}
}
