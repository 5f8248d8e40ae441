package telemetry

import "fmt"

// UnlimitedSeconds is the value platforms report when the remaining time is
// unknown or unlimited (all ones in a 32-bit field).
const UnlimitedSeconds int64 = 0xFFFFFFFF

// FormatRemaining renders a seconds count as "1h 05m" or "42m", and "--" for
// non-positive or unlimited values.
func FormatRemaining(secs int64) string {
	if secs <= 0 || secs >= UnlimitedSeconds {
		return UnknownRemaining
	}

	hours := secs / 3600
	minutes := (secs % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}

	return fmt.Sprintf("%dm", minutes)
}
