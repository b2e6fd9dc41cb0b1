package media

import "fmt"

// FormatDuration renders a duration in seconds as MM:SS. Minutes may
// exceed 59; seconds are zero-padded to two digits. Fractional seconds
// are truncated, not rounded. A negative or NaN duration formats as
// "00:00".
func FormatDuration(seconds float64) string {
	if !(seconds > 0) {
		return "00:00"
	}
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
