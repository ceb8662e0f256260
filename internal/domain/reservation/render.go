package reservation

import (
	"fmt"
	"time"
)

// FormatRemaining renders the countdown shown in the pinned chat message,
// zero-padded mm:ss.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	total := int(remaining.Round(time.Second) / time.Second)
	return fmt.Sprintf("⏳ Time remaining: %02d:%02d", total/60, total%60)
}

// AvailableText is the terminal message rendered once the suitcase is free
// again, either by expiry or by the countdown reaching zero.
func AvailableText() string {
	return "🧳 The suitcase is available!"
}
