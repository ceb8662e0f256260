//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"suitcase-timer/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
)

func TestFormatRemaining(t *testing.T) {
	testCases := []struct {
		name      string
		remaining time.Duration
		expected  string
	}{
		{name: "full hold", remaining: 22 * time.Minute, expected: "⏳ Time remaining: 22:00"},
		{name: "minutes and seconds", remaining: 21*time.Minute + 30*time.Second, expected: "⏳ Time remaining: 21:30"},
		{name: "single digits are padded", remaining: 9*time.Minute + 5*time.Second, expected: "⏳ Time remaining: 09:05"},
		{name: "under a minute", remaining: 42 * time.Second, expected: "⏳ Time remaining: 00:42"},
		{name: "zero", remaining: 0, expected: "⏳ Time remaining: 00:00"},
		{name: "negative is clamped", remaining: -time.Minute, expected: "⏳ Time remaining: 00:00"},
		{name: "sub-second remainder rounds", remaining: 29*time.Second + 600*time.Millisecond, expected: "⏳ Time remaining: 00:30"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, reservation.FormatRemaining(tc.remaining))
		})
	}
}

func TestAvailableText(t *testing.T) {
	assert.Equal(t, "🧳 The suitcase is available!", reservation.AvailableText())
}
