package pace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		durationMs int64
		distanceM  int
		want       string
	}{
		{name: "1km in 5 minutes", durationMs: 5 * 60 * 1000, distanceM: 1000, want: "5:00"},
		{name: "1km in 4m30s", durationMs: (4*60 + 30) * 1000, distanceM: 1000, want: "4:30"},
		{name: "400m in 100s", durationMs: 100 * 1000, distanceM: 400, want: "4:10"},
		{name: "zero distance", durationMs: 1000, distanceM: 0, want: "0:00"},
		{name: "negative distance", durationMs: 1000, distanceM: -5, want: "0:00"},
		{name: "zero duration", durationMs: 0, distanceM: 370, want: "0:00"},
		{name: "very slow", durationMs: 2 * 60 * 1000, distanceM: 100, want: "20:00"},
		{name: "very fast", durationMs: 2 * 60 * 1000, distanceM: 1000, want: "2:00"},
		{name: "delson two minutes", durationMs: 2 * 60 * 1000, distanceM: 370, want: "5:24"},
		{name: "delson 2m30s", durationMs: 150000, distanceM: 370, want: "6:45"},
		// 6:58.92 must not round up to 6:59.
		{name: "seconds truncate", durationMs: 155000, distanceM: 370, want: "6:58"},
		{name: "dix30 lap", durationMs: 180000, distanceM: 630, want: "4:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.durationMs, tt.distanceM))
		})
	}
}

func TestCalculateZeroDurationAnyDistance(t *testing.T) {
	for _, distance := range []int{1, 100, 370, 630, 1000, 42195} {
		assert.Equal(t, Zero, Calculate(0, distance), "distance %d", distance)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{ms: 0, want: "00:00.00"},
		{ms: 9, want: "00:00.00"},
		{ms: 1234, want: "00:01.23"},
		{ms: 61999, want: "01:01.99"},
		{ms: 150000, want: "02:30.00"},
		{ms: 6000000, want: "100:00.00"},
		{ms: -50, want: "00:00.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.ms), "FormatTime(%d)", tt.ms)
	}
}

func TestSpeechText(t *testing.T) {
	assert.Equal(t, "6 minutes 45 seconds per kilometer", SpeechText("6:45"))
	assert.Equal(t, "1 minute 1 second per kilometer", SpeechText("1:01"))
	assert.Equal(t, "0 minutes 0 seconds per kilometer", SpeechText("0:00"))
	assert.Empty(t, SpeechText("--:--"))
	assert.Empty(t, SpeechText("645"))
}
