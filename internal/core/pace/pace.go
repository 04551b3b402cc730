// Package pace converts lap durations into running pace and display text.
package pace

import (
	"fmt"
	"strconv"
	"strings"
)

// Zero is the pace reported when no distance is known.
const Zero = "0:00"

// Calculate returns the pace in minutes per kilometer as "M:SS".
// Both components are truncated, never rounded.
func Calculate(durationMs int64, distanceM int) string {
	if distanceM <= 0 {
		return Zero
	}
	seconds := float64(durationMs) / 1000.0
	decimal := (seconds * 1000.0) / (60.0 * float64(distanceM))
	minutes := int64(decimal)
	secs := int64((decimal - float64(minutes)) * 60)
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatTime renders milliseconds as "MM:SS.hh".
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	hundredths := (ms % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, hundredths)
}

// SpeechText turns "M:SS" into a sentence suitable for text-to-speech.
// It returns an empty string when the pace cannot be parsed.
func SpeechText(pace string) string {
	parts := strings.Split(pace, ":")
	if len(parts) != 2 {
		return ""
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return ""
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d %s %d %s per kilometer",
		minutes, plural(minutes, "minute"),
		seconds, plural(seconds, "second"))
}

func plural(value int, unit string) string {
	if value == 1 {
		return unit
	}
	return unit + "s"
}
