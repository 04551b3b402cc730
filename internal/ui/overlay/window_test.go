package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpacityToAlpha(t *testing.T) {
	assert.Equal(t, uint8(0), OpacityToAlpha(-1))
	assert.Equal(t, uint8(216), OpacityToAlpha(0.85))
	assert.Equal(t, uint8(255), OpacityToAlpha(2))
}

func TestClockText(t *testing.T) {
	assert.Equal(t, "07:05", clockText(time.Date(2024, 5, 1, 7, 5, 59, 0, time.Local)))
	assert.Equal(t, "23:40", clockText(time.Date(2024, 5, 1, 23, 40, 0, 0, time.Local)))
}

func TestSummaryText(t *testing.T) {
	assert.Equal(t, "Lap 4 · 1110 m", summaryText(4, 1110))
}
