package platform

import (
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackpace/internal/core/engine"
)

func TestSpeakerWithoutCommandIsNotReady(t *testing.T) {
	speaker := &Speaker{enabled: true, logger: log.New(io.Discard)}
	assert.ErrorIs(t, speaker.Announce("5:00"), engine.ErrNotReady)
	assert.False(t, speaker.Available())
}

func TestSpeakerDisabledIsNotReady(t *testing.T) {
	speaker := &Speaker{command: speechCommand{path: "true", args: plainArgs}, found: true, logger: log.New(io.Discard)}
	speaker.SetEnabled(false)
	assert.ErrorIs(t, speaker.Announce("5:00"), engine.ErrNotReady)
}

func TestSpeakerSkipsUnspeakablePace(t *testing.T) {
	var spoken []string
	speaker := &Speaker{
		command: speechCommand{path: "true", args: func(text string) []string {
			spoken = append(spoken, text)
			return nil
		}},
		found:   true,
		enabled: true,
		logger:  log.New(io.Discard),
	}

	for _, lapPace := range []string{"", "--:--", "abc"} {
		assert.NoError(t, speaker.Announce(lapPace), lapPace)
	}
	assert.Empty(t, spoken)
	assert.Nil(t, speaker.current)
}

func TestSpeakerInterruptsPreviousAnnouncement(t *testing.T) {
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	speaker := &Speaker{
		command: speechCommand{path: path, args: func(string) []string { return []string{"30"} }},
		found:   true,
		enabled: true,
		logger:  log.New(io.Discard),
	}
	t.Cleanup(speaker.Close)

	require.NoError(t, speaker.Announce("5:00"))
	speaker.mu.Lock()
	first := speaker.current
	speaker.mu.Unlock()
	require.NotNil(t, first)

	require.NoError(t, speaker.Announce("4:45"))
	select {
	case <-first.done:
	case <-time.After(5 * time.Second):
		t.Fatal("previous announcement still playing")
	}

	speaker.mu.Lock()
	assert.NotSame(t, first, speaker.current)
	speaker.mu.Unlock()
}

func TestSpeechArguments(t *testing.T) {
	assert.Equal(t, []string{"--wait", "5 minutes 0 seconds per kilometer"}, spdSayArgs("5 minutes 0 seconds per kilometer"))
	assert.Equal(t, []string{"hello"}, plainArgs("hello"))

	args := powerShellArgs("it's 5 minutes")
	require.Len(t, args, 4)
	assert.Equal(t, "-Command", args[2])
	assert.Contains(t, args[3], "Speak('it''s 5 minutes')")
}
