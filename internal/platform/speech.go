package platform

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"trackpace/internal/core/engine"
	"trackpace/internal/core/pace"
)

// speechCommand builds the OS command that reads text aloud.
type speechCommand struct {
	path string
	args func(text string) []string
}

type utterance struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// Speaker announces lap paces through the OS speech command. A new
// announcement interrupts the one still playing.
type Speaker struct {
	mu      sync.Mutex
	command speechCommand
	found   bool
	enabled bool
	current *utterance
	logger  *log.Logger
}

// NewSpeaker looks up the speech command for this OS.
func NewSpeaker(logger *log.Logger) *Speaker {
	command, found := lookupSpeechCommand()
	if logger == nil {
		logger = log.Default()
	}
	speaker := &Speaker{command: command, found: found, enabled: true, logger: logger.WithPrefix("speech")}
	if found {
		speaker.logger.Debug("speech command found", "path", command.path)
	} else {
		speaker.logger.Info("no speech command available, announcements disabled")
	}
	return speaker
}

// SetEnabled turns announcements on or off.
func (speaker *Speaker) SetEnabled(enabled bool) {
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	speaker.enabled = enabled
	if !enabled {
		speaker.stopLocked()
	}
}

// Available reports whether this system has a speech command.
func (speaker *Speaker) Available() bool {
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	return speaker.found
}

// Announce speaks the pace. It returns engine.ErrNotReady when speech is
// disabled or unavailable.
func (speaker *Speaker) Announce(lapPace string) error {
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	if !speaker.found || !speaker.enabled {
		return engine.ErrNotReady
	}

	text := pace.SpeechText(lapPace)
	if text == "" {
		speaker.logger.Debug("pace not speakable, skipping", "pace", lapPace)
		return nil
	}

	speaker.stopLocked()
	cmd := exec.Command(speaker.command.path, speaker.command.args(text)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start speech: %w", err)
	}

	current := &utterance{cmd: cmd, done: make(chan struct{})}
	speaker.current = current
	go speaker.wait(current)
	return nil
}

// Close stops any announcement still playing.
func (speaker *Speaker) Close() {
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	speaker.stopLocked()
}

func (speaker *Speaker) stopLocked() {
	if speaker.current == nil {
		return
	}
	select {
	case <-speaker.current.done:
	default:
		_ = speaker.current.cmd.Process.Kill()
	}
	speaker.current = nil
}

func (speaker *Speaker) wait(current *utterance) {
	err := current.cmd.Wait()
	close(current.done)

	speaker.mu.Lock()
	interrupted := speaker.current != current
	if !interrupted {
		speaker.current = nil
	}
	speaker.mu.Unlock()

	if err != nil && !interrupted {
		speaker.logger.Warn("speech command failed", "err", err)
	}
}

func spdSayArgs(text string) []string {
	return []string{"--wait", text}
}

func plainArgs(text string) []string {
	return []string{text}
}

// powerShellArgs quotes text as a PowerShell single-quoted literal.
func powerShellArgs(text string) []string {
	literal := "'" + strings.ReplaceAll(text, "'", "''") + "'"
	script := "Add-Type -AssemblyName System.Speech; " +
		"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak(" + literal + ")"
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}
