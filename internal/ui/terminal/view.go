package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trackpace/internal/core/pace"
	"trackpace/internal/ui/preferences"
)

const visibleLaps = 12

// View renders the session, or the dim screen while the UI is hidden.
func (m Model) View() string {
	if !m.state.UIVisible {
		return m.dimView()
	}

	var b strings.Builder
	header := fmt.Sprintf("Lap %d", m.state.CurrentLapNumber())
	distance := fmt.Sprintf("%d m", m.state.TotalDistanceM())
	b.WriteString(headerStyle.Render(header) + mutedStyle.Render("  ·  ") + headerStyle.Render(distance))
	b.WriteString("\n")
	b.WriteString(paceStyle.Render(m.state.LastPace() + " /km"))
	b.WriteString("\n")

	timer := pace.FormatTime(m.state.ElapsedMs)
	if m.state.Running {
		b.WriteString(timerStyle.Render(timer))
	} else {
		b.WriteString(pausedStyle.Render(timer + "  paused"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.trackLine())
	b.WriteString("\n\n")
	b.WriteString(m.lapLines())

	if m.confirming {
		b.WriteString("\n" + warnStyle.Render("Reset session? (y/n)"))
	} else if m.status != "" {
		b.WriteString("\n" + mutedStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return frameStyle.Render(b.String())
}

func (m Model) trackLine() string {
	parts := make([]string, 0, len(m.tracks)+1)
	listed := false
	for _, track := range m.tracks {
		if track.DistanceM == m.state.TrackDistanceM {
			parts = append(parts, trackStyle.Render("["+track.Label()+"]"))
			listed = true
			continue
		}
		parts = append(parts, mutedStyle.Render(track.Label()))
	}
	if !listed {
		other := preferences.Track{Name: "Track", DistanceM: m.state.TrackDistanceM}
		parts = append(parts, trackStyle.Render("["+other.Label()+"]"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) lapLines() string {
	if len(m.state.Laps) == 0 {
		return mutedStyle.Render("no laps yet")
	}
	start := 0
	if m.selected >= visibleLaps {
		start = m.selected - visibleLaps + 1
	}
	end := min(start+visibleLaps, len(m.state.Laps))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lap := m.state.Laps[i]
		var line string
		if lap.Split {
			line = splitStyle.Render(fmt.Sprintf("      split  %s", pace.FormatTime(lap.DurationMs)))
		} else {
			line = fmt.Sprintf("Lap %-3d  %s  %s /km  %d m", lap.Number, pace.FormatTime(lap.DurationMs), lap.Pace, lap.DistanceM)
		}
		if i == m.selected {
			line = selectedStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) dimView() string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		dimStyle.Bold(true).Render(m.now.Format("15:04")),
		dimStyle.Render(fmt.Sprintf("Lap %d · %d m", m.state.CurrentLapNumber(), m.state.TotalDistanceM())),
	)
	return frameStyle.Render(block)
}
