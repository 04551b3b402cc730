package tray

import (
	"fmt"
	"strings"

	"trackpace/resources"
)

type phase int

const (
	phaseIdle phase = iota
	phaseRunning
	phasePaused
)

// status is what the tray shows about the session.
type status struct {
	phase   phase
	elapsed string
}

func (current status) label() string {
	switch current.phase {
	case phaseRunning:
		return fmt.Sprintf("Running %s", current.elapsed)
	case phasePaused:
		return fmt.Sprintf("Paused %s", current.elapsed)
	default:
		return "Ready"
	}
}

func (current status) toggleLabel() string {
	if current.phase == phaseRunning {
		return "Pause"
	}
	return "Start"
}

func (current status) iconName() string {
	switch current.phase {
	case phaseRunning:
		return resources.IconRunning
	case phasePaused:
		return resources.IconPaused
	default:
		return resources.IconLogo
	}
}

// wholeSeconds drops the hundredths so the tray changes once a second.
func wholeSeconds(elapsed string) string {
	seconds, _, _ := strings.Cut(elapsed, ".")
	return seconds
}

func (current status) running(elapsed string) status {
	return status{phase: phaseRunning, elapsed: wholeSeconds(elapsed)}
}

func (current status) paused() status {
	current.phase = phasePaused
	return current
}

func (current status) idle() status {
	return status{phase: phaseIdle}
}

func lapSummaryText(lapNumber, totalDistanceM int) string {
	return fmt.Sprintf("Lap %d, %d m", lapNumber, totalDistanceM)
}
