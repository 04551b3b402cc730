package screen

import "fyne.io/fyne/v2"

type keyCommand int

const (
	keyNone keyCommand = iota
	keyToggle
	keyLap
	keySplit
	keyReset
)

// commandForKey maps the hardware shortcuts: Space toggles, L or Enter
// records a lap, S splits and R asks to reset.
func commandForKey(name fyne.KeyName) keyCommand {
	switch name {
	case fyne.KeySpace:
		return keyToggle
	case fyne.KeyL, fyne.KeyReturn, fyne.KeyEnter:
		return keyLap
	case fyne.KeyS:
		return keySplit
	case fyne.KeyR:
		return keyReset
	default:
		return keyNone
	}
}
