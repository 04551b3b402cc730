//go:build !windows

package overlay

// applyNativeOpacity is only supported on Windows; elsewhere the black
// background alpha is the only dimming.
func (overlay *Window) applyNativeOpacity(uint8) {}
