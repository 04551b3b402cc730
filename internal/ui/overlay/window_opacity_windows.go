//go:build windows

package overlay

import (
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

const (
	exStyleIndex  int32 = -20
	layeredStyle        = 0x00080000
	layeredAlpha        = 0x2
	opaqueOverlay       = 255
)

var (
	user32            = syscall.NewLazyDLL("user32.dll")
	getWindowLongPtr  = user32.NewProc("GetWindowLongPtrW")
	setWindowLongPtr  = user32.NewProc("SetWindowLongPtrW")
	setLayeredWindowA = user32.NewProc("SetLayeredWindowAttributes")
)

// applyNativeOpacity lets the desktop show through the dim overlay. A fully
// opaque overlay drops the layered style again.
func (overlay *Window) applyNativeOpacity(alpha uint8) {
	withHWND(overlay.window, func(hwnd uintptr) {
		index := uintptr(uint32(exStyleIndex))
		style, _, _ := getWindowLongPtr.Call(hwnd, index)

		if alpha == opaqueOverlay {
			if style&layeredStyle != 0 {
				setWindowLongPtr.Call(hwnd, index, style&^layeredStyle)
			}
			return
		}
		if style&layeredStyle == 0 {
			setWindowLongPtr.Call(hwnd, index, style|layeredStyle)
		}
		setLayeredWindowA.Call(hwnd, 0, uintptr(alpha), layeredAlpha)
	})
}

// withHWND runs fn with the native handle of window, if it has one.
func withHWND(window fyne.Window, fn func(hwnd uintptr)) {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return
	}
	native.RunNative(func(context any) {
		var hwnd uintptr
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		}
		if hwnd != 0 {
			fn(hwnd)
		}
	})
}
