// Package overlay is the dimmed screen shown while the session UI is
// hidden: the time of day, lap count and distance drifting on black.
package overlay

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"trackpace/internal/ui/animation"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
}

// Window manages the overlay UI.
type Window struct {
	app        fyne.App
	window     fyne.Window
	config     Config
	background *canvas.Rectangle
	clockLabel *canvas.Text
	lapsLabel  *canvas.Text
	block      *fyne.Container
	drift      *animation.Engine
	onWake     func()

	mu          sync.Mutex
	visible     bool
	cancelClock context.CancelFunc
}

const (
	overlayWidthFraction  = float32(0.5)
	overlayHeightFraction = float32(0.5)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the overlay window. onWake runs when the user taps the
// overlay or presses a key.
func New(app fyne.App, config Config, drift *animation.Engine, onWake func()) *Window {
	window := app.NewWindow("trackpace")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 0, A: config.Opacity})

	clockLabel := canvas.NewText("--:--", color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 64

	lapsLabel := canvas.NewText(summaryText(1, 0), color.NRGBA{R: 140, G: 140, B: 140, A: 255})
	lapsLabel.Alignment = fyne.TextAlignCenter
	lapsLabel.TextSize = 20

	block := container.NewVBox(clockLabel, lapsLabel)
	layer := container.NewWithoutLayout(block)

	overlay := &Window{
		app:        app,
		window:     window,
		config:     config,
		background: background,
		clockLabel: clockLabel,
		lapsLabel:  lapsLabel,
		block:      block,
		drift:      drift,
		onWake:     onWake,
	}

	wake := newTapArea(overlay.wake)
	window.SetContent(container.NewStack(background, layer, wake))
	window.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) { overlay.wake() })
	window.SetCloseIntercept(overlay.wake)
	overlay.applyWindowMode()

	return overlay
}

// Show displays the overlay and starts the clock and drift.
func (overlay *Window) Show() {
	overlay.mu.Lock()
	if overlay.visible {
		overlay.mu.Unlock()
		return
	}
	overlay.visible = true
	ctx, cancel := context.WithCancel(context.Background())
	overlay.cancelClock = cancel
	overlay.mu.Unlock()

	overlay.setClock(time.Now())
	overlay.applyWindowMode()
	overlay.window.Show()
	overlay.window.RequestFocus()

	go overlay.runClock(ctx)
	if overlay.drift != nil {
		overlay.drift.Start(ctx, overlay.bounds)
	}
}

// Hide closes the overlay and stops the clock and drift.
func (overlay *Window) Hide() {
	overlay.mu.Lock()
	if !overlay.visible {
		overlay.mu.Unlock()
		return
	}
	overlay.visible = false
	if overlay.cancelClock != nil {
		overlay.cancelClock()
		overlay.cancelClock = nil
	}
	overlay.mu.Unlock()

	if overlay.drift != nil {
		overlay.drift.Stop()
	}
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(false)
	}
	overlay.window.Hide()
}

// SetSession updates the lap count and distance line.
func (overlay *Window) SetSession(lapNumber, totalDistanceM int) {
	overlay.lapsLabel.Text = summaryText(lapNumber, totalDistanceM)
	overlay.lapsLabel.Refresh()
}

// UpdateConfig updates overlay visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.config = config
	overlay.background.FillColor = color.NRGBA{R: 0, G: 0, B: 0, A: config.Opacity}
	canvas.Refresh(overlay.background)
	overlay.applyWindowMode()
}

// MoveBlock places the clock block. It is the drift engine's move callback.
func (overlay *Window) MoveBlock(position fyne.Position) {
	fyne.Do(func() {
		overlay.block.Resize(overlay.block.MinSize())
		overlay.block.Move(position)
	})
}

func (overlay *Window) bounds() (fyne.Size, fyne.Size) {
	return overlay.window.Canvas().Size(), overlay.block.MinSize()
}

func (overlay *Window) wake() {
	if overlay.onWake != nil {
		overlay.onWake()
	}
}

func (overlay *Window) runClock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fyne.Do(func() { overlay.setClock(now) })
		}
	}
}

func (overlay *Window) setClock(now time.Time) {
	text := clockText(now)
	if overlay.clockLabel.Text == text {
		return
	}
	overlay.clockLabel.Text = text
	overlay.clockLabel.Refresh()
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.resizeToScreenFraction()
	overlay.applyNativeOpacity(overlay.config.Opacity)
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.block.MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}

// OpacityToAlpha converts a 0..1 opacity into a color alpha.
func OpacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}

func clockText(now time.Time) string {
	return now.Format("15:04")
}

func summaryText(lapNumber, totalDistanceM int) string {
	return fmt.Sprintf("Lap %d · %d m", lapNumber, totalDistanceM)
}

// tapArea is a transparent widget covering the overlay that reports taps.
type tapArea struct {
	widget.BaseWidget
	onTap func()
}

func newTapArea(onTap func()) *tapArea {
	area := &tapArea{onTap: onTap}
	area.ExtendBaseWidget(area)
	return area
}

func (area *tapArea) Tapped(*fyne.PointEvent) {
	area.onTap()
}

func (area *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}
