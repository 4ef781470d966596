// Package capture grabs screen pixels and queries window geometry.
package capture

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/vova616/screenshot"
)

// display is the subset of *Display the grabber needs.
type display interface {
	Root() image.Rectangle
	Pointer() (image.Point, error)
	Screens() ([]image.Rectangle, error)
	ActiveWindow() (image.Rectangle, error)
	Close()
}

var _ display = (*Display)(nil)

// Grabber captures the screen under the cursor.
type Grabber struct {
	logger *slog.Logger
	open   func() (display, error)
	grab   func(image.Rectangle) (*image.RGBA, error)
	bounds func() (image.Rectangle, error)
}

// NewGrabber returns a Grabber backed by the X server.
func NewGrabber(logger *slog.Logger) *Grabber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grabber{
		logger: logger,
		open:   func() (display, error) { return OpenDisplay() },
		grab:   screenshot.CaptureRect,
		bounds: screenshot.ScreenRect,
	}
}

// GrabScreen captures the screen the cursor is on. When the display cannot
// be queried the whole root window is captured.
func (g *Grabber) GrabScreen() (Frame, error) {
	screen, err := g.cursorScreen()
	if err != nil {
		g.logger.Warn("capture.screen", "error", err)
		if screen, err = g.bounds(); err != nil {
			return Frame{}, fmt.Errorf("capture: screen bounds: %w", err)
		}
	}
	img, err := g.grab(screen)
	if err != nil {
		return Frame{}, fmt.Errorf("capture: grab %v: %w", screen, err)
	}
	img.Rect = img.Rect.Sub(img.Rect.Min)
	g.logger.Debug("capture.grab", "screen", screen.String(), "width", img.Rect.Dx(), "height", img.Rect.Dy())
	return Frame{Image: img, Screen: screen}, nil
}

func (g *Grabber) cursorScreen() (image.Rectangle, error) {
	d, err := g.open()
	if err != nil {
		return image.Rectangle{}, err
	}
	defer d.Close()
	p, err := d.Pointer()
	if err != nil {
		return image.Rectangle{}, err
	}
	screens, err := d.Screens()
	if err != nil {
		return image.Rectangle{}, err
	}
	return ScreenAt(screens, p, d.Root()), nil
}

// ActiveWindowRect returns the active window frame in root coordinates.
func (g *Grabber) ActiveWindowRect() (image.Rectangle, error) {
	d, err := g.open()
	if err != nil {
		return image.Rectangle{}, err
	}
	defer d.Close()
	r, err := d.ActiveWindow()
	if err != nil {
		return image.Rectangle{}, err
	}
	g.logger.Debug("capture.active_window", "rect", r.String())
	return r, nil
}
