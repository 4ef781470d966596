package capture

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

var (
	// ErrNoActiveWindow is returned when the window manager reports no
	// focused window.
	ErrNoActiveWindow = errors.New("capture: no active window")
	// ErrOutsideFrame is returned when a crop rectangle misses the frame.
	ErrOutsideFrame = errors.New("capture: rectangle outside frame")
)

// Frame is one grabbed screen. Image starts at the origin; Screen locates
// it in root window coordinates.
type Frame struct {
	Image  *image.RGBA
	Screen image.Rectangle
}

// Empty reports whether the frame holds no pixels.
func (f Frame) Empty() bool { return f.Image == nil || f.Image.Bounds().Empty() }

// Crop returns the part of the frame covered by r, given in root
// coordinates. r is clipped to the frame.
func (f Frame) Crop(r image.Rectangle) (image.Image, error) {
	if f.Empty() {
		return nil, ErrOutsideFrame
	}
	local := r.Sub(f.Screen.Min).Intersect(f.Image.Bounds())
	if local.Empty() {
		return nil, ErrOutsideFrame
	}
	return imaging.Crop(f.Image, local), nil
}

// Extents are the window manager decorations around a client window, as
// published in _NET_FRAME_EXTENTS.
type Extents struct {
	Left, Right, Top, Bottom int
}

// Expand grows r by the extents.
func (e Extents) Expand(r image.Rectangle) image.Rectangle {
	return image.Rect(r.Min.X-e.Left, r.Min.Y-e.Top, r.Max.X+e.Right, r.Max.Y+e.Bottom)
}

// ScreenAt returns the screen containing p, the first screen when none does,
// or fallback when screens is empty.
func ScreenAt(screens []image.Rectangle, p image.Point, fallback image.Rectangle) image.Rectangle {
	for _, s := range screens {
		if p.In(s) {
			return s
		}
	}
	if len(screens) > 0 {
		return screens[0]
	}
	return fallback
}
