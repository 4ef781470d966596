package images

import (
	"errors"
	"image"
)

// ClampSelection fits sel inside bounds, keeping its size where possible and
// guaranteeing at least 1x1. It returns false when bounds is empty.
func ClampSelection(sel, bounds image.Rectangle) (image.Rectangle, bool) {
	if bounds.Empty() {
		return image.Rectangle{}, false
	}
	sel = sel.Canon()
	w, h := sel.Dx(), sel.Dy()
	if w > bounds.Dx() {
		w = bounds.Dx()
	}
	if h > bounds.Dy() {
		h = bounds.Dy()
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x0, y0 := sel.Min.X, sel.Min.Y
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x0+w > bounds.Max.X {
		x0 = bounds.Max.X - w
	}
	if y0+h > bounds.Max.Y {
		y0 = bounds.Max.Y - h
	}
	return image.Rect(x0, y0, x0+w, y0+h), true
}

// Preview returns a thumbnail of the part of frame under sel, scaled to fit
// maxW x maxH, together with the clamped selection.
func Preview(frame *image.RGBA, sel image.Rectangle, maxW, maxH int) (image.Image, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	r, ok := ClampSelection(sel, frame.Bounds())
	if !ok {
		return nil, image.Rectangle{}, errors.New("empty frame")
	}
	return ScaleToFit(frame.SubImage(r), maxW, maxH), r, nil
}
