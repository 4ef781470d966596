package images

import (
	"image"
	"testing"
)

func TestClampSelection_InsideUnchanged(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	r, ok := ClampSelection(image.Rect(30, 30, 70, 70), bounds)
	if !ok || r != image.Rect(30, 30, 70, 70) {
		t.Fatalf("expected unchanged rect, got %v ok=%v", r, ok)
	}
}

func TestClampSelection_ShiftsNearEdge(t *testing.T) {
	bounds := image.Rect(0, 0, 20, 20)
	r, _ := ClampSelection(image.Rect(-5, 15, 5, 25), bounds)
	if r.Min.X != 0 || r.Max.Y != 20 {
		t.Fatalf("expected shift into bounds, got %v", r)
	}
	if r.Dx() != 10 || r.Dy() != 10 {
		t.Fatalf("size should be kept, got %dx%d", r.Dx(), r.Dy())
	}
}

func TestClampSelection_SizeAdjustedWhenTooLarge(t *testing.T) {
	bounds := image.Rect(0, 0, 30, 30)
	r, _ := ClampSelection(image.Rect(5, 5, 55, 55), bounds)
	if r != bounds {
		t.Fatalf("expected full bounds, got %v", r)
	}
}

func TestClampSelection_MinSize(t *testing.T) {
	r, ok := ClampSelection(image.Rectangle{}, image.Rect(0, 0, 10, 10))
	if !ok || r.Dx() != 1 || r.Dy() != 1 {
		t.Fatalf("expected 1x1 got %v", r)
	}
	if _, ok := ClampSelection(image.Rect(0, 0, 5, 5), image.Rectangle{}); ok {
		t.Fatalf("empty bounds must fail")
	}
}

func TestPreview_ScalesSelection(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 400, 300))
	thumb, r, err := Preview(frame, image.Rect(0, 0, 400, 200), 100, 100)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if r != image.Rect(0, 0, 400, 200) {
		t.Fatalf("unexpected rect %v", r)
	}
	if b := thumb.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("expected 100x50 thumbnail, got %v", b)
	}
	if _, _, err := Preview(nil, r, 10, 10); err == nil {
		t.Fatalf("nil frame must fail")
	}
}
