package images

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// EncodePNG returns img as PNG bytes for Tk photo images, or nil when img is
// nil or cannot be encoded.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil
	}
	return buf.Bytes()
}

// ScaleToFit shrinks src with nearest-neighbour sampling until it fits
// maxW x maxH, keeping the aspect ratio. A source that already fits is
// returned as is.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	return imaging.Fit(src, max(maxW, 1), max(maxH, 1), imaging.NearestNeighbor)
}
