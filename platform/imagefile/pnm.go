package imagefile

import (
	"image"
	"io"

	"github.com/spakin/netpbm"
)

// pnmEncoder writes the raw (binary) netpbm variant of format: P4, P5 or P6.
func pnmEncoder(format netpbm.Format) encodeFunc {
	var maxValue uint16 = 255
	if format == netpbm.PBM {
		maxValue = 1
	}
	return func(w io.Writer, img image.Image, _ string) error {
		return netpbm.Encode(w, img, &netpbm.EncodeOptions{
			Format:   format,
			MaxValue: maxValue,
		})
	}
}
