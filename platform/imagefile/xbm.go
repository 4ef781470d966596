package imagefile

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
)

// luma returns the 8-bit gray value of c.
func luma(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

// encodeXBM writes a monochrome X bitmap. Dark pixels become set bits,
// least significant bit first.
func encodeXBM(w io.Writer, img image.Image, name string) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	var sb strings.Builder
	fmt.Fprintf(&sb, "#define %s_width %d\n#define %s_height %d\n", name, width, name, height)
	fmt.Fprintf(&sb, "static char %s_bits[] = {\n", name)

	perRow := (width + 7) / 8
	total := perRow * height
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for bx := 0; bx < perRow; bx++ {
			var v byte
			for bit := 0; bit < 8; bit++ {
				x := bx*8 + bit
				if x >= width {
					break
				}
				if luma(img.At(b.Min.X+x, y)) < 128 {
					v |= 1 << bit
				}
			}
			if n%12 == 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "0x%02x", v)
			n++
			switch {
			case n == total:
				sb.WriteString("};\n")
			case n%12 == 0:
				sb.WriteString(",\n")
			default:
				sb.WriteString(", ")
			}
		}
	}
	if total == 0 {
		sb.WriteString("};\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
