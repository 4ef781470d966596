package imagefile

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
)

// xpmAlphabet holds the characters used for pixel codes; '"' and '\' are
// excluded so codes never need escaping.
const xpmAlphabet = ".#abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// encodeXPM writes an XPM3 pixmap. Fully transparent pixels map to "None".
func encodeXPM(w io.Writer, img image.Image, name string) error {
	b := img.Bounds()
	palette := make(map[color.RGBA]int)
	var order []color.RGBA
	key := func(c color.Color) color.RGBA {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		if nc.A == 0 {
			return color.RGBA{}
		}
		return color.RGBA{R: nc.R, G: nc.G, B: nc.B, A: 0xff}
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			k := key(img.At(x, y))
			if _, ok := palette[k]; !ok {
				palette[k] = len(order)
				order = append(order, k)
			}
		}
	}

	cpp := 1
	for capacity := len(xpmAlphabet); capacity < len(order); capacity *= len(xpmAlphabet) {
		cpp++
	}
	code := func(i int) string {
		buf := make([]byte, cpp)
		for j := cpp - 1; j >= 0; j-- {
			buf[j] = xpmAlphabet[i%len(xpmAlphabet)]
			i /= len(xpmAlphabet)
		}
		return string(buf)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "/* XPM */\nstatic char *%s[] = {\n", name)
	fmt.Fprintf(&sb, "\"%d %d %d %d\",\n", b.Dx(), b.Dy(), len(order), cpp)
	for i, c := range order {
		if c.A == 0 {
			fmt.Fprintf(&sb, "\"%s c None\",\n", code(i))
			continue
		}
		fmt.Fprintf(&sb, "\"%s c #%02x%02x%02x\",\n", code(i), c.R, c.G, c.B)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sb.WriteByte('"')
		for x := b.Min.X; x < b.Max.X; x++ {
			sb.WriteString(code(palette[key(img.At(x, y))]))
		}
		sb.WriteByte('"')
		if y < b.Max.Y-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("};\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
