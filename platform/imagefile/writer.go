// Package imagefile writes captures to disk in the format named by the file
// extension.
package imagefile

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/spakin/netpbm"
)

// ErrUnsupportedFormat is returned for extensions outside the writable set.
var ErrUnsupportedFormat = errors.New("imagefile: unsupported format")

// JPEGQuality is the quality used for .jpg and .jpeg files.
const JPEGQuality = 95

type encodeFunc func(w io.Writer, img image.Image, name string) error

// Writer encodes images by extension and logs what it wrote.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer. A nil logger falls back to slog.Default().
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteImage encodes img to path, creating the parent directory if needed.
// A partially written file is removed on failure.
func (w *Writer) WriteImage(img image.Image, path string) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("imagefile: empty image for %s", path)
	}
	enc, err := encoderFor(filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("%w: %q", err, filepath.Ext(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("imagefile: create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imagefile: create: %w", err)
	}
	bw := bufio.NewWriter(f)
	err = enc(bw, img, symbolName(path))
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("imagefile: encode %s: %w", filepath.Base(path), err)
	}

	size := "?"
	if st, serr := os.Stat(path); serr == nil {
		size = humanize.Bytes(uint64(st.Size()))
	}
	b := img.Bounds()
	w.logger.Debug("imagefile.write", "path", path, "width", b.Dx(), "height", b.Dy(), "size", size)
	return nil
}

func encoderFor(ext string) (encodeFunc, error) {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".bmp":
		format, err := imaging.FormatFromExtension(ext)
		if err != nil {
			return nil, ErrUnsupportedFormat
		}
		return func(w io.Writer, img image.Image, _ string) error {
			return imaging.Encode(w, img, format, imaging.JPEGQuality(JPEGQuality))
		}, nil
	case ".pbm":
		return pnmEncoder(netpbm.PBM), nil
	case ".pgm":
		return pnmEncoder(netpbm.PGM), nil
	case ".ppm":
		return pnmEncoder(netpbm.PPM), nil
	case ".xbm":
		return encodeXBM, nil
	case ".xpm":
		return encodeXPM, nil
	}
	return nil, ErrUnsupportedFormat
}

// symbolName turns a file name into a C identifier for the XBM/XPM headers.
func symbolName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var sb strings.Builder
	for i, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "image"
	}
	return sb.String()
}
