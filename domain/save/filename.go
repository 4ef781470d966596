package save

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// timestampLayout matches the capture names users already have on disk.
const timestampLayout = "%Y%m%d%H%M%S"

// fallbackExt is appended to names whose extension cannot be encoded.
const fallbackExt = ".png"

// pictureFormats is the extension allow-list. Matching is case-sensitive.
var pictureFormats = map[string]struct{}{
	".bmp":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".pbm":  {},
	".pgm":  {},
	".ppm":  {},
	".xbm":  {},
	".xpm":  {},
}

// ValidFormat reports whether ext (including the dot) is an allowed picture suffix.
func ValidFormat(ext string) bool {
	_, ok := pictureFormats[ext]
	return ok
}

// DefaultFileName returns "<prefix><YYYYMMDDHHMMSS>.png" for the local time now.
func DefaultFileName(prefix string, now time.Time) string {
	return prefix + strftime.Format(timestampLayout, now.Local()) + fallbackExt
}

// NormalizePath turns a user supplied path into an absolute image path.
// An empty file component is replaced by defaultName; an unknown extension
// gets ".png" appended rather than replaced, so "photo.txt" becomes
// "photo.txt.png". Normalizing an already normalized path is a no-op.
func NormalizePath(p, defaultName string) (string, error) {
	dir, name := filepath.Split(p)
	if name == "" {
		name = defaultName
	} else if !ValidFormat(suffix(name)) {
		name += fallbackExt
	}
	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// suffix returns the extension of name, treating leading dots as part of the
// stem so that ".png" alone has no extension.
func suffix(name string) string {
	stem := strings.TrimLeft(name, ".")
	return filepath.Ext(stem)
}
