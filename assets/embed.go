package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Locales holds the message catalogs, one JSON object per locale file named
// after the POSIX locale (zh_CN.json).
//
//go:embed locales/*.json
var Locales embed.FS

// LocaleFiles lists the embedded catalogs keyed by locale name.
func LocaleFiles() (map[string][]byte, error) {
	entries, err := fs.ReadDir(Locales, "locales")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := Locales.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(e.Name(), ".json")] = data
	}
	return out, nil
}
