package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// relPath is the settings file location below the XDG config home.
const relPath = "deepin-screenshot/config.json"

// Default save.save_op: copy to the clipboard only.
const defaultSaveOp = 3

// Config holds the persisted settings of the screenshot tool.
// Sections mirror the keys the desktop environment already writes
// (save.save_op, save.folder, showOSD.show).
type Config struct {
	Debug    bool   `json:"debug" mapstructure:"debug"`
	LogLevel string `json:"log_level" mapstructure:"log_level"`

	Storage SaveSection `json:"save" mapstructure:"save"`
	OSD     OSDSection  `json:"showOSD" mapstructure:"showOSD"`

	path string
	tmp  string
	// raw is the decoded file; keys this program does not know survive Save.
	raw map[string]any
}

// SaveSection configures where captures go.
type SaveSection struct {
	SaveOp int    `json:"save_op" mapstructure:"save_op"`
	Folder string `json:"folder" mapstructure:"folder"`
}

// OSDSection toggles the first-run on-screen hint.
type OSDSection struct {
	Show bool `json:"show" mapstructure:"show"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Storage: SaveSection{
			SaveOp: defaultSaveOp,
			Folder: xdg.UserDirs.Pictures,
		},
		OSD: OSDSection{Show: true},
		tmp: tempImageFile(os.TempDir()),
	}
}

func tempImageFile(dir string) string {
	return filepath.Join(dir, "deepin-screenshot-"+uuid.NewString()+".png")
}

// DefaultPath returns the settings file below $XDG_CONFIG_HOME, creating the
// parent directory when needed.
func DefaultPath() (string, error) {
	p, err := xdg.ConfigFile(relPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return p, nil
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
	c.Storage.Folder = strings.TrimSpace(c.Storage.Folder)
	if c.Storage.Folder == "" {
		c.Storage.Folder = xdg.UserDirs.Pictures
	}
	return nil
}

// Load reads the settings file at path. A missing file yields DefaultConfig()
// bound to path. Values written by other tools as strings ("2", "true") are
// accepted; a save_op that is not a number falls back to clipboard-only.
// When the file cannot be read or decoded the defaults are returned together
// with the error and are never written back over the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.path = path
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       lenientHook,
		Result:           cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}
	_ = cfg.Validate()
	cfg.path = path
	cfg.raw = raw
	return cfg, nil
}

// lenientHook maps malformed scalar strings onto values the application
// treats as "unset": -1 for integers and false for booleans.
func lenientHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	s = strings.TrimSpace(s)
	switch to.Kind() {
	case reflect.Int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return -1, nil
		}
		return n, nil
	case reflect.Bool:
		return strings.EqualFold(s, "true"), nil
	}
	return data, nil
}

// Save writes the configuration to the given path in JSON format. Keys read
// by Load that Config does not model are written back unchanged.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	known, err := c.fields()
	if err != nil {
		return err
	}
	out := merge(cloneMap(c.raw), known)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	c.raw = out
	return nil
}

// fields returns the modelled settings as a generic JSON object.
func (c *Config) fields() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// merge overlays src onto dst, descending into objects present in both.
func merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if cur, isMap := dst[k].(map[string]any); ok && isMap {
			dst[k] = merge(cur, sub)
			continue
		}
		dst[k] = v
	}
	return dst
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			v = cloneMap(sub)
		}
		out[k] = v
	}
	return out
}

// Path is the file the settings were loaded from and are persisted to. It is
// empty when persistence is disabled.
func (c *Config) Path() string { return c.path }

func (c *Config) persist() error {
	if c.path == "" {
		return nil
	}
	return c.Save(c.path)
}

// SaveOp returns the raw save.save_op value.
func (c *Config) SaveOp() int { return c.Storage.SaveOp }

// LastFolder is the directory the save dialog opens in.
func (c *Config) LastFolder() string { return c.Storage.Folder }

// SetLastFolder records dir as the last used folder and persists it.
func (c *Config) SetLastFolder(dir string) error {
	c.Storage.Folder = dir
	return c.persist()
}

// ShowOSD reports whether the on-screen hint is still pending.
func (c *Config) ShowOSD() bool { return c.OSD.Show }

// SetShowOSD stores the OSD flag and persists it.
func (c *Config) SetShowOSD(show bool) error {
	c.OSD.Show = show
	return c.persist()
}

// TmpImageFile is where the raw capture of the current session is stored.
func (c *Config) TmpImageFile() string { return c.tmp }

// RemoveTempFiles deletes the scratch image of this process.
func (c *Config) RemoveTempFiles() {
	if c.tmp != "" {
		_ = os.Remove(c.tmp)
	}
}
