// Package desktop resolves user folders and launches desktop helper programs.
package desktop

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/adrg/xdg"
)

// FileManagerPath is the file manager used for the "view" notification action.
const FileManagerPath = "/usr/bin/dde-file-manager"

// Locations resolves the XDG user directories.
type Locations struct{}

// DesktopDir returns $XDG_DESKTOP_DIR.
func (Locations) DesktopDir() string { return xdg.UserDirs.Desktop }

// PicturesDir returns $XDG_PICTURES_DIR.
func (Locations) PicturesDir() string { return xdg.UserDirs.Pictures }

// FileManagerAvailable reports whether the desktop file manager is installed
// and executable.
func FileManagerAvailable() bool { return executable(FileManagerPath) }

// Launcher starts detached helper programs. Failures are logged only.
type Launcher struct {
	logger *slog.Logger
	// start is replaced in tests.
	start func(name string, args ...string) error
}

// NewLauncher returns a Launcher that runs programs through os/exec.
func NewLauncher(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{logger: logger, start: startDetached}
}

// PlayShutter plays the camera shutter sound.
func (l *Launcher) PlayShutter() {
	if err := l.start("canberra-gtk-play", "-i", "camera-shutter"); err != nil {
		l.logger.Debug("desktop.shutter", "error", err)
	}
}

// OpenManual opens the application manual.
func (l *Launcher) OpenManual() error {
	if err := l.start("dman", "deepin-screenshot"); err != nil {
		l.logger.Warn("desktop.manual", "error", err)
		return err
	}
	return nil
}

func startDetached(name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
