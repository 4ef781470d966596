package save

import (
	"image"
)

// Option selects where a capture is persisted. It mirrors the integer stored
// under save.save_op in the settings file.
type Option int

const (
	SaveToDesktop Option = iota
	AutoSaveToPictures
	SaveToChosenDir
	ClipboardOnly
	AutoSaveAndClipboard
)

func (o Option) String() string {
	switch o {
	case SaveToDesktop:
		return "desktop"
	case AutoSaveToPictures:
		return "pictures"
	case SaveToChosenDir:
		return "chosen_dir"
	case AutoSaveAndClipboard:
		return "pictures+clipboard"
	default:
		return "clipboard"
	}
}

// CaptureKind tells how the image of a request was obtained.
type CaptureKind int

const (
	KindRegion CaptureKind = iota
	KindFullscreen
	KindActiveWindow
)

func (k CaptureKind) String() string {
	switch k {
	case KindFullscreen:
		return "fullscreen"
	case KindActiveWindow:
		return "active_window"
	default:
		return "region"
	}
}

// Request is one capture handed to the resolver. It is consumed exactly once.
type Request struct {
	ExplicitPath string
	Kind         CaptureKind
	Image        image.Image
}

// Outcome describes where the image ended up.
//
// Path is empty when nothing was written to disk. Cancelled reports a
// directory chooser dismissed by the user; Err carries a write or clipboard
// failure that was already logged.
type Outcome struct {
	Path              string
	CopiedToClipboard bool
	Cancelled         bool
	Err               error
}

// Action is a notification button.
type Action struct {
	ID    string
	Label string
}

// NotificationRequest is what the resolver asks the notification sink to show.
type NotificationRequest struct {
	Title   string
	Body    string
	Actions []Action
	Hints   map[string]string
}

// Settings is the slice of the settings store the resolver reads and writes.
// SaveOp returns the raw save.save_op value; unknown values fall back to
// clipboard-only.
type Settings interface {
	SaveOp() int
	LastFolder() string
	SetLastFolder(dir string) error
}

// Locations resolves the well-known user directories.
type Locations interface {
	DesktopDir() string
	PicturesDir() string
}

// DirChooser prompts the user for a destination. An empty result means the
// prompt was cancelled.
type DirChooser interface {
	ChooseSavePath(initial string) string
}

// ImageWriter encodes img at path, picking the format from the extension.
type ImageWriter interface {
	WriteImage(img image.Image, path string) error
}

// Clipboard places an image on the system clipboard.
type Clipboard interface {
	CopyImage(img image.Image) error
}

// Notifier delivers a notification to the desktop.
type Notifier interface {
	Notify(req NotificationRequest) error
}
