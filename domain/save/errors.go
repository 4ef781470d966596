package save

import "errors"

var (
	// ErrEmptyImage is returned for requests without pixels.
	ErrEmptyImage = errors.New("save: empty image")
	// ErrNoChooser is logged when SaveToChosenDir is configured without a chooser.
	ErrNoChooser = errors.New("save: no directory chooser available")
	// ErrNoClipboard is returned when a clipboard copy is due but no clipboard is wired.
	ErrNoClipboard = errors.New("save: clipboard unavailable")
)
