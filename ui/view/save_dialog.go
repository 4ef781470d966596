package view

import (
	"fmt"
	"log/slog"
	"path/filepath"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SaveDialog asks for a destination file with the native Tk save dialog.
type SaveDialog struct {
	logger *slog.Logger
	tr     func(string, ...any) string
}

// NewSaveDialog returns a dialog implementing save.DirChooser.
func NewSaveDialog(logger *slog.Logger, tr func(string, ...any) string) *SaveDialog {
	if logger == nil {
		logger = slog.Default()
	}
	if tr == nil {
		tr = fmt.Sprintf
	}
	return &SaveDialog{logger: logger, tr: tr}
}

// ChooseSavePath blocks until the user picks a file or cancels. An empty
// result means cancel.
func (d *SaveDialog) ChooseSavePath(initial string) (chosen string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dialog.save", "panic", r)
			chosen = ""
		}
	}()
	chosen = GetSaveFile(
		Title(d.tr("Save")),
		Initialdir(filepath.Dir(initial)),
		Initialfile(filepath.Base(initial)),
	)
	d.logger.Debug("dialog.save", "initial", initial, "chosen", chosen)
	return chosen
}
