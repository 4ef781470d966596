package save

import (
	"net/url"
	"path/filepath"
)

const (
	// ViewActionID is the identifier of the "View" notification button.
	ViewActionID = "view"
	// ViewHintKey carries the "<program>,<argument>" command run by the
	// notification daemon when the view action is invoked.
	ViewHintKey = "x-deepin-action-view"

	fileManagerProgram = "dde-file-manager"
	genericOpenProgram = "xdg-open"
)

// ViewHints builds the notification hints that open the saved file. With a
// file manager present the containing folder is opened with the file
// pre-selected; otherwise the file is handed to xdg-open.
func ViewHints(path string, fileManager bool) map[string]string {
	var command string
	if fileManager {
		arg := fileURL(filepath.Dir(path)) + "?selectUrl=" + fileURL(path)
		command = fileManagerProgram + "," + arg
	} else {
		command = genericOpenProgram + "," + path
	}
	return map[string]string{ViewHintKey: command}
}

func fileURL(p string) string {
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
