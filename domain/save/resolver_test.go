package save

import (
	"bytes"
	"errors"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSettings struct {
	op      int
	folder  string
	setDirs []string
	setErr  error
}

func (s *fakeSettings) SaveOp() int        { return s.op }
func (s *fakeSettings) LastFolder() string { return s.folder }
func (s *fakeSettings) SetLastFolder(dir string) error {
	s.setDirs = append(s.setDirs, dir)
	if s.setErr != nil {
		return s.setErr
	}
	s.folder = dir
	return nil
}

type fakeLocations struct{}

func (fakeLocations) DesktopDir() string  { return "/home/u/Desktop" }
func (fakeLocations) PicturesDir() string { return "/home/u/Pictures" }

type fakeChooser struct {
	result  string
	initial []string
}

func (c *fakeChooser) ChooseSavePath(initial string) string {
	c.initial = append(c.initial, initial)
	return c.result
}

type fakeWriter struct {
	paths []string
	err   error
}

func (w *fakeWriter) WriteImage(_ image.Image, path string) error {
	if w.err != nil {
		return w.err
	}
	w.paths = append(w.paths, path)
	return nil
}

type fakeClipboard struct {
	copies int
	err    error
}

func (c *fakeClipboard) CopyImage(image.Image) error {
	if c.err != nil {
		return c.err
	}
	c.copies++
	return nil
}

type fakeNotifier struct{ sent []NotificationRequest }

func (n *fakeNotifier) Notify(req NotificationRequest) error {
	n.sent = append(n.sent, req)
	return nil
}

type harness struct {
	settings  *fakeSettings
	chooser   *fakeChooser
	writer    *fakeWriter
	clipboard *fakeClipboard
	notifier  *fakeNotifier
	resolver  *Resolver
}

func newHarness(op int) *harness {
	h := &harness{
		settings:  &fakeSettings{op: op, folder: "/home/u/Shots"},
		chooser:   &fakeChooser{},
		writer:    &fakeWriter{},
		clipboard: &fakeClipboard{},
		notifier:  &fakeNotifier{},
	}
	h.resolver = NewResolver(discardLogger, h.settings, Sinks{
		Locations: fakeLocations{},
		Chooser:   h.chooser,
		Writer:    h.writer,
		Clipboard: h.clipboard,
		Notifier:  h.notifier,
	})
	h.resolver.Now = func() time.Time { return fixedNow }
	return h
}

func testImage() image.Image { return image.NewRGBA(image.Rect(0, 0, 4, 3)) }

const wantName = "DeepinScreenshot20261019140305.png"

func TestResolve_SaveToDesktop(t *testing.T) {
	h := newHarness(int(SaveToDesktop))
	out := h.resolver.Resolve(Request{Kind: KindFullscreen, Image: testImage()})
	require.NoError(t, out.Err)
	require.Equal(t, "/home/u/Desktop/"+wantName, out.Path)
	require.False(t, out.CopiedToClipboard)
	require.Equal(t, []string{out.Path}, h.writer.paths)
	require.Zero(t, h.clipboard.copies)
	require.Len(t, h.notifier.sent, 1)
}

func TestResolve_AutoSaveToPictures(t *testing.T) {
	h := newHarness(int(AutoSaveToPictures))
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.Equal(t, "/home/u/Pictures/"+wantName, out.Path)
	require.False(t, out.CopiedToClipboard)
	require.Zero(t, h.clipboard.copies)

	n := h.notifier.sent[0]
	require.Equal(t, "Deepin Screenshot", n.Title)
	require.Equal(t, "Picture has been saved to "+out.Path, n.Body)
	require.Equal(t, []Action{{ID: "view", Label: "View"}}, n.Actions)
	require.Equal(t, "xdg-open,"+out.Path, n.Hints[ViewHintKey])
}

func TestResolve_ChosenDirCancelled(t *testing.T) {
	h := newHarness(int(SaveToChosenDir))
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.True(t, out.Cancelled)
	require.Empty(t, out.Path)
	require.False(t, out.CopiedToClipboard)
	require.NoError(t, out.Err)
	require.Empty(t, h.writer.paths)
	require.Zero(t, h.clipboard.copies)
	require.Empty(t, h.notifier.sent)
	require.Empty(t, h.settings.setDirs)
	require.Equal(t, []string{"/home/u/Shots/" + wantName}, h.chooser.initial)
}

func TestResolve_ChosenDirNormalizesAndPersistsFolder(t *testing.T) {
	h := newHarness(int(SaveToChosenDir))
	h.chooser.result = "/data/exports/report.txt"
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.Equal(t, "/data/exports/report.txt.png", out.Path)
	require.False(t, out.CopiedToClipboard)
	require.Equal(t, []string{"/data/exports"}, h.settings.setDirs)
	require.Len(t, h.notifier.sent, 1)
}

func TestResolve_ChosenDirFolderPersistFailureStillSaves(t *testing.T) {
	h := newHarness(int(SaveToChosenDir))
	h.chooser.result = "/data/exports/"
	h.settings.setErr = errors.New("read-only settings")
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.NoError(t, out.Err)
	require.Equal(t, "/data/exports/"+wantName, out.Path)
}

func TestResolve_AutoSaveAndClipboard(t *testing.T) {
	h := newHarness(int(AutoSaveAndClipboard))
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.True(t, out.CopiedToClipboard)
	require.Equal(t, "/home/u/Pictures/"+wantName, out.Path)
	require.Equal(t, 1, h.clipboard.copies)
	require.Len(t, h.writer.paths, 1)
	require.Len(t, h.notifier.sent, 1, "one notification for the file, none for the clipboard")
}

func TestResolve_ClipboardOnlyAndUnknownOptions(t *testing.T) {
	for _, op := range []int{int(ClipboardOnly), 5, 42, -1} {
		h := newHarness(op)
		out := h.resolver.Resolve(Request{Image: testImage()})
		require.True(t, out.CopiedToClipboard, "op=%d", op)
		require.Empty(t, out.Path, "op=%d", op)
		require.Empty(t, h.writer.paths, "op=%d", op)
		require.Empty(t, h.notifier.sent, "op=%d", op)
	}
}

func TestResolve_ExplicitPathWinsOverOption(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"report":     "report.png",
		"report.txt": "report.txt.png",
		"report.png": "report.png",
	}
	for in, want := range cases {
		h := newHarness(int(AutoSaveAndClipboard))
		out := h.resolver.Resolve(Request{ExplicitPath: filepath.Join(dir, in), Image: testImage()})
		require.Equal(t, filepath.Join(dir, want), out.Path)
		require.False(t, out.CopiedToClipboard)
		require.Zero(t, h.clipboard.copies)
		require.Len(t, h.notifier.sent, 1)
	}
}

func TestResolve_FileManagerHint(t *testing.T) {
	h := newHarness(int(SaveToDesktop))
	h.resolver.FileManagerAvailable = func() bool { return true }
	out := h.resolver.Resolve(Request{Image: testImage()})
	hint := h.notifier.sent[0].Hints[ViewHintKey]
	require.True(t, strings.HasPrefix(hint, "dde-file-manager,file:///home/u/Desktop?selectUrl="), hint)
	require.True(t, strings.HasSuffix(hint, out.Path), hint)
}

func TestResolve_WriteFailureIsSurfaced(t *testing.T) {
	h := newHarness(int(AutoSaveToPictures))
	h.writer.err = errors.New("disk full")
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.Error(t, out.Err)
	require.Empty(t, out.Path)
	require.Len(t, h.notifier.sent, 1)
	n := h.notifier.sent[0]
	require.Empty(t, n.Actions)
	require.True(t, strings.HasPrefix(n.Body, "Failed to save the picture"), n.Body)
}

func TestResolve_ClipboardFailureKeepsFileSave(t *testing.T) {
	h := newHarness(int(AutoSaveAndClipboard))
	h.clipboard.err = errors.New("no display")
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.Error(t, out.Err)
	require.False(t, out.CopiedToClipboard)
	require.Equal(t, "/home/u/Pictures/"+wantName, out.Path)
}

func TestResolve_NotificationsDisabled(t *testing.T) {
	h := newHarness(int(AutoSaveToPictures))
	h.resolver.sinks.Notifier = nil
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.NoError(t, out.Err)
	require.NotEmpty(t, out.Path)
	require.Empty(t, h.notifier.sent)
}

func TestResolve_EmptyImage(t *testing.T) {
	h := newHarness(int(AutoSaveToPictures))
	out := h.resolver.Resolve(Request{Image: image.NewRGBA(image.Rectangle{})})
	require.ErrorIs(t, out.Err, ErrEmptyImage)
	require.Empty(t, h.writer.paths)
}

func TestResolve_LocalizedPrefix(t *testing.T) {
	h := newHarness(int(SaveToDesktop))
	h.resolver.Tr = func(key string, args ...any) string {
		if key == "DeepinScreenshot" {
			return "深度截图"
		}
		return key
	}
	out := h.resolver.Resolve(Request{Image: testImage()})
	require.Equal(t, "/home/u/Desktop/深度截图20261019140305.png", out.Path)
}

func TestResolve_MissingClipboardIsLogged(t *testing.T) {
	h := newHarness(int(ClipboardOnly))
	var logs bytes.Buffer
	h.resolver.logger = slog.New(slog.NewTextHandler(&logs, nil))
	h.resolver.sinks.Clipboard = nil
	out := h.resolver.Resolve(Request{Kind: KindRegion, Image: testImage()})
	require.ErrorIs(t, out.Err, ErrNoClipboard)
	require.False(t, out.CopiedToClipboard)
	require.Contains(t, logs.String(), "level=ERROR msg=save.clipboard")
	require.Contains(t, logs.String(), "clipboard unavailable")
}
