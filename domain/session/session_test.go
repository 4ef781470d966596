package session

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soocke/deepin-screenshot-go/domain/capture"
	"github.com/soocke/deepin-screenshot-go/domain/save"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeGrabber struct {
	frame     capture.Frame
	grabErr   error
	window    image.Rectangle
	windowErr error
	grabs     int
}

func (g *fakeGrabber) GrabScreen() (capture.Frame, error) {
	g.grabs++
	return g.frame, g.grabErr
}

func (g *fakeGrabber) ActiveWindowRect() (image.Rectangle, error) {
	return g.window, g.windowErr
}

type fakeResolver struct {
	requests []save.Request
	outcome  save.Outcome
}

func (r *fakeResolver) Resolve(req save.Request) save.Outcome {
	r.requests = append(r.requests, req)
	return r.outcome
}

type fakeStore struct {
	showOSD bool
	sets    []bool
}

func (s *fakeStore) TmpImageFile() string { return "/tmp/deepin-screenshot-test.png" }
func (s *fakeStore) ShowOSD() bool        { return s.showOSD }
func (s *fakeStore) SetShowOSD(v bool) error {
	s.sets = append(s.sets, v)
	s.showOSD = v
	return nil
}

type fakeWriter struct{ paths []string }

func (w *fakeWriter) WriteImage(_ image.Image, path string) error {
	w.paths = append(w.paths, path)
	return nil
}

type fakeWindow struct {
	ctrl   RegionController
	frame  capture.Frame
	osd    bool
	opened int
	err    error
}

func (w *fakeWindow) Open(ctrl RegionController, frame capture.Frame, osd bool) error {
	w.opened++
	w.ctrl, w.frame, w.osd = ctrl, frame, osd
	return w.err
}

var (
	_ Grabber      = (*fakeGrabber)(nil)
	_ Resolver     = (*fakeResolver)(nil)
	_ Store        = (*fakeStore)(nil)
	_ RegionWindow = (*fakeWindow)(nil)
)

type harness struct {
	grabber  *fakeGrabber
	resolver *fakeResolver
	store    *fakeStore
	writer   *fakeWriter
	window   *fakeWindow
	results  []Result
	shutters int
	osdAreas []image.Rectangle
	helps    int
}

func newHarness(t *testing.T, opts Options) (*harness, *Session) {
	t.Helper()
	h := &harness{
		grabber: &fakeGrabber{frame: capture.Frame{
			Image:  image.NewRGBA(image.Rect(0, 0, 200, 100)),
			Screen: image.Rect(1920, 0, 2120, 100),
		}},
		resolver: &fakeResolver{outcome: save.Outcome{Path: "/home/u/Pictures/a.png"}},
		store:    &fakeStore{},
		writer:   &fakeWriter{},
		window:   &fakeWindow{},
	}
	s := New(quiet, opts, Deps{
		Grabber:    h.grabber,
		Resolver:   h.resolver,
		Store:      h.store,
		TempWriter: h.writer,
		Window:     h.window,
	}, Hooks{
		Shutter:  func() { h.shutters++ },
		ShowOSD:  func(r image.Rectangle) { h.osdAreas = append(h.osdAreas, r) },
		Help:     func() error { h.helps++; return nil },
		Finished: func(r Result) { h.results = append(h.results, r) },
	})
	return h, s
}

func TestFullscreenResolvesWholeFrame(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindFullscreen, ExplicitPath: "/tmp/x.png"})
	s.Start(context.Background())

	require.True(t, s.Finished())
	require.Len(t, h.results, 1)
	require.Len(t, h.resolver.requests, 1)
	req := h.resolver.requests[0]
	require.Equal(t, "/tmp/x.png", req.ExplicitPath)
	require.Equal(t, save.KindFullscreen, req.Kind)
	require.Equal(t, image.Rect(0, 0, 200, 100), req.Image.Bounds())
	require.Equal(t, 1, h.shutters)
	require.Equal(t, []string{"/tmp/deepin-screenshot-test.png"}, h.writer.paths)
	require.Zero(t, h.window.opened)
	require.Equal(t, "/home/u/Pictures/a.png", s.Result().Outcome.Path)
}

func TestActiveWindowCropsToWindow(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindActiveWindow})
	h.grabber.window = image.Rect(1930, 10, 1990, 50)
	s.Start(context.Background())

	require.Len(t, h.resolver.requests, 1)
	require.Equal(t, image.Rect(0, 0, 60, 40), h.resolver.requests[0].Image.Bounds())
}

func TestActiveWindowFallsBackToScreen(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindActiveWindow})
	h.grabber.windowErr = capture.ErrNoActiveWindow
	s.Start(context.Background())
	require.Equal(t, image.Rect(0, 0, 200, 100), h.resolver.requests[0].Image.Bounds())
	require.Len(t, h.results, 1)
}

func TestRegionOpensWindowAndWaits(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindRegion})
	s.Start(context.Background())

	require.False(t, s.Finished())
	require.Equal(t, 1, h.window.opened)
	require.Same(t, s, h.window.ctrl)
	require.Empty(t, h.resolver.requests)

	region := image.NewRGBA(image.Rect(0, 0, 10, 10))
	h.window.ctrl.SaveRegion(region)
	require.True(t, s.Finished())
	require.Len(t, h.resolver.requests, 1)
	require.Equal(t, save.KindRegion, h.resolver.requests[0].Kind)

	// The window closes after the save; completion must not fire twice.
	h.window.ctrl.Closing(image.Rect(0, 0, 200, 100))
	h.window.ctrl.Cancel()
	h.window.ctrl.SaveRegion(region)
	require.Len(t, h.results, 1)
	require.Len(t, h.resolver.requests, 1)
}

func TestRegionCancel(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindRegion})
	s.Start(context.Background())
	h.window.ctrl.Cancel()
	require.Len(t, h.results, 1)
	require.True(t, h.results[0].Outcome.Cancelled)
	require.Empty(t, h.resolver.requests)
	require.Zero(t, h.shutters)
}

func TestRegionHelp(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindRegion})
	s.Start(context.Background())
	h.window.ctrl.Help()
	require.Equal(t, 1, h.helps)
	require.Len(t, h.results, 1)
	require.True(t, h.results[0].Help)
}

func TestRegionWindowOpenFailureFinishes(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindRegion})
	h.window.err = errors.New("no display")
	s.Start(context.Background())
	require.Len(t, h.results, 1)
	require.Error(t, h.results[0].Err)
}

func TestGrabFailureFinishes(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindFullscreen})
	h.grabber.grabErr = errors.New("xshm")
	s.Start(context.Background())
	require.Len(t, h.results, 1)
	require.Error(t, h.results[0].Err)
	require.Empty(t, h.resolver.requests)
	require.Empty(t, h.writer.paths)
}

func TestEmptyFrameFinishesWithError(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindFullscreen})
	h.grabber.frame = capture.Frame{}
	s.Start(context.Background())
	require.ErrorIs(t, h.results[0].Err, save.ErrEmptyImage)
}

func TestOSDShownOnceFromDesktop(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindRegion, FromDesktop: true})
	h.store.showOSD = true
	s.Start(context.Background())

	require.True(t, s.OSD())
	require.True(t, h.window.osd)
	require.Equal(t, []bool{false}, h.store.sets)

	area := image.Rect(1920, 0, 2120, 100)
	h.window.ctrl.Closing(area)
	require.Equal(t, []image.Rectangle{area}, h.osdAreas)
	require.Len(t, h.results, 1)
}

func TestOSDNotShownWithoutDesktopLaunch(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindRegion})
	h.store.showOSD = true
	s.Start(context.Background())
	require.False(t, s.OSD())
	require.Empty(t, h.store.sets, "flag stays set until a desktop launch")
	h.window.ctrl.Closing(image.Rect(0, 0, 1, 1))
	require.Empty(t, h.osdAreas)
}

func TestOSDAlreadyShown(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindRegion, FromDesktop: true})
	s.Start(context.Background())
	require.False(t, s.OSD())
	require.Empty(t, h.store.sets)
}

func TestDelayHonoursContext(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindFullscreen, Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)
	require.Zero(t, h.grabber.grabs)
	require.Len(t, h.results, 1)
	require.ErrorIs(t, h.results[0].Err, context.Canceled)
}

func TestDelayElapses(t *testing.T) {
	h, s := newHarness(t, Options{Kind: save.KindFullscreen, Delay: time.Millisecond})
	s.Start(context.Background())
	require.Equal(t, 1, h.grabber.grabs)
	require.Len(t, h.resolver.requests, 1)
}
