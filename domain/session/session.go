// Package session runs one screenshot from grab to completion.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/deepin-screenshot-go/domain/capture"
	"github.com/soocke/deepin-screenshot-go/domain/save"
)

// ErrNoRegionWindow is returned for region captures without a window.
var ErrNoRegionWindow = errors.New("session: no region window")

// Options are the per-invocation settings from the command line.
type Options struct {
	ExplicitPath string
	Kind         save.CaptureKind
	// FromDesktop is set when launched from the desktop icon; it gates the
	// first-run OSD.
	FromDesktop bool
	Delay       time.Duration
}

// Grabber captures the screen and locates the active window.
type Grabber interface {
	GrabScreen() (capture.Frame, error)
	ActiveWindowRect() (image.Rectangle, error)
}

// Resolver saves a capture.
type Resolver interface {
	Resolve(req save.Request) save.Outcome
}

// Store is the part of the settings store the session touches.
type Store interface {
	TmpImageFile() string
	ShowOSD() bool
	SetShowOSD(show bool) error
}

// RegionController receives the region window's events. The window keeps
// the controller only for as long as it is open and never owns it.
type RegionController interface {
	SaveRegion(img image.Image)
	Cancel()
	Closing(area image.Rectangle)
	Help()
}

// RegionWindow lets the user pick an area of frame.
type RegionWindow interface {
	Open(ctrl RegionController, frame capture.Frame, osd bool) error
}

// Deps are the collaborators of a session.
type Deps struct {
	Grabber  Grabber
	Resolver Resolver
	Store    Store
	// TempWriter stores the raw frame at Store.TmpImageFile(). Optional.
	TempWriter save.ImageWriter
	Window     RegionWindow
}

// Hooks are optional callbacks. All run on the caller's goroutine.
type Hooks struct {
	// Shutter fires when a save starts.
	Shutter func()
	// ShowOSD receives the window area when the first-run hint is due.
	ShowOSD func(area image.Rectangle)
	// Help opens the manual.
	Help func() error
	// Finished fires exactly once per session.
	Finished func(Result)
}

// Result describes how a session ended.
type Result struct {
	Outcome save.Outcome
	// Err is set when the session ended before resolution.
	Err  error
	Help bool
}

// Session owns one capture.
type Session struct {
	logger *slog.Logger
	opts   Options
	deps   Deps
	hooks  Hooks

	frame capture.Frame
	osd   bool

	once   sync.Once
	done   chan struct{}
	result Result
}

// New creates a session. Nothing happens until Start.
func New(logger *slog.Logger, opts Options, deps Deps, hooks Hooks) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger: logger.With("kind", opts.Kind.String()),
		opts:   opts,
		deps:   deps,
		hooks:  hooks,
		done:   make(chan struct{}),
	}
}

// Start waits for the configured delay, grabs the screen and dispatches by
// capture kind. Fullscreen and active-window captures finish before Start
// returns; region captures finish from the window's callbacks.
func (s *Session) Start(ctx context.Context) {
	if s.opts.Delay > 0 {
		s.logger.Debug("session.delay", "delay", s.opts.Delay.String())
		t := time.NewTimer(s.opts.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			s.finish(Result{Outcome: save.Outcome{Cancelled: true}, Err: ctx.Err()})
			return
		case <-t.C:
		}
	}

	frame, err := s.deps.Grabber.GrabScreen()
	if err == nil && frame.Empty() {
		err = save.ErrEmptyImage
	}
	if err != nil {
		s.logger.Error("session.grab", "error", err)
		s.finish(Result{Err: fmt.Errorf("grab screen: %w", err)})
		return
	}
	s.frame = frame
	s.storeTemp()
	s.osd = s.osdEnabled()

	switch s.opts.Kind {
	case save.KindFullscreen:
		s.resolve(frame.Image)
	case save.KindActiveWindow:
		s.resolve(s.activeWindowImage())
	default:
		if s.deps.Window == nil {
			s.finish(Result{Err: ErrNoRegionWindow})
			return
		}
		if err := s.deps.Window.Open(s, frame, s.osd); err != nil {
			s.logger.Error("session.window", "error", err)
			s.finish(Result{Err: fmt.Errorf("open region window: %w", err)})
		}
	}
}

func (s *Session) storeTemp() {
	if s.deps.TempWriter == nil || s.deps.Store == nil {
		return
	}
	p := s.deps.Store.TmpImageFile()
	if p == "" {
		return
	}
	if err := s.deps.TempWriter.WriteImage(s.frame.Image, p); err != nil {
		s.logger.Warn("session.temp", "path", p, "error", err)
	}
}

// osdEnabled shows the hint once, on the first launch from the desktop icon.
func (s *Session) osdEnabled() bool {
	if s.deps.Store == nil || !s.deps.Store.ShowOSD() {
		return false
	}
	if !s.opts.FromDesktop {
		return false
	}
	if err := s.deps.Store.SetShowOSD(false); err != nil {
		s.logger.Warn("session.osd", "error", err)
	}
	return true
}

// activeWindowImage crops the frame to the focused window. Without one the
// whole screen is used.
func (s *Session) activeWindowImage() image.Image {
	r, err := s.deps.Grabber.ActiveWindowRect()
	if err != nil {
		s.logger.Warn("session.active_window", "error", err)
		return s.frame.Image
	}
	img, err := s.frame.Crop(r)
	if err != nil {
		s.logger.Warn("session.active_window", "rect", r.String(), "error", err)
		return s.frame.Image
	}
	return img
}

func (s *Session) resolve(img image.Image) {
	if s.Finished() {
		return
	}
	if s.hooks.Shutter != nil {
		s.hooks.Shutter()
	}
	out := s.deps.Resolver.Resolve(save.Request{
		ExplicitPath: s.opts.ExplicitPath,
		Kind:         s.opts.Kind,
		Image:        img,
	})
	s.finish(Result{Outcome: out})
}

// SaveRegion resolves the area the user picked.
func (s *Session) SaveRegion(img image.Image) { s.resolve(img) }

// Cancel ends the session without saving.
func (s *Session) Cancel() {
	s.finish(Result{Outcome: save.Outcome{Cancelled: true}})
}

// Closing is called when the region window goes away; it emits the OSD area
// when the hint is due and ends the session.
func (s *Session) Closing(area image.Rectangle) {
	if s.osd && s.hooks.ShowOSD != nil {
		s.hooks.ShowOSD(area)
	}
	s.finish(Result{Outcome: save.Outcome{Cancelled: true}})
}

// Help opens the manual and ends the session.
func (s *Session) Help() {
	if s.hooks.Help != nil {
		if err := s.hooks.Help(); err != nil {
			s.logger.Warn("session.help", "error", err)
		}
	}
	s.finish(Result{Help: true})
}

func (s *Session) finish(r Result) {
	s.once.Do(func() {
		s.result = r
		close(s.done)
		s.logger.Info("session.finished",
			"path", r.Outcome.Path,
			"clipboard", r.Outcome.CopiedToClipboard,
			"cancelled", r.Outcome.Cancelled,
			"help", r.Help,
			"error", errors.Join(r.Err, r.Outcome.Err),
		)
		if s.hooks.Finished != nil {
			s.hooks.Finished(r)
		}
	})
}

// Done is closed when the session has finished.
func (s *Session) Done() <-chan struct{} { return s.done }

// Finished reports whether the completion signal has fired.
func (s *Session) Finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Result returns the final result; valid after Done is closed.
func (s *Session) Result() Result {
	<-s.done
	return s.result
}

// OSD reports whether the first-run hint is shown in this session.
func (s *Session) OSD() bool { return s.osd }
