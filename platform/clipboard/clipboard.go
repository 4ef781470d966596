// Package clipboard places captures on the system clipboard as PNG.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"golang.design/x/clipboard"
)

// ErrEmptyImage is returned for nil or zero-sized images.
var ErrEmptyImage = errors.New("clipboard: empty image")

// ErrWriteFailed is returned when the platform clipboard rejects the data.
var ErrWriteFailed = errors.New("clipboard: write failed")

// Sink implements save.Clipboard. The platform clipboard is initialised on
// first use.
//
// On X11 the data is served by this process until another client takes
// ownership of the selection, so callers must Hold before exiting.
type Sink struct {
	logger *slog.Logger

	once    sync.Once
	initErr error

	mu    sync.Mutex
	owned <-chan struct{}

	init func() error
	// write publishes png and returns a channel that is closed once the
	// clipboard is owned by someone else, or nil on failure.
	write func(png []byte) <-chan struct{}
}

// NewSink returns a Sink bound to the system clipboard.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		logger: logger,
		init:   clipboard.Init,
		write: func(png []byte) <-chan struct{} {
			return clipboard.Write(clipboard.FmtImage, png)
		},
	}
}

// CopyImage encodes img as PNG and publishes it.
func (s *Sink) CopyImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	s.once.Do(func() { s.initErr = s.init() })
	if s.initErr != nil {
		return fmt.Errorf("clipboard: init: %w", s.initErr)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("clipboard: encode: %w", err)
	}
	owned := s.write(buf.Bytes())
	if owned == nil {
		return ErrWriteFailed
	}
	s.mu.Lock()
	s.owned = owned
	s.mu.Unlock()
	s.logger.Debug("clipboard.write", "size", humanize.Bytes(uint64(buf.Len())))
	return nil
}

// Hold blocks while this process still owns copied data, so the image stays
// pasteable after the UI is gone. It gives up after limit or when ctx is done,
// and reports whether ownership passed to another client.
func (s *Sink) Hold(ctx context.Context, limit time.Duration) bool {
	s.mu.Lock()
	owned := s.owned
	s.mu.Unlock()
	if owned == nil {
		return true
	}

	start := time.Now()
	s.logger.Debug("clipboard.hold", "limit", limit)
	timer := time.NewTimer(limit)
	defer timer.Stop()
	select {
	case <-owned:
		s.logger.Debug("clipboard.released", "held", time.Since(start).Round(time.Millisecond))
		return true
	case <-timer.C:
		s.logger.Info("clipboard.hold_expired", "held", limit)
	case <-ctx.Done():
		s.logger.Info("clipboard.hold_cancelled", "error", ctx.Err())
	}
	return false
}
