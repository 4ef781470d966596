package clipboard

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	inits  int
	writes [][]byte
	owned  chan struct{}
	fail   bool
}

func fakeSink(initErr error) (*Sink, *fakeClipboard) {
	fc := &fakeClipboard{owned: make(chan struct{})}
	s := NewSink(nil)
	s.init = func() error { fc.inits++; return initErr }
	s.write = func(b []byte) <-chan struct{} {
		if fc.fail {
			return nil
		}
		fc.writes = append(fc.writes, b)
		return fc.owned
	}
	return s, fc
}

func TestCopyImageWritesPNG(t *testing.T) {
	s, fc := fakeSink(nil)
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	require.NoError(t, s.CopyImage(img))
	require.NoError(t, s.CopyImage(img))
	require.Equal(t, 1, fc.inits)
	require.Len(t, fc.writes, 2)

	cfg, err := png.DecodeConfig(bytes.NewReader(fc.writes[0]))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Width)
	require.Equal(t, 2, cfg.Height)
}

func TestCopyImageInitFailure(t *testing.T) {
	s, fc := fakeSink(errors.New("no display"))
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	require.Error(t, s.CopyImage(img))
	require.Error(t, s.CopyImage(img))
	require.Equal(t, 1, fc.inits)
	require.Empty(t, fc.writes)
}

func TestCopyImageWriteRejected(t *testing.T) {
	s, fc := fakeSink(nil)
	fc.fail = true
	require.ErrorIs(t, s.CopyImage(image.NewRGBA(image.Rect(0, 0, 1, 1))), ErrWriteFailed)
	require.True(t, s.Hold(context.Background(), time.Hour), "nothing to hold after a failed write")
}

func TestCopyImageEmpty(t *testing.T) {
	s, fc := fakeSink(nil)
	require.ErrorIs(t, s.CopyImage(nil), ErrEmptyImage)
	require.Zero(t, fc.inits)
}

func TestHoldWithoutCopyReturnsImmediately(t *testing.T) {
	s, _ := fakeSink(nil)
	require.True(t, s.Hold(context.Background(), time.Hour))
}

func TestHoldWaitsForOwnershipChange(t *testing.T) {
	s, fc := fakeSink(nil)
	require.NoError(t, s.CopyImage(image.NewRGBA(image.Rect(0, 0, 2, 2))))

	released := make(chan bool)
	go func() { released <- s.Hold(context.Background(), time.Hour) }()

	select {
	case <-released:
		t.Fatal("Hold returned while the clipboard was still owned")
	case <-time.After(50 * time.Millisecond):
	}
	close(fc.owned)
	select {
	case ok := <-released:
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("Hold did not return after ownership changed")
	}
}

func TestHoldExpires(t *testing.T) {
	s, _ := fakeSink(nil)
	require.NoError(t, s.CopyImage(image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.False(t, s.Hold(context.Background(), 20*time.Millisecond))
}

func TestHoldStopsOnCancel(t *testing.T) {
	s, _ := fakeSink(nil)
	require.NoError(t, s.CopyImage(image.NewRGBA(image.Rect(0, 0, 2, 2))))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, s.Hold(ctx, time.Hour))
}
