package presenter

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/soocke/deepin-screenshot-go/domain/capture"
	"github.com/soocke/deepin-screenshot-go/domain/session"
	"github.com/soocke/deepin-screenshot-go/ui/images"
)

// msgSelectedArea takes the size as strings so the localized printer does not
// group the digits.
const msgSelectedArea = "Selected area %sx%s"

// Thumbnail bounds of the selection preview.
const (
	previewW = 160
	previewH = 90
)

// ErrWindowOpen is returned when a region window is already showing.
var ErrWindowOpen = errors.New("presenter: region window already open")

// RegionView is the Tk window the user positions over the area to capture.
type RegionView interface {
	Build(screen image.Rectangle, osd bool, onConfirm, onCancel, onHelp, onMoved, onClosed func())
	// Geometry returns the current window geometry as "WxH+X+Y".
	Geometry() string
	SetPreview(img image.Image, caption string)
	Close()
}

// RegionPresenter turns region window events into session calls. It
// implements session.RegionWindow.
type RegionPresenter struct {
	view   RegionView
	logger *slog.Logger
	tr     func(key string, args ...any) string

	ctrl  session.RegionController
	frame capture.Frame
	last  image.Rectangle
}

var _ session.RegionWindow = (*RegionPresenter)(nil)

// NewRegionPresenter wires a presenter to its view. tr may be nil.
func NewRegionPresenter(view RegionView, logger *slog.Logger, tr func(string, ...any) string) *RegionPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	if tr == nil {
		tr = fmt.Sprintf
	}
	return &RegionPresenter{view: view, logger: logger, tr: tr}
}

// Open shows the window over frame.Screen.
func (p *RegionPresenter) Open(ctrl session.RegionController, frame capture.Frame, osd bool) error {
	if p.ctrl != nil {
		return ErrWindowOpen
	}
	p.ctrl, p.frame = ctrl, frame
	p.last = frame.Screen
	p.view.Build(frame.Screen, osd, p.confirm, p.cancel, p.help, p.moved, p.closed)
	p.moved()
	return nil
}

// selection reads the window geometry, remembering the last valid one.
func (p *RegionPresenter) selection() (image.Rectangle, bool) {
	r, ok := ParseGeometry(p.view.Geometry())
	if ok {
		p.last = r
	}
	return r, ok
}

func (p *RegionPresenter) moved() {
	if p.ctrl == nil || p.frame.Empty() {
		return
	}
	r, ok := p.selection()
	if !ok {
		return
	}
	thumb, clamped, err := images.Preview(p.frame.Image, r.Sub(p.frame.Screen.Min), previewW, previewH)
	if err != nil {
		p.logger.Debug("region.preview", "error", err)
		return
	}
	p.view.SetPreview(thumb, p.tr(msgSelectedArea, strconv.Itoa(clamped.Dx()), strconv.Itoa(clamped.Dy())))
}

func (p *RegionPresenter) confirm() {
	if p.ctrl == nil {
		return
	}
	r, ok := p.selection()
	if !ok {
		p.logger.Warn("region.confirm", "geometry", p.view.Geometry())
		return
	}
	img, err := p.frame.Crop(r)
	if err != nil {
		p.logger.Warn("region.confirm", "rect", r.String(), "error", err)
		return
	}
	ctrl := p.detach()
	ctrl.SaveRegion(img)
	ctrl.Closing(r)
}

func (p *RegionPresenter) cancel() {
	if p.ctrl == nil {
		return
	}
	p.selection()
	ctrl := p.detach()
	ctrl.Cancel()
	ctrl.Closing(p.last)
}

func (p *RegionPresenter) help() {
	if p.ctrl == nil {
		return
	}
	p.selection()
	ctrl := p.detach()
	ctrl.Help()
	ctrl.Closing(p.last)
}

// closed handles the window manager closing the window.
func (p *RegionPresenter) closed() {
	if p.ctrl == nil {
		return
	}
	ctrl := p.ctrl
	p.ctrl = nil
	ctrl.Closing(p.last)
}

// detach closes the view and drops the controller reference.
func (p *RegionPresenter) detach() session.RegionController {
	ctrl := p.ctrl
	p.ctrl = nil
	p.view.Close()
	return ctrl
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)([+-]-?\d+)([+-]-?\d+)$`)

// ParseGeometry parses a Tk geometry string into a rectangle.
func ParseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, okX := offset(m[3])
	y, okY := offset(m[4])
	if w <= 0 || h <= 0 || !okX || !okY {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}

// offset parses "+N", "-N" and "+-N".
func offset(s string) (int, bool) {
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.Atoi(s)
	return n, err == nil
}
