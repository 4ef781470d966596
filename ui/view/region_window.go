package view

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/deepin-screenshot-go/ui/images"
	"github.com/soocke/deepin-screenshot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// RegionWindow is a resizable, topmost and translucent frame the user drags
// over the area to capture. The screen underneath was grabbed before the
// window appeared, so the window itself never ends up in the picture.
type RegionWindow struct {
	logger *slog.Logger
	tr     func(string, ...any) string

	win     *ToplevelWidget
	preview *LabelWidget
	caption *TLabelWidget
	photo   *Img
}

// NewRegionWindow creates the view; nothing is shown until Build.
func NewRegionWindow(logger *slog.Logger, tr func(string, ...any) string) *RegionWindow {
	if logger == nil {
		logger = slog.Default()
	}
	if tr == nil {
		tr = fmt.Sprintf
	}
	return &RegionWindow{logger: logger, tr: tr}
}

// Build shows the window centred on screen.
func (v *RegionWindow) Build(screen image.Rectangle, osd bool, onConfirm, onCancel, onHelp, onMoved, onClosed func()) {
	if v.win != nil {
		return
	}
	theme.InitStyles()
	win := App.Toplevel(Borderwidth(2), Background(theme.ColorFrame))
	win.WmTitle(v.tr("Save screenshot"))
	v.win = win

	initW, initH := screen.Dx()*2/3, screen.Dy()*5/9
	if initW < 1 {
		initW = 1
	}
	if initH < 1 {
		initH = 1
	}
	x := screen.Min.X + (screen.Dx()-initW)/2
	y := screen.Min.Y + (screen.Dy()-initH)/2
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", initW, initH, x, y))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", theme.FillAlpha)

	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(0))
	GridColumnConfigure(win.Window, 1, Weight(1))
	GridColumnConfigure(win.Window, 2, Weight(0))
	left := win.Frame(Width(4), Background(theme.ColorFrame))
	Grid(left, Row(0), Column(0), Sticky("ns"))
	center := win.Frame(Background(theme.ColorFill))
	Grid(center, Row(0), Column(1), Sticky("nsew"))
	right := win.Frame(Width(4), Background(theme.ColorFrame))
	Grid(right, Row(0), Column(2), Sticky("ns"))

	if osd {
		hint := win.TLabel(Style(theme.StyleOSDLabel), Txt(v.tr("Drag or resize this frame over the area to capture")))
		Grid(hint, In(center), Row(0), Column(0), Padx("2m"), Pady("2m"))
	}

	controls := win.Frame(Background(theme.ColorSurface))
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	v.preview = win.Label(Borderwidth(1), Relief("sunken"))
	Grid(v.preview, In(controls), Row(0), Column(0), Rowspan(2), Padx("0.4m"), Pady("0.4m"))
	v.caption = win.TLabel(Style(theme.StyleCaptionLabel), Txt(""))
	Grid(v.caption, In(controls), Row(0), Column(1), Columnspan(3), Sticky("w"))
	save := win.TButton(Style(theme.StylePrimaryButton), Txt(v.tr("Save")+" [Enter]"), Command(onConfirm))
	Grid(save, In(controls), Row(1), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.TButton(Style(theme.StyleDangerButton), Txt(v.tr("Cancel")+" [Esc]"), Command(onCancel))
	Grid(cancel, In(controls), Row(1), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	help := win.TButton(Txt(v.tr("Help")+" [F1]"), Command(onHelp))
	Grid(help, In(controls), Row(1), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	Bind(win, "<Return>", Command(onConfirm))
	Bind(win, "<Escape>", Command(onCancel))
	Bind(win, "<F1>", Command(onHelp))
	Bind(win, "<Configure>", Command(onMoved))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", func() {
		v.Close()
		onClosed()
	})
	v.logger.Debug("region.window", "geometry", WmGeometry(win.Window), "osd", osd)
}

// Geometry returns the window geometry as "WxH+X+Y".
func (v *RegionWindow) Geometry() string {
	if v.win == nil {
		return ""
	}
	return WmGeometry(v.win.Window)
}

// SetPreview replaces the thumbnail and its caption.
func (v *RegionWindow) SetPreview(img image.Image, caption string) {
	if v.win == nil || v.preview == nil {
		return
	}
	defer func() { _ = recover() }()
	// Replace the previous photo so stale pixel buffers are released.
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(images.EncodePNG(img)))
	v.preview.Configure(Image(v.photo))
	v.caption.Configure(Txt(caption))
}

// Close destroys the window. Safe to call more than once.
func (v *RegionWindow) Close() {
	if v.win == nil {
		return
	}
	defer func() { _ = recover() }()
	Destroy(v.win)
	if v.photo != nil {
		v.photo.Delete()
	}
	v.win, v.preview, v.caption, v.photo = nil, nil, nil, nil
}
