package capture

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
)

// Display answers window and pointer queries against the X server.
type Display struct {
	conn *xgb.Conn
	root xproto.Window
	size image.Rectangle
}

// OpenDisplay connects to $DISPLAY.
func OpenDisplay() (*Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("capture: connect X: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &Display{
		conn: conn,
		root: screen.Root,
		size: image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels)),
	}, nil
}

// Close drops the connection.
func (d *Display) Close() { d.conn.Close() }

// Root is the bounds of the root window.
func (d *Display) Root() image.Rectangle { return d.size }

// Pointer returns the cursor position in root coordinates.
func (d *Display) Pointer() (image.Point, error) {
	r, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return image.Point{}, fmt.Errorf("capture: query pointer: %w", err)
	}
	return image.Pt(int(r.RootX), int(r.RootY)), nil
}

// Screens lists the Xinerama heads. Without the extension the root window is
// the only screen.
func (d *Display) Screens() ([]image.Rectangle, error) {
	if err := xinerama.Init(d.conn); err != nil {
		return []image.Rectangle{d.size}, nil
	}
	r, err := xinerama.QueryScreens(d.conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("capture: query screens: %w", err)
	}
	if r.Number == 0 {
		return []image.Rectangle{d.size}, nil
	}
	out := make([]image.Rectangle, 0, len(r.ScreenInfo))
	for _, s := range r.ScreenInfo {
		x, y := int(s.XOrg), int(s.YOrg)
		out = append(out, image.Rect(x, y, x+int(s.Width), y+int(s.Height)))
	}
	return out, nil
}

// ActiveWindow returns the focused window including its decorations.
func (d *Display) ActiveWindow() (image.Rectangle, error) {
	active, err := d.atom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return image.Rectangle{}, err
	}
	prop, err := xproto.GetProperty(d.conn, false, d.root, active, xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("capture: read _NET_ACTIVE_WINDOW: %w", err)
	}
	if prop.ValueLen == 0 || len(prop.Value) < 4 {
		return image.Rectangle{}, ErrNoActiveWindow
	}
	win := xproto.Window(xgb.Get32(prop.Value))
	if win == 0 {
		return image.Rectangle{}, ErrNoActiveWindow
	}

	geom, err := xproto.GetGeometry(d.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("capture: window geometry: %w", err)
	}
	pos, err := xproto.TranslateCoordinates(d.conn, win, d.root, 0, 0).Reply()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("capture: translate coordinates: %w", err)
	}
	x, y := int(pos.DstX), int(pos.DstY)
	r := image.Rect(x, y, x+int(geom.Width), y+int(geom.Height))
	return d.frameExtents(win).Expand(r), nil
}

// frameExtents reads _NET_FRAME_EXTENTS; windows without decorations report
// zero extents.
func (d *Display) frameExtents(win xproto.Window) Extents {
	atom, err := d.atom("_NET_FRAME_EXTENTS")
	if err != nil {
		return Extents{}
	}
	prop, err := xproto.GetProperty(d.conn, false, win, atom, xproto.AtomCardinal, 0, 4).Reply()
	if err != nil || prop.ValueLen < 4 || len(prop.Value) < 16 {
		return Extents{}
	}
	v := prop.Value
	return Extents{
		Left:   int(xgb.Get32(v[0:])),
		Right:  int(xgb.Get32(v[4:])),
		Top:    int(xgb.Get32(v[8:])),
		Bottom: int(xgb.Get32(v[12:])),
	}
}

func (d *Display) atom(name string) (xproto.Atom, error) {
	r, err := xproto.InternAtom(d.conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("capture: intern %s: %w", name, err)
	}
	return r.Atom, nil
}
