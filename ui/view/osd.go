package view

import (
	"fmt"
	"image"
	"time"

	"github.com/soocke/deepin-screenshot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// OSDDuration is how long the first-run hint stays up.
const OSDDuration = 3 * time.Second

// ShowOSD pops a borderless hint centred on area and removes it after d.
// done runs once the hint is gone.
func ShowOSD(area image.Rectangle, text string, d time.Duration, done func()) {
	defer func() { _ = recover() }()
	theme.InitStyles()
	win := App.Toplevel(Background(theme.ColorSurface))
	WmAttributes(win.Window, "-topmost", 1)
	label := win.TLabel(Style(theme.StyleOSDLabel), Txt(text))
	Pack(label)

	const w, h = 360, 48
	c := image.Pt((area.Min.X+area.Max.X)/2, (area.Min.Y+area.Max.Y)/2)
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", w, h, c.X-w/2, c.Y-h/2))
	TclAfter(d, func() {
		func() { defer func() { _ = recover() }(); Destroy(win) }()
		if done != nil {
			done()
		}
	})
}
