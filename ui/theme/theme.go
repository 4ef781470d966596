package theme

// Styling for the screenshot windows: the region frame, its control bar and
// the first-run OSD.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette colors.
const (
	ColorFrame     = "#2ca7f8" // selection border
	ColorFill      = "#0b1220" // translucent selection fill
	ColorSurface   = "#1e293b" // control bar
	ColorPrimary   = "#2563eb"
	ColorDanger    = "#dc2626"
	ColorText      = "#f1f5f9"
	ColorTextMuted = "#94a3b8"
)

// FillAlpha is the opacity of the region window.
const FillAlpha = 0.45

// Style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleCaptionLabel  = "caption.TLabel"
	StyleOSDLabel      = "osd.TLabel"
)

var applied bool

// InitStyles configures the ttk styles once per process.
func InitStyles() {
	if applied {
		return
	}
	applied = true
	StyleConfigure(StylePrimaryButton,
		Background(ColorPrimary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(ColorDanger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleCaptionLabel,
		Foreground(ColorTextMuted),
		Background(ColorSurface),
		Padding("2p 1p"),
	)
	StyleConfigure(StyleOSDLabel,
		Foreground(ColorText),
		Background(ColorSurface),
		Padding("12p 8p"),
		Borderwidth(1),
		Relief("groove"),
	)
}
