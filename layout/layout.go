// Package layout computes overlay window geometry and caption wrap
// width from the dock mode and screen dimensions. Pure functions:
// identical inputs always produce identical output.
package layout

import "locap/config"

const (
	// BandHeight is the docked caption band.
	BandHeight = 250
	// TaskbarOffset keeps the bottom band above a typical host taskbar.
	TaskbarOffset = 40
	// WrapPadding is horizontal slack subtracted from the usable width.
	WrapPadding = 50
	// DefaultFloatingWidth applies before the window has ever rendered.
	DefaultFloatingWidth = 800
)

type Geometry struct {
	X, Y          int
	Width, Height int
	Fullscreen    bool
}

// Calc returns the target geometry and text wrap width. currentWidth is
// the window's present width, relevant only for floating mode; values
// <= 1 mean "not yet rendered" and fall back to the default.
func Calc(dock config.Dock, fullscreen bool, screenW, screenH, currentWidth int) (Geometry, int) {
	if fullscreen {
		return Geometry{Width: screenW, Height: screenH, Fullscreen: true}, screenW - WrapPadding
	}

	switch dock {
	case config.DockTop:
		return Geometry{X: 0, Y: 0, Width: screenW, Height: BandHeight}, screenW - WrapPadding
	case config.DockBottom:
		y := screenH - BandHeight - TaskbarOffset
		return Geometry{X: 0, Y: y, Width: screenW, Height: BandHeight}, screenW - WrapPadding
	}

	w := currentWidth
	if w <= 1 {
		w = DefaultFloatingWidth
	}
	return Geometry{X: -1, Y: -1, Width: w, Height: BandHeight}, w - WrapPadding
}
