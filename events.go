package main

import (
	"locap/caption"
	"locap/layout"
)

// RenderTarget abstracts the display layer so the Bubble Tea TUI, the
// Fyne GUI, and the headless test sink all receive the same commands.
// Commands are declarative and idempotent: re-sending the current value
// must not change what is on screen.
type RenderTarget interface {
	SetHistoryLine(index int, text string)
	SetPartial(text string)
	ShowError(text string)
	ApplyStyle(style caption.Style)
	ApplyGeometry(geo layout.Geometry)
}
