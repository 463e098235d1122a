//go:build gui

package gui

import (
	"image/color"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/go-gl/glfw/v3.3/glfw"

	"locap/caption"
	"locap/layout"
)

// App is the desktop caption overlay: a frameless always-on-top window
// with one text slot per history line plus the live partial. It receives
// render commands from the presenter goroutine and marshals them onto
// the Fyne thread.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	onReady func()

	mu      sync.Mutex
	history [caption.MaxHistory]*canvas.Text
	partial *canvas.Text
	style   caption.Style
	geo     layout.Geometry
	errMode bool
}

func NewApp(onReady func()) *App {
	return &App{onReady: onReady}
}

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.locap.overlay")
	a.fyneApp.Settings().SetTheme(&overlayTheme{})

	// Frameless splash window so the overlay has no decorations
	if drv, ok := a.fyneApp.Driver().(desktop.Driver); ok {
		a.window = drv.CreateSplashWindow()
	} else {
		a.window = a.fyneApp.NewWindow("locap")
	}

	// Oldest caption at the top, partial at the bottom
	rows := make([]fyne.CanvasObject, 0, caption.MaxHistory+1)
	for i := caption.MaxHistory - 1; i >= 0; i-- {
		t := canvas.NewText("", color.White)
		a.history[i] = t
		rows = append(rows, t)
	}
	a.partial = canvas.NewText("", color.White)
	a.partial.TextStyle.Bold = true
	rows = append(rows, a.partial)

	a.window.SetContent(container.NewVBox(rows...))
	a.window.SetPadded(false)
	a.window.Resize(fyne.NewSize(layout.DefaultFloatingWidth, layout.BandHeight))

	go a.onReady()

	a.window.Show()
	a.fyneApp.Run()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		a.fyneApp.Quit()
	}
}

// ScreenSize reports the primary monitor work area.
func (a *App) ScreenSize() (int, int) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return 1920, 1080
	}
	_, _, w, h := monitor.GetWorkarea()
	return w, h
}

func (a *App) SetHistoryLine(index int, text string) {
	if index < 0 || index >= caption.MaxHistory {
		return
	}
	fyne.Do(func() {
		a.mu.Lock()
		t := a.history[index]
		a.mu.Unlock()
		if t.Text == text {
			return
		}
		t.Text = text
		t.Refresh()
	})
}

func (a *App) SetPartial(text string) {
	fyne.Do(func() {
		a.mu.Lock()
		style := a.style
		wasErr := a.errMode
		a.errMode = false
		a.mu.Unlock()
		if a.partial.Text == text && !wasErr {
			return
		}
		a.partial.Text = text
		a.partial.Color = parseColor(style.PartialColor)
		a.partial.Refresh()
	})
}

func (a *App) ShowError(text string) {
	fyne.Do(func() {
		a.mu.Lock()
		a.errMode = true
		a.mu.Unlock()
		a.partial.Text = "⚠ " + text
		a.partial.Color = color.RGBA{R: 255, G: 64, B: 64, A: 255}
		a.partial.Refresh()
	})
}

func (a *App) ApplyStyle(style caption.Style) {
	fyne.Do(func() {
		a.mu.Lock()
		if a.style == style {
			a.mu.Unlock()
			return
		}
		a.style = style
		errMode := a.errMode
		a.mu.Unlock()

		for i, t := range a.history {
			t.TextSize = float32(style.FontSize)
			t.Color = parseColor(style.Colors[i])
			t.Refresh()
		}
		a.partial.TextSize = float32(style.FontSize)
		if !errMode {
			a.partial.Color = parseColor(style.PartialColor)
		}
		a.partial.Refresh()
	})
}

func (a *App) ApplyGeometry(geo layout.Geometry) {
	fyne.Do(func() {
		a.mu.Lock()
		if a.geo == geo {
			a.mu.Unlock()
			return
		}
		a.geo = geo
		a.mu.Unlock()

		a.window.SetFullScreen(geo.Fullscreen)
		if geo.Fullscreen {
			return
		}
		a.window.Resize(fyne.NewSize(float32(geo.Width), float32(geo.Height)))
		// X,Y of -1 means keep the current position (floating mode)
		if geo.X >= 0 && geo.Y >= 0 {
			if glfwWin := glfw.GetCurrentContext(); glfwWin != nil {
				glfwWin.SetPos(geo.X, geo.Y)
				glfwWin.SetAttrib(glfw.Floating, glfw.True)
			}
		}
	})
}

func parseColor(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.White
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.White
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
