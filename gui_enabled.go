//go:build gui

package main

import (
	"runtime"

	"locap/gui"
)

var guiApp *gui.App

func initGUI() {
	guiMode = true

	// Fyne/GLFW needs the main OS thread.
	runtime.LockOSThread()

	guiApp = gui.NewApp(func() {
		run()
	})
	sink = guiApp
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
}

func guiScreenSize() (int, int) {
	return guiApp.ScreenSize()
}
