//go:build !gui

package main

// Stubs for non-GUI builds (these are never used since guiMode is false)
func initGUI() {
	panic("locap: built without GUI support (rebuild with -tags gui)")
}

func guiScreenSize() (int, int) { return 1920, 1080 }
