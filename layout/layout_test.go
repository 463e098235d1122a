package layout

import (
	"testing"

	"locap/config"
)

func TestDockTopGeometry(t *testing.T) {
	g, wrap := Calc(config.DockTop, false, 1920, 1080, 0)
	want := Geometry{X: 0, Y: 0, Width: 1920, Height: 250}
	if g != want {
		t.Fatalf("got %+v, want %+v", g, want)
	}
	if wrap != 1870 {
		t.Fatalf("wrap = %d, want 1870", wrap)
	}
}

func TestDockBottomGeometry(t *testing.T) {
	g, _ := Calc(config.DockBottom, false, 1920, 1080, 0)
	want := Geometry{X: 0, Y: 790, Width: 1920, Height: 250}
	if g != want {
		t.Fatalf("got %+v, want %+v", g, want)
	}
}

func TestFloatingKeepsRenderedWidth(t *testing.T) {
	g, wrap := Calc(config.DockFloating, false, 1920, 1080, 1024)
	if g.Width != 1024 {
		t.Fatalf("width = %d, want current 1024", g.Width)
	}
	if wrap != 974 {
		t.Fatalf("wrap = %d, want 974", wrap)
	}
}

func TestFloatingDefaultBeforeRender(t *testing.T) {
	for _, cur := range []int{0, 1, -5} {
		g, wrap := Calc(config.DockFloating, false, 1920, 1080, cur)
		if g.Width != DefaultFloatingWidth {
			t.Fatalf("current %d: width = %d, want default %d", cur, g.Width, DefaultFloatingWidth)
		}
		if wrap != DefaultFloatingWidth-WrapPadding {
			t.Fatalf("current %d: wrap = %d", cur, wrap)
		}
	}
}

func TestFullscreenOverridesDock(t *testing.T) {
	g, _ := Calc(config.DockTop, true, 1920, 1080, 0)
	if !g.Fullscreen {
		t.Fatal("expected fullscreen geometry")
	}
}

func TestCalcDeterministic(t *testing.T) {
	a, aw := Calc(config.DockBottom, false, 2560, 1440, 0)
	b, bw := Calc(config.DockBottom, false, 2560, 1440, 0)
	if a != b || aw != bw {
		t.Fatal("identical inputs produced different geometry")
	}
}
