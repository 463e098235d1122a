package main

import (
	"errors"
	"sync"
	"testing"
	"time"

	"locap/caption"
	"locap/config"
	"locap/layout"
	"locap/transcriber"
)

// fakeTarget records every command in arrival order.
type fakeTarget struct {
	mu       sync.Mutex
	history  [caption.MaxHistory]string
	partial  string
	errText  string
	styles   []caption.Style
	geos     []layout.Geometry
	commands int
}

func (f *fakeTarget) SetHistoryLine(i int, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[i] = text
	f.commands++
}

func (f *fakeTarget) SetPartial(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partial = text
	f.commands++
}

func (f *fakeTarget) ShowError(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errText = text
	f.commands++
}

func (f *fakeTarget) ApplyStyle(s caption.Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.styles = append(f.styles, s)
	f.commands++
}

func (f *fakeTarget) ApplyGeometry(g layout.Geometry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geos = append(f.geos, g)
	f.commands++
}

type targetSnapshot struct {
	history [caption.MaxHistory]string
	partial string
	errText string
	styles  []caption.Style
	geos    []layout.Geometry
}

func (f *fakeTarget) snapshot() targetSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return targetSnapshot{
		history: f.history,
		partial: f.partial,
		errText: f.errText,
		styles:  append([]caption.Style(nil), f.styles...),
		geos:    append([]layout.Geometry(nil), f.geos...),
	}
}

func (f *fakeTarget) waitCommands(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		c := f.commands
		f.mu.Unlock()
		if c >= n {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("target never reached %d commands", n)
}

func startPresenter(t *testing.T) (*Presenter, *fakeTarget, chan transcriber.Event) {
	t.Helper()
	events := make(chan transcriber.Event, 16)
	target := &fakeTarget{}
	p := NewPresenter(target, events, config.Default(), 1920, 1080)
	go p.Run()
	t.Cleanup(p.Stop)
	// initial style + geometry
	target.waitCommands(t, 2)
	return p, target, events
}

func TestPresenterPartialThenFinal(t *testing.T) {
	_, target, events := startPresenter(t)

	events <- transcriber.Event{Kind: transcriber.EventPartial, Text: "hel"}
	events <- transcriber.Event{Kind: transcriber.EventPartial, Text: "hello"}
	target.waitCommands(t, 4)
	if got := target.snapshot().partial; got != "hello" {
		t.Fatalf("partial = %q, want %q", got, "hello")
	}

	events <- transcriber.Event{Kind: transcriber.EventFinal, Text: "hello world"}
	target.waitCommands(t, 4+caption.MaxHistory+1)

	snap := target.snapshot()
	if snap.partial != "" {
		t.Errorf("partial not cleared on final, got %q", snap.partial)
	}
	if snap.history[0] != "hello world" {
		t.Errorf("history[0] = %q", snap.history[0])
	}
	if snap.history[1] != "" {
		t.Errorf("history[1] = %q, want empty", snap.history[1])
	}
}

func TestPresenterHistoryOrdering(t *testing.T) {
	p, target, events := startPresenter(t)

	events <- transcriber.Event{Kind: transcriber.EventFinal, Text: "first"}
	events <- transcriber.Event{Kind: transcriber.EventFinal, Text: "second"}
	target.waitCommands(t, 2+2*(caption.MaxHistory+1))

	snap := target.snapshot()
	if snap.history[0] != "second" || snap.history[1] != "first" {
		t.Fatalf("history = %q / %q, want newest first", snap.history[0], snap.history[1])
	}
	if p.Finals() != 2 {
		t.Fatalf("finals = %d, want 2", p.Finals())
	}
}

func TestPresenterErrorEvent(t *testing.T) {
	_, target, events := startPresenter(t)

	events <- transcriber.Event{Kind: transcriber.EventError, Err: errors.New("decoder crashed")}
	target.waitCommands(t, 3)
	if got := target.snapshot().errText; got != "decoder crashed" {
		t.Fatalf("error text = %q", got)
	}
}

func TestPresenterSettingsChangeRecomputesStyle(t *testing.T) {
	p, target, _ := startPresenter(t)

	p.Update(func(s *config.Settings) {
		s.TextColor = "#00ff00"
		s.Dock = config.DockTop
	})
	target.waitCommands(t, 4)

	snap := target.snapshot()
	style := snap.styles[len(snap.styles)-1]
	if style.Colors[0] != "#00ff00" {
		t.Errorf("ramp base = %q", style.Colors[0])
	}
	geo := snap.geos[len(snap.geos)-1]
	if geo.Y != 0 || geo.Height != layout.BandHeight {
		t.Errorf("geometry = %+v, want top band", geo)
	}
}

func TestPresenterIdenticalSettingsIdenticalCommands(t *testing.T) {
	p, target, _ := startPresenter(t)

	change := func(s *config.Settings) {
		s.FontSize = 30
		s.Dock = config.DockBottom
	}
	p.Update(change)
	target.waitCommands(t, 4)
	p.Update(change)
	target.waitCommands(t, 6)

	snap := target.snapshot()
	n := len(snap.styles)
	if snap.styles[n-1] != snap.styles[n-2] {
		t.Errorf("styles differ: %+v vs %+v", snap.styles[n-1], snap.styles[n-2])
	}
	m := len(snap.geos)
	if snap.geos[m-1] != snap.geos[m-2] {
		t.Errorf("geometry differs: %+v vs %+v", snap.geos[m-1], snap.geos[m-2])
	}
}

func TestPresenterRejectsInvalidSettings(t *testing.T) {
	p, target, _ := startPresenter(t)

	p.Update(func(s *config.Settings) { s.FontSize = 999 })
	p.Update(func(s *config.Settings) { s.FontSize = 30 })
	target.waitCommands(t, 4)

	snap := target.snapshot()
	style := snap.styles[len(snap.styles)-1]
	if style.FontSize != 30 {
		t.Fatalf("font size = %d, want the valid change only", style.FontSize)
	}
}
