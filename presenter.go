package main

import (
	"sync"
	"sync/atomic"

	"locap/caption"
	"locap/config"
	"locap/layout"
	"locap/log"
	"locap/transcriber"
)

// Presenter is the only goroutine that touches caption state, settings,
// the fade table, and geometry. Everything else talks to it through the
// worker event channel or Update; the render target only ever sees
// commands in a single serialized stream.
type Presenter struct {
	target RenderTarget
	events <-chan transcriber.Event

	ops  chan func(*config.Settings)
	quit chan struct{}
	done chan struct{}

	state    *caption.State
	settings config.Settings
	screenW  int
	screenH  int
	curWidth int

	finals atomic.Int64
	once   sync.Once
}

func NewPresenter(target RenderTarget, events <-chan transcriber.Event, settings config.Settings, screenW, screenH int) *Presenter {
	return &Presenter{
		target:   target,
		events:   events,
		ops:      make(chan func(*config.Settings), 8),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		state:    caption.NewState(),
		settings: settings,
		screenW:  screenW,
		screenH:  screenH,
	}
}

// Run drains events until Stop. Call on a dedicated goroutine.
func (p *Presenter) Run() {
	defer close(p.done)
	p.applySettings()
	for {
		select {
		case ev := <-p.events:
			p.handleEvent(ev)
		case op := <-p.ops:
			prev := p.settings
			op(&p.settings)
			if err := p.settings.Validate(); err != nil {
				log.Warnf("rejecting settings change: %v", err)
				p.settings = prev
				continue
			}
			p.applySettings()
		case <-p.quit:
			return
		}
	}
}

func (p *Presenter) Stop() {
	p.once.Do(func() { close(p.quit) })
	<-p.done
}

// Update queues a settings mutation onto the presenter goroutine. The
// mutated value is validated and rejected wholesale if out of range.
func (p *Presenter) Update(op func(*config.Settings)) {
	select {
	case p.ops <- op:
	case <-p.quit:
	}
}

// Finals reports completed utterances, for session-end logging.
func (p *Presenter) Finals() int {
	return int(p.finals.Load())
}

func (p *Presenter) handleEvent(ev transcriber.Event) {
	switch ev.Kind {
	case transcriber.EventPartial:
		p.state.SetPartial(ev.Text)
		p.target.SetPartial(ev.Text)
	case transcriber.EventFinal:
		p.state.PushFinal(ev.Text)
		for i := 0; i < caption.MaxHistory; i++ {
			p.target.SetHistoryLine(i, p.state.Line(i))
		}
		p.target.SetPartial("")
		p.finals.Add(1)
	case transcriber.EventError:
		p.target.ShowError(ev.Err.Error())
	}
}

// applySettings recomputes the fade ramp and geometry and pushes both.
// Identical settings always produce identical commands.
func (p *Presenter) applySettings() {
	geo, wrap := layout.Calc(p.settings.Dock, p.settings.Fullscreen, p.screenW, p.screenH, p.curWidth)
	p.curWidth = geo.Width

	style := caption.Style{
		FontFamily:   p.settings.FontFamily,
		FontSize:     p.settings.FontSize,
		Colors:       caption.Fade(p.settings.TextColor),
		PartialColor: p.settings.TextColor,
		WrapWidth:    wrap,
	}
	p.target.ApplyStyle(style)
	p.target.ApplyGeometry(geo)
}

// Settings returns a copy of the current settings, for persisting on
// exit. Only safe after Stop.
func (p *Presenter) Settings() config.Settings {
	return p.settings
}
