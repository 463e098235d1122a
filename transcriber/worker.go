// Package transcriber runs the capture+decode loop: microphone frames in,
// ordered caption events out.
package transcriber

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"locap/audio"
	"locap/log"
	"locap/recognizer"
)

const (
	// frameQueueCap bounds buffered undecoded frames (500ms each). When
	// decoding falls behind real time the oldest frame is dropped.
	frameQueueCap = 64
	// eventQueueCap bounds pending caption events; sends block beyond it.
	eventQueueCap = 256

	// frameWait is how long the loop blocks for a frame before
	// re-checking the stop flag.
	frameWait = 1 * time.Second
	// stopJoin is how long Stop waits for the loop goroutine. An
	// in-flight decode is never killed; on timeout it is abandoned.
	stopJoin = 2 * time.Second
)

type State int32

const (
	StateStopped State = iota
	StateStarting
	StateListening
	StateStopping
	StateModelError
	StateStreamError
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateStopping:
		return "stopping"
	case StateModelError:
		return "model_error"
	case StateStreamError:
		return "stream_error"
	}
	return "unknown"
}

type EventKind int

const (
	EventPartial EventKind = iota
	EventFinal
	EventError
)

// Event is one caption update crossing from the worker goroutine to the
// presentation side. Errors travel the same ordered channel as text so
// the display reflects them in sequence.
type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// Worker owns one capture session at a time. Start and Stop may be
// called repeatedly; events from all sessions share one channel.
type Worker struct {
	audioCtx  audio.Context
	device    *audio.DeviceInfo
	factory   recognizer.Factory
	modelPath string

	events  chan Event
	running atomic.Bool
	dropped atomic.Uint64

	mu      sync.Mutex
	state   State
	frames  chan []byte
	done    chan struct{}
	capture audio.CaptureDevice
}

func NewWorker(audioCtx audio.Context, device *audio.DeviceInfo, factory recognizer.Factory, modelPath string) *Worker {
	return &Worker{
		audioCtx:  audioCtx,
		device:    device,
		factory:   factory,
		modelPath: modelPath,
		events:    make(chan Event, eventQueueCap),
		state:     StateStopped,
	}
}

// Events is the ordered caption stream. Never closed; drains across
// start/stop cycles.
func (w *Worker) Events() <-chan Event {
	return w.events
}

func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	log.WorkerState(s.String())
}

// Start builds the engine, opens capture, and launches the decode loop.
// A no-op while a session is already starting or listening.
func (w *Worker) Start() error {
	w.mu.Lock()
	if w.state == StateStarting || w.state == StateListening {
		w.mu.Unlock()
		return nil
	}
	w.state = StateStarting
	w.frames = make(chan []byte, frameQueueCap)
	w.done = make(chan struct{})
	frames := w.frames
	done := w.done
	w.mu.Unlock()
	log.WorkerState(StateStarting.String())

	engine, err := w.factory(w.modelPath)
	if err != nil {
		w.setState(StateModelError)
		w.events <- Event{Kind: EventError, Err: err}
		close(done)
		return fmt.Errorf("build engine: %w", err)
	}

	capture, err := w.audioCtx.NewCapture(w.device, audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	})
	if err != nil {
		engine.Close()
		w.setState(StateStreamError)
		w.events <- Event{Kind: EventError, Err: err}
		close(done)
		return fmt.Errorf("open capture: %w", err)
	}

	framer := audio.NewFramer(func(frame []byte) {
		w.enqueue(frames, frame)
	})
	capture.SetCallback(func(data []byte, _ uint32) {
		framer.Write(data)
	})

	if err := capture.Start(); err != nil {
		capture.Close()
		engine.Close()
		w.setState(StateStreamError)
		w.events <- Event{Kind: EventError, Err: err}
		close(done)
		return fmt.Errorf("start capture: %w", err)
	}

	w.mu.Lock()
	w.capture = capture
	w.mu.Unlock()

	w.running.Store(true)
	w.setState(StateListening)
	go w.run(engine, capture, frames, done)
	return nil
}

// enqueue adds a frame, dropping the oldest queued frame when full so
// captions stay near-live instead of drifting behind.
func (w *Worker) enqueue(frames chan []byte, frame []byte) {
	select {
	case frames <- frame:
		return
	default:
	}
	select {
	case <-frames:
		log.FramesDropped(w.dropped.Add(1))
	default:
	}
	select {
	case frames <- frame:
	default:
	}
}

func (w *Worker) run(engine recognizer.Engine, capture audio.CaptureDevice, frames chan []byte, done chan struct{}) {
	defer close(done)
	defer func() {
		capture.ClearCallback()
		capture.Stop()
		capture.Close()
		engine.Close()
	}()

	for w.running.Load() {
		var frame []byte
		select {
		case frame = <-frames:
		case <-time.After(frameWait):
			continue
		}

		res, err := engine.Accept(frame)
		if err != nil {
			w.running.Store(false)
			w.setState(StateStreamError)
			w.events <- Event{Kind: EventError, Err: err}
			return
		}
		if res.Text == "" {
			continue
		}
		kind := EventPartial
		if res.Final {
			kind = EventFinal
			log.CaptionText(res.Text)
		}
		w.events <- Event{Kind: kind, Text: res.Text}
	}
	w.setState(StateStopped)
}

// Stop signals the loop and waits up to stopJoin for it to finish.
// Safe to call when never started or already stopped.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.state != StateStarting && w.state != StateListening {
		w.mu.Unlock()
		return
	}
	w.state = StateStopping
	done := w.done
	w.mu.Unlock()
	log.WorkerState(StateStopping.String())

	w.running.Store(false)
	select {
	case <-done:
	case <-time.After(stopJoin):
		log.Warn("decode loop did not stop in time, abandoning")
	}

	w.mu.Lock()
	if w.state == StateStopping {
		w.state = StateStopped
		log.WorkerState(StateStopped.String())
	}
	w.mu.Unlock()
}

// Dropped reports frames discarded due to queue overflow, for doctor
// output and session-end logging.
func (w *Worker) Dropped() uint64 {
	return w.dropped.Load()
}
