package recognizer

import (
	"sync"
)

// FakeEngine plays back a scripted result sequence, one per Accept call,
// and records the frames it was fed. Once the script is exhausted it
// returns empty partials (no caption events).
type FakeEngine struct {
	mu     sync.Mutex
	script []ScriptStep
	step   int
	frames [][]byte
	closed bool
}

type ScriptStep struct {
	Result Result
	Err    error
}

func NewFake(script ...ScriptStep) *FakeEngine {
	return &FakeEngine{script: script}
}

// Partial is a convenience ScriptStep constructor.
func Partial(text string) ScriptStep {
	return ScriptStep{Result: Result{Text: text}}
}

func Final(text string) ScriptStep {
	return ScriptStep{Result: Result{Text: text, Final: true}}
}

func Fail(err error) ScriptStep {
	return ScriptStep{Err: err}
}

func (f *FakeEngine) Accept(pcm []byte) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	frame := make([]byte, len(pcm))
	copy(frame, pcm)
	f.frames = append(f.frames, frame)
	if f.step >= len(f.script) {
		return Result{}, nil
	}
	s := f.script[f.step]
	f.step++
	return s.Result, s.Err
}

func (f *FakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Frames returns copies of every frame fed so far, in order.
func (f *FakeEngine) Frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *FakeEngine) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
