package recognizer

// Result is one decode step's output. The engine decides finality
// (endpointing) internally; callers never second-guess it.
type Result struct {
	Text  string
	Final bool
}

// Engine is a streaming speech decoder. Accept feeds one PCM block and
// returns that step's hypothesis: an updated partial, or a completed
// utterance when Final is set. Engines are single-consumer; frames must
// arrive in capture order.
type Engine interface {
	Accept(pcm []byte) (Result, error)
	Close() error
}

// Factory builds an Engine from a resolved model path. The worker calls
// it once per capture session, on its own goroutine.
type Factory func(modelPath string) (Engine, error)
