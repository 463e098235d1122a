package audio

// Framer re-blocks arbitrary-size capture buffers into fixed BlockBytes
// frames. Capture backends deliver whatever buffer size the platform
// chooses; the decoder wants exact 8000-sample blocks in arrival order.
// Not safe for concurrent use; call only from the capture callback.
type Framer struct {
	buf  []byte
	emit func(frame []byte)
}

func NewFramer(emit func(frame []byte)) *Framer {
	return &Framer{emit: emit}
}

// Write appends data and emits every complete frame it now holds.
// Each emitted frame is a fresh copy; the input buffer is never retained.
func (f *Framer) Write(data []byte) {
	f.buf = append(f.buf, data...)
	for len(f.buf) >= BlockBytes {
		frame := make([]byte, BlockBytes)
		copy(frame, f.buf[:BlockBytes])
		f.buf = f.buf[BlockBytes:]
		f.emit(frame)
	}
}

// Flush emits any trailing partial block as a short final frame.
func (f *Framer) Flush() {
	if len(f.buf) == 0 {
		return
	}
	frame := make([]byte, len(f.buf))
	copy(frame, f.buf)
	f.buf = f.buf[:0]
	f.emit(frame)
}
