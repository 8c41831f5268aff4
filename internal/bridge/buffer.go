package bridge

import "sync"

// DefaultBufferSize bounds the undrained output kept per bridge.
const DefaultBufferSize = 256 << 10

// outputBuffer is written by the reader goroutine and drained by the UI loop.
// When full, the oldest bytes are discarded.
type outputBuffer struct {
	mu      sync.Mutex
	data    []byte
	limit   int
	dropped int
}

func newOutputBuffer(limit int) *outputBuffer {
	if limit <= 0 {
		limit = DefaultBufferSize
	}
	return &outputBuffer{limit: limit}
}

func (b *outputBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if n >= b.limit {
		b.dropped += len(b.data) + n - b.limit
		b.data = append(b.data[:0], p[n-b.limit:]...)
		return n, nil
	}
	if over := len(b.data) + n - b.limit; over > 0 {
		b.dropped += over
		b.data = append(b.data[:0], b.data[over:]...)
	}
	b.data = append(b.data, p...)
	return n, nil
}

// Drain returns the buffered bytes and clears the buffer.
func (b *outputBuffer) Drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		return nil
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	b.data = b.data[:0]
	return out
}

func (b *outputBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Dropped reports how many bytes were discarded because the buffer was full.
func (b *outputBuffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
