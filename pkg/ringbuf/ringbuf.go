package ringbuf

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Forever is the timeout that makes ReadTimeout and WriteTimeout wait without
// a deadline. Note that zero means "block until done", not "don't block"; use
// TryRead/TryWrite or a negative timeout to poll.
const Forever time.Duration = 0

var (
	_ io.Reader = (*Buffer)(nil)
	_ io.Writer = (*Buffer)(nil)
	_ io.Closer = (*Buffer)(nil)
)

// Buffer is a thread-safe fixed-size circular byte buffer. Writers block until
// there is room for the whole write; readers block until at least one byte is
// available.
//
// occupied is tracked explicitly because equal read and write cursors are
// ambiguous between empty and full.
type Buffer struct {
	readable *waitQueue // readers waiting for data
	writable *waitQueue // writers waiting for space

	mu          sync.Mutex
	buf         []byte
	capacity    int
	occupied    int
	r, w        int
	closed      bool
	writeClosed bool
	stats       Stats
}

// Stats is a point-in-time snapshot of a buffer's counters.
type Stats struct {
	Capacity      int    `json:"capacity" yaml:"capacity"`
	Used          int    `json:"used" yaml:"used"`
	Writes        uint64 `json:"writes" yaml:"writes"`
	Reads         uint64 `json:"reads" yaml:"reads"`
	BytesWritten  uint64 `json:"bytes_written" yaml:"bytes_written"`
	BytesRead     uint64 `json:"bytes_read" yaml:"bytes_read"`
	WriteTimeouts uint64 `json:"write_timeouts" yaml:"write_timeouts"`
	ReadTimeouts  uint64 `json:"read_timeouts" yaml:"read_timeouts"`
}

// New creates a Buffer holding at most capacity bytes. It returns
// ErrInvalidCapacity, and no buffer, if capacity is not positive.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer{
		readable: newWaitQueue(),
		writable: newWaitQueue(),
		buf:      make([]byte, capacity),
		capacity: capacity,
		stats:    Stats{Capacity: capacity},
	}, nil
}

// MustNew is like New but panics if the capacity is invalid.
func MustNew(capacity int) *Buffer {
	b, err := New(capacity)
	if err != nil {
		panic(err)
	}
	return b
}

func deadlineOf(timeout time.Duration) time.Time {
	switch {
	case timeout == Forever:
		return time.Time{}
	case timeout < 0:
		// Already expired: the wait loop checks its condition once and
		// reports a timeout instead of parking.
		return time.Now()
	default:
		return time.Now().Add(timeout)
	}
}

// WriteTimeout writes all of p to the buffer, or nothing.
//
// It blocks until at least len(p) bytes are free, then copies p in at most two
// runs across the end of the storage. If the timeout elapses first it returns
// 0 and ErrTimeout. A zero timeout waits forever; a negative one never blocks.
//
// Writes larger than the capacity fail immediately with ErrTooLarge. Writes
// to a closed buffer, or after CloseWrite, fail with ErrClosed.
func (b *Buffer) WriteTimeout(p []byte, timeout time.Duration) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.writeErrLocked(); err != nil {
		return 0, err
	}
	if len(p) > b.capacity {
		return 0, fmt.Errorf("ringbuf: write of %d bytes: %w (capacity %d)", len(p), ErrTooLarge, b.capacity)
	}
	if len(p) == 0 {
		return 0, nil
	}

	deadline := deadlineOf(timeout)
	expired := false
	for b.capacity-b.occupied < len(p) {
		if expired {
			b.stats.WriteTimeouts++
			return 0, ErrTimeout
		}
		expired = !b.writable.wait(&b.mu, deadline)
		if err := b.writeErrLocked(); err != nil {
			return 0, err
		}
	}

	n := copy(b.buf[b.w:], p)
	copy(b.buf, p[n:])
	b.w = (b.w + len(p)) % b.capacity
	b.occupied += len(p)

	b.stats.Writes++
	b.stats.BytesWritten += uint64(len(p))
	b.readable.signal()
	return len(p), nil
}

// ReadTimeout reads up to len(p) bytes from the buffer.
//
// It blocks only until some data is available, then returns whatever is
// present, capped at len(p). It never waits to fill p. If the timeout elapses
// while the buffer is still empty it returns 0 and ErrTimeout. A zero timeout
// waits forever; a negative one never blocks.
//
// Once the write side is closed and the buffer drained, it returns io.EOF.
func (b *Buffer) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, fmt.Errorf("ringbuf: read from closed buffer: %w", ErrClosed)
	}
	if len(p) == 0 {
		return 0, nil
	}

	deadline := deadlineOf(timeout)
	expired := false
	for b.occupied == 0 {
		if b.writeClosed {
			return 0, io.EOF
		}
		if expired {
			b.stats.ReadTimeouts++
			return 0, ErrTimeout
		}
		expired = !b.readable.wait(&b.mu, deadline)
		if b.closed {
			return 0, fmt.Errorf("ringbuf: read from closed buffer: %w", ErrClosed)
		}
	}

	n := min(len(p), b.occupied)
	k := copy(p[:n], b.buf[b.r:])
	copy(p[k:n], b.buf)
	b.r = (b.r + n) % b.capacity
	b.occupied -= n

	b.stats.Reads++
	b.stats.BytesRead += uint64(n)
	b.writable.signal()
	return n, nil
}

func (b *Buffer) writeErrLocked() error {
	if b.closed || b.writeClosed {
		return fmt.Errorf("ringbuf: write to closed buffer: %w", ErrClosed)
	}
	return nil
}

// TryWrite writes all of p if there is room right now, otherwise it returns
// 0 and ErrTimeout without blocking.
func (b *Buffer) TryWrite(p []byte) (int, error) {
	return b.WriteTimeout(p, -1)
}

// TryRead reads whatever is available right now, up to len(p). It returns 0
// and ErrTimeout without blocking if the buffer is empty.
func (b *Buffer) TryRead(p []byte) (int, error) {
	return b.ReadTimeout(p, -1)
}

// Read implements io.Reader. It blocks until data is available and returns
// io.EOF once the write side is closed and the buffer is drained.
func (b *Buffer) Read(p []byte) (int, error) {
	return b.ReadTimeout(p, Forever)
}

// Write implements io.Writer. p is split into chunks no larger than the
// capacity and each chunk is written all-or-nothing, blocking as needed. It
// returns the number of bytes committed before any error.
func (b *Buffer) Write(p []byte) (int, error) {
	var wn int
	for len(p) > 0 {
		n, err := b.WriteTimeout(p[:min(len(p), b.capacity)], Forever)
		wn += n
		if err != nil {
			return wn, err
		}
		p = p[n:]
	}
	return wn, nil
}

// CloseWrite closes the write side of the buffer. Blocked and future writes
// fail with ErrClosed; reads drain the remaining data and then return io.EOF.
func (b *Buffer) CloseWrite() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.writeClosed {
		return nil
	}
	b.writeClosed = true
	b.readable.broadcast()
	b.writable.broadcast()
	return nil
}

// Close destroys the buffer. Its storage is released and every goroutine
// blocked in a read or write wakes with ErrClosed, as do all later calls.
// Closing a nil or already closed buffer is a no-op.
func (b *Buffer) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.writeClosed = true
	b.buf = nil
	b.occupied = 0
	b.r, b.w = 0, 0
	b.readable.broadcast()
	b.writable.broadcast()
	return nil
}

// Full reports whether the buffer has no free space. A nil buffer is never
// full.
func (b *Buffer) Full() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.occupied == b.capacity
}

// Empty reports whether the buffer holds no data. A nil buffer is never
// empty.
func (b *Buffer) Empty() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.occupied == 0
}

// Len returns the number of unread bytes, or -1 for a nil buffer.
func (b *Buffer) Len() int {
	if b == nil {
		return -1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.occupied
}

// Free returns the number of bytes that can be written without blocking, or
// -1 for a nil buffer.
func (b *Buffer) Free() int {
	if b == nil {
		return -1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity - b.occupied
}

// Cap returns the capacity, or -1 for a nil buffer.
func (b *Buffer) Cap() int {
	if b == nil {
		return -1
	}
	return b.capacity
}

// Stats returns a snapshot of the buffer counters, or the zero Stats for a
// nil buffer.
func (b *Buffer) Stats() Stats {
	if b == nil {
		return Stats{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.stats
	s.Used = b.occupied
	return s
}
