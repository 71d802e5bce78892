package ringbuf

import (
	"errors"
	"os"
)

var (
	// ErrInvalidCapacity is returned by New when the requested capacity is
	// not a positive number of bytes.
	ErrInvalidCapacity = errors.New("ringbuf: capacity must be positive")

	// ErrClosed is wrapped by errors returned from operations on a buffer
	// that has been closed, or from writes after CloseWrite.
	ErrClosed = errors.New("closed buffer")

	// ErrTooLarge is wrapped by errors returned from WriteTimeout when the
	// write is larger than the buffer capacity and can never fit.
	ErrTooLarge = errors.New("write exceeds buffer capacity")

	// ErrTimeout is returned when the deadline of a timed read or write
	// passes before the operation could proceed. Nothing was transferred.
	ErrTimeout error = timeoutError{}
)

type timeoutError struct{}

func (timeoutError) Error() string { return "ringbuf: i/o timeout" }

// Timeout reports true so callers using the net.Error style check work.
func (timeoutError) Timeout() bool { return true }

func (timeoutError) Is(target error) bool {
	return target == os.ErrDeadlineExceeded
}

// IsTimeout reports whether err is a timed-out read or write.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
