// Package ringbuf provides a fixed-capacity, thread-safe circular byte buffer
// for moving raw bytes between producer and consumer goroutines.
//
// A Buffer is a classic bounded buffer: producers block while there is not
// enough free space, consumers block while the buffer is empty. Every
// operation, including the read-only queries, is serialized by one mutex, and
// blocked goroutines wait on one of two private wait queues (one for readers,
// one for writers) that always re-check their condition after waking.
//
// Transfers are intentionally asymmetric:
//
//   - WriteTimeout is all-or-nothing. It waits until len(p) bytes are free and
//     then stores all of p, so concurrent producers never interleave within a
//     single write.
//
//   - ReadTimeout is partial. It waits only until some data is present and
//     returns as much as is available, up to len(p).
//
// A timeout of zero (Forever) waits without bound. A negative timeout never
// blocks; TryRead and TryWrite are shorthands for that mode. When the
// deadline passes the call returns 0 and ErrTimeout, which is a soft outcome
// meaning "try again later".
//
// Buffer also implements io.Reader, io.Writer and io.Closer, so it can sit
// between any stream producer and consumer:
//
//	buf := ringbuf.MustNew(4 << 10)
//	defer buf.Close()
//
//	go func() {
//		defer buf.CloseWrite()
//		io.Copy(buf, src)
//	}()
//	io.Copy(dst, buf)
package ringbuf
