package channel

import (
	"bytes"
	"io"
	"sync"

	ncerr "netshell/internal/errors"
	"netshell/util"
)

// Stream adapts a blocking reader/writer pair, such as the stdout and
// stdin pipes of an SSH shell, to a [Channel].
//
// A background goroutine copies everything read into an internal buffer
// so Ready never blocks.  The goroutine exits when the reader returns an
// error, which is what closing the SSH session causes.
type Stream struct {
	w io.Writer
	c io.Closer

	mu     sync.Mutex
	buf    bytes.Buffer
	err    error // sticky read error
	closed bool

	once sync.Once
	done chan struct{}
}

// NewStream starts pumping r.  c is closed by Close; it may be nil.
func NewStream(r io.Reader, w io.Writer, c io.Closer) *Stream {
	s := &Stream{w: w, c: c, done: make(chan struct{})}
	go s.pump(r)
	return s
}

func (s *Stream) pump(r io.Reader) {
	defer close(s.done)

	bufp := util.GetBuf()
	defer util.PutBuf(bufp)
	buf := *bufp

	for {
		n, err := r.Read(buf)
		s.mu.Lock()
		if n > 0 {
			s.buf.Write(buf[:n])
		}
		if err != nil {
			s.err = err
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// Send writes str to the device as-is.
func (s *Stream) Send(str string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ncerr.ErrSessionClosed
	}
	_, err := io.WriteString(s.w, str)
	return err
}

// Ready reports whether Receive would return data or an error without
// blocking.
func (s *Stream) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.buf.Len() > 0 || s.err != nil
}

// Receive returns up to max buffered bytes.  Once the buffer is drained
// the pump's terminal error, usually [io.EOF], is returned.
func (s *Stream) Receive(max int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ncerr.ErrSessionClosed
	}
	if s.buf.Len() > 0 {
		n := s.buf.Len()
		if max > 0 && n > max {
			n = max
		}
		out := make([]byte, n)
		s.buf.Read(out) //nolint:errcheck // reading from a non-empty bytes.Buffer
		return out, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

// Close closes the underlying closer once.  Later calls return nil.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		if s.c != nil {
			err = s.c.Close()
		}
	})
	return err
}

// Done is closed when the pump goroutine has exited.
func (s *Stream) Done() <-chan struct{} { return s.done }
