package util

import "sync"

// DefaultReadSize is the chunk size used when draining a device's
// terminal output.  CLI output arrives in small bursts, so a few KiB is
// plenty.
const DefaultReadSize = 4 * 1024

// ReadPool provides reusable read buffers for channel pumps, so a
// long-lived session does not allocate on every burst of output.
var ReadPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultReadSize)
		return &buf
	},
}

// GetBuf retrieves a buffer from the pool.  Callers must return it
// with [PutBuf] when finished.
func GetBuf() *[]byte {
	return ReadPool.Get().(*[]byte)
}

// PutBuf returns a buffer to the pool for reuse.
func PutBuf(buf *[]byte) {
	if buf == nil {
		return
	}
	ReadPool.Put(buf)
}
