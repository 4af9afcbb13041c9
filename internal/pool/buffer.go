package pool

import (
	"io"
	"sync"
)

const (
	// SmallBufferSize is used for bodies up to 4KB
	SmallBufferSize = 4 * 1024
	// MediumBufferSize is used for bodies up to 64KB
	MediumBufferSize = 64 * 1024
	// LargeBufferSize is used for larger or unknown-length bodies (256KB)
	LargeBufferSize = 256 * 1024
)

var sizes = [...]int{SmallBufferSize, MediumBufferSize, LargeBufferSize}

// BufferPool hands out copy buffers in three size classes.
type BufferPool struct {
	pools [len(sizes)]sync.Pool
}

// NewBufferPool creates a new buffer pool.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{}
	for i, size := range sizes {
		size := size
		bp.pools[i].New = func() any {
			buf := make([]byte, size)
			return &buf
		}
	}
	return bp
}

// class returns the index of the smallest size class holding size bytes.
// A negative size means the length is unknown.
func class(size int64) int {
	if size < 0 {
		return len(sizes) - 1
	}
	for i, s := range sizes {
		if size <= int64(s) {
			return i
		}
	}
	return len(sizes) - 1
}

// Get returns a full-length buffer suited to a body of size bytes.
// The caller must hand it back with Put.
func (bp *BufferPool) Get(size int64) []byte {
	return *(bp.pools[class(size)].Get().(*[]byte))
}

// Put returns a buffer obtained from Get. Buffers of foreign sizes are dropped.
func (bp *BufferPool) Put(buf []byte) {
	for i, s := range sizes {
		if cap(buf) == s {
			buf = buf[:s]
			bp.pools[i].Put(&buf)
			return
		}
	}
}

// Copy streams src into dst through a pooled buffer sized for size bytes.
// Pass -1 when the length is unknown.
func (bp *BufferPool) Copy(dst io.Writer, src io.Reader, size int64) (int64, error) {
	buf := bp.Get(size)
	defer bp.Put(buf)
	return io.CopyBuffer(dst, src, buf)
}
