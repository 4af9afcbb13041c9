package pool

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferPool_Get(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want int
	}{
		{"empty", 0, SmallBufferSize},
		{"small", 100, SmallBufferSize},
		{"small boundary", SmallBufferSize, SmallBufferSize},
		{"medium", SmallBufferSize + 1, MediumBufferSize},
		{"medium boundary", MediumBufferSize, MediumBufferSize},
		{"large", MediumBufferSize + 1, LargeBufferSize},
		{"huge", 10 * LargeBufferSize, LargeBufferSize},
		{"unknown", -1, LargeBufferSize},
	}

	bp := NewBufferPool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bp.Get(tt.size)
			require.NotNil(t, buf)
			assert.Equal(t, tt.want, len(buf))
			assert.Equal(t, tt.want, cap(buf))
			bp.Put(buf)
		})
	}
}

func TestBufferPool_PutRestoresLength(t *testing.T) {
	bp := NewBufferPool()
	buf := bp.Get(1)
	bp.Put(buf[:10])

	again := bp.Get(1)
	assert.Len(t, again, SmallBufferSize)
}

func TestBufferPool_PutForeignBuffer(t *testing.T) {
	bp := NewBufferPool()
	assert.NotPanics(t, func() {
		bp.Put(make([]byte, 123))
		bp.Put(nil)
	})
}

// writerOnly hides ReadFrom so io.CopyBuffer uses the pooled buffer.
type writerOnly struct {
	w *bytes.Buffer
}

func (w writerOnly) Write(p []byte) (int, error) { return w.w.Write(p) }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestBufferPool_Copy(t *testing.T) {
	bp := NewBufferPool()

	t.Run("copies everything", func(t *testing.T) {
		data := strings.Repeat("abcdef", 50_000)
		var out bytes.Buffer

		n, err := bp.Copy(writerOnly{&out}, strings.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), n)
		assert.Equal(t, data, out.String())
	})

	t.Run("unknown length", func(t *testing.T) {
		var out bytes.Buffer
		n, err := bp.Copy(writerOnly{&out}, strings.NewReader("hello"), -1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})

	t.Run("read error", func(t *testing.T) {
		var out bytes.Buffer
		_, err := bp.Copy(writerOnly{&out}, failingReader{}, 10)
		assert.EqualError(t, err, "read failed")
	})
}

func TestBufferPool_Concurrent(t *testing.T) {
	bp := NewBufferPool()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out bytes.Buffer
			src := strings.Repeat("x", i*1000)
			n, err := bp.Copy(writerOnly{&out}, strings.NewReader(src), int64(len(src)))
			assert.NoError(t, err)
			assert.Equal(t, int64(len(src)), n)
		}(i)
	}
	wg.Wait()
}

func BenchmarkBufferPool_Copy(b *testing.B) {
	bp := NewBufferPool()
	data := bytes.Repeat([]byte("x"), MediumBufferSize)
	for i := 0; i < b.N; i++ {
		var out bytes.Buffer
		_, _ = bp.Copy(writerOnly{&out}, bytes.NewReader(data), int64(len(data)))
	}
}
