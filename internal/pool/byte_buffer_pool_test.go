package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, []byte("hello")...)

	data := bb.Bytes()

	assert.Equal(t, []byte("hello"), data)
	// Should return the same underlying slice
	assert.True(t, &bb.B[0] == &data[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.B)

	bb.MustWrite([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.B)
	assert.Equal(t, 11, bb.Len())
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.MustWrite([]byte("table bytes"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
	assert.Equal(t, "table bytes", out.String())
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(16)

	require.True(t, bb.Extend(10))
	assert.Equal(t, 10, bb.Len())

	// Not enough capacity left
	require.False(t, bb.Extend(10))
	assert.Equal(t, 10, bb.Len())
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(8)

	bb.ExtendOrGrow(100)
	assert.Equal(t, 100, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 100)
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("keepme"))

	bb.Grow(TableBufferDefaultSize * 2)
	assert.Equal(t, []byte("keepme"), bb.B)
	assert.GreaterOrEqual(t, bb.Cap()-bb.Len(), TableBufferDefaultSize*2)
}

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(1024)
	before := bb.Cap()

	bb.Grow(512)
	assert.Equal(t, before, bb.Cap(), "Grow should do nothing when capacity suffices")
}

func TestGetTableBuffer(t *testing.T) {
	bb := GetTableBuffer()
	defer PutTableBuffer(bb)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "pooled buffer should come back empty")
}

func TestPutTableBuffer_NilBuffer(t *testing.T) {
	// Must not panic
	PutTableBuffer(nil)
}

func TestPool_ResetsClearsData(t *testing.T) {
	bb := GetTableBuffer()
	bb.MustWrite([]byte("stale payload"))
	PutTableBuffer(bb)

	reused := GetTableBuffer()
	defer PutTableBuffer(reused)
	assert.Equal(t, 0, reused.Len(), "reused buffer must not expose previous contents")
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	p := NewByteBufferPool(64, 128)

	bb := p.Get()
	bb.ExtendOrGrow(1024) // push capacity past the threshold
	p.Put(bb)

	// The oversized buffer must not come back from the pool.
	next := p.Get()
	assert.LessOrEqual(t, next.Cap(), 1024)
	assert.Equal(t, 0, next.Len())
}

func TestByteBufferPool_MaxThreshold_Zero(t *testing.T) {
	p := NewByteBufferPool(64, 0)

	bb := p.Get()
	bb.ExtendOrGrow(4096)
	p.Put(bb) // zero threshold disables the discard

	next := p.Get()
	assert.Equal(t, 0, next.Len())
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				bb := GetTableBuffer()
				bb.MustWrite([]byte("@UTF"))
				PutTableBuffer(bb)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkPool_GetWritePut(b *testing.B) {
	payload := make([]byte, 4096)
	b.ResetTimer()
	for b.Loop() {
		bb := GetTableBuffer()
		bb.MustWrite(payload)
		PutTableBuffer(bb)
	}
}
