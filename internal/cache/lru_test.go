package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU(100)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", []byte("hello"))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, int64(5), c.Size())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU(10)

	c.Set("a", make([]byte, 4))
	c.Set("b", make([]byte, 4))
	_, _ = c.Get("a") // b is now least recently used
	c.Set("c", make([]byte, 4))

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(8), c.Size())
}

func TestLRU_EdgeCases(t *testing.T) {
	c := NewLRU(50)

	c.Set("big", make([]byte, 60))
	_, ok := c.Get("big")
	assert.False(t, ok, "value larger than capacity is not cached")

	c.Set("k", make([]byte, 10))
	c.Set("k", make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	c.Set("k", make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())

	// Replacing with an oversized value drops the old one.
	c.Set("k", make([]byte, 60))
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Size())
}

func TestLRU_InvalidatePrefix(t *testing.T) {
	c := NewLRU(100)
	c.Set("dataset/features.bin", []byte("a"))
	c.Set("dataset/labels.bin", []byte("b"))
	c.Set("other/x", []byte("c"))

	c.InvalidatePrefix("dataset/")

	_, ok := c.Get("dataset/features.bin")
	assert.False(t, ok)
	_, ok = c.Get("dataset/labels.bin")
	assert.False(t, ok)
	_, ok = c.Get("other/x")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Size())
}

func TestLRU_Nil(t *testing.T) {
	c := NewLRU(0)
	require.Nil(t, c)

	c.Set("a", []byte("x"))
	_, ok := c.Get("a")
	assert.False(t, ok)
	c.InvalidatePrefix("")
	assert.Zero(t, c.Size())
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(1 << 10)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			for j := 0; j < 100; j++ {
				c.Set(key, make([]byte, 16))
				_, _ = c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), int64(1<<10))
}
