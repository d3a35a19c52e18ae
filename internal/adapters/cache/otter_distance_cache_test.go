package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtterDistanceCacheSymmetricKey(t *testing.T) {
	c := NewOtterDistanceCache(100)

	_, ok := c.Get(0, 1)
	require.False(t, ok)

	c.Put(0, 1, 123.5)

	d, ok := c.Get(1, 0)
	require.True(t, ok)
	assert.Equal(t, 123.5, d)

	d, ok = c.Get(0, 1)
	require.True(t, ok)
	assert.Equal(t, 123.5, d)
}

func TestOtterDistanceCacheSeparatesSameNamedSites(t *testing.T) {
	c := NewOtterDistanceCache(100)

	// two sites sharing a name still have their own index
	c.Put(0, 2, 100)
	c.Put(1, 2, 900)

	d, ok := c.Get(2, 0)
	require.True(t, ok)
	assert.Equal(t, 100.0, d)

	d, ok = c.Get(2, 1)
	require.True(t, ok)
	assert.Equal(t, 900.0, d)
}

func TestOtterDistanceCacheConcurrentUse(t *testing.T) {
	c := NewOtterDistanceCache(10_000)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Put(i, i+1, float64(i))
				c.Get(i+1, i)
			}
		}()
	}
	wg.Wait()

	d, ok := c.Get(11, 10)
	require.True(t, ok)
	assert.Equal(t, 10.0, d)
}

func TestPairKey(t *testing.T) {
	assert.Equal(t, pairKey(3, 7), pairKey(7, 3))
	assert.NotEqual(t, pairKey(3, 7), pairKey(3, 8))
	assert.NotEqual(t, pairKey(0, 1<<20), pairKey(1, 0))
}
