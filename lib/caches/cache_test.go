package caches

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLoadsOnce(t *testing.T) {
	t.Parallel()

	c := NewCache[int, string](10, 0)

	var calls atomic.Int32
	loader := func(k int) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			v, err := c.Get(1, loader)
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCacheRetriesFailures(t *testing.T) {
	t.Parallel()

	c := NewCache[int, string](10, 0)

	_, err := c.Get(1, func(int) (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	v, err := c.Get(1, func(int) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestCacheEvict(t *testing.T) {
	t.Parallel()

	c := NewCache[string, int](10, 0)

	v, _ := c.Get("a", func(string) (int, error) { return 1, nil })
	assert.Equal(t, 1, v)

	c.Evict("a")

	v, _ = c.Get("a", func(string) (int, error) { return 2, nil })
	assert.Equal(t, 2, v)
}

func TestCacheIsBounded(t *testing.T) {
	t.Parallel()

	c := NewCache[int, int](3, 0)

	var calls atomic.Int32
	loader := func(k int) (int, error) {
		calls.Add(1)
		return k * 10, nil
	}

	for i := 0; i < 10; i++ {
		v, err := c.Get(i, loader)
		require.NoError(t, err)
		assert.Equal(t, i*10, v)
	}
	assert.Equal(t, 3, c.Len())

	_, _ = c.Get(9, loader)
	assert.Equal(t, int32(10), calls.Load())

	_, _ = c.Get(0, loader)
	assert.Equal(t, int32(11), calls.Load())
	assert.Equal(t, 3, c.Len())
}

func TestCacheExpires(t *testing.T) {
	t.Parallel()

	c := NewCache[string, int](10, 200*time.Millisecond)

	var calls atomic.Int32
	loader := func(string) (int, error) {
		return int(calls.Add(1)), nil
	}

	v, _ := c.Get("a", loader)
	assert.Equal(t, 1, v)
	v, _ = c.Get("a", loader)
	assert.Equal(t, 1, v)

	assert.Eventually(t, func() bool {
		v, _ := c.Get("a", loader)
		return v > 1
	}, 2*time.Second, 20*time.Millisecond)
}
