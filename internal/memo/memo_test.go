package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompute(t *testing.T) {
	c, err := New[int](4)
	require.NoError(t, err)

	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, hit, err := c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 42, v)

	v, hit, err = c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestErrorsNotCached(t *testing.T) {
	c, err := New[int](4)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, _, err = c.GetOrCompute("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, hit, err := c.GetOrCompute("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}

func TestEviction(t *testing.T) {
	c, err := New[string](2)
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		_, _, err := c.GetOrCompute(k, func() (string, error) { return k, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	_, hit, _ := c.GetOrCompute("a", func() (string, error) { return "a", nil })
	assert.False(t, hit, "oldest entry should have been evicted")
}

func TestConcurrentComputeOnce(t *testing.T) {
	c, err := New[int](8)
	require.NoError(t, err)

	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.GetOrCompute("shared", func() (int, error) {
				atomic.AddInt32(&calls, 1)
				return 1, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 1, v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDistinctKeysComputeConcurrently(t *testing.T) {
	c, err := New[int](8)
	require.NoError(t, err)

	aStarted := make(chan struct{})
	bStarted := make(chan struct{})
	aDone := make(chan error, 1)

	go func() {
		_, _, err := c.GetOrCompute("a", func() (int, error) {
			close(aStarted)
			select {
			case <-bStarted:
				return 1, nil
			case <-time.After(5 * time.Second):
				return 0, errors.New("b never started while a was computing")
			}
		})
		aDone <- err
	}()

	<-aStarted
	v, hit, err := c.GetOrCompute("b", func() (int, error) {
		close(bStarted)
		return 2, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, v)
	require.NoError(t, <-aDone)
	assert.Equal(t, 2, c.Len())
}

func TestInvalidSize(t *testing.T) {
	_, err := New[int](0)
	assert.Error(t, err)
}
