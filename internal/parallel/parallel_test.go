package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensorann/resource"
)

func TestFor_CoversRange(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100, 1001} {
		for _, workers := range []int{0, 1, 3, 64} {
			hits := make([]int32, n)
			err := For(context.Background(), n, Options{Workers: workers}, func(lo, hi int) error {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
				return nil
			})
			require.NoError(t, err)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "n=%d workers=%d i=%d", n, workers, i)
			}
		}
	}
}

func TestFor_Empty(t *testing.T) {
	called := false
	err := For(context.Background(), 0, Options{}, func(lo, hi int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestFor_Error(t *testing.T) {
	boom := errors.New("boom")
	err := For(context.Background(), 100, Options{Workers: 4}, func(lo, hi int) error {
		if lo == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestFor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := For(ctx, 10, Options{Workers: 2}, func(lo, hi int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFor_Controller(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 1})

	var running, peak atomic.Int32
	err := For(context.Background(), 64, Options{Workers: 8, Controller: rc}, func(lo, hi int) error {
		cur := running.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), peak.Load())
}
