package http_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	phttp "github.com/fwojciec/prepcat/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows requests up to the burst", func(t *testing.T) {
		t.Parallel()

		limiter := phttp.NewClientLimiter(0.001, 2)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"), "third request should exceed the burst")
	})

	t.Run("different clients have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := phttp.NewClientLimiter(0.001, 1)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"), "other client should not be limited")
	})

	t.Run("treats a zero burst as one", func(t *testing.T) {
		t.Parallel()

		limiter := phttp.NewClientLimiter(0.001, 0)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("concurrent requests never exceed the burst", func(t *testing.T) {
		t.Parallel()

		limiter := phttp.NewClientLimiter(0.001, 5)

		var wg sync.WaitGroup
		var allowed atomic.Int32
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("10.0.0.1") {
					allowed.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(5), allowed.Load())
	})
}

func TestClientLimiter_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("forgets clients idle past the timeout", func(t *testing.T) {
		t.Parallel()

		limiter := phttp.NewClientLimiter(0.001, 1, phttp.WithIdleTimeout(20*time.Millisecond))
		for i := range 50 {
			limiter.Allow(fmt.Sprintf("10.0.0.%d", i))
		}
		require.Equal(t, 50, limiter.Len())

		time.Sleep(40 * time.Millisecond)
		limiter.Allow("10.0.1.1")

		assert.Equal(t, 1, limiter.Len())
	})

	t.Run("keeps active clients", func(t *testing.T) {
		t.Parallel()

		limiter := phttp.NewClientLimiter(0.001, 1, phttp.WithIdleTimeout(time.Hour))

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.Equal(t, 1, limiter.Len())
	})
}
