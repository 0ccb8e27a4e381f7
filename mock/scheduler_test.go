package mock_test

import (
	"testing"
	"time"

	"github.com/fwojciec/prepcat/mock"
	"github.com/stretchr/testify/assert"
)

func TestScheduler_Fire(t *testing.T) {
	t.Parallel()

	t.Run("runs pending tasks in order", func(t *testing.T) {
		t.Parallel()

		s := &mock.Scheduler{}
		var order []int
		s.Schedule(time.Second, func() { order = append(order, 1) })
		s.Schedule(2*time.Second, func() { order = append(order, 2) })

		assert.Equal(t, 2, s.Pending())
		assert.Equal(t, 2*time.Second, s.LastDelay())
		assert.Equal(t, 2, s.Fire())
		assert.Equal(t, []int{1, 2}, order)
		assert.Equal(t, 0, s.Pending())
	})

	t.Run("skips cancelled tasks", func(t *testing.T) {
		t.Parallel()

		s := &mock.Scheduler{}
		ran := false
		cancel := s.Schedule(time.Second, func() { ran = true })
		cancel()

		assert.Equal(t, 0, s.Pending())
		assert.Equal(t, 0, s.Fire())
		assert.False(t, ran)
	})
}
