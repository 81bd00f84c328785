package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasks(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	q := NewQueue("test", func(_ context.Context, task Task) error {
		mu.Lock()
		seen[task.Key]++
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, key := range []string{"countries", "search"} {
		_, err := q.Enqueue(key)
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["countries"] == 1 && seen["search"] == 1
	}, time.Second, 5*time.Millisecond)
}

func TestQueueCollapsesPendingKeys(t *testing.T) {
	release := make(chan struct{})
	var runs int32
	q := NewQueue("test", func(ctx context.Context, task Task) error {
		if task.Key == "block" {
			<-release
		}
		atomic.AddInt32(&runs, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue("block")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return q.Pending() == 0 }, time.Second, time.Millisecond)

	added, err := q.Enqueue("search")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = q.Enqueue("search")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, q.Pending())

	close(release)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 2 }, time.Second, time.Millisecond)
}

func TestQueueRetriesFailures(t *testing.T) {
	var attempts int32
	q := NewQueue("test", func(context.Context, Task) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("backend unavailable")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue("overview")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&attempts) == 3 }, time.Second, time.Millisecond)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Task) error { return nil }, QueueConfig{})
	_, err := q.Enqueue("search")
	assert.Error(t, err)
}
