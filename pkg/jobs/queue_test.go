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

type outcomes struct {
	mu   sync.Mutex
	done chan struct{}
	ok   []Job
	fail []Job
}

func newOutcomes(expected int) *outcomes {
	return &outcomes{done: make(chan struct{}, expected)}
}

func (o *outcomes) record(job Job, err error) {
	o.mu.Lock()
	if err == nil {
		o.ok = append(o.ok, job)
	} else {
		o.fail = append(o.fail, job)
	}
	o.mu.Unlock()
	o.done <- struct{}{}
}

func (o *outcomes) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-o.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for outcome %d", i+1)
		}
	}
}

func TestQueueProcessesJobs(t *testing.T) {
	var handled int32
	out := newOutcomes(3)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}, QueueConfig{Workers: 2, OnOutcome: out.record})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(Job{Type: "digest"}))
	}
	out.wait(t, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&handled))
	assert.Len(t, out.ok, 3)
	assert.NotEmpty(t, out.ok[0].ID)
}

func TestQueueRetriesThenReportsFailure(t *testing.T) {
	var attempts int32
	out := newOutcomes(1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("smtp down")
	}, QueueConfig{MaxRetries: 2, RetryDelay: time.Millisecond, OnOutcome: out.record})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j1"}))
	out.wait(t, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	require.Len(t, out.fail, 1)
	assert.Equal(t, 3, out.fail[0].Attempt)
}

func TestQueueSucceedsAfterRetry(t *testing.T) {
	var attempts int32
	out := newOutcomes(1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond, OnOutcome: out.record})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j1"}))
	out.wait(t, 1)
	assert.Len(t, out.ok, 1)
	assert.Empty(t, out.fail)
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{}))
}

func TestQueueEnqueueAfterStop(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	q.Start(context.Background())
	q.Stop()
	assert.Error(t, q.Enqueue(Job{}))
}
