package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedulerAddValidatesSpec(t *testing.T) {
	s := New(time.Second, zap.NewNop())
	require.NoError(t, s.Add("digest", "0 7 * * 1", func(ctx context.Context) error { return nil }))
	assert.Equal(t, 1, s.Len())

	err := s.Add("broken", "every monday", func(ctx context.Context) error { return nil })
	assert.ErrorContains(t, err, "broken")
	assert.Equal(t, 1, s.Len())
}

func TestSchedulerRunsTask(t *testing.T) {
	s := New(time.Second, zap.NewNop())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "@every 10ms", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))
	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}
}
