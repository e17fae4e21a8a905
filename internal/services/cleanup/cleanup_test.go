package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls atomic.Int32
	days  atomic.Int32
}

func (c *countingCleaner) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	c.calls.Add(1)
	c.days.Store(int32(retentionDays))
	return 0, nil
}

func TestService_Run(t *testing.T) {
	cleaner := &countingCleaner{}
	svc := NewService(cleaner, 14, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, int32(14), cleaner.days.Load())
}

func TestService_RunDisabled(t *testing.T) {
	cleaner := &countingCleaner{}
	svc := NewService(cleaner, 0, time.Millisecond, nil)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, int32(0), cleaner.calls.Load())
}
