package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"study_backend/pkg/logger"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func TestFatalError(t *testing.T) {
	base := errors.New("bad payload")

	wrapped := Fatal(base)
	assert.True(t, IsFatal(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, base.Error(), wrapped.Error())

	assert.False(t, IsFatal(base))
	assert.False(t, IsFatal(nil))

	// fatality survives further wrapping
	outer := fmt.Errorf("task failed: %w", wrapped)
	assert.True(t, IsFatal(outer))
}

func TestBackoff(t *testing.T) {
	heavy := NewHeavyWorker(nil, nil, 1)
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{9, 512 * time.Second},
		{10, 600 * time.Second},
		{20, 600 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, heavy.backoff(tt.attempt), "attempt %d", tt.attempt)
	}

	def := NewDefaultWorker(nil, nil, 1)
	assert.Equal(t, 2*time.Second, def.backoff(1))
	// no cap on the default queue
	assert.Equal(t, 1024*time.Second, def.backoff(10))
}

func TestQueueKey(t *testing.T) {
	assert.Equal(t, "queue:heavy", queueKey(QueueHeavy))
	assert.Equal(t, "queue:default", queueKey(QueueDefault))
}

func newTestQueue(t *testing.T) (*Queue, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewQueue(rdb), rdb
}

func TestEnqueueAndStatus(t *testing.T) {
	q, rdb := newTestQueue(t)

	id, err := q.Enqueue(context.Background(), QueueHeavy, "course.generate", map[string]string{"topic": "Spanish"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	status, err := q.GetStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status.Status)
	assert.Equal(t, 0, status.Attempts)

	assert.Equal(t, int64(1), rdb.LLen(context.Background(), queueKey(QueueHeavy)).Val())
}

func TestRetryShutdownMarksFailure(t *testing.T) {
	q, rdb := newTestQueue(t)
	w := NewDefaultWorker(q, nil, 1)

	// attempt 3 puts the next backoff at 16s, far past the test window
	task := &Task{ID: "t-1", Name: "chat.reply", Payload: json.RawMessage(`{}`), Attempt: 3}
	ctx, cancel := context.WithCancel(context.Background())

	w.retry(ctx, task, errors.New("model unavailable"))

	status, err := q.GetStatus(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status.Status)
	assert.Equal(t, 4, status.Attempts)

	// shutdown lands inside the backoff window
	cancel()
	require.Eventually(t, func() bool {
		status, err := q.GetStatus(context.Background(), task.ID)
		return err == nil && status.Status == StatusFailure
	}, 3*time.Second, 10*time.Millisecond)

	status, err = q.GetStatus(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Contains(t, status.Error, "model unavailable")
	assert.Zero(t, rdb.LLen(context.Background(), queueKey(QueueDefault)).Val())
}
