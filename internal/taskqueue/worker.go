package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"study_backend/pkg/logger"
	"study_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const popTimeout = 5 * time.Second

// Worker consumes one named queue with a fixed number of goroutines.
type Worker struct {
	queue       *Queue
	db          *gorm.DB
	name        string
	concurrency int
	maxRetries  int
	backoffCap  time.Duration
}

// NewHeavyWorker consumes course generation tasks: up to 5 retries with
// exponential backoff capped at 10 minutes.
func NewHeavyWorker(q *Queue, db *gorm.DB, concurrency int) *Worker {
	return &Worker{
		queue:       q,
		db:          db,
		name:        QueueHeavy,
		concurrency: concurrency,
		maxRetries:  5,
		backoffCap:  600 * time.Second,
	}
}

// NewDefaultWorker consumes chat reply tasks: up to 3 retries, uncapped
// backoff.
func NewDefaultWorker(q *Queue, db *gorm.DB, concurrency int) *Worker {
	return &Worker{
		queue:       q,
		db:          db,
		name:        QueueDefault,
		concurrency: concurrency,
		maxRetries:  3,
	}
}

// Start launches the consumer goroutines and blocks until ctx is done
// and in-flight tasks have finished.
func (w *Worker) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	logger.Log.Info("Task workers started",
		zap.String("queue", w.name),
		zap.Int("concurrency", w.concurrency))
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := w.queue.rdb.BRPop(ctx, popTimeout, queueKey(w.name)).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			logger.Log.Error("Queue pop failed", zap.String("queue", w.name), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if len(res) < 2 {
			continue
		}

		var task Task
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			logger.Log.Error("Dropping undecodable task", zap.String("queue", w.name), zap.Error(err))
			continue
		}

		w.process(ctx, &task)
	}
}

func (w *Worker) process(ctx context.Context, task *Task) {
	handler, ok := w.queue.HandlerFor(task.Name)
	if !ok {
		w.fail(ctx, task, fmt.Errorf("no handler registered for task %q", task.Name))
		return
	}

	// Verify the connection survived the idle wait before doing work.
	if sqlDB, err := w.db.DB(); err == nil {
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.Log.Warn("Database ping failed before task", zap.String("task", task.Name), zap.Error(err))
		}
	}

	_ = w.queue.setStatus(ctx, task.ID, StatusRunning, nil, "", task.Attempt)

	start := time.Now()
	result, err := handler(ctx, task.Payload)
	monitoring.TaskDuration.WithLabelValues(w.name, task.Name).Observe(time.Since(start).Seconds())

	if err == nil {
		data, merr := json.Marshal(result)
		if merr != nil {
			data = nil
		}
		_ = w.queue.setStatus(ctx, task.ID, StatusSuccess, data, "", task.Attempt)
		monitoring.TaskCounter.WithLabelValues(w.name, task.Name, StatusSuccess).Inc()
		logger.Log.Info("Task succeeded",
			zap.String("queue", w.name),
			zap.String("task", task.Name),
			zap.String("taskId", task.ID),
			zap.Duration("elapsed", time.Since(start)))
		return
	}

	if IsFatal(err) || task.Attempt >= w.maxRetries {
		w.fail(ctx, task, err)
		return
	}

	w.retry(ctx, task, err)
}

func (w *Worker) fail(ctx context.Context, task *Task, err error) {
	_ = w.queue.setStatus(ctx, task.ID, StatusFailure, nil, err.Error(), task.Attempt)
	monitoring.TaskCounter.WithLabelValues(w.name, task.Name, StatusFailure).Inc()
	logger.Log.Error("Task failed",
		zap.String("queue", w.name),
		zap.String("task", task.Name),
		zap.String("taskId", task.ID),
		zap.Int("attempt", task.Attempt),
		zap.Error(err))
}

// Backoff doubles per attempt, 1s, 2s, 4s and so on, clamped to the
// queue's cap when one is set.
func (w *Worker) backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if w.backoffCap > 0 && d > w.backoffCap {
		d = w.backoffCap
	}
	return d
}

func (w *Worker) retry(ctx context.Context, task *Task, cause error) {
	task.Attempt++
	delay := w.backoff(task.Attempt)
	_ = w.queue.setStatus(ctx, task.ID, StatusPending, nil, cause.Error(), task.Attempt)
	monitoring.TaskCounter.WithLabelValues(w.name, task.Name, "retry").Inc()
	logger.Log.Warn("Task retry scheduled",
		zap.String("queue", w.name),
		zap.String("task", task.Name),
		zap.String("taskId", task.ID),
		zap.Int("attempt", task.Attempt),
		zap.Duration("delay", delay),
		zap.Error(cause))

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			if err := w.queue.push(context.Background(), w.name, task); err != nil {
				logger.Log.Error("Task re-enqueue failed",
					zap.String("taskId", task.ID), zap.Error(err))
			}
		case <-ctx.Done():
			// Shutdown lands in the backoff window: record the failure
			// instead of leaving the task pending until the TTL.
			w.fail(context.Background(), task, fmt.Errorf("worker stopped during retry backoff: %w", cause))
		}
	}()
}
