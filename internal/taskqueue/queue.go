package taskqueue

import (
	"context"
	"encoding/json"
	"strconv"
	"study_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	statusKeyPrefix = "task:"
	statusTTL       = 24 * time.Hour
)

// Queue enqueues tasks onto redis lists and tracks their status in
// per-task hashes that expire after a day.
type Queue struct {
	rdb      *redis.Client
	handlers map[string]Handler
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{
		rdb:      rdb,
		handlers: make(map[string]Handler),
	}
}

// Register binds a task name to its handler. Workers share the map, so
// register everything before starting them.
func (q *Queue) Register(name string, handler Handler) {
	q.handlers[name] = handler
}

// HandlerFor looks up a registered handler by task name.
func (q *Queue) HandlerFor(name string) (Handler, bool) {
	handler, ok := q.handlers[name]
	return handler, ok
}

func queueKey(queue string) string {
	return "queue:" + queue
}

func statusKey(id string) string {
	return statusKeyPrefix + id
}

// Enqueue places a task on the named queue and returns its id for
// status polling.
func (q *Queue) Enqueue(ctx context.Context, queue, name string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	task := Task{
		ID:      uuid.New().String(),
		Name:    name,
		Payload: data,
	}

	if err := q.setStatus(ctx, task.ID, StatusPending, nil, "", 0); err != nil {
		return "", err
	}

	if err := q.push(ctx, queue, &task); err != nil {
		return "", err
	}

	return task.ID, nil
}

func (q *Queue) push(ctx context.Context, queue string, task *Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queueKey(queue), raw).Err()
}

// GetStatus reads the tracked state of a task. Expired or unknown ids
// return ErrTaskNotFound.
func (q *Queue) GetStatus(ctx context.Context, id string) (*TaskStatus, error) {
	fields, err := q.rdb.HGetAll(ctx, statusKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, util.ErrTaskNotFound
	}

	status := &TaskStatus{
		ID:     id,
		Status: fields["status"],
		Error:  fields["error"],
	}
	if r := fields["result"]; r != "" {
		status.Result = json.RawMessage(r)
	}
	if a := fields["attempts"]; a != "" {
		status.Attempts, _ = strconv.Atoi(a)
	}
	return status, nil
}

func (q *Queue) setStatus(ctx context.Context, id, status string, result []byte, errMsg string, attempts int) error {
	key := statusKey(id)
	values := map[string]interface{}{
		"status":   status,
		"attempts": attempts,
	}
	if result != nil {
		values["result"] = string(result)
	}
	if errMsg != "" {
		values["error"] = errMsg
	}
	if err := q.rdb.HSet(ctx, key, values).Err(); err != nil {
		return err
	}
	return q.rdb.Expire(ctx, key, statusTTL).Err()
}
