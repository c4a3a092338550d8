package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
)

// Queue names. Course generation runs on the heavy queue so slow model
// calls cannot starve quick chat replies.
const (
	QueueHeavy   = "heavy"
	QueueDefault = "default"
)

const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Task is the unit stored on a redis list.
type Task struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	Attempt int             `json:"attempt"`
}

// TaskStatus is what pollers of GET /api/tasks/:id see.
type TaskStatus struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	Attempts int             `json:"attempts"`
}

// Handler executes one task. The returned value is serialized into the
// task result for pollers.
type Handler func(ctx context.Context, payload json.RawMessage) (interface{}, error)

// FatalError marks a task failure that retrying cannot fix: malformed
// model output, an unknown user, an out-of-range quiz index.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps err so the worker fails the task without retrying.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err carries the no-retry marker.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
