package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"study_backend/internal/taskqueue"
	"study_backend/internal/util"

	"gorm.io/gorm"
)

// Task names as stored on the queues.
const (
	TaskCourseGenerate = "course.generate"
	TaskChatReply      = "chat.reply"
)

type CourseGeneratePayload struct {
	UserID   uint   `json:"userId"`
	Topic    string `json:"topic"`
	Language string `json:"language"`
}

// CourseGenerateResult is what the status poller sees once the course
// exists.
type CourseGenerateResult struct {
	CourseID    uint   `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

type ChatReplyPayload struct {
	UserID  uint   `json:"userId"`
	Message string `json:"message"`
}

// RegisterCourseGenerateTask binds the heavy course generation task.
// Bad input and malformed model output fail immediately; transient
// model or infrastructure errors are left retryable.
func RegisterCourseGenerateTask(q *taskqueue.Queue, courseGen *CourseGenService) {
	q.Register(TaskCourseGenerate, func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var p CourseGeneratePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, taskqueue.Fatal(err)
		}
		if p.Topic == "" {
			return nil, taskqueue.Fatal(util.ErrEmptyTopic)
		}

		if _, err := courseGen.UserRepo.FindByID(p.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, taskqueue.Fatal(util.ErrUserNotFound)
			}
			return nil, err
		}

		course, err := courseGen.GenerateCourse(ctx, p.UserID, p.Topic, p.Language)
		if err != nil {
			if errors.Is(err, ErrMalformedOutput) {
				return nil, taskqueue.Fatal(err)
			}
			return nil, err
		}

		return &CourseGenerateResult{
			CourseID:    course.ID,
			Title:       course.Title,
			Description: course.Description,
			Message:     fmt.Sprintf("Course \"%s\" generated successfully!", course.Title),
		}, nil
	})
}

// RegisterChatReplyTask binds the async topic discovery reply task.
func RegisterChatReplyTask(q *taskqueue.Queue, chatbot *ChatbotService) {
	q.Register(TaskChatReply, func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var p ChatReplyPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, taskqueue.Fatal(err)
		}

		reply, err := chatbot.SendMessage(ctx, p.UserID, p.Message)
		if err != nil {
			if errors.Is(err, util.ErrEmptyMessage) || errors.Is(err, util.ErrUserNotFound) {
				return nil, taskqueue.Fatal(err)
			}
			return nil, err
		}
		return reply, nil
	})
}
