package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrCourseNotCompleted = errors.New("course not completed yet")
	ErrEmptyMessage       = errors.New("message cannot be empty")
	ErrEmptyTopic         = errors.New("topic cannot be empty")
	ErrInvalidLanguage    = errors.New("invalid language code")
)
