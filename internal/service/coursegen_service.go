package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"study_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrMalformedOutput marks model output that could not be turned into a
// course even after repair. Retrying the call will not help.
var ErrMalformedOutput = errors.New("model output could not be parsed")

// GeneratedCourse mirrors the JSON schema the generation prompt demands.
type GeneratedCourse struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Modules     []GeneratedModule `json:"modules"`
}

type GeneratedModule struct {
	Title   string            `json:"title"`
	Order   int               `json:"order"`
	Lessons []GeneratedLesson `json:"lessons"`
}

type GeneratedLesson struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Order   int             `json:"order"`
	Quizzes []GeneratedQuiz `json:"quizzes"`
	// Models occasionally emit a singular quiz key instead of the
	// quizzes array. It is appended after the array entries.
	Quiz *GeneratedQuiz `json:"quiz"`
}

type GeneratedQuiz struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type CourseGenService struct {
	AI         *AIService
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
}

func NewCourseGenService(ai *AIService, courseRepo *repository.CourseRepository, userRepo *repository.UserRepository) *CourseGenService {
	return &CourseGenService{
		AI:         ai,
		CourseRepo: courseRepo,
		UserRepo:   userRepo,
	}
}

var (
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	// A backslash not starting a legal JSON escape. $1 keeps the
	// character that followed it.
	badEscapeRe = regexp.MustCompile(`\\([^"\\/bfnrtu])`)
)

// NormalizeModelJSON strips markdown fences and surrounding prose from
// raw model output, leaving the outermost JSON object.
func NormalizeModelJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```json") {
		text = text[7:]
	}
	if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	text = strings.TrimSpace(text)

	if match := jsonObjectRe.FindString(text); match != "" {
		text = match
	}
	return text
}

// RepairJSONEscapes doubles stray backslashes that do not start a legal
// JSON escape sequence, a frequent model defect in lesson content.
func RepairJSONEscapes(text string) string {
	return badEscapeRe.ReplaceAllString(text, `\\$1`)
}

// ParseGeneratedCourse normalizes and decodes model output. A decode
// failure gets exactly one repair attempt before giving up.
func ParseGeneratedCourse(raw string) (*GeneratedCourse, error) {
	text := NormalizeModelJSON(raw)

	var course GeneratedCourse
	err := json.Unmarshal([]byte(text), &course)
	if err != nil {
		logger.Log.Warn("Course JSON decode failed, attempting repair", zap.Error(err))
		repaired := RepairJSONEscapes(text)
		if rerr := json.Unmarshal([]byte(repaired), &course); rerr != nil {
			snippet := text
			if len(snippet) > 100 {
				snippet = snippet[:100]
			}
			return nil, fmt.Errorf("%w: %v. Response text: %s...", ErrMalformedOutput, err, snippet)
		}
		logger.Log.Info("Course JSON repair successful")
	}

	if course.Title == "" || len(course.Modules) == 0 {
		return nil, fmt.Errorf("%w: missing title or modules", ErrMalformedOutput)
	}

	return &course, nil
}

// PersistCourse writes the whole generated course graph in one
// transaction and optionally enrolls the requesting user. Any invalid
// quiz aborts the transaction so no partial course survives.
func (s *CourseGenService) PersistCourse(data *GeneratedCourse, language string, userID uint) (*model.Course, error) {
	course := &model.Course{
		Title:       data.Title,
		Description: data.Description,
		Language:    language,
		UserID:      userID,
	}

	err := s.CourseRepo.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}

		for _, modData := range data.Modules {
			module := &model.Module{
				CourseID: course.ID,
				Title:    modData.Title,
				Order:    modData.Order,
			}
			if err := tx.Create(module).Error; err != nil {
				return err
			}

			for _, lessonData := range modData.Lessons {
				order := lessonData.Order
				if order == 0 {
					order = 1
				}
				lesson := &model.Lesson{
					ModuleID: module.ID,
					Title:    lessonData.Title,
					Content:  lessonData.Content,
					Order:    order,
				}
				if err := tx.Create(lesson).Error; err != nil {
					return err
				}

				quizzes := lessonData.Quizzes
				if lessonData.Quiz != nil {
					quizzes = append(quizzes, *lessonData.Quiz)
				}

				for _, quizData := range quizzes {
					if quizData.CorrectAnswer < 0 || quizData.CorrectAnswer >= len(quizData.Options) {
						return fmt.Errorf("%w: correct_answer index %d out of range for %d options",
							ErrMalformedOutput, quizData.CorrectAnswer, len(quizData.Options))
					}
					quiz := &model.Quiz{
						LessonID:      lesson.ID,
						Question:      quizData.Question,
						Options:       quizData.Options,
						CorrectAnswer: quizData.Options[quizData.CorrectAnswer],
					}
					if err := tx.Create(quiz).Error; err != nil {
						return err
					}
				}
			}
		}

		if userID != 0 {
			uc := &model.UserCourse{UserID: userID, CourseID: course.ID}
			if err := tx.Create(uc).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return course, nil
}

// GenerateCourse runs the full pipeline: prompt, model call, normalize,
// persist. It is executed on the heavy queue, never inline.
func (s *CourseGenService) GenerateCourse(ctx context.Context, userID uint, topic, language string) (*model.Course, error) {
	prompt := CourseGenerationPrompt(topic, language)

	raw, err := s.AI.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	data, err := ParseGeneratedCourse(raw)
	if err != nil {
		return nil, err
	}

	course, err := s.PersistCourse(data, language, userID)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Course generated",
		zap.Uint("courseId", course.ID),
		zap.Uint("userId", userID),
		zap.String("topic", topic),
		zap.String("language", language))

	return course, nil
}
