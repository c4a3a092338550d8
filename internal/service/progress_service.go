package service

import (
	"errors"
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"study_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

const (
	correctAnswerXP   = 10
	incorrectAnswerXP = -5
)

// QuizResult reports one submission outcome. CorrectAnswer is only
// revealed on a wrong answer.
type QuizResult struct {
	Correct       bool   `json:"correct"`
	ScoreDelta    int    `json:"scoreDelta"`
	LessonScore   int    `json:"lessonScore"`
	TotalXP       int    `json:"totalXp"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	NextLessonID  *uint  `json:"nextLessonId,omitempty"`
}

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, courseRepo *repository.CourseRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
	}
}

// SubmitQuiz grades one answer against the stored option text. The
// lesson is marked completed on the first submission no matter the
// outcome, and stays completed. The score moves by +10 or -5 every
// submission and may go below zero.
func (s *ProgressService) SubmitQuiz(userID, quizID uint, selectedOption string) (*QuizResult, error) {
	if selectedOption == "" {
		return nil, errors.New("please select an option")
	}

	quiz, err := s.CourseRepo.FindQuiz(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	progress, err := s.ProgressRepo.FindByUserAndLesson(userID, quiz.LessonID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		progress = &model.UserProgress{UserID: userID, LessonID: quiz.LessonID}
		if err := s.ProgressRepo.Create(progress); err != nil {
			return nil, err
		}
	}

	if !progress.IsCompleted {
		progress.IsCompleted = true
		now := time.Now()
		progress.CompletedAt = &now
	}

	correct := selectedOption == quiz.CorrectAnswer
	delta := incorrectAnswerXP
	if correct {
		delta = correctAnswerXP
	}
	progress.Score += delta

	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}

	total, err := s.ProgressRepo.TotalScore(userID)
	if err != nil {
		return nil, err
	}

	result := &QuizResult{
		Correct:     correct,
		ScoreDelta:  delta,
		LessonScore: progress.Score,
		TotalXP:     total,
	}
	if !correct {
		result.CorrectAnswer = quiz.CorrectAnswer
	} else if next := s.nextLessonID(quiz.LessonID); next != 0 {
		result.NextLessonID = &next
	}

	return result, nil
}

// nextLessonID finds the lesson after the given one, first inside its
// module, then falling through to the opening lesson of the next module
// in the course. Zero means the course is finished.
func (s *ProgressService) nextLessonID(lessonID uint) uint {
	lesson, err := s.CourseRepo.FindLesson(lessonID)
	if err != nil {
		return 0
	}
	lessons, err := s.CourseRepo.FindModuleLessons(lesson.ModuleID)
	if err != nil {
		return 0
	}
	for i, l := range lessons {
		if l.ID == lessonID && i+1 < len(lessons) {
			return lessons[i+1].ID
		}
	}

	module, err := s.CourseRepo.FindModule(lesson.ModuleID)
	if err != nil {
		return 0
	}
	next, err := s.CourseRepo.FirstLessonAfterModule(module.CourseID, module.Order)
	if err != nil {
		return 0
	}
	return next.ID
}

// TotalXP is the user's summed lesson score across all courses.
func (s *ProgressService) TotalXP(userID uint) (int, error) {
	return s.ProgressRepo.TotalScore(userID)
}

// IsCourseCompleted reports whether every lesson of the course is
// completed. Courses with no lessons are never completed.
func (s *ProgressService) IsCourseCompleted(userID, courseID uint) (bool, error) {
	lessonIDs, err := s.CourseRepo.CourseLessonIDs(courseID)
	if err != nil {
		return false, err
	}
	if len(lessonIDs) == 0 {
		return false, nil
	}
	completed, err := s.ProgressRepo.CountCompleted(userID, lessonIDs)
	if err != nil {
		return false, err
	}
	return completed == int64(len(lessonIDs)), nil
}

// CourseProgress is the completion percentage of one course, 0 to 100.
func (s *ProgressService) CourseProgress(userID, courseID uint) (int, error) {
	lessonIDs, err := s.CourseRepo.CourseLessonIDs(courseID)
	if err != nil {
		return 0, err
	}
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	completed, err := s.ProgressRepo.CountCompleted(userID, lessonIDs)
	if err != nil {
		return 0, err
	}
	return int(completed * 100 / int64(len(lessonIDs))), nil
}

// IsLessonCompleted reports sticky completion for one lesson.
func (s *ProgressService) IsLessonCompleted(userID, lessonID uint) bool {
	progress, err := s.ProgressRepo.FindByUserAndLesson(userID, lessonID)
	if err != nil {
		return false
	}
	return progress.IsCompleted
}
