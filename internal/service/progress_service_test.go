package service

import (
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"study_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProgress(db *gorm.DB) *ProgressService {
	return NewProgressService(repository.NewProgressRepository(db), repository.NewCourseRepository(db))
}

func firstQuiz(t *testing.T, db *gorm.DB) *model.Quiz {
	t.Helper()
	var quiz model.Quiz
	require.NoError(t, db.Order("id").First(&quiz).Error)
	return &quiz
}

func TestSubmitQuiz_Correct(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	seedCourse(t, db, user.ID, model.LangEnglish, 2)
	svc := newProgress(db)
	quiz := firstQuiz(t, db)

	result, err := svc.SubmitQuiz(user.ID, quiz.ID, "right")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, 10, result.ScoreDelta)
	assert.Equal(t, 10, result.LessonScore)
	assert.Equal(t, 10, result.TotalXP)
	assert.Empty(t, result.CorrectAnswer)
	require.NotNil(t, result.NextLessonID)
}

func TestSubmitQuiz_Incorrect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	seedCourse(t, db, user.ID, model.LangEnglish, 1)
	svc := newProgress(db)
	quiz := firstQuiz(t, db)

	result, err := svc.SubmitQuiz(user.ID, quiz.ID, "wrong")
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, -5, result.ScoreDelta)
	assert.Equal(t, -5, result.LessonScore)
	assert.Equal(t, "right", result.CorrectAnswer)
	assert.Nil(t, result.NextLessonID)

	// wrong answers still mark the lesson completed
	assert.True(t, svc.IsLessonCompleted(user.ID, quiz.LessonID))
}

func TestSubmitQuiz_ScoreAccumulates(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	seedCourse(t, db, user.ID, model.LangEnglish, 1)
	svc := newProgress(db)
	quiz := firstQuiz(t, db)

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitQuiz(user.ID, quiz.ID, "wrong")
		require.NoError(t, err)
	}

	total, err := svc.TotalXP(user.ID)
	require.NoError(t, err)
	assert.Equal(t, -15, total)

	result, err := svc.SubmitQuiz(user.ID, quiz.ID, "right")
	require.NoError(t, err)
	assert.Equal(t, -5, result.LessonScore)
	assert.Equal(t, -5, result.TotalXP)
}

func TestSubmitQuiz_CompletionIsSticky(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	seedCourse(t, db, user.ID, model.LangEnglish, 1)
	svc := newProgress(db)
	quiz := firstQuiz(t, db)

	_, err := svc.SubmitQuiz(user.ID, quiz.ID, "right")
	require.NoError(t, err)

	var progress model.UserProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, quiz.LessonID).First(&progress).Error)
	firstCompletedAt := progress.CompletedAt
	require.NotNil(t, firstCompletedAt)

	_, err = svc.SubmitQuiz(user.ID, quiz.ID, "wrong")
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, quiz.LessonID).First(&progress).Error)
	assert.True(t, progress.IsCompleted)
	assert.Equal(t, firstCompletedAt.Unix(), progress.CompletedAt.Unix())
}

func TestSubmitQuiz_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newProgress(db)

	_, err := svc.SubmitQuiz(1, 1, "")
	assert.Error(t, err)

	_, err = svc.SubmitQuiz(1, 42, "right")
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestCourseCompletionAndProgress(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	course := seedCourse(t, db, user.ID, model.LangEnglish, 2)
	svc := newProgress(db)

	done, err := svc.IsCourseCompleted(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, done)

	percent, err := svc.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, percent)

	var quizzes []model.Quiz
	require.NoError(t, db.Order("id").Find(&quizzes).Error)
	require.Len(t, quizzes, 2)

	_, err = svc.SubmitQuiz(user.ID, quizzes[0].ID, "right")
	require.NoError(t, err)

	percent, err = svc.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, percent)

	_, err = svc.SubmitQuiz(user.ID, quizzes[1].ID, "wrong")
	require.NoError(t, err)

	done, err = svc.IsCourseCompleted(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestIsCourseCompleted_EmptyCourse(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)

	course := &model.Course{Title: "Empty", Language: model.LangEnglish, UserID: user.ID}
	require.NoError(t, db.Create(course).Error)

	done, err := newProgress(db).IsCourseCompleted(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestNextLessonWithinModule(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	seedCourse(t, db, user.ID, model.LangEnglish, 2)
	svc := newProgress(db)

	var quizzes []model.Quiz
	require.NoError(t, db.Order("id").Find(&quizzes).Error)

	var lessons []model.Lesson
	require.NoError(t, db.Order("sort_order, id").Find(&lessons).Error)

	result, err := svc.SubmitQuiz(user.ID, quizzes[0].ID, "right")
	require.NoError(t, err)
	require.NotNil(t, result.NextLessonID)
	assert.Equal(t, lessons[1].ID, *result.NextLessonID)

	// last lesson of the course has no successor
	result, err = svc.SubmitQuiz(user.ID, quizzes[1].ID, "right")
	require.NoError(t, err)
	assert.Nil(t, result.NextLessonID)
}

func TestNextLessonCrossesModuleBoundary(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	course := seedCourse(t, db, user.ID, model.LangEnglish, 1)
	svc := newProgress(db)

	module2 := &model.Module{CourseID: course.ID, Title: "Module 2", Order: 2}
	require.NoError(t, db.Create(module2).Error)
	opening := &model.Lesson{ModuleID: module2.ID, Title: "Opening", Content: "next", Order: 1}
	require.NoError(t, db.Create(opening).Error)
	trailing := &model.Lesson{ModuleID: module2.ID, Title: "Trailing", Content: "later", Order: 2}
	require.NoError(t, db.Create(trailing).Error)

	// finishing the only lesson of module 1 lands on module 2's opener
	quiz := firstQuiz(t, db)
	result, err := svc.SubmitQuiz(user.ID, quiz.ID, "right")
	require.NoError(t, err)
	require.NotNil(t, result.NextLessonID)
	assert.Equal(t, opening.ID, *result.NextLessonID)
}
