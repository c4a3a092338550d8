package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"study_backend/internal/config"
	"study_backend/internal/model"
	"study_backend/pkg/database"
	"study_backend/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB opens an in-memory sqlite database with the full schema.
// A single connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, language string) *model.User {
	t.Helper()
	user := &model.User{
		Name:              name,
		Email:             name + "@example.com",
		Password:          "hashed",
		PreferredLanguage: language,
		LastLogin:         time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedCourse creates one course with a single module holding the given
// number of lessons, each with one quiz whose first option is correct.
func seedCourse(t *testing.T, db *gorm.DB, userID uint, language string, lessonCount int) *model.Course {
	t.Helper()

	course := &model.Course{Title: "Test Course", Language: language, UserID: userID}
	require.NoError(t, db.Create(course).Error)

	module := &model.Module{CourseID: course.ID, Title: "Module 1", Order: 1}
	require.NoError(t, db.Create(module).Error)

	for i := 1; i <= lessonCount; i++ {
		lesson := &model.Lesson{
			ModuleID: module.ID,
			Title:    fmt.Sprintf("Lesson %d", i),
			Content:  "Lesson content",
			Order:    i,
		}
		require.NoError(t, db.Create(lesson).Error)

		quiz := &model.Quiz{
			LessonID:      lesson.ID,
			Question:      fmt.Sprintf("Question %d?", i),
			Options:       []string{"right", "wrong", "also wrong"},
			CorrectAnswer: "right",
		}
		require.NoError(t, db.Create(quiz).Error)
	}

	if userID != 0 {
		require.NoError(t, db.Create(&model.UserCourse{UserID: userID, CourseID: course.ID}).Error)
	}
	return course
}

// newRecordingAIServer answers like newAIServer but also decodes every
// request body into captured so tests can inspect the prompt.
func newRecordingAIServer(t *testing.T, content string, captured *ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, strconv.Quote(content))
	}))
}

// newAIServer fakes an OpenAI-compatible endpoint that always answers
// with the given assistant content.
func newAIServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, strconv.Quote(content))
	}))
}

func newFailingAIServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
}

func newTestAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "test-model",
		GenTimeout: 5 * time.Second,
	})
}
