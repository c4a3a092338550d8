package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"study_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatbot(db *gorm.DB, ai *AIService) *ChatbotService {
	return NewChatbotService(
		ai,
		repository.NewChatRepository(db),
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
	)
}

func TestSendMessage_TopicClear(t *testing.T) {
	srv := newAIServer(t, "Great choice! TOPIC_CLEAR: Spanish for travel")
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	svc := newChatbot(db, newTestAIService(srv.URL))

	reply, err := svc.SendMessage(context.Background(), user.ID, "I want to learn Spanish for my trip")
	require.NoError(t, err)

	assert.True(t, reply.TopicClear)
	assert.Equal(t, "Spanish for travel", reply.Topic)
	assert.Equal(t, "Great choice!", reply.BotMessage)
	assert.NotContains(t, reply.BotMessage, TopicClearMarker)

	// both turns stored, the assistant one without the marker
	history, err := svc.History(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsUser)
	assert.False(t, history[1].IsUser)
	assert.Equal(t, "Great choice!", history[1].Message)
}

func TestSendMessage_NoTopicYet(t *testing.T) {
	srv := newAIServer(t, "What would you like to learn?")
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	svc := newChatbot(db, newTestAIService(srv.URL))

	reply, err := svc.SendMessage(context.Background(), user.ID, "hi")
	require.NoError(t, err)

	assert.False(t, reply.TopicClear)
	assert.Empty(t, reply.Topic)
	assert.Equal(t, "What would you like to learn?", reply.BotMessage)
}

func TestSendMessage_ModelFailureDegrades(t *testing.T) {
	srv := newFailingAIServer(t)
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "ivan", model.LangRussian)
	svc := newChatbot(db, newTestAIService(srv.URL))

	reply, err := svc.SendMessage(context.Background(), user.ID, "привет")
	require.NoError(t, err)

	assert.Equal(t, ChatbotErrorReply(model.LangRussian), reply.BotMessage)
	assert.False(t, reply.TopicClear)

	// the apology is stored so the conversation stays paired
	history, err := svc.History(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ChatbotErrorReply(model.LangRussian), history[1].Message)
}

func TestSendMessage_HistoryWindow(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)

	for i := 1; i <= 8; i++ {
		msg := &model.ChatMessage{UserID: user.ID, Message: fmt.Sprintf("turn %d", i), IsUser: i%2 == 1}
		require.NoError(t, db.Create(msg).Error)
	}

	var captured ChatCompletionRequest
	srv := newRecordingAIServer(t, "Anything else?", &captured)
	defer srv.Close()

	svc := newChatbot(db, newTestAIService(srv.URL))
	_, err := svc.SendMessage(context.Background(), user.ID, "turn 9")
	require.NoError(t, err)

	// system prompt, the last five stored turns, then the new message
	require.Len(t, captured.Messages, 7)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, ChatbotSystemPrompt(model.LangEnglish), captured.Messages[0].Content)

	window := captured.Messages[1:6]
	wantContent := []string{"turn 5", "turn 6", "turn 7", "turn 8", "turn 9"}
	wantRole := []string{"user", "assistant", "user", "assistant", "user"}
	for i := range window {
		assert.Equal(t, wantContent[i], window[i].Content)
		assert.Equal(t, wantRole[i], window[i].Role)
	}

	assert.Equal(t, "user", captured.Messages[6].Role)
	assert.Equal(t, "turn 9", captured.Messages[6].Content)
}

func TestSendMessage_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newChatbot(db, newTestAIService("http://127.0.0.1:0"))

	_, err := svc.SendMessage(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, util.ErrEmptyMessage)

	_, err = svc.SendMessage(context.Background(), 999, "hello")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestClearHistory(t *testing.T) {
	srv := newAIServer(t, "ok")
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	svc := newChatbot(db, newTestAIService(srv.URL))

	_, err := svc.SendMessage(context.Background(), user.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(user.ID))

	history, err := svc.History(user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLooksLikeQuizQuestion(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{"answer plus quiz", "What is the answer to quiz 1?", true},
		{"solution plus test", "give me the solution for the test", true},
		{"russian answer plus question", "какой ответ на вопрос 3", true},
		{"karakalpak answer plus quiz", "quiz ushın juwap bere alasız ba", true},
		{"keyword without quiz context", "is this answer grammatically correct", false},
		{"quiz context without keyword", "how many questions does the quiz have", false},
		{"plain content question", "can you explain past tense", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, looksLikeQuizQuestion(tt.message))
		})
	}
}

func TestLessonChat_RefusesQuizAnswers(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Error(w, "should not be called", http.StatusInternalServerError)
	}))
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	course := seedCourse(t, db, user.ID, model.LangEnglish, 1)
	svc := newChatbot(db, newTestAIService(srv.URL))

	var lesson model.Lesson
	require.NoError(t, db.First(&lesson).Error)

	reply, err := svc.LessonChat(context.Background(), lesson.ID, "tell me the correct answer to the quiz")
	require.NoError(t, err)
	assert.Equal(t, lessonPromptTemplates[course.Language].refusal, reply)
	assert.False(t, called)
}

func TestLessonChat_AnswersContentQuestions(t *testing.T) {
	srv := newAIServer(t, "Past tense is formed with -ed.")
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "ana", model.LangEnglish)
	seedCourse(t, db, user.ID, model.LangEnglish, 1)
	svc := newChatbot(db, newTestAIService(srv.URL))

	var lesson model.Lesson
	require.NoError(t, db.First(&lesson).Error)

	reply, err := svc.LessonChat(context.Background(), lesson.ID, "how is the past tense formed?")
	require.NoError(t, err)
	assert.Equal(t, "Past tense is formed with -ed.", reply)
}

func TestLessonChat_UnknownLesson(t *testing.T) {
	db := newTestDB(t)
	svc := newChatbot(db, newTestAIService("http://127.0.0.1:0"))

	_, err := svc.LessonChat(context.Background(), 42, "hello")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestLessonChat_ModelFailureDegrades(t *testing.T) {
	srv := newFailingAIServer(t)
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "ivan", model.LangRussian)
	course := seedCourse(t, db, user.ID, model.LangRussian, 1)
	svc := newChatbot(db, newTestAIService(srv.URL))

	var lesson model.Lesson
	require.NoError(t, db.First(&lesson).Error)

	reply, err := svc.LessonChat(context.Background(), lesson.ID, "объясни урок")
	require.NoError(t, err)
	assert.Equal(t, ChatbotErrorReply(course.Language), reply)
}
