package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"study_backend/internal/util"
	"study_backend/pkg/logger"

	"go.uber.org/zap"
)

// chatHistoryWindow is how many stored turns the assistant sees.
const chatHistoryWindow = 5

var topicClearRe = regexp.MustCompile(`TOPIC_CLEAR:\s*(.+)`)
var topicStripRe = regexp.MustCompile(`TOPIC_CLEAR:.+`)

// ChatReply is the assistant's answer plus the topic signal once the
// discovery conversation has converged.
type ChatReply struct {
	BotMessage string `json:"botMessage"`
	TopicClear bool   `json:"topicClear"`
	Topic      string `json:"topic,omitempty"`
}

type ChatbotService struct {
	AI         *AIService
	ChatRepo   *repository.ChatRepository
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
}

func NewChatbotService(ai *AIService, chatRepo *repository.ChatRepository, userRepo *repository.UserRepository, courseRepo *repository.CourseRepository) *ChatbotService {
	return &ChatbotService{
		AI:         ai,
		ChatRepo:   chatRepo,
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
	}
}

// SendMessage stores the learner turn, asks the model, detects the
// topic marker and stores the cleaned assistant turn. Model failures
// degrade to a localized apology instead of an error so the stored
// conversation never has a missing assistant turn.
func (s *ChatbotService) SendMessage(ctx context.Context, userID uint, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, util.ErrEmptyMessage
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if err := s.ChatRepo.Create(&model.ChatMessage{UserID: userID, Message: message, IsUser: true}); err != nil {
		return nil, err
	}

	history, err := s.ChatRepo.FindRecentByUser(userID, chatHistoryWindow)
	if err != nil {
		return nil, err
	}

	aiHistory := make([]AIChatMessage, 0, len(history))
	for _, msg := range history {
		role := "assistant"
		if msg.IsUser {
			role = "user"
		}
		aiHistory = append(aiHistory, AIChatMessage{Role: role, Content: msg.Message})
	}

	botReply, err := s.AI.Chat(ctx, ChatbotSystemPrompt(user.PreferredLanguage), aiHistory, message)
	if err != nil {
		logger.Log.Error("Chatbot model call failed", zap.Uint("userId", userID), zap.Error(err))
		botReply = ChatbotErrorReply(user.PreferredLanguage)
	}
	botReply = strings.TrimSpace(botReply)

	reply := &ChatReply{BotMessage: botReply}
	if strings.Contains(botReply, TopicClearMarker) {
		reply.TopicClear = true
		if match := topicClearRe.FindStringSubmatch(botReply); match != nil {
			reply.Topic = strings.TrimSpace(match[1])
			reply.BotMessage = strings.TrimSpace(topicStripRe.ReplaceAllString(botReply, ""))
		}
	}

	if err := s.ChatRepo.Create(&model.ChatMessage{UserID: userID, Message: reply.BotMessage, IsUser: false}); err != nil {
		return nil, err
	}

	return reply, nil
}

func (s *ChatbotService) History(userID uint) ([]model.ChatMessage, error) {
	return s.ChatRepo.FindByUser(userID)
}

func (s *ChatbotService) Clear(userID uint) error {
	return s.ChatRepo.DeleteByUser(userID)
}

// lessonExcerptLimit caps how much lesson content goes into the prompt.
const lessonExcerptLimit = 2000

type lessonPrompt struct {
	system  string
	refusal string
}

var lessonPromptTemplates = map[string]lessonPrompt{
	"en": {
		system: `You are a helpful learning assistant for a specific lesson. Your role is to help students understand the lesson content.

LESSON TITLE: %s
LESSON CONTENT (excerpt): %s

QUIZ QUESTIONS (for reference only - DO NOT answer these):
%s

IMPORTANT RULES:
1. Help explain the lesson content and concepts
2. If asked about quiz answers or solutions, politely refuse and encourage the student to study the lesson
3. Keep responses concise and educational
4. Respond in English
5. Be encouraging and supportive`,
		refusal: "I can't help with quiz answers, but I'd be happy to explain the lesson concepts to help you understand the material better!",
	},
	"ru": {
		system: `Вы полезный помощник по обучению для конкретного урока. Ваша роль - помочь студентам понять содержание урока.

НАЗВАНИЕ УРОКА: %s
СОДЕРЖАНИЕ УРОКА (отрывок): %s

ВОПРОСЫ ТЕСТА (только для справки - НЕ отвечайте на них):
%s

ВАЖНЫЕ ПРАВИЛА:
1. Помогайте объяснять содержание урока и концепции
2. Если спрашивают об ответах на тесты, вежливо откажите и поощрите студента изучить урок
3. Давайте краткие и образовательные ответы
4. Отвечайте на русском языке
5. Будьте ободряющими и поддерживающими`,
		refusal: "Я не могу помочь с ответами на тесты, но с удовольствием объясню концепции урока, чтобы помочь вам лучше понять материал!",
	},
	"kaa": {
		system: `Siz belgili bir sabaq ushın paydali oqiw járdemshisisiz. Sizdiń rólińiz - studentlerge sabaq mazmunın túsiniwge járdem beriw.

SABAQ ATI: %s
SABAQ MAZMUNI (úzindi): %s

TEST SORAWLARI (tek anıqlama ushın - bularǵa juwap BERMEŃ):
%s

MÁNISLI QÁǴIDELER:
1. Sabaq mazmunı hám túsiniklerin túsindiriwge járdem beriń
2. Eger test juwapları haqqında sorasalar, sıylı túrde bas tartıń hám studentti sabaqti úyreniwge ruwxlandırıń
3. Qısqa hám bilim beriwshi juwaplar beriń
4. Qaraqalpaq tilinde juwap beriń
5. Qollap-quwatławshı hám ruwxlandırıwshı bolıń`,
		refusal: "Men test juwaplarına járdem bere almayman, biraq sabaq túsiniklerin túsindirip, materialı jaqsı túsiniwińizge járdem beremın!",
	},
}

var quizKeywords = []string{"answer", "solution", "correct", "ответ", "решение", "правильн", "juwap", "durıs", "sheshim"}
var quizContextWords = []string{"quiz", "test", "question", "тест", "вопрос", "soraw"}

// looksLikeQuizQuestion guards the lesson assistant against handing out
// quiz answers. Both an answer keyword and a quiz word must appear.
func looksLikeQuizQuestion(message string) bool {
	lower := strings.ToLower(message)
	hasKeyword := false
	for _, kw := range quizKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return false
	}
	for _, w := range quizContextWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// LessonChat answers questions about one lesson, grounded on a content
// excerpt, and refuses quiz answer requests outright.
func (s *ChatbotService) LessonChat(ctx context.Context, lessonID uint, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", util.ErrEmptyMessage
	}

	lesson, err := s.CourseRepo.FindLesson(lessonID)
	if err != nil {
		return "", util.ErrLessonNotFound
	}

	module, err := s.CourseRepo.FindModule(lesson.ModuleID)
	if err != nil {
		return "", util.ErrLessonNotFound
	}
	course, err := s.CourseRepo.FindByID(module.CourseID)
	if err != nil {
		return "", util.ErrCourseNotFound
	}

	tpl, ok := lessonPromptTemplates[course.Language]
	if !ok {
		tpl = lessonPromptTemplates["en"]
	}

	if looksLikeQuizQuestion(message) {
		return tpl.refusal, nil
	}

	content := lesson.Content
	if runes := []rune(content); len(runes) > lessonExcerptLimit {
		content = string(runes[:lessonExcerptLimit])
	}

	var questions strings.Builder
	for _, q := range lesson.Quizzes {
		questions.WriteString("- ")
		questions.WriteString(q.Question)
		questions.WriteString("\n")
	}

	system := fmt.Sprintf(tpl.system, lesson.Title, content, strings.TrimRight(questions.String(), "\n"))

	reply, err := s.AI.Chat(ctx, system, nil, message)
	if err != nil {
		logger.Log.Error("Lesson chatbot model call failed", zap.Uint("lessonId", lessonID), zap.Error(err))
		return ChatbotErrorReply(course.Language), nil
	}

	return strings.TrimSpace(reply), nil
}
