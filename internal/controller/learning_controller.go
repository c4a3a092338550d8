package controller

import (
	"errors"
	"strconv"
	"study_backend/internal/service"
	"study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	Courses  *service.CourseService
	Progress *service.ProgressService
	Chatbot  *service.ChatbotService
}

func NewLearningController(courses *service.CourseService, progress *service.ProgressService, chatbot *service.ChatbotService) *LearningController {
	return &LearningController{
		Courses:  courses,
		Progress: progress,
		Chatbot:  chatbot,
	}
}

// GetLesson godoc
// @Summary Lesson detail
// @Description Returns a lesson with its quizzes and neighbour lessons in the module
// @Tags learning
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Lesson ID"
// @Success 200 {object} util.Response{data=service.LessonDetail} "Success"
// @Failure 404 {object} util.Response "Lesson not found"
// @Router /api/lessons/{id} [get]
func (c *LearningController) GetLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson id")
		return
	}

	detail, err := c.Courses.GetLessonDetail(claims.UserID, uint(lessonID))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	SelectedOption string `json:"selectedOption" binding:"required"`
}

// SubmitQuiz godoc
// @Summary Submit a quiz answer
// @Description Scores the selected option and returns the XP delta and lesson state
// @Tags learning
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Quiz ID"
// @Param   body body SubmitQuizRequest true "Selected option text"
// @Success 200 {object} util.Response{data=service.QuizResult} "Success"
// @Failure 400 {object} util.Response "Empty option"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id}/submit [post]
func (c *LearningController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz id")
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Selected option cannot be empty")
		return
	}

	result, err := c.Progress.SubmitQuiz(claims.UserID, uint(quizID), req.SelectedOption)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// swagger:model LessonChatRequest
type LessonChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// LessonChat godoc
// @Summary Ask the lesson assistant
// @Description Answers a question about the lesson content in the course language
// @Tags learning
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Lesson ID"
// @Param   body body LessonChatRequest true "Question"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Empty message"
// @Failure 404 {object} util.Response "Lesson not found"
// @Router /api/lessons/{id}/chat [post]
func (c *LearningController) LessonChat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson id")
		return
	}

	var req LessonChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Message cannot be empty")
		return
	}

	reply, err := c.Chatbot.LessonChat(ctx.Request.Context(), uint(lessonID), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(ctx, "Message cannot be empty")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"reply": reply})
}
