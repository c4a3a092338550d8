package controller

import (
	"errors"
	"study_backend/internal/service"
	"study_backend/internal/taskqueue"
	"study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Chatbot *service.ChatbotService
	Queue   *taskqueue.Queue
}

func NewChatController(chatbot *service.ChatbotService, queue *taskqueue.Queue) *ChatController {
	return &ChatController{
		Chatbot: chatbot,
		Queue:   queue,
	}
}

// swagger:model ChatMessageRequest
type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage godoc
// @Summary Send a topic discovery message
// @Description Stores the message, returns the assistant reply and the topic once it is clear
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatMessageRequest true "Message"
// @Success 200 {object} util.Response{data=service.ChatReply} "Success"
// @Failure 400 {object} util.Response "Empty message"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/chat/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Message cannot be empty")
		return
	}

	reply, err := c.Chatbot.SendMessage(ctx.Request.Context(), claims.UserID, req.Message)
	if err != nil {
		if errors.Is(err, util.ErrEmptyMessage) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, reply)
}

// SendMessageAsync godoc
// @Summary Queue a topic discovery message
// @Description Enqueues the reply on the default queue and returns a task id to poll
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatMessageRequest true "Message"
// @Success 202 {object} util.Response{data=object} "Accepted"
// @Failure 400 {object} util.Response "Empty message"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/chat/messages/async [post]
func (c *ChatController) SendMessageAsync(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Message cannot be empty")
		return
	}

	taskID, err := c.Queue.Enqueue(ctx.Request.Context(), taskqueue.QueueDefault, service.TaskChatReply, service.ChatReplyPayload{
		UserID:  claims.UserID,
		Message: req.Message,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Accepted(ctx, gin.H{"taskId": taskID})
}

// GetHistory godoc
// @Summary Conversation history
// @Description Returns all stored chat turns in chronological order
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ChatMessage} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/chat/messages [get]
func (c *ChatController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	messages, err := c.Chatbot.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}

// ClearHistory godoc
// @Summary Clear conversation
// @Description Deletes the user's entire topic discovery conversation
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/chat/messages [delete]
func (c *ChatController) ClearHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Chatbot.Clear(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
