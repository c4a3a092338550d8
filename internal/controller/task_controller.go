package controller

import (
	"errors"
	"study_backend/internal/taskqueue"
	"study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	Queue *taskqueue.Queue
}

func NewTaskController(queue *taskqueue.Queue) *TaskController {
	return &TaskController{Queue: queue}
}

// GetTask godoc
// @Summary Task status
// @Description Returns the status and result of a background task
// @Tags tasks
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Task ID"
// @Success 200 {object} util.Response{data=taskqueue.TaskStatus} "Success"
// @Failure 404 {object} util.Response "Task not found"
// @Router /api/tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	status, err := c.Queue.GetStatus(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrTaskNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}
