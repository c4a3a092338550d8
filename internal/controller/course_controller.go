package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"study_backend/internal/service"
	"study_backend/internal/taskqueue"
	"study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Courses      *service.CourseService
	Progress     *service.ProgressService
	Certificates *service.CertificateService
	AuthService  *service.AuthService
	Queue        *taskqueue.Queue
}

func NewCourseController(courses *service.CourseService, progress *service.ProgressService, certificates *service.CertificateService, auth *service.AuthService, queue *taskqueue.Queue) *CourseController {
	return &CourseController{
		Courses:      courses,
		Progress:     progress,
		Certificates: certificates,
		AuthService:  auth,
		Queue:        queue,
	}
}

// swagger:model GenerateCourseRequest
type GenerateCourseRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// GenerateCourse godoc
// @Summary Generate a course
// @Description Enqueues AI course generation on the heavy queue and returns a task id to poll
// @Tags courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateCourseRequest true "Course topic"
// @Success 202 {object} util.Response{data=object} "Accepted"
// @Failure 400 {object} util.Response "Empty topic"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/courses/generate [post]
func (c *CourseController) GenerateCourse(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GenerateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		util.BadRequest(ctx, "Topic cannot be empty")
		return
	}

	taskID, err := c.Queue.Enqueue(ctx.Request.Context(), taskqueue.QueueHeavy, service.TaskCourseGenerate, service.CourseGeneratePayload{
		UserID:   user.ID,
		Topic:    strings.TrimSpace(req.Topic),
		Language: user.PreferredLanguage,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Accepted(ctx, gin.H{"taskId": taskID})
}

// GetDashboard godoc
// @Summary Dashboard
// @Description Lists enrolled courses with completion percentage and total XP
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard [get]
func (c *CourseController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.Courses.GetDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// GetCourse godoc
// @Summary Course detail
// @Description Returns the full course tree with completion state
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseDetail} "Success"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	detail, err := c.Courses.GetCourseDetail(claims.UserID, uint(courseID))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// DownloadCertificate godoc
// @Summary Completion certificate
// @Description Streams a PDF certificate once every lesson of the course is completed
// @Tags courses
// @Produce  application/pdf
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {file} file "PDF certificate"
// @Failure 403 {object} util.Response "Course not completed"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{id}/certificate [get]
func (c *CourseController) DownloadCertificate(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	detail, err := c.Courses.GetCourseDetail(user.ID, uint(courseID))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if !detail.IsCompleted {
		util.Error(ctx, 403, "You must complete all lessons to download the certificate.")
		return
	}

	pdf, _, err := c.Certificates.Generate(ctx.Request.Context(), user, detail.Course)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := fmt.Sprintf("Certificate_%s_%s.pdf",
		strings.ReplaceAll(detail.Course.Title, " ", "_"),
		strings.ReplaceAll(user.Name, " ", "_"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(200, "application/pdf", pdf)
}
