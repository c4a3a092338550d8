package controller

import (
	"errors"
	"study_backend/internal/service"
	"study_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	Streaks     *service.StreakService
}

func NewUserController(userService *service.UserService, streaks *service.StreakService) *UserController {
	return &UserController{
		UserService: userService,
		Streaks:     streaks,
	}
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Updates name, age or phone number of the current user
// @Tags users
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProfileUpdate true "Profile fields"
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// swagger:model ChangeLanguageRequest
type ChangeLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// ChangeLanguage godoc
// @Summary Switch interface language
// @Description Sets the preferred language for prompts and generated content
// @Tags users
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChangeLanguageRequest true "Language code: en, ru, kaa or uz"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid language code"
// @Router /api/users/language [post]
func (c *UserController) ChangeLanguage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangeLanguageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangeLanguage(claims.UserID, req.Language); err != nil {
		if errors.Is(err, util.ErrInvalidLanguage) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"language": req.Language})
}

// GetStreak godoc
// @Summary Learning streak
// @Description Returns the current and longest consecutive-day streak
// @Tags users
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserStreak} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/users/streak [get]
func (c *UserController) GetStreak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.Streaks.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, streak)
}
