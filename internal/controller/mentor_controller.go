package controller

import (
	"errors"

	"agriverse_backend/internal/service"
	"agriverse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MentorController struct {
	MentorService   *service.MentorService
	PurchaseService *service.PurchaseService
}

func NewMentorController(mentorService *service.MentorService, purchaseService *service.PurchaseService) *MentorController {
	return &MentorController{
		MentorService:   mentorService,
		PurchaseService: purchaseService,
	}
}

// @Summary Register as a mentor
// @Description Promotes the account to mentor and records the teaching profile
// @Tags mentors
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.MentorProfileInput true "mentor profile"
// @Success 200 {object} util.Response
// @Router /api/mentors/register [post]
func (c *MentorController) Register(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.MentorProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mentor, err := c.MentorService.Register(user.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, mentor)
}

// @Summary Mentor profile
// @Tags mentors
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/mentors/profile [get]
func (c *MentorController) Profile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	mentor, err := c.MentorService.Profile(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, mentor)
}

// @Summary Mentor dashboard stats
// @Description Course counts, enrolled students, accumulated earnings and average rating
// @Tags mentors
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/mentors/stats [get]
func (c *MentorController) Stats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, courses, err := c.PurchaseService.MentorStats(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"stats":   stats,
		"courses": courses,
	})
}
