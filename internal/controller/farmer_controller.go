package controller

import (
	"errors"

	"agriverse_backend/internal/service"
	"agriverse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FarmerController struct {
	FarmerService *service.FarmerService
}

func NewFarmerController(farmerService *service.FarmerService) *FarmerController {
	return &FarmerController{FarmerService: farmerService}
}

type verificationRequest struct {
	VerificationScore *float64 `json:"verification_score" binding:"required,gte=0,lte=100"`
}

type ratingRequest struct {
	RatingScore *float64 `json:"rating_score" binding:"required,gte=0,lte=100"`
}

// @Summary Register as a farmer
// @Description Creates the farmer profile and switches the account role to farmer
// @Tags farmers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FarmerRegistration true "farmer details"
// @Success 201 {object} util.Response
// @Router /api/farmers/register [post]
func (c *FarmerController) Register(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.FarmerRegistration
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	farmer, err := c.FarmerService.Register(user.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrFarmerExists) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"message": "Farmer registration successful",
		"farmer":  farmer,
	})
}

// @Summary Farmer profile
// @Tags farmers
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/farmers/profile [get]
func (c *FarmerController) Profile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	farmer, err := c.FarmerService.Profile(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrFarmerNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, farmer)
}

// @Summary Override the verification score
// @Description Sets the verification score directly, bypassing the progress-derived computation, and recomputes rank
// @Tags farmers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body verificationRequest true "score payload"
// @Success 200 {object} util.Response
// @Router /api/farmers/verification [put]
func (c *FarmerController) UpdateVerification(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req verificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	farmer, err := c.FarmerService.SetVerificationScore(user.UserID, *req.VerificationScore)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrFarmerNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrScoreOutOfRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"message": "Verification score updated",
		"farmer":  farmer,
	})
}

// @Summary Verification status
// @Tags farmers
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/farmers/verification-status [get]
func (c *FarmerController) VerificationStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.FarmerService.Status(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrFarmerNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// @Summary Set the marketplace rating score
// @Description Admin ingest of the externally computed rating score for a farmer
// @Tags farmers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "farmer id"
// @Param body body ratingRequest true "rating payload"
// @Success 200 {object} util.Response
// @Router /api/farmers/{id}/rating [put]
func (c *FarmerController) UpdateRating(ctx *gin.Context) {
	var req ratingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	farmer, err := c.FarmerService.SetRatingScore(util.MustParseUint(ctx.Param("id")), *req.RatingScore)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrFarmerNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrScoreOutOfRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"message": "Rating score updated",
		"farmer":  farmer,
	})
}
