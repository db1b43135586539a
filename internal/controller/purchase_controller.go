package controller

import (
	"errors"

	"agriverse_backend/internal/service"
	"agriverse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PurchaseController struct {
	PurchaseService *service.PurchaseService
}

func NewPurchaseController(purchaseService *service.PurchaseService) *PurchaseController {
	return &PurchaseController{PurchaseService: purchaseService}
}

type confirmRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// @Summary Initiate a purchase
// @Description Opens a pending purchase for the course at its current price
// @Tags purchases
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body service.PurchaseInput true "payment method"
// @Success 201 {object} util.Response
// @Router /api/purchases/{id} [post]
func (c *PurchaseController) Initiate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PurchaseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	purchase, err := c.PurchaseService.Initiate(user.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAlreadyPurchased):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"transaction_id": purchase.TransactionID,
		"amount":         purchase.Amount,
		"status":         purchase.Status,
	})
}

// @Summary Confirm a purchase
// @Description Completes a pending purchase, enrolls the buyer and credits the mentor
// @Tags purchases
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body confirmRequest true "transaction id"
// @Success 200 {object} util.Response
// @Router /api/purchases/confirm [post]
func (c *PurchaseController) Confirm(ctx *gin.Context) {
	var req confirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	purchase, err := c.PurchaseService.Confirm(req.TransactionID)
	if err != nil {
		if errors.Is(err, util.ErrPurchaseNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, purchase)
}

// @Summary My purchased courses
// @Tags purchases
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/purchases/my-courses [get]
func (c *PurchaseController) MyCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	purchases, err := c.PurchaseService.MyCourses(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, purchases)
}

// @Summary Update watch progress
// @Description Records the last watched position in a purchased course
// @Tags purchases
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body service.WatchProgressInput true "watch payload"
// @Success 200 {object} util.Response
// @Router /api/purchases/{id}/progress [put]
func (c *PurchaseController) UpdateWatchProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.WatchProgressInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	purchase, err := c.PurchaseService.UpdateWatchProgress(user.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPurchaseNotFound), errors.Is(err, util.ErrVideoNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"completion_percentage": purchase.CompletionPercent,
		"last_watched_video":    purchase.LastWatchedVideoID,
	})
}
