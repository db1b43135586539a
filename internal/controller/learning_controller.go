package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"agriverse_backend/internal/config"
	"agriverse_backend/internal/service"
	"agriverse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
	StorageService  *service.StorageService
	Config          *config.Config
}

func NewLearningController(learningService *service.LearningService, storageService *service.StorageService, cfg *config.Config) *LearningController {
	return &LearningController{
		LearningService: learningService,
		StorageService:  storageService,
		Config:          cfg,
	}
}

// @Summary List learning modules
// @Description Returns the verification curriculum in order
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/learning/modules [get]
func (c *LearningController) GetModules(ctx *gin.Context) {
	modules, err := c.LearningService.ListModules(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, modules)
}

// @Summary Get learning progress
// @Description Returns the caller's progress record, creating it on first access
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/learning/progress [get]
func (c *LearningController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.LearningService.DescribeProgress(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary Mark a video as completed
// @Description Marks the video watched and recomputes verification scores for farmers
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "video id"
// @Success 200 {object} util.Response
// @Router /api/learning/complete-video/{videoId} [post]
func (c *LearningController) CompleteVideo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.LearningService.CompleteVideo(user.UserID, user.Role, ctx.Param("videoId"))
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary Submit a proof image
// @Description Uploads a proof photo for a video's field task and recomputes scores
// @Tags learning
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path string true "video id"
// @Param proof formData file true "proof image (jpeg/png)"
// @Success 200 {object} util.Response
// @Router /api/learning/submit-proof/{videoId} [post]
func (c *LearningController) SubmitProof(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	// Reject unknown video ids before touching storage so a bad request
	// never leaves an orphaned upload behind.
	if err := c.LearningService.VideoKnown(user.UserID, ctx.Param("videoId")); err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("proof")
	if err != nil {
		util.BadRequest(ctx, "No proof image uploaded")
		return
	}

	maxSize := int64(c.Config.Upload.MaxProofSizeMB) * 1024 * 1024
	if fileHeader.Size > maxSize {
		util.BadRequest(ctx, fmt.Sprintf("Proof image exceeds %dMB limit", c.Config.Upload.MaxProofSizeMB))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, util.AllowedProofMimeTypes)
	if err != nil {
		util.BadRequest(ctx, "Only images (jpeg, png) are allowed")
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := fmt.Sprintf("proofs/%d-%d%s", user.UserID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	proofRef, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	result, err := c.LearningService.SubmitProof(user.UserID, user.Role, ctx.Param("videoId"), proofRef)
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary Reset all progress
// @Description Wipes every learner's progress record
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/learning/reset [post]
func (c *LearningController) ResetProgress(ctx *gin.Context) {
	if err := c.LearningService.ResetAllProgress(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "All progress reset"})
}

// @Summary Reseed the curriculum
// @Description Destructively replaces the catalog with the default curriculum
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/learning/seed [post]
func (c *LearningController) ReseedCatalog(ctx *gin.Context) {
	version, err := c.LearningService.ReseedCatalog(ctx.Request.Context(), nil)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"message":         "Catalog reseeded",
		"catalog_version": version,
	})
}
