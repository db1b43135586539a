package controller

import (
	"errors"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/service"
	"agriverse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type registerRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Register an account
// @Description Creates a user account with phone and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "registration payload"
// @Success 201 {object} util.Response
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Phone:    req.Phone,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Role:     model.RoleUser,
	}

	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrUserExists) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "role": user.Role})
}

// @Summary Log in
// @Description Authenticates with phone and password and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} util.Response
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "role": user.Role},
	})
}

// @Summary Current user
// @Description Returns the authenticated user's account
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.GetUser(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

type interestsRequest struct {
	Interests []string `json:"interests" binding:"required"`
}

// @Summary Save interests
// @Description Saves at least three interest tags on the caller's account
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body interestsRequest true "interest tags"
// @Success 200 {object} util.Response
// @Router /api/interests [post]
func (c *AuthController) SaveInterests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req interestsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.SaveInterests(claims.UserID, req.Interests)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTooFewInterests):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"message":   "Interests saved successfully",
		"interests": user.Interests,
	})
}

// @Summary Get interests
// @Description Returns the caller's saved interest tags
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/interests [get]
func (c *AuthController) GetInterests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.GetUser(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"interests": user.Interests})
}
