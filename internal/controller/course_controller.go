package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"agriverse_backend/internal/config"
	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/service"
	"agriverse_backend/internal/util"
	"agriverse_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CourseController struct {
	CourseService  *service.CourseService
	StorageService *service.StorageService
	Config         *config.Config
}

func NewCourseController(courseService *service.CourseService, storageService *service.StorageService, cfg *config.Config) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		StorageService: storageService,
		Config:         cfg,
	}
}

type statusRequest struct {
	Status model.CourseStatus `json:"status" binding:"required"`
}

func parseCourseFilter(ctx *gin.Context) repository.CourseFilter {
	filter := repository.CourseFilter{
		Category: ctx.Query("category"),
		Sort:     ctx.Query("sort"),
		Page:     1,
		Limit:    20,
	}

	if v, err := strconv.Atoi(ctx.Query("page")); err == nil && v > 0 {
		filter.Page = v
	}
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil && v > 0 && v <= 100 {
		filter.Limit = v
	}
	if v, err := strconv.ParseFloat(ctx.Query("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(ctx.Query("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(ctx.Query("min_rating"), 64); err == nil {
		filter.MinRating = &v
	}

	return filter
}

// @Summary Browse published courses
// @Description Lists published courses with category, price and rating filters
// @Tags courses
// @Produce json
// @Param category query string false "category"
// @Param min_price query number false "minimum price"
// @Param max_price query number false "maximum price"
// @Param min_rating query number false "minimum average rating"
// @Param sort query string false "sort: price, -price, rating"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	filter := parseCourseFilter(ctx)

	courses, total, err := c.CourseService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// @Summary Course details
// @Tags courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	payload := gin.H{"course": course}
	// Optional auth on this route: enrolled callers see their enrollment.
	if user := util.GetUserFromContext(ctx); user != nil {
		if enrolled, err := c.CourseService.IsEnrolled(course.ID, user.UserID); err == nil {
			payload["enrolled"] = enrolled
		}
	}

	util.Success(ctx, payload)
}

// @Summary Create a course
// @Description Creates a draft course owned by the calling mentor
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CourseInput true "course payload"
// @Success 201 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body service.CourseInput true "course payload"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(util.MustParseUint(ctx.Param("id")), user.UserID, req)
	if err != nil {
		c.writeCourseError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Change course status
// @Description Moves a course between draft, published and archived
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body statusRequest true "status payload"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/status [put]
func (c *CourseController) UpdateStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req statusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateStatus(util.MustParseUint(ctx.Param("id")), user.UserID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNotCourseOwner):
			util.Forbidden(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, course)
}

// @Summary Upload a course video
// @Description Uploads a video file, probes its duration and attaches it to the course at the given order slot
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param video formData file true "video file"
// @Param title formData string true "video title"
// @Param description formData string false "video description"
// @Param order formData int true "position in the course"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/videos [post]
func (c *CourseController) UploadVideo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "No video file uploaded")
		return
	}

	maxSize := int64(c.Config.Upload.MaxVideoSizeMB) * 1024 * 1024
	if fileHeader.Size > maxSize {
		util.BadRequest(ctx, fmt.Sprintf("Video exceeds %dMB limit", c.Config.Upload.MaxVideoSizeMB))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "Unsupported video format")
		return
	}

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "Video title is required")
		return
	}
	order, err := strconv.Atoi(ctx.PostForm("order"))
	if err != nil || order < 1 {
		util.BadRequest(ctx, "Order must be a positive integer")
		return
	}

	// Spool to a temp file so ffprobe can read it before it is stored.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("course-%d-%d%s", user.UserID, time.Now().UnixNano(), ext))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "Could not read video metadata, the file may be corrupt")
		return
	}

	filename := fmt.Sprintf("courses/%s/%d-%d%s", ctx.Param("id"), order, time.Now().UnixNano(), ext)
	videoURL, err := c.StorageService.UploadFile(ctx.Request.Context(), filename, tmpPath, "video/"+strings.TrimPrefix(ext, "."))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	course, err := c.CourseService.AddVideo(courseID, user.UserID, service.CourseVideoInput{
		Title:       title,
		Description: ctx.PostForm("description"),
		URL:         videoURL,
		Duration:    int(info.Duration),
		Order:       order,
	})
	if err != nil {
		c.writeCourseError(ctx, err)
		return
	}

	// A course without a thumbnail gets one extracted from this upload. A
	// failure here never fails the upload itself.
	if course.Thumbnail == "" {
		thumbnailPath := tmpPath + ".jpg"
		if err := util.GenerateThumbnail(tmpPath, thumbnailPath, "3"); err != nil {
			logger.Log.Error("Failed to generate thumbnail", zap.Uint("course_id", courseID), zap.Error(err))
		} else {
			defer os.Remove(thumbnailPath)
			thumbnailName := fmt.Sprintf("thumbnails/%d-%d.jpg", courseID, time.Now().UnixNano())
			thumbnailURL, err := c.StorageService.UploadFile(ctx.Request.Context(), thumbnailName, thumbnailPath, "image/jpeg")
			if err != nil {
				logger.Log.Error("Failed to store thumbnail", zap.Uint("course_id", courseID), zap.Error(err))
			} else if updated, err := c.CourseService.SetThumbnail(courseID, user.UserID, thumbnailURL); err == nil {
				course = updated
			}
		}
	}

	util.Success(ctx, gin.H{
		"course": course,
		"video_info": gin.H{
			"duration": info.Duration,
			"width":    info.Width,
			"height":   info.Height,
			"format":   info.Format,
		},
	})
}

// @Summary Upload a course thumbnail
// @Description Generates the thumbnail from the first course video, or accepts an uploaded image
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param thumbnail formData file false "thumbnail image (jpeg/png)"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/thumbnail [post]
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	course, err := c.CourseService.Get(courseID)
	if err != nil {
		c.writeCourseError(ctx, err)
		return
	}
	if course.MentorID != user.UserID {
		util.Forbidden(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("thumbnail")
	if err != nil {
		util.BadRequest(ctx, "No thumbnail image uploaded")
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

	filename := fmt.Sprintf("thumbnails/%s-%d%s", ctx.Param("id"), time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	course, err = c.CourseService.SetThumbnail(courseID, user.UserID, url)
	if err != nil {
		c.writeCourseError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"thumbnail": url, "course": course})
}

// @Summary Rate a course
// @Description Records an enrolled buyer's rating; a repeat rating overwrites the previous one
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Param body body service.RatingInput true "rating payload"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/rating [post]
func (c *CourseController) AddRating(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RatingInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.AddRating(util.MustParseUint(ctx.Param("id")), user.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNotEnrolled), errors.Is(err, util.ErrRatingOutOfRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"average_rating": course.AverageRating,
		"ratings":        len(course.Ratings),
	})
}

func (c *CourseController) writeCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrNotCourseOwner):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
